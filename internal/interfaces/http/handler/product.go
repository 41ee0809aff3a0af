package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/promoshop/backend/internal/application/catalog"
	"github.com/promoshop/backend/internal/interfaces/http/dto"
)

// maxImportFileSize bounds uploaded catalog CSV files (10MB)
const maxImportFileSize = 10 << 20

// ProductHandler handles catalog API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	importService  *catalogapp.ProductImportService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService, importService *catalogapp.ProductImportService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		importService:  importService,
	}
}

// Create godoc
// @Summary      Create a new product
// @Description  Add a product to the promotional goods catalog
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalog.CreateProductRequest true "Product creation request"
// @Success      201 {object} dto.Response{data=catalog.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// GetByID godoc
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.productService.Get(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List godoc
// @Summary      List products
// @Description  List catalog products with optional category filter and name search
// @Tags         products
// @Produce      json
// @Param        category query string false "Filter by category"
// @Param        search query string false "Search by name"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]catalog.ProductResponse}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Delete godoc
// @Summary      Delete a product
// @Description  Remove a product from the catalog. Existing orders keep their snapshots.
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// allowedImportContentTypes lists accepted upload content types for CSV files.
// Browsers and CLI clients disagree on what a .csv is, so be permissive.
var allowedImportContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/octet-stream": true,
	"text/plain":               true,
	"application/vnd.ms-excel": true,
}

// Import godoc
// @Summary      Import products from CSV
// @Description  Bulk-create products from an uploaded CSV file (columns: name, unit_price, category, image_url)
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV file"
// @Success      200 {object} dto.Response{data=catalog.ProductImportResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      415 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/import [post]
func (h *ProductHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImportFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "file exceeds maximum size of 10MB")
		return
	}

	if contentType := header.Header.Get("Content-Type"); contentType != "" && !allowedImportContentTypes[contentType] {
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, "unsupported file type, expected CSV")
		return
	}

	result, err := h.importService.Import(c.Request.Context(), file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
