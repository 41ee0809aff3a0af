package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	printingapp "github.com/promoshop/backend/internal/application/printing"
	"github.com/promoshop/backend/internal/domain/printing"
)

// DocumentHandler handles PDF document API endpoints
type DocumentHandler struct {
	BaseHandler
	documentService *printingapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *printingapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// GenerateInvoice godoc
// @Summary      Generate an invoice PDF
// @Description  Renders and stores an invoice for a processed order. Each
// @Description  call produces a new document; earlier ones stay available.
// @Tags         documents
// @Produce      json
// @Param        id path string true "Order number"
// @Param        client_id query string false "Restrict to the order's owner"
// @Success      201 {object} dto.Response{data=printing.DocumentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /documents/orders/{id}/invoice [post]
func (h *DocumentHandler) GenerateInvoice(c *gin.Context) {
	h.generate(c, printing.DocTypeInvoice)
}

// GenerateDeliveryNote godoc
// @Summary      Generate a delivery note PDF
// @Description  Renders and stores a delivery note for a processed order
// @Tags         documents
// @Produce      json
// @Param        id path string true "Order number"
// @Param        client_id query string false "Restrict to the order's owner"
// @Success      201 {object} dto.Response{data=printing.DocumentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /documents/orders/{id}/delivery-note [post]
func (h *DocumentHandler) GenerateDeliveryNote(c *gin.Context) {
	h.generate(c, printing.DocTypeDeliveryNote)
}

func (h *DocumentHandler) generate(c *gin.Context, docType printing.DocType) {
	doc, err := h.documentService.Generate(c.Request.Context(), printingapp.GenerateDocumentRequest{
		DocumentType: string(docType),
		OrderNumber:  c.Param("id"),
		ClientID:     getClientID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, doc)
}

// GetByID godoc
// @Summary      Get a document record
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response{data=printing.DocumentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	doc, err := h.documentService.Get(c.Request.Context(), documentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// GetForOrder godoc
// @Summary      List documents of an order
// @Description  Returns the documents generated for an order, newest first
// @Tags         documents
// @Produce      json
// @Param        id path string true "Order number"
// @Param        type query string false "Document type filter"
// @Success      200 {object} dto.Response{data=[]printing.DocumentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /documents/orders/{id} [get]
func (h *DocumentHandler) GetForOrder(c *gin.Context) {
	docs, err := h.documentService.GetForOrder(c.Request.Context(), c.Param("id"), c.Query("type"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, docs)
}

// List godoc
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Param        document_type query string false "Filter by document type"
// @Param        status query string false "Filter by status"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]printing.DocumentResponse}
// @Router       /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	var filter printingapp.DocumentListFilter
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

	docs, total, err := h.documentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, docs, total, filter.Page, filter.PageSize)
}

// Download godoc
// @Summary      Download a generated PDF
// @Tags         documents
// @Produce      application/pdf
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /documents/{id}/file [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	reader, fileName, err := h.documentService.GetFile(c.Request.Context(), documentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

// GetTypes godoc
// @Summary      List available document types
// @Tags         documents
// @Produce      json
// @Success      200 {object} dto.Response{data=[]printing.DocumentTypeResponse}
// @Router       /documents/types [get]
func (h *DocumentHandler) GetTypes(c *gin.Context) {
	h.Success(c, h.documentService.GetDocumentTypes())
}
