package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the input for creating a product
type CreateProductRequest struct {
	Name      string          `json:"name" binding:"required,max=200"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
	Category  string          `json:"category" binding:"required,max=100"`
	ImageURL  string          `json:"image_url" binding:"omitempty,max=500"`
}

// ProductListFilter carries the admin listing parameters
type ProductListFilter struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Currency  string          `json:"currency"`
	Category  string          `json:"category"`
	ImageURL  string          `json:"image_url,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToProductResponse converts a domain product to its API representation
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:        product.ID,
		Name:      product.Name,
		UnitPrice: product.UnitPrice,
		Currency:  string(product.GetUnitPriceMoney().Currency()),
		Category:  product.Category,
		ImageURL:  product.ImageURL,
		CreatedAt: product.CreatedAt,
	}
}
