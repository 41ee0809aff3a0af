package catalog

import (
	"strings"

	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/promoshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Product represents a purchasable item in the catalog.
// Products are immutable after creation; pricing and category are snapshotted
// into order lines at checkout and never refreshed from here.
type Product struct {
	shared.BaseAggregateRoot
	Name      string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Category  string          `gorm:"type:varchar(100);not null;index"`
	ImageURL  string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new catalog product
func NewProduct(name string, unitPrice valueobject.Money, category, imageURL string) (*Product, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)

	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if len(imageURL) > 500 {
		return nil, shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot exceed 500 characters")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		UnitPrice:         unitPrice.Amount(),
		Category:          category,
		ImageURL:          imageURL,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// GetUnitPriceMoney returns the unit price as a Money value object
func (p *Product) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyCHF(p.UnitPrice)
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

// validateCategory validates the product category
func validateCategory(category string) error {
	if category == "" {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot be empty")
	}
	if len(category) > 100 {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot exceed 100 characters")
	}
	return nil
}
