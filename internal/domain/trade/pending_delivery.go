package trade

import (
	"strings"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/promoshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PendingDelivery is one row of the per-client backlog of undelivered
// quantities. Rows are appended by the fulfillment workflow and are not
// linked back to the order that produced them. Repeated shortfalls for the
// same client and product accumulate as separate rows; nothing merges or
// drains them.
type PendingDelivery struct {
	shared.BaseAggregateRoot
	ClientID    string          `gorm:"type:varchar(100);not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Quantity    int             `gorm:"not null"`
	Category    string          `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (PendingDelivery) TableName() string {
	return "pending_deliveries"
}

// NewPendingDelivery creates a new backlog row
func NewPendingDelivery(clientID string, productID uuid.UUID, productName string, unitPrice decimal.Decimal, quantity int, category string) (*PendingDelivery, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_ID", "Client ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if strings.TrimSpace(productName) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	entry := &PendingDelivery{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		ProductID:         productID,
		ProductName:       productName,
		UnitPrice:         unitPrice,
		Quantity:          quantity,
		Category:          category,
	}

	entry.AddDomainEvent(NewPendingDeliveryRecordedEvent(entry))

	return entry, nil
}

// NewPendingDeliveryFromShortfall creates a backlog row from a fulfillment
// shortfall
func NewPendingDeliveryFromShortfall(clientID string, shortfall Shortfall) (*PendingDelivery, error) {
	return NewPendingDelivery(clientID, shortfall.ProductID, shortfall.ProductName, shortfall.UnitPrice, shortfall.Quantity, shortfall.Category)
}

// OutstandingValue returns quantity times unit price
func (p *PendingDelivery) OutstandingValue() valueobject.Money {
	return valueobject.NewMoneyCHF(p.UnitPrice).MultiplyByInt(int64(p.Quantity))
}
