package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/promoshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	// OrderStatusPending is the initial status of every order
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusPartial means processing left at least one item undelivered
	OrderStatusPartial OrderStatus = "partial"
	// OrderStatusCompleted means every item was delivered in full
	OrderStatusCompleted OrderStatus = "completed"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPartial, OrderStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// ItemDeliveryStatus represents the delivery status of a single order line
type ItemDeliveryStatus string

const (
	// ItemStatusPending means the line has not been through a fulfillment pass yet
	ItemStatusPending ItemDeliveryStatus = "pending"
	// ItemStatusDelivered means the declared quantity covered the requested quantity
	ItemStatusDelivered ItemDeliveryStatus = "delivered"
	// ItemStatusRemaining means some or all of the requested quantity is outstanding
	ItemStatusRemaining ItemDeliveryStatus = "remaining"
)

// IsValid checks if the status is a valid ItemDeliveryStatus
func (s ItemDeliveryStatus) IsValid() bool {
	switch s {
	case ItemStatusPending, ItemStatusDelivered, ItemStatusRemaining:
		return true
	}
	return false
}

// String returns the string representation of ItemDeliveryStatus
func (s ItemDeliveryStatus) String() string {
	return string(s)
}

// OrderItem represents one product line within an order. The product name,
// price and category are snapshots taken at order creation and are never
// refreshed from the catalog. Lines are matched by ProductID during
// fulfillment; the name is display data only.
type OrderItem struct {
	ID                uuid.UUID          `gorm:"type:uuid;primary_key"`
	OrderID           uuid.UUID          `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID          `gorm:"type:uuid;not null;index"`
	ProductName       string             `gorm:"type:varchar(200);not null"`
	UnitPrice         decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	RequestedQuantity int                `gorm:"not null"`
	Category          string             `gorm:"type:varchar(100);not null"`
	DeliveryStatus    ItemDeliveryStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt         time.Time          `gorm:"not null"`
	UpdatedAt         time.Time          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a new order line
func NewOrderItem(orderID, productID uuid.UUID, productName string, unitPrice valueobject.Money, requestedQuantity int, category string) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if strings.TrimSpace(productName) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if requestedQuantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &OrderItem{
		ID:                uuid.New(),
		OrderID:           orderID,
		ProductID:         productID,
		ProductName:       productName,
		UnitPrice:         unitPrice.Amount(),
		RequestedQuantity: requestedQuantity,
		Category:          category,
		DeliveryStatus:    ItemStatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// LineTotal returns requested quantity times unit price
func (i *OrderItem) LineTotal() valueobject.Money {
	return valueobject.NewMoneyCHF(i.UnitPrice).MultiplyByInt(int64(i.RequestedQuantity))
}

// IsDelivered returns true if the line was delivered in full
func (i *OrderItem) IsDelivered() bool {
	return i.DeliveryStatus == ItemStatusDelivered
}

// IsRemaining returns true if the line has outstanding quantity
func (i *OrderItem) IsRemaining() bool {
	return i.DeliveryStatus == ItemStatusRemaining
}

// DeclaredDelivery is an admin-declared delivered quantity for one product.
// Quantities are trusted as declared; nothing validates them against the
// requested quantity beyond the positive-quantity gate in Process.
type DeclaredDelivery struct {
	ProductID uuid.UUID
	Quantity  int
}

// Shortfall describes an undelivered quantity produced by a fulfillment
// pass. The caller records shortfalls in the pending-delivery backlog.
type Shortfall struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Category    string
}

// Order is a client's request for a set of products, processed in one
// fulfillment pass. The order number is a timestamp-derived token used as
// the public identifier; the UUID is internal.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber       string      `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID          string      `gorm:"type:varchar(100);not null;index"`
	Status            OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	OrderDate         time.Time   `gorm:"not null"`
	LastProcessedDate *time.Time
	Items             []OrderItem `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in pending status
func NewOrder(orderNumber, clientID string) (*Order, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if strings.TrimSpace(clientID) == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_ID", "Client ID cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		ClientID:          clientID,
		Status:            OrderStatusPending,
		OrderDate:         time.Now(),
		Items:             make([]OrderItem, 0),
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a product line to the order. Each product may appear on an
// order at most once.
func (o *Order) AddItem(productID uuid.UUID, productName string, unitPrice valueobject.Money, requestedQuantity int, category string) error {
	for _, existing := range o.Items {
		if existing.ProductID == productID {
			return shared.NewDomainError("DUPLICATE_ITEM", fmt.Sprintf("Product %s is already on the order", productName))
		}
	}

	item, err := NewOrderItem(o.ID, productID, productName, unitPrice, requestedQuantity, category)
	if err != nil {
		return err
	}

	o.Items = append(o.Items, *item)
	o.UpdatedAt = time.Now()

	return nil
}

// Process reconciles the order against admin-declared delivered quantities.
//
// For every line: a declared quantity covering the requested quantity marks
// the line delivered; a positive declared quantity below the requested
// quantity marks the line remaining and yields a shortfall for the
// difference; a line with no positive declaration is remaining in full.
// Declarations whose product is not on the order are ignored.
//
// The order ends completed when no line is remaining, partial otherwise,
// and the processing timestamp is recorded. Process does not gate on the
// current status: reprocessing re-evaluates every line and yields the
// shortfalls again, so callers that persist shortfalls accumulate
// duplicates on repeat calls.
func (o *Order) Process(declared []DeclaredDelivery) ([]Shortfall, error) {
	if len(o.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order has no items to process")
	}

	declaredQty := make(map[uuid.UUID]int, len(declared))
	for _, d := range declared {
		if d.Quantity > 0 {
			declaredQty[d.ProductID] = d.Quantity
		}
	}

	now := time.Now()
	shortfalls := make([]Shortfall, 0)

	for i := range o.Items {
		item := &o.Items[i]
		delivered := declaredQty[item.ProductID]

		if delivered >= item.RequestedQuantity {
			item.DeliveryStatus = ItemStatusDelivered
		} else {
			item.DeliveryStatus = ItemStatusRemaining
			shortfalls = append(shortfalls, Shortfall{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				UnitPrice:   item.UnitPrice,
				Quantity:    item.RequestedQuantity - delivered,
				Category:    item.Category,
			})
		}
		item.UpdatedAt = now
	}

	if len(shortfalls) == 0 {
		o.Status = OrderStatusCompleted
	} else {
		o.Status = OrderStatusPartial
	}
	o.LastProcessedDate = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderProcessedEvent(o, shortfalls))

	return shortfalls, nil
}

// Total returns the order total over all requested quantities
func (o *Order) Total() valueobject.Money {
	total := valueobject.ZeroCHF()
	for _, item := range o.Items {
		total = total.MustAdd(item.LineTotal())
	}
	return total
}

// DeliveredItems returns the lines delivered in full
func (o *Order) DeliveredItems() []OrderItem {
	items := make([]OrderItem, 0)
	for _, item := range o.Items {
		if item.IsDelivered() {
			items = append(items, item)
		}
	}
	return items
}

// RemainingItems returns the lines with outstanding quantity
func (o *Order) RemainingItems() []OrderItem {
	items := make([]OrderItem, 0)
	for _, item := range o.Items {
		if item.IsRemaining() {
			items = append(items, item)
		}
	}
	return items
}

// IsPending returns true if the order has not been processed yet
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsPartial returns true if processing left undelivered items
func (o *Order) IsPartial() bool {
	return o.Status == OrderStatusPartial
}

// IsCompleted returns true if every item was delivered in full
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// IsProcessed returns true if the order went through a fulfillment pass
func (o *Order) IsProcessed() bool {
	return o.LastProcessedDate != nil
}

// GenerateOrderNumber derives the public order token from a timestamp.
// Tokens generated within the same millisecond collide; the unique index on
// the column surfaces that as a storage error.
func GenerateOrderNumber(t time.Time) string {
	return fmt.Sprintf("%d", t.UnixMilli())
}
