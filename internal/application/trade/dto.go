package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// PendingDeliveryOrderID is the order ID of the virtual pseudo-order that
// aggregates a client's backlog in order listings.
const PendingDeliveryOrderID = "pending-delivery"

// ==================== Order DTOs ====================

// CreateOrderRequest represents a request to place a new order
type CreateOrderRequest struct {
	ClientID string                 `json:"client_id" binding:"required,min=1,max=100"`
	Items    []CreateOrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderItemInput represents one cart line in the create order request.
// Name, price and category are snapshotted from the catalog by the service;
// the caller only names the product and quantity.
type CreateOrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// DeliveredItemInput is one admin-declared delivered quantity
type DeliveredItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"min=0"`
}

// ProcessOrderRequest represents an admin's fulfillment declaration
type ProcessOrderRequest struct {
	ClientID       string               `json:"client_id" binding:"required,min=1,max=100"`
	DeliveredItems []DeliveredItemInput `json:"delivered_items"`
}

// OrderListFilter represents filter options for the admin order list
type OrderListFilter struct {
	ClientID string `form:"client_id"`
	Status   string `form:"status"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderItemResponse represents one order line in API responses
type OrderItemResponse struct {
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	RequestedQuantity int             `json:"requested_quantity"`
	Category          string          `json:"category"`
	DeliveryStatus    string          `json:"delivery_status"`
}

// ClientSummary carries the profile fields shown next to an order in the
// admin views. Nil when the client has no profile.
type ClientSummary struct {
	ClientID    string `json:"client_id"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	ShopName    string `json:"shop_name,omitempty"`
	ShopAddress string `json:"shop_address,omitempty"`
	ShopCity    string `json:"shop_city,omitempty"`
	ShopZipCode string `json:"shop_zip_code,omitempty"`
}

// CategoryGroup groups pending-delivery lines by product category on the
// pseudo-order
type CategoryGroup struct {
	Category string              `json:"category"`
	Items    []OrderItemResponse `json:"items"`
}

// OrderResponse represents an order in API responses. The pseudo-order
// aggregating a client's backlog uses OrderID "pending-delivery" and carries
// CategoryGroups instead of order dates.
type OrderResponse struct {
	OrderID           string              `json:"order_id"`
	ClientID          string              `json:"client_id"`
	Status            string              `json:"status"`
	OrderDate         *time.Time          `json:"order_date,omitempty"`
	LastProcessedDate *time.Time          `json:"last_processed_date,omitempty"`
	Items             []OrderItemResponse `json:"items"`
	DeliveredItems    []OrderItemResponse `json:"delivered_items,omitempty"`
	RemainingItems    []OrderItemResponse `json:"remaining_items,omitempty"`
	CategoryGroups    []CategoryGroup     `json:"category_groups,omitempty"`
	Total             decimal.Decimal     `json:"total"`
	Client            *ClientSummary      `json:"client,omitempty"`
}

// ProcessOrderResponse reports the outcome of a fulfillment pass
type ProcessOrderResponse struct {
	OrderID        string `json:"order_id"`
	Status         string `json:"status"`
	ShortfallCount int    `json:"shortfall_count"`
}

// ==================== Converters ====================

// ToOrderItemResponse converts a domain order item to its response DTO
func ToOrderItemResponse(item *trade.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ProductID:         item.ProductID,
		ProductName:       item.ProductName,
		UnitPrice:         item.UnitPrice,
		RequestedQuantity: item.RequestedQuantity,
		Category:          item.Category,
		DeliveryStatus:    string(item.DeliveryStatus),
	}
}

// ToOrderResponse converts a domain order to its response DTO. Delivered and
// remaining item lists are only populated once the order has been processed
// and only when non-empty.
func ToOrderResponse(order *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i := range order.Items {
		items[i] = ToOrderItemResponse(&order.Items[i])
	}

	orderDate := order.OrderDate
	resp := OrderResponse{
		OrderID:           order.OrderNumber,
		ClientID:          order.ClientID,
		Status:            string(order.Status),
		OrderDate:         &orderDate,
		LastProcessedDate: order.LastProcessedDate,
		Items:             items,
		Total:             order.Total().Amount(),
	}

	if delivered := order.DeliveredItems(); len(delivered) > 0 {
		resp.DeliveredItems = make([]OrderItemResponse, len(delivered))
		for i := range delivered {
			resp.DeliveredItems[i] = ToOrderItemResponse(&delivered[i])
		}
	}
	if remaining := order.RemainingItems(); len(remaining) > 0 {
		resp.RemainingItems = make([]OrderItemResponse, len(remaining))
		for i := range remaining {
			resp.RemainingItems[i] = ToOrderItemResponse(&remaining[i])
		}
	}

	return resp
}

// ToPendingDeliveryItemResponse converts a backlog row to an item DTO
func ToPendingDeliveryItemResponse(entry *trade.PendingDelivery) OrderItemResponse {
	return OrderItemResponse{
		ProductID:         entry.ProductID,
		ProductName:       entry.ProductName,
		UnitPrice:         entry.UnitPrice,
		RequestedQuantity: entry.Quantity,
		Category:          entry.Category,
		DeliveryStatus:    string(trade.ItemStatusRemaining),
	}
}

// ToPendingDeliveryOrderResponse synthesizes the pseudo-order over a
// client's backlog rows, grouped by category. Group order follows first
// appearance of each category in the ledger.
func ToPendingDeliveryOrderResponse(clientID string, entries []trade.PendingDelivery) OrderResponse {
	items := make([]OrderItemResponse, len(entries))
	total := decimal.Zero
	groupIndex := make(map[string]int)
	groups := make([]CategoryGroup, 0)

	for i := range entries {
		item := ToPendingDeliveryItemResponse(&entries[i])
		items[i] = item
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.RequestedQuantity))))

		idx, ok := groupIndex[item.Category]
		if !ok {
			idx = len(groups)
			groupIndex[item.Category] = idx
			groups = append(groups, CategoryGroup{Category: item.Category})
		}
		groups[idx].Items = append(groups[idx].Items, item)
	}

	return OrderResponse{
		OrderID:        PendingDeliveryOrderID,
		ClientID:       clientID,
		Status:         string(trade.OrderStatusPartial),
		Items:          items,
		CategoryGroups: groups,
		Total:          total,
	}
}

// ToClientSummary converts a client profile to its order-view summary
func ToClientSummary(clientID, firstName, lastName, email, phone, shopName, shopAddress, shopCity, shopZipCode string) *ClientSummary {
	return &ClientSummary{
		ClientID:    clientID,
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		Phone:       phone,
		ShopName:    shopName,
		ShopAddress: shopAddress,
		ShopCity:    shopCity,
		ShopZipCode: shopZipCode,
	}
}
