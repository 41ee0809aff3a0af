package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/catalog"
	"github.com/promoshop/backend/internal/domain/partner"
	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/promoshop/backend/internal/domain/trade"
	"github.com/promoshop/backend/internal/infrastructure/telemetry"
)

// OrderService handles order placement and the read side of the order store
type OrderService struct {
	orderRepo      trade.OrderRepository
	pendingRepo    trade.PendingDeliveryRepository
	productRepo    catalog.ProductRepository
	profileRepo    partner.ClientProfileRepository
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	pendingRepo trade.PendingDeliveryRepository,
	productRepo catalog.ProductRepository,
	profileRepo partner.ClientProfileRepository,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		pendingRepo: pendingRepo,
		productRepo: productRepo,
		profileRepo: profileRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create places a new order. Product name, price and category are
// snapshotted from the catalog at this moment and never refreshed.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrClientID, req.ClientID,
		"items_count", len(req.Items),
	)

	productIDs := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productByID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		productByID[products[i].ID] = &products[i]
	}

	order, err := trade.NewOrder(trade.GenerateOrderNumber(time.Now()), req.ClientID)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Items {
		product, ok := productByID[line.ProductID]
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Ordered product does not exist in the catalog")
		}
		if err := order.AddItem(product.ID, product.Name, product.GetUnitPriceMoney(), line.Quantity, product.Category); err != nil {
			return nil, err
		}
	}

	var saveErr error
	telemetry.WithProfilingLabels(ctx, telemetry.TradeOperationLabels(telemetry.OperationPlaceOrder, req.ClientID), func(c context.Context) {
		saveErr = s.orderRepo.Save(c, order)
	})
	if saveErr != nil {
		telemetry.RecordError(span, saveErr)
		return nil, saveErr
	}

	s.publishEvents(ctx, order)

	telemetry.SetAttribute(span, telemetry.SpanAttrOrderNumber, order.OrderNumber)
	response := ToOrderResponse(order)
	return &response, nil
}

// GetOrdersForClient returns all orders of a client, newest first. When the
// client has backlog rows, a virtual pseudo-order with ID "pending-delivery"
// aggregating them by category is prepended to the list.
func (s *OrderService) GetOrdersForClient(ctx context.Context, clientID string) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	entries, err := s.pendingRepo.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, 0, len(orders)+1)
	if len(entries) > 0 {
		responses = append(responses, ToPendingDeliveryOrderResponse(clientID, entries))
	}
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i]))
	}

	return responses, nil
}

// GetPendingOrders returns all unprocessed orders, oldest first, enriched
// with the client profile when one exists.
func (s *OrderService) GetPendingOrders(ctx context.Context) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindPending(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrichWithProfiles(ctx, orders)
}

// GetTreatedOrders returns all processed orders, most recently processed
// first, enriched with the client profile when one exists.
func (s *OrderService) GetTreatedOrders(ctx context.Context) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindTreated(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrichWithProfiles(ctx, orders)
}

// GetOrderDetails returns one order with its full item breakdown. An order
// belonging to a different client is reported as not found.
func (s *OrderService) GetOrderDetails(ctx context.Context, orderNumber, clientID string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order.ClientID != clientID {
		return nil, shared.ErrNotFound
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// List returns orders matching the admin filter with pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "order_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.ClientID != "" {
		domainFilter.Filters["client_id"] = filter.ClientID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}

	return responses, total, nil
}

// enrichWithProfiles attaches client summaries to order responses. Orders
// can reference clients without profiles; those keep a nil summary.
func (s *OrderService) enrichWithProfiles(ctx context.Context, orders []trade.Order) ([]OrderResponse, error) {
	clientIDs := make([]string, 0, len(orders))
	seen := make(map[string]bool, len(orders))
	for i := range orders {
		if !seen[orders[i].ClientID] {
			seen[orders[i].ClientID] = true
			clientIDs = append(clientIDs, orders[i].ClientID)
		}
	}

	profileByClient := make(map[string]*partner.ClientProfile)
	if len(clientIDs) > 0 {
		profiles, err := s.profileRepo.FindByClientIDs(ctx, clientIDs)
		if err != nil {
			return nil, err
		}
		for i := range profiles {
			profileByClient[profiles[i].ClientID] = &profiles[i]
		}
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
		if profile, ok := profileByClient[orders[i].ClientID]; ok {
			responses[i].Client = ToClientSummary(
				profile.ClientID,
				profile.FirstName, profile.LastName,
				profile.Email, profile.Phone,
				profile.ShopName, profile.ShopAddress, profile.ShopCity, profile.ShopZipCode,
			)
		}
	}

	return responses, nil
}

func (s *OrderService) publishEvents(ctx context.Context, order *trade.Order) {
	if s.eventPublisher == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Event delivery is best effort; the order is already persisted.
	_ = s.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
}
