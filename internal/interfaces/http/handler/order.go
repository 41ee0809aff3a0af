package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/promoshop/backend/internal/application/trade"
)

// OrderHandler handles order and fulfillment API endpoints
type OrderHandler struct {
	BaseHandler
	orderService       *tradeapp.OrderService
	fulfillmentService *tradeapp.FulfillmentService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService, fulfillmentService *tradeapp.FulfillmentService) *OrderHandler {
	return &OrderHandler{
		orderService:       orderService,
		fulfillmentService: fulfillmentService,
	}
}

// Create godoc
// @Summary      Place a new order
// @Description  Creates an order from catalog products, snapshotting name, price and category per line
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body trade.CreateOrderRequest true "Order creation request"
// @Success      201 {object} dto.Response{data=trade.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// List godoc
// @Summary      List orders
// @Description  With a client_id, returns that client's orders newest first,
// @Description  prepending the pending-delivery pseudo-order when a backlog
// @Description  exists. Without one, returns the paginated admin listing.
// @Tags         orders
// @Produce      json
// @Param        client_id query string false "Client ID"
// @Param        status query string false "Filter by order status (admin listing)"
// @Param        page query int false "Page number (admin listing)"
// @Param        page_size query int false "Page size (admin listing)"
// @Success      200 {object} dto.Response{data=[]trade.OrderResponse}
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	if clientID := getClientID(c); clientID != "" {
		orders, err := h.orderService.GetOrdersForClient(c.Request.Context(), clientID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, orders)
		return
	}

	var filter tradeapp.OrderListFilter
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

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Pending godoc
// @Summary      List pending orders
// @Description  Back-office view of unprocessed orders, oldest first, with client summaries
// @Tags         orders
// @Produce      json
// @Success      200 {object} dto.Response{data=[]trade.OrderResponse}
// @Router       /orders/pending [get]
func (h *OrderHandler) Pending(c *gin.Context) {
	orders, err := h.orderService.GetPendingOrders(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// Treated godoc
// @Summary      List treated orders
// @Description  Back-office view of processed orders, most recently processed first
// @Tags         orders
// @Produce      json
// @Success      200 {object} dto.Response{data=[]trade.OrderResponse}
// @Router       /orders/treated [get]
func (h *OrderHandler) Treated(c *gin.Context) {
	orders, err := h.orderService.GetTreatedOrders(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// Details godoc
// @Summary      Get order details
// @Description  Returns one order with its full item breakdown. Orders of
// @Description  other clients are reported as not found.
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order number"
// @Param        client_id query string true "Client ID"
// @Success      200 {object} dto.Response{data=trade.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id} [get]
func (h *OrderHandler) Details(c *gin.Context) {
	clientID := getClientID(c)
	if clientID == "" {
		h.BadRequest(c, "client_id is required")
		return
	}

	order, err := h.orderService.GetOrderDetails(c.Request.Context(), c.Param("id"), clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Process godoc
// @Summary      Process an order
// @Description  Applies the admin's declared deliveries to the order,
// @Description  marking each line delivered or remaining and appending one
// @Description  backlog row per shortfall
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order number"
// @Param        request body trade.ProcessOrderRequest true "Declared deliveries"
// @Success      200 {object} dto.Response{data=trade.ProcessOrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/process [post]
func (h *OrderHandler) Process(c *gin.Context) {
	var req tradeapp.ProcessOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.fulfillmentService.ProcessOrder(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
