package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/promoshop/backend/internal/interfaces/http/router"
)

// OrderRoutes creates the route group for order and fulfillment endpoints
func OrderRoutes(handler *OrderHandler) *router.DomainGroup {
	group := router.NewDomainGroup("orders", "/orders")

	group.POST("", handler.Create)
	group.GET("", handler.List)
	group.GET("/pending", handler.Pending)
	group.GET("/treated", handler.Treated)
	group.GET("/:id", handler.Details)
	group.POST("/:id/process", handler.Process)

	return group
}

// ProductRoutes creates the route group for catalog endpoints. The
// importGuards run before the CSV import handler so it can carry a
// stricter rate limit than the rest of the API.
func ProductRoutes(handler *ProductHandler, importGuards ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("products", "/products")

	group.POST("", handler.Create)
	group.POST("/import", append(importGuards, handler.Import)...)
	group.GET("", handler.List)
	group.GET("/:id", handler.GetByID)
	group.DELETE("/:id", handler.Delete)

	return group
}

// ProfileRoutes creates the route group for client profile endpoints
func ProfileRoutes(handler *ProfileHandler) *router.DomainGroup {
	group := router.NewDomainGroup("profiles", "/profiles")

	group.GET("", handler.List)
	group.PUT("/:client_id", handler.Upsert)
	group.GET("/:client_id", handler.Get)

	return group
}

// DocumentRoutes creates the route group for PDF document endpoints
func DocumentRoutes(handler *DocumentHandler) *router.DomainGroup {
	group := router.NewDomainGroup("documents", "/documents")

	group.GET("", handler.List)
	group.GET("/types", handler.GetTypes)
	group.GET("/:id", handler.GetByID)
	group.GET("/:id/file", handler.Download)

	// Per-order generation and lookup
	group.GET("/orders/:id", handler.GetForOrder)
	group.POST("/orders/:id/invoice", handler.GenerateInvoice)
	group.POST("/orders/:id/delivery-note", handler.GenerateDeliveryNote)

	return group
}

// OutboxRoutes creates the route group for outbox management endpoints
func OutboxRoutes(handler *OutboxHandler) *router.DomainGroup {
	group := router.NewDomainGroup("outbox", "/system/outbox")

	group.GET("/stats", handler.GetStats)
	group.GET("/dead", handler.GetDeadLetterEntries)
	group.POST("/dead/retry-all", handler.RetryAllDeadEntries)
	group.GET("/:id", handler.GetEntry)
	group.POST("/:id/retry", handler.RetryDeadEntry)

	return group
}

// SystemRoutes creates the route group for system endpoints
func SystemRoutes(handler *SystemHandler) *router.DomainGroup {
	group := router.NewDomainGroup("system", "/system")

	group.GET("/info", handler.GetSystemInfo)
	group.GET("/ping", handler.Ping)

	return group
}
