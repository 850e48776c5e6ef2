package router

import (
	"slotswapper/core/middleware"
	"slotswapper/modules/marketplace/controller"

	"github.com/labstack/echo/v4"
)

// MarketplaceRouter handles marketplace routes
type MarketplaceRouter struct {
	MarketplaceController *controller.MarketplaceController
}

// NewMarketplaceRouter creates a new router
func NewMarketplaceRouter(marketplaceController *controller.MarketplaceController) *MarketplaceRouter {
	return &MarketplaceRouter{
		MarketplaceController: marketplaceController,
	}
}

// Setup registers marketplace routes
func (r *MarketplaceRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	v1.GET("/marketplace", r.MarketplaceController.ListSwappableSlots, mw.AuthMiddleware())
}
