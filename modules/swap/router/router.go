package router

import (
	"slotswapper/core/middleware"
	"slotswapper/modules/swap/controller"

	"github.com/labstack/echo/v4"
)

// SwapRouter handles swap-request routes
type SwapRouter struct {
	SwapController *controller.SwapController
}

// NewSwapRouter creates a new router
func NewSwapRouter(swapController *controller.SwapController) *SwapRouter {
	return &SwapRouter{
		SwapController: swapController,
	}
}

// Setup registers swap-request routes
func (r *SwapRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	swapRoutes := v1.Group("/swap-requests", mw.AuthMiddleware())

	swapRoutes.POST("", r.SwapController.CreateSwapRequest)
	swapRoutes.GET("/incoming", r.SwapController.ListIncoming)
	swapRoutes.GET("/outgoing", r.SwapController.ListOutgoing)
	swapRoutes.POST("/:id/respond", r.SwapController.RespondSwapRequest)
}
