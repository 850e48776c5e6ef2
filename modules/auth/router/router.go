package router

import (
	"slotswapper/core/middleware"
	"slotswapper/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

// AuthRouter handles auth routes
type AuthRouter struct {
	AuthController *controller.AuthController
}

// NewAuthRouter creates a new router
func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		AuthController: authController,
	}
}

// Setup registers auth routes
func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.POST("/signup", r.AuthController.Signup)
	authRoutes.POST("/login", r.AuthController.Login)

	authRoutes.POST("/logout", r.AuthController.Logout, mw.AuthMiddleware())

	v1.GET("/users/me", r.AuthController.Me, mw.AuthMiddleware())
}
