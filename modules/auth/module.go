package auth

import (
	"slotswapper/core/cache"
	"slotswapper/core/database"
	"slotswapper/core/middleware"
	"slotswapper/modules/auth/controller"
	"slotswapper/modules/auth/repository"
	"slotswapper/modules/auth/router"
	"slotswapper/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the auth module and returns the auth middleware the other
// modules mount on their routes.
func Init(e *echo.Echo, db database.Database, c cache.Cache) *middleware.Middleware {
	repo := repository.NewAuthRepository(&db)
	svc := service.NewAuthService(repo, c)
	ctrl := controller.NewAuthController(svc)
	mw := middleware.NewMiddleware(svc)

	router.NewAuthRouter(ctrl).Setup(e, mw)
	return mw
}
