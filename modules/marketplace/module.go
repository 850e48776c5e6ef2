package marketplace

import (
	"slotswapper/core/database"
	"slotswapper/core/middleware"
	eventrepo "slotswapper/modules/event/repository"
	"slotswapper/modules/marketplace/controller"
	"slotswapper/modules/marketplace/router"
	"slotswapper/modules/marketplace/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the marketplace module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) {
	repo := eventrepo.NewEventRepository(&db)
	svc := service.NewMarketplaceService(repo)
	ctrl := controller.NewMarketplaceController(svc)
	rtr := router.NewMarketplaceRouter(ctrl)

	rtr.Setup(e, mw)
}
