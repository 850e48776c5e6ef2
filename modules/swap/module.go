package swap

import (
	"slotswapper/core/database"
	"slotswapper/core/middleware"
	"slotswapper/modules/swap/controller"
	"slotswapper/modules/swap/repository"
	"slotswapper/modules/swap/router"
	"slotswapper/modules/swap/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the swap module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, enqueuer service.TaskEnqueuer) {
	store := repository.NewSwapRepository(&db)
	svc := service.NewSwapService(store, enqueuer)
	ctrl := controller.NewSwapController(svc)
	rtr := router.NewSwapRouter(ctrl)

	rtr.Setup(e, mw)
}
