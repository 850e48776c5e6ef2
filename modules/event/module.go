package event

import (
	"slotswapper/core/database"
	"slotswapper/core/middleware"
	"slotswapper/modules/event/controller"
	"slotswapper/modules/event/repository"
	"slotswapper/modules/event/router"
	"slotswapper/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the event module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) {
	repo := repository.NewEventRepository(&db)
	svc := service.NewEventService(repo)
	ctrl := controller.NewEventController(svc)
	rtr := router.NewEventRouter(ctrl)

	rtr.Setup(e, mw)
}
