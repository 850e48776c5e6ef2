package notification

import (
	"slotswapper/core/database"
	"slotswapper/core/middleware"
	"slotswapper/modules/notification/controller"
	"slotswapper/modules/notification/repository"
	"slotswapper/modules/notification/router"
	"slotswapper/modules/notification/service"
	"slotswapper/modules/notification/worker"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Init initializes the notification module: HTTP routes for reading and a
// background worker that persists engine-enqueued notifications.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, mux *asynq.ServeMux) {
	repo := repository.NewNotificationRepository(&db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)
	rtr := router.NewNotificationRouter(ctrl)

	rtr.Setup(e, mw)
	worker.NewWorker(svc).Register(mux)
}
