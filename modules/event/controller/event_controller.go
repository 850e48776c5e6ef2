package controller

import (
	"slotswapper/core/constants"
	"slotswapper/core/controller"
	"slotswapper/core/errors"
	"slotswapper/core/logger"
	"slotswapper/core/utils"
	"slotswapper/modules/event/dto"
	"slotswapper/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EventController struct {
	controller.BaseController
	service service.EventServiceInterface
}

func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		service:        svc,
	}
}

func (ec *EventController) getUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	tokenData := c.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "user not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "invalid token data", nil)
	}

	return claims.UserID, nil
}

// CreateEvent handles POST /events
func (ec *EventController) CreateEvent(c echo.Context) error {
	userID, err := ec.getUserIDFromContext(c)
	if err != nil {
		return ec.ErrorResponse(c, err)
	}

	var req dto.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("EventController:CreateEvent:Bind", "error", err)
		return ec.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	event, appErr := ec.service.Create(c.Request().Context(), userID, &req)
	if appErr != nil {
		return ec.ErrorResponse(c, appErr)
	}

	return ec.CreatedResponse(c, event, "event created")
}

// ListEvents handles GET /events
func (ec *EventController) ListEvents(c echo.Context) error {
	userID, err := ec.getUserIDFromContext(c)
	if err != nil {
		return ec.ErrorResponse(c, err)
	}

	events, appErr := ec.service.List(c.Request().Context(), userID)
	if appErr != nil {
		return ec.ErrorResponse(c, appErr)
	}

	return ec.SuccessResponse(c, events, "events retrieved")
}

// UpdateEvent handles PUT /events/:id
func (ec *EventController) UpdateEvent(c echo.Context) error {
	userID, err := ec.getUserIDFromContext(c)
	if err != nil {
		return ec.ErrorResponse(c, err)
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ec.BadRequest(errors.ErrInvalidInput, "invalid event id")
	}

	var req dto.UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("EventController:UpdateEvent:Bind", "error", err)
		return ec.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	event, appErr := ec.service.Update(c.Request().Context(), userID, eventID, &req)
	if appErr != nil {
		return ec.ErrorResponse(c, appErr)
	}

	return ec.SuccessResponse(c, event, "event updated")
}

// DeleteEvent handles DELETE /events/:id
func (ec *EventController) DeleteEvent(c echo.Context) error {
	userID, err := ec.getUserIDFromContext(c)
	if err != nil {
		return ec.ErrorResponse(c, err)
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ec.BadRequest(errors.ErrInvalidInput, "invalid event id")
	}

	if appErr := ec.service.Delete(c.Request().Context(), userID, eventID); appErr != nil {
		return ec.ErrorResponse(c, appErr)
	}

	return ec.SuccessResponse(c, nil, "event deleted")
}
