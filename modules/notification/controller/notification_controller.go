package controller

import (
	"slotswapper/core/constants"
	"slotswapper/core/controller"
	"slotswapper/core/errors"
	"slotswapper/core/logger"
	"slotswapper/core/params"
	"slotswapper/core/utils"
	"slotswapper/modules/notification/dto"
	"slotswapper/modules/notification/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type NotificationController struct {
	controller.BaseController
	service service.NotificationServiceInterface
}

func NewNotificationController(svc service.NotificationServiceInterface) *NotificationController {
	return &NotificationController{
		BaseController: controller.NewBaseController(),
		service:        svc,
	}
}

func (nc *NotificationController) getUserIDFromContext(c echo.Context) (uuid.UUID, error) {
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

// ListNotifications handles GET /notifications
func (nc *NotificationController) ListNotifications(c echo.Context) error {
	userID, err := nc.getUserIDFromContext(c)
	if err != nil {
		return nc.ErrorResponse(c, err)
	}

	qp := params.FromContext(c)

	page, appErr := nc.service.GetByUserID(c.Request().Context(), userID, qp)
	if appErr != nil {
		return nc.ErrorResponse(c, appErr)
	}

	return nc.SuccessResponse(c, page, "notifications retrieved")
}

// MarkAsRead handles PUT /notifications/mark-read
func (nc *NotificationController) MarkAsRead(c echo.Context) error {
	userID, err := nc.getUserIDFromContext(c)
	if err != nil {
		return nc.ErrorResponse(c, err)
	}

	var req dto.MarkAsReadRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("NotificationController:MarkAsRead:Bind", "error", err)
		return nc.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	if appErr := nc.service.MarkAsRead(c.Request().Context(), userID, req.IDs); appErr != nil {
		return nc.ErrorResponse(c, appErr)
	}

	return nc.SuccessResponse(c, nil, "notifications marked as read")
}

// MarkAllAsRead handles PUT /notifications/mark-all-read
func (nc *NotificationController) MarkAllAsRead(c echo.Context) error {
	userID, err := nc.getUserIDFromContext(c)
	if err != nil {
		return nc.ErrorResponse(c, err)
	}

	if appErr := nc.service.MarkAllAsRead(c.Request().Context(), userID); appErr != nil {
		return nc.ErrorResponse(c, appErr)
	}

	return nc.SuccessResponse(c, nil, "all notifications marked as read")
}

// CountUnread handles GET /notifications/unread-count
func (nc *NotificationController) CountUnread(c echo.Context) error {
	userID, err := nc.getUserIDFromContext(c)
	if err != nil {
		return nc.ErrorResponse(c, err)
	}

	count, appErr := nc.service.CountUnread(c.Request().Context(), userID)
	if appErr != nil {
		return nc.ErrorResponse(c, appErr)
	}

	return nc.SuccessResponse(c, dto.UnreadCountResponse{Count: count}, "unread count retrieved")
}
