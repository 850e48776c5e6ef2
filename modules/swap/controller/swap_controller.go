package controller

import (
	"slotswapper/core/constants"
	"slotswapper/core/controller"
	"slotswapper/core/errors"
	"slotswapper/core/logger"
	"slotswapper/core/utils"
	"slotswapper/modules/swap/dto"
	"slotswapper/modules/swap/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type SwapController struct {
	controller.BaseController
	service service.SwapServiceInterface
}

func NewSwapController(svc service.SwapServiceInterface) *SwapController {
	return &SwapController{
		BaseController: controller.NewBaseController(),
		service:        svc,
	}
}

func (sc *SwapController) getUserIDFromContext(c echo.Context) (uuid.UUID, error) {
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

// CreateSwapRequest handles POST /swap-requests
func (sc *SwapController) CreateSwapRequest(c echo.Context) error {
	userID, err := sc.getUserIDFromContext(c)
	if err != nil {
		return sc.ErrorResponse(c, err)
	}

	var req dto.CreateSwapRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("SwapController:CreateSwapRequest:Bind", "error", err)
		return sc.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	created, appErr := sc.service.RequestSwap(c.Request().Context(), userID, &req)
	if appErr != nil {
		return sc.ErrorResponse(c, appErr)
	}

	return sc.CreatedResponse(c, created, "swap request created")
}

// RespondSwapRequest handles POST /swap-requests/:id/respond
func (sc *SwapController) RespondSwapRequest(c echo.Context) error {
	userID, err := sc.getUserIDFromContext(c)
	if err != nil {
		return sc.ErrorResponse(c, err)
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return sc.BadRequest(errors.ErrInvalidInput, "invalid swap request id")
	}

	var req dto.RespondSwapRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("SwapController:RespondSwapRequest:Bind", "error", err)
		return sc.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	resolved, appErr := sc.service.Respond(c.Request().Context(), userID, requestID, req.Accept)
	if appErr != nil {
		return sc.ErrorResponse(c, appErr)
	}

	return sc.SuccessResponse(c, resolved, "swap request resolved")
}

// ListIncoming handles GET /swap-requests/incoming
func (sc *SwapController) ListIncoming(c echo.Context) error {
	userID, err := sc.getUserIDFromContext(c)
	if err != nil {
		return sc.ErrorResponse(c, err)
	}

	details, appErr := sc.service.ListIncoming(c.Request().Context(), userID)
	if appErr != nil {
		return sc.ErrorResponse(c, appErr)
	}

	return sc.SuccessResponse(c, details, "incoming swap requests retrieved")
}

// ListOutgoing handles GET /swap-requests/outgoing
func (sc *SwapController) ListOutgoing(c echo.Context) error {
	userID, err := sc.getUserIDFromContext(c)
	if err != nil {
		return sc.ErrorResponse(c, err)
	}

	details, appErr := sc.service.ListOutgoing(c.Request().Context(), userID)
	if appErr != nil {
		return sc.ErrorResponse(c, appErr)
	}

	return sc.SuccessResponse(c, details, "outgoing swap requests retrieved")
}
