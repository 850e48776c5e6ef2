package controller

import (
	"slotswapper/core/constants"
	"slotswapper/core/controller"
	"slotswapper/core/errors"
	"slotswapper/core/utils"
	"slotswapper/modules/marketplace/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type MarketplaceController struct {
	controller.BaseController
	service service.MarketplaceServiceInterface
}

func NewMarketplaceController(svc service.MarketplaceServiceInterface) *MarketplaceController {
	return &MarketplaceController{
		BaseController: controller.NewBaseController(),
		service:        svc,
	}
}

func (mc *MarketplaceController) getUserIDFromContext(c echo.Context) (uuid.UUID, error) {
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

// ListSwappableSlots handles GET /swappable-slots
func (mc *MarketplaceController) ListSwappableSlots(c echo.Context) error {
	userID, err := mc.getUserIDFromContext(c)
	if err != nil {
		return mc.ErrorResponse(c, err)
	}

	slots, appErr := mc.service.ListSwappableSlots(c.Request().Context(), userID)
	if appErr != nil {
		return mc.ErrorResponse(c, appErr)
	}

	return mc.SuccessResponse(c, slots, "swappable slots retrieved")
}
