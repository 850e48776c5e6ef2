package controller

import (
	"slotswapper/core/constants"
	"slotswapper/core/controller"
	"slotswapper/core/errors"
	"slotswapper/core/logger"
	"slotswapper/core/utils"
	"slotswapper/modules/auth/dto"
	"slotswapper/modules/auth/service"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	controller.BaseController
	service service.AuthServiceInterface
}

func NewAuthController(svc service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		service:        svc,
	}
}

// Signup handles POST /auth/signup
func (ac *AuthController) Signup(c echo.Context) error {
	var req dto.SignupRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("AuthController:Signup:Bind", "error", err)
		return ac.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	resp, appErr := ac.service.Signup(c.Request().Context(), &req)
	if appErr != nil {
		return ac.ErrorResponse(c, appErr)
	}

	return ac.CreatedResponse(c, resp, "account created")
}

// Login handles POST /auth/login
func (ac *AuthController) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("AuthController:Login:Bind", "error", err)
		return ac.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	resp, appErr := ac.service.Login(c.Request().Context(), &req)
	if appErr != nil {
		return ac.ErrorResponse(c, appErr)
	}

	return ac.SuccessResponse(c, resp, "logged in")
}

// Logout handles POST /auth/logout
func (ac *AuthController) Logout(c echo.Context) error {
	token, ok := c.Get(constants.ContextBearerToken).(string)
	if !ok || token == "" {
		return ac.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	if appErr := ac.service.Logout(c.Request().Context(), token); appErr != nil {
		return ac.ErrorResponse(c, appErr)
	}

	return ac.SuccessResponse(c, nil, "logged out")
}

// Me handles GET /users/me
func (ac *AuthController) Me(c echo.Context) error {
	claims, ok := c.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return ac.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	user, appErr := ac.service.Me(c.Request().Context(), claims.UserID)
	if appErr != nil {
		return ac.ErrorResponse(c, appErr)
	}

	return ac.SuccessResponse(c, user, "user retrieved")
}
