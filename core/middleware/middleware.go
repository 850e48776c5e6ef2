package middleware

import (
	"context"
	goerrors "errors"
	"strings"

	"slotswapper/core/constants"
	"slotswapper/core/controller"
	"slotswapper/core/errors"
	"slotswapper/core/logger"
	"slotswapper/core/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// TokenChecker is the slice of the auth service the middleware needs.
type TokenChecker interface {
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

type Middleware struct {
	checker TokenChecker
}

func NewMiddleware(checker TokenChecker) *Middleware {
	return &Middleware{checker: checker}
}

// AuthMiddleware resolves the calling principal from the Authorization
// header and stores the claims (and raw token, for logout) on the request
// context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "authorization header must be a bearer token")
			}
			token := parts[1]

			if m.checker != nil {
				blacklisted, err := m.checker.IsTokenBlacklisted(c.Request().Context(), token)
				if err != nil {
					logger.Error("Middleware:AuthMiddleware:IsTokenBlacklisted", "error", err)
					return controller.NewErrorResponse(500, errors.ErrInternalServer, "failed to verify token")
				}
				if blacklisted {
					return controller.NewErrorResponse(401, errors.ErrUnauthorized, "token has been revoked")
				}
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				code := errors.ErrUnauthorized
				if goerrors.Is(err, jwt.ErrTokenExpired) {
					code = errors.ErrTokenExpired
				}
				return controller.NewErrorResponse(401, code, "invalid or expired token")
			}

			c.Set(constants.ContextTokenData, claims)
			c.Set(constants.ContextBearerToken, token)
			return next(c)
		}
	}
}
