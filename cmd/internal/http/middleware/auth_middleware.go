package middleware

import (
	"context"

	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/infrastructure/identity"
	"remino/cmd/internal/utils"
	"remino/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, apierror.ErrorResponse)
}

// NewAuthMiddleware resolves the bearer token of the request into a user and
// stores both on the echo context. Requests without a valid token get a 401.
func NewAuthMiddleware(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := identity.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(apierror.UnauthorizedError.Code(), apierror.UnauthorizedError)
			}

			user, apierr := auth.Authenticate(c.Request().Context(), token)
			if apierr != nil {
				return c.JSON(apierr.Code(), apierr)
			}

			utils.SetAuthContext(c, user, token)
			return next(c)
		}
	}
}
