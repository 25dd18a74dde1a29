package utils

import (
	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const (
	ctxUserKey  = "user"
	ctxTokenKey = "token"
)

// SetAuthContext stores the authenticated user and the raw bearer token on the request.
func SetAuthContext(c echo.Context, user *entity.User, token string) {
	c.Set(ctxUserKey, user)
	c.Set(ctxTokenKey, token)
}

func GetUserFromContext(c echo.Context) (*entity.User, apierror.ErrorResponse) {
	val := c.Get(ctxUserKey)
	if val == nil {
		log.Warnf("route %s attempted to read nil user from context", c.Request().URL)
		return nil, apierror.UnauthorizedError
	}

	user, ok := val.(*entity.User)
	if !ok {
		log.Warnf("expected user type at 'user' context key, got %T", val)
		return nil, apierror.InternalServerError
	}
	return user, nil
}

func GetTokenFromContext(c echo.Context) (string, apierror.ErrorResponse) {
	token, ok := c.Get(ctxTokenKey).(string)
	if !ok || token == "" {
		return "", apierror.UnauthorizedError
	}
	return token, nil
}
