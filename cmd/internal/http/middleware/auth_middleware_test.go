package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/utils"
	"remino/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type fakeAuth struct {
	tokens map[string]*entity.User
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*entity.User, apierror.ErrorResponse) {
	if u, ok := f.tokens[token]; ok {
		return u, nil
	}
	return nil, apierror.InvalidAuthTokenError
}

func run(header string) (*httptest.ResponseRecorder, *entity.User) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *entity.User
	auth := &fakeAuth{tokens: map[string]*entity.User{"good": {ID: 1, Username: "alice"}}}
	handler := NewAuthMiddleware(auth)(func(c echo.Context) error {
		seen, _ = utils.GetUserFromContext(c)
		return c.NoContent(http.StatusOK)
	})

	_ = handler(c)
	return rec, seen
}

func TestAuthMiddleware(t *testing.T) {
	rec, user := run("Bearer good")
	assert.Equal(t, http.StatusOK, rec.Code)
	if assert.NotNil(t, user) {
		assert.Equal(t, int64(1), user.ID)
	}

	rec, user = run("")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)

	rec, _ = run("Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = run("Token good")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
