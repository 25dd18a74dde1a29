package handler

import (
	"context"
	"net/http"

	"remino/cmd/internal/contract"
	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/utils"
	"remino/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type AuthService interface {
	Register(ctx context.Context, req *contract.RegisterRequest) (*contract.RegisterResponse, apierror.ErrorResponse)
	Login(ctx context.Context, req *contract.LoginRequest) (*contract.LoginResponse, apierror.ErrorResponse)
	Logout(ctx context.Context, actor *entity.User, token string) (*contract.MessageResponse, apierror.ErrorResponse)
}

type DefaultAuthRoute struct {
	AuthService AuthService
}

func NewAuthDefault(authService AuthService) *DefaultAuthRoute {
	return &DefaultAuthRoute{AuthService: authService}
}

func (a *DefaultAuthRoute) Register(c echo.Context) error {
	var req contract.RegisterRequest
	if apierr := bindJSON(c, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp, apierr := a.AuthService.Register(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (a *DefaultAuthRoute) Login(c echo.Context) error {
	var req contract.LoginRequest
	if apierr := bindJSON(c, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp, apierr := a.AuthService.Login(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *DefaultAuthRoute) Logout(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	token, cerr := utils.GetTokenFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	resp, apierr := a.AuthService.Logout(c.Request().Context(), user, token)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
