package handler

import (
	"net/http"

	"remino/cmd/internal/contract"
	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/utils"
	"remino/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type CategoryService interface {
	ListCategories(actor *entity.User) ([]*contract.CategoryResponse, apierror.ErrorResponse)
	GetCategory(actor *entity.User, id int64) (*contract.CategoryResponse, apierror.ErrorResponse)
	CreateCategory(actor *entity.User, req *contract.CategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse)
	ReplaceCategory(actor *entity.User, id int64, req *contract.CategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse)
	UpdateCategory(actor *entity.User, id int64, req *contract.UpdateCategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse)
	DeleteCategory(actor *entity.User, id int64) apierror.ErrorResponse
}

type DefaultCategoryRoute struct {
	CategoryService CategoryService
}

func NewCategoryDefault(categoryService CategoryService) *DefaultCategoryRoute {
	return &DefaultCategoryRoute{CategoryService: categoryService}
}

func (r *DefaultCategoryRoute) GetCategories(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	categories, apierr := r.CategoryService.ListCategories(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"categories": categories}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultCategoryRoute) GetCategory(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := parseID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	category, apierr := r.CategoryService.GetCategory(user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, category)
}

func (r *DefaultCategoryRoute) CreateCategory(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.CategoryRequest
	if apierr := bindJSON(c, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	category, apierr := r.CategoryService.CreateCategory(user, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, category)
}

func (r *DefaultCategoryRoute) ReplaceCategory(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := parseID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.CategoryRequest
	if apierr := bindJSON(c, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	category, apierr := r.CategoryService.ReplaceCategory(user, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, category)
}

func (r *DefaultCategoryRoute) UpdateCategory(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := parseID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.UpdateCategoryRequest
	if apierr := bindJSON(c, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	category, apierr := r.CategoryService.UpdateCategory(user, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, category)
}

func (r *DefaultCategoryRoute) DeleteCategory(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := parseID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if apierr := r.CategoryService.DeleteCategory(user, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}
