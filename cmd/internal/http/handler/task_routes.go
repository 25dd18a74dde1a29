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

type TaskService interface {
	ListTasks(actor *entity.User, q entity.ListQuery) ([]*contract.TaskResponse, apierror.ErrorResponse)
	GetTask(actor *entity.User, id int64) (*contract.TaskResponse, apierror.ErrorResponse)
	CreateTask(ctx context.Context, actor *entity.User, req *contract.TaskRequest) (*contract.TaskResponse, apierror.ErrorResponse)
	ReplaceTask(ctx context.Context, actor *entity.User, id int64, req *contract.TaskRequest) (*contract.TaskResponse, apierror.ErrorResponse)
	UpdateTask(ctx context.Context, actor *entity.User, id int64, req *contract.UpdateTaskRequest) (*contract.TaskResponse, apierror.ErrorResponse)
	DeleteTask(actor *entity.User, id int64) apierror.ErrorResponse
}

type DefaultTaskRoute struct {
	TaskService TaskService
}

func NewTaskDefault(taskService TaskService) *DefaultTaskRoute {
	return &DefaultTaskRoute{TaskService: taskService}
}

func (t *DefaultTaskRoute) GetTasks(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	tasks, apierr := t.TaskService.ListTasks(user, listQuery(c))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"tasks": tasks}
	return c.JSON(http.StatusOK, &resp)
}

func (t *DefaultTaskRoute) GetTask(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := parseID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	task, apierr := t.TaskService.GetTask(user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, task)
}

func (t *DefaultTaskRoute) CreateTask(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.TaskRequest
	if apierr := bindJSON(c, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	task, apierr := t.TaskService.CreateTask(c.Request().Context(), user, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, task)
}

func (t *DefaultTaskRoute) ReplaceTask(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := parseID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.TaskRequest
	if apierr := bindJSON(c, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	task, apierr := t.TaskService.ReplaceTask(c.Request().Context(), user, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, task)
}

func (t *DefaultTaskRoute) UpdateTask(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := parseID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.UpdateTaskRequest
	if apierr := bindJSON(c, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	task, apierr := t.TaskService.UpdateTask(c.Request().Context(), user, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, task)
}

func (t *DefaultTaskRoute) DeleteTask(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := parseID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if apierr := t.TaskService.DeleteTask(user, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}
