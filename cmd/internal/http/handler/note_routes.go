package handler

import (
	"context"
	"net/http"

	"remino/cmd/internal/contract"
	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/service"
	"remino/cmd/internal/utils"
	"remino/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type NoteService interface {
	ListNotes(actor *entity.User, q entity.ListQuery) ([]*contract.NoteResponse, apierror.ErrorResponse)
	GetNote(actor *entity.User, id int64) (*contract.NoteResponse, apierror.ErrorResponse)
	CreateNote(ctx context.Context, actor *entity.User, req *contract.NoteRequest, files *service.Attachments) (*contract.NoteResponse, apierror.ErrorResponse)
	ReplaceNote(ctx context.Context, actor *entity.User, id int64, req *contract.NoteRequest, files *service.Attachments) (*contract.NoteResponse, apierror.ErrorResponse)
	UpdateNote(ctx context.Context, actor *entity.User, id int64, req *contract.UpdateNoteRequest, files *service.Attachments) (*contract.NoteResponse, apierror.ErrorResponse)
	DeleteNote(ctx context.Context, actor *entity.User, id int64) apierror.ErrorResponse
}

type DefaultNoteRoute struct {
	NoteService NoteService
}

func NewNoteDefault(noteService NoteService) *DefaultNoteRoute {
	return &DefaultNoteRoute{NoteService: noteService}
}

func (n *DefaultNoteRoute) GetNotes(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	notes, apierr := n.NoteService.ListNotes(user, listQuery(c))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"notes": notes}
	return c.JSON(http.StatusOK, &resp)
}

func (n *DefaultNoteRoute) GetNote(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := parseID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	note, apierr := n.NoteService.GetNote(user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, note)
}

func (n *DefaultNoteRoute) CreateNote(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.NoteRequest
	files, apierr := bindWithAttachments(c, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	note, apierr := n.NoteService.CreateNote(c.Request().Context(), user, &req, files)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, note)
}

func (n *DefaultNoteRoute) ReplaceNote(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := parseID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.NoteRequest
	files, apierr := bindWithAttachments(c, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	note, apierr := n.NoteService.ReplaceNote(c.Request().Context(), user, id, &req, files)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, note)
}

func (n *DefaultNoteRoute) UpdateNote(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := parseID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.UpdateNoteRequest
	files, apierr := bindWithAttachments(c, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	note, apierr := n.NoteService.UpdateNote(c.Request().Context(), user, id, &req, files)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, note)
}

func (n *DefaultNoteRoute) DeleteNote(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := parseID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if apierr := n.NoteService.DeleteNote(c.Request().Context(), user, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}
