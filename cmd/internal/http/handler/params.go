package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/service"
	"remino/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

func parseID(c echo.Context) (int64, apierror.ErrorResponse) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.NewInvalidParamTypeError("id", "positive integer")
	}
	return id, nil
}

func listQuery(c echo.Context) entity.ListQuery {
	return entity.ListQuery{
		Search:   c.QueryParam("search"),
		Ordering: c.QueryParam("ordering"),
	}
}

// bindJSON decodes a JSON body into req.
func bindJSON(c echo.Context, req any) apierror.ErrorResponse {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if c.Request().ContentLength != 0 && !strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		return apierror.InvalidMediaTypeError
	}

	if err := c.Bind(req); err != nil {
		return apierror.MalformedBodyError
	}
	return nil
}

// bindWithAttachments accepts either a JSON body or a multipart form carrying the
// JSON body in its 'json_payload' field plus the optional 'image' and 'file' parts.
func bindWithAttachments(c echo.Context, req any) (*service.Attachments, apierror.ErrorResponse) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)

	if !strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		return nil, bindJSON(c, req)
	}

	payload := strings.TrimSpace(c.FormValue("json_payload"))
	if payload == "" {
		return nil, apierror.FormJSONRequiredError
	}

	if err := json.Unmarshal([]byte(payload), req); err != nil {
		return nil, apierror.MalformedBodyError
	}

	image, apierr := formFile(c, "image")
	if apierr != nil {
		return nil, apierr
	}

	file, apierr := formFile(c, "file")
	if apierr != nil {
		return nil, apierr
	}
	return &service.Attachments{Image: image, File: file}, nil
}

func formFile(c echo.Context, name string) (*multipart.FileHeader, apierror.ErrorResponse) {
	fh, err := c.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}

	if err != nil {
		return nil, apierror.MalformedBodyError
	}
	return fh, nil
}
