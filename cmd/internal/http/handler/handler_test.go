package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"remino/cmd/internal/domain/events"
	"remino/cmd/internal/domain/sqlite"
	"remino/cmd/internal/domain/sqlite/repository"
	"remino/cmd/internal/http/middleware"
	"remino/cmd/internal/infrastructure/identity"
	"remino/cmd/internal/infrastructure/mail"
	"remino/cmd/internal/service"
	"remino/cmd/internal/utils/uid"
	"remino/cmd/internal/utils/validators"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type outbox struct {
	mu   sync.Mutex
	sent []*mail.Message
}

func (o *outbox) Send(_ context.Context, msg *mail.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

func (o *outbox) to(addr string) []*mail.Message {
	o.mu.Lock()
	defer o.mu.Unlock()

	var out []*mail.Message
	for _, m := range o.sent {
		if m.To == addr {
			out = append(out, m)
		}
	}
	return out
}

type server struct {
	t    *testing.T
	echo *echo.Echo
	mail *outbox
}

func newServer(t *testing.T) *server {
	t.Helper()
	require.NoError(t, uid.Init(1))

	db, err := sqlite.Init(":memory:")
	require.NoError(t, err)

	validate := validators.New()
	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	box := &outbox{}
	bus := events.NewBus(false)
	service.NewNotifier(box, "https://remino.test").Subscribe(bus)

	provider := identity.NewLocalProvider(db, "secret", time.Hour, identity.WithBcryptCost(bcrypt.MinCost))
	authService := service.NewAuthService(userRepo, tokenRepo, provider, validate)

	routes := &Routes{
		Auth:       NewAuthDefault(authService),
		Notes:      NewNoteDefault(service.NewNoteService(noteRepo, userRepo, categoryRepo, nil, bus, validate)),
		Tasks:      NewTaskDefault(service.NewTaskService(taskRepo, userRepo, categoryRepo, bus, validate)),
		Categories: NewCategoryDefault(service.NewCategoryService(categoryRepo, validate)),
	}

	e := echo.New()
	e.Pre(echomw.AddTrailingSlash())
	Register(e, routes, middleware.NewAuthMiddleware(authService))
	return &server{t: t, echo: e, mail: box}
}

func (s *server) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

// register signs a user up and returns its access token.
func (s *server) register(name string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/auth/register", "", echo.Map{
		"username":  name,
		"email":     name + "@x.com",
		"password":  "Secret123",
		"password2": "Secret123",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Access string `json:"access"`
	}
	decode(s.t, rec, &resp)
	return resp.Access
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type noteBody struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	IsShared    bool   `json:"is_shared"`
	SharedUsers []struct {
		Email string `json:"email"`
	} `json:"shared_users"`
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestAuthFlow(t *testing.T) {
	s := newServer(t)
	token := s.register("alice")

	rec := s.do(http.MethodPost, "/auth/register", "", echo.Map{
		"username":  "alice",
		"email":     "other@x.com",
		"password":  "Secret123",
		"password2": "Secret123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username")

	rec = s.do(http.MethodPost, "/auth/login", "", echo.Map{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/auth/login", "", echo.Map{"username": "alice", "password": "Secret123"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/notes/", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNotesRequireAuthentication(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodGet, "/notes/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNoteSharingFlow(t *testing.T) {
	s := newServer(t)
	alice := s.register("alice")
	bob := s.register("bob")
	carol := s.register("carol")

	rec := s.do(http.MethodPost, "/notes/", alice, echo.Map{
		"title":       "Groceries",
		"content":     "milk",
		"shared_with": []string{"bob@x.com", "alice@x.com"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var note noteBody
	decode(t, rec, &note)
	assert.True(t, note.IsShared)
	require.Len(t, note.SharedUsers, 1)
	assert.Equal(t, "bob@x.com", note.SharedUsers[0].Email)

	mails := s.mail.to("bob@x.com")
	require.Len(t, mails, 1)
	assert.Equal(t, "alice shared a note with you", mails[0].Subject)
	assert.Empty(t, s.mail.to("alice@x.com"))

	path := "/notes/" + itoa(note.ID) + "/"

	// Collaborators read but never write.
	rec = s.do(http.MethodGet, path, bob, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPatch, path, bob, echo.Map{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Strangers do not even see it.
	rec = s.do(http.MethodGet, path, carol, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/notes/", carol, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Notes []noteBody `json:"notes"`
	}
	decode(t, rec, &list)
	assert.Empty(t, list.Notes)

	rec = s.do(http.MethodGet, "/notes/", bob, nil)
	decode(t, rec, &list)
	assert.Len(t, list.Notes, 1)

	// Unknown collaborators reject the whole update.
	rec = s.do(http.MethodPatch, path, alice, echo.Map{
		"title":       "Renamed",
		"shared_with": []string{"ghost@x.com"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ghost@x.com")

	rec = s.do(http.MethodGet, path, alice, nil)
	decode(t, rec, &note)
	assert.Equal(t, "Groceries", note.Title)
	assert.Len(t, note.SharedUsers, 1)

	// An empty list revokes every share.
	rec = s.do(http.MethodPatch, path, alice, echo.Map{"shared_with": []string{}})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &note)
	assert.False(t, note.IsShared)

	rec = s.do(http.MethodGet, path, bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, path, alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNoteBadRequests(t *testing.T) {
	s := newServer(t)
	alice := s.register("alice")

	rec := s.do(http.MethodGet, "/notes/abc/", alice, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/notes/", alice, echo.Map{"content": "no title"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title")

	req := httptest.NewRequest(http.MethodPost, "/notes/", bytes.NewReader([]byte("title=x")))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+alice)
	rec = httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestNoteMultipartWithoutStorage(t *testing.T) {
	s := newServer(t)
	alice := s.register("alice")

	send := func(withImage bool) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("json_payload", `{"title":"Photo","content":"see image"}`))
		if withImage {
			part, err := w.CreateFormFile("image", "cat.png")
			require.NoError(t, err)
			_, err = part.Write([]byte("png"))
			require.NoError(t, err)
		}
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/notes/", &buf)
		req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+alice)
		rec := httptest.NewRecorder()
		s.echo.ServeHTTP(rec, req)
		return rec
	}

	rec := send(false)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = send(true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not enabled")
}

func TestTaskFlow(t *testing.T) {
	s := newServer(t)
	alice := s.register("alice")
	bob := s.register("bob")

	due := time.Now().UTC().Add(2 * time.Hour).Format(time.RFC3339)
	rec := s.do(http.MethodPost, "/tasks/", alice, echo.Map{
		"title":       "Report",
		"description": "quarterly",
		"due_date":    due,
		"shared_with": []string{"bob@x.com"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var task struct {
		ID          int64 `json:"id"`
		IsCompleted bool  `json:"is_completed"`
	}
	decode(t, rec, &task)
	require.Len(t, s.mail.to("bob@x.com"), 1)
	assert.Equal(t, "alice shared a task with you", s.mail.to("bob@x.com")[0].Subject)

	path := "/tasks/" + itoa(task.ID) + "/"
	rec = s.do(http.MethodPatch, path, alice, echo.Map{"is_completed": true})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &task)
	assert.True(t, task.IsCompleted)

	rec = s.do(http.MethodPatch, path, alice, echo.Map{"due_date": "tomorrow"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, path, bob, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCategoryFlow(t *testing.T) {
	s := newServer(t)
	alice := s.register("alice")
	bob := s.register("bob")

	rec := s.do(http.MethodPost, "/categories/", alice, echo.Map{"name": "Work"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var category struct {
		ID         int64 `json:"id"`
		NotesCount int64 `json:"notes_count"`
	}
	decode(t, rec, &category)

	rec = s.do(http.MethodPost, "/categories/", alice, echo.Map{"name": "Work"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Someone else's category cannot be used.
	rec = s.do(http.MethodPost, "/notes/", bob, echo.Map{
		"title":    "Mine",
		"content":  "x",
		"category": category.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "category")

	rec = s.do(http.MethodPost, "/notes/", alice, echo.Map{
		"title":    "Plan",
		"content":  "x",
		"category": category.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var note noteBody
	decode(t, rec, &note)

	path := "/categories/" + itoa(category.ID) + "/"
	rec = s.do(http.MethodGet, path, alice, nil)
	decode(t, rec, &category)
	assert.Equal(t, int64(1), category.NotesCount)

	rec = s.do(http.MethodGet, path, bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPatch, "/notes/"+itoa(note.ID)+"/", alice, echo.Map{"category": nil})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
