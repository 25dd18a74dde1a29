package service

import (
	"context"
	"sync"
	"testing"

	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/domain/events"
	"remino/cmd/internal/domain/sqlite"
	"remino/cmd/internal/domain/sqlite/repository"
	"remino/cmd/internal/utils/uid"
	"remino/cmd/internal/utils/validators"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, evt events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

type fakeStorage struct {
	objects map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) UploadFile(_ context.Context, data []byte, key string) error {
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) DeleteFile(_ context.Context, key string) error {
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) URL(key string) string {
	return "https://bucket.test/" + key
}

type fixture struct {
	db         *gorm.DB
	users      *repository.DefaultUserRepository
	notes      *repository.DefaultNoteRepository
	tasks      *repository.DefaultTaskRepository
	categories *repository.DefaultCategoryRepository
	tokens     *repository.DefaultTokenRepository
	published  *recordingPublisher
	storage    *fakeStorage

	noteService     *NoteService
	taskService     *TaskService
	categoryService *CategoryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	require.NoError(t, uid.Init(1))

	db, err := sqlite.Init(":memory:")
	require.NoError(t, err)

	f := &fixture{
		db:         db,
		users:      repository.NewUserRepository(db),
		notes:      repository.NewNoteRepository(db),
		tasks:      repository.NewTaskRepository(db),
		categories: repository.NewCategoryRepository(db),
		tokens:     repository.NewTokenRepository(db),
		published:  &recordingPublisher{},
		storage:    newFakeStorage(),
	}

	validate := validators.New()
	f.noteService = NewNoteService(f.notes, f.users, f.categories, f.storage, f.published, validate)
	f.taskService = NewTaskService(f.tasks, f.users, f.categories, f.published, validate)
	f.categoryService = NewCategoryService(f.categories, validate)
	return f
}

func (f *fixture) user(t *testing.T, name string) *entity.User {
	t.Helper()
	u := &entity.User{SubUUID: name + "-sub", Username: name, Email: name + "@x.com"}
	require.NoError(t, f.users.Save(u))
	return u
}

func ptr[T any](v T) *T {
	return &v
}
