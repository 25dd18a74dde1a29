package service

import (
	"context"

	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/domain/events"
)

type UserRepository interface {
	FindAllByEmails(emails []string) ([]*entity.User, error)
	FindByUsername(username string) (*entity.User, error)
	FindBySub(sub string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	ExistsByUsername(username string) (bool, error)
	Save(user *entity.User) error
}

type NoteRepository interface {
	FindVisible(userID int64, q entity.ListQuery) ([]*entity.Note, error)
	FindByID(id int64) (*entity.Note, error)
	Create(note *entity.Note) error
	Save(note *entity.Note, replaceShares bool) error
	Delete(note *entity.Note) error
}

type TaskRepository interface {
	FindVisible(userID int64, q entity.ListQuery) ([]*entity.Task, error)
	FindByID(id int64) (*entity.Task, error)
	Create(task *entity.Task) error
	Save(task *entity.Task, replaceShares bool) error
	Delete(task *entity.Task) error
}

type CategoryRepository interface {
	FindAllByOwner(userID int64) ([]*entity.Category, error)
	FindByID(id int64) (*entity.Category, error)
	ExistsByOwnerAndName(userID int64, name string, exceptID int64) (bool, error)
	Save(category *entity.Category) error
	Delete(category *entity.Category) error
}

type TokenRepository interface {
	Revoke(jti string, expiresAt int64) error
	IsRevoked(jti string) (bool, error)
}

// Publisher receives the outbound events emitted after a successful commit.
type Publisher interface {
	Publish(ctx context.Context, evt events.Event)
}
