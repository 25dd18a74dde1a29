package policy

import (
	"testing"

	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/utils/apierror"

	"github.com/stretchr/testify/assert"
)

var (
	owner    = &entity.User{ID: 1, Username: "alice"}
	friend   = &entity.User{ID: 2, Username: "bob"}
	stranger = &entity.User{ID: 3, Username: "carol"}
)

func sharedNote() *entity.Note {
	return &entity.Note{ID: 10, UserID: owner.ID, IsShared: true, SharedWith: []*entity.User{friend}}
}

func sharedTask() *entity.Task {
	return &entity.Task{ID: 20, UserID: owner.ID, IsShared: true, SharedWith: []*entity.User{friend}}
}

func TestSharePolicy(t *testing.T) {
	p := NewSharePolicy()

	for name, e := range map[string]entity.Shareable{"note": sharedNote(), "task": sharedTask()} {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, p.CanRead(e, owner))
			assert.Nil(t, p.CanWrite(e, owner))

			assert.Nil(t, p.CanRead(e, friend))
			assert.Equal(t, apierror.ForbiddenError, p.CanWrite(e, friend))

			assert.Equal(t, apierror.NotFoundError, p.CanRead(e, stranger))
			assert.Equal(t, apierror.NotFoundError, p.CanWrite(e, stranger))
		})
	}
}

func TestSharePolicyOwnerIsNotImplicitCollaborator(t *testing.T) {
	note := &entity.Note{UserID: owner.ID}

	assert.False(t, note.IsSharedWith(owner.ID))
	assert.Nil(t, NewSharePolicy().CanRead(note, owner))
}

func TestSharePolicyNilEntity(t *testing.T) {
	assert.Equal(t, apierror.NotFoundError, NewSharePolicy().CanRead(nil, owner))
	assert.Equal(t, apierror.NotFoundError, NewCategoryPolicy().CanRead(nil, owner))
}

func TestCategoryPolicy(t *testing.T) {
	p := NewCategoryPolicy()
	c := &entity.Category{ID: 5, UserID: owner.ID}

	assert.Nil(t, p.CanRead(c, owner))
	assert.Nil(t, p.CanWrite(c, owner))
	assert.Equal(t, apierror.NotFoundError, p.CanRead(c, friend))
	assert.Equal(t, apierror.NotFoundError, p.CanWrite(c, stranger))
}
