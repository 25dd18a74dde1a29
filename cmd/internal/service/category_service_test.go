package service

import (
	"context"
	"testing"

	"remino/cmd/internal/contract"
	"remino/cmd/internal/utils/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryNameUniquePerOwner(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	_, apierr := f.categoryService.CreateCategory(alice, &contract.CategoryRequest{Name: "Work"})
	require.Nil(t, apierr)

	_, apierr = f.categoryService.CreateCategory(alice, &contract.CategoryRequest{Name: "Work"})
	assert.Equal(t, apierror.CategoryNameTakenError, apierr)

	_, apierr = f.categoryService.CreateCategory(bob, &contract.CategoryRequest{Name: "Work"})
	assert.Nil(t, apierr)
}

func TestCategoryIsOwnerOnly(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	category, apierr := f.categoryService.CreateCategory(alice, &contract.CategoryRequest{Name: "Work"})
	require.Nil(t, apierr)

	_, apierr = f.categoryService.GetCategory(bob, category.ID)
	assert.Equal(t, apierror.NotFoundError, apierr)

	_, apierr = f.categoryService.UpdateCategory(bob, category.ID, &contract.UpdateCategoryRequest{Name: ptr("Mine")})
	assert.Equal(t, apierror.NotFoundError, apierr)

	assert.Equal(t, apierror.NotFoundError, f.categoryService.DeleteCategory(bob, category.ID))

	list, apierr := f.categoryService.ListCategories(bob)
	require.Nil(t, apierr)
	assert.Empty(t, list)
}

func TestUpdateCategory(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	_, apierr := f.categoryService.CreateCategory(alice, &contract.CategoryRequest{Name: "Home"})
	require.Nil(t, apierr)
	work, apierr := f.categoryService.CreateCategory(alice, &contract.CategoryRequest{Name: "Work"})
	require.Nil(t, apierr)

	_, apierr = f.categoryService.UpdateCategory(alice, work.ID, &contract.UpdateCategoryRequest{Name: ptr("Home")})
	assert.Equal(t, apierror.CategoryNameTakenError, apierr)

	resp, apierr := f.categoryService.UpdateCategory(alice, work.ID, &contract.UpdateCategoryRequest{
		Name:        ptr("Work"),
		Description: ptr("office stuff"),
	})
	require.Nil(t, apierr)
	assert.Equal(t, "office stuff", resp.Description)

	list, apierr := f.categoryService.ListCategories(alice)
	require.Nil(t, apierr)
	require.Len(t, list, 2)
	assert.Equal(t, "Home", list[0].Name)
	assert.Equal(t, "Work", list[1].Name)
}

func TestDeleteCategoryWithNotesIsRejected(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	ctx := context.Background()

	category, apierr := f.categoryService.CreateCategory(alice, &contract.CategoryRequest{Name: "Work"})
	require.Nil(t, apierr)

	note, apierr := f.noteService.CreateNote(ctx, alice, &contract.NoteRequest{
		Title:    "Plan",
		Content:  "x",
		Category: &category.ID,
	}, nil)
	require.Nil(t, apierr)

	got, apierr := f.categoryService.GetCategory(alice, category.ID)
	require.Nil(t, apierr)
	assert.Equal(t, int64(1), got.NotesCount)

	assert.Equal(t, apierror.CategoryHasNotesError, f.categoryService.DeleteCategory(alice, category.ID))

	_, apierr = f.categoryService.GetCategory(alice, category.ID)
	assert.Nil(t, apierr)
	stored, err := f.notes.FindByID(note.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CategoryID)
	assert.Equal(t, category.ID, *stored.CategoryID)

	require.Nil(t, f.noteService.DeleteNote(ctx, alice, note.ID))
	assert.Nil(t, f.categoryService.DeleteCategory(alice, category.ID))

	_, apierr = f.categoryService.GetCategory(alice, category.ID)
	assert.Equal(t, apierror.NotFoundError, apierr)
}
