package service

import (
	"remino/cmd/internal/contract"
	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

// changeSet accumulates the changes of a PUT/PATCH on an entity.
// It tracks whether a save is actually needed and whether the collaborator set
// has to be rewritten.
type changeSet struct {
	dirty bool

	replaceShares bool
}

func setValue[T comparable](cs *changeSet, newVal *T, target *T) {
	if newVal == nil || *newVal == *target {
		return
	}

	*target = *newVal
	cs.dirty = true
}

func (cs *changeSet) setCategory(newVal *int64, target **int64) {
	switch {
	case newVal == nil && *target == nil:
		return
	case newVal != nil && *target != nil && *newVal == **target:
		return
	}

	*target = newVal
	cs.dirty = true
}

// setShares schedules the replacement of the collaborator set, users may be empty.
// The is_shared flag always follows the new set.
func (cs *changeSet) setShares(users []*entity.User, target *[]*entity.User, isShared *bool) {
	cs.replaceShares = true
	*target = users
	*isShared = len(users) > 0
	cs.dirty = true
}

// ownedCategory resolves a category reference of the actor. Foreign or missing
// categories are reported as a field error.
func ownedCategory(repo CategoryRepository, actor *entity.User, id *int64) (*entity.Category, apierror.ErrorResponse) {
	if id == nil {
		return nil, nil
	}

	category, err := repo.FindByID(*id)
	if err != nil {
		log.Errorf("failed to fetch category %d: %v", *id, err)
		return nil, apierror.InternalServerError
	}

	if category == nil || category.UserID != actor.ID {
		return nil, apierror.CategoryNotFoundFieldErr
	}
	return category, nil
}

// categoryChange validates the category a PATCH points to, if any.
func categoryChange(repo CategoryRepository, actor *entity.User, n contract.NullableID) (*entity.Category, apierror.ErrorResponse) {
	if !n.Set || n.Value == nil {
		return nil, nil
	}

	if *n.Value <= 0 {
		return nil, apierror.CategoryNotFoundFieldErr
	}
	return ownedCategory(repo, actor, n.Value)
}
