package policy

import (
	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/utils/apierror"
)

// SharePolicy encapsulates the visibility rules of notes and tasks.
// It returns apierror.ErrorResponse directly for seamless integration with handlers.
//
// Reading requires ownership or membership in the collaborator set. Writing
// (update and delete) requires ownership. Entities the actor cannot read are
// reported as not found, entities the actor can read but not write as forbidden.
type SharePolicy struct{}

func NewSharePolicy() *SharePolicy {
	return &SharePolicy{}
}

func (p *SharePolicy) CanRead(e entity.Shareable, actor *entity.User) apierror.ErrorResponse {
	if e == nil || actor == nil {
		return apierror.NotFoundError
	}

	if isOwner(e, actor) || e.IsSharedWith(actor.ID) {
		return nil
	}
	return apierror.NotFoundError // ^^
}

func (p *SharePolicy) CanWrite(e entity.Shareable, actor *entity.User) apierror.ErrorResponse {
	if err := p.CanRead(e, actor); err != nil {
		return err
	}

	if !isOwner(e, actor) {
		return apierror.ForbiddenError
	}
	return nil
}

// CategoryPolicy has no sharing concept, only the owner can see or touch a category.
type CategoryPolicy struct{}

func NewCategoryPolicy() *CategoryPolicy {
	return &CategoryPolicy{}
}

func (p *CategoryPolicy) CanRead(c *entity.Category, actor *entity.User) apierror.ErrorResponse {
	if c == nil || actor == nil || !isOwner(c, actor) {
		return apierror.NotFoundError
	}
	return nil
}

func (p *CategoryPolicy) CanWrite(c *entity.Category, actor *entity.User) apierror.ErrorResponse {
	return p.CanRead(c, actor)
}

func isOwner(e entity.Owned, actor *entity.User) bool {
	return e.OwnerID() == actor.ID
}
