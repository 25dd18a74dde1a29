package service

import (
	"strings"

	"remino/cmd/internal/contract"
	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/domain/events"
	"remino/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

// resolveCollaborators maps emails to registered users by exact match.
//
// Any unknown email fails the whole resolution, so callers must resolve before
// touching the store. Duplicates are collapsed and the owner is never part of
// their own collaborator set.
func resolveCollaborators(repo UserRepository, owner *entity.User, emails []string) ([]*entity.User, apierror.ErrorResponse) {
	unique := make([]string, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if _, ok := seen[email]; ok || email == "" {
			continue
		}
		seen[email] = struct{}{}
		unique = append(unique, email)
	}

	if len(unique) == 0 {
		return []*entity.User{}, nil
	}

	users, err := repo.FindAllByEmails(unique)
	if err != nil {
		log.Errorf("failed to resolve collaborators: %v", err)
		return nil, apierror.InternalServerError
	}

	found := make(map[string]struct{}, len(users))
	collaborators := make([]*entity.User, 0, len(users))
	for _, u := range users {
		found[u.Email] = struct{}{}
		if u.ID != owner.ID {
			collaborators = append(collaborators, u)
		}
	}

	var unresolved []string
	for _, email := range unique {
		if _, ok := found[email]; !ok {
			unresolved = append(unresolved, email)
		}
	}

	if len(unresolved) > 0 {
		return nil, apierror.NewUnresolvedEmailsError(unresolved)
	}
	return collaborators, nil
}

// sharedPayload describes a fresh (re)assignment of the collaborator set.
func sharedPayload(id int64, title string, owner *entity.User, users []*entity.User) events.SharedPayload {
	recipients := make([]events.Recipient, len(users))
	for i, u := range users {
		recipients[i] = events.Recipient{ID: u.ID, Username: u.Username, Email: u.Email}
	}

	return events.SharedPayload{
		EntityID:   id,
		Title:      title,
		OwnerName:  owner.Username,
		Recipients: recipients,
	}
}

func toUserResponse(user *entity.User) *contract.UserResponse {
	return &contract.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

func toUserResponses(users []*entity.User) []*contract.UserResponse {
	resp := make([]*contract.UserResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	return resp
}
