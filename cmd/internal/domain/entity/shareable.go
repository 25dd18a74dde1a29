package entity

// Owned is anything belonging to exactly one user.
type Owned interface {
	OwnerID() int64
}

// Shareable is an owned entity that can be exposed read-only to other users.
type Shareable interface {
	Owned
	IsSharedWith(userID int64) bool
	Collaborators() []*User
}

// sharedWith reports whether userID is part of users.
func sharedWith(users []*User, userID int64) bool {
	for _, u := range users {
		if u != nil && u.ID == userID {
			return true
		}
	}
	return false
}
