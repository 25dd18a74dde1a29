package events

// Recipient is the minimal identity a notification is addressed to.
type Recipient struct {
	ID       int64
	Username string
	Email    string
}

// SharedPayload describes an entity that was just shared with Recipients.
type SharedPayload struct {
	EntityID   int64
	Title      string
	OwnerName  string
	Recipients []Recipient
}

// NoteShared is emitted when a note's collaborator set is (re)assigned to a non-empty set.
type NoteShared struct {
	SharedPayload
}

func (e *NoteShared) GetType() EventType {
	return EventNoteShared
}

// TaskShared is emitted when a task's collaborator set is (re)assigned to a non-empty set.
type TaskShared struct {
	SharedPayload
}

func (e *TaskShared) GetType() EventType {
	return EventTaskShared
}
