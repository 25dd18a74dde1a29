package events

type EventType string

const (
	EventNoteShared EventType = "NOTE_SHARED"
	EventTaskShared EventType = "TASK_SHARED"
)

// Event is an outbound fact emitted after a successful commit.
type Event interface {
	GetType() EventType
}
