package domain

type NoteEventType string

const (
	NoteCreated  NoteEventType = "note_created"
	NoteUpdated  NoteEventType = "note_updated"
	NoteDeleted  NoteEventType = "note_deleted"
	NoteArchived NoteEventType = "note_archived"
)

// NoteEvent describes a change to a single note. Note is nil for deletes.
type NoteEvent struct {
	Type NoteEventType `json:"type"`
	ID   string        `json:"id"`
	Note *NoteResponse `json:"note,omitempty"`
}
