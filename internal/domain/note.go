package domain

import "time"

const DefaultPriority = "low"

// Note is the stored form of a note. ID is owned by the repository and is
// never written as a regular field.
type Note struct {
	ID           string    `json:"-" bson:"-"`
	Title        *string   `json:"title" bson:"title"`
	Content      *string   `json:"content" bson:"content"`
	Tags         []string  `json:"tags" bson:"tags"`
	InputType    *string   `json:"input_type" bson:"input_type"`
	Timestamp    time.Time `json:"timestamp" bson:"timestamp"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
	Priority     *string   `json:"priority" bson:"priority"`
	Archived     bool      `json:"archived" bson:"archived"`
	Pinned       bool      `json:"pinned" bson:"pinned"`
	Favorite     bool      `json:"favorite" bson:"favorite"`
	RelatedNotes []string  `json:"related_notes" bson:"related_notes"`
	ColorLabel   *string   `json:"color_label" bson:"color_label"`
}

type CreateNoteRequest struct {
	Title        *string  `json:"title"`
	Content      *string  `json:"content"`
	Tags         []string `json:"tags" validate:"omitempty,dive,required"`
	InputType    *string  `json:"input_type"`
	Priority     *string  `json:"priority"`
	Archived     *bool    `json:"archived"`
	Pinned       *bool    `json:"pinned"`
	Favorite     *bool    `json:"favorite"`
	RelatedNotes []string `json:"related_notes" validate:"omitempty,dive,required"`
	ColorLabel   *string  `json:"color_label"`
}

// UpdateNoteRequest carries a partial update. Nil fields are left untouched.
type UpdateNoteRequest struct {
	Title        *string   `json:"title"`
	Content      *string   `json:"content"`
	Tags         *[]string `json:"tags" validate:"omitempty,dive,required"`
	InputType    *string   `json:"input_type"`
	Priority     *string   `json:"priority"`
	Archived     *bool     `json:"archived"`
	Pinned       *bool     `json:"pinned"`
	Favorite     *bool     `json:"favorite"`
	RelatedNotes *[]string `json:"related_notes" validate:"omitempty,dive,required"`
	ColorLabel   *string   `json:"color_label"`
}

type ArchiveNoteRequest struct {
	Archived *bool `json:"archived"`
}

// SearchNotesQuery holds exact-match criteria. Empty values impose no
// constraint.
type SearchNotesQuery struct {
	Tag       string
	InputType string
}

type CreateNoteResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type NoteResponse struct {
	ID           string    `json:"id" yaml:"id"`
	Title        *string   `json:"title" yaml:"title"`
	Content      *string   `json:"content" yaml:"content"`
	Tags         []string  `json:"tags" yaml:"tags"`
	InputType    *string   `json:"input_type" yaml:"input_type"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
	Priority     *string   `json:"priority" yaml:"priority"`
	Archived     bool      `json:"archived" yaml:"archived"`
	Pinned       bool      `json:"pinned" yaml:"pinned"`
	Favorite     bool      `json:"favorite" yaml:"favorite"`
	RelatedNotes []string  `json:"related_notes" yaml:"related_notes"`
	ColorLabel   *string   `json:"color_label" yaml:"color_label"`
}

// NewNoteResponse shapes a stored note for output, substituting empty lists
// for missing sequences.
func NewNoteResponse(n *Note) *NoteResponse {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	related := n.RelatedNotes
	if related == nil {
		related = []string{}
	}

	return &NoteResponse{
		ID:           n.ID,
		Title:        n.Title,
		Content:      n.Content,
		Tags:         tags,
		InputType:    n.InputType,
		Timestamp:    n.Timestamp,
		UpdatedAt:    n.UpdatedAt,
		Priority:     n.Priority,
		Archived:     n.Archived,
		Pinned:       n.Pinned,
		Favorite:     n.Favorite,
		RelatedNotes: related,
		ColorLabel:   n.ColorLabel,
	}
}
