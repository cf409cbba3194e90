package domain

import "time"

// NotePatch is the set of fields a single update writes. A nil field is not
// written. UpdatedAt is written only when non-zero.
type NotePatch struct {
	Title        *string
	Content      *string
	Tags         *[]string
	InputType    *string
	Priority     *string
	Archived     *bool
	Pinned       *bool
	Favorite     *bool
	RelatedNotes *[]string
	ColorLabel   *string
	UpdatedAt    time.Time
}

func NewUpdatePatch(req *UpdateNoteRequest, now time.Time) *NotePatch {
	return &NotePatch{
		Title:        req.Title,
		Content:      req.Content,
		Tags:         req.Tags,
		InputType:    req.InputType,
		Priority:     req.Priority,
		Archived:     req.Archived,
		Pinned:       req.Pinned,
		Favorite:     req.Favorite,
		RelatedNotes: req.RelatedNotes,
		ColorLabel:   req.ColorLabel,
		UpdatedAt:    now,
	}
}

// Fields returns the patch keyed by stored field name.
func (p *NotePatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})

	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Content != nil {
		fields["content"] = *p.Content
	}
	if p.Tags != nil {
		fields["tags"] = *p.Tags
	}
	if p.InputType != nil {
		fields["input_type"] = *p.InputType
	}
	if p.Priority != nil {
		fields["priority"] = *p.Priority
	}
	if p.Archived != nil {
		fields["archived"] = *p.Archived
	}
	if p.Pinned != nil {
		fields["pinned"] = *p.Pinned
	}
	if p.Favorite != nil {
		fields["favorite"] = *p.Favorite
	}
	if p.RelatedNotes != nil {
		fields["related_notes"] = *p.RelatedNotes
	}
	if p.ColorLabel != nil {
		fields["color_label"] = *p.ColorLabel
	}
	if !p.UpdatedAt.IsZero() {
		fields["updated_at"] = p.UpdatedAt
	}

	return fields
}

// Apply writes the patch onto n in place.
func (p *NotePatch) Apply(n *Note) {
	if p.Title != nil {
		n.Title = p.Title
	}
	if p.Content != nil {
		n.Content = p.Content
	}
	if p.Tags != nil {
		n.Tags = *p.Tags
	}
	if p.InputType != nil {
		n.InputType = p.InputType
	}
	if p.Priority != nil {
		n.Priority = p.Priority
	}
	if p.Archived != nil {
		n.Archived = *p.Archived
	}
	if p.Pinned != nil {
		n.Pinned = *p.Pinned
	}
	if p.Favorite != nil {
		n.Favorite = *p.Favorite
	}
	if p.RelatedNotes != nil {
		n.RelatedNotes = *p.RelatedNotes
	}
	if p.ColorLabel != nil {
		n.ColorLabel = p.ColorLabel
	}
	if !p.UpdatedAt.IsZero() {
		n.UpdatedAt = p.UpdatedAt
	}
}

// NoteFilter selects notes by exact match. Empty fields impose no constraint.
type NoteFilter struct {
	Tag       string
	InputType string
}

func (f NoteFilter) Matches(n *Note) bool {
	if f.InputType != "" && (n.InputType == nil || *n.InputType != f.InputType) {
		return false
	}
	if f.Tag == "" {
		return true
	}
	for _, t := range n.Tags {
		if t == f.Tag {
			return true
		}
	}
	return false
}
