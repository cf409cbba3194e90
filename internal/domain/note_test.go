package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNoteResponse_FillsEmptySequences(t *testing.T) {
	resp := NewNoteResponse(&Note{ID: "abc"})

	assert.Equal(t, "abc", resp.ID)
	assert.Equal(t, []string{}, resp.Tags)
	assert.Equal(t, []string{}, resp.RelatedNotes)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"id", "title", "content", "tags", "input_type", "timestamp", "updated_at", "priority", "archived", "pinned", "favorite", "related_notes", "color_label"} {
		assert.Contains(t, fields, key)
	}
	assert.Nil(t, fields["title"])
	assert.Equal(t, false, fields["archived"])
}

func TestNotePatch_FieldsAndApply(t *testing.T) {
	title := "new"
	tags := []string{"x"}
	pinned := true
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	patch := &NotePatch{Title: &title, Tags: &tags, Pinned: &pinned, UpdatedAt: now}

	assert.Equal(t, map[string]interface{}{
		"title":      "new",
		"tags":       []string{"x"},
		"pinned":     true,
		"updated_at": now,
	}, patch.Fields())

	old := "old"
	priority := "low"
	note := &Note{Title: &old, Priority: &priority, Favorite: true}
	patch.Apply(note)

	assert.Equal(t, "new", *note.Title)
	assert.Equal(t, []string{"x"}, note.Tags)
	assert.True(t, note.Pinned)
	assert.True(t, note.Favorite)
	assert.Equal(t, "low", *note.Priority)
	assert.Equal(t, now, note.UpdatedAt)
}

func TestNotePatch_EmptyPatch(t *testing.T) {
	assert.Empty(t, (&NotePatch{}).Fields())
}

func TestNewUpdatePatch(t *testing.T) {
	archived := false
	now := time.Now()

	patch := NewUpdatePatch(&UpdateNoteRequest{Archived: &archived}, now)
	assert.Equal(t, map[string]interface{}{"archived": false, "updated_at": now}, patch.Fields())
}

func TestNoteFilter_Matches(t *testing.T) {
	voice := "voice"
	note := &Note{Tags: []string{"work", "ideas"}, InputType: &voice}

	assert.True(t, NoteFilter{}.Matches(note))
	assert.True(t, NoteFilter{Tag: "work"}.Matches(note))
	assert.True(t, NoteFilter{InputType: "voice"}.Matches(note))
	assert.True(t, NoteFilter{Tag: "ideas", InputType: "voice"}.Matches(note))
	assert.False(t, NoteFilter{Tag: "personal"}.Matches(note))
	assert.False(t, NoteFilter{Tag: "work", InputType: "text"}.Matches(note))
	assert.False(t, NoteFilter{InputType: "voice"}.Matches(&Note{}))
}
