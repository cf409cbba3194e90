package repository

import (
	"context"

	"notes-api/internal/domain"
)

// NoteRepository is the single collection of notes. Implementations return
// domain.ErrInvalidNoteID for ids they cannot parse and domain.ErrNoteNotFound
// for well-formed ids with no document.
type NoteRepository interface {
	Insert(ctx context.Context, note *domain.Note) (string, error)
	Find(ctx context.Context, filter domain.NoteFilter) ([]*domain.Note, error)
	FindByID(ctx context.Context, id string) (*domain.Note, error)
	Update(ctx context.Context, id string, patch *domain.NotePatch) error
	Delete(ctx context.Context, id string) error
	// Clear removes every note in the collection and reports how many were removed.
	Clear(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
