package repository

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"notes-api/internal/domain"

	"github.com/go-kivik/kivik/v4"
	"github.com/google/uuid"
)

// maxWriteAttempts bounds the read-modify-write loop when another writer
// bumped the revision in between.
const maxWriteAttempts = 3

type couchNote struct {
	DocID string `json:"_id"`
	Rev   string `json:"_rev,omitempty"`
	domain.Note
}

type couchRef struct {
	DocID string `json:"_id"`
	Rev   string `json:"_rev"`
}

type couchNoteRepository struct {
	db     *kivik.DB
	prefix string
	log    *slog.Logger
}

// NewCouchNoteRepository stores notes as documents whose ID is
// "<collection>:<uuid>"; the collection is the set of documents sharing the
// prefix.
func NewCouchNoteRepository(db *kivik.DB, collection string, log *slog.Logger) NoteRepository {
	return &couchNoteRepository{
		db:     db,
		prefix: collection + ":",
		log:    log.With("component", "couch_note_repository"),
	}
}

func (r *couchNoteRepository) docID(id string) string {
	return r.prefix + id
}

func (r *couchNoteRepository) toDomain(doc *couchNote) *domain.Note {
	note := doc.Note
	note.ID = strings.TrimPrefix(doc.DocID, r.prefix)
	return &note
}

func (r *couchNoteRepository) Insert(ctx context.Context, note *domain.Note) (string, error) {
	id := uuid.New().String()
	docID := r.docID(id)

	_, err := r.db.Put(ctx, docID, &couchNote{DocID: docID, Note: *note})
	if err != nil {
		return "", fmt.Errorf("failed to create note: %w", err)
	}

	return id, nil
}

func (r *couchNoteRepository) Find(ctx context.Context, filter domain.NoteFilter) ([]*domain.Note, error) {
	rows := r.db.Find(ctx, couchQuery(r.prefix, filter, nil))
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*domain.Note, 0)
	for rows.Next() {
		var doc couchNote
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode note: %w", err)
		}
		notes = append(notes, r.toDomain(&doc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return notes, nil
}

func (r *couchNoteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	doc, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.toDomain(doc), nil
}

func (r *couchNoteRepository) get(ctx context.Context, id string) (*couchNote, error) {
	if err := validateUUID(id); err != nil {
		return nil, err
	}

	var doc couchNote
	if err := r.db.Get(ctx, r.docID(id)).ScanDoc(&doc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	return &doc, nil
}

func (r *couchNoteRepository) Update(ctx context.Context, id string, patch *domain.NotePatch) error {
	var err error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		var doc *couchNote
		doc, err = r.get(ctx, id)
		if err != nil {
			return err
		}

		patch.Apply(&doc.Note)

		_, err = r.db.Put(ctx, doc.DocID, doc)
		if err == nil {
			return nil
		}
		if kivik.HTTPStatus(err) != http.StatusConflict {
			break
		}
		r.log.Debug("Revision conflict, retrying update", "id", id, "attempt", attempt)
	}

	return fmt.Errorf("failed to update note: %w", err)
}

func (r *couchNoteRepository) Delete(ctx context.Context, id string) error {
	if err := validateUUID(id); err != nil {
		return err
	}
	docID := r.docID(id)

	var err error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		var rev string
		rev, err = r.db.GetRev(ctx, docID)
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return domain.ErrNoteNotFound
		}
		if err != nil {
			break
		}

		_, err = r.db.Delete(ctx, docID, rev)
		if err == nil {
			return nil
		}
		switch kivik.HTTPStatus(err) {
		case http.StatusNotFound:
			return domain.ErrNoteNotFound
		case http.StatusConflict:
			continue
		}
		break
	}

	return fmt.Errorf("failed to delete note: %w", err)
}

func (r *couchNoteRepository) Clear(ctx context.Context) (int64, error) {
	rows := r.db.Find(ctx, couchQuery(r.prefix, domain.NoteFilter{}, []string{"_id", "_rev"}))
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to clear collection: %w", err)
	}
	defer rows.Close()

	var refs []couchRef
	for rows.Next() {
		var ref couchRef
		if err := rows.ScanDoc(&ref); err != nil {
			return 0, fmt.Errorf("failed to clear collection: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to clear collection: %w", err)
	}

	var deleted int64
	for _, ref := range refs {
		if _, err := r.db.Delete(ctx, ref.DocID, ref.Rev); err != nil {
			if kivik.HTTPStatus(err) == http.StatusNotFound {
				continue
			}
			return deleted, fmt.Errorf("failed to delete %s: %w", ref.DocID, err)
		}
		deleted++
	}

	r.log.Warn("Collection cleared", "collection", strings.TrimSuffix(r.prefix, ":"), "deleted", deleted)
	return deleted, nil
}

func (r *couchNoteRepository) Ping(ctx context.Context) error {
	_, err := r.db.Stats(ctx)
	return err
}

// validateUUID accepts only the canonical lowercase form, the one Insert
// writes into document IDs.
func validateUUID(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.String() != id {
		return fmt.Errorf("%w: %q", domain.ErrInvalidNoteID, id)
	}
	return nil
}

// couchQuery builds a Mango query restricted to the collection's ID range.
// CouchDB applies a default limit of 25 to _find, so the limit is lifted.
func couchQuery(prefix string, f domain.NoteFilter, fields []string) map[string]interface{} {
	selector := map[string]interface{}{
		"_id": map[string]interface{}{
			"$gt": prefix,
			"$lt": prefix + "\ufff0",
		},
	}
	if f.Tag != "" {
		selector["tags"] = map[string]interface{}{
			"$elemMatch": map[string]interface{}{"$eq": f.Tag},
		}
	}
	if f.InputType != "" {
		selector["input_type"] = f.InputType
	}

	query := map[string]interface{}{
		"selector": selector,
		"limit":    math.MaxInt32,
	}
	if len(fields) > 0 {
		query["fields"] = fields
	}
	return query
}
