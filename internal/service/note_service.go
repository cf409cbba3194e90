package service

import (
	"context"
	"log/slog"
	"time"

	"notes-api/internal/domain"
	"notes-api/internal/repository"
)

// EventPublisher receives note change events. Publish must not block.
type EventPublisher interface {
	Publish(event *domain.NoteEvent)
}

type NoteService struct {
	repo      repository.NoteRepository
	publisher EventPublisher
	now       func() time.Time
	log       *slog.Logger
}

type Option func(*NoteService)

// WithClock replaces the wall clock. Returned instants are converted to UTC.
func WithClock(now func() time.Time) Option {
	return func(s *NoteService) {
		s.now = now
	}
}

func WithPublisher(p EventPublisher) Option {
	return func(s *NoteService) {
		s.publisher = p
	}
}

func NewNoteService(repo repository.NoteRepository, log *slog.Logger, opts ...Option) *NoteService {
	s := &NoteService{
		repo: repo,
		now:  time.Now,
		log:  log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp is truncated to milliseconds, the resolution of BSON dates, so the
// value returned to callers equals the stored one.
func (s *NoteService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *NoteService) Create(ctx context.Context, req *domain.CreateNoteRequest) (string, error) {
	now := s.timestamp()

	note := &domain.Note{
		Title:        req.Title,
		Content:      req.Content,
		Tags:         req.Tags,
		InputType:    req.InputType,
		Timestamp:    now,
		UpdatedAt:    now,
		Priority:     req.Priority,
		Archived:     valueOr(req.Archived, false),
		Pinned:       valueOr(req.Pinned, false),
		Favorite:     valueOr(req.Favorite, false),
		RelatedNotes: req.RelatedNotes,
		ColorLabel:   req.ColorLabel,
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}
	if note.RelatedNotes == nil {
		note.RelatedNotes = []string{}
	}
	if note.Priority == nil {
		priority := domain.DefaultPriority
		note.Priority = &priority
	}

	id, err := s.repo.Insert(ctx, note)
	if err != nil {
		return "", err
	}
	note.ID = id

	s.publish(domain.NoteCreated, id, domain.NewNoteResponse(note))
	return id, nil
}

func (s *NoteService) List(ctx context.Context) ([]*domain.NoteResponse, error) {
	return s.find(ctx, domain.NoteFilter{})
}

func (s *NoteService) Search(ctx context.Context, q domain.SearchNotesQuery) ([]*domain.NoteResponse, error) {
	return s.find(ctx, domain.NoteFilter{Tag: q.Tag, InputType: q.InputType})
}

func (s *NoteService) find(ctx context.Context, filter domain.NoteFilter) ([]*domain.NoteResponse, error) {
	notes, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.NoteResponse, 0, len(notes))
	for _, n := range notes {
		responses = append(responses, domain.NewNoteResponse(n))
	}

	return responses, nil
}

func (s *NoteService) GetByID(ctx context.Context, id string) (*domain.NoteResponse, error) {
	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.NewNoteResponse(note), nil
}

// Update writes the non-nil fields of req and always refreshes updated_at.
func (s *NoteService) Update(ctx context.Context, id string, req *domain.UpdateNoteRequest) error {
	if err := s.repo.Update(ctx, id, domain.NewUpdatePatch(req, s.timestamp())); err != nil {
		return err
	}

	s.publish(domain.NoteUpdated, id, nil)
	return nil
}

func (s *NoteService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(domain.NoteDeleted, id, nil)
	return nil
}

// Archive sets the archived flag only. A request without an explicit value
// archives the note. It returns the flag that was written.
func (s *NoteService) Archive(ctx context.Context, id string, req *domain.ArchiveNoteRequest) (bool, error) {
	archived := valueOr(req.Archived, true)

	if err := s.repo.Update(ctx, id, &domain.NotePatch{Archived: &archived}); err != nil {
		return false, err
	}

	s.publish(domain.NoteArchived, id, nil)
	return archived, nil
}

// Clear empties the collection. It is a maintenance operation and has no
// HTTP route.
func (s *NoteService) Clear(ctx context.Context) (int64, error) {
	return s.repo.Clear(ctx)
}

func (s *NoteService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *NoteService) publish(t domain.NoteEventType, id string, note *domain.NoteResponse) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(&domain.NoteEvent{Type: t, ID: id, Note: note})
	s.log.Debug("Published note event", "type", t, "id", id)
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
