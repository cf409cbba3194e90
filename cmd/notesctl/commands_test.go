package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"notes-api/internal/domain"
	"notes-api/internal/logging"
	"notes-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnavailable = errors.New("store unavailable")

// stubRepo serves a fixed set of notes, or fails every call when err is set.
type stubRepo struct {
	notes []*domain.Note
	err   error
}

func (s *stubRepo) Insert(ctx context.Context, note *domain.Note) (string, error) {
	return "", s.err
}

func (s *stubRepo) Find(ctx context.Context, filter domain.NoteFilter) ([]*domain.Note, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*domain.Note
	for _, n := range s.notes {
		if filter.Matches(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	return nil, domain.ErrNoteNotFound
}

func (s *stubRepo) Update(ctx context.Context, id string, patch *domain.NotePatch) error {
	return domain.ErrNoteNotFound
}

func (s *stubRepo) Delete(ctx context.Context, id string) error {
	return domain.ErrNoteNotFound
}

func (s *stubRepo) Clear(ctx context.Context) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	n := int64(len(s.notes))
	s.notes = nil
	return n, nil
}

func (s *stubRepo) Ping(ctx context.Context) error {
	return s.err
}

// useStore points every command at repo and reports whether the store was
// released.
func useStore(t *testing.T, repo *stubRepo) *bool {
	t.Helper()
	released := new(bool)

	prev := openStore
	openStore = func(ctx context.Context) (*service.NoteService, func(), error) {
		return service.NewNoteService(repo, logging.Discard()), func() { *released = true }, nil
	}
	t.Cleanup(func() { openStore = prev })

	return released
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands_ReleaseStoreOnFailure(t *testing.T) {
	for _, args := range [][]string{{"clear"}, {"ping"}, {"list"}} {
		t.Run(args[0], func(t *testing.T) {
			released := useStore(t, &stubRepo{err: errUnavailable})

			_, err := execute(t, args...)
			require.ErrorIs(t, err, errUnavailable)
			assert.True(t, *released)
		})
	}
}

func TestClearCommand(t *testing.T) {
	repo := &stubRepo{notes: []*domain.Note{{ID: "a"}, {ID: "b"}}}
	released := useStore(t, repo)

	out, err := execute(t, "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 2 notes")
	assert.Empty(t, repo.notes)
	assert.True(t, *released)
}

func TestPingCommand(t *testing.T) {
	released := useStore(t, &stubRepo{})

	out, err := execute(t, "ping")
	require.NoError(t, err)
	assert.Equal(t, "OK\n", out)
	assert.True(t, *released)
}

func TestCommands_ConnectFailureIsReturned(t *testing.T) {
	prev := openStore
	openStore = func(ctx context.Context) (*service.NoteService, func(), error) {
		return nil, nil, errUnavailable
	}
	t.Cleanup(func() { openStore = prev })

	_, err := execute(t, "ping")
	assert.ErrorIs(t, err, errUnavailable)
}
