package domain

import "errors"

var (
	ErrNoteNotFound  = errors.New("note not found")
	ErrInvalidNoteID = errors.New("invalid note id")
)
