package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"notes-api/internal/domain"
	"notes-api/internal/middleware"
	"notes-api/internal/service"
	"notes-api/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

var errNotObject = errors.New("request body must be a JSON object")

type NoteHandler struct {
	service  *service.NoteService
	validate *validator.Validate
	log      *slog.Logger
}

func NewNoteHandler(service *service.NoteService, log *slog.Logger) *NoteHandler {
	return &NoteHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		response.BadRequest(w, fmt.Sprintf("Invalid request payload: %v", err))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	id, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err, "create note")
		return
	}

	response.Created(w, domain.CreateNoteResponse{Message: "Note created", ID: id})
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "list notes")
		return
	}

	response.Success(w, notes)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err, "get note")
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateNoteRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		response.BadRequest(w, fmt.Sprintf("Invalid request payload: %v", err))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if err := h.service.Update(r.Context(), mux.Vars(r)["id"], &req); err != nil {
		h.fail(w, r, err, "update note")
		return
	}

	response.Message(w, http.StatusOK, "Note updated")
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err, "delete note")
		return
	}

	response.Message(w, http.StatusOK, "Note deleted")
}

// Search matches one tag and/or an input type. Empty parameters are ignored.
func (h *NoteHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := domain.SearchNotesQuery{
		Tag:       r.URL.Query().Get("tag"),
		InputType: r.URL.Query().Get("input_type"),
	}

	notes, err := h.service.Search(r.Context(), query)
	if err != nil {
		h.fail(w, r, err, "search notes")
		return
	}

	response.Success(w, notes)
}

// Archive accepts an empty body, which archives the note.
func (h *NoteHandler) Archive(w http.ResponseWriter, r *http.Request) {
	var req domain.ArchiveNoteRequest
	if err := decodeBody(w, r, &req, true); err != nil {
		response.BadRequest(w, fmt.Sprintf("Invalid request payload: %v", err))
		return
	}

	archived, err := h.service.Archive(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		h.fail(w, r, err, "archive note")
		return
	}

	status := "archived"
	if !archived {
		status = "unarchived"
	}
	response.Message(w, http.StatusOK, "Note "+status)
}

func (h *NoteHandler) fail(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, domain.ErrInvalidNoteID):
		response.BadRequest(w, "Invalid note ID")
	case errors.Is(err, domain.ErrNoteNotFound):
		response.NotFound(w, "Note not found")
	default:
		h.log.ErrorContext(r.Context(), "Failed to "+action,
			"error", err,
			"request_id", middleware.GetRequestID(r),
		)
		response.InternalError(w, "Failed to "+action)
	}
}

// decodeBody decodes exactly one JSON object into dst, rejecting unknown
// fields and trailing data.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			if allowEmpty {
				return nil
			}
			return errors.New("request body is empty")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return errNotObject
	}

	strict := json.NewDecoder(bytes.NewReader(raw))
	strict.DisallowUnknownFields()
	return strict.Decode(dst)
}
