package handler

import (
	"net/http"

	"notes-api/pkg/response"

	"github.com/gorilla/mux"
)

// RegisterRoutes mounts the API on r. /notes/search is registered ahead of
// /notes/{id} so it is never read as an id. ws may be nil.
func RegisterRoutes(r *mux.Router, notes *NoteHandler, health *HealthHandler, ws *WebSocketHandler) {
	r.HandleFunc("/notes", notes.Create).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/notes", notes.List).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/notes/search", notes.Search).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/notes/{id}", notes.Get).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/notes/{id}", notes.Update).Methods(http.MethodPut, http.MethodOptions)
	r.HandleFunc("/notes/{id}", notes.Delete).Methods(http.MethodDelete, http.MethodOptions)
	r.HandleFunc("/notes/{id}/archive", notes.Archive).Methods(http.MethodPatch, http.MethodOptions)

	r.HandleFunc("/health", health.Health).Methods(http.MethodGet)

	if ws != nil {
		r.HandleFunc("/ws", ws.HandleConnection)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Resource not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}
