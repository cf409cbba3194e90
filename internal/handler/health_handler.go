package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"notes-api/pkg/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store   Pinger
	timeout time.Duration
	log     *slog.Logger
}

func NewHealthHandler(store Pinger, log *slog.Logger) *HealthHandler {
	return &HealthHandler{
		store:   store,
		timeout: 2 * time.Second,
		log:     log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.WarnContext(ctx, "Health check failed", "error", err)
		response.ServiceUnavailable(w, "store unavailable")
		return
	}

	response.Success(w, map[string]string{"status": "healthy", "service": "notes-api"})
}
