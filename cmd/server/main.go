package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"notes-api/internal/config"
	"notes-api/internal/database"
	"notes-api/internal/handler"
	"notes-api/internal/logging"
	"notes-api/internal/middleware"
	"notes-api/internal/service"
	"notes-api/internal/websocket"

	"github.com/gorilla/mux"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "text", os.Stderr).Error("Failed to load configuration", "error", err)
		return err
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	if err := cfg.Validate(); err != nil {
		log.Error("Configuration error", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Warn("Failed to close store client", "error", err)
		}
	}()

	wsManager := websocket.NewManager(websocket.Options{
		MaxClients:     cfg.WebSocket.MaxClients,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
		WriteWait:      cfg.WebSocket.WriteWait,
		PongWait:       cfg.WebSocket.PongWait,
		PingPeriod:     cfg.WebSocket.PingPeriod,
	}, log)
	go wsManager.Run(ctx)

	noteService := service.NewNoteService(repo, log, service.WithPublisher(wsManager))

	noteHandler := handler.NewNoteHandler(noteService, log)
	healthHandler := handler.NewHealthHandler(noteService, log)
	wsHandler := handler.NewWebSocketHandler(wsManager, cfg.WebSocket.ReadBufferSize, cfg.WebSocket.WriteBufferSize, log)

	r := mux.NewRouter()

	handler.RegisterRoutes(r, noteHandler, healthHandler, wsHandler)

	srvHandler := middleware.Wrap(r, middleware.Stack(
		log,
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	)...)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      srvHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Starting notes API", "addr", addr, "env", cfg.Server.Env, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("Server failed to start", "error", err)
			return err
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		return err
	}

	log.Info("Server stopped gracefully")
	return nil
}
