package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"gemini-chat/internal/handlers"
	"gemini-chat/internal/middleware"
)

func New(
	logger *zap.Logger,
	pageHandler *handlers.PageHandler,
	chatHandler *handlers.ChatHandler,
	static fs.FS,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ──── Chat Page ────
	r.Get("/", pageHandler.Index)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// ──── Chat API ────
	r.Post("/api/chat", chatHandler.Send)
	r.Post("/api/chat/sessions", chatHandler.NewSession)
	r.Get("/api/chat/history", chatHandler.History)
	r.Delete("/api/chat/history", chatHandler.Reset)

	return r
}
