package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"chronicle-backend/internal/handlers"
	"chronicle-backend/internal/middleware"
)

// New assembles the HTTP surface. Paths are the frontend's contract and are
// served at the root, not under an API prefix.
func New(
	chatHandler *handlers.ChatHandler,
	imageHandler *handlers.ImageHandler,
	voiceHandler *handlers.VoiceHandler,
	contentHandler *handlers.ContentHandler,
	logger zerolog.Logger,
	frontendURL string,
	aiRequestsPerMin int,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/content", contentHandler.Get)

	// Every route below spends provider credits
	aiLimiter := middleware.NewRateLimiter(aiRequestsPerMin, time.Minute, logger)
	r.Group(func(r chi.Router) {
		r.Use(aiLimiter.Middleware)
		r.Post("/chat", chatHandler.Chat)
		r.Post("/image/transform", imageHandler.Transform)
		r.Post("/voice", voiceHandler.Speak)
	})

	return r
}
