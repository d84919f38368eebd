package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"practicelog/internal/handlers"
	"practicelog/internal/middleware"
	"practicelog/internal/websocket"
)

// Options carries what the router needs beyond the handlers.
type Options struct {
	FrontendURL string
	Logger      *zap.Logger

	// RateLimit is requests per minute per client on /api/v1. Zero means 120.
	RateLimit int
}

// New builds the HTTP handler. ctx bounds the rate limiter's sweeper.
func New(
	ctx context.Context,
	historyHandler *handlers.HistoryHandler,
	adminHandler *handlers.AdminHandler,
	adminAuth *middleware.AdminAuth,
	wsHub *websocket.Hub,
	opts Options,
) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := opts.RateLimit
	if limit <= 0 {
		limit = 120
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(opts.FrontendURL))

	apiLimiter := middleware.NewRateLimiter(ctx, limit, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(apiLimiter.Middleware)

			// ──── Sidebar ────
			r.Get("/dates", historyHandler.Dates)
			r.Get("/dates/{date}", historyHandler.DateRecords)

			// ──── Flat listing ────
			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", historyHandler.Sessions)
				r.Get("/resize", historyHandler.Resize)
				r.Get("/{index}", historyHandler.Session)
			})

			r.Get("/stats", historyHandler.Stats)
			r.Get("/pages", historyHandler.Page)
			r.Post("/view", historyHandler.View)
		})

		// ──── Admin ────
		r.Route("/admin", func(r chi.Router) {
			r.Use(adminAuth.Middleware)
			r.Post("/reload", adminHandler.Reload)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
