// Package web exposes the planner over a JSON API. Handlers decode the
// request, collect presented credentials, and delegate; every access decision
// lives in the service layer, not here.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ajoux/festin/internal/auth"
	"github.com/ajoux/festin/internal/config"
	"github.com/ajoux/festin/internal/invalidate"
	"github.com/ajoux/festin/internal/service"
)

type Server struct {
	planner *service.Planner
	hub     *invalidate.Hub
	tokens  *auth.TokenService
	router  chi.Router
	logger  *slog.Logger
}

func NewServer(planner *service.Planner, hub *invalidate.Hub, tokens *auth.TokenService, allowedOrigins []string, logger *slog.Logger) *Server {
	s := &Server{
		planner: planner,
		hub:     hub,
		tokens:  tokens,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Event-Key", "X-Guest-Token"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(s.withRequestMeta)
	r.Use(s.withSession)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Get("/audit", s.handleQueryAudit)

		r.Post("/events", s.handleCreateEvent)
		r.Route("/events/{slug}", func(r chi.Router) {
			r.Get("/", s.handleGetEvent)
			r.Patch("/", s.handleUpdateEvent)
			r.Delete("/", s.handleDeleteEvent)

			r.Get("/changes", s.handleChanges)

			r.Post("/days", s.handleAddDay)
			r.Delete("/days/{id}", s.handleDeleteDay)

			r.Post("/meals", s.handleAddMeal)
			r.Post("/meals/reorder", s.handleReorderMeals)
			r.Patch("/meals/{id}", s.handleUpdateMeal)
			r.Delete("/meals/{id}", s.handleDeleteMeal)

			r.Post("/items", s.handleAddItem)
			r.Patch("/items/{id}", s.handleUpdateItem)
			r.Delete("/items/{id}", s.handleDeleteItem)

			r.Post("/people", s.handleAddPerson)
			r.Patch("/people/{id}", s.handleUpdatePerson)
			r.Delete("/people/{id}", s.handleDeletePerson)
		})
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(cfg config.ServerConfig) error {
	s.logger.Info("starting server", "addr", cfg.Addr)
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
