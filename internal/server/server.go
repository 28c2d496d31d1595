package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/noobkia1314/SmartMind/internal/config"
	"github.com/noobkia1314/SmartMind/internal/handlers"
	"github.com/noobkia1314/SmartMind/internal/middleware"
	"github.com/noobkia1314/SmartMind/internal/services"
)

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(cfg config.Config, authService *services.AuthService, sessionService *services.SessionService, app *services.AppService, coach *services.CoachService) *Server {
	authHandler := handlers.NewAuthHandler(authService, sessionService)
	goalHandler := handlers.NewGoalHandler(app, coach)
	calendarHandler := handlers.NewCalendarHandler(app, cfg.FeedToken)

	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Get("/login", authHandler.Login)
	router.Get("/auth/callback", authHandler.Callback)
	router.Get("/logout", authHandler.Logout)
	router.Post("/session/guest", authHandler.Guest)

	router.Get("/ical", calendarHandler.Feed)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(authService))

		r.Get("/api/state", goalHandler.State)
		r.Post("/api/state/reset", goalHandler.Reset)

		r.Post("/api/goals", goalHandler.Create)
		r.Post("/api/goals/{id}/activate", goalHandler.Activate)
		r.Post("/api/goals/{id}/tasks/{taskId}/toggle", goalHandler.ToggleTask)
		r.Post("/api/goals/{id}/tasks/{taskId}/feedback", goalHandler.TaskFeedback)
		r.Post("/api/goals/{id}/logs/food", goalHandler.LogFood)
		r.Post("/api/goals/{id}/logs/exercise", goalHandler.LogExercise)
		r.Post("/api/goals/{id}/logs/finance", goalHandler.LogFinance)
		r.Post("/api/goals/{id}/logs/reading", goalHandler.LogReading)
		r.Delete("/api/goals/{id}/logs/{kind}/{entryId}", goalHandler.RemoveLog)
		r.Post("/api/goals/{id}/advice", goalHandler.Advice)
	})

	return &Server{router: router, config: cfg}
}

func (server *Server) Router() http.Handler {
	return server.router
}

func (server *Server) Start() error {
	address := ":" + server.config.Port
	slog.Info("starting server", "address", address)
	return http.ListenAndServe(address, server.router)
}
