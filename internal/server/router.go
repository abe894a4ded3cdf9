package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shulman33/careerchat/internal/api"
	"github.com/shulman33/careerchat/internal/api/handlers"
	"github.com/shulman33/careerchat/internal/api/middleware"
)

type RouterConfig struct {
	ChatHandler *handlers.ChatHandler
	QAHandler   *handlers.QAHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/chat", cfg.ChatHandler.Stream)

	r.Route("/qa", func(r chi.Router) {
		r.Get("/", cfg.QAHandler.List)
		r.Get("/pending", cfg.QAHandler.ListPending)
		r.Post("/", cfg.QAHandler.Add)
		r.Put("/", cfg.QAHandler.Update)
	})

	return r
}
