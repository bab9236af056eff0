package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mgirault/lexicard/internal/api"
	apiMiddleware "github.com/mgirault/lexicard/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	queueHandler := api.NewQueueHandler(app.queue, app.cancels, app.emitter, app.recent, app.logger)
	gradeHandler := api.NewGradeHandler(app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/queue", func(r chi.Router) {
			r.Post("/entries", queueHandler.CreateEntry)
			r.Get("/entries", queueHandler.ListEntries)
			r.Post("/entries/{id}/retry", queueHandler.RetryEntry)
			r.Delete("/entries/{id}", queueHandler.DiscardEntry)
			r.Post("/cancel", queueHandler.CancelEntry)
			r.Get("/events", queueHandler.ListEvents)
		})
		r.Post("/grade", gradeHandler.Grade)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
