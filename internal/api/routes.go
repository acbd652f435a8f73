package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// requestTimeout bounds every /api request.
const requestTimeout = 10 * time.Second

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(timeoutMiddleware(requestTimeout))

		r.Post("/runs", s.handleStartRun)
		r.Route("/runs/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetRun)
			r.Post("/answer", s.handleSubmitAnswer)
			r.Post("/pick", s.handleSelectOption)
			r.Post("/tick", s.handleTick)
			r.Post("/cancel", s.handleCancelRun)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Delete("/", s.handleClearStats)
			r.Get("/{dojo}/history", s.handleSessionHistory)
			r.Get("/{dojo}/leaderboard", s.handleLeaderboard)
			r.Get("/{dojo}/best-time", s.handleBestTime)
			r.Get("/{dojo}/overall", s.handleOverallStats)
		})

		r.Get("/catalog/{dojo}/sets", s.handleListSets)
	})
	return r
}
