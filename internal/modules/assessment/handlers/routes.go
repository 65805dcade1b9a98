package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all assessment routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/assessments", func(r chi.Router) {
		r.Post("/", h.HandleRunAssessment)
		r.Get("/", h.HandleListRuns)
		r.Get("/latest", h.HandleGetLatestRun)
		r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
			id := chi.URLParam(req, "id")
			h.HandleGetRun(w, req, id)
		})
	})
}
