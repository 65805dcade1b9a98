// Package handlers provides HTTP handlers for assessment run operations.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/aristath/bulwark/internal/modules/assessment"
	"github.com/aristath/bulwark/internal/portfolio"
)

// PortfolioSupplier produces the datasets for a run when the request body
// carries none (the configured portfolio file, or the generator).
type PortfolioSupplier func() (*portfolio.File, error)

// Handler handles assessment HTTP requests
type Handler struct {
	service  *assessment.Service
	store    *assessment.Store
	supplier PortfolioSupplier
	log      zerolog.Logger
}

// NewHandler creates a new assessment handler
func NewHandler(service *assessment.Service, store *assessment.Store, supplier PortfolioSupplier, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		store:    store,
		supplier: supplier,
		log:      log.With().Str("handler", "assessment").Logger(),
	}
}

// runRequest is the POST /assessments body. All sections are optional:
// inline datasets win, then an explicit generate block, then the server's
// configured portfolio supplier.
type runRequest struct {
	Exposures  []domain.Exposure   `json:"exposures"`
	Positions  []domain.Position   `json:"positions"`
	Trades     []domain.Trade      `json:"trades"`
	Collateral []domain.Collateral `json:"collateral"`
	OwnFunds   *domain.OwnFunds    `json:"own_funds"`
	Generate   *generateRequest    `json:"generate"`
}

type generateRequest struct {
	Seed      int64 `json:"seed"`
	Exposures int   `json:"exposures"`
	Positions int   `json:"positions"`
	Trades    int   `json:"trades"`
}

func (req runRequest) hasInlineData() bool {
	return len(req.Exposures) > 0 || len(req.Positions) > 0 ||
		len(req.Trades) > 0 || len(req.Collateral) > 0 || req.OwnFunds != nil
}

// HandleRunAssessment handles POST /api/v1/assessments
func (h *Handler) HandleRunAssessment(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input, err := h.resolveInput(req)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to resolve run input")
		h.writeError(w, http.StatusInternalServerError, "Failed to load portfolio")
		return
	}

	a, err := h.service.Run(r.Context(), input)
	if err != nil {
		h.respondRunError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": a,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// resolveInput picks the datasets for a run: inline request data first, then
// an explicit generate block, then the configured supplier.
func (h *Handler) resolveInput(req runRequest) (assessment.RunInput, error) {
	if req.hasInlineData() {
		return assessment.RunInput{
			Exposures:  req.Exposures,
			Trades:     req.Trades,
			Collateral: req.Collateral,
			Positions:  req.Positions,
			OwnFunds:   req.OwnFunds,
		}, nil
	}

	if req.Generate != nil {
		g := portfolio.Generator{Seed: req.Generate.Seed}
		f := g.Generate(portfolio.GenerateOptions{
			Exposures: req.Generate.Exposures,
			Positions: req.Generate.Positions,
			Trades:    req.Generate.Trades,
		})
		return assessment.InputFromPortfolio(f), nil
	}

	f, err := h.supplier()
	if err != nil {
		return assessment.RunInput{}, err
	}
	return assessment.InputFromPortfolio(f), nil
}

// respondRunError maps pipeline failures to status codes: malformed input
// datasets are the caller's fault, everything else is ours.
func (h *Handler) respondRunError(w http.ResponseWriter, err error) {
	var missing *domain.MissingFieldError
	var invalid *domain.InvalidExposureError
	if errors.As(err, &missing) || errors.As(err, &invalid) {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.log.Error().Err(err).Msg("Assessment run failed")
	h.writeError(w, http.StatusInternalServerError, "Assessment run failed")
}

// HandleListRuns handles GET /api/v1/assessments
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	summaries, err := h.store.List(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list assessment runs")
		http.Error(w, "Failed to list assessment runs", http.StatusInternalServerError)
		return
	}
	if summaries == nil {
		summaries = []assessment.RunSummary{}
	}

	metadata := map[string]interface{}{
		"count":     len(summaries),
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if total, err := h.store.Count(); err == nil {
		metadata["total"] = total
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":     summaries,
		"metadata": metadata,
	})
}

// HandleGetLatestRun handles GET /api/v1/assessments/latest
func (h *Handler) HandleGetLatestRun(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.Latest()
	if errors.Is(err, assessment.ErrRunNotFound) {
		h.writeError(w, http.StatusNotFound, "No assessment runs recorded")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get latest assessment run")
		http.Error(w, "Failed to get latest assessment run", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": a,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetRun handles GET /api/v1/assessments/{id}
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request, id string) {
	a, err := h.store.Get(id)
	if errors.Is(err, assessment.ErrRunNotFound) {
		h.writeError(w, http.StatusNotFound, "Assessment run not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("run_id", id).Msg("Failed to get assessment run")
		http.Error(w, "Failed to get assessment run", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": a,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
