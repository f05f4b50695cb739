package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"saldo/internal/amqp"
	"saldo/internal/core"
	"saldo/internal/forecast"
	"saldo/internal/ynab"
)

const maxRequestBody = 1 << 20 // 1 MB

// handleProjections runs a projection on inputs supplied entirely in the
// request body.
func (s *Server) handleProjections(w http.ResponseWriter, r *http.Request) {
	daysAhead, ok := parseDaysAhead(w, r, forecast.DefaultDaysAhead)
	if !ok {
		return
	}

	var req projectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := forecast.Project(forecast.Input{
		Accounts:    req.accounts(),
		Categories:  req.categories(),
		Scheduled:   req.scheduled(),
		Simulations: req.simulations(),
		DaysAhead:   daysAhead,
	})
	if err != nil {
		writeProjectionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleBudgetProjections runs a projection for a stored budget, with
// optional simulations in the body.
func (s *Server) handleBudgetProjections(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := parseBudgetID(w, r)
	if !ok {
		return
	}
	daysAhead, ok := parseDaysAhead(w, r, -1)
	if !ok {
		return
	}

	var req budgetProjectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	sims := req.simulations()

	// Simulation-free projections are pure functions of the stored
	// snapshot, so recent ones can be served from cache.
	cacheKey := budgetID.String() + ":" + strconv.Itoa(daysAhead)
	if len(sims) == 0 {
		if cached, ok := s.projCache.Get(cacheKey); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	result, err := s.projector.ProjectedBalances(r.Context(), budgetID, daysAhead, sims)
	if err != nil {
		writeProjectionError(w, r, err)
		return
	}

	if len(sims) == 0 {
		s.projCache.Set(cacheKey, result)
	}

	writeJSON(w, http.StatusOK, result)
}

// handleBudgetRefresh enqueues a refresh for the budget and returns 202.
func (s *Server) handleBudgetRefresh(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := parseBudgetID(w, r)
	if !ok {
		return
	}
	if s.publisher == nil {
		writeError(w, http.StatusServiceUnavailable, "refresh queue not configured")
		return
	}

	msg := amqp.NewBudgetRefreshMessage(budgetID)
	if err := s.publisher.PublishBudgetRefresh(r.Context(), msg); err != nil {
		slog.ErrorContext(r.Context(), "Failed to publish refresh", "budget_id", budgetID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to enqueue refresh")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"budget_id": budgetID.String(),
		"status":    "queued",
	})
}

// handleBudgetExport runs a projection and writes it to the configured
// sheet.
func (s *Server) handleBudgetExport(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := parseBudgetID(w, r)
	if !ok {
		return
	}
	daysAhead, ok := parseDaysAhead(w, r, -1)
	if !ok {
		return
	}
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "sheets export not configured")
		return
	}

	result, err := s.projector.ProjectedBalances(r.Context(), budgetID, daysAhead, nil)
	if err != nil {
		writeProjectionError(w, r, err)
		return
	}

	if err := s.exporter.Export(r.Context(), result); err != nil {
		slog.ErrorContext(r.Context(), "Sheets export failed", "budget_id", budgetID, "error", err)
		writeError(w, http.StatusBadGateway, "sheets export failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"budget_id": budgetID.String(),
		"days":      len(result),
		"status":    "exported",
	})
}

func parseBudgetID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	budgetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid budget ID")
		return uuid.Nil, false
	}
	return budgetID, true
}

// parseDaysAhead reads the days_ahead query parameter, falling back to
// defaultValue when absent.
func parseDaysAhead(w http.ResponseWriter, r *http.Request, defaultValue int) (int, bool) {
	raw := r.URL.Query().Get("days_ahead")
	if raw == "" {
		return defaultValue, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, "days_ahead must be a non-negative integer")
		return 0, false
	}
	return n, true
}

func decodeBody(r *http.Request, v any) error {
	body := io.LimitReader(r.Body, maxRequestBody)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil // empty body is fine, all fields are optional
		}
		return err
	}
	return nil
}

// writeProjectionError maps projection errors to HTTP statuses: invalid
// input dates and amounts are the caller's fault, upstream API failures
// are a bad gateway, everything else is internal.
func writeProjectionError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "Projection failed", "url", r.URL.Path, "error", err)

	switch {
	case errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidDaysAhead):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ynab.ErrUnauthorized), errors.Is(err, ynab.ErrRateLimited):
		writeError(w, http.StatusBadGateway, "upstream budgeting API error")
	default:
		writeError(w, http.StatusInternalServerError, "projection failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
