package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/seenimoa/finlens/internal/engine"
	"github.com/seenimoa/finlens/internal/infra"
	"github.com/seenimoa/finlens/internal/normalize"
)

// APIResponse is the standard response envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Ticker string `json:"ticker"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]any{
			"status":       "ok",
			"time":         time.Now().UTC().Format(time.RFC3339),
			"cached_items": s.engine.Cache().Len(),
			"ws_clients":   s.wsHub.ClientCount(),
		},
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	progress := func(stage, detail string) {
		s.wsHub.Broadcast(WSMessage{
			Type: "analysis_progress",
			Data: map[string]string{"ticker": req.Ticker, "stage": stage, "detail": detail},
		})
	}

	result, err := s.engine.AnalyzeWithProgress(r.Context(), req.Ticker, progress)
	if err != nil {
		status, msg := classifyAnalysisError(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	quote, err := s.engine.Quote(r.Context(), ticker)
	if err != nil {
		status, msg := classifyAnalysisError(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: quote})
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: s.registry.List()})
}

// classifyAnalysisError maps pipeline errors to HTTP statuses and
// messages rebuilt from the typed fields only. The wrapped causes carry
// upstream detail (request URLs, provider error bodies) that must never
// reach the client.
func classifyAnalysisError(err error) (int, string) {
	var cfgErr *engine.ConfigurationError
	if errors.As(err, &cfgErr) {
		return http.StatusBadRequest, cfgErr.Error()
	}
	var thrErr *engine.ThrottledError
	if errors.As(err, &thrErr) {
		return http.StatusTooManyRequests, thrErr.Error()
	}
	var upErr *engine.UpstreamUnavailableError
	if errors.As(err, &upErr) {
		return http.StatusBadGateway, fmt.Sprintf("required statement %q is unavailable from upstream providers, try again later", upErr.Statement)
	}
	var normErr *engine.NormalizationError
	if errors.As(err, &normErr) {
		var missing *normalize.ErrMissingStatement
		if errors.As(err, &missing) {
			return http.StatusBadGateway, missing.Error()
		}
		return http.StatusBadGateway, normErr.Error()
	}
	var rlErr *infra.RateLimitedError
	if errors.As(err, &rlErr) {
		return http.StatusServiceUnavailable, "upstream provider is rate limiting, try again later"
	}
	return http.StatusInternalServerError, "internal error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{Success: false, Error: msg})
}
