package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/backend"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/logger"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/session"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RedirectResponse tells the UI where to navigate instead of rendering the destination.
type RedirectResponse struct {
	Redirect string `json:"redirect"`
	From     string `json:"from,omitempty"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondJSON(w, r, status, ErrorResponse{Error: message, Code: code})
}

func respondFields(w http.ResponseWriter, r *http.Request, code, message string, fields map[string]string) {
	respondJSON(w, r, http.StatusUnprocessableEntity, ErrorResponse{Error: message, Code: code, Fields: fields})
}

// respondRedirect answers 303 with Location and the decision in the body.
func respondRedirect(w http.ResponseWriter, r *http.Request, d session.Decision) {
	w.Header().Set("Location", d.Redirect)
	respondJSON(w, r, http.StatusSeeOther, RedirectResponse{Redirect: d.Redirect, From: d.From})
}

// loginRedirect sends an anonymous caller to the login page, returning to from afterwards.
func loginRedirect(w http.ResponseWriter, r *http.Request, from string) {
	respondRedirect(w, r, session.Check(nil, from, session.Requirement{}))
}

// handleError maps a service error to a status code.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		// the backend rejected the caller, pass its verdict through
		respondError(w, r, apiErr.StatusCode, "backend_rejected", apiErr.Message)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, "timeout", "backend did not answer in time")
	case errors.Is(err, domain.ErrRemoteUnavailable):
		respondError(w, r, http.StatusBadGateway, "remote_unavailable", err.Error())
	case errors.Is(err, context.Canceled):
		respondError(w, r, http.StatusRequestTimeout, "canceled", "request canceled")
	default:
		logger.FromContext(r.Context()).Error("request failed", zap.Error(err))
		respondError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}
