package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/terra-clan/prep-tracker/internal/tracker"
)

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// decodeJSON reads a single JSON object from the request body. Unknown
// fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			respondError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
		case errors.Is(err, io.EOF):
			respondError(w, http.StatusBadRequest, "invalid_request", "request body is required")
		default:
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		}
		return false
	}
	return true
}

// respondServiceError maps tracker errors onto the envelope. action names
// the failed operation in logs and 500 messages.
func respondServiceError(w http.ResponseWriter, err error, action, id string) {
	var verr *tracker.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, "validation_error", verr.Error())
	case errors.Is(err, tracker.ErrQuestionNotFound):
		respondError(w, http.StatusNotFound, "not_found", "question not found")
	case errors.Is(err, tracker.ErrCompanyNotFound):
		respondError(w, http.StatusNotFound, "not_found", "company not found")
	default:
		if id != "" {
			slog.Error("failed to "+action, "error", err, "id", id)
		} else {
			slog.Error("failed to "+action, "error", err)
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to "+action)
	}
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	report := s.health.CheckAll(r.Context())
	if !report.Healthy {
		for _, c := range report.Checks {
			if c.Error != "" {
				slog.Warn("readiness check failed", "check", c.Name, "error", c.Error)
			}
		}
		respondError(w, http.StatusServiceUnavailable, "not_ready", "service not ready")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"checks": report.Checks,
	})
}
