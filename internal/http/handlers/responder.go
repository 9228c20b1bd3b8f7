package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/football-scoreboard/internal/domain/games"
	"github.com/preston-bernstein/football-scoreboard/internal/http/middleware"
	"github.com/preston-bernstein/football-scoreboard/internal/http/requestutil"
	"github.com/preston-bernstein/football-scoreboard/internal/logging"
)

const maxBodyBytes = 1 << 16

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get(requestutil.HeaderRequestID)
	}
	body := map[string]string{"error": message}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

// writeDomainError maps scoreboard error kinds onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	writeError(w, r, statusForError(err), err.Error(), logger)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, games.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, games.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, games.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads a single JSON object into dest, rejecting unknown fields.
func decodeBody(r *http.Request, dest any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid request body: trailing data")
	}
	return nil
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
