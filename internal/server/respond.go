package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/A-ndrey/spdesk/internal/failure"
	"github.com/A-ndrey/spdesk/internal/middleware"
	"github.com/A-ndrey/spdesk/internal/storage"
)

var errBadBody = failure.Validation("server.decode", "Invalid request body")

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ok writes a successful envelope. kv alternates keys and values.
func ok(w http.ResponseWriter, status int, kv ...any) {
	body := envelope{"success": true}
	for i := 0; i+1 < len(kv); i += 2 {
		body[kv[i].(string)] = kv[i+1]
	}

	writeJSON(w, status, body)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadBody
	}

	return nil
}

func statusOf(kind failure.Kind) int {
	switch kind {
	case failure.KindValidation:
		return http.StatusBadRequest
	case failure.KindAuth:
		return http.StatusUnauthorized
	case failure.KindForbidden:
		return http.StatusForbidden
	case failure.KindNotFound:
		return http.StatusNotFound
	case failure.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status and envelope. Unexpected errors are logged
// and answered with an opaque message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		err = failure.NotFound("server", "Not found")
	}

	kind := failure.KindOf(err)
	attrs := []any{
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.RequestIDFrom(r.Context())),
		slog.String("kind", kind.String()),
		slog.String("error", err.Error()),
	}

	msg := failure.Message(err)
	if !kind.Expected() || msg == "" {
		s.logger.Error("request failed", attrs...)
		msg = "Internal server error"
	} else {
		s.logger.Debug("request rejected", attrs...)
	}

	writeJSON(w, statusOf(kind), envelope{"success": false, "error": msg})
}
