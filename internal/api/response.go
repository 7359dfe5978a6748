package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/boardtrack/internal/engine"
	"github.com/erazemk/boardtrack/internal/mirror"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// domainError maps engine and mirror sentinel errors to HTTP responses.
// Unknown errors become a 500 with a generic message.
func domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrDuplicateSerial):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrValidation):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, mirror.ErrTransport):
		jsonError(w, http.StatusBadGateway, err.Error())
	default:
		slog.Error("unhandled request error", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
