package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/MaxGubin/LiteRT/internal/manager"
	"github.com/MaxGubin/LiteRT/pkg/litert"
	"github.com/MaxGubin/LiteRT/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusForError maps service errors to HTTP status codes. Runtime error
// kinds from pkg/litert pass through the manager untouched, so both layers
// are consulted here.
func statusForError(err error) int {
	switch {
	case manager.IsModelNotFound(err), manager.IsJobNotFound(err), litert.IsNotFound(err):
		return http.StatusNotFound
	case manager.IsTooBusy(err):
		return http.StatusTooManyRequests
	case litert.IsInvalidArgument(err):
		return http.StatusBadRequest
	case litert.IsUnsupported(err), litert.IsIncompatibleBuffer(err):
		return http.StatusUnprocessableEntity
	case litert.IsRuntimeUnavailable(err):
		return http.StatusServiceUnavailable
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// writeServiceError maps err to a status, counts backpressure rejections,
// and writes the JSON payload.
func writeServiceError(w http.ResponseWriter, err error) int {
	status := statusForError(err)
	if status == http.StatusTooManyRequests {
		IncrementBackpressure("queue_full")
	}
	writeJSONError(w, status, err.Error())
	return status
}
