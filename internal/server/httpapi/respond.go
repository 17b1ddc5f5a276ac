package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/apponta/apponta-server/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": publicMessage(err)})
}

// statusFor maps the error taxonomy to HTTP status codes. Unknown errors are
// treated as internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrorInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrorIdentity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrorTimeout):
		return http.StatusGatewayTimeout
	default:
		// ErrorConsistency, ErrorStore and anything unexpected
		return http.StatusInternalServerError
	}
}

// publicMessage keeps internal detail out of responses for server-side
// failures.
func publicMessage(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
