package handler

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bizsim-api/internal/domain"
	"bizsim-api/internal/middleware"
	"bizsim-api/pkg/errors"
)

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError writes the structured error body for any service error
func respondError(w http.ResponseWriter, err error) {
	appErr := errors.From(err)

	response := &errors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	respondJSON(w, appErr.StatusCode, response)
}

// identity extracts the authenticated actor from the request context
func identity(r *http.Request) (domain.Identity, bool) {
	return middleware.IdentityFromContext(r.Context())
}

// generateETag derives a weak ETag from the serialized payload so polling
// clients can skip unchanged bodies
func generateETag(payload []byte) string {
	return fmt.Sprintf(`"%x"`, md5.Sum(payload))
}
