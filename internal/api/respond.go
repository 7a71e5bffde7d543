package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/patchwire/patchwire/pkg/cache"
	"github.com/patchwire/patchwire/pkg/errors"
)

// errorEnvelope is the wire format for all error responses.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a structured error to an HTTP response. Unknown errors
// become opaque 500s so internal details stay out of responses.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		writeErrorCode(w, http.StatusInternalServerError, errors.ErrCodeInternal, "internal error")
		return
	}
	writeErrorCode(w, statusForCode(code), code, "%s", errors.UserMessage(err))
}

func writeErrorCode(w http.ResponseWriter, status int, code errors.Code, format string, args ...any) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Code:    string(code),
		Message: fmt.Sprintf(format, args...),
	}})
}

// statusForCode maps structured error codes to HTTP status codes.
func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidGraph,
		errors.ErrCodeInvalidNodeID,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidDocument,
		errors.ErrCodeGraphCycle,
		errors.ErrCodeDuplicateNode,
		errors.ErrCodeDanglingEdge,
		errors.ErrCodeUnsupportedVersion:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound,
		errors.ErrCodeFileNotFound,
		errors.ErrCodeDocumentNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeStorage:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// hashOf delegates to the cache package's content hash so API responses
// report the same graph hashes the cache keys are built from.
func hashOf(data []byte) string {
	return cache.Hash(data)
}
