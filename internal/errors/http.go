// Package errors maps domain errors to HTTP responses. Every error response
// uses one JSON envelope so clients can branch on a stable code.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"net/http"

	"github.com/3leaps/s3path/pkg/s3client"
	"github.com/3leaps/s3path/pkg/s3path"
)

// HTTPErrorResponse is the JSON error envelope.
type HTTPErrorResponse struct {
	Error HTTPErrorDetail `json:"error"`
}

// HTTPErrorDetail carries the machine-readable code and human message.
type HTTPErrorDetail struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	RequestID string         `json:"request_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// WriteError writes the envelope with the given status and code.
func WriteError(w http.ResponseWriter, status int, code, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(HTTPErrorResponse{
		Error: HTTPErrorDetail{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	})
}

// RespondWithError translates a domain error into status, code and message.
// Unrecognized errors become 502 STORAGE_ERROR: the gateway fronts a storage
// backend, so an unexpected failure is a bad-gateway condition, not an
// internal one.
func RespondWithError(w http.ResponseWriter, requestID string, err error) {
	status, code := classify(err)
	WriteError(w, status, code, err.Error(), requestID)
}

func classify(err error) (int, string) {
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound, "NOT_FOUND"
	case stderrors.Is(err, fs.ErrExist):
		return http.StatusConflict, "ALREADY_EXISTS"
	case stderrors.Is(err, s3path.ErrNotADirectory):
		return http.StatusConflict, "NOT_A_DIRECTORY"
	case stderrors.Is(err, s3path.ErrNotEmpty):
		return http.StatusConflict, "NOT_EMPTY"
	case stderrors.Is(err, stderrors.ErrUnsupported):
		return http.StatusBadRequest, "UNSUPPORTED"
	case s3client.IsBucketNotFound(err):
		return http.StatusNotFound, "BUCKET_NOT_FOUND"
	case s3client.IsNotFound(err):
		return http.StatusNotFound, "NOT_FOUND"
	case s3client.IsAccessDenied(err):
		return http.StatusForbidden, "ACCESS_DENIED"
	case stderrors.Is(err, s3client.ErrThrottled):
		return http.StatusTooManyRequests, "THROTTLED"
	default:
		return http.StatusBadGateway, "STORAGE_ERROR"
	}
}
