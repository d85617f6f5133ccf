package errors

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/s3path/pkg/s3client"
	"github.com/3leaps/s3path/pkg/s3path"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) HTTPErrorResponse {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "NOT_FOUND", "gone", "req-123")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, "gone", body.Error.Message)
	assert.Equal(t, "req-123", body.Error.RequestID)
}

func TestWriteError_OmitsEmptyRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusBadRequest, "UNSUPPORTED", "nope", "")
	assert.NotContains(t, rec.Body.String(), "request_id")
}

func TestRespondWithError(t *testing.T) {
	wrap := func(sentinel error) error {
		return &s3client.ClientError{Op: "op", Backend: "s3", Bucket: "bkt", Err: sentinel}
	}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not exist", &fs.PathError{Op: "stat", Path: "s3://bkt/x", Err: fs.ErrNotExist}, http.StatusNotFound, "NOT_FOUND"},
		{"already exists", &fs.PathError{Op: "mkdir", Path: "s3://bkt/d", Err: fs.ErrExist}, http.StatusConflict, "ALREADY_EXISTS"},
		{"not a directory", &fs.PathError{Op: "iterdir", Path: "s3://bkt/f", Err: s3path.ErrNotADirectory}, http.StatusConflict, "NOT_A_DIRECTORY"},
		{"not empty", &fs.PathError{Op: "rmdir", Path: "s3://bkt/d", Err: s3path.ErrNotEmpty}, http.StatusConflict, "NOT_EMPTY"},
		{"unsupported", &fs.PathError{Op: "open", Path: "s3://bkt/x", Err: stderrors.ErrUnsupported}, http.StatusBadRequest, "UNSUPPORTED"},
		{"bucket not found", wrap(s3client.ErrBucketNotFound), http.StatusNotFound, "BUCKET_NOT_FOUND"},
		{"object not found", wrap(s3client.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"access denied", wrap(s3client.ErrAccessDenied), http.StatusForbidden, "ACCESS_DENIED"},
		{"throttled", wrap(s3client.ErrThrottled), http.StatusTooManyRequests, "THROTTLED"},
		{"unknown", stderrors.New("wire snapped"), http.StatusBadGateway, "STORAGE_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondWithError(rec, "req-1", tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeEnvelope(t, rec)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.err.Error(), body.Error.Message)
			assert.Equal(t, "req-1", body.Error.RequestID)
		})
	}
}
