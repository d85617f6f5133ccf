package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/3leaps/s3path/internal/errors"
	"github.com/3leaps/s3path/internal/server/handlers"
	awsclient "github.com/3leaps/s3path/pkg/s3client/aws"
	"github.com/3leaps/s3path/pkg/s3path"
)

// newTestServer backs the gateway with an in-memory S3 store holding a few
// objects under s3://bkt/.
func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()

	backend := s3mem.New()
	require.NoError(t, backend.CreateBucket("bkt"))
	ts := httptest.NewServer(gofakes3.New(backend).Server())
	t.Cleanup(ts.Close)

	client, err := awsclient.New(context.Background(), awsclient.Options{
		Region:          "us-east-1",
		Endpoint:        ts.URL,
		ForcePathStyle:  true,
		AccessKeyID:     "KEY",
		SecretAccessKey: "SECRET",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	seed := func(key, content string) {
		w, err := client.PutObject(context.Background(), "bkt", key)
		require.NoError(t, err)
		_, err = io.Copy(w, strings.NewReader(content))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}
	seed("data/a.txt", "alpha")
	seed("data/sub/b.txt", "beta")

	resolve := func(uri string) (*s3path.Path, error) {
		return s3path.New(uri, s3path.WithClient(client))
	}
	return New("127.0.0.1", 0, append([]Option{WithResolver(resolve), WithVersion("1.2.3")}, opts...)...)
}

func doGet(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.HTTPErrorResponse {
	t.Helper()
	var body apperrors.HTTPErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestServer_UnknownEndpoint(t *testing.T) {
	rec := doGet(t, newTestServer(t), "/does-not-exist")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Error.Code)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/version", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, rec).Error.Code)
}

func TestServer_Port(t *testing.T) {
	assert.Equal(t, 8080, New("127.0.0.1", 8080).Port())
	assert.Equal(t, 0, New("127.0.0.1", 0).Port())
	assert.Equal(t, "127.0.0.1:9000", New("127.0.0.1", 9000).Addr())
}

func TestServer_Version(t *testing.T) {
	rec := doGet(t, newTestServer(t), "/version")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "1.2.3", body["version"])
}

type stubChecker struct{ err error }

func (s stubChecker) CheckHealth(context.Context) error { return s.err }

func TestServer_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := newTestServer(t)
		srv.RegisterChecker("storage", stubChecker{})

		rec := doGet(t, srv, "/healthz")
		require.Equal(t, http.StatusOK, rec.Code)

		var body handlers.HealthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "1.2.3", body.Version)
		assert.Equal(t, "healthy", body.Checks["storage"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		srv := newTestServer(t)
		srv.RegisterChecker("storage", stubChecker{err: errors.New("down")})

		rec := doGet(t, srv, "/healthz")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body handlers.HealthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "unhealthy", body.Status)
		assert.Equal(t, "down", body.Checks["storage"])
	})
}

func TestServer_Stat(t *testing.T) {
	srv := newTestServer(t)

	t.Run("file", func(t *testing.T) {
		rec := doGet(t, srv, "/v1/stat?uri=s3://bkt/data/a.txt")
		require.Equal(t, http.StatusOK, rec.Code)

		var body handlers.StatResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "s3://bkt/data/a.txt", body.Path)
		assert.Equal(t, "a.txt", body.Name)
		assert.Equal(t, "file", body.Type)
		assert.Equal(t, int64(5), body.Size)
		assert.NotEmpty(t, body.ModTime)
	})

	t.Run("directory", func(t *testing.T) {
		rec := doGet(t, srv, "/v1/stat?uri=s3://bkt/data")
		require.Equal(t, http.StatusOK, rec.Code)

		var body handlers.StatResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "directory", body.Type)
	})

	t.Run("missing object", func(t *testing.T) {
		rec := doGet(t, srv, "/v1/stat?uri=s3://bkt/absent")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
		assert.NotEmpty(t, body.Error.RequestID)
	})

	t.Run("missing uri parameter", func(t *testing.T) {
		rec := doGet(t, srv, "/v1/stat")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "MISSING_URI", decodeError(t, rec).Error.Code)
	})
}

func TestServer_List(t *testing.T) {
	srv := newTestServer(t)

	t.Run("directory listing", func(t *testing.T) {
		rec := doGet(t, srv, "/v1/list?uri=s3://bkt/data")
		require.Equal(t, http.StatusOK, rec.Code)

		var body handlers.ListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "s3://bkt/data", body.Path)

		var paths []string
		for _, e := range body.Entries {
			paths = append(paths, e.Path)
		}
		assert.Equal(t, []string{"s3://bkt/data/sub", "s3://bkt/data/a.txt"}, paths)
	})

	t.Run("not a directory", func(t *testing.T) {
		rec := doGet(t, srv, "/v1/list?uri=s3://bkt/data/a.txt")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "NOT_A_DIRECTORY", decodeError(t, rec).Error.Code)
	})
}

func TestServer_Object(t *testing.T) {
	srv := newTestServer(t)

	t.Run("streams content", func(t *testing.T) {
		rec := doGet(t, srv, "/v1/object?uri=s3://bkt/data/a.txt")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
		assert.Equal(t, "alpha", rec.Body.String())
	})

	t.Run("missing object", func(t *testing.T) {
		rec := doGet(t, srv, "/v1/object?uri=s3://bkt/absent")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Error.Code)
	})
}
