package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/3leaps/s3path/internal/errors"
	"github.com/3leaps/s3path/internal/observability"
	"github.com/3leaps/s3path/internal/server/middleware"
	"github.com/3leaps/s3path/pkg/s3path"
)

// ResolveFunc turns a request URI into a path node. The server injects a
// resolver bound to its shared client so every request reuses one connection
// pool.
type ResolveFunc func(uri string) (*s3path.Path, error)

// API serves the read-only path endpoints.
type API struct {
	resolve ResolveFunc
}

// NewAPI creates the path API around a resolver.
func NewAPI(resolve ResolveFunc) *API {
	return &API{resolve: resolve}
}

// StatResponse is the body of GET /v1/stat.
type StatResponse struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Size    int64  `json:"size"`
	ModTime string `json:"mod_time,omitempty"`
	ETag    string `json:"etag,omitempty"`
}

// ListEntry is one child in GET /v1/list.
type ListEntry struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// ListResponse is the body of GET /v1/list.
type ListResponse struct {
	Path    string      `json:"path"`
	Entries []ListEntry `json:"entries"`
}

func (a *API) path(w http.ResponseWriter, r *http.Request) (*s3path.Path, bool) {
	requestID := middleware.GetRequestID(r.Context())
	uri := r.URL.Query().Get("uri")
	if uri == "" {
		apperrors.WriteError(w, http.StatusBadRequest, "MISSING_URI", "query parameter uri is required", requestID)
		return nil, false
	}
	p, err := a.resolve(uri)
	if err != nil {
		apperrors.WriteError(w, http.StatusBadRequest, "INVALID_URI", err.Error(), requestID)
		return nil, false
	}
	return p, true
}

// Stat handles GET /v1/stat?uri=s3://bucket/key.
func (a *API) Stat(w http.ResponseWriter, r *http.Request) {
	p, ok := a.path(w, r)
	if !ok {
		return
	}

	info, err := p.Stat(r.Context())
	if err != nil {
		apperrors.RespondWithError(w, middleware.GetRequestID(r.Context()), err)
		return
	}

	resp := StatResponse{
		Path: p.String(),
		Name: info.Name(),
		Type: "file",
		Size: info.Size(),
	}
	if info.IsDir() {
		resp.Type = "directory"
	}
	if !info.ModTime().IsZero() {
		resp.ModTime = info.ModTime().UTC().Format(time.RFC3339)
	}
	writeJSON(w, resp)
}

// List handles GET /v1/list?uri=s3://bucket/prefix.
func (a *API) List(w http.ResponseWriter, r *http.Request) {
	p, ok := a.path(w, r)
	if !ok {
		return
	}

	children, err := p.Iterdir(r.Context())
	if err != nil {
		apperrors.RespondWithError(w, middleware.GetRequestID(r.Context()), err)
		return
	}

	resp := ListResponse{Path: p.String(), Entries: []ListEntry{}}
	for child := range children {
		resp.Entries = append(resp.Entries, ListEntry{
			Path: child.String(),
			Name: child.Name(),
		})
	}
	writeJSON(w, resp)
}

// Object handles GET /v1/object?uri=s3://bucket/key, streaming the object
// body.
func (a *API) Object(w http.ResponseWriter, r *http.Request) {
	p, ok := a.path(w, r)
	if !ok {
		return
	}

	f, err := p.Open(r.Context(), "r")
	if err != nil {
		apperrors.RespondWithError(w, middleware.GetRequestID(r.Context()), err)
		return
	}
	defer func() { _ = f.Close() }()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, f); err != nil {
		// Headers are gone; all that is left is to log the broken stream.
		observability.ServerLogger.Warn("Object stream interrupted",
			zap.String("path", p.String()), zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
