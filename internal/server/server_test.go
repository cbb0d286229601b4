package server

import (
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bulletrow/internal/config"
	"bulletrow/internal/logger"
	"bulletrow/internal/storage"
)

const rowBody = `{"data": [
	{"maxresults": [100], "results": [40, 30], "rlabels": ["actual", "forecast"]},
	{"maxresults": [50, 80], "results": [60]}
]}`

func newTestServer(t *testing.T, store storage.StorageClient) *Server {
	t.Helper()
	cfg, err := config.LoadWithLookuper(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	s := NewServer(cfg, store)
	s.log = logger.New(logger.Config{Level: logger.DEBUG, Output: io.Discard, Component: "server-test"})
	s.now = func() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) }
	return s
}

func post(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.SetupRoutes().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.SetupRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "2026-10-15T12:00:00Z", body["timestamp"])

	rec = httptest.NewRecorder()
	s.SetupRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleRenderSVG(t *testing.T) {
	rec := post(t, newTestServer(t, nil), rowBody)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
}

func TestHandleRenderPNGWithOverrides(t *testing.T) {
	body := `{"width": 400, "height": 80, "palette": "set2", "format": "png",
		"data": [{"maxresults": [10], "results": [5]}]}`
	rec := post(t, newTestServer(t, nil), body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}

func TestHandleRenderHTMLTitle(t *testing.T) {
	body := `{"format": "html", "title": "Sprint", "data": [{"maxresults": [10], "results": [5]}]}`
	rec := post(t, newTestServer(t, nil), body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h4>Sprint</h4>")
}

func TestHandleRenderRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{"data": [`, "invalid request body"},
		{"unknown field", `{"colour": "red", "data": []}`, "invalid request body"},
		{"no datasets", `{"data": []}`, "no datasets"},
		{"negative value", `{"data": [{"maxresults": [-1], "results": [1]}]}`, "negative"},
		{"empty series", `{"data": [{"maxresults": [1], "results": []}]}`, "empty"},
		{"bad format", `{"format": "pdf", "data": [{"maxresults": [1], "results": [1]}]}`, "unsupported output format"},
		{"bad palette", `{"palette": "neon", "data": [{"maxresults": [1], "results": [1]}]}`, "unknown palette"},
		{"canvas too small", `{"width": 5, "data": [{"maxresults": [1], "results": [1]}]}`, "no drawable area"},
		{"store without storage", `{"store": true, "data": [{"maxresults": [1], "results": [1]}]}`, "storage is not configured"},
	}
	s := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, s, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestHandleRenderMethod(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.SetupRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/render", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleRenderStores(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStorageClient(dir)
	require.NoError(t, err)

	s := newTestServer(t, store)
	defer s.Close()
	rec := post(t, s, `{"store": true, "data": [{"maxresults": [10], "results": [5]}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	want := filepath.Join(dir, "2026", "10", "15", "BulletRow-2026-10-15-12-00-00.svg")
	assert.Equal(t, want, rec.Header().Get("X-Chart-Location"))
	stored, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, rec.Body.Bytes(), stored)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	post(t, s, rowBody)
	post(t, s, `{"data": []}`)

	rec := httptest.NewRecorder()
	s.SetupRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	out := rec.Body.String()
	assert.Contains(t, out, `bulletrow_renders_total{format="svg",status="ok"} 1`)
	assert.Contains(t, out, `bulletrow_renders_total{format="svg",status="error"} 1`)
	assert.Contains(t, out, "bulletrow_render_duration_seconds")
}

func TestHandleRenderStoresDistinctFilesWithinOneSecond(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStorageClient(dir)
	require.NoError(t, err)

	s := newTestServer(t, store)
	defer s.Close()
	body := `{"store": true, "data": [{"maxresults": [10], "results": [5]}]}`

	first := post(t, s, body)
	second := post(t, s, `{"store": true, "data": [{"maxresults": [10], "results": [9]}]}`)
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)

	base := filepath.Join(dir, "2026", "10", "15", "BulletRow-2026-10-15-12-00-00")
	assert.Equal(t, base+".svg", first.Header().Get("X-Chart-Location"))
	assert.Equal(t, base+"-1.svg", second.Header().Get("X-Chart-Location"))

	kept, err := os.ReadFile(base + ".svg")
	require.NoError(t, err)
	assert.Equal(t, first.Body.Bytes(), kept)
	kept, err = os.ReadFile(base + "-1.svg")
	require.NoError(t, err)
	assert.Equal(t, second.Body.Bytes(), kept)
}
