package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/monitor/internal/api"
	"github.com/JaimeStill/monitor/internal/config"
	"github.com/JaimeStill/monitor/internal/infrastructure"
	"github.com/JaimeStill/monitor/pkg/middleware"
)

func newAPI(t *testing.T, classifierURL string) http.Handler {
	t.Helper()
	t.Setenv("MONITOR_DB_PATH", filepath.Join(t.TempDir(), "monitor.db"))
	t.Setenv("MONITOR_CLASSIFIER_BASE_URL", classifierURL)
	t.Setenv("MONITOR_CORS_ENABLED", "true")
	t.Setenv("MONITOR_CORS_ORIGINS", "http://localhost:3000")

	cfg, err := config.LoadFrom(t.TempDir())
	require.NoError(t, err)

	infra, err := infrastructure.NewWithOutput(cfg, io.Discard)
	require.NoError(t, err)
	require.NoError(t, infra.Start())
	require.NoError(t, infra.Lifecycle.WaitForStartup())
	t.Cleanup(func() { infra.Lifecycle.Shutdown(5 * time.Second) })

	m, err := api.NewModule(cfg, infra)
	require.NoError(t, err)
	return m
}

func TestModuleAnalyzeFlow(t *testing.T) {
	var calls int
	hf := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"label":"DEVIATES","score":0.8349},{"label":"UNCLEAR","score":0.1}]`)
	}))
	defer hf.Close()

	h := newAPI(t, hf.URL)
	body := `{"action":"Pushed directly to main","guideline":"All changes go through review"}`

	for range 2 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/analyze", strings.NewReader(body)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	}
	assert.Equal(t, 1, calls)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":1,"results_count":{"DEVIATES":1}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var history []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "DEVIATES", history[0]["result"])
}

func TestModuleClassifierUnavailable(t *testing.T) {
	hf := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer hf.Close()

	h := newAPI(t, hf.URL)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/analyze", strings.NewReader(`{"action":"a","guideline":"g"}`)))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/history", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestModuleRejectsOversizedBody(t *testing.T) {
	t.Setenv("MONITOR_API_MAX_REQUEST_SIZE", "64")
	h := newAPI(t, "http://127.0.0.1:1")

	body := `{"action":"` + strings.Repeat("a", 256) + `","guideline":"g"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/analyze", bytes.NewBufferString(body)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestModuleCORSPreflight(t *testing.T) {
	h := newAPI(t, "http://127.0.0.1:1")

	req := httptest.NewRequest("OPTIONS", "/api/analyze", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestModuleServesOpenAPI(t *testing.T) {
	h := newAPI(t, "http://127.0.0.1:1")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/openapi.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		OpenAPI string         `json:"openapi"`
		Info    map[string]any `json:"info"`
		Paths   map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.1.0", doc.OpenAPI)
	assert.Equal(t, "Monitor API", doc.Info["title"])
	for _, p := range []string{"/analyze", "/history", "/summary", "/analyses", "/analyses/{id}"} {
		assert.Contains(t, doc.Paths, p)
	}
}
