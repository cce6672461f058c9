package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tcgen/config"
	"tcgen/core"
	"tcgen/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()
	rules, err := config.LoadRules()
	require.NoError(t, err)
	cfg := config.Default()
	cfg.RateLimit.RequestsPerSecond = 1000
	cfg.RateLimit.Burst = 1000
	pipeline, err := service.NewPipeline(cfg, rules, zap.NewNop().Sugar())
	require.NoError(t, err)
	return New(cfg, pipeline, zap.NewNop().Sugar())
}

func postGenerate(t *testing.T, a *API, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	return rec
}

func TestAPI_GenerateSingleText(t *testing.T) {
	a := newTestAPI(t)

	rec := postGenerate(t, a, `{"text": "User shall login with valid credentials"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var output core.BatchOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &output))
	require.Len(t, output.NormalizedRequirements, 1)
	assert.Equal(t, "User", output.NormalizedRequirements[0].Normalized.Actor)
	assert.NotEmpty(t, output.TestCases)
}

func TestAPI_GenerateBatch(t *testing.T) {
	a := newTestAPI(t)

	rec := postGenerate(t, a, `{"texts": ["User shall login", "System shall validate email format"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var output core.BatchOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &output))
	assert.Len(t, output.NormalizedRequirements, 2)
}

func TestAPI_GenerateRejectsInvalidJSON(t *testing.T) {
	a := newTestAPI(t)

	rec := postGenerate(t, a, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_GenerateRejectsMissingText(t *testing.T) {
	a := newTestAPI(t)

	rec := postGenerate(t, a, `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "required")
}

func TestAPI_GenerateRejectsEmptyText(t *testing.T) {
	a := newTestAPI(t)

	rec := postGenerate(t, a, `{"text": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_GenerateMethodNotAllowed(t *testing.T) {
	a := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/generate", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAPI_Health(t *testing.T) {
	a := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestAPI_RateLimitExceeded(t *testing.T) {
	rules, err := config.LoadRules()
	require.NoError(t, err)
	cfg := config.Default()
	cfg.RateLimit.RequestsPerSecond = 1
	cfg.RateLimit.Burst = 1
	pipeline, err := service.NewPipeline(cfg, rules, zap.NewNop().Sugar())
	require.NoError(t, err)
	a := New(cfg, pipeline, zap.NewNop().Sugar())

	first := postGenerate(t, a, `{"text": "User shall login"}`)
	require.Equal(t, http.StatusOK, first.Code)

	second := postGenerate(t, a, `{"text": "User shall login"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestAPI_RateLimitIsPerClient(t *testing.T) {
	rules, err := config.LoadRules()
	require.NoError(t, err)
	cfg := config.Default()
	cfg.RateLimit.RequestsPerSecond = 1
	cfg.RateLimit.Burst = 1
	pipeline, err := service.NewPipeline(cfg, rules, zap.NewNop().Sugar())
	require.NoError(t, err)
	a := New(cfg, pipeline, zap.NewNop().Sugar())

	exhaust := postGenerate(t, a, `{"text": "User shall login"}`)
	require.Equal(t, http.StatusOK, exhaust.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/generate",
		bytes.NewBufferString(`{"text": "User shall login"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.99:1234"
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
