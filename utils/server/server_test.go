package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsmith/flowsmith/utils/config"
)

func testEnvConfig(authEnabled bool) *config.EnvConfig {
	cfg := &config.EnvConfig{
		Providers: map[string]*config.Provider{
			"openai": {APIKey: "test-key", Models: []config.Model{{Name: "gpt-4o", Type: "external"}}},
		},
		Server: &config.ServerConfig{
			Port:        8080,
			Enabled:     authEnabled,
			BearerToken: "test-token",
		},
	}
	return cfg
}

func newTestServer(t *testing.T, envConfig *config.EnvConfig) http.Handler {
	srv, err := New(envConfig)
	require.NoError(t, err)
	return srv.Handler
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestServer(t, testEnvConfig(false))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var health HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 1, health.Providers)
}

func TestGenerateRequiresAuth(t *testing.T) {
	handler := newTestServer(t, testEnvConfig(true))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"wrong token", "Bearer wrong-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"description":"x"}`))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var resp GenerateResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestGenerateValidToken(t *testing.T) {
	handler := newTestServer(t, testEnvConfig(true))

	// Method check runs after auth; a GET with a valid token proves the
	// bearer check passed.
	req := httptest.NewRequest(http.MethodGet, "/generate", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestGenerateRejectsInvalidBody(t *testing.T) {
	handler := newTestServer(t, testEnvConfig(false))

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateRequiresDescription(t *testing.T) {
	handler := newTestServer(t, testEnvConfig(false))

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"model":"gpt-4o"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp GenerateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "description")
}

func TestGenerateUnconfiguredProvider(t *testing.T) {
	handler := newTestServer(t, testEnvConfig(false))

	body := `{"description":"notify slack","model":"claude-sonnet-4-20250514"}`
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp GenerateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Success)
}

func TestCORSPreflight(t *testing.T) {
	cfg := testEnvConfig(false)
	cfg.Server.CORS = config.CORS{
		Enabled:        true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
	}
	handler := newTestServer(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/generate", nil)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
}
