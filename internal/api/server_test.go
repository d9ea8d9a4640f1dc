package api

import (
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhie-lp/recipe-app-api/internal/auth"
	"github.com/abhie-lp/recipe-app-api/internal/config"
	"github.com/abhie-lp/recipe-app-api/internal/media/images"
	"github.com/abhie-lp/recipe-app-api/internal/search"
	"github.com/abhie-lp/recipe-app-api/internal/service"
	"github.com/abhie-lp/recipe-app-api/internal/store/sqlite"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api humatest.TestAPI
}

const testKeyHex = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// setupTestServer creates a test server with all dependencies on a temp dir.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWithRateLimit(t, 100)
}

func setupTestServerWithRateLimit(t *testing.T, tokenRequestsPerMinute int) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokens, err := auth.NewTokenService(testKeyHex, 15*time.Minute)
	require.NoError(t, err)

	storage, err := images.NewStorage(filepath.Join(tmpDir, "media"))
	require.NoError(t, err)

	index, err := search.NewRecipeIndex(search.Options{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	services := &Services{
		User:       service.NewUserService(st, tokens, logger),
		Tag:        service.NewTagService(st, logger),
		Ingredient: service.NewIngredientService(st, logger),
		Recipe:     service.NewRecipeService(st, storage, index, logger),
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Name: "Test Server", Port: "8080"},
		Auth: config.AuthConfig{
			AccessTokenDuration:    15 * time.Minute,
			TokenRequestsPerMinute: tokenRequestsPerMinute,
		},
	}

	server := NewServer(cfg, st, services, tokens, logger)

	return &testServer{
		Server: server,
		api:    humatest.Wrap(t, server.api),
	}
}

// registerTestUser creates a user via the API and returns a bearer token.
func (ts *testServer) registerTestUser(t *testing.T, email string) string {
	t.Helper()

	resp := ts.api.Post("/api/user/create/", map[string]any{
		"email":    email,
		"password": "secret1",
		"name":     "Test User",
	})
	require.Equal(t, http.StatusCreated, resp.Code, "create user failed: %s", resp.Body.String())

	resp = ts.api.Post("/api/user/token/", map[string]any{
		"email":    email,
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.Code, "create token failed: %s", resp.Body.String())

	var envelope testEnvelope[TokenResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Token)

	return envelope.Data.Token
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, EnvelopeVersion, envelope.Version)
	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Status)
	assert.Equal(t, "healthy", envelope.Data.Components["database"].Status)
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/recipe/nope/")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := setupTestServer(t)

	paths := []string{
		"/api/user/me/",
		"/api/recipe/tags/",
		"/api/recipe/ingredients/",
		"/api/recipe/recipes/",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			resp := ts.api.Get(path)
			assert.Equal(t, http.StatusUnauthorized, resp.Code)

			resp = ts.api.Get(path, "Authorization: Bearer garbage")
			assert.Equal(t, http.StatusUnauthorized, resp.Code)
		})
	}
}

func TestTokenRateLimit(t *testing.T) {
	ts := setupTestServerWithRateLimit(t, 2)

	body := map[string]any{"email": "nobody@example.com", "password": "wrong"}

	// The first two attempts pass the limiter and fail on credentials.
	for i := 0; i < 2; i++ {
		resp := ts.api.Post("/api/user/token/", body)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	}

	resp := ts.api.Post("/api/user/token/", body)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
}
