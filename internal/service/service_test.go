package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abhie-lp/recipe-app-api/internal/auth"
	"github.com/abhie-lp/recipe-app-api/internal/domain"
	"github.com/abhie-lp/recipe-app-api/internal/media/images"
	"github.com/abhie-lp/recipe-app-api/internal/search"
	"github.com/abhie-lp/recipe-app-api/internal/store/sqlite"
)

// testEnv bundles the services under test with their shared backing store.
type testEnv struct {
	users       *UserService
	tags        *TagService
	ingredients *IngredientService
	recipes     *RecipeService
	tokens      *auth.TokenService
	store       *sqlite.Store
	logger      *slog.Logger
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	s, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(hex.EncodeToString(key), time.Hour)
	require.NoError(t, err)

	storage, err := images.NewStorage(filepath.Join(dir, "media"))
	require.NoError(t, err)

	index, err := search.NewRecipeIndex(search.Options{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	return &testEnv{
		users:       NewUserService(s, tokenService, logger),
		tags:        NewTagService(s, logger),
		ingredients: NewIngredientService(s, logger),
		recipes:     NewRecipeService(s, storage, index, logger),
		tokens:      tokenService,
		store:       s,
		logger:      logger,
	}
}

// mustCreateUser registers a user through the service layer.
func (e *testEnv) mustCreateUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := e.users.Create(context.Background(), CreateUserRequest{
		Email:    email,
		Password: "secret1",
		Name:     "Test User",
	})
	require.NoError(t, err)
	return user
}
