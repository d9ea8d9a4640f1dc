package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/abhie-lp/recipe-app-api/internal/errors"
)

func TestTagService_CreateAndList(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := env.mustCreateUser(t, "cook@example.com")

	for _, name := range []string{"Breakfast", "Vegan", "Dessert"} {
		_, err := env.tags.Create(ctx, user.ID, TagRequest{Name: name})
		require.NoError(t, err)
	}

	tags, err := env.tags.List(ctx, user.ID, false)
	require.NoError(t, err)
	require.Len(t, tags, 3)

	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	assert.Equal(t, []string{"Vegan", "Dessert", "Breakfast"}, names)
}

func TestTagService_Create_Validation(t *testing.T) {
	env := setupServiceTest(t)
	user := env.mustCreateUser(t, "cook@example.com")

	_, err := env.tags.Create(context.Background(), user.ID, TagRequest{Name: ""})
	require.Error(t, err)
	var derr *domainerrors.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domainerrors.CodeValidation, derr.Code)
}

func TestTagService_List_AssignedOnly(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := env.mustCreateUser(t, "cook@example.com")

	used, err := env.tags.Create(ctx, user.ID, TagRequest{Name: "Used"})
	require.NoError(t, err)
	_, err = env.tags.Create(ctx, user.ID, TagRequest{Name: "Unused"})
	require.NoError(t, err)

	env.mustCreateRecipe(t, user.ID, "Dal", []int64{used.ID}, nil)

	assigned, err := env.tags.List(ctx, user.ID, true)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "Used", assigned[0].Name)
}

func TestTagService_UserIsolation(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	owner := env.mustCreateUser(t, "owner@example.com")
	other := env.mustCreateUser(t, "other@example.com")

	tag, err := env.tags.Create(ctx, owner.ID, TagRequest{Name: "Mine"})
	require.NoError(t, err)

	_, err = env.tags.Get(ctx, other.ID, tag.ID)
	require.Error(t, err)
	var derr *domainerrors.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domainerrors.CodeNotFound, derr.Code)

	list, err := env.tags.List(ctx, other.ID, false)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTagService_Update(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := env.mustCreateUser(t, "cook@example.com")

	tag, err := env.tags.Create(ctx, user.ID, TagRequest{Name: "Old"})
	require.NoError(t, err)

	updated, err := env.tags.Update(ctx, user.ID, tag.ID, TagRequest{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestTagService_Delete(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := env.mustCreateUser(t, "cook@example.com")

	tag, err := env.tags.Create(ctx, user.ID, TagRequest{Name: "Gone"})
	require.NoError(t, err)

	require.NoError(t, env.tags.Delete(ctx, user.ID, tag.ID))

	err = env.tags.Delete(ctx, user.ID, tag.ID)
	require.Error(t, err)
	var derr *domainerrors.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domainerrors.CodeNotFound, derr.Code)
}
