package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/abhie-lp/recipe-app-api/internal/errors"
)

func TestIngredientService_CreateAndList(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := env.mustCreateUser(t, "cook@example.com")

	for _, name := range []string{"Flour", "Salt", "Butter"} {
		_, err := env.ingredients.Create(ctx, user.ID, IngredientRequest{Name: name})
		require.NoError(t, err)
	}

	ingredients, err := env.ingredients.List(ctx, user.ID, false)
	require.NoError(t, err)
	require.Len(t, ingredients, 3)

	names := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		names = append(names, ing.Name)
	}
	assert.Equal(t, []string{"Salt", "Flour", "Butter"}, names)
}

func TestIngredientService_List_AssignedOnly(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := env.mustCreateUser(t, "cook@example.com")

	used, err := env.ingredients.Create(ctx, user.ID, IngredientRequest{Name: "Rice"})
	require.NoError(t, err)
	_, err = env.ingredients.Create(ctx, user.ID, IngredientRequest{Name: "Saffron"})
	require.NoError(t, err)

	env.mustCreateRecipe(t, user.ID, "Fried Rice", nil, []int64{used.ID})

	assigned, err := env.ingredients.List(ctx, user.ID, true)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "Rice", assigned[0].Name)
}

func TestIngredientService_UserIsolation(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	owner := env.mustCreateUser(t, "owner@example.com")
	other := env.mustCreateUser(t, "other@example.com")

	ing, err := env.ingredients.Create(ctx, owner.ID, IngredientRequest{Name: "Mine"})
	require.NoError(t, err)

	_, err = env.ingredients.Get(ctx, other.ID, ing.ID)
	require.Error(t, err)
	var derr *domainerrors.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domainerrors.CodeNotFound, derr.Code)
}

func TestIngredientService_UpdateAndDelete(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := env.mustCreateUser(t, "cook@example.com")

	ing, err := env.ingredients.Create(ctx, user.ID, IngredientRequest{Name: "Suger"})
	require.NoError(t, err)

	updated, err := env.ingredients.Update(ctx, user.ID, ing.ID, IngredientRequest{Name: "Sugar"})
	require.NoError(t, err)
	assert.Equal(t, "Sugar", updated.Name)

	require.NoError(t, env.ingredients.Delete(ctx, user.ID, ing.ID))

	_, err = env.ingredients.Get(ctx, user.ID, ing.ID)
	require.Error(t, err)
}
