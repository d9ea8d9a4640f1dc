// Package store defines the persistence interface for the recipe API.
package store

import (
	"context"

	"github.com/abhie-lp/recipe-app-api/internal/domain"
)

// RecipeFilter narrows a recipe listing. Empty slices mean "no filter".
// TagIDs and IngredientIDs each match recipes linked to at least one of the
// listed ids; when both are set they compose conjunctively.
type RecipeFilter struct {
	TagIDs        []int64
	IngredientIDs []int64
}

// Store is the persistence interface implemented by the SQLite store.
// All tag, ingredient, and recipe operations are scoped to an owning user;
// rows belonging to other users behave as if they do not exist.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, userID, id int64) (*domain.Tag, error)
	GetTagsByIDs(ctx context.Context, userID int64, ids []int64) ([]*domain.Tag, error)
	ListTags(ctx context.Context, userID int64, assignedOnly bool) ([]*domain.Tag, error)
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	DeleteTag(ctx context.Context, userID, id int64) error

	// Ingredients
	CreateIngredient(ctx context.Context, ing *domain.Ingredient) error
	GetIngredient(ctx context.Context, userID, id int64) (*domain.Ingredient, error)
	GetIngredientsByIDs(ctx context.Context, userID int64, ids []int64) ([]*domain.Ingredient, error)
	ListIngredients(ctx context.Context, userID int64, assignedOnly bool) ([]*domain.Ingredient, error)
	UpdateIngredient(ctx context.Context, ing *domain.Ingredient) error
	DeleteIngredient(ctx context.Context, userID, id int64) error

	// Recipes
	CreateRecipe(ctx context.Context, recipe *domain.Recipe, tagIDs, ingredientIDs []int64) error
	GetRecipe(ctx context.Context, userID, id int64) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, userID int64, filter RecipeFilter) ([]*domain.Recipe, error)
	ListAllRecipes(ctx context.Context) ([]*domain.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *domain.Recipe, tagIDs, ingredientIDs []int64) error
	SetRecipeImage(ctx context.Context, userID, id int64, filename, blurHash string) error
	DeleteRecipe(ctx context.Context, userID, id int64) error
}
