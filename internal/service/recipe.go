package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/abhie-lp/recipe-app-api/internal/domain"
	domainerrors "github.com/abhie-lp/recipe-app-api/internal/errors"
	"github.com/abhie-lp/recipe-app-api/internal/media/images"
	"github.com/abhie-lp/recipe-app-api/internal/search"
	"github.com/abhie-lp/recipe-app-api/internal/store"
)

// RecipeService orchestrates recipe operations: CRUD, tag and ingredient
// attachment, image upload, and full-text search. All operations are
// scoped to the owning user.
type RecipeService struct {
	store   store.Store
	storage *images.Storage
	index   *search.RecipeIndex
	logger  *slog.Logger
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(store store.Store, storage *images.Storage, index *search.RecipeIndex, logger *slog.Logger) *RecipeService {
	return &RecipeService{
		store:   store,
		storage: storage,
		index:   index,
		logger:  logger,
	}
}

// CreateRecipeRequest contains new recipe data.
type CreateRecipeRequest struct {
	Title         string  `json:"title" validate:"required,max=255"`
	TimeMinutes   int     `json:"time_minutes" validate:"required,min=1"`
	Price         float64 `json:"price" validate:"min=0,max=999.99"`
	Link          string  `json:"link" validate:"max=255"`
	TagIDs        []int64 `json:"tags"`
	IngredientIDs []int64 `json:"ingredients"`
}

// UpdateRecipeRequest contains partial recipe updates. Nil fields are
// left unchanged; a non-nil empty ID slice clears the links.
type UpdateRecipeRequest struct {
	Title         *string  `json:"title,omitempty" validate:"omitempty,max=255"`
	TimeMinutes   *int     `json:"time_minutes,omitempty" validate:"omitempty,min=1"`
	Price         *float64 `json:"price,omitempty" validate:"omitempty,min=0,max=999.99"`
	Link          *string  `json:"link,omitempty" validate:"omitempty,max=255"`
	TagIDs        []int64  `json:"tags,omitempty"`
	IngredientIDs []int64  `json:"ingredients,omitempty"`
}

// ListFilter narrows a recipe listing.
type ListFilter struct {
	TagIDs        []int64
	IngredientIDs []int64
}

// Create adds a new recipe for the user. Attached tags and ingredients
// must already exist and belong to the same user.
func (s *RecipeService) Create(ctx context.Context, userID int64, req CreateRecipeRequest) (*domain.Recipe, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	if err := s.verifyOwnedLinks(ctx, userID, req.TagIDs, req.IngredientIDs); err != nil {
		return nil, err
	}

	now := time.Now()
	recipe := &domain.Recipe{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       roundPrice(req.Price),
		Link:        req.Link,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateRecipe(ctx, recipe, req.TagIDs, req.IngredientIDs); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	created, err := s.Get(ctx, userID, recipe.ID)
	if err != nil {
		return nil, err
	}

	s.indexRecipe(created)

	s.logger.Info("recipe created", "recipe_id", created.ID, "user_id", userID)

	return created, nil
}

// List returns the user's recipes, newest first, optionally narrowed by
// tag and ingredient filters.
func (s *RecipeService) List(ctx context.Context, userID int64, filter ListFilter) ([]*domain.Recipe, error) {
	return s.store.ListRecipes(ctx, userID, store.RecipeFilter{
		TagIDs:        filter.TagIDs,
		IngredientIDs: filter.IngredientIDs,
	})
}

// Get returns one of the user's recipes with tags and ingredients.
func (s *RecipeService) Get(ctx context.Context, userID, recipeID int64) (*domain.Recipe, error) {
	recipe, err := s.store.GetRecipe(ctx, userID, recipeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return recipe, nil
}

// Update applies partial changes to one of the user's recipes.
func (s *RecipeService) Update(ctx context.Context, userID, recipeID int64, req UpdateRecipeRequest) (*domain.Recipe, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	if err := s.verifyOwnedLinks(ctx, userID, req.TagIDs, req.IngredientIDs); err != nil {
		return nil, err
	}

	recipe, err := s.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		recipe.Title = *req.Title
	}
	if req.TimeMinutes != nil {
		recipe.TimeMinutes = *req.TimeMinutes
	}
	if req.Price != nil {
		recipe.Price = roundPrice(*req.Price)
	}
	if req.Link != nil {
		recipe.Link = *req.Link
	}
	recipe.UpdatedAt = time.Now()

	if err := s.store.UpdateRecipe(ctx, recipe, req.TagIDs, req.IngredientIDs); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	updated, err := s.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	s.indexRecipe(updated)

	return updated, nil
}

// Delete removes one of the user's recipes along with its stored image
// and search index entry.
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID int64) error {
	recipe, err := s.Get(ctx, userID, recipeID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteRecipe(ctx, userID, recipeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("recipe not found")
		}
		return fmt.Errorf("delete recipe: %w", err)
	}

	if recipe.Image != "" {
		if err := s.storage.Delete(recipe.Image); err != nil {
			s.logger.Warn("failed to delete recipe image",
				"recipe_id", recipeID,
				"image", recipe.Image,
				"error", err,
			)
		}
	}

	if s.index != nil {
		if err := s.index.DeleteRecipe(strconv.FormatInt(recipeID, 10)); err != nil {
			s.logger.Warn("failed to remove recipe from search index",
				"recipe_id", recipeID,
				"error", err,
			)
		}
	}

	s.logger.Info("recipe deleted", "recipe_id", recipeID, "user_id", userID)

	return nil
}

// UploadImage validates and stores an image for a recipe, replacing any
// previous one. The stored filename and a BlurHash placeholder are
// recorded on the recipe.
func (s *RecipeService) UploadImage(ctx context.Context, userID, recipeID int64, data []byte) (*domain.Recipe, error) {
	recipe, err := s.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	img, format, err := images.Decode(data)
	if err != nil {
		return nil, domainerrors.Validation("uploaded file is not a valid image")
	}

	ext, err := images.ExtensionForFormat(format)
	if err != nil {
		return nil, domainerrors.Validation("unsupported image format")
	}

	blurHash, err := images.ComputeBlurHash(img)
	if err != nil {
		s.logger.Warn("failed to compute blur hash", "recipe_id", recipeID, "error", err)
		blurHash = ""
	}

	filename := images.NewFilename(ext)
	if err := s.storage.Save(filename, data); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	if err := s.store.SetRecipeImage(ctx, userID, recipeID, filename, blurHash); err != nil {
		// Roll back the orphaned file.
		_ = s.storage.Delete(filename)
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("set recipe image: %w", err)
	}

	if recipe.Image != "" && recipe.Image != filename {
		if err := s.storage.Delete(recipe.Image); err != nil {
			s.logger.Warn("failed to delete replaced image",
				"recipe_id", recipeID,
				"image", recipe.Image,
				"error", err,
			)
		}
	}

	s.logger.Info("recipe image uploaded",
		"recipe_id", recipeID,
		"user_id", userID,
		"filename", filename,
	)

	return s.Get(ctx, userID, recipeID)
}

// GetImage returns the stored image data for a filename.
func (s *RecipeService) GetImage(filename string) ([]byte, error) {
	data, err := s.storage.Get(filename)
	if err != nil {
		return nil, domainerrors.NotFound("image not found")
	}
	return data, nil
}

// Search finds the user's recipes matching the query text across titles,
// tag names and ingredient names, in descending relevance order.
func (s *RecipeService) Search(ctx context.Context, userID int64, query string) ([]*domain.Recipe, error) {
	if s.index == nil {
		return []*domain.Recipe{}, nil
	}

	ids, err := s.index.Search(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}

	recipes := make([]*domain.Recipe, 0, len(ids))
	for _, id := range ids {
		recipe, err := s.store.GetRecipe(ctx, userID, id)
		if err != nil {
			// Index can lag behind deletes.
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get recipe %d: %w", id, err)
		}
		recipes = append(recipes, recipe)
	}

	return recipes, nil
}

// DocumentCount reports how many recipes are in the search index.
func (s *RecipeService) DocumentCount() (uint64, error) {
	if s.index == nil {
		return 0, nil
	}
	return s.index.DocumentCount()
}

// ReindexAll rebuilds the search index from the database. Used on startup
// when the index is empty but recipes exist, for example after the index
// was recreated following corruption.
func (s *RecipeService) ReindexAll(ctx context.Context) error {
	if s.index == nil {
		return nil
	}

	recipes, err := s.store.ListAllRecipes(ctx)
	if err != nil {
		return fmt.Errorf("list recipes for reindex: %w", err)
	}

	for _, recipe := range recipes {
		if err := s.index.IndexRecipe(search.RecipeToDocument(recipe)); err != nil {
			return fmt.Errorf("index recipe %d: %w", recipe.ID, err)
		}
	}

	s.logger.Info("search reindex completed", "recipes", len(recipes))
	return nil
}

// verifyOwnedLinks ensures every referenced tag and ingredient exists and
// belongs to the user. References to missing or foreign entities are
// rejected rather than silently dropped.
func (s *RecipeService) verifyOwnedLinks(ctx context.Context, userID int64, tagIDs, ingredientIDs []int64) error {
	if len(tagIDs) > 0 {
		tags, err := s.store.GetTagsByIDs(ctx, userID, tagIDs)
		if err != nil {
			return fmt.Errorf("verify tags: %w", err)
		}
		if len(tags) != len(uniqueIDs(tagIDs)) {
			return domainerrors.Validation("one or more tags do not exist")
		}
	}

	if len(ingredientIDs) > 0 {
		ingredients, err := s.store.GetIngredientsByIDs(ctx, userID, ingredientIDs)
		if err != nil {
			return fmt.Errorf("verify ingredients: %w", err)
		}
		if len(ingredients) != len(uniqueIDs(ingredientIDs)) {
			return domainerrors.Validation("one or more ingredients do not exist")
		}
	}

	return nil
}

// indexRecipe updates the search index, best effort.
func (s *RecipeService) indexRecipe(recipe *domain.Recipe) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexRecipe(search.RecipeToDocument(recipe)); err != nil {
		s.logger.Warn("failed to index recipe",
			"recipe_id", recipe.ID,
			"error", err,
		)
	}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// roundPrice normalizes a price to two decimal places.
func roundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}
