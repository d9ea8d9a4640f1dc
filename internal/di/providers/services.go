package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/abhie-lp/recipe-app-api/internal/auth"
	"github.com/abhie-lp/recipe-app-api/internal/logger"
	"github.com/abhie-lp/recipe-app-api/internal/media/images"
	"github.com/abhie-lp/recipe-app-api/internal/service"
)

// ProvideUserService provides the user account service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, tokens, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, log.Logger), nil
}

// ProvideIngredientService provides the ingredient service.
func ProvideIngredientService(i do.Injector) (*service.IngredientService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewIngredientService(storeHandle.Store, log.Logger), nil
}

// ProvideRecipeService provides the recipe service.
func ProvideRecipeService(i do.Injector) (*service.RecipeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[*images.Storage](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecipeService(storeHandle.Store, storage, indexHandle.RecipeIndex, log.Logger), nil
}

// TriggerSearchReindexIfNeeded rebuilds the search index when it is empty
// but recipes exist in the database. Should be called after all services
// are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	recipeService := do.MustInvoke[*service.RecipeService](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := recipeService.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	recipes, err := storeHandle.ListAllRecipes(ctx)
	if err != nil || len(recipes) == 0 {
		return
	}

	log.Info("Search index is empty but recipes exist, triggering reindex",
		"recipe_count", len(recipes),
	)

	go func() {
		if err := recipeService.ReindexAll(context.Background()); err != nil {
			log.Error("Search reindex failed", "error", err)
		}
	}()
}
