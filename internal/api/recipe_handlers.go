package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/abhie-lp/recipe-app-api/internal/domain"
	"github.com/abhie-lp/recipe-app-api/internal/service"
)

func (s *Server) registerRecipeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRecipes",
		Method:      http.MethodGet,
		Path:        "/api/recipe/recipes/",
		Summary:     "List recipes",
		Description: "Returns recipes for the current user, optionally filtered by tags and ingredients",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createRecipe",
		Method:        http.MethodPost,
		Path:          "/api/recipe/recipes/",
		Summary:       "Create recipe",
		Description:   "Creates a new recipe with optional tag and ingredient links",
		Tags:          []string{"Recipes"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchRecipes",
		Method:      http.MethodGet,
		Path:        "/api/recipe/recipes/search",
		Summary:     "Search recipes",
		Description: "Full-text search over the current user's recipes",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecipe",
		Method:      http.MethodGet,
		Path:        "/api/recipe/recipes/{id}/",
		Summary:     "Get recipe",
		Description: "Returns a recipe by ID with its tags and ingredients",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "replaceRecipe",
		Method:      http.MethodPut,
		Path:        "/api/recipe/recipes/{id}/",
		Summary:     "Replace recipe",
		Description: "Replaces all fields of a recipe",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReplaceRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRecipe",
		Method:      http.MethodPatch,
		Path:        "/api/recipe/recipes/{id}/",
		Summary:     "Update recipe",
		Description: "Updates the provided fields of a recipe",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteRecipe",
		Method:      http.MethodDelete,
		Path:        "/api/recipe/recipes/{id}/",
		Summary:     "Delete recipe",
		Description: "Deletes a recipe and its stored image",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteRecipe)
}

// === DTOs ===

// ListRecipesInput contains parameters for listing recipes.
type ListRecipesInput struct {
	Authorization string `header:"Authorization"`
	Tags          string `query:"tags" doc:"Comma-separated tag IDs to filter by"`
	Ingredients   string `query:"ingredients" doc:"Comma-separated ingredient IDs to filter by"`
}

// RecipeResponse contains recipe data in API responses.
type RecipeResponse struct {
	ID            int64                `json:"id" doc:"Recipe ID"`
	Title         string               `json:"title" doc:"Recipe title"`
	TimeMinutes   int                  `json:"time_minutes" doc:"Preparation time in minutes"`
	Price         float64              `json:"price" doc:"Price, two decimal places"`
	Link          string               `json:"link,omitempty" doc:"External link"`
	Image         string               `json:"image,omitempty" doc:"Image URL"`
	ImageBlurHash string               `json:"image_blur_hash,omitempty" doc:"BlurHash placeholder"`
	Tags          []TagResponse        `json:"tags" doc:"Linked tags"`
	Ingredients   []IngredientResponse `json:"ingredients" doc:"Linked ingredients"`
	CreatedAt     time.Time            `json:"created_at" doc:"Creation time"`
	UpdatedAt     time.Time            `json:"updated_at" doc:"Last update time"`
}

// ListRecipesResponse contains a list of recipes.
type ListRecipesResponse struct {
	Recipes []RecipeResponse `json:"recipes" doc:"List of recipes"`
}

// ListRecipesOutput wraps the list recipes response for Huma.
type ListRecipesOutput struct {
	Body ListRecipesResponse
}

// RecipeBody is the request body for creating or replacing a recipe.
type RecipeBody struct {
	Title       string  `json:"title" doc:"Recipe title"`
	TimeMinutes int     `json:"time_minutes" doc:"Preparation time in minutes"`
	Price       float64 `json:"price" doc:"Price"`
	Link        string  `json:"link,omitempty" doc:"External link"`
	Tags        []int64 `json:"tags,omitempty" doc:"Tag IDs to link"`
	Ingredients []int64 `json:"ingredients,omitempty" doc:"Ingredient IDs to link"`
}

// CreateRecipeInput wraps the create recipe request for Huma.
type CreateRecipeInput struct {
	Authorization string `header:"Authorization"`
	Body          RecipeBody
}

// RecipeOutput wraps the recipe response for Huma.
type RecipeOutput struct {
	Body RecipeResponse
}

// GetRecipeInput contains parameters for getting a recipe.
type GetRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Recipe ID"`
}

// ReplaceRecipeInput wraps the replace recipe request for Huma.
type ReplaceRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Recipe ID"`
	Body          RecipeBody
}

// UpdateRecipeBody is the request body for partially updating a recipe.
// Omitted fields keep their current values; an empty tags or ingredients
// array clears the links.
type UpdateRecipeBody struct {
	Title       *string  `json:"title,omitempty" doc:"Recipe title"`
	TimeMinutes *int     `json:"time_minutes,omitempty" doc:"Preparation time in minutes"`
	Price       *float64 `json:"price,omitempty" doc:"Price"`
	Link        *string  `json:"link,omitempty" doc:"External link"`
	Tags        []int64  `json:"tags,omitempty" doc:"Tag IDs to link"`
	Ingredients []int64  `json:"ingredients,omitempty" doc:"Ingredient IDs to link"`
}

// UpdateRecipeInput wraps the update recipe request for Huma.
type UpdateRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Recipe ID"`
	Body          UpdateRecipeBody
}

// DeleteRecipeInput contains parameters for deleting a recipe.
type DeleteRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Recipe ID"`
}

// SearchRecipesInput contains parameters for searching recipes.
type SearchRecipesInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" doc:"Search terms matched against titles, tags, and ingredients"`
}

func recipeToResponse(r *domain.Recipe) RecipeResponse {
	tags := make([]TagResponse, len(r.Tags))
	for i, t := range r.Tags {
		tags[i] = tagToResponse(t)
	}

	ingredients := make([]IngredientResponse, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = ingredientToResponse(ing)
	}

	return RecipeResponse{
		ID:            r.ID,
		Title:         r.Title,
		TimeMinutes:   r.TimeMinutes,
		Price:         r.Price,
		Link:          r.Link,
		Image:         imageURL(r.Image),
		ImageBlurHash: r.ImageBlurHash,
		Tags:          tags,
		Ingredients:   ingredients,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// imageURL maps a stored filename to its public URL.
func imageURL(filename string) string {
	if filename == "" {
		return ""
	}
	return "/media/recipes/" + filename
}

// === Handlers ===

func (s *Server) handleListRecipes(ctx context.Context, input *ListRecipesInput) (*ListRecipesOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	tagIDs, err := service.ParseIDList(input.Tags)
	if err != nil {
		return nil, err
	}
	ingredientIDs, err := service.ParseIDList(input.Ingredients)
	if err != nil {
		return nil, err
	}

	recipes, err := s.services.Recipe.List(ctx, userID, service.ListFilter{
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]RecipeResponse, len(recipes))
	for i, r := range recipes {
		resp[i] = recipeToResponse(r)
	}

	return &ListRecipesOutput{Body: ListRecipesResponse{Recipes: resp}}, nil
}

func (s *Server) handleCreateRecipe(ctx context.Context, input *CreateRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Create(ctx, userID, service.CreateRecipeRequest{
		Title:         input.Body.Title,
		TimeMinutes:   input.Body.TimeMinutes,
		Price:         input.Body.Price,
		Link:          input.Body.Link,
		TagIDs:        input.Body.Tags,
		IngredientIDs: input.Body.Ingredients,
	})
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: recipeToResponse(recipe)}, nil
}

func (s *Server) handleGetRecipe(ctx context.Context, input *GetRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: recipeToResponse(recipe)}, nil
}

func (s *Server) handleReplaceRecipe(ctx context.Context, input *ReplaceRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	// Full replacement: every field is written, omitted links are cleared.
	tagIDs := input.Body.Tags
	if tagIDs == nil {
		tagIDs = []int64{}
	}
	ingredientIDs := input.Body.Ingredients
	if ingredientIDs == nil {
		ingredientIDs = []int64{}
	}

	recipe, err := s.services.Recipe.Update(ctx, userID, input.ID, service.UpdateRecipeRequest{
		Title:         &input.Body.Title,
		TimeMinutes:   &input.Body.TimeMinutes,
		Price:         &input.Body.Price,
		Link:          &input.Body.Link,
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: recipeToResponse(recipe)}, nil
}

func (s *Server) handleUpdateRecipe(ctx context.Context, input *UpdateRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Update(ctx, userID, input.ID, service.UpdateRecipeRequest{
		Title:         input.Body.Title,
		TimeMinutes:   input.Body.TimeMinutes,
		Price:         input.Body.Price,
		Link:          input.Body.Link,
		TagIDs:        input.Body.Tags,
		IngredientIDs: input.Body.Ingredients,
	})
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: recipeToResponse(recipe)}, nil
}

func (s *Server) handleDeleteRecipe(ctx context.Context, input *DeleteRecipeInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Recipe.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Recipe deleted"}}, nil
}

func (s *Server) handleSearchRecipes(ctx context.Context, input *SearchRecipesInput) (*ListRecipesOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	recipes, err := s.services.Recipe.Search(ctx, userID, input.Query)
	if err != nil {
		return nil, err
	}

	resp := make([]RecipeResponse, len(recipes))
	for i, r := range recipes {
		resp[i] = recipeToResponse(r)
	}

	return &ListRecipesOutput{Body: ListRecipesResponse{Recipes: resp}}, nil
}
