package api

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/abhie-lp/recipe-app-api/internal/http/response"
)

func (s *Server) registerImageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:  "uploadRecipeImage",
		Method:       http.MethodPost,
		Path:         "/api/recipe/recipes/{id}/upload-image/",
		Summary:      "Upload recipe image",
		Description:  "Attaches an image to a recipe, replacing any existing one",
		Tags:         []string{"Recipes"},
		Security:     []map[string][]string{{"bearer": {}}},
		MaxBodyBytes: MaxUploadSize,
	}, s.handleUploadRecipeImage)

	// Direct chi route for image streaming.
	s.router.Get("/media/recipes/{filename}", s.handleServeRecipeImage)
}

// === DTOs ===

// UploadRecipeImageInput wraps the raw image payload for Huma.
type UploadRecipeImageInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Recipe ID"`
	RawBody       []byte
}

// RecipeImageResponse contains the stored image reference.
type RecipeImageResponse struct {
	ID            int64  `json:"id" doc:"Recipe ID"`
	Image         string `json:"image" doc:"Image URL"`
	ImageBlurHash string `json:"image_blur_hash,omitempty" doc:"BlurHash placeholder"`
}

// RecipeImageOutput wraps the image response for Huma.
type RecipeImageOutput struct {
	Body RecipeImageResponse
}

// === Handlers ===

func (s *Server) handleUploadRecipeImage(ctx context.Context, input *UploadRecipeImageInput) (*RecipeImageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.UploadImage(ctx, userID, input.ID, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &RecipeImageOutput{
		Body: RecipeImageResponse{
			ID:            recipe.ID,
			Image:         imageURL(recipe.Image),
			ImageBlurHash: recipe.ImageBlurHash,
		},
	}, nil
}

func (s *Server) handleServeRecipeImage(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" {
		response.NotFound(w, "image not found", s.logger)
		return
	}

	data, err := s.services.Recipe.GetImage(filename)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", CacheOneDay)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Write(data)
}
