package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhie-lp/recipe-app-api/internal/domain"
	domainerrors "github.com/abhie-lp/recipe-app-api/internal/errors"
	"github.com/abhie-lp/recipe-app-api/internal/store"
)

// IngredientService orchestrates ingredient operations, scoped per user.
type IngredientService struct {
	store  store.Store
	logger *slog.Logger
}

// NewIngredientService creates a new ingredient service.
func NewIngredientService(store store.Store, logger *slog.Logger) *IngredientService {
	return &IngredientService{
		store:  store,
		logger: logger,
	}
}

// IngredientRequest contains ingredient data for create and update.
type IngredientRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// Create adds a new ingredient for the user.
func (s *IngredientService) Create(ctx context.Context, userID int64, req IngredientRequest) (*domain.Ingredient, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	now := time.Now()
	ing := &domain.Ingredient{
		Name:      req.Name,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateIngredient(ctx, ing); err != nil {
		return nil, fmt.Errorf("create ingredient: %w", err)
	}

	s.logger.Info("ingredient created", "ingredient_id", ing.ID, "user_id", userID)

	return ing, nil
}

// List returns the user's ingredients, newest names first. With
// assignedOnly, only ingredients attached to at least one recipe are
// returned.
func (s *IngredientService) List(ctx context.Context, userID int64, assignedOnly bool) ([]*domain.Ingredient, error) {
	return s.store.ListIngredients(ctx, userID, assignedOnly)
}

// Get returns one of the user's ingredients.
func (s *IngredientService) Get(ctx context.Context, userID, ingredientID int64) (*domain.Ingredient, error) {
	ing, err := s.store.GetIngredient(ctx, userID, ingredientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("ingredient not found")
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return ing, nil
}

// Update renames one of the user's ingredients.
func (s *IngredientService) Update(ctx context.Context, userID, ingredientID int64, req IngredientRequest) (*domain.Ingredient, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	ing, err := s.Get(ctx, userID, ingredientID)
	if err != nil {
		return nil, err
	}

	ing.Name = req.Name
	ing.UpdatedAt = time.Now()

	if err := s.store.UpdateIngredient(ctx, ing); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("ingredient not found")
		}
		return nil, fmt.Errorf("update ingredient: %w", err)
	}

	return ing, nil
}

// Delete removes one of the user's ingredients.
func (s *IngredientService) Delete(ctx context.Context, userID, ingredientID int64) error {
	if err := s.store.DeleteIngredient(ctx, userID, ingredientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("ingredient not found")
		}
		return fmt.Errorf("delete ingredient: %w", err)
	}

	s.logger.Info("ingredient deleted", "ingredient_id", ingredientID, "user_id", userID)

	return nil
}
