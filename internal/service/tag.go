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

// TagService orchestrates tag operations. Tags belong to their creating
// user; every operation is scoped to that user.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// TagRequest contains tag data for create and update.
type TagRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// Create adds a new tag for the user.
func (s *TagService) Create(ctx context.Context, userID int64, req TagRequest) (*domain.Tag, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	now := time.Now()
	tag := &domain.Tag{
		Name:      req.Name,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	s.logger.Info("tag created", "tag_id", tag.ID, "user_id", userID)

	return tag, nil
}

// List returns the user's tags, newest names first. With assignedOnly,
// only tags attached to at least one recipe are returned.
func (s *TagService) List(ctx context.Context, userID int64, assignedOnly bool) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx, userID, assignedOnly)
}

// Get returns one of the user's tags.
func (s *TagService) Get(ctx context.Context, userID, tagID int64) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, userID, tagID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

// Update renames one of the user's tags.
func (s *TagService) Update(ctx context.Context, userID, tagID int64, req TagRequest) (*domain.Tag, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	tag, err := s.Get(ctx, userID, tagID)
	if err != nil {
		return nil, err
	}

	tag.Name = req.Name
	tag.UpdatedAt = time.Now()

	if err := s.store.UpdateTag(ctx, tag); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}

	return tag, nil
}

// Delete removes one of the user's tags.
func (s *TagService) Delete(ctx context.Context, userID, tagID int64) error {
	if err := s.store.DeleteTag(ctx, userID, tagID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("tag not found")
		}
		return fmt.Errorf("delete tag: %w", err)
	}

	s.logger.Info("tag deleted", "tag_id", tagID, "user_id", userID)

	return nil
}
