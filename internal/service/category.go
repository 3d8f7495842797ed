package service

import (
	"context"
	"log/slog"

	"github.com/notedapp/noted-server/internal/domain"
	"github.com/notedapp/noted-server/internal/store"
	"github.com/notedapp/noted-server/internal/validation"
)

// CategoryService orchestrates category operations for the notes service.
type CategoryService struct {
	categories *store.CategoryStore
	logger     *slog.Logger
	validator  *validation.Validator
}

// NewCategoryService creates a new category service.
func NewCategoryService(categories *store.CategoryStore, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		logger:     logger,
		validator:  validation.New(),
	}
}

// CreateCategoryRequest contains fields for creating a category.
type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Color       string  `json:"color" validate:"omitempty,hexcolor6"`
}

// CreateCategory creates a category owned by the user. An empty color
// falls back to the default.
func (s *CategoryService) CreateCategory(ctx context.Context, userID int64, req CreateCategoryRequest) (*domain.Category, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	category := &domain.Category{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		UserID:      userID,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category created", "user_id", userID, "category_id", category.ID)
	return category, nil
}

// ListCategories returns all categories owned by the user.
func (s *CategoryService) ListCategories(ctx context.Context, userID int64) ([]*domain.Category, error) {
	return s.categories.List(ctx, userID)
}

// GetCategory returns a single owned category.
func (s *CategoryService) GetCategory(ctx context.Context, userID, id int64) (*domain.Category, error) {
	return s.categories.Get(ctx, userID, id)
}

// UpdateCategoryRequest contains optional category changes.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Color       *string `json:"color" validate:"omitempty,hexcolor6"`
}

// UpdateCategory applies a partial update to an owned category.
func (s *CategoryService) UpdateCategory(ctx context.Context, userID, id int64, req UpdateCategoryRequest) (*domain.Category, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	category, err := s.categories.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	if req.Color != nil {
		category.Color = *req.Color
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes an owned category, detaching its notes.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, id int64) error {
	if err := s.categories.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("category deleted", "user_id", userID, "category_id", id)
	return nil
}
