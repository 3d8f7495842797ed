package service

import (
	"context"
	"log/slog"

	"github.com/notedapp/noted-server/internal/domain"
	"github.com/notedapp/noted-server/internal/store"
	"github.com/notedapp/noted-server/internal/validation"
)

// TagService orchestrates tag operations.
type TagService struct {
	tags      *store.TagStore
	logger    *slog.Logger
	validator *validation.Validator
}

// NewTagService creates a new tag service.
func NewTagService(tags *store.TagStore, logger *slog.Logger) *TagService {
	return &TagService{
		tags:      tags,
		logger:    logger,
		validator: validation.New(),
	}
}

// CreateTagRequest contains fields for creating a tag.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

// CreateTag returns the user's tag with the given name, creating it when
// absent. Requesting an existing name is not an error.
func (s *TagService) CreateTag(ctx context.Context, userID int64, req CreateTagRequest) (*domain.Tag, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	tag, err := s.tags.GetOrCreate(ctx, userID, req.Name)
	if err != nil {
		return nil, err
	}

	s.logger.Info("tag resolved", "user_id", userID, "tag_id", tag.ID, "name", tag.Name)
	return tag, nil
}

// ListTags returns all tags owned by the user.
func (s *TagService) ListTags(ctx context.Context, userID int64) ([]*domain.Tag, error) {
	return s.tags.List(ctx, userID)
}

// DeleteTag removes an owned tag and its note associations.
func (s *TagService) DeleteTag(ctx context.Context, userID, id int64) error {
	if err := s.tags.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("tag deleted", "user_id", userID, "tag_id", id)
	return nil
}
