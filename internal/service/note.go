package service

import (
	"context"
	"log/slog"

	"github.com/notedapp/noted-server/internal/domain"
	"github.com/notedapp/noted-server/internal/store"
	"github.com/notedapp/noted-server/internal/validation"
)

const (
	defaultNoteLimit = 20
	maxNoteLimit     = 100
)

// NoteService orchestrates note operations.
type NoteService struct {
	notes      *store.NoteStore
	categories *store.CategoryStore
	logger     *slog.Logger
	validator  *validation.Validator
}

// NewNoteService creates a new note service.
func NewNoteService(notes *store.NoteStore, categories *store.CategoryStore, logger *slog.Logger) *NoteService {
	return &NoteService{
		notes:      notes,
		categories: categories,
		logger:     logger,
		validator:  validation.New(),
	}
}

// CreateNoteRequest contains fields for creating a note.
type CreateNoteRequest struct {
	Title      string  `json:"title" validate:"required,min=1,max=255"`
	Content    string  `json:"content"`
	CategoryID *int64  `json:"category_id"`
	TagIDs     []int64 `json:"tag_ids"`
}

// CreateNote creates a note owned by the user. A category must belong to
// the user; tag ids that don't are dropped silently.
func (s *NoteService) CreateNote(ctx context.Context, userID int64, req CreateNoteRequest) (*domain.Note, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categories.Get(ctx, userID, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	note := &domain.Note{
		Title:      req.Title,
		Content:    req.Content,
		UserID:     userID,
		CategoryID: req.CategoryID,
	}
	created, err := s.notes.Create(ctx, note, req.TagIDs)
	if err != nil {
		return nil, err
	}

	s.logger.Info("note created", "user_id", userID, "note_id", created.ID)
	return created, nil
}

// GetNote returns a single owned note with category and tags.
func (s *NoteService) GetNote(ctx context.Context, userID, id int64) (*domain.Note, error) {
	return s.notes.Get(ctx, userID, id)
}

// ListNotesRequest narrows and paginates a note listing.
type ListNotesRequest struct {
	CategoryID *int64
	TagIDs     []int64
	Favorite   *bool
	Search     string
	Limit      int
	Offset     int
}

// NotePage is one page of a note listing with the pre-pagination total.
type NotePage struct {
	Items  []*domain.Note
	Total  int
	Limit  int
	Offset int
}

// ListNotes returns the user's notes matching the filter. The limit is
// clamped to [1, 100] with a default of 20; negative offsets become 0.
func (s *NoteService) ListNotes(ctx context.Context, userID int64, req ListNotesRequest) (*NotePage, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultNoteLimit
	}
	if limit > maxNoteLimit {
		limit = maxNoteLimit
	}
	offset := max(req.Offset, 0)

	items, total, err := s.notes.List(ctx, userID, store.NoteFilter{
		CategoryID: req.CategoryID,
		TagIDs:     req.TagIDs,
		Favorite:   req.Favorite,
		Search:     req.Search,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, err
	}

	return &NotePage{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// UpdateNoteRequest contains optional note changes. CategoryIDSet and
// TagIDsSet distinguish omitted fields from explicit clears.
type UpdateNoteRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=255"`
	Content       *string `json:"content"`
	IsFavorite    *bool   `json:"is_favorite"`
	CategoryID    *int64  `json:"category_id"`
	CategoryIDSet bool    `json:"-"`
	TagIDs        []int64 `json:"tag_ids"`
	TagIDsSet     bool    `json:"-"`
}

// UpdateNote applies a partial update to an owned note.
func (s *NoteService) UpdateNote(ctx context.Context, userID, id int64, req UpdateNoteRequest) (*domain.Note, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.CategoryIDSet && req.CategoryID != nil {
		if _, err := s.categories.Get(ctx, userID, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	note, err := s.notes.Update(ctx, userID, id, store.NoteUpdate{
		Title:         req.Title,
		Content:       req.Content,
		IsFavorite:    req.IsFavorite,
		CategoryID:    req.CategoryID,
		CategoryIDSet: req.CategoryIDSet,
		TagIDs:        req.TagIDs,
		TagIDsSet:     req.TagIDsSet,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("note updated", "user_id", userID, "note_id", id)
	return note, nil
}

// DeleteNote removes an owned note, softly by default.
func (s *NoteService) DeleteNote(ctx context.Context, userID, id int64, permanent bool) error {
	if err := s.notes.Delete(ctx, userID, id, permanent); err != nil {
		return err
	}
	s.logger.Info("note deleted", "user_id", userID, "note_id", id, "permanent", permanent)
	return nil
}

// ToggleFavorite flips the favorite flag on an owned note.
func (s *NoteService) ToggleFavorite(ctx context.Context, userID, id int64) (*domain.Note, error) {
	return s.notes.ToggleFavorite(ctx, userID, id)
}

// Dashboard summarizes the user's workspace.
func (s *NoteService) Dashboard(ctx context.Context, userID int64) (*store.DashboardStats, error) {
	return s.notes.Dashboard(ctx, userID)
}
