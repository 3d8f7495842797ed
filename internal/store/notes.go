package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"

	"github.com/notedapp/noted-server/internal/domain"
	"github.com/notedapp/noted-server/internal/errors"
)

// NoteFilter narrows a note listing. Zero values mean "no filter"; TagIDs
// matches notes carrying ANY of the given tags.
type NoteFilter struct {
	CategoryID *int64
	TagIDs     []int64
	Favorite   *bool
	Search     string
	Limit      int
	Offset     int
}

// NoteUpdate carries a partial update. Nil pointers leave the field
// untouched. CategoryIDSet and TagIDsSet distinguish "omitted" from
// "explicitly cleared".
type NoteUpdate struct {
	Title         *string
	Content       *string
	IsFavorite    *bool
	CategoryID    *int64
	CategoryIDSet bool
	TagIDs        []int64
	TagIDsSet     bool
}

// NoteStore persists notes and their tag associations.
type NoteStore struct {
	db *bun.DB
}

// NewNoteStore creates a note store.
func NewNoteStore(db *bun.DB) *NoteStore {
	return &NoteStore{db: db}
}

// Create inserts a note and attaches the owned subset of tagIDs.
// Tag ids that don't exist or belong to another user are dropped silently.
func (s *NoteStore) Create(ctx context.Context, note *domain.Note, tagIDs []int64) (*domain.Note, error) {
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(note).Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "create note")
		}
		return s.replaceTags(ctx, tx, note, tagIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, note.UserID, note.ID)
}

// Get returns an owned note with its category and tags loaded.
// Soft-deleted notes are invisible here.
func (s *NoteStore) Get(ctx context.Context, userID, id int64) (*domain.Note, error) {
	note := new(domain.Note)
	err := s.db.NewSelect().
		Model(note).
		Relation("Category").
		Relation("Tags").
		Where("note.id = ? AND note.user_id = ?", id, userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("note not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "get note")
	}
	return note, nil
}

// List returns the user's notes matching the filter, newest activity
// first, along with the total match count before pagination.
func (s *NoteStore) List(ctx context.Context, userID int64, filter NoteFilter) ([]*domain.Note, int, error) {
	notes := make([]*domain.Note, 0)

	q := s.db.NewSelect().
		Model(&notes).
		Relation("Category").
		Relation("Tags").
		Where("note.user_id = ?", userID)

	if filter.CategoryID != nil {
		q = q.Where("note.category_id = ?", *filter.CategoryID)
	}
	if filter.Favorite != nil {
		q = q.Where("note.is_favorite = ?", *filter.Favorite)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("(lower(note.title) LIKE lower(?) OR lower(note.content) LIKE lower(?))", pattern, pattern)
	}
	if len(filter.TagIDs) > 0 {
		// Subquery instead of a join keeps the count correct when a note
		// matches several of the requested tags.
		q = q.Where("note.id IN (SELECT note_id FROM note_tags WHERE tag_id IN (?))", bun.In(filter.TagIDs))
	}

	q = q.Order("note.updated_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.CodeInternal, "list notes")
	}
	return notes, total, nil
}

// Update applies a partial update to an owned note. When TagIDsSet is
// true the note's tags are replaced atomically with the owned subset of
// TagIDs; an explicit empty list clears all tags.
func (s *NoteStore) Update(ctx context.Context, userID, id int64, update NoteUpdate) (*domain.Note, error) {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		note := new(domain.Note)
		err := tx.NewSelect().
			Model(note).
			Where("note.id = ? AND note.user_id = ?", id, userID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errors.NotFound("note not found")
			}
			return errors.Wrap(err, errors.CodeInternal, "get note")
		}

		if update.Title != nil {
			note.Title = *update.Title
		}
		if update.Content != nil {
			note.Content = *update.Content
		}
		if update.IsFavorite != nil {
			note.IsFavorite = *update.IsFavorite
		}
		if update.CategoryIDSet {
			note.CategoryID = update.CategoryID
		}
		note.UpdatedAt = time.Now().UTC()

		if _, err := tx.NewUpdate().
			Model(note).
			Column("title", "content", "is_favorite", "category_id", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "update note")
		}

		if update.TagIDsSet {
			if _, err := tx.NewDelete().
				Model((*domain.NoteTag)(nil)).
				Where("note_id = ?", note.ID).
				Exec(ctx); err != nil {
				return errors.Wrap(err, errors.CodeInternal, "clear note tags")
			}
			return s.replaceTags(ctx, tx, note, update.TagIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, id)
}

// replaceTags attaches the owned subset of tagIDs to the note.
func (s *NoteStore) replaceTags(ctx context.Context, tx bun.Tx, note *domain.Note, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	owned := make([]*domain.Tag, 0, len(tagIDs))
	if err := tx.NewSelect().
		Model(&owned).
		Where("user_id = ?", note.UserID).
		Where("id IN (?)", bun.In(tagIDs)).
		Scan(ctx); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "resolve note tags")
	}
	if len(owned) == 0 {
		return nil
	}

	links := make([]*domain.NoteTag, 0, len(owned))
	for _, tag := range owned {
		links = append(links, &domain.NoteTag{NoteID: note.ID, TagID: tag.ID})
	}
	if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "attach note tags")
	}
	return nil
}

// Delete removes an owned note. The default is a soft delete; permanent
// removes the row and its tag associations for good.
func (s *NoteStore) Delete(ctx context.Context, userID, id int64, permanent bool) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*domain.Note)(nil)).
			Where("note.id = ? AND note.user_id = ?", id, userID).
			Exists(ctx)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "check note")
		}
		if !exists {
			return errors.NotFound("note not found")
		}

		if !permanent {
			if _, err := tx.NewDelete().
				Model((*domain.Note)(nil)).
				Where("note.id = ?", id).
				Exec(ctx); err != nil {
				return errors.Wrap(err, errors.CodeInternal, "delete note")
			}
			return nil
		}

		if _, err := tx.NewDelete().
			Model((*domain.NoteTag)(nil)).
			Where("note_id = ?", id).
			Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "delete note tags")
		}
		if _, err := tx.NewDelete().
			Model((*domain.Note)(nil)).
			Where("note.id = ?", id).
			WhereAllWithDeleted().
			ForceDelete().
			Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "delete note")
		}
		return nil
	})
}

// ToggleFavorite flips the favorite flag on an owned note and returns the
// refreshed note.
func (s *NoteStore) ToggleFavorite(ctx context.Context, userID, id int64) (*domain.Note, error) {
	res, err := s.db.NewUpdate().
		Model((*domain.Note)(nil)).
		Set("is_favorite = NOT is_favorite").
		Set("updated_at = ?", time.Now().UTC()).
		Where("note.id = ? AND note.user_id = ?", id, userID).
		Where("note.deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "toggle favorite")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, errors.NotFound("note not found")
	}
	return s.Get(ctx, userID, id)
}

// DashboardStats summarizes a user's workspace.
type DashboardStats struct {
	TotalNotes      int            `json:"total_notes"`
	TotalCategories int            `json:"total_categories"`
	TotalTags       int            `json:"total_tags"`
	FavoriteNotes   int            `json:"favorite_notes"`
	RecentNotes     []*domain.Note `json:"recent_notes"`
}

// Dashboard returns counts and the five most recently updated notes.
func (s *NoteStore) Dashboard(ctx context.Context, userID int64) (*DashboardStats, error) {
	stats := &DashboardStats{RecentNotes: make([]*domain.Note, 0, 5)}

	var err error
	stats.TotalNotes, err = s.db.NewSelect().
		Model((*domain.Note)(nil)).
		Where("note.user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "count notes")
	}

	stats.FavoriteNotes, err = s.db.NewSelect().
		Model((*domain.Note)(nil)).
		Where("note.user_id = ? AND note.is_favorite", userID).
		Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "count favorites")
	}

	stats.TotalCategories, err = s.db.NewSelect().
		Model((*domain.Category)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "count categories")
	}

	stats.TotalTags, err = s.db.NewSelect().
		Model((*domain.Tag)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "count tags")
	}

	err = s.db.NewSelect().
		Model(&stats.RecentNotes).
		Relation("Category").
		Relation("Tags").
		Where("note.user_id = ?", userID).
		Order("note.updated_at DESC").
		Limit(5).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "recent notes")
	}

	return stats, nil
}
