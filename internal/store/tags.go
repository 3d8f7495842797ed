package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"

	"github.com/notedapp/noted-server/internal/domain"
	"github.com/notedapp/noted-server/internal/errors"
)

// TagStore persists tags and their note associations.
type TagStore struct {
	db *bun.DB
}

// NewTagStore creates a tag store.
func NewTagStore(db *bun.DB) *TagStore {
	return &TagStore{db: db}
}

// GetOrCreate returns the user's tag with the given name, creating it if
// absent. Creating an existing name is not an error; the existing row wins.
func (s *TagStore) GetOrCreate(ctx context.Context, userID int64, name string) (*domain.Tag, error) {
	tag := new(domain.Tag)
	err := s.db.NewSelect().
		Model(tag).
		Where("user_id = ? AND name = ?", userID, name).
		Scan(ctx)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(err, errors.CodeInternal, "lookup tag")
	}

	tag = &domain.Tag{Name: name, UserID: userID, CreatedAt: time.Now().UTC()}
	if _, err := s.db.NewInsert().Model(tag).Exec(ctx); err != nil {
		// Lost a race with a concurrent create; return the winner.
		if isUniqueViolation(err) {
			return s.getByName(ctx, userID, name)
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "create tag")
	}
	return tag, nil
}

func (s *TagStore) getByName(ctx context.Context, userID int64, name string) (*domain.Tag, error) {
	tag := new(domain.Tag)
	err := s.db.NewSelect().
		Model(tag).
		Where("user_id = ? AND name = ?", userID, name).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "lookup tag")
	}
	return tag, nil
}

// List returns all tags owned by the user, sorted by name.
func (s *TagStore) List(ctx context.Context, userID int64) ([]*domain.Tag, error) {
	tags := make([]*domain.Tag, 0)
	err := s.db.NewSelect().
		Model(&tags).
		Where("user_id = ?", userID).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "list tags")
	}
	return tags, nil
}

// Get returns the tag if it exists and belongs to the user.
func (s *TagStore) Get(ctx context.Context, userID, id int64) (*domain.Tag, error) {
	tag := new(domain.Tag)
	err := s.db.NewSelect().
		Model(tag).
		Where("id = ? AND user_id = ?", id, userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("tag not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "get tag")
	}
	return tag, nil
}

// FilterOwned returns the subset of ids that are tags owned by the user.
// Unknown and foreign ids are silently dropped.
func (s *TagStore) FilterOwned(ctx context.Context, userID int64, ids []int64) ([]*domain.Tag, error) {
	if len(ids) == 0 {
		return []*domain.Tag{}, nil
	}
	tags := make([]*domain.Tag, 0, len(ids))
	err := s.db.NewSelect().
		Model(&tags).
		Where("user_id = ?", userID).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "filter tags")
	}
	return tags, nil
}

// Delete removes an owned tag along with its note associations.
func (s *TagStore) Delete(ctx context.Context, userID, id int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*domain.Tag)(nil)).
			Where("id = ? AND user_id = ?", id, userID).
			Exists(ctx)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "check tag")
		}
		if !exists {
			return errors.NotFound("tag not found")
		}

		if _, err := tx.NewDelete().
			Model((*domain.NoteTag)(nil)).
			Where("tag_id = ?", id).
			Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "delete tag associations")
		}

		if _, err := tx.NewDelete().
			Model((*domain.Tag)(nil)).
			Where("id = ?", id).
			Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "delete tag")
		}
		return nil
	})
}
