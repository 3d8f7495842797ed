package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"

	"github.com/notedapp/noted-server/internal/domain"
	"github.com/notedapp/noted-server/internal/errors"
)

// CategoryStore persists note categories. All reads and writes are scoped
// to an owning user; a category belonging to someone else behaves as if it
// does not exist.
type CategoryStore struct {
	db *bun.DB
}

// NewCategoryStore creates a category store.
func NewCategoryStore(db *bun.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// Create inserts a new category for the user.
func (s *CategoryStore) Create(ctx context.Context, category *domain.Category) error {
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now
	if category.Color == "" {
		category.Color = domain.DefaultCategoryColor
	}

	if _, err := s.db.NewInsert().Model(category).Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "create category")
	}
	return nil
}

// List returns all categories owned by the user, newest first.
func (s *CategoryStore) List(ctx context.Context, userID int64) ([]*domain.Category, error) {
	categories := make([]*domain.Category, 0)
	err := s.db.NewSelect().
		Model(&categories).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "list categories")
	}
	return categories, nil
}

// Get returns the category if it exists and belongs to the user.
func (s *CategoryStore) Get(ctx context.Context, userID, id int64) (*domain.Category, error) {
	category := new(domain.Category)
	err := s.db.NewSelect().
		Model(category).
		Where("id = ? AND user_id = ?", id, userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("category not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "get category")
	}
	return category, nil
}

// Update persists name, description and color changes to an owned category.
func (s *CategoryStore) Update(ctx context.Context, category *domain.Category) error {
	category.UpdatedAt = time.Now().UTC()

	res, err := s.db.NewUpdate().
		Model(category).
		Column("name", "description", "color", "updated_at").
		Where("id = ? AND user_id = ?", category.ID, category.UserID).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "update category")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errors.NotFound("category not found")
	}
	return nil
}

// Delete removes an owned category. Notes referencing it are detached,
// not deleted; their category_id becomes NULL.
func (s *CategoryStore) Delete(ctx context.Context, userID, id int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// Ownership check doubles as existence check.
		exists, err := tx.NewSelect().
			Model((*domain.Category)(nil)).
			Where("id = ? AND user_id = ?", id, userID).
			Exists(ctx)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "check category")
		}
		if !exists {
			return errors.NotFound("category not found")
		}

		if _, err := tx.NewUpdate().
			Model((*domain.Note)(nil)).
			Set("category_id = NULL").
			Where("category_id = ?", id).
			WhereAllWithDeleted().
			Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "detach notes from category")
		}

		if _, err := tx.NewDelete().
			Model((*domain.Category)(nil)).
			Where("id = ?", id).
			Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "delete category")
		}
		return nil
	})
}
