package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/notedapp/noted-server/internal/domain"
	"github.com/notedapp/noted-server/internal/errors"
)

// UserStore persists accounts for the account service.
type UserStore struct {
	db *bun.DB
}

// NewUserStore creates a user store.
func NewUserStore(db *bun.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new user. Returns a conflict error when the email is
// already registered.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := s.db.NewInsert().Model(user).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("email already registered")
		}
		return errors.Wrap(err, errors.CodeInternal, "create user")
	}
	return nil
}

// GetByEmail looks up a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := new(domain.User)
	err := s.db.NewSelect().
		Model(user).
		Where("email = ?", email).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("user not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "get user by email")
	}
	return user, nil
}

// GetByID looks up a user by primary key.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user := new(domain.User)
	err := s.db.NewSelect().
		Model(user).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("user not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "get user by id")
	}
	return user, nil
}

// Update persists changes to the user's mutable profile fields. Email and
// password are fixed after registration.
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := s.db.NewUpdate().
		Model(user).
		Column("first_name", "last_name", "phone", "profile_image", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "update user")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errors.NotFound("user not found")
	}
	return nil
}

// isUniqueViolation detects unique constraint errors across SQLite and
// Postgres without depending on driver error types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "constraint failed: unique") ||
		strings.Contains(msg, "duplicate key value")
}
