// Package store implements persistence for both services on top of bun.
// SQLite is the default engine; Postgres is supported through the pgx driver.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/notedapp/noted-server/internal/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 5 * time.Minute
)

// Open opens a bun.DB for the given driver ("sqlite" or "postgres") and DSN.
// The m2m join model is registered here so every connection can load note
// tags through relations.
func Open(driver, dsn string) (*bun.DB, error) {
	var (
		sqlDB *sql.DB
		err   error
	)

	switch driver {
	case "sqlite":
		sqlDB, err = sql.Open("sqlite", dsn)
	case "postgres":
		sqlDB, err = sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	maxOpen := defaultMaxOpenConns
	maxIdle := defaultMaxIdleConns

	// In-memory SQLite databases are per-connection; more than one open
	// connection makes the schema invisible across queries.
	if driver == "sqlite" && isMemoryDSN(dsn) {
		maxOpen = 1
		maxIdle = 1
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(defaultConnMaxLifetime)

	var db *bun.DB
	if driver == "postgres" {
		db = bun.NewDB(sqlDB, pgdialect.New())
	} else {
		db = bun.NewDB(sqlDB, sqlitedialect.New())
	}

	db.RegisterModel((*domain.NoteTag)(nil))

	return db, nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || dsn == "file::memory:" || dsn == "file::memory:?cache=shared"
}

// InitAccountSchema creates the account service tables.
func InitAccountSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*domain.User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

// InitNotesSchema creates the notes service tables and indexes.
// Creation order matters: notes and tags reference their parents.
func InitNotesSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*domain.Category)(nil),
		(*domain.Tag)(nil),
		(*domain.Note)(nil),
		(*domain.NoteTag)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}

	// Tag names are unique per owner; duplicate creates return the
	// existing row at the store level, the index backs that up.
	if _, err := db.NewCreateIndex().
		Model((*domain.Tag)(nil)).
		Index("idx_tags_user_name").
		Unique().
		IfNotExists().
		Column("user_id", "name").
		Exec(ctx); err != nil {
		return fmt.Errorf("create tag index: %w", err)
	}

	if _, err := db.NewCreateIndex().
		Model((*domain.Note)(nil)).
		Index("idx_notes_user_updated").
		IfNotExists().
		Column("user_id", "updated_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("create note index: %w", err)
	}

	return nil
}
