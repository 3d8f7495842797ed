package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notedapp/noted-server/internal/domain"
	"github.com/notedapp/noted-server/internal/errors"
)

func TestCategoryStore_CreateDefaultsColor(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryStore(db)
	ctx := context.Background()

	cat := &domain.Category{Name: "Ideas", UserID: 1}
	require.NoError(t, categories.Create(ctx, cat))
	assert.Equal(t, domain.DefaultCategoryColor, cat.Color)

	got, err := categories.Get(ctx, 1, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCategoryColor, got.Color)
}

func TestCategoryStore_OwnershipScoping(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryStore(db)
	ctx := context.Background()

	cat := &domain.Category{Name: "Private", Color: "#112233", UserID: 2}
	require.NoError(t, categories.Create(ctx, cat))

	_, err := categories.Get(ctx, 1, cat.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	list, err := categories.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCategoryStore_Update(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryStore(db)
	ctx := context.Background()

	cat := &domain.Category{Name: "Old", Color: "#111111", UserID: 1}
	require.NoError(t, categories.Create(ctx, cat))

	cat.Name = "New"
	cat.Color = "#222222"
	require.NoError(t, categories.Update(ctx, cat))

	got, err := categories.Get(ctx, 1, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "#222222", got.Color)
}

func TestCategoryStore_DeleteDetachesNotes(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryStore(db)
	notes := NewNoteStore(db)
	ctx := context.Background()

	cat := &domain.Category{Name: "Work", UserID: 1}
	require.NoError(t, categories.Create(ctx, cat))

	note, err := notes.Create(ctx, &domain.Note{Title: "attached", UserID: 1, CategoryID: &cat.ID}, nil)
	require.NoError(t, err)
	require.NotNil(t, note.CategoryID)

	require.NoError(t, categories.Delete(ctx, 1, cat.ID))

	refreshed, err := notes.Get(ctx, 1, note.ID)
	require.NoError(t, err)
	assert.Nil(t, refreshed.CategoryID)
	assert.Nil(t, refreshed.Category)

	_, err = categories.Get(ctx, 1, cat.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestCategoryStore_DeleteUnowned(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryStore(db)
	ctx := context.Background()

	cat := &domain.Category{Name: "Theirs", UserID: 2}
	require.NoError(t, categories.Create(ctx, cat))

	err := categories.Delete(ctx, 1, cat.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
