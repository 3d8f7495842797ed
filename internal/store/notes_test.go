package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notedapp/noted-server/internal/domain"
	"github.com/notedapp/noted-server/internal/errors"
)

func ptr[T any](v T) *T { return &v }

func TestNoteStore_CreateSkipsUnownedTags(t *testing.T) {
	db := newTestDB(t)
	tags := NewTagStore(db)
	notes := NewNoteStore(db)
	ctx := context.Background()

	mine, err := tags.GetOrCreate(ctx, 1, "mine")
	require.NoError(t, err)
	theirs, err := tags.GetOrCreate(ctx, 2, "theirs")
	require.NoError(t, err)

	note, err := notes.Create(ctx, &domain.Note{Title: "hello", Content: "body", UserID: 1},
		[]int64{mine.ID, theirs.ID, 424242})
	require.NoError(t, err)

	require.Len(t, note.Tags, 1)
	assert.Equal(t, "mine", note.Tags[0].Name)
}

func TestNoteStore_GetScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	notes := NewNoteStore(db)
	ctx := context.Background()

	note, err := notes.Create(ctx, &domain.Note{Title: "secret", UserID: 2}, nil)
	require.NoError(t, err)

	_, err = notes.Get(ctx, 1, note.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestNoteStore_ListPagination(t *testing.T) {
	db := newTestDB(t)
	notes := NewNoteStore(db)
	ctx := context.Background()

	for i := range 7 {
		_, err := notes.Create(ctx, &domain.Note{Title: fmt.Sprintf("note %d", i), UserID: 1}, nil)
		require.NoError(t, err)
	}

	page, total, err := notes.List(ctx, 1, NoteFilter{Limit: 3, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Len(t, page, 3)

	page, total, err = notes.List(ctx, 1, NoteFilter{Limit: 3, Offset: 6})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Len(t, page, 1)
}

func TestNoteStore_ListTagFilterMatchesAny(t *testing.T) {
	db := newTestDB(t)
	tags := NewTagStore(db)
	notes := NewNoteStore(db)
	ctx := context.Background()

	work, err := tags.GetOrCreate(ctx, 1, "work")
	require.NoError(t, err)
	home, err := tags.GetOrCreate(ctx, 1, "home")
	require.NoError(t, err)

	// One note with both tags, one with a single tag, one untagged.
	_, err = notes.Create(ctx, &domain.Note{Title: "both", UserID: 1}, []int64{work.ID, home.ID})
	require.NoError(t, err)
	_, err = notes.Create(ctx, &domain.Note{Title: "only work", UserID: 1}, []int64{work.ID})
	require.NoError(t, err)
	_, err = notes.Create(ctx, &domain.Note{Title: "untagged", UserID: 1}, nil)
	require.NoError(t, err)

	// A note matching several requested tags counts once.
	list, total, err := notes.List(ctx, 1, NoteFilter{TagIDs: []int64{work.ID, home.ID}})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)
}

func TestNoteStore_ListFilters(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryStore(db)
	notes := NewNoteStore(db)
	ctx := context.Background()

	cat := &domain.Category{Name: "Work", UserID: 1}
	require.NoError(t, categories.Create(ctx, cat))

	_, err := notes.Create(ctx, &domain.Note{Title: "meeting minutes", UserID: 1, CategoryID: &cat.ID, IsFavorite: true}, nil)
	require.NoError(t, err)
	_, err = notes.Create(ctx, &domain.Note{Title: "groceries", Content: "milk and MEETING snacks", UserID: 1}, nil)
	require.NoError(t, err)

	_, total, err := notes.List(ctx, 1, NoteFilter{CategoryID: &cat.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, total, err = notes.List(ctx, 1, NoteFilter{Favorite: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	// Search is case-insensitive over title and content.
	_, total, err = notes.List(ctx, 1, NoteFilter{Search: "meeting"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestNoteStore_UpdatePartial(t *testing.T) {
	db := newTestDB(t)
	notes := NewNoteStore(db)
	ctx := context.Background()

	note, err := notes.Create(ctx, &domain.Note{Title: "before", Content: "keep me", UserID: 1}, nil)
	require.NoError(t, err)

	updated, err := notes.Update(ctx, 1, note.ID, NoteUpdate{Title: ptr("after")})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, "keep me", updated.Content)
}

func TestNoteStore_UpdateTagReplacement(t *testing.T) {
	db := newTestDB(t)
	tags := NewTagStore(db)
	notes := NewNoteStore(db)
	ctx := context.Background()

	a, err := tags.GetOrCreate(ctx, 1, "a")
	require.NoError(t, err)
	b, err := tags.GetOrCreate(ctx, 1, "b")
	require.NoError(t, err)

	note, err := notes.Create(ctx, &domain.Note{Title: "tagged", UserID: 1}, []int64{a.ID})
	require.NoError(t, err)

	// Omitted tag list keeps existing tags.
	updated, err := notes.Update(ctx, 1, note.ID, NoteUpdate{Title: ptr("renamed")})
	require.NoError(t, err)
	require.Len(t, updated.Tags, 1)

	// Provided list replaces wholesale.
	updated, err = notes.Update(ctx, 1, note.ID, NoteUpdate{TagIDs: []int64{b.ID}, TagIDsSet: true})
	require.NoError(t, err)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "b", updated.Tags[0].Name)

	// Explicit empty list clears all tags.
	updated, err = notes.Update(ctx, 1, note.ID, NoteUpdate{TagIDs: []int64{}, TagIDsSet: true})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)
}

func TestNoteStore_UpdateCategoryClear(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryStore(db)
	notes := NewNoteStore(db)
	ctx := context.Background()

	cat := &domain.Category{Name: "Work", UserID: 1}
	require.NoError(t, categories.Create(ctx, cat))

	note, err := notes.Create(ctx, &domain.Note{Title: "n", UserID: 1, CategoryID: &cat.ID}, nil)
	require.NoError(t, err)
	require.NotNil(t, note.CategoryID)

	// Explicit null clears the category; omitted leaves it alone.
	updated, err := notes.Update(ctx, 1, note.ID, NoteUpdate{CategoryID: nil, CategoryIDSet: true})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)
}

func TestNoteStore_SoftDeleteHidesNote(t *testing.T) {
	db := newTestDB(t)
	notes := NewNoteStore(db)
	ctx := context.Background()

	note, err := notes.Create(ctx, &domain.Note{Title: "bye", UserID: 1}, nil)
	require.NoError(t, err)

	require.NoError(t, notes.Delete(ctx, 1, note.ID, false))

	_, err = notes.Get(ctx, 1, note.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, total, err := notes.List(ctx, 1, NoteFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)

	// The row survives a soft delete.
	count, err := db.NewSelect().
		Model((*domain.Note)(nil)).
		WhereAllWithDeleted().
		Where("id = ?", note.ID).
		Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNoteStore_PermanentDelete(t *testing.T) {
	db := newTestDB(t)
	tags := NewTagStore(db)
	notes := NewNoteStore(db)
	ctx := context.Background()

	tag, err := tags.GetOrCreate(ctx, 1, "t")
	require.NoError(t, err)
	note, err := notes.Create(ctx, &domain.Note{Title: "gone", UserID: 1}, []int64{tag.ID})
	require.NoError(t, err)

	require.NoError(t, notes.Delete(ctx, 1, note.ID, true))

	count, err := db.NewSelect().
		Model((*domain.Note)(nil)).
		WhereAllWithDeleted().
		Where("id = ?", note.ID).
		Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	links, err := db.NewSelect().
		Model((*domain.NoteTag)(nil)).
		Where("note_id = ?", note.ID).
		Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, links)
}

func TestNoteStore_DeleteMissing(t *testing.T) {
	db := newTestDB(t)
	notes := NewNoteStore(db)
	ctx := context.Background()

	err := notes.Delete(ctx, 1, 12345, false)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestNoteStore_ToggleFavorite(t *testing.T) {
	db := newTestDB(t)
	notes := NewNoteStore(db)
	ctx := context.Background()

	note, err := notes.Create(ctx, &domain.Note{Title: "fav", UserID: 1}, nil)
	require.NoError(t, err)
	require.False(t, note.IsFavorite)

	toggled, err := notes.ToggleFavorite(ctx, 1, note.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsFavorite)

	toggled, err = notes.ToggleFavorite(ctx, 1, note.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsFavorite)
}

func TestNoteStore_Dashboard(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryStore(db)
	tags := NewTagStore(db)
	notes := NewNoteStore(db)
	ctx := context.Background()

	require.NoError(t, categories.Create(ctx, &domain.Category{Name: "c", UserID: 1}))
	_, err := tags.GetOrCreate(ctx, 1, "t")
	require.NoError(t, err)

	for i := range 7 {
		_, err := notes.Create(ctx, &domain.Note{
			Title:      fmt.Sprintf("note %d", i),
			UserID:     1,
			IsFavorite: i%2 == 0,
		}, nil)
		require.NoError(t, err)
	}

	// Another user's data stays out of the stats.
	_, err = notes.Create(ctx, &domain.Note{Title: "other", UserID: 2}, nil)
	require.NoError(t, err)

	stats, err := notes.Dashboard(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.TotalNotes)
	assert.Equal(t, 1, stats.TotalCategories)
	assert.Equal(t, 1, stats.TotalTags)
	assert.Equal(t, 4, stats.FavoriteNotes)
	assert.Len(t, stats.RecentNotes, 5)
}
