package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notedapp/noted-server/internal/auth"
	"github.com/notedapp/noted-server/internal/service"
	"github.com/notedapp/noted-server/internal/store"
)

// notesTestServer wraps the notes API for testing.
type notesTestServer struct {
	api    humatest.TestAPI
	tokens *auth.TokenService
}

func setupNotesTestServer(t *testing.T, key []byte) *notesTestServer {
	t.Helper()

	db, err := store.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.InitNotesSchema(context.Background(), db))

	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	categoryStore := store.NewCategoryStore(db)
	notes := service.NewNoteService(store.NewNoteStore(db), categoryStore, logger)
	categories := service.NewCategoryService(categoryStore, logger)
	tags := service.NewTagService(store.NewTagStore(db), logger)

	s := NewNotesServer(testServiceConfig(), notes, categories, tags, tokens, logger)

	return &notesTestServer{
		api:    humatest.Wrap(t, s.api),
		tokens: tokens,
	}
}

// bearer mints a token for the given user ID.
func (ts *notesTestServer) bearer(t *testing.T, userID int64) string {
	t.Helper()
	token, err := ts.tokens.GenerateAccessToken(userID, "user@example.com")
	require.NoError(t, err)
	return "Authorization: Bearer " + token
}

func (ts *notesTestServer) createCategory(t *testing.T, auth string, name string) CategoryResponse {
	t.Helper()
	resp := ts.api.Post("/api/v1/categories", auth, map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var body CategoryResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func (ts *notesTestServer) createTag(t *testing.T, auth string, name string) TagResponse {
	t.Helper()
	resp := ts.api.Post("/api/v1/tags", auth, map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var body TagResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func (ts *notesTestServer) createNote(t *testing.T, auth string, body map[string]any) NoteResponse {
	t.Helper()
	resp := ts.api.Post("/api/v1/notes", auth, body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var note NoteResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &note))
	return note
}

// === Category tests ===

func TestCategories_CRUD(t *testing.T) {
	ts := setupNotesTestServer(t, newTestKey(t))
	auth := ts.bearer(t, 1)

	created := ts.createCategory(t, auth, "Work")
	assert.Equal(t, "#667eea", created.Color)

	resp := ts.api.Get("/api/v1/categories", auth)
	require.Equal(t, http.StatusOK, resp.Code)
	var list ListCategoriesResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Total)

	resp = ts.api.Put("/api/v1/categories/1", auth, map[string]any{
		"color":       "#ABCDEF",
		"description": "day job",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var updated CategoryResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal(t, "#ABCDEF", updated.Color)
	assert.Equal(t, "Work", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "day job", *updated.Description)

	resp = ts.api.Delete("/api/v1/categories/1", auth)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/categories/1", auth)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCategories_InvalidColor(t *testing.T) {
	ts := setupNotesTestServer(t, newTestKey(t))
	auth := ts.bearer(t, 1)

	resp := ts.api.Post("/api/v1/categories", auth, map[string]any{
		"name":  "Bad",
		"color": "blue",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCategories_ForeignCategoryInvisible(t *testing.T) {
	ts := setupNotesTestServer(t, newTestKey(t))

	owner := ts.bearer(t, 1)
	other := ts.bearer(t, 2)

	created := ts.createCategory(t, owner, "Private")

	resp := ts.api.Get("/api/v1/categories/1", other)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete("/api/v1/categories/1", other)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// Still there for the owner.
	resp = ts.api.Get("/api/v1/categories/1", owner)
	assert.Equal(t, http.StatusOK, resp.Code)
	_ = created
}

// === Tag tests ===

func TestTags_CreateDedupes(t *testing.T) {
	ts := setupNotesTestServer(t, newTestKey(t))
	auth := ts.bearer(t, 1)

	first := ts.createTag(t, auth, "urgent")
	second := ts.createTag(t, auth, "urgent")
	assert.Equal(t, first.ID, second.ID)

	resp := ts.api.Get("/api/v1/tags", auth)
	require.Equal(t, http.StatusOK, resp.Code)
	var list ListTagsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Total)
}

func TestTags_DeleteDetachesFromNotes(t *testing.T) {
	ts := setupNotesTestServer(t, newTestKey(t))
	auth := ts.bearer(t, 1)

	tag := ts.createTag(t, auth, "temp")
	note := ts.createNote(t, auth, map[string]any{
		"title":   "tagged",
		"tag_ids": []int64{tag.ID},
	})
	require.Len(t, note.Tags, 1)

	resp := ts.api.Delete("/api/v1/tags/1", auth)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/notes/1", auth)
	require.Equal(t, http.StatusOK, resp.Code)
	var refreshed NoteResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &refreshed))
	assert.Empty(t, refreshed.Tags)
}

// === Note tests ===

func TestNotes_CreateWithCategoryAndTags(t *testing.T) {
	ts := setupNotesTestServer(t, newTestKey(t))
	auth := ts.bearer(t, 1)

	cat := ts.createCategory(t, auth, "Work")
	tag := ts.createTag(t, auth, "urgent")

	note := ts.createNote(t, auth, map[string]any{
		"title":       "standup notes",
		"content":     "discussed roadmap",
		"category_id": cat.ID,
		"tag_ids":     []int64{tag.ID},
	})

	assert.Equal(t, "standup notes", note.Title)
	require.NotNil(t, note.Category)
	assert.Equal(t, "Work", note.Category.Name)
	require.Len(t, note.Tags, 1)
	assert.Equal(t, "urgent", note.Tags[0].Name)
}

func TestNotes_CreateRequiresTitle(t *testing.T) {
	ts := setupNotesTestServer(t, newTestKey(t))
	auth := ts.bearer(t, 1)

	resp := ts.api.Post("/api/v1/notes", auth, map[string]any{"content": "no title"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestNotes_ListShape(t *testing.T) {
	ts := setupNotesTestServer(t, newTestKey(t))
	auth := ts.bearer(t, 1)

	for range 25 {
		ts.createNote(t, auth, map[string]any{"title": "note"})
	}

	resp := ts.api.Get("/api/v1/notes", auth)
	require.Equal(t, http.StatusOK, resp.Code)

	var page ListNotesResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 20, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.Len(t, page.Items, 20)

	resp = ts.api.Get("/api/v1/notes?limit=10&offset=20", auth)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Equal(t, 25, page.Total)
	assert.Len(t, page.Items, 5)
}

func TestNotes_ListFilters(t *testing.T) {
	ts := setupNotesTestServer(t, newTestKey(t))
	auth := ts.bearer(t, 1)

	cat := ts.createCategory(t, auth, "Work")
	tag := ts.createTag(t, auth, "urgent")

	ts.createNote(t, auth, map[string]any{"title": "in category", "category_id": cat.ID})
	ts.createNote(t, auth, map[string]any{"title": "tagged", "tag_ids": []int64{tag.ID}})
	ts.createNote(t, auth, map[string]any{"title": "plain meeting"})

	var page ListNotesResponse

	resp := ts.api.Get("/api/v1/notes?category_id=1", auth)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)

	resp = ts.api.Get("/api/v1/notes?tag_ids=1", auth)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)

	resp = ts.api.Get("/api/v1/notes?search=MEETING", auth)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)

	resp = ts.api.Post("/api/v1/notes/3/favorite", auth)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/notes?is_favorite=true", auth)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)

	resp = ts.api.Get("/api/v1/notes?is_favorite=false", auth)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Total)
}

func TestNotes_UpdatePartialAndTagReplace(t *testing.T) {
	ts := setupNotesTestServer(t, newTestKey(t))
	auth := ts.bearer(t, 1)

	a := ts.createTag(t, auth, "a")
	b := ts.createTag(t, auth, "b")
	note := ts.createNote(t, auth, map[string]any{
		"title":   "original",
		"content": "body",
		"tag_ids": []int64{a.ID},
	})

	// Omitted fields stay; the title changes.
	resp := ts.api.Put("/api/v1/notes/1", auth, map[string]any{"title": "renamed"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var updated NoteResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "body", updated.Content)
	require.Len(t, updated.Tags, 1)

	// A provided tag list replaces the old one.
	resp = ts.api.Put("/api/v1/notes/1", auth, map[string]any{"tag_ids": []int64{b.ID}})
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "b", updated.Tags[0].Name)

	// An empty list clears all tags.
	resp = ts.api.Put("/api/v1/notes/1", auth, map[string]any{"tag_ids": []int64{}})
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Empty(t, updated.Tags)
	_ = note
}

func TestNotes_UpdateCategoryNullClears(t *testing.T) {
	ts := setupNotesTestServer(t, newTestKey(t))
	auth := ts.bearer(t, 1)

	cat := ts.createCategory(t, auth, "Work")
	ts.createNote(t, auth, map[string]any{"title": "filed", "category_id": cat.ID})

	resp := ts.api.Put("/api/v1/notes/1", auth, map[string]any{"category_id": nil})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var updated NoteResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Nil(t, updated.CategoryID)
	assert.Nil(t, updated.Category)
}

func TestNotes_DeleteSoftThenPermanent(t *testing.T) {
	ts := setupNotesTestServer(t, newTestKey(t))
	auth := ts.bearer(t, 1)

	ts.createNote(t, auth, map[string]any{"title": "doomed"})

	resp := ts.api.Delete("/api/v1/notes/1", auth)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/notes/1", auth)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	ts.createNote(t, auth, map[string]any{"title": "doomed too"})
	resp = ts.api.Delete("/api/v1/notes/2?permanent=true", auth)
	assert.Equal(t, http.StatusNoContent, resp.Code)
}

func TestNotes_ToggleFavorite(t *testing.T) {
	ts := setupNotesTestServer(t, newTestKey(t))
	auth := ts.bearer(t, 1)

	ts.createNote(t, auth, map[string]any{"title": "fav me"})

	resp := ts.api.Post("/api/v1/notes/1/favorite", auth)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var note NoteResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &note))
	assert.True(t, note.IsFavorite)

	resp = ts.api.Post("/api/v1/notes/1/favorite", auth)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &note))
	assert.False(t, note.IsFavorite)
}

func TestNotes_OwnershipIsolation(t *testing.T) {
	ts := setupNotesTestServer(t, newTestKey(t))
	owner := ts.bearer(t, 1)
	other := ts.bearer(t, 2)

	ts.createNote(t, owner, map[string]any{"title": "mine"})

	resp := ts.api.Get("/api/v1/notes/1", other)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/notes", other)
	require.Equal(t, http.StatusOK, resp.Code)
	var page ListNotesResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Zero(t, page.Total)
}

func TestNotes_Unauthenticated(t *testing.T) {
	ts := setupNotesTestServer(t, newTestKey(t))

	resp := ts.api.Get("/api/v1/notes")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/notes", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

// === Dashboard tests ===

func TestDashboard(t *testing.T) {
	ts := setupNotesTestServer(t, newTestKey(t))
	auth := ts.bearer(t, 1)

	ts.createCategory(t, auth, "Work")
	ts.createTag(t, auth, "urgent")
	for i := range 7 {
		body := map[string]any{"title": "note"}
		ts.createNote(t, auth, body)
		if i%2 == 0 {
			resp := ts.api.Post("/api/v1/notes/"+strconv.Itoa(i+1)+"/favorite", auth)
			require.Equal(t, http.StatusOK, resp.Code)
		}
	}

	resp := ts.api.Get("/api/v1/dashboard", auth)
	require.Equal(t, http.StatusOK, resp.Code)

	var dash DashboardResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &dash))
	assert.Equal(t, 7, dash.TotalNotes)
	assert.Equal(t, 4, dash.FavoriteNotes)
	assert.Equal(t, 1, dash.CategoriesCount)
	assert.Equal(t, 1, dash.TagsCount)
	assert.Len(t, dash.RecentNotes, 5)
}

// === Cross-service tokens ===

func TestTokensCrossServices(t *testing.T) {
	key := newTestKey(t)

	// Account and notes servers constructed with the same key.
	accountDB, err := store.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = accountDB.Close() })
	require.NoError(t, store.InitAccountSchema(context.Background(), accountDB))

	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)
	logger := slog.New(slog.DiscardHandler)
	account := service.NewAccountService(store.NewUserStore(accountDB), tokens, logger)
	accountSrv := NewAccountServer(testServiceConfig(), account, tokens, logger)
	accountAPI := humatest.Wrap(t, accountSrv.api)

	notesTS := setupNotesTestServer(t, key)

	resp := accountAPI.Post("/auth/register", map[string]any{
		"first_name":       "Cross",
		"last_name":        "Service",
		"email":            "cross@example.com",
		"phone":            "+15550103",
		"password":         "secret123",
		"confirm_password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = accountAPI.Post("/auth/login", map[string]any{
		"email":    "cross@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var tokenBody TokenResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tokenBody))

	// The account-issued token is accepted by the notes service.
	resp = notesTS.api.Post("/api/v1/notes", "Authorization: Bearer "+tokenBody.AccessToken,
		map[string]any{"title": "written across services"})
	assert.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	// A token from a different key is not.
	foreignTokens, err := auth.NewTokenService(newTestKey(t), time.Hour)
	require.NoError(t, err)
	foreign, err := foreignTokens.GenerateAccessToken(1, "x@y.com")
	require.NoError(t, err)

	resp = notesTS.api.Get("/api/v1/notes", "Authorization: Bearer "+foreign)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
