package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notedapp/noted-server/internal/domain"
	"github.com/notedapp/noted-server/internal/service"
)

func (s *NotesServer) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes",
		Summary:     "List notes",
		Description: "Returns the current user's notes with optional filters and pagination",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListNotes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createNote",
		Method:        http.MethodPost,
		Path:          "/api/v1/notes",
		Summary:       "Create note",
		Description:   "Creates a new note",
		Tags:          []string{"Notes"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "getNote",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Get note",
		Description: "Returns a note by ID",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNote",
		Method:      http.MethodPut,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Update note",
		Description: "Applies a partial update to a note; a provided tag_ids list replaces the note's tags",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateNote)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteNote",
		Method:        http.MethodDelete,
		Path:          "/api/v1/notes/{id}",
		Summary:       "Delete note",
		Description:   "Soft-deletes a note, or removes it permanently with ?permanent=true",
		Tags:          []string{"Notes"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleFavorite",
		Method:      http.MethodPost,
		Path:        "/api/v1/notes/{id}/favorite",
		Summary:     "Toggle favorite",
		Description: "Flips the favorite flag on a note",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleFavorite)
}

// === DTOs ===

// NoteResponse contains note data in API responses.
type NoteResponse struct {
	ID         int64             `json:"id" doc:"Note ID"`
	Title      string            `json:"title" doc:"Note title"`
	Content    string            `json:"content" doc:"Note body"`
	IsFavorite bool              `json:"is_favorite" doc:"Favorite flag"`
	CategoryID *int64            `json:"category_id" doc:"Owning category ID, if any"`
	Category   *CategoryResponse `json:"category" doc:"Owning category, if any"`
	Tags       []TagResponse     `json:"tags" doc:"Attached tags"`
	CreatedAt  time.Time         `json:"created_at" doc:"Creation time"`
	UpdatedAt  time.Time         `json:"updated_at" doc:"Last update time"`
}

func toNoteResponse(n *domain.Note) NoteResponse {
	resp := NoteResponse{
		ID:         n.ID,
		Title:      n.Title,
		Content:    n.Content,
		IsFavorite: n.IsFavorite,
		CategoryID: n.CategoryID,
		Tags:       make([]TagResponse, len(n.Tags)),
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
	if n.Category != nil {
		c := toCategoryResponse(n.Category)
		resp.Category = &c
	}
	for i, t := range n.Tags {
		resp.Tags[i] = toTagResponse(t)
	}
	return resp
}

// ListNotesInput contains filters and pagination for listing notes.
type ListNotesInput struct {
	Authorization string  `header:"Authorization"`
	CategoryID    int64   `query:"category_id" doc:"Only notes in this category"`
	TagIDs        []int64 `query:"tag_ids" doc:"Only notes carrying any of these tags"`
	IsFavorite    string  `query:"is_favorite" enum:"true,false" doc:"Only favorites (or non-favorites)"`
	Search        string  `query:"search" doc:"Case-insensitive match against title and content"`
	Limit         int     `query:"limit" doc:"Page size, 1-100 (default 20)"`
	Offset        int     `query:"offset" doc:"Rows to skip"`
}

// ListNotesResponse is one page of notes with the pre-pagination total.
type ListNotesResponse struct {
	Items  []NoteResponse `json:"items" doc:"Notes on this page"`
	Total  int            `json:"total" doc:"Total matches before pagination"`
	Limit  int            `json:"limit" doc:"Applied page size"`
	Offset int            `json:"offset" doc:"Applied offset"`
}

// ListNotesOutput wraps the list notes response for Huma.
type ListNotesOutput struct {
	Body ListNotesResponse
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title      string  `json:"title" doc:"Note title"`
	Content    string  `json:"content,omitempty" doc:"Note body"`
	CategoryID *int64  `json:"category_id,omitempty" doc:"Category to file the note under"`
	TagIDs     []int64 `json:"tag_ids,omitempty" doc:"Tags to attach; foreign ids are ignored"`
}

// CreateNoteInput wraps the create note request for Huma.
type CreateNoteInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateNoteRequest
}

// NoteOutput wraps the note response for Huma.
type NoteOutput struct {
	Body NoteResponse
}

// GetNoteInput contains parameters for getting a note.
type GetNoteInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Note ID"`
}

// UpdateNoteRequest is the request body for updating a note. Omitted
// fields are left untouched; category_id sent as null clears the
// category, and a provided tag_ids list (even empty) replaces the tags.
type UpdateNoteRequest struct {
	Title      *string                    `json:"title,omitempty" doc:"Note title"`
	Content    *string                    `json:"content,omitempty" doc:"Note body"`
	IsFavorite *bool                      `json:"is_favorite,omitempty" doc:"Favorite flag"`
	CategoryID OmittableNullable[int64]   `json:"category_id,omitempty" doc:"Category ID, or null to clear"`
	TagIDs     OmittableNullable[[]int64] `json:"tag_ids,omitempty" doc:"Replacement tag list"`
}

// UpdateNoteInput wraps the update note request for Huma.
type UpdateNoteInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Note ID"`
	Body          UpdateNoteRequest
}

// DeleteNoteInput contains parameters for deleting a note.
type DeleteNoteInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Note ID"`
	Permanent     bool   `query:"permanent" doc:"Remove the row instead of soft-deleting"`
}

// ToggleFavoriteInput contains parameters for toggling the favorite flag.
type ToggleFavoriteInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Note ID"`
}

// === Handlers ===

func (s *NotesServer) handleListNotes(ctx context.Context, input *ListNotesInput) (*ListNotesOutput, error) {
	userID, err := authenticateRequest(s.tokens, input.Authorization)
	if err != nil {
		return nil, err
	}

	req := service.ListNotesRequest{
		TagIDs: input.TagIDs,
		Search: input.Search,
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	if input.CategoryID != 0 {
		req.CategoryID = &input.CategoryID
	}
	if input.IsFavorite != "" {
		fav := input.IsFavorite == "true"
		req.Favorite = &fav
	}

	page, err := s.notes.ListNotes(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	items := make([]NoteResponse, len(page.Items))
	for i, n := range page.Items {
		items[i] = toNoteResponse(n)
	}

	return &ListNotesOutput{Body: ListNotesResponse{
		Items:  items,
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}}, nil
}

func (s *NotesServer) handleCreateNote(ctx context.Context, input *CreateNoteInput) (*NoteOutput, error) {
	userID, err := authenticateRequest(s.tokens, input.Authorization)
	if err != nil {
		return nil, err
	}

	note, err := s.notes.CreateNote(ctx, userID, service.CreateNoteRequest{
		Title:      input.Body.Title,
		Content:    input.Body.Content,
		CategoryID: input.Body.CategoryID,
		TagIDs:     input.Body.TagIDs,
	})
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: toNoteResponse(note)}, nil
}

func (s *NotesServer) handleGetNote(ctx context.Context, input *GetNoteInput) (*NoteOutput, error) {
	userID, err := authenticateRequest(s.tokens, input.Authorization)
	if err != nil {
		return nil, err
	}

	note, err := s.notes.GetNote(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: toNoteResponse(note)}, nil
}

func (s *NotesServer) handleUpdateNote(ctx context.Context, input *UpdateNoteInput) (*NoteOutput, error) {
	userID, err := authenticateRequest(s.tokens, input.Authorization)
	if err != nil {
		return nil, err
	}

	req := service.UpdateNoteRequest{
		Title:      input.Body.Title,
		Content:    input.Body.Content,
		IsFavorite: input.Body.IsFavorite,
	}
	if input.Body.CategoryID.Sent {
		req.CategoryIDSet = true
		if !input.Body.CategoryID.Null {
			req.CategoryID = &input.Body.CategoryID.Value
		}
	}
	// tag_ids sent as null means "leave tags alone"; an actual list,
	// including an empty one, replaces them.
	if input.Body.TagIDs.Sent && !input.Body.TagIDs.Null {
		req.TagIDsSet = true
		req.TagIDs = input.Body.TagIDs.Value
		if req.TagIDs == nil {
			req.TagIDs = []int64{}
		}
	}

	note, err := s.notes.UpdateNote(ctx, userID, input.ID, req)
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: toNoteResponse(note)}, nil
}

func (s *NotesServer) handleDeleteNote(ctx context.Context, input *DeleteNoteInput) (*struct{}, error) {
	userID, err := authenticateRequest(s.tokens, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.notes.DeleteNote(ctx, userID, input.ID, input.Permanent); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *NotesServer) handleToggleFavorite(ctx context.Context, input *ToggleFavoriteInput) (*NoteOutput, error) {
	userID, err := authenticateRequest(s.tokens, input.Authorization)
	if err != nil {
		return nil, err
	}

	note, err := s.notes.ToggleFavorite(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: toNoteResponse(note)}, nil
}
