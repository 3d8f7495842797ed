package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notedapp/noted-server/internal/domain"
	"github.com/notedapp/noted-server/internal/service"
)

func (s *NotesServer) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns all categories for the current user",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createCategory",
		Method:        http.MethodPost,
		Path:          "/api/v1/categories",
		Summary:       "Create category",
		Description:   "Creates a new category",
		Tags:          []string{"Categories"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategory",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Get category",
		Description: "Returns a category by ID",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCategory",
		Method:      http.MethodPut,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Update category",
		Description: "Updates a category",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteCategory",
		Method:        http.MethodDelete,
		Path:          "/api/v1/categories/{id}",
		Summary:       "Delete category",
		Description:   "Deletes a category; its notes keep existing without one",
		Tags:          []string{"Categories"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteCategory)
}

// === DTOs ===

// CategoryResponse contains category data in API responses.
type CategoryResponse struct {
	ID          int64     `json:"id" doc:"Category ID"`
	Name        string    `json:"name" doc:"Category name"`
	Description *string   `json:"description" doc:"Optional description"`
	Color       string    `json:"color" doc:"Display color as #RRGGBB"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ListCategoriesInput contains parameters for listing categories.
type ListCategoriesInput struct {
	Authorization string `header:"Authorization"`
}

// ListCategoriesResponse contains a list of categories.
type ListCategoriesResponse struct {
	Items []CategoryResponse `json:"items" doc:"List of categories"`
	Total int                `json:"total" doc:"Number of categories"`
}

// ListCategoriesOutput wraps the list categories response for Huma.
type ListCategoriesOutput struct {
	Body ListCategoriesResponse
}

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Name        string                    `json:"name" doc:"Category name"`
	Description OmittableNullable[string] `json:"description,omitempty" doc:"Optional description"`
	Color       string                    `json:"color,omitempty" doc:"Display color as #RRGGBB"`
}

// CreateCategoryInput wraps the create category request for Huma.
type CreateCategoryInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateCategoryRequest
}

// CategoryOutput wraps the category response for Huma.
type CategoryOutput struct {
	Body CategoryResponse
}

// GetCategoryInput contains parameters for getting a category.
type GetCategoryInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Category ID"`
}

// UpdateCategoryRequest is the request body for updating a category.
// Omitted or null fields are left untouched.
type UpdateCategoryRequest struct {
	Name        OmittableNullable[string] `json:"name,omitempty" doc:"Category name"`
	Description OmittableNullable[string] `json:"description,omitempty" doc:"Optional description"`
	Color       OmittableNullable[string] `json:"color,omitempty" doc:"Display color as #RRGGBB"`
}

// UpdateCategoryInput wraps the update category request for Huma.
type UpdateCategoryInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Category ID"`
	Body          UpdateCategoryRequest
}

// DeleteCategoryInput contains parameters for deleting a category.
type DeleteCategoryInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Category ID"`
}

// === Handlers ===

func (s *NotesServer) handleListCategories(ctx context.Context, input *ListCategoriesInput) (*ListCategoriesOutput, error) {
	userID, err := authenticateRequest(s.tokens, input.Authorization)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toCategoryResponse(c)
	}

	return &ListCategoriesOutput{Body: ListCategoriesResponse{Items: resp, Total: len(resp)}}, nil
}

func (s *NotesServer) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
	userID, err := authenticateRequest(s.tokens, input.Authorization)
	if err != nil {
		return nil, err
	}

	category, err := s.categories.CreateCategory(ctx, userID, service.CreateCategoryRequest{
		Name:        input.Body.Name,
		Description: sentValue(input.Body.Description),
		Color:       input.Body.Color,
	})
	if err != nil {
		return nil, err
	}

	return &CategoryOutput{Body: toCategoryResponse(category)}, nil
}

func (s *NotesServer) handleGetCategory(ctx context.Context, input *GetCategoryInput) (*CategoryOutput, error) {
	userID, err := authenticateRequest(s.tokens, input.Authorization)
	if err != nil {
		return nil, err
	}

	category, err := s.categories.GetCategory(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &CategoryOutput{Body: toCategoryResponse(category)}, nil
}

func (s *NotesServer) handleUpdateCategory(ctx context.Context, input *UpdateCategoryInput) (*CategoryOutput, error) {
	userID, err := authenticateRequest(s.tokens, input.Authorization)
	if err != nil {
		return nil, err
	}

	category, err := s.categories.UpdateCategory(ctx, userID, input.ID, service.UpdateCategoryRequest{
		Name:        sentValue(input.Body.Name),
		Description: sentValue(input.Body.Description),
		Color:       sentValue(input.Body.Color),
	})
	if err != nil {
		return nil, err
	}

	return &CategoryOutput{Body: toCategoryResponse(category)}, nil
}

func (s *NotesServer) handleDeleteCategory(ctx context.Context, input *DeleteCategoryInput) (*struct{}, error) {
	userID, err := authenticateRequest(s.tokens, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.categories.DeleteCategory(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}
