package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *NotesServer) registerDashboardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getDashboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/dashboard",
		Summary:     "Dashboard",
		Description: "Returns workspace counts and the five most recently updated notes",
		Tags:        []string{"Dashboard"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDashboard)
}

// DashboardInput contains parameters for the dashboard.
type DashboardInput struct {
	Authorization string `header:"Authorization"`
}

// DashboardResponse summarizes the user's workspace.
type DashboardResponse struct {
	TotalNotes      int            `json:"total_notes" doc:"Number of notes"`
	FavoriteNotes   int            `json:"favorite_notes" doc:"Number of favorited notes"`
	CategoriesCount int            `json:"categories_count" doc:"Number of categories"`
	TagsCount       int            `json:"tags_count" doc:"Number of tags"`
	RecentNotes     []NoteResponse `json:"recent_notes" doc:"Five most recently updated notes"`
}

// DashboardOutput wraps the dashboard response for Huma.
type DashboardOutput struct {
	Body DashboardResponse
}

func (s *NotesServer) handleDashboard(ctx context.Context, input *DashboardInput) (*DashboardOutput, error) {
	userID, err := authenticateRequest(s.tokens, input.Authorization)
	if err != nil {
		return nil, err
	}

	stats, err := s.notes.Dashboard(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent := make([]NoteResponse, len(stats.RecentNotes))
	for i, n := range stats.RecentNotes {
		recent[i] = toNoteResponse(n)
	}

	return &DashboardOutput{Body: DashboardResponse{
		TotalNotes:      stats.TotalNotes,
		FavoriteNotes:   stats.FavoriteNotes,
		CategoriesCount: stats.TotalCategories,
		TagsCount:       stats.TotalTags,
		RecentNotes:     recent,
	}}, nil
}
