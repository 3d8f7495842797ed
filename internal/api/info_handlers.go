package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// ServiceInfoResponse identifies a running service.
type ServiceInfoResponse struct {
	Message string `json:"message" doc:"Service banner"`
	Version string `json:"version" doc:"Service version"`
}

// ServiceInfoOutput wraps the service info response for Huma.
type ServiceInfoOutput struct {
	Body ServiceInfoResponse
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status string `json:"status" doc:"Overall status"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

// registerServiceInfoRoutes adds the root banner and health endpoints
// every service exposes.
func registerServiceInfoRoutes(api huma.API, serviceName string) {
	huma.Register(api, huma.Operation{
		OperationID: "serviceInfo",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Service info",
		Description: "Returns the service name and version",
		Tags:        []string{"Info"},
	}, func(_ context.Context, _ *struct{}) (*ServiceInfoOutput, error) {
		return &ServiceInfoOutput{Body: ServiceInfoResponse{
			Message: serviceName,
			Version: "1.0.0",
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status",
		Tags:        []string{"Info"},
	}, func(_ context.Context, _ *struct{}) (*HealthOutput, error) {
		return &HealthOutput{Body: HealthResponse{Status: "healthy"}}, nil
	})
}
