// Package api provides the HTTP servers and handlers for both Noted services.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/notedapp/noted-server/internal/auth"
	"github.com/notedapp/noted-server/internal/config"
	"github.com/notedapp/noted-server/internal/service"
)

// AccountServer serves registration, login and profile endpoints.
type AccountServer struct {
	api        huma.API
	router     *chi.Mux
	httpServer *http.Server
	account    *service.AccountService
	tokens     *auth.TokenService
	logger     *slog.Logger
}

// NewAccountServer creates the account service HTTP server with all routes
// configured.
func NewAccountServer(cfg config.ServiceConfig, account *service.AccountService, tokens *auth.TokenService, logger *slog.Logger) *AccountServer {
	router := newRouter(cfg)

	s := &AccountServer{
		api:     newHumaAPI(router, "Noted Account API"),
		router:  router,
		account: account,
		tokens:  tokens,
		logger:  logger,
	}

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	s.registerAccountRoutes()
	registerServiceInfoRoutes(s.api, "noted-account")

	return s
}

// Start begins listening for requests. Blocks until the server stops.
func (s *AccountServer) Start() error {
	s.logger.Info("account service listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("account server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *AccountServer) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP implements http.Handler.
func (s *AccountServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// NotesServer serves the notes, categories, tags and dashboard endpoints.
type NotesServer struct {
	api        huma.API
	router     *chi.Mux
	httpServer *http.Server
	notes      *service.NoteService
	categories *service.CategoryService
	tags       *service.TagService
	tokens     *auth.TokenService
	logger     *slog.Logger
}

// NewNotesServer creates the notes service HTTP server with all routes
// configured. It verifies tokens issued by the account service but never
// issues its own.
func NewNotesServer(cfg config.ServiceConfig, notes *service.NoteService, categories *service.CategoryService, tags *service.TagService, tokens *auth.TokenService, logger *slog.Logger) *NotesServer {
	router := newRouter(cfg)

	s := &NotesServer{
		api:        newHumaAPI(router, "Noted Notes API"),
		router:     router,
		notes:      notes,
		categories: categories,
		tags:       tags,
		tokens:     tokens,
		logger:     logger,
	}

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	s.registerNoteRoutes()
	s.registerCategoryRoutes()
	s.registerTagRoutes()
	s.registerDashboardRoutes()
	registerServiceInfoRoutes(s.api, "noted-notes")

	return s
}

// Start begins listening for requests. Blocks until the server stops.
func (s *NotesServer) Start() error {
	s.logger.Info("notes service listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("notes server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *NotesServer) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP implements http.Handler.
func (s *NotesServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// newRouter builds the shared chi middleware stack.
func newRouter(cfg config.ServiceConfig) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	return router
}

// newHumaAPI builds a huma API on the router with the bearer security
// scheme declared and our error shape installed.
func newHumaAPI(router *chi.Mux, title string) huma.API {
	humaConfig := huma.DefaultConfig(title, "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()
	return api
}
