package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/notedapp/noted-server/internal/api"
	"github.com/notedapp/noted-server/internal/auth"
	"github.com/notedapp/noted-server/internal/config"
	"github.com/notedapp/noted-server/internal/logger"
	"github.com/notedapp/noted-server/internal/service"
)

// AccountServerHandle wraps the account HTTP server for lifecycle management.
type AccountServerHandle struct {
	Server *api.AccountServer
	logger *logger.Logger
}

// Shutdown implements do.Shutdownable.
func (h *AccountServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	h.logger.Info("Shutting down account server")
	return h.Server.Shutdown(ctx)
}

// ProvideAccountServer creates the account HTTP server and starts it in the
// background.
func ProvideAccountServer(i do.Injector) (*AccountServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	account := do.MustInvoke[*service.AccountService](i)
	tokens := do.MustInvoke[*auth.TokenService](i)

	server := api.NewAccountServer(cfg.Account, account, tokens, log.Logger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Account server failed", "error", err)
		}
	}()

	return &AccountServerHandle{Server: server, logger: log}, nil
}

// NotesServerHandle wraps the notes HTTP server for lifecycle management.
type NotesServerHandle struct {
	Server *api.NotesServer
	logger *logger.Logger
}

// Shutdown implements do.Shutdownable.
func (h *NotesServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	h.logger.Info("Shutting down notes server")
	return h.Server.Shutdown(ctx)
}

// ProvideNotesServer creates the notes HTTP server and starts it in the
// background.
func ProvideNotesServer(i do.Injector) (*NotesServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	notes := do.MustInvoke[*service.NoteService](i)
	categories := do.MustInvoke[*service.CategoryService](i)
	tags := do.MustInvoke[*service.TagService](i)
	tokens := do.MustInvoke[*auth.TokenService](i)

	server := api.NewNotesServer(cfg.Notes, notes, categories, tags, tokens, log.Logger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Notes server failed", "error", err)
		}
	}()

	return &NotesServerHandle{Server: server, logger: log}, nil
}
