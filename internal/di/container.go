// Package di provides dependency injection configuration for the Noted services.
package di

import (
	"github.com/samber/do/v2"

	"github.com/notedapp/noted-server/internal/auth"
	"github.com/notedapp/noted-server/internal/config"
	"github.com/notedapp/noted-server/internal/di/providers"
	"github.com/notedapp/noted-server/internal/logger"
	"github.com/notedapp/noted-server/internal/service"
)

// NewAccountContainer creates the DI container for the account service.
func NewAccountContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideTokenService)

	// Storage
	do.Provide(injector, providers.ProvideAccountDB)
	do.Provide(injector, providers.ProvideUserStore)

	// Business services
	do.Provide(injector, providers.ProvideAccountService)

	// Server
	do.Provide(injector, providers.ProvideAccountServer)

	return injector
}

// NewNotesContainer creates the DI container for the notes service.
func NewNotesContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideTokenService)

	// Storage
	do.Provide(injector, providers.ProvideNotesDB)
	do.Provide(injector, providers.ProvideCategoryStore)
	do.Provide(injector, providers.ProvideTagStore)
	do.Provide(injector, providers.ProvideNoteStore)

	// Business services
	do.Provide(injector, providers.ProvideCategoryService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideNoteService)

	// Server
	do.Provide(injector, providers.ProvideNotesServer)

	return injector
}

// BootstrapAccount initializes the account service dependency graph.
func BootstrapAccount(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*providers.DBHandle](injector)
	_ = do.MustInvoke[*service.AccountService](injector)
	_ = do.MustInvoke[*providers.AccountServerHandle](injector)

	return nil
}

// BootstrapNotes initializes the notes service dependency graph.
func BootstrapNotes(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*providers.DBHandle](injector)
	_ = do.MustInvoke[*service.CategoryService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.NoteService](injector)
	_ = do.MustInvoke[*providers.NotesServerHandle](injector)

	return nil
}
