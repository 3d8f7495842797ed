package providers

import (
	"context"

	"github.com/samber/do/v2"
	"github.com/uptrace/bun"

	"github.com/notedapp/noted-server/internal/config"
	"github.com/notedapp/noted-server/internal/logger"
	"github.com/notedapp/noted-server/internal/store"
)

// DBHandle wraps bun.DB for lifecycle management. Each binary opens
// exactly one database.
type DBHandle struct {
	*bun.DB
}

// Shutdown implements do.Shutdownable.
func (h *DBHandle) Shutdown() error {
	return h.DB.Close()
}

// ProvideAccountDB opens the account service database and applies its schema.
func ProvideAccountDB(i do.Injector) (*DBHandle, error) {
	return openDB(i, func(cfg *config.Config) config.ServiceConfig { return cfg.Account }, store.InitAccountSchema)
}

// ProvideNotesDB opens the notes service database and applies its schema.
func ProvideNotesDB(i do.Injector) (*DBHandle, error) {
	return openDB(i, func(cfg *config.Config) config.ServiceConfig { return cfg.Notes }, store.InitNotesSchema)
}

func openDB(i do.Injector, section func(*config.Config) config.ServiceConfig, initSchema func(context.Context, *bun.DB) error) (*DBHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	svcCfg := section(cfg)
	db, err := store.Open(svcCfg.Driver, svcCfg.DSN)
	if err != nil {
		return nil, err
	}

	if err := initSchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info("Database ready", "driver", svcCfg.Driver, "dsn", svcCfg.DSN)
	return &DBHandle{DB: db}, nil
}

// ProvideUserStore provides the account user store.
func ProvideUserStore(i do.Injector) (*store.UserStore, error) {
	db := do.MustInvoke[*DBHandle](i)
	return store.NewUserStore(db.DB), nil
}

// ProvideCategoryStore provides the category store.
func ProvideCategoryStore(i do.Injector) (*store.CategoryStore, error) {
	db := do.MustInvoke[*DBHandle](i)
	return store.NewCategoryStore(db.DB), nil
}

// ProvideTagStore provides the tag store.
func ProvideTagStore(i do.Injector) (*store.TagStore, error) {
	db := do.MustInvoke[*DBHandle](i)
	return store.NewTagStore(db.DB), nil
}

// ProvideNoteStore provides the note store.
func ProvideNoteStore(i do.Injector) (*store.NoteStore, error) {
	db := do.MustInvoke[*DBHandle](i)
	return store.NewNoteStore(db.DB), nil
}
