package providers

import (
	"github.com/samber/do/v2"

	"github.com/notedapp/noted-server/internal/auth"
	"github.com/notedapp/noted-server/internal/logger"
	"github.com/notedapp/noted-server/internal/service"
	"github.com/notedapp/noted-server/internal/store"
)

// ProvideAccountService provides the account business service.
func ProvideAccountService(i do.Injector) (*service.AccountService, error) {
	users := do.MustInvoke[*store.UserStore](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAccountService(users, tokens, log.Logger), nil
}

// ProvideCategoryService provides the category business service.
func ProvideCategoryService(i do.Injector) (*service.CategoryService, error) {
	categories := do.MustInvoke[*store.CategoryStore](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCategoryService(categories, log.Logger), nil
}

// ProvideTagService provides the tag business service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	tags := do.MustInvoke[*store.TagStore](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(tags, log.Logger), nil
}

// ProvideNoteService provides the note business service.
func ProvideNoteService(i do.Injector) (*service.NoteService, error) {
	notes := do.MustInvoke[*store.NoteStore](i)
	categories := do.MustInvoke[*store.CategoryStore](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNoteService(notes, categories, log.Logger), nil
}
