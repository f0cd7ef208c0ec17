package providers

import (
	"github.com/samber/do/v2"

	"github.com/sakenavi/sakenavi-server/internal/logger"
	"github.com/sakenavi/sakenavi-server/internal/service"
)

// UserServiceHandle wraps the user service with shutdown capability for
// its registration rate limiter.
type UserServiceHandle struct {
	*service.UserService
}

// Shutdown implements do.Shutdownable.
func (h *UserServiceHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideUserService provides the user registration service.
func ProvideUserService(i do.Injector) (*UserServiceHandle, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return &UserServiceHandle{UserService: service.NewUserService(storeHandle.Store, log.Logger)}, nil
}

// ProvideBreweryService provides the brewery listing service.
func ProvideBreweryService(i do.Injector) (*service.BreweryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBreweryService(storeHandle.Store, log.Logger), nil
}

// ProvideSakeService provides the sake catalog service.
func ProvideSakeService(i do.Injector) (*service.SakeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSakeService(storeHandle.Store, log.Logger), nil
}

// ProvideReviewService provides the review service.
func ProvideReviewService(i do.Injector) (*service.ReviewService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	notifierHandle := do.MustInvoke[*NotifierHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReviewService(storeHandle.Store, log.Logger, notifierHandle.Notifier), nil
}

// ProvideNoteService provides the brewery note service.
func ProvideNoteService(i do.Injector) (*service.NoteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	notifierHandle := do.MustInvoke[*NotifierHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNoteService(storeHandle.Store, log.Logger, notifierHandle.Notifier), nil
}

// ProvideBookmarkService provides the bookmark service.
func ProvideBookmarkService(i do.Injector) (*service.BookmarkService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookmarkService(storeHandle.Store, log.Logger), nil
}

// ProvideTimelineService provides the merged activity feed service.
func ProvideTimelineService(i do.Injector) (*service.TimelineService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTimelineService(storeHandle.Store, log.Logger), nil
}
