// Package di provides dependency injection configuration for the Sakenavi server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/sakenavi/sakenavi-server/internal/config"
	"github.com/sakenavi/sakenavi-server/internal/di/providers"
	"github.com/sakenavi/sakenavi-server/internal/logger"
	"github.com/sakenavi/sakenavi-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Notifications
	do.Provide(injector, providers.ProvideNotifier)

	// Business services
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideBreweryService)
	do.Provide(injector, providers.ProvideSakeService)
	do.Provide(injector, providers.ProvideReviewService)
	do.Provide(injector, providers.ProvideNoteService)
	do.Provide(injector, providers.ProvideBookmarkService)
	do.Provide(injector, providers.ProvideTimelineService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services. This triggers lazy initialization
// in dependency order; the HTTP server starts listening as a side effect.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.NotifierHandle](injector)

	_ = do.MustInvoke[*providers.UserServiceHandle](injector)
	_ = do.MustInvoke[*service.BreweryService](injector)
	_ = do.MustInvoke[*service.SakeService](injector)
	_ = do.MustInvoke[*service.ReviewService](injector)
	_ = do.MustInvoke[*service.NoteService](injector)
	_ = do.MustInvoke[*service.BookmarkService](injector)
	_ = do.MustInvoke[*service.TimelineService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
