package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/sakenavi/sakenavi-server/internal/api"
	"github.com/sakenavi/sakenavi-server/internal/config"
	"github.com/sakenavi/sakenavi-server/internal/logger"
	"github.com/sakenavi/sakenavi-server/internal/service"
)

// HTTPServerHandle wraps the HTTP server with graceful shutdown.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer assembles the API server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	services := &api.Services{
		User:     do.MustInvoke[*UserServiceHandle](i).UserService,
		Brewery:  do.MustInvoke[*service.BreweryService](i),
		Sake:     do.MustInvoke[*service.SakeService](i),
		Review:   do.MustInvoke[*service.ReviewService](i),
		Note:     do.MustInvoke[*service.NoteService](i),
		Bookmark: do.MustInvoke[*service.BookmarkService](i),
		Timeline: do.MustInvoke[*service.TimelineService](i),
	}

	apiServer := api.NewServer(storeHandle.Store, services, cfg.Server, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      apiServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
