// Package api provides the HTTP API server and handlers for the Sakenavi application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakenavi/sakenavi-server/internal/config"
	"github.com/sakenavi/sakenavi-server/internal/service"
	"github.com/sakenavi/sakenavi-server/internal/store"
	"github.com/sakenavi/sakenavi-server/internal/validation"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	User     *service.UserService
	Brewery  *service.BreweryService
	Sake     *service.SakeService
	Review   *service.ReviewService
	Note     *service.NoteService
	Bookmark *service.BookmarkService
	Timeline *service.TimelineService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store     *store.Store
	services  *Services
	router    *chi.Mux
	api       huma.API
	validator *validation.Validator
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, cfg config.ServerConfig, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-Id"},
		MaxAge:         300,
	}))
	router.Use(clientAddrMiddleware)

	humaConfig := huma.DefaultConfig("Sakenavi API", "1.0.0")
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:     st,
		services:  services,
		router:    router,
		api:       api,
		validator: validation.New(),
		logger:    logger,
	}

	s.registerHealthRoutes()
	s.registerUserRoutes()
	s.registerBreweryRoutes()
	s.registerSakeRoutes()
	s.registerReviewRoutes()
	s.registerBookmarkRoutes()
	s.registerTimelineRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
