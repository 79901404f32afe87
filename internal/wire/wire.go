// internal/wire/wire.go
package wire

import (
	"net/http"

	"facility-rental/internal/adaptor"
	"facility-rental/internal/data/repository"
	"facility-rental/internal/usecase"
	"facility-rental/pkg/middleware"
	"facility-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the assembled HTTP application
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds the services and handlers and mounts every route
func Wiring(repo *repository.Repository, engines *usecase.Engines, infra usecase.Infra, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, engines, infra, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, infra, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// setupRouter configures the chi router
func setupRouter(
	handler *adaptor.Handler,
	infra usecase.Infra,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))
	r.Use(middleware.RateLimit(config.RateLimit.RequestsPerSecond))

	// Apply routes
	wireRoom(r, handler.Room)
	wireRental(r, handler.Rental)
	wireAuth(r, handler.Auth)
	wireAdmin(r, handler.Admin, infra.Tokens, logger)
	wireFacility(r, handler.Block, handler.Schedule, infra.Tokens, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
