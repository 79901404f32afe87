// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"facility-rental/cmd"
	"facility-rental/internal/data/repository"
	"facility-rental/internal/engine/calendar"
	"facility-rental/internal/usecase"
	"facility-rental/internal/wire"
	"facility-rental/pkg/cache"
	"facility-rental/pkg/database"
	"facility-rental/pkg/queue"
	"facility-rental/pkg/ratelimit"
	"facility-rental/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)
	catalog := usecase.LoadRoomCatalog(ctx, repos.Room, logger)

	// Availability cache; the app runs uncached without redis
	var availabilityCache cache.Cache = cache.Nop{}
	if redisCache, err := cache.NewRedisCache(config.Redis, logger); err != nil {
		logger.Warn("Redis unavailable, availability cache disabled", zap.Error(err))
	} else {
		availabilityCache = redisCache
		logger.Info("Redis connected successfully")
	}
	defer availabilityCache.Close()

	// Event publisher; events are only logged without a broker
	var publisher queue.Publisher = queue.LogPublisher{Log: logger}
	if config.RabbitMQ.URL != "" {
		rabbit, err := queue.NewRabbitPublisher(config.RabbitMQ.URL, queue.DefaultExchange, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, events will only be logged", zap.Error(err))
		} else {
			publisher = rabbit
			logger.Info("RabbitMQ connected successfully")
		}
	}
	defer publisher.Close()

	clock := calendar.RealClock{}
	infra := usecase.Infra{
		Cache:     availabilityCache,
		Publisher: publisher,
		Limiter:   ratelimit.New(config.RateLimit.SubmitPerMinute, config.RateLimit.SubmitBurst),
		Tokens:    utils.NewTokenManager(config.JWT),
		Clock:     clock,
	}
	engines := usecase.NewEngines(catalog, clock, config.Rental.SlotMinutes)

	// Wire all dependencies
	app := wire.Wiring(repos, engines, infra, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
