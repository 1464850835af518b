package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/config"
	controller "github.com/ramlakhangupta/City-Food-Explorer-Backend/controllers"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/helper"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/logging"
	middleware "github.com/ramlakhangupta/City-Food-Explorer-Backend/middlewares"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/repositories"
	routes "github.com/ramlakhangupta/City-Food-Explorer-Backend/routes"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/services"
)

func main() {
	if err := run(); err != nil {
		logger := logging.Logger()
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run() error {
	// Load environment variables
	if err := config.LoadEnvFile(); err != nil {
		bootLogger := logging.Logger()
		bootLogger.Warn().Err(err).Msg("could not load .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	images, err := openImageStore(ctx, cfg)
	if err != nil {
		return err
	}

	tokens := helper.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	policy := services.NewAdminPolicy(cfg.AdminEmail)
	if cfg.AdminEmail == "" {
		logger.Warn().Msg("ADMIN_EMAIL is not set; only users with the admin role can moderate")
	}

	catalog := services.NewCatalogService(store, logger)
	actors := controller.NewActorResolver(store.Users, policy)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limiter.StartCleanup(ctx, 5*time.Minute)

	uploadDir := ""
	if cfg.ImageStore == config.ImageStoreLocal {
		uploadDir = cfg.UploadDir
	}

	router := routes.NewRouter(routes.Controllers{
		Users:        controller.NewUserController(services.NewAuthService(store.Users, tokens, policy, logger)),
		Dishes:       controller.NewDishController(catalog),
		Categories:   controller.NewCategoryController(catalog),
		Submissions:  controller.NewSubmissionController(services.NewSubmissionService(store, images, policy, logger), actors, cfg.MaxUploadBytes),
		Moderation:   controller.NewModerationController(services.NewModerationService(store, logger)),
		Interactions: controller.NewInteractionController(services.NewInteractionService(store, logger), actors),
	}, routes.Options{
		Tokens:       tokens,
		Users:        store.Users,
		Policy:       policy,
		Limiter:      limiter,
		UploadDir:    uploadDir,
		CORSOrigins:  cfg.CORSOrigins,
		StoreTimeout: cfg.DBTimeout,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("store", cfg.StoreBackend).Str("images", cfg.ImageStore).Msg("server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*repositories.Store, func(), error) {
	if cfg.StoreBackend == config.StoreMemory {
		logger.Warn().Msg("using in-memory store; data is lost on restart")
		return repositories.NewMemoryStore(), func() {}, nil
	}

	client, err := config.DBinstance(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error().Err(err).Msg("disconnect from MongoDB")
		}
	}

	db := config.OpenDatabase(client, cfg)
	indexCtx, cancel := context.WithTimeout(ctx, cfg.DBTimeout)
	defer cancel()
	if err := repositories.EnsureIndexes(indexCtx, db); err != nil {
		closeFn()
		return nil, nil, err
	}

	logger.Info().Str("db", cfg.DBName).Bool("transactions", cfg.MongoTransactions).Msg("connected to MongoDB")
	return repositories.NewMongoStore(client, db, cfg.MongoTransactions), closeFn, nil
}

func openImageStore(ctx context.Context, cfg *config.Config) (helper.ImageStore, error) {
	if cfg.ImageStore == config.ImageStoreS3 {
		return helper.NewS3ImageStore(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicURL, cfg.MaxUploadBytes)
	}
	return helper.NewLocalImageStore(cfg.UploadDir, cfg.MaxUploadBytes)
}
