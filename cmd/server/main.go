package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calmpath/internal/classifier"
	"calmpath/internal/config"
	"calmpath/internal/handlers"
	"calmpath/internal/logging"
	"calmpath/internal/repository"
	"calmpath/internal/security"
	"calmpath/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	stores, err := repository.Open(cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("db_type", cfg.DatabaseType).Msg("failed to initialize storage")
	}
	defer stores.Close()

	logging.Info().Str("db_type", cfg.DatabaseType).Msg("storage ready")

	catalog := repository.NewDefaultActivityCatalog()

	// Seed the demo children on an empty store
	if _, err := service.NewSeedService(stores.Children).SeedChildren(repository.DefaultChildren()); err != nil {
		logging.Warn().Err(err).Msg("failed to seed child profiles")
	}

	// Emotion classifier
	mlClient := classifier.New(classifier.Config{
		BaseURL:        cfg.MLServiceURL,
		FallbackURL:    cfg.MLFallbackURL,
		PredictTimeout: cfg.MLPredictTimeout,
		HealthTimeout:  cfg.MLHealthTimeout,
		Attempts:       cfg.MLRetryAttempts,
		Backoff:        cfg.MLRetryBackoff,
	})

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.EmailDebug)
	if err != nil {
		logging.Warn().Err(err).Msg("email disabled")
		emailService = nil
	}

	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	limiter := security.NewRateLimiter(ctx, cfg.RateLimit, cfg.RateLimitEvery)

	// Services
	authService := service.NewAuthService(stores.Caregivers, tokens, emailService)
	catalogService := service.NewCatalogService(catalog, stores.Children)
	recommendService := service.NewRecommendationService(stores.Children, catalog)
	emotionService := service.NewEmotionService(stores.Children, mlClient)
	outcomeService := service.NewOutcomeService(stores.Outcomes, stores.Children, catalog)

	router := &handlers.Router{
		Middleware: handlers.NewMiddleware(authService, limiter),
		Catalog:    handlers.NewCatalogHandler(catalogService, recommendService),
		Children:   handlers.NewChildHandler(service.NewChildService(stores.Children)),
		Emotion:    handlers.NewEmotionHandler(emotionService, mlClient, cfg.UploadMaxSize),
		Auth:       handlers.NewAuthHandler(authService),
		Outcome:    handlers.NewOutcomeHandler(outcomeService),
		CORS:       cfg.CORSOrigins,
	}

	children, _ := catalogService.Children()

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // covers classifier retries
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Info().
			Str("addr", addr).
			Int("activities", catalog.Len()).
			Int("children", len(children)).
			Strs("ml_urls", mlClient.URLs()).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}
