package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/whpcodes/catalog-service/internal/api"
	"github.com/whpcodes/catalog-service/internal/app"
	"github.com/whpcodes/catalog-service/internal/config"
	"github.com/whpcodes/catalog-service/internal/metrics"
	"github.com/whpcodes/catalog-service/internal/pricing"
	"github.com/whpcodes/catalog-service/internal/repository"
	"github.com/whpcodes/catalog-service/internal/service"
	"github.com/whpcodes/catalog-service/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return 1
	}

	log, err := app.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()
	log = log.With(logger.String("service", cfg.Service.Name))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	ctx := context.Background()

	// connect DB
	conn, err := app.OpenDatabase(ctx, cfg)
	if err != nil {
		log.Error("Database connection failed", logger.Error(err))
		return 1
	}
	defer conn.Close()

	respCache, closeCache, err := app.NewCache(cfg, log)
	if err != nil {
		log.Error("Cache setup failed", logger.Error(err))
		return 1
	}
	defer func() { _ = closeCache() }()

	overrides, err := app.LoadOverrideTable(cfg.Pricing.OverridesPath, m)
	if err != nil {
		log.Error("Price overrides invalid", logger.String("path", cfg.Pricing.OverridesPath), logger.Error(err))
		return 1
	}
	log.Info("Price overrides loaded", logger.Int("count", overrides.Len()))
	if cfg.Pricing.WatchOverrides {
		watcher, werr := pricing.WatchOverrides(cfg.Pricing.OverridesPath, overrides, log, m.OverrideReload)
		if werr != nil {
			log.Error("Price override watcher failed", logger.Error(werr))
			return 1
		}
		defer watcher.Close()
	}

	clf, err := app.NewClassifier(cfg, "")
	if err != nil {
		log.Error("Classifier setup failed", logger.Error(err))
		return 1
	}

	// create repos & services
	whopRepo := repository.NewItemRepo(conn)
	trackingRepo := repository.NewTrackingRepo(conn)

	catalog := service.NewCatalogService(service.CatalogDeps{
		Whops:      whopRepo,
		Promos:     repository.NewPromoRepo(conn),
		Reviews:    repository.NewReviewRepo(conn),
		Classifier: clf,
		Normalizer: pricing.NewNormalizer(overrides),
		Cache:      respCache,
		Log:        log,
		Metrics:    m,
	})
	recs := service.NewRecommendationService(
		whopRepo,
		app.NewRanker(cfg),
		respCache,
		cfg.Recommendations.CacheTTL,
		cfg.Recommendations.Limit,
		log,
		m,
	)
	tracker := service.NewTracker(trackingRepo, service.TrackingConfig{
		BufferSize:     cfg.Tracking.BufferSize,
		FlushInterval:  cfg.Tracking.FlushInterval,
		FlushThreshold: cfg.Tracking.FlushThreshold,
	}, log, m)
	tracker.Start()
	defer tracker.Stop()

	analytics := service.NewAnalyticsService(trackingRepo, service.AnalyticsLimits{
		RowCap:        cfg.Analytics.AllTimeRowCap,
		MaxCustomDays: cfg.Analytics.MaxCustomDays,
	})

	handler := api.NewRouter(api.Deps{
		Catalog:           catalog,
		Recommender:       recs,
		Tracker:           tracker,
		Analytics:         analytics,
		Log:               log,
		Metrics:           m,
		JWTSecret:         cfg.Auth.JWTSecret,
		TrackingPerSecond: cfg.Tracking.RatePerSecond,
		TrackingBurst:     cfg.Tracking.Burst,
	})

	srv := &http.Server{
		Addr:         cfg.Service.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Service.ReadTimeout,
		WriteTimeout: cfg.Service.WriteTimeout,
		IdleTimeout:  cfg.Service.IdleTimeout,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		// we received an interrupt signal, shut down.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Service.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown failed", logger.Error(err))
		}
		close(idleConnsClosed)
	}()

	log.Info("Starting catalog-service",
		logger.String("address", srv.Addr),
		logger.String("classifier", clf.Strategy()),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("HTTP server failed", logger.Error(err))
		return 1
	}

	<-idleConnsClosed
	log.Info("Server stopped")
	return 0
}
