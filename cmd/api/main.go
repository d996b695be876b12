package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/cache"
	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/client"
	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/config"
	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/enrich"
	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/handler"
	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/router"
	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/service"
	"github.com/mxrcochxvez/lexiillc-ecommerce/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	log, err := logger.New(cfg.App.Environment)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("starting lexiillc-ecommerce API",
		"environment", cfg.App.Environment, "version", cfg.App.Version)

	// Initialize cache backend based on config
	var backend cache.Cache
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Warn("redis connection failed, falling back to memory cache", "error", err)
			memCache := cache.NewMemoryCache()
			defer memCache.Close()
			backend = memCache
		} else {
			defer redisCache.Close()
			backend = redisCache
			log.Info("redis cache initialized", "addr", cfg.Cache.RedisAddress())
		}
	default: // memory
		memCache := cache.NewMemoryCache()
		defer memCache.Close()
		backend = memCache
		log.Info("memory cache initialized")
	}

	snapshotStore := cache.NewSnapshotStore(backend, cfg.Cache.TTL)
	enrichStore := cache.NewEnrichmentStore(backend, cfg.Enrich.TTL, cfg.Enrich.FallbackTTL)

	// Initialize external clients
	source := client.NewSource(log, client.SourceConfig{
		BaseURL:  cfg.Source.BaseURL,
		Token:    cfg.Source.Token,
		PageSize: cfg.Source.PageSize,
		MaxPages: cfg.Source.MaxPages,
		Timeout:  cfg.Source.Timeout,
	})

	var ai enrich.NameService
	if cfg.AI.APIKey != "" {
		ai = client.NewAI(log, client.AIConfig{
			BaseURL: cfg.AI.BaseURL,
			APIKey:  cfg.AI.APIKey,
			Model:   cfg.AI.Model,
			Timeout: cfg.AI.Timeout,
		})
	} else {
		log.Warn("AI_API_KEY not set, name normalization runs deterministic-only")
	}

	catalog := client.NewCatalog(log, client.CatalogConfig{
		BaseURL: cfg.Catalog.BaseURL,
		Token:   cfg.Catalog.Token,
		Timeout: cfg.Catalog.Timeout,
	})

	imageSearch := client.NewImageSearch(log, client.ImageSearchConfig{
		BaseURL: cfg.ImageSearch.BaseURL,
		APIKey:  cfg.ImageSearch.APIKey,
		Timeout: cfg.ImageSearch.Timeout,
	})
	if !imageSearch.Enabled() {
		log.Warn("IMAGE_SEARCH_API_KEY not set, image search disabled")
	}

	// Initialize enrichment pipeline
	normalizer := enrich.NewNormalizer(log, ai)
	matcher := enrich.NewMatcher(log, catalog)
	orchestrator := enrich.NewOrchestrator(log, normalizer, matcher, imageSearch, enrichStore, enrich.OrchestratorConfig{
		BatchSize:     cfg.Enrich.BatchSize,
		BatchInterval: cfg.Enrich.BatchInterval,
	})

	// Initialize services
	feed := service.NewFeed(log, source, snapshotStore, orchestrator, service.FeedConfig{
		DefaultPageSize: cfg.Enrich.DefaultPageSize,
		MaxPageSize:     cfg.Enrich.MaxPageSize,
		Prefetch:        cfg.Enrich.Prefetch,
	})

	// Initialize handlers
	healthHandler := handler.New(cfg.App.Version)
	productsHandler := handler.NewProductsHandler(feed)

	// Create router
	r := router.New(router.Config{
		Log:             log,
		Handler:         healthHandler,
		ProductsHandler: productsHandler,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", "addr", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown error", "error", err)
	}

	log.Info("server stopped")
}
