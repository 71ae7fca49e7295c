package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/trova/internal/config"
	dbRedis "github.com/kailas-cloud/trova/internal/db/redis"
	"github.com/kailas-cloud/trova/internal/domain"
	logpkg "github.com/kailas-cloud/trova/internal/logger"
	"github.com/kailas-cloud/trova/internal/metrics"
	catalogrepo "github.com/kailas-cloud/trova/internal/repository/catalog"
	"github.com/kailas-cloud/trova/internal/repository/embcache"
	chiTransport "github.com/kailas-cloud/trova/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/trova/internal/transport/openai"
	"github.com/kailas-cloud/trova/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/trova/internal/usecase/health"
	resolveruc "github.com/kailas-cloud/trova/internal/usecase/resolver"
	searchuc "github.com/kailas-cloud/trova/internal/usecase/search"
	"github.com/kailas-cloud/trova/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting trova API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create catalog store", zap.Error(err))
	}
	defer store.Close()

	// Wait for the store to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Catalog store not ready", zap.Error(err))
	}
	logger.Info("Connected to catalog store")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	// Catalog repository owns the product index
	catalog := catalogrepo.New(store, catalogrepo.IndexParams{
		KeyPrefix:       cfg.Catalog.KeyPrefix,
		VectorDim:       cfg.Catalog.VectorDim,
		HNSWM:           cfg.Catalog.HNSWM,
		HNSWEFConstruct: cfg.Catalog.HNSWEFConstruct,
	}, logger)
	if err := catalog.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure product index", zap.Error(err))
	}

	// Embedder chain: OpenAI -> Cached -> Instrumented, built on first use
	embedder := embedding.NewLazyEmbedder(func() (domain.Embedder, error) {
		base := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Provider:   "openai",
			Logger:     logger,
		})

		cached := embcache.New(
			base, store, cfg.Catalog.KeyPrefix,
			time.Duration(cfg.Embedding.CacheTTLSec)*time.Second,
			metrics.EmbeddingCacheTotal, logger,
		)

		return embedding.NewInstrumentedEmbedder(cached, "openai", cfg.Embedding.Model, logger), nil
	})
	logger.Info("Embedder configured",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Intent extraction / query rewrite (rule-based fallback built in)
	intent := openaiTransport.NewIntent(&openaiTransport.IntentConfig{
		APIKey:  cfg.Intent.APIKey,
		BaseURL: cfg.Intent.BaseURL,
		Model:   cfg.Intent.Model,
		Logger:  logger,
	})

	// Attribute resolver feeds off the live colour vocabulary
	resolver := resolveruc.New(catalog, logger)

	searchSvc := searchuc.New(
		catalog, resolver, intent, intent, embedder, logger,
		searchuc.Params{
			MinTopK:     cfg.Search.MinTopK,
			MaxTopK:     cfg.Search.MaxTopK,
			TierTimeout: time.Duration(cfg.Search.TierTimeoutSec) * time.Second,
			Weights: searchuc.Weights{
				Similarity: cfg.Search.Weights.Similarity,
				Category:   cfg.Search.Weights.Category,
				Popularity: cfg.Search.Weights.Popularity,
			},
		},
	)

	healthSvc := healthuc.New(store, store, catalogrepo.IndexName(cfg.Catalog.KeyPrefix), embedder)

	server := chiTransport.NewServer(searchSvc, healthSvc, cfg.Search.DefaultTopK, logger)
	handler := server.Routes(cfg.Auth.APIKeys)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
