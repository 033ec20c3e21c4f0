package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/neuralsearch/internal/bootstrap"
	"github.com/kailas-cloud/neuralsearch/internal/config"
	"github.com/kailas-cloud/neuralsearch/internal/db"
	"github.com/kailas-cloud/neuralsearch/internal/domain"
	logpkg "github.com/kailas-cloud/neuralsearch/internal/logger"
	"github.com/kailas-cloud/neuralsearch/internal/metrics"
	searchrepo "github.com/kailas-cloud/neuralsearch/internal/repository/search"
	chiTransport "github.com/kailas-cloud/neuralsearch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/neuralsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/neuralsearch/internal/usecase/search"
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

	logger.Info("Starting neuralsearch API server",
		zap.String("http_addr", cfg.HTTP.Addr()),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("collection", cfg.Search.Collection),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterStoreMetrics()

	store, err := bootstrap.OpenStore(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Embedder chain
	embedder, err := bootstrap.BuildEmbedder(cfg.Embedding, cacheStore(cfg, store), logger)
	if err != nil {
		logger.Fatal("Failed to build embedder", zap.Error(err))
	}
	defer func() { _ = embedder.Close() }()
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.String("cache", cfg.Embedding.Cache.Backend),
	)

	searchSvc, err := searchuc.New(
		searchrepo.New(store), embedder.WithInstruction(cfg.Embedding.QueryInstruction), cfg.Search.Collection,
	)
	if err != nil {
		logger.Fatal("Failed to create searcher", zap.Error(err))
	}
	if err := searchSvc.CheckCollection(ctx); err != nil {
		logger.Fatal("Collection check failed; populate it with the seed command first",
			zap.String("collection", cfg.Search.Collection),
			zap.Error(err),
		)
	}

	healthSvc := healthuc.New(store, searchSvc, newEmbeddingHealthChecker(embedder.Embedder))

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys: cfg.Auth.APIKeys,
		Logger:  logger,
	})

	addr := cfg.HTTP.Addr()
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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// cacheStore returns the database as an embedding cache when it can serve as one.
func cacheStore(cfg config.Config, store db.Store) db.KVStore {
	if cfg.Embedding.Cache.Backend != config.CacheDatabase {
		return nil
	}
	kv, ok := store.(db.KVStore)
	if !ok {
		return nil
	}
	return kv
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}
