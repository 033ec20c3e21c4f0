// Package bootstrap builds the long-lived dependencies shared by the API
// server and the seed command: the vector store and the embedder chain.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/neuralsearch/internal/config"
	"github.com/kailas-cloud/neuralsearch/internal/db"
	dbBolt "github.com/kailas-cloud/neuralsearch/internal/db/bolt"
	dbQdrant "github.com/kailas-cloud/neuralsearch/internal/db/qdrant"
	dbRedis "github.com/kailas-cloud/neuralsearch/internal/db/redis"
	"github.com/kailas-cloud/neuralsearch/internal/domain"
	"github.com/kailas-cloud/neuralsearch/internal/metrics"
	"github.com/kailas-cloud/neuralsearch/internal/repository/embcache"
	openaiEmb "github.com/kailas-cloud/neuralsearch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/neuralsearch/internal/usecase/embedding"
)

// EmbeddingProvider labels embedding metrics and logs.
const EmbeddingProvider = "openai"

// OpenStore creates the vector store selected by cfg.Driver. It does not wait
// for the backend; call WaitForReady on the result.
func OpenStore(cfg config.DatabaseConfig, logger *zap.Logger) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverQdrant:
		s, err := dbQdrant.NewStore(dbQdrant.Config{
			URL:      cfg.URL,
			APIKey:   cfg.APIKey,
			Distance: db.DistanceCosine,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("qdrant store: %w", err)
		}
		return s, nil
	case config.DriverRedis, config.DriverValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Addrs,
			Password:  cfg.Password,
			KeyPrefix: cfg.KeyPrefix,
			Distance:  db.DistanceCosine,
		})
		if err != nil {
			return nil, fmt.Errorf("%s store: %w", cfg.Driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Embedder is the assembled embedder chain plus whatever it owns.
type Embedder struct {
	domain.Embedder
	closers []func() error
}

// Close releases resources held by the chain, such as a bolt cache file.
func (e *Embedder) Close() error {
	var firstErr error
	for _, c := range e.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WithInstruction wraps the chain so every text is prefixed with instruction.
// The prefix is part of the cache key because it is applied outermost.
func (e *Embedder) WithInstruction(instruction string) domain.Embedder {
	if instruction == "" {
		return e.Embedder
	}
	return domain.NewInstructionEmbedder(e.Embedder, instruction)
}

// BuildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented.
// kv backs the "database" cache; it is ignored for other backends.
func BuildEmbedder(cfg config.EmbeddingConfig, kv db.KVStore, logger *zap.Logger) (*Embedder, error) {
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Timeout:    time.Duration(cfg.TimeoutSec) * time.Second,
		Provider:   EmbeddingProvider,
		Logger:     logger,
	})

	out := &Embedder{}
	var embedder domain.Embedder = base

	cacheOpts := []embcache.Option{
		embcache.WithTTL(time.Duration(cfg.Cache.TTLSec) * time.Second),
		embcache.WithMetrics(metrics.EmbeddingCacheTotal),
	}
	switch cfg.Cache.Backend {
	case config.CacheDatabase:
		if kv == nil {
			return nil, fmt.Errorf("embedding cache %q needs a key/value store", cfg.Cache.Backend)
		}
		embedder = embcache.New(base, kv, cfg.Model, logger, cacheOpts...)
	case config.CacheBolt:
		if dir := filepath.Dir(cfg.Cache.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create cache dir: %w", err)
			}
		}
		bs, err := dbBolt.NewStore(cfg.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("bolt cache: %w", err)
		}
		out.closers = append(out.closers, bs.Close)
		embedder = embcache.New(base, bs, cfg.Model, logger, cacheOpts...)
	case config.CacheNone, "":
	default:
		return nil, fmt.Errorf("unknown embedding cache backend %q", cfg.Cache.Backend)
	}

	out.Embedder = embeddinguc.NewInstrumentedEmbedder(embedder, EmbeddingProvider, cfg.Model, 0, logger)
	return out, nil
}
