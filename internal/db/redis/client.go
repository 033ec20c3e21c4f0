// Package redis implements db.Store on Redis 8+ or Valkey with the search
// module, using FT.SEARCH KNN queries over hash documents.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/neuralsearch/internal/db"
)

// Compile-time checks.
var (
	_ db.Store   = (*Store)(nil)
	_ db.KVStore = (*Store)(nil)
)

// DefaultKeyPrefix namespaces every key and index the store touches.
const DefaultKeyPrefix = "neuralsearch:"

// Config holds connection and layout parameters for a Redis/Valkey store.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int

	// KeyPrefix is prepended to index names and document keys.
	KeyPrefix string
	// VectorField is the hash field holding the FLOAT32 blob (default "vector").
	VectorField string
	// Distance is the metric collections are created with; cosine scores are
	// converted to similarity on read.
	Distance db.DistanceMetric
	// HNSW build parameters for CreateCollection; zero keeps server defaults.
	HNSWM           int
	HNSWEFConstruct int
}

// Store implements db.Store via rueidis.
type Store struct {
	client      rueidis.Client
	keyPrefix   string
	vectorField string
	distance    db.DistanceMetric
	hnswM       int
	hnswEF      int
}

// NewStore creates a store. The client connects eagerly; use WaitForReady to block on readiness.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH parsing expects the RESP2 flat array
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return newStore(client, cfg), nil
}

func newStore(client rueidis.Client, cfg Config) *Store {
	s := &Store{
		client:      client,
		keyPrefix:   cfg.KeyPrefix,
		vectorField: cfg.VectorField,
		distance:    cfg.Distance,
		hnswM:       cfg.HNSWM,
		hnswEF:      cfg.HNSWEFConstruct,
	}
	if s.keyPrefix == "" {
		s.keyPrefix = DefaultKeyPrefix
	}
	if s.vectorField == "" {
		s.vectorField = "vector"
	}
	if s.distance == "" {
		s.distance = db.DistanceCosine
	}
	return s
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (s *Store) indexName(collection string) string {
	return s.keyPrefix + collection + ":idx"
}

func (s *Store) docPrefix(collection string) string {
	return s.keyPrefix + collection + ":"
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// isRedisErr reports whether err is a server error whose message contains substr, case-insensitively.
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(re.Error()), strings.ToLower(substr))
}
