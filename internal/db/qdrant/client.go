// Package qdrant implements db.Store on a Qdrant server through the official
// gRPC client.
package qdrant

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/kailas-cloud/neuralsearch/internal/db"
)

var _ db.Store = (*Store)(nil)

// DefaultGRPCPort is Qdrant's gRPC listener.
const DefaultGRPCPort = 6334

// DefaultRESTPort is Qdrant's HTTP listener. URLs written for REST clients
// use it; the store rewrites it to DefaultGRPCPort.
const DefaultRESTPort = 6333

// Config holds connection parameters for a Qdrant store.
type Config struct {
	// URL such as http://localhost:6334 or https://xyz.cloud.qdrant.io:6334.
	// The scheme selects TLS; a missing port falls back to DefaultGRPCPort.
	URL    string
	APIKey string
	// Distance is the metric collections are created with.
	Distance db.DistanceMetric
	Logger   *zap.Logger
}

// client is the subset of *qdrant.Client the store uses.
type client interface {
	HealthCheck(ctx context.Context) (*qdrant.HealthCheckReply, error)
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	DeleteCollection(ctx context.Context, collectionName string) error
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Close() error
}

// Store implements db.Store via the Qdrant gRPC API.
type Store struct {
	client   client
	distance db.DistanceMetric
	logger   *zap.Logger
}

// NewStore parses cfg.URL and creates a client. The connection is lazy; use
// WaitForReady to block until the server answers.
func NewStore(cfg Config) (*Store, error) {
	host, port, useTLS, remapped, err := parseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if remapped {
		log.Warn("Qdrant URL points at the REST port; connecting to the gRPC port instead",
			zap.String("url", cfg.URL),
			zap.Int("rest_port", DefaultRESTPort),
			zap.Int("grpc_port", DefaultGRPCPort),
		)
	}

	c, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: useTLS,
		GrpcOptions: []grpc.DialOption{
			grpc.WithChainUnaryInterceptor(unaryInterceptor(log)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return newStore(c, cfg.Distance, log), nil
}

func newStore(c client, distance db.DistanceMetric, log *zap.Logger) *Store {
	if distance == "" {
		distance = db.DistanceCosine
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{client: c, distance: distance, logger: log}
}

// ParseURL splits a Qdrant URL into gRPC host, port and TLS flag. A missing
// port and the REST port both resolve to DefaultGRPCPort.
func ParseURL(raw string) (host string, port int, useTLS bool, err error) {
	host, port, useTLS, _, err = parseURL(raw)
	return host, port, useTLS, err
}

// parseURL also reports whether the REST port was rewritten.
func parseURL(raw string) (host string, port int, useTLS, remapped bool, err error) {
	if raw == "" {
		return "", 0, false, false, fmt.Errorf("qdrant url is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", 0, false, false, fmt.Errorf("parse qdrant url %q: %w", raw, err)
	}

	switch u.Scheme {
	case "http", "grpc":
	case "https", "grpcs":
		useTLS = true
	default:
		return "", 0, false, false, fmt.Errorf("qdrant url %q: unsupported scheme %q", raw, u.Scheme)
	}

	host = u.Hostname()
	if host == "" {
		return "", 0, false, false, fmt.Errorf("qdrant url %q: host is required", raw)
	}

	port = DefaultGRPCPort
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return "", 0, false, false, fmt.Errorf("qdrant url %q: invalid port %q", raw, p)
		}
	}
	if port == DefaultRESTPort {
		port, remapped = DefaultGRPCPort, true
	}
	return host, port, useTLS, remapped, nil
}

// Ping checks connectivity through the health RPC.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.HealthCheck(ctx); err != nil {
		return &db.Error{Op: db.OpQdrantHealth, Err: err}
	}
	return nil
}

// Close shuts down the gRPC connection.
func (s *Store) Close() {
	if err := s.client.Close(); err != nil {
		s.logger.Warn("qdrant close failed", zap.Error(err))
	}
}

// WaitForReady polls Ping until Qdrant responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for qdrant: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
