package db

import (
	"context"
	"time"
)

// Store is the vector database facade every backend implements.
//
//nolint:interfacebloat // facade; consumers depend on the narrow sub-interfaces
type Store interface {
	Pinger
	VectorSearcher
	CollectionManager
	PointWriter
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// VectorSearcher runs nearest-neighbour queries.
type VectorSearcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}

// CollectionManager inspects and creates collections.
type CollectionManager interface {
	CollectionExists(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, def *CollectionDefinition) error
	DropCollection(ctx context.Context, name string) error
}

// PointWriter stores vectors with their payloads.
type PointWriter interface {
	UpsertPoints(ctx context.Context, collection string, points []Point) error
}

// KVStore is the byte-oriented key/value contract used by the embedding cache.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
