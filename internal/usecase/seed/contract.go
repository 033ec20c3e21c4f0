package seed

import (
	"context"

	"github.com/kailas-cloud/neuralsearch/internal/db"
)

// Store is the write side of the vector database used for seeding.
type Store interface {
	CollectionExists(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, def *db.CollectionDefinition) error
	DropCollection(ctx context.Context, name string) error
	UpsertPoints(ctx context.Context, collection string, points []db.Point) error
}
