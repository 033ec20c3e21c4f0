package search

import (
	"context"

	"github.com/kailas-cloud/neuralsearch/internal/domain"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	SearchKNN(ctx context.Context, collectionName string, vector []float32, topK int) ([]domain.Hit, error)
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
