// Package search adapts the vector database to the search use case.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/neuralsearch/internal/db"
	"github.com/kailas-cloud/neuralsearch/internal/domain"
	"github.com/kailas-cloud/neuralsearch/internal/metrics"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	CollectionExists(ctx context.Context, name string) (bool, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SearchKNN runs an unfiltered nearest-neighbour query and returns hits in
// the order the database produced them.
func (r *Repo) SearchKNN(
	ctx context.Context, collectionName string, vector []float32, topK int,
) ([]domain.Hit, error) {
	start := time.Now()

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		Collection: collectionName,
		Vector:     vector,
		K:          topK,
	})

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.VectorQueryDuration.WithLabelValues(collectionName, status).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, db.ErrCollectionNotFound) {
			return nil, fmt.Errorf("search knn %s: %w", collectionName, domain.ErrCollectionNotFound)
		}
		return nil, fmt.Errorf("search knn %s: %w", collectionName, err)
	}

	hits := toHits(sr)
	metrics.VectorQueryResults.WithLabelValues(collectionName).Observe(float64(len(hits)))
	return hits, nil
}

// CollectionExists proxies the existence check from the store.
func (r *Repo) CollectionExists(ctx context.Context, collectionName string) (bool, error) {
	ok, err := r.store.CollectionExists(ctx, collectionName)
	if err != nil {
		return false, fmt.Errorf("collection exists %s: %w", collectionName, err)
	}
	return ok, nil
}

// toHits converts db entries into domain hits. Never returns nil.
func toHits(sr *db.SearchResult) []domain.Hit {
	if sr == nil {
		return []domain.Hit{}
	}
	hits := make([]domain.Hit, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		hits = append(hits, domain.Hit{Payload: e.Payload, Score: e.Score})
	}
	return hits
}
