// Package search implements semantic search over one fixed collection.
package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/neuralsearch/internal/domain"
)

// DefaultLimit is the number of nearest neighbours returned per query.
const DefaultLimit = 20

// Service embeds a query and returns the nearest points of its collection.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	repo       Repository
	embed      Embedder
	collection string
	limit      int
}

// Option configures a Service.
type Option func(*Service)

// WithLimit lowers the number of results. Values outside 1..DefaultLimit are ignored;
// a search never returns more than DefaultLimit items.
func WithLimit(n int) Option {
	return func(s *Service) {
		if n > 0 && n <= DefaultLimit {
			s.limit = n
		}
	}
}

// New creates a search service bound to collection.
func New(repo Repository, embed Embedder, collection string, opts ...Option) (*Service, error) {
	if collection == "" {
		return nil, fmt.Errorf("%w: collection name is required", domain.ErrInvalidConfig)
	}
	if repo == nil || embed == nil {
		return nil, fmt.Errorf("%w: repository and embedder are required", domain.ErrInvalidConfig)
	}

	s := &Service{repo: repo, embed: embed, collection: collection, limit: DefaultLimit}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Collection returns the name of the bound collection.
func (s *Service) Collection() string { return s.collection }

// CheckCollection verifies that the bound collection exists.
func (s *Service) CheckCollection(ctx context.Context) error {
	ok, err := s.repo.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("check collection %s: %w", s.collection, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", s.collection, domain.ErrCollectionNotFound)
	}
	return nil
}

// Search embeds text and returns up to limit items in database order,
// numbered from zero. Empty text is embedded like any other string.
func (s *Service) Search(ctx context.Context, text string) ([]domain.Item, error) {
	embResult, err := s.embed.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	domain.UsageFromContext(ctx).AddTokens(embResult.TotalTokens)

	hits, err := s.repo.SearchKNN(ctx, s.collection, embResult.Embedding, s.limit)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	// the store honours the limit; trim anyway so the bound holds for any backend
	if len(hits) > s.limit {
		hits = hits[:s.limit]
	}

	return domain.Rank(hits), nil
}
