// Package seed loads JSON-lines records into a vector collection: each record
// becomes one point whose vector embeds a text field and whose payload is the
// record itself.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/kailas-cloud/neuralsearch/internal/db"
	"github.com/kailas-cloud/neuralsearch/internal/domain"
)

// DefaultBatchSize is the number of records embedded and upserted together.
const DefaultBatchSize = 64

// DefaultTextField is the record field that gets embedded.
const DefaultTextField = "text"

// Config describes the target collection and how records map onto it.
type Config struct {
	Collection string
	Dimensions int
	Distance   db.DistanceMetric
	TextField  string
	BatchSize  int
	// Recreate drops an existing collection before loading.
	Recreate bool
}

// Stats counts the outcome of a load.
type Stats struct {
	Loaded  int
	Skipped int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Loaded += o.Loaded
	s.Skipped += o.Skipped
}

// ProgressFunc is told how many records were just processed.
type ProgressFunc func(n int)

// Service seeds one collection.
type Service struct {
	store  Store
	embed  domain.Embedder
	cfg    Config
	logger *zap.Logger
}

// New validates cfg and creates a seeder.
func New(store Store, embed domain.Embedder, cfg Config, logger *zap.Logger) (*Service, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("%w: collection name is required", domain.ErrInvalidConfig)
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidConfig)
	}
	if cfg.TextField == "" {
		cfg.TextField = DefaultTextField
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Distance == "" {
		cfg.Distance = db.DistanceCosine
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, embed: embed, cfg: cfg, logger: logger}, nil
}

// Prepare makes sure the collection exists, dropping it first when Recreate is set.
func (s *Service) Prepare(ctx context.Context) error {
	name := s.cfg.Collection

	exists, err := s.store.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check collection %s: %w", name, err)
	}

	if exists && s.cfg.Recreate {
		if err := s.store.DropCollection(ctx, name); err != nil && !errors.Is(err, db.ErrCollectionNotFound) {
			return fmt.Errorf("drop collection %s: %w", name, err)
		}
		s.logger.Info("Dropped collection", zap.String("collection", name))
		exists = false
	}

	if exists {
		return nil
	}

	err = s.store.CreateCollection(ctx, &db.CollectionDefinition{
		Name:       name,
		Dimensions: s.cfg.Dimensions,
		Distance:   s.cfg.Distance,
	})
	if err != nil && !errors.Is(err, db.ErrCollectionExists) {
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	s.logger.Info("Created collection",
		zap.String("collection", name),
		zap.Int("dimensions", s.cfg.Dimensions),
		zap.String("distance", string(s.cfg.Distance)),
	)
	return nil
}

// Load reads JSON-lines records from r and upserts them in batches. source
// names the stream in point IDs and logs, so reloading the same file
// overwrites its points instead of duplicating them.
func (s *Service) Load(ctx context.Context, source string, r io.Reader, progress ProgressFunc) (Stats, error) {
	var stats Stats
	rr := newRecordReader(source, r, s.cfg.TextField)
	batch := make([]Record, 0, s.cfg.BatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.upsert(ctx, batch); err != nil {
			return err
		}
		stats.Loaded += len(batch)
		if progress != nil {
			progress(len(batch))
		}
		batch = batch[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("load %s: %w", source, err)
		}

		rec, ok, reason, err := rr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, err
		}
		if !ok {
			stats.Skipped++
			s.logger.Warn("Skipped record", zap.String("source", source), zap.String("reason", reason))
			if progress != nil {
				progress(1)
			}
			continue
		}

		batch = append(batch, rec)
		if len(batch) == s.cfg.BatchSize {
			if err := flush(); err != nil {
				return stats, fmt.Errorf("load %s: %w", source, err)
			}
		}
	}

	if err := flush(); err != nil {
		return stats, fmt.Errorf("load %s: %w", source, err)
	}

	s.logger.Info("Loaded source",
		zap.String("source", source),
		zap.Int("loaded", stats.Loaded),
		zap.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

func (s *Service) upsert(ctx context.Context, batch []Record) error {
	texts := make([]string, len(batch))
	for i, rec := range batch {
		texts[i] = rec.Text
	}

	res, err := domain.BatchEmbed(ctx, s.embed, texts)
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}
	if len(res.Embeddings) != len(batch) {
		return fmt.Errorf("embed batch: expected %d embeddings, got %d: %w",
			len(batch), len(res.Embeddings), domain.ErrEmbeddingProviderError)
	}

	points := make([]db.Point, len(batch))
	for i, rec := range batch {
		if len(res.Embeddings[i]) != s.cfg.Dimensions {
			return fmt.Errorf("record %s: got %d dimensions, collection has %d: %w",
				rec.ID, len(res.Embeddings[i]), s.cfg.Dimensions, domain.ErrVectorDimMismatch)
		}
		points[i] = db.Point{ID: rec.ID, Vector: res.Embeddings[i], Payload: rec.Payload}
	}

	if err := s.store.UpsertPoints(ctx, s.cfg.Collection, points); err != nil {
		return fmt.Errorf("upsert %d points: %w", len(points), err)
	}
	return nil
}
