package redis

import (
	"context"
	"strconv"

	"github.com/kailas-cloud/neuralsearch/internal/db"
)

// CollectionExists probes the collection's FT index via FT.INFO; "unknown index name" means absent.
func (s *Store) CollectionExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(s.indexName(name)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isUnknownIndex(err) {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

// CreateCollection creates an HNSW vector index over hashes under the collection's key prefix.
func (s *Store) CreateCollection(ctx context.Context, def *db.CollectionDefinition) error {
	if err := def.Validate(); err != nil {
		return err //nolint:wrapcheck // already carries ErrInvalidCollectionDef
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(s.buildCreateArgs(def)...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrCollectionExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// DropCollection removes the FT index and its documents.
func (s *Store) DropCollection(ctx context.Context, name string) error {
	cmd := s.b().Arbitrary("FT.DROPINDEX").Args(s.indexName(name), "DD").Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isUnknownIndex(err) {
			return db.ErrCollectionNotFound
		}
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	return nil
}

func (s *Store) buildCreateArgs(def *db.CollectionDefinition) []string {
	distance := def.Distance
	if distance == "" {
		distance = s.distance
	}

	attrs := []string{
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(def.Dimensions),
		"DISTANCE_METRIC", string(distance),
	}
	if s.hnswM > 0 {
		attrs = append(attrs, "M", strconv.Itoa(s.hnswM))
	}
	if s.hnswEF > 0 {
		attrs = append(attrs, "EF_CONSTRUCTION", strconv.Itoa(s.hnswEF))
	}

	args := []string{
		s.indexName(def.Name),
		"ON", "HASH",
		"PREFIX", "1", s.docPrefix(def.Name),
		"SCHEMA",
		s.vectorField, "VECTOR", "HNSW", strconv.Itoa(len(attrs)),
	}
	return append(args, attrs...)
}

// isUnknownIndex matches both the Redis ("Unknown index name") and Valkey ("not found") wording.
func isUnknownIndex(err error) bool {
	return isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") ||
		isRedisErr(err, "not found")
}
