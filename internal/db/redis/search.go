package redis

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/neuralsearch/internal/db"
)

const (
	scoreField   = "__vector_score"
	payloadField = "__payload"
)

// SearchKNN runs an unfiltered KNN query via FT.SEARCH.
// Hits come back ordered by distance, nearest first.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.Collection == "" {
		return nil, fmt.Errorf("collection is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	query := fmt.Sprintf("*=>[KNN %d @%s $BLOB AS %s]", q.K, s.vectorField, scoreField)

	args := []string{
		s.indexName(q.Collection), query,
		"SORTBY", scoreField, "ASC",
		"LIMIT", "0", strconv.Itoa(q.K),
		"PARAMS", "2", "BLOB", vectorToBytes(q.Vector),
		"DIALECT", "2",
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isUnknownIndex(err) {
			return nil, fmt.Errorf("%s: %w", q.Collection, db.ErrCollectionNotFound)
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return s.parseKNNResult(raw, s.docPrefix(q.Collection))
}

// parseKNNResult walks the RESP2 reply [total, key1, fields1, key2, fields2, ...].
func (s *Store) parseKNNResult(raw []rueidis.RedisMessage, prefix string) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/2)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		pairs := parseFieldPairs(fields)
		entry := db.SearchEntry{ID: strings.TrimPrefix(key, prefix)}

		if scoreStr, ok := pairs[scoreField]; ok {
			if d, err := strconv.ParseFloat(scoreStr, 64); err == nil {
				entry.Score = s.similarity(d)
			}
			delete(pairs, scoreField)
		}
		delete(pairs, s.vectorField)
		entry.Payload = payloadFromFields(pairs)

		entries = append(entries, entry)
	}

	return &db.SearchResult{Entries: entries}, nil
}

// similarity maps the reported distance to a higher-is-better score.
func (s *Store) similarity(distance float64) float64 {
	switch s.distance {
	case db.DistanceCosine:
		return min(1, max(0, 1.0-distance)) // cosine distance in [0,2]
	case db.DistanceIP:
		return 1.0 - distance
	default:
		return -distance
	}
}

// payloadFromFields prefers the JSON document written by UpsertPoints; hashes
// written by other tools expose their raw string fields.
func payloadFromFields(fields map[string]string) map[string]any {
	if raw, ok := fields[payloadField]; ok {
		var payload map[string]any
		if err := json.Unmarshal([]byte(raw), &payload); err == nil && payload != nil {
			return payload
		}
	}

	payload := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == payloadField {
			continue
		}
		payload[k] = v
	}
	return payload
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
