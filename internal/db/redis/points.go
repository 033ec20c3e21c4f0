package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/neuralsearch/internal/db"
)

// UpsertPoints writes one hash per point: the vector blob, the full payload as
// JSON, and scalar payload values as plain fields so other tools can read them.
func (s *Store) UpsertPoints(ctx context.Context, collection string, points []db.Point) error {
	items := make([]hashItem, 0, len(points))
	for _, p := range points {
		fields, err := s.pointFields(p)
		if err != nil {
			return fmt.Errorf("point %s: %w", p.ID, err)
		}
		items = append(items, hashItem{key: s.docPrefix(collection) + p.ID, fields: fields})
	}
	return s.hsetMulti(ctx, items)
}

func (s *Store) pointFields(p db.Point) (map[string]string, error) {
	if len(p.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}

	doc, err := json.Marshal(p.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	fields := map[string]string{
		s.vectorField: vectorToBytes(p.Vector),
		payloadField:  string(doc),
	}
	for k, v := range p.Payload {
		if k == s.vectorField || k == payloadField || k == scoreField {
			continue
		}
		switch val := v.(type) {
		case string:
			fields[k] = val
		case float64:
			fields[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			fields[k] = strconv.FormatBool(val)
		}
	}
	return fields, nil
}
