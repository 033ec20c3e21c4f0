package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/neuralsearch/internal/db"
)

// hashItem holds a single key+fields pair for a pipelined HSET.
type hashItem struct {
	key    string
	fields map[string]string
}

// hsetMulti stores multiple hashes in a single DoMulti round-trip.
func (s *Store) hsetMulti(ctx context.Context, items []hashItem) error {
	if len(items) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, 0, len(items))
	for _, item := range items {
		cmd := s.b().Hset().Key(item.key).FieldValue()
		for k, v := range item.fields {
			cmd = cmd.FieldValue(k, v)
		}
		cmds = append(cmds, cmd.Build())
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("key %s: %w", items[i].key, err)}
		}
	}
	return nil
}
