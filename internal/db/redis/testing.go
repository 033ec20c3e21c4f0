package redis

import "github.com/redis/rueidis"

// NewStoreForTest creates a Store around the provided client with default layout (test-only).
func NewStoreForTest(c rueidis.Client) *Store {
	return newStore(c, Config{})
}
