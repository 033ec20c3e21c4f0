// Package bolt implements db.KVStore on a local bbolt file. It backs the
// embedding cache when no shared database is wanted.
package bolt

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/kailas-cloud/neuralsearch/internal/db"
)

var _ db.KVStore = (*Store)(nil)

var bucketKV = []byte("kv")

// expiry header: 8 bytes of big-endian unix nanoseconds, zero = never.
const headerLen = 8

// Store is a single-bucket key/value store.
type Store struct {
	db  *bbolt.DB
	now func() time.Time
}

// NewStore opens (or creates) the bolt file at path.
func NewStore(path string) (*Store, error) {
	bdb, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = bdb.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketKV); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketKV, err)
		}
		return nil
	})
	if err != nil {
		_ = bdb.Close()
		return nil, err
	}

	return &Store{db: bdb, now: time.Now}, nil
}

// Get returns the value for key, or db.ErrKeyNotFound when it is absent or expired.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketKV).Get([]byte(key))
		if data == nil {
			return db.ErrKeyNotFound
		}
		if len(data) < headerLen {
			return fmt.Errorf("corrupt entry %q: %d bytes", key, len(data))
		}
		if exp := int64(binary.BigEndian.Uint64(data[:headerLen])); exp != 0 && s.now().UnixNano() >= exp {
			return db.ErrKeyNotFound
		}
		// bolt memory is only valid inside the transaction
		out = append([]byte(nil), data[headerLen:]...)
		return nil
	})
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, err
		}
		return nil, &db.Error{Op: db.OpBoltGet, Err: err}
	}
	return out, nil
}

// Set stores value under key without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores value under key; ttl <= 0 means no expiry.
// Expired entries are skipped on read and overwritten on the next Set.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var exp int64
	if ttl > 0 {
		exp = s.now().Add(ttl).UnixNano()
	}

	buf := make([]byte, headerLen+len(value))
	binary.BigEndian.PutUint64(buf[:headerLen], uint64(exp))
	copy(buf[headerLen:], value)

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketKV).Put([]byte(key), buf)
	})
	if err != nil {
		return &db.Error{Op: db.OpBoltPut, Err: err}
	}
	return nil
}

// Close releases the file lock.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close bolt db: %w", err)
	}
	return nil
}
