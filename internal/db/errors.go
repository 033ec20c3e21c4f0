package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound          = errors.New("db: key not found")
	ErrCollectionNotFound   = errors.New("db: collection not found")
	ErrCollectionExists     = errors.New("db: collection already exists")
	ErrInvalidCollectionDef = errors.New("db: invalid collection definition")
)

// Op names used for error context. Redis ops are command names, Qdrant ops are RPC names.
const (
	OpCreateIndex = "FT.CREATE"
	OpDropIndex   = "FT.DROPINDEX"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpHSet        = "HSET"
	OpGet         = "GET"
	OpSet         = "SET"

	OpQdrantQuery            = "Points.Query"
	OpQdrantUpsert           = "Points.Upsert"
	OpQdrantCollectionExists = "Collections.CollectionExists"
	OpQdrantCreateCollection = "Collections.Create"
	OpQdrantDeleteCollection = "Collections.Delete"
	OpQdrantHealth           = "Qdrant.HealthCheck"

	OpBoltGet = "bolt.get"
	OpBoltPut = "bolt.put"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
