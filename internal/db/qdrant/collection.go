package qdrant

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kailas-cloud/neuralsearch/internal/db"
)

// CollectionExists asks Qdrant whether the collection is present.
func (s *Store) CollectionExists(ctx context.Context, name string) (bool, error) {
	ok, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return false, &db.Error{Op: db.OpQdrantCollectionExists, Err: err}
	}
	return ok, nil
}

// CreateCollection creates a single unnamed dense vector collection.
func (s *Store) CreateCollection(ctx context.Context, def *db.CollectionDefinition) error {
	if err := def.Validate(); err != nil {
		return err //nolint:wrapcheck // already carries ErrInvalidCollectionDef
	}

	distance := def.Distance
	if distance == "" {
		distance = s.distance
	}

	err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: def.Name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(def.Dimensions),
			Distance: toQdrantDistance(distance),
		}),
	})
	if err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == codes.AlreadyExists {
			return db.ErrCollectionExists
		}
		return &db.Error{Op: db.OpQdrantCreateCollection, Err: err}
	}
	return nil
}

// DropCollection deletes the collection and its points.
func (s *Store) DropCollection(ctx context.Context, name string) error {
	if err := s.client.DeleteCollection(ctx, name); err != nil {
		return mapError(db.OpQdrantDeleteCollection, name, err)
	}
	return nil
}

// UpsertPoints writes points and waits until they are searchable.
// IDs must be UUIDs or unsigned integers, as Qdrant requires.
func (s *Store) UpsertPoints(ctx context.Context, collection string, points []db.Point) error {
	if len(points) == 0 {
		return nil
	}

	structs := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		id, err := toPointID(p.ID)
		if err != nil {
			return err
		}
		if len(p.Vector) == 0 {
			return fmt.Errorf("point %s: vector is required", p.ID)
		}
		payload, err := mapToPayload(p.Payload)
		if err != nil {
			return fmt.Errorf("point %s: %w", p.ID, err)
		}
		structs = append(structs, &qdrant.PointStruct{
			Id:      id,
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: payload,
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points:         structs,
	})
	if err != nil {
		return mapError(db.OpQdrantUpsert, collection, err)
	}
	return nil
}

var errInvalidPointID = errors.New("point id must be a UUID or unsigned integer")

func toPointID(id string) (*qdrant.PointId, error) {
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return qdrant.NewIDNum(n), nil
	}
	if _, err := uuid.Parse(id); err == nil {
		return qdrant.NewID(id), nil
	}
	return nil, fmt.Errorf("%q: %w", id, errInvalidPointID)
}

func toQdrantDistance(d db.DistanceMetric) qdrant.Distance {
	switch d {
	case db.DistanceL2:
		return qdrant.Distance_Euclid
	case db.DistanceIP:
		return qdrant.Distance_Dot
	default:
		return qdrant.Distance_Cosine
	}
}
