package db

import "fmt"

// DistanceMetric is the similarity function a collection is indexed with.
type DistanceMetric string

const (
	// DistanceCosine is cosine similarity; the default for sentence embeddings.
	DistanceCosine DistanceMetric = "COSINE"
	// DistanceL2 is Euclidean distance.
	DistanceL2 DistanceMetric = "L2"
	// DistanceIP is inner product.
	DistanceIP DistanceMetric = "IP"
)

// CollectionDefinition describes a vector collection to create.
type CollectionDefinition struct {
	Name       string
	Dimensions int
	Distance   DistanceMetric
}

// Validate checks that the definition is well-formed.
func (d *CollectionDefinition) Validate() error {
	if !IsValidIdentifier(d.Name) {
		return fmt.Errorf("%w: name %q must match [a-zA-Z0-9_:-]+", ErrInvalidCollectionDef, d.Name)
	}
	if d.Dimensions <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %d", ErrInvalidCollectionDef, d.Dimensions)
	}
	switch d.Distance {
	case "", DistanceCosine, DistanceL2, DistanceIP:
	default:
		return fmt.Errorf("%w: unknown distance %q", ErrInvalidCollectionDef, d.Distance)
	}
	return nil
}

// Point is a vector with its payload, as written by the seeder.
type Point struct {
	ID      string // UUID string; backends that key by string use it verbatim
	Vector  []float32
	Payload map[string]any
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
