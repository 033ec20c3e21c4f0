package domain

import "errors"

var (
	// ErrCollectionNotFound signals that the bound collection does not exist in the vector database.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrVectorDimMismatch signals that an embedding does not have the configured dimensionality.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrInvalidConfig signals a searcher constructed with unusable settings.
	ErrInvalidConfig = errors.New("invalid configuration")
)
