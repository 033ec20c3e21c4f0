package db

// KNNQuery is the input for vector similarity search. No filter predicate is supported.
type KNNQuery struct {
	Collection string
	Vector     []float32
	K          int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Entries []SearchEntry
}

// SearchEntry is a single hit. Entries are kept in the order the backend ranked them.
type SearchEntry struct {
	ID      string
	Score   float64
	Payload map[string]any
}
