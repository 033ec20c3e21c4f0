package seed

import (
	"context"
	"strings"
	"sync"

	"github.com/kailas-cloud/neuralsearch/internal/db"
	"github.com/kailas-cloud/neuralsearch/internal/domain"
)

type mockStore struct {
	mu         sync.Mutex
	exists     bool
	existsErr  error
	createErr  error
	dropErr    error
	upsertErr  error
	created    []*db.CollectionDefinition
	dropped    []string
	upserts    [][]db.Point
	collection string
}

func (m *mockStore) CollectionExists(_ context.Context, _ string) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockStore) CreateCollection(_ context.Context, def *db.CollectionDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, def)
	return m.createErr
}

func (m *mockStore) DropCollection(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropped = append(m.dropped, name)
	return m.dropErr
}

func (m *mockStore) UpsertPoints(_ context.Context, collection string, points []db.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.collection = collection
	cp := make([]db.Point, len(points))
	copy(cp, points)
	m.upserts = append(m.upserts, cp)
	return nil
}

func (m *mockStore) points() []db.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []db.Point
	for _, b := range m.upserts {
		all = append(all, b...)
	}
	return all
}

// mockBatchEmbedder returns a vector of dims copies of len(text).
type mockBatchEmbedder struct {
	mu      sync.Mutex
	dims    int
	err     error
	batches [][]string
}

func (m *mockBatchEmbedder) vector(text string) []float32 {
	v := make([]float32, m.dims)
	for i := range v {
		v[i] = float32(len(text))
	}
	return v
}

func (m *mockBatchEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vector(text), TotalTokens: 1}, nil
}

func (m *mockBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.mu.Lock()
	m.batches = append(m.batches, append([]string(nil), texts...))
	m.mu.Unlock()
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return domain.BatchEmbeddingResult{Embeddings: out, TotalTokens: len(texts)}, nil
}

func jsonl(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n"))
}
