package seed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kailas-cloud/neuralsearch/internal/db"
	"github.com/kailas-cloud/neuralsearch/internal/domain"
)

func newTestService(t *testing.T, store *mockStore, emb domain.Embedder, cfg Config) *Service {
	t.Helper()
	if cfg.Collection == "" {
		cfg.Collection = "startups"
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = 3
	}
	svc, err := New(store, emb, cfg, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return svc
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(&mockStore{}, &mockBatchEmbedder{}, Config{Dimensions: 3}, nil); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("empty collection: expected ErrInvalidConfig, got %v", err)
	}
	if _, err := New(&mockStore{}, &mockBatchEmbedder{}, Config{Collection: "c"}, nil); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("zero dimensions: expected ErrInvalidConfig, got %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	svc := newTestService(t, &mockStore{}, &mockBatchEmbedder{dims: 3}, Config{})
	if svc.cfg.TextField != DefaultTextField {
		t.Errorf("text field = %q", svc.cfg.TextField)
	}
	if svc.cfg.BatchSize != DefaultBatchSize {
		t.Errorf("batch size = %d", svc.cfg.BatchSize)
	}
	if svc.cfg.Distance != db.DistanceCosine {
		t.Errorf("distance = %q", svc.cfg.Distance)
	}
}

func TestPrepare_CreatesMissing(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(t, store, &mockBatchEmbedder{dims: 3}, Config{Dimensions: 384})

	if err := svc.Prepare(context.Background()); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected 1 create, got %d", len(store.created))
	}
	def := store.created[0]
	if def.Name != "startups" || def.Dimensions != 384 || def.Distance != db.DistanceCosine {
		t.Errorf("unexpected definition: %+v", def)
	}
}

func TestPrepare_KeepsExisting(t *testing.T) {
	store := &mockStore{exists: true}
	svc := newTestService(t, store, &mockBatchEmbedder{dims: 3}, Config{})

	if err := svc.Prepare(context.Background()); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if len(store.created) != 0 || len(store.dropped) != 0 {
		t.Errorf("expected no changes, created=%d dropped=%d", len(store.created), len(store.dropped))
	}
}

func TestPrepare_Recreate(t *testing.T) {
	store := &mockStore{exists: true}
	svc := newTestService(t, store, &mockBatchEmbedder{dims: 3}, Config{Recreate: true})

	if err := svc.Prepare(context.Background()); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if len(store.dropped) != 1 || store.dropped[0] != "startups" {
		t.Errorf("expected drop of startups, got %v", store.dropped)
	}
	if len(store.created) != 1 {
		t.Errorf("expected create after drop, got %d", len(store.created))
	}
}

func TestPrepare_RaceOnCreateIsTolerated(t *testing.T) {
	store := &mockStore{createErr: fmt.Errorf("create: %w", db.ErrCollectionExists)}
	svc := newTestService(t, store, &mockBatchEmbedder{dims: 3}, Config{})

	if err := svc.Prepare(context.Background()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestPrepare_Errors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		store *mockStore
		cfg   Config
	}{
		{"exists", &mockStore{existsErr: boom}, Config{}},
		{"drop", &mockStore{exists: true, dropErr: boom}, Config{Recreate: true}},
		{"create", &mockStore{createErr: boom}, Config{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.store, &mockBatchEmbedder{dims: 3}, tt.cfg)
			if err := svc.Prepare(context.Background()); !errors.Is(err, boom) {
				t.Errorf("expected boom, got %v", err)
			}
		})
	}
}

func TestLoad_Batches(t *testing.T) {
	store := &mockStore{}
	emb := &mockBatchEmbedder{dims: 3}
	svc := newTestService(t, store, emb, Config{BatchSize: 2})

	var progressed int
	stats, err := svc.Load(context.Background(), "data/a.jsonl", jsonl(
		`{"text":"one","name":"A"}`,
		`{"text":"two"}`,
		`{"text":"three"}`,
	), func(n int) { progressed += n })
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if stats.Loaded != 3 || stats.Skipped != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if progressed != 3 {
		t.Errorf("progress = %d, want 3", progressed)
	}
	if len(emb.batches) != 2 || len(emb.batches[0]) != 2 || len(emb.batches[1]) != 1 {
		t.Errorf("unexpected batches: %v", emb.batches)
	}
	if store.collection != "startups" {
		t.Errorf("collection = %q", store.collection)
	}

	pts := store.points()
	if len(pts) != 3 {
		t.Fatalf("expected 3 points, got %d", len(pts))
	}
	if pts[0].Payload["name"] != "A" || pts[0].Payload["text"] != "one" {
		t.Errorf("payload = %v", pts[0].Payload)
	}
	if pts[0].ID != PointID("data/a.jsonl", 1) {
		t.Errorf("id = %q", pts[0].ID)
	}
	if pts[2].Vector[0] != float32(len("three")) {
		t.Errorf("vector = %v", pts[2].Vector)
	}
}

func TestLoad_SkipsBadRecords(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(t, store, &mockBatchEmbedder{dims: 3}, Config{})

	stats, err := svc.Load(context.Background(), "f", jsonl(
		`{"text":"ok"}`,
		``,
		`not json`,
		`{"title":"no text"}`,
		`{"text":42}`,
		`{"text":""}`,
		`{"text":"also ok"}`,
	), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stats.Loaded != 2 || stats.Skipped != 4 {
		t.Errorf("stats = %+v, want loaded=2 skipped=4", stats)
	}

	pts := store.points()
	if pts[1].ID != PointID("f", 7) {
		t.Errorf("line numbers must count blank lines, got id %q", pts[1].ID)
	}
}

func TestLoad_CustomTextField(t *testing.T) {
	store := &mockStore{}
	emb := &mockBatchEmbedder{dims: 3}
	svc := newTestService(t, store, emb, Config{TextField: "description"})

	stats, err := svc.Load(context.Background(), "f", jsonl(`{"description":"embed me","text":"not me"}`), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stats.Loaded != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if emb.batches[0][0] != "embed me" {
		t.Errorf("embedded %q", emb.batches[0][0])
	}
}

func TestLoad_EmbedError(t *testing.T) {
	store := &mockStore{}
	emb := &mockBatchEmbedder{dims: 3, err: domain.ErrEmbeddingProviderError}
	svc := newTestService(t, store, emb, Config{})

	_, err := svc.Load(context.Background(), "f", jsonl(`{"text":"x"}`), nil)
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("expected ErrEmbeddingProviderError, got %v", err)
	}
	if len(store.points()) != 0 {
		t.Error("nothing should be upserted")
	}
}

func TestLoad_DimensionMismatch(t *testing.T) {
	svc := newTestService(t, &mockStore{}, &mockBatchEmbedder{dims: 2}, Config{Dimensions: 3})

	_, err := svc.Load(context.Background(), "f", jsonl(`{"text":"x"}`), nil)
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestLoad_UpsertError(t *testing.T) {
	boom := errors.New("boom")
	svc := newTestService(t, &mockStore{upsertErr: boom}, &mockBatchEmbedder{dims: 3}, Config{})

	stats, err := svc.Load(context.Background(), "f", jsonl(`{"text":"x"}`), nil)
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if stats.Loaded != 0 {
		t.Errorf("loaded = %d", stats.Loaded)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	svc := newTestService(t, &mockStore{}, &mockBatchEmbedder{dims: 3}, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Load(ctx, "f", jsonl(`{"text":"x"}`), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPointID_Deterministic(t *testing.T) {
	a := PointID("data/a.jsonl", 1)
	if a != PointID("data/a.jsonl", 1) {
		t.Error("same input must give same id")
	}
	if a == PointID("data/a.jsonl", 2) || a == PointID("data/b.jsonl", 1) {
		t.Error("different input must give different ids")
	}
	if len(a) != 36 {
		t.Errorf("expected uuid string, got %q", a)
	}
}

func TestStats_Add(t *testing.T) {
	s := Stats{Loaded: 1, Skipped: 2}
	s.Add(Stats{Loaded: 3, Skipped: 4})
	if s.Loaded != 4 || s.Skipped != 6 {
		t.Errorf("stats = %+v", s)
	}
}
