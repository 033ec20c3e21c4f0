package domain

import "testing"

func TestRank_NumbersByPosition(t *testing.T) {
	hits := []Hit{
		{Payload: map[string]any{"title": "b"}, Score: 0.2},
		{Payload: map[string]any{"title": "a"}, Score: 0.9},
		{Payload: map[string]any{"title": "c"}, Score: 0.5},
	}

	items := Rank(hits)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, it := range items {
		if it.ResultNumber != i {
			t.Errorf("item %d: expected result_number %d, got %d", i, i, it.ResultNumber)
		}
		if it.Score != hits[i].Score {
			t.Errorf("item %d: order changed, score %v want %v", i, it.Score, hits[i].Score)
		}
	}
}

func TestRank_Empty(t *testing.T) {
	items := Rank(nil)
	if items == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(items) != 0 {
		t.Errorf("expected 0 items, got %d", len(items))
	}
}

func TestRank_NilPayloadBecomesEmptyObject(t *testing.T) {
	items := Rank([]Hit{{Score: 1}})
	if items[0].Payload == nil {
		t.Error("expected empty payload map, got nil")
	}
}
