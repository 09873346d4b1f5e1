package retrieval

import (
	"context"
	"math"
	"testing"
)

// embedFunc adapts a function to the Embedder interface for tests.
type embedFunc func(ctx context.Context, text string) ([]float32, error)

func (f embedFunc) Embed(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}

func fixedEmbedder(vec []float32) Embedder {
	return embedFunc(func(context.Context, string) ([]float32, error) {
		return vec, nil
	})
}

func TestCosine_Identical(t *testing.T) {
	v := []float32{1, 2, 3}
	got := Cosine(v, v)
	if math.Abs(float64(got)-1) > 1e-6 {
		t.Errorf("Cosine(v, v) = %f, want 1", got)
	}
}

func TestCosine_Orthogonal(t *testing.T) {
	got := Cosine([]float32{1, 0}, []float32{0, 1})
	if got != 0 {
		t.Errorf("Cosine(orthogonal) = %f, want 0", got)
	}
}

func TestCosine_ZeroVector(t *testing.T) {
	// A zero-norm vector must score 0, never divide by zero.
	got := Cosine([]float32{0, 0, 0}, []float32{1, 2, 3})
	if got != 0 {
		t.Errorf("Cosine(zero, v) = %f, want 0", got)
	}
	got = Cosine([]float32{1, 2, 3}, []float32{0, 0, 0})
	if got != 0 {
		t.Errorf("Cosine(v, zero) = %f, want 0", got)
	}
}

func TestCosine_MismatchedLengths(t *testing.T) {
	if got := Cosine([]float32{1, 2}, []float32{1, 2, 3}); got != 0 {
		t.Errorf("Cosine(mismatched) = %f, want 0", got)
	}
}

func TestTopKByScore_OrderAndTruncate(t *testing.T) {
	chunks := []Chunk{
		{ID: "a", Score: 0.2},
		{ID: "b", Score: 0.9},
		{ID: "c", Score: 0.5},
	}
	got := topKByScore(chunks, 2)
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "c" {
		t.Errorf("order = [%s %s], want [b c]", got[0].ID, got[1].ID)
	}
}

func TestTopKByScore_StableOnTies(t *testing.T) {
	chunks := []Chunk{
		{ID: "first", Score: 0.5},
		{ID: "second", Score: 0.5},
		{ID: "third", Score: 0.5},
	}
	got := topKByScore(chunks, 3)
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if got[i].ID != w {
			t.Errorf("tie order[%d] = %s, want %s", i, got[i].ID, w)
		}
	}
}
