package retrieval

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const testCorpus = `{
  "chunks": [
    {"text": "Admission dates for 2025-26", "metadata": {"title": "Admissions"}},
    {"text": "The library holds 100,000 books", "metadata": {"title": "Library"}},
    {"text": "Placement rate is 95%", "metadata": {"title": "Placements"}}
  ],
  "embeddings": [
    [1, 0, 0],
    [0, 1, 0],
    [0, 0, 1]
  ]
}`

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "embeddings.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing corpus: %v", err)
	}
	return path
}

func TestLoadJSONProvider(t *testing.T) {
	p, err := LoadJSONProvider(writeCorpus(t, testCorpus), fixedEmbedder([]float32{1, 0, 0}))
	if err != nil {
		t.Fatalf("LoadJSONProvider: %v", err)
	}
	if p.Len() != 3 {
		t.Errorf("corpus size = %d, want 3", p.Len())
	}
}

func TestLoadJSONProvider_Mismatch(t *testing.T) {
	bad := `{"chunks": [{"text": "a", "metadata": {"title": "t"}}], "embeddings": []}`
	if _, err := LoadJSONProvider(writeCorpus(t, bad), nil); err == nil {
		t.Fatal("expected error for chunk/vector count mismatch")
	}
}

func TestJSONProvider_Search(t *testing.T) {
	// Query vector is closest to the second chunk, then equidistant from
	// the others.
	p, err := LoadJSONProvider(writeCorpus(t, testCorpus), fixedEmbedder([]float32{0.1, 1, 0.1}))
	if err != nil {
		t.Fatalf("LoadJSONProvider: %v", err)
	}

	got, err := p.Search(context.Background(), "library books", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2", len(got))
	}
	if got[0].Title != "Library" {
		t.Errorf("top chunk = %q, want Library", got[0].Title)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("scores not descending: %f then %f", got[0].Score, got[1].Score)
	}
	// Equidistant chunks keep corpus order: Admissions before Placements.
	if got[1].Title != "Admissions" {
		t.Errorf("second chunk = %q, want Admissions (stable tie order)", got[1].Title)
	}
}
