package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// JSONProvider serves similarity search over a static corpus of precomputed
// embeddings loaded once from a JSON file. This matches the widget
// deployment shape where the corpus ships as a data file; the vectors are
// immutable for the process lifetime.
type JSONProvider struct {
	embedder Embedder
	chunks   []corpusChunk
	vectors  [][]float32
}

// corpusChunk mirrors one entry of the embeddings file.
type corpusChunk struct {
	Text     string `json:"text"`
	Metadata struct {
		Title string `json:"title"`
	} `json:"metadata"`
}

// embeddingsFile is the on-disk corpus layout: chunks[i] pairs with
// embeddings[i].
type embeddingsFile struct {
	Chunks     []corpusChunk `json:"chunks"`
	Embeddings [][]float32   `json:"embeddings"`
}

// LoadJSONProvider reads the precomputed corpus from path. The query
// embedder must use the same model that produced the stored vectors.
func LoadJSONProvider(path string, embedder Embedder) (*JSONProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading embeddings file: %w", err)
	}

	var file embeddingsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing embeddings file: %w", err)
	}
	if len(file.Chunks) != len(file.Embeddings) {
		return nil, fmt.Errorf("embeddings file mismatch: %d chunks, %d vectors", len(file.Chunks), len(file.Embeddings))
	}

	return &JSONProvider{
		embedder: embedder,
		chunks:   file.Chunks,
		vectors:  file.Embeddings,
	}, nil
}

// Len returns the corpus size.
func (p *JSONProvider) Len() int {
	return len(p.chunks)
}

// Search implements Provider.
func (p *JSONProvider) Search(ctx context.Context, query string, topK int) ([]Chunk, error) {
	queryVec, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	scored := make([]Chunk, len(p.chunks))
	for i, c := range p.chunks {
		scored[i] = Chunk{
			ID:    fmt.Sprintf("chunk-%d", i),
			Title: c.Metadata.Title,
			Text:  c.Text,
			Score: Cosine(queryVec, p.vectors[i]),
		}
	}

	return topKByScore(scored, topK), nil
}
