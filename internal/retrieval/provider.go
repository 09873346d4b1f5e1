// Package retrieval finds knowledge-base passages relevant to a user query
// by embedding-based nearest-neighbor search. It is an optional collaborator
// of the chat orchestrator: when unavailable, prompts are simply built
// without supplementary context.
package retrieval

import (
	"context"
	"math"
)

// Chunk is one retrieved passage with its similarity score.
type Chunk struct {
	ID    string
	Title string
	Text  string
	Score float32
}

// Provider is a semantic search backend.
type Provider interface {
	// Search returns the top-K chunks most similar to the query, ordered
	// by descending score. Ties keep their original corpus order.
	Search(ctx context.Context, query string, topK int) ([]Chunk, error)
}

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Cosine computes the cosine similarity of two vectors: the dot product
// over the product of the Euclidean norms. If either vector has zero norm
// the result is 0 rather than a division by zero. Mismatched lengths score 0.
func Cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// topKByScore stable-sorts scored chunks by descending score and truncates
// to k. Insertion sort keeps equal-score chunks in corpus order.
func topKByScore(chunks []Chunk, k int) []Chunk {
	for i := 1; i < len(chunks); i++ {
		for j := i; j > 0 && chunks[j].Score > chunks[j-1].Score; j-- {
			chunks[j], chunks[j-1] = chunks[j-1], chunks[j]
		}
	}
	if k > 0 && len(chunks) > k {
		chunks = chunks[:k]
	}
	return chunks
}
