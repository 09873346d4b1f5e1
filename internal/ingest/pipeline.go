// Package ingest builds the retrieval corpus: it pulls text out of local
// files (plain text, HTML, PDF) and college web pages, chunks it, embeds
// the chunks, and writes them to the vector store.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/stxaviers/campusbot/internal/retrieval"
)

// Inserter is the vector-store surface the pipeline writes to.
type Inserter interface {
	Insert(records []retrieval.Record) error
	DeleteSource(source string) error
}

// Pipeline ingests sources one at a time. Re-ingesting a source replaces
// its previous chunks.
type Pipeline struct {
	store    Inserter
	embedder retrieval.Embedder
	client   *http.Client

	ChunkWords   int
	OverlapWords int
}

func New(store Inserter, embedder retrieval.Embedder) *Pipeline {
	return &Pipeline{
		store:        store,
		embedder:     embedder,
		client:       &http.Client{Timeout: 30 * time.Second},
		ChunkWords:   defaultChunkWords,
		OverlapWords: defaultOverlapWords,
	}
}

// IngestFile ingests a local text, HTML, or PDF file. It returns the
// number of chunks stored.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (int, error) {
	title, text, err := extractFile(path)
	if err != nil {
		return 0, fmt.Errorf("extracting %s: %w", path, err)
	}
	return p.ingest(ctx, path, title, text)
}

// IngestURL fetches a single page and ingests its visible text.
func (p *Pipeline) IngestURL(ctx context.Context, pageURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode)
	}

	title, text, err := extractHTML(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("extracting %s: %w", pageURL, err)
	}
	if title == "" {
		title = pageURL
	}
	return p.ingest(ctx, pageURL, title, text)
}

// IngestSitemap fetches a sitemap.xml and ingests every content page it
// lists. Pages that fail are logged and skipped; the total chunk count of
// the pages that succeeded is returned.
func (p *Pipeline) IngestSitemap(ctx context.Context, sitemapURL string) (int, error) {
	urls, err := fetchSitemap(ctx, p.client, sitemapURL)
	if err != nil {
		return 0, err
	}
	slog.Info("sitemap fetched", "url", sitemapURL, "pages", len(urls))

	total := 0
	for _, u := range urls {
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
		n, err := p.IngestURL(ctx, u)
		if err != nil {
			slog.Warn("page skipped", "url", u, "error", err)
			continue
		}
		total += n
	}
	return total, nil
}

func (p *Pipeline) ingest(ctx context.Context, source, title, text string) (int, error) {
	chunks := chunkWords(text, p.ChunkWords, p.OverlapWords)
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, err := retrieval.EmbedBatch(ctx, p.embedder, chunks)
	if err != nil {
		return 0, fmt.Errorf("embedding %s: %w", source, err)
	}

	now := time.Now().UTC()
	records := make([]retrieval.Record, len(chunks))
	for i, c := range chunks {
		records[i] = retrieval.Record{
			ID:        uuid.New().String(),
			Source:    source,
			Title:     title,
			Text:      c,
			Embedding: vectors[i],
			CreatedAt: now,
		}
	}

	if err := p.store.DeleteSource(source); err != nil {
		return 0, fmt.Errorf("clearing previous chunks for %s: %w", source, err)
	}
	if err := p.store.Insert(records); err != nil {
		return 0, fmt.Errorf("storing chunks for %s: %w", source, err)
	}

	slog.Info("source ingested", "source", source, "title", title, "chunks", len(records))
	return len(records), nil
}
