package main

import (
	"context"
	"os"
	"strings"

	"github.com/stxaviers/campusbot/internal/chat"
	"github.com/stxaviers/campusbot/internal/config"
	"github.com/stxaviers/campusbot/internal/knowledge"
	"github.com/stxaviers/campusbot/internal/llm"
	"github.com/stxaviers/campusbot/internal/retrieval"
	"github.com/stxaviers/campusbot/internal/storage"
)

// buildMode maps the configured chat mode to a generation client. A groq
// configuration without an API key degrades to rule-based replies instead
// of failing.
func buildMode(cfg config.Config) (chat.Mode, llm.Client) {
	switch cfg.Mode {
	case config.ModeGroq:
		if cfg.Groq.APIKey == "" {
			printWarning("groq mode configured but no API key found (set GROQ_API_KEY); using rule-based replies")
			return chat.ModeRuleBased, nil
		}
		return chat.ModeGroq, llm.NewGroqClient(cfg.Groq.Endpoint, cfg.Groq.APIKey, cfg.Groq.Model)
	case config.ModeOllama:
		endpoint := strings.TrimRight(cfg.Ollama.BaseURL, "/") + "/api/generate"
		return chat.ModeOllama, llm.NewOllamaClient(endpoint, cfg.Ollama.Model)
	default:
		return chat.ModeRuleBased, nil
	}
}

// buildRetriever picks the corpus backing: a prebuilt embeddings.json file
// when configured, otherwise the SQLite store (which may be empty until
// `campusbot ingest` runs). Returns nil when neither is available.
func buildRetriever(cfg config.Config, store *storage.Store) (retrieval.Provider, error) {
	embedder := retrieval.NewOllamaEmbedder(cfg.Ollama.BaseURL, cfg.Ollama.EmbedModel)
	if cfg.Retrieval.EmbeddingsPath != "" {
		return retrieval.LoadJSONProvider(cfg.Retrieval.EmbeddingsPath, embedder)
	}
	if store == nil {
		return nil, nil
	}
	return retrieval.NewSQLiteProvider(store.DB(), embedder), nil
}

// checkOllama verifies the daemon and models at startup for ollama mode.
// Problems are warnings, not errors: the orchestrator falls back to
// rule-based answers when generation fails.
func checkOllama(ctx context.Context, cfg config.Config, mode chat.Mode) {
	if mode != chat.ModeOllama {
		return
	}
	models := []string{cfg.Ollama.Model, cfg.Ollama.EmbedModel}
	if err := llm.EnsureOllamaReady(ctx, cfg.Ollama.BaseURL, models, os.Stderr); err != nil {
		printWarning("%v (replies will fall back to rule-based answers)", err)
	}
}

func orchestratorFactory(cfg config.Config, mode chat.Mode, client llm.Client, retriever retrieval.Provider) func(chat.Sink) *chat.Orchestrator {
	kb := knowledge.Default()
	return func(sink chat.Sink) *chat.Orchestrator {
		return chat.New(chat.Options{
			Mode:      mode,
			KB:        kb,
			Sink:      sink,
			Client:    client,
			Retriever: retriever,
			TopK:      cfg.Retrieval.TopK,
		})
	}
}
