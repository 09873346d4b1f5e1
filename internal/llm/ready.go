package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// OllamaRunning reports whether an Ollama daemon answers at baseURL.
func OllamaRunning(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// ollamaModels lists the model names the daemon has available.
func ollamaModels(ctx context.Context, baseURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing models: status %d", resp.StatusCode)
	}
	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("parsing model list: %w", err)
	}
	names := make([]string, len(tags.Models))
	for i, m := range tags.Models {
		names[i] = m.Name
	}
	return names, nil
}

// EnsureOllamaReady verifies the daemon is up and the given models are
// pulled, writing status lines to w. Missing models are reported with the
// pull command to run; a missing model is not fatal since generation
// failures degrade to rule-based answers anyway.
func EnsureOllamaReady(ctx context.Context, baseURL string, models []string, w io.Writer) error {
	if !OllamaRunning(ctx, baseURL) {
		return fmt.Errorf("Ollama is not running at %s. Start it with: ollama serve", baseURL)
	}

	available, err := ollamaModels(ctx, baseURL)
	if err != nil {
		return err
	}

	for _, model := range models {
		if hasModel(available, model) {
			fmt.Fprintf(w, "model %s: ready\n", model)
		} else {
			fmt.Fprintf(w, "model %s: missing. Pull it with: ollama pull %s\n", model, model)
		}
	}
	return nil
}

// hasModel matches names the way Ollama tags them: "llama3.2" matches
// "llama3.2:latest".
func hasModel(available []string, name string) bool {
	for _, a := range available {
		if a == name || strings.TrimSuffix(a, ":latest") == name {
			return true
		}
	}
	return false
}
