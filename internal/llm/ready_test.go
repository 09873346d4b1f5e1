package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestEnsureOllamaReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"models":[{"name":"llama3.2:latest"},{"name":"nomic-embed-text:latest"}]}`))
	}))
	defer srv.Close()

	var out strings.Builder
	err := EnsureOllamaReady(context.Background(), srv.URL, []string{"llama3.2", "mistral"}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "model llama3.2: ready") {
		t.Errorf("output = %q, want llama3.2 ready", got)
	}
	if !strings.Contains(got, "ollama pull mistral") {
		t.Errorf("output = %q, want pull hint for mistral", got)
	}
}

func TestEnsureOllamaReady_DaemonDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // port now refuses connections

	var out strings.Builder
	err := EnsureOllamaReady(context.Background(), srv.URL, []string{"llama3.2"}, &out)
	if err == nil || !strings.Contains(err.Error(), "ollama serve") {
		t.Fatalf("err = %v, want unreachable-daemon error", err)
	}
}
