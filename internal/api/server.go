// Package api exposes the chat core over HTTP (the widget surface) and
// MCP (the tool surface).
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stxaviers/campusbot/internal/retrieval"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Deps holds the handler dependencies. Retriever may be nil when no
// corpus is configured. Token, when non-empty, gates /v1/* behind bearer
// auth.
type Deps struct {
	Sessions  *SessionManager
	Retriever retrieval.Provider
	Token     string
}

// NewHandler returns the widget-facing HTTP API.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)

	r.Route("/v1", func(r chi.Router) {
		if deps.Token != "" {
			r.Use(BearerAuth(deps.Token))
		}
		r.Post("/chat", handleChat(deps))
		r.Get("/search", handleSearch(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// handleChat answers one utterance, streaming the reply to the widget as
// SSE. The session id comes back in the X-Session-Id header so the widget
// can thread follow-up messages.
func handleChat(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Message == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
			return
		}

		sink, err := newSSESink(w)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
			return
		}

		id, orch, release := deps.Sessions.acquire(req.SessionID, sink)
		defer release()

		w.Header().Set("X-Session-Id", id)
		orch.Handle(r.Context(), req.Message)
	}
}

type searchResult struct {
	Title string  `json:"title"`
	Text  string  `json:"text"`
	Score float32 `json:"score"`
}

func handleSearch(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Retriever == nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "no retrieval corpus configured")
			return
		}

		query := r.URL.Query().Get("q")
		if query == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "q is required")
			return
		}

		topK := 5
		if raw := r.URL.Query().Get("k"); raw != "" {
			k, err := strconv.Atoi(raw)
			if err != nil || k <= 0 || k > 50 {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "k must be an integer in [1, 50]")
				return
			}
			topK = k
		}

		chunks, err := deps.Retriever.Search(r.Context(), query, topK)
		if err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "search failed: %v", err)
			return
		}

		results := make([]searchResult, len(chunks))
		for i, c := range chunks {
			results[i] = searchResult{Title: c.Title, Text: c.Text, Score: c.Score}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"results": results})
	}
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
