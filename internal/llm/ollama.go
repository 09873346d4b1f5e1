package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Ollama /api/generate sampling defaults.
const (
	ollamaTemperature = 0.7
	ollamaTopP        = 0.9
	ollamaNumPredict  = 200
	ollamaNumCtx      = 2048
)

// OllamaClient speaks the completion-style wire format: the request carries
// one concatenated prompt string, the response is newline-delimited JSON
// objects each optionally carrying a .response fragment. There is no
// sentinel; the stream ends with the response body.
type OllamaClient struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

// NewOllamaClient creates a client for an Ollama /api/generate endpoint.
func NewOllamaClient(endpoint, model string) *OllamaClient {
	return &OllamaClient{
		endpoint: endpoint,
		model:    model,
		httpClient: &http.Client{
			Timeout: 0,
		},
	}
}

// ollamaRequest is the JSON body for the generate call.
type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
	NumCtx      int     `json:"num_ctx"`
}

// ollamaChunk is one streamed NDJSON line.
type ollamaChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate implements Client. The message list is flattened into a single
// Human:/Assistant: transcript appended to the system prompt.
func (c *OllamaClient) Generate(ctx context.Context, req Request) (<-chan Increment, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:  c.model,
		Prompt: flattenPrompt(req),
		Stream: true,
		Options: ollamaOptions{
			Temperature: ollamaTemperature,
			TopP:        ollamaTopP,
			NumPredict:  ollamaNumPredict,
			NumCtx:      ollamaNumCtx,
		},
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	ch := make(chan Increment)
	go c.readStream(ctx, resp.Body, ch)
	return ch, nil
}

func (c *OllamaClient) readStream(ctx context.Context, body io.ReadCloser, ch chan<- Increment) {
	defer close(ch)
	defer body.Close()

	var total int
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), maxStreamLine)

	// Scanner also yields a final unterminated line, covering the trailing
	// fragment left in the buffer at end of body.
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var chunk ollamaChunk
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			slog.Warn("skipping malformed generate chunk", "error", err)
			continue
		}
		if chunk.Response != "" {
			total += len(chunk.Response)
			if !emit(ctx, ch, Increment{Delta: chunk.Response}) {
				return
			}
		}
	}

	if err := scanner.Err(); err != nil {
		emit(ctx, ch, Increment{Err: err})
		return
	}
	if total == 0 {
		emit(ctx, ch, Increment{Err: ErrEmptyResponse})
		return
	}
	emit(ctx, ch, Increment{Done: true})
}

// flattenPrompt renders the request as "system\n\nHuman: ...\nAssistant:
// ...\n\nAssistant:" for completion-style models.
func flattenPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString(req.System)
	sb.WriteString("\n\n")
	for _, m := range req.Messages {
		switch m.Role {
		case "user":
			sb.WriteString("Human: " + m.Content + "\n")
		case "assistant":
			sb.WriteString("Assistant: " + m.Content + "\n")
		}
	}
	sb.WriteString("\nAssistant:")
	return sb.String()
}
