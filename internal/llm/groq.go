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

const (
	groqMaxTokens   = 300
	groqTemperature = 0.7

	// Generous line buffer: a single SSE data line carries one JSON chunk.
	maxStreamLine = 1 << 20
)

// GroqClient speaks the chat-completions wire format: the request carries a
// message list, the response is a text/event-stream of "data: {...}" lines
// terminated by a "data: [DONE]" sentinel. Deltas live at
// .choices[0].delta.content.
type GroqClient struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGroqClient creates a client for a chat-completions endpoint. The API
// key is supplied by configuration; there is no embedded default.
func NewGroqClient(endpoint, apiKey, model string) *GroqClient {
	return &GroqClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		httpClient: &http.Client{
			Timeout: 0, // streaming; lifetime bounded by the request context
		},
	}
}

// groqRequest is the JSON body for the chat-completions call.
type groqRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// groqChunk is one streamed SSE payload. Only the delta content is read.
type groqChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Generate implements Client.
func (c *GroqClient) Generate(ctx context.Context, req Request) (<-chan Increment, error) {
	messages := make([]Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, Message{Role: "system", Content: req.System})
	}
	messages = append(messages, req.Messages...)

	body, err := json.Marshal(groqRequest{
		Model:       c.model,
		Messages:    messages,
		Stream:      true,
		MaxTokens:   groqMaxTokens,
		Temperature: groqTemperature,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

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

func (c *GroqClient) readStream(ctx context.Context, body io.ReadCloser, ch chan<- Increment) {
	defer close(ch)
	defer body.Close()

	var total int
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), maxStreamLine)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}

		var chunk groqChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			slog.Warn("skipping malformed SSE chunk", "error", err)
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			total += len(delta)
			if !emit(ctx, ch, Increment{Delta: delta}) {
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
