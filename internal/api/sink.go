package api

import (
	"fmt"
	"html"
	"net/http"
	"strings"
	"sync"

	"github.com/stxaviers/campusbot/internal/chat"
)

// sseSink streams one chat exchange to the widget as server-sent events:
// `delta` events carry text fragments, `done` carries the final full text,
// `error` carries a failure notice. Text is HTML-escaped here, at the
// boundary where it meets the browser.
type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
	prev    string
}

func newSSESink(w http.ResponseWriter) (*sseSink, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	return &sseSink{w: w, flusher: flusher}, nil
}

func (s *sseSink) event(name, data string) {
	// SSE data may not contain raw newlines; split into data: lines.
	fmt.Fprintf(s.w, "event: %s\n", name)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(s.w, "data: %s\n", line)
	}
	fmt.Fprint(s.w, "\n")
	s.flusher.Flush()
}

func (s *sseSink) AppendUserMessage(string) {}

func (s *sseSink) AppendBotMessage(text string) {
	s.event("done", html.EscapeString(text))
}

func (s *sseSink) BeginStreamingMessage() chat.MessageHandle {
	s.prev = ""
	return "sse"
}

func (s *sseSink) UpdateStreamingMessage(_ chat.MessageHandle, full string) {
	if delta := strings.TrimPrefix(full, s.prev); delta != "" {
		s.event("delta", html.EscapeString(delta))
	}
	s.prev = full
}

func (s *sseSink) FinalizeStreamingMessage(chat.MessageHandle) {
	s.event("done", html.EscapeString(s.prev))
}

func (s *sseSink) RemoveMessage(chat.MessageHandle) {
	s.event("error", "generation interrupted")
}

func (s *sseSink) ShowTypingIndicator() {}
func (s *sseSink) HideTypingIndicator() {}

// swappableSink lets a long-lived per-session orchestrator write to the
// sink of whichever HTTP request is currently being served. With no
// request attached, output is dropped.
type swappableSink struct {
	mu      sync.Mutex
	current chat.Sink
}

func (s *swappableSink) swap(sink chat.Sink) {
	s.mu.Lock()
	s.current = sink
	s.mu.Unlock()
}

func (s *swappableSink) get() chat.Sink {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *swappableSink) AppendUserMessage(text string) {
	if c := s.get(); c != nil {
		c.AppendUserMessage(text)
	}
}

func (s *swappableSink) AppendBotMessage(text string) {
	if c := s.get(); c != nil {
		c.AppendBotMessage(text)
	}
}

func (s *swappableSink) BeginStreamingMessage() chat.MessageHandle {
	if c := s.get(); c != nil {
		return c.BeginStreamingMessage()
	}
	return ""
}

func (s *swappableSink) UpdateStreamingMessage(h chat.MessageHandle, full string) {
	if c := s.get(); c != nil {
		c.UpdateStreamingMessage(h, full)
	}
}

func (s *swappableSink) FinalizeStreamingMessage(h chat.MessageHandle) {
	if c := s.get(); c != nil {
		c.FinalizeStreamingMessage(h)
	}
}

func (s *swappableSink) RemoveMessage(h chat.MessageHandle) {
	if c := s.get(); c != nil {
		c.RemoveMessage(h)
	}
}

func (s *swappableSink) ShowTypingIndicator() {
	if c := s.get(); c != nil {
		c.ShowTypingIndicator()
	}
}

func (s *swappableSink) HideTypingIndicator() {
	if c := s.get(); c != nil {
		c.HideTypingIndicator()
	}
}
