// Package llm abstracts the two remote generation providers behind one
// streaming contract. A call produces a finite, forward-only sequence of
// increments in arrival order; a new call starts a fresh stream.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Message is one role-tagged message sent to a provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single generation call. Constructed fresh per call.
type Request struct {
	System   string    // system prompt
	Messages []Message // bounded conversation tail, oldest first
}

// Increment is one element of a generation stream. Exactly one of the
// fields is meaningful: a text delta, the terminal marker, or an error.
// After Done or Err no further increments are delivered.
type Increment struct {
	Delta string
	Done  bool
	Err   error
}

// Client is a streaming generation provider.
type Client interface {
	// Generate opens the stream. A non-success HTTP status or transport
	// failure is returned immediately without entering streaming mode.
	// Otherwise the returned channel yields increments in arrival order
	// and is closed after the terminal or error increment.
	Generate(ctx context.Context, req Request) (<-chan Increment, error)
}

// ErrEmptyResponse reports a stream that ended cleanly without delivering
// any text.
var ErrEmptyResponse = errors.New("empty response from model")

// StatusError is a non-success HTTP response from a provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Code, e.Body)
}

// emit delivers an increment unless the context is already cancelled.
// Reports whether the consumer should keep receiving.
func emit(ctx context.Context, ch chan<- Increment, inc Increment) bool {
	select {
	case ch <- inc:
		return true
	case <-ctx.Done():
		return false
	}
}
