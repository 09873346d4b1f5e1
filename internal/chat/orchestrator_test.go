package chat

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stxaviers/campusbot/internal/knowledge"
	"github.com/stxaviers/campusbot/internal/llm"
	"github.com/stxaviers/campusbot/internal/retrieval"
	"github.com/stxaviers/campusbot/internal/session"
)

// recordingSink captures every sink operation for assertions.
type recordingSink struct {
	mu          sync.Mutex
	userMsgs    []string
	botMsgs     []string
	updates     []string
	provisional int // open streaming messages (begun, neither finalized nor removed)
	finalized   int
	removed     int
	typing      bool
}

func (s *recordingSink) AppendUserMessage(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userMsgs = append(s.userMsgs, text)
}

func (s *recordingSink) AppendBotMessage(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.botMsgs = append(s.botMsgs, text)
}

func (s *recordingSink) BeginStreamingMessage() MessageHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provisional++
	return "h1"
}

func (s *recordingSink) UpdateStreamingMessage(_ MessageHandle, full string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, full)
}

func (s *recordingSink) FinalizeStreamingMessage(MessageHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provisional--
	s.finalized++
}

func (s *recordingSink) RemoveMessage(MessageHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provisional--
	s.removed++
}

func (s *recordingSink) ShowTypingIndicator() { s.mu.Lock(); s.typing = true; s.mu.Unlock() }
func (s *recordingSink) HideTypingIndicator() { s.mu.Lock(); s.typing = false; s.mu.Unlock() }

// scriptClient replays a fixed increment sequence.
type scriptClient struct {
	incs    []llm.Increment
	callErr error
	gate    chan struct{} // when non-nil, the stream waits on it before replaying

	mu      sync.Mutex
	lastReq llm.Request
	calls   int
}

func (c *scriptClient) Generate(ctx context.Context, req llm.Request) (<-chan llm.Increment, error) {
	c.mu.Lock()
	c.lastReq = req
	c.calls++
	c.mu.Unlock()

	if c.callErr != nil {
		return nil, c.callErr
	}

	ch := make(chan llm.Increment)
	go func() {
		defer close(ch)
		if c.gate != nil {
			<-c.gate
		}
		for _, inc := range c.incs {
			select {
			case ch <- inc:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

func noSleep(time.Duration) {}

func newTestOrchestrator(mode Mode, client llm.Client, sink Sink) *Orchestrator {
	return New(Options{
		Mode:   mode,
		KB:     knowledge.Default(),
		Sink:   sink,
		Client: client,
		Rand:   rand.New(rand.NewSource(1)),
		Sleep:  noSleep,
	})
}

func TestHandle_RuleBased(t *testing.T) {
	sink := &recordingSink{}
	var slept time.Duration
	o := New(Options{
		Mode:  ModeRuleBased,
		KB:    knowledge.Default(),
		Sink:  sink,
		Rand:  rand.New(rand.NewSource(1)),
		Sleep: func(d time.Duration) { slept = d },
	})

	o.Handle(context.Background(), "What courses do you offer?")

	if slept < time.Second || slept > 2*time.Second {
		t.Errorf("thinking delay = %v, want within [1s, 2s]", slept)
	}
	if len(sink.userMsgs) != 1 || sink.userMsgs[0] != "What courses do you offer?" {
		t.Errorf("user messages = %v", sink.userMsgs)
	}
	if len(sink.botMsgs) != 1 || !strings.Contains(sink.botMsgs[0], "undergraduate courses") {
		t.Errorf("bot messages = %v", sink.botMsgs)
	}
	if sink.typing {
		t.Error("typing indicator still visible")
	}

	if o.Window().Len() != 2 {
		t.Fatalf("window has %d turns, want 2", o.Window().Len())
	}
	last, _ := o.Window().Last()
	if last.Role != session.RoleAssistant || last.Text != sink.botMsgs[0] {
		t.Errorf("last turn = %+v", last)
	}
}

func TestHandle_StreamingRoundTrip(t *testing.T) {
	sink := &recordingSink{}
	client := &scriptClient{incs: []llm.Increment{
		{Delta: "Hel"}, {Delta: "lo, "}, {Delta: "world"}, {Done: true},
	}}
	o := newTestOrchestrator(ModeGroq, client, sink)

	o.Handle(context.Background(), "say hello")

	// One sink update per increment plus the final trimmed rewrite.
	want := []string{"Hel", "Hello, ", "Hello, world", "Hello, world"}
	if len(sink.updates) != len(want) {
		t.Fatalf("got %d updates, want %d: %v", len(sink.updates), len(want), sink.updates)
	}
	for i, w := range want {
		if sink.updates[i] != w {
			t.Errorf("update[%d] = %q, want %q", i, sink.updates[i], w)
		}
	}

	if sink.finalized != 1 || sink.provisional != 0 {
		t.Errorf("finalized = %d, provisional = %d", sink.finalized, sink.provisional)
	}

	var assistants []string
	for _, turn := range o.Window().Recent(o.Window().Len()) {
		if turn.Role == session.RoleAssistant {
			assistants = append(assistants, turn.Text)
		}
	}
	if len(assistants) != 1 || assistants[0] != "Hello, world" {
		t.Errorf("assistant turns = %v, want exactly [Hello, world]", assistants)
	}

	// The user turn must have been visible to prompt construction.
	if len(client.lastReq.Messages) == 0 ||
		client.lastReq.Messages[len(client.lastReq.Messages)-1].Content != "say hello" {
		t.Errorf("request messages = %v", client.lastReq.Messages)
	}
	if !strings.Contains(client.lastReq.System, "St. Xavier's College") {
		t.Error("system prompt missing knowledge summary")
	}
}

func TestHandle_FallbackOnImmediateStatusError(t *testing.T) {
	sink := &recordingSink{}
	client := &scriptClient{callErr: &llm.StatusError{Code: 401, Body: "unauthorized"}}
	o := newTestOrchestrator(ModeGroq, client, sink)

	o.Handle(context.Background(), "What courses do you offer?")

	if len(sink.botMsgs) != 1 {
		t.Fatalf("bot messages = %v", sink.botMsgs)
	}
	if !strings.Contains(sink.botMsgs[0], "Invalid API key") {
		t.Errorf("diagnostic suffix missing auth hint: %q", sink.botMsgs[0])
	}
	if !strings.Contains(sink.botMsgs[0], "undergraduate courses") {
		t.Errorf("fallback answer missing: %q", sink.botMsgs[0])
	}

	// The recorded turn excludes the diagnostic suffix.
	last, _ := o.Window().Last()
	if strings.Contains(last.Text, "⚠️") {
		t.Errorf("assistant turn contains diagnostic suffix: %q", last.Text)
	}
	if !strings.Contains(sink.botMsgs[0], last.Text) {
		t.Errorf("turn text %q not a prefix of emitted message", last.Text)
	}
	if sink.provisional != 0 {
		t.Errorf("provisional = %d, want 0", sink.provisional)
	}
}

func TestHandle_FallbackCleanupAfterPartialStream(t *testing.T) {
	cases := []struct {
		name string
		incs []llm.Increment
	}{
		{"zero increments", []llm.Increment{{Err: errors.New("boom")}}},
		{"one increment", []llm.Increment{{Delta: "par"}, {Err: errors.New("boom")}}},
		{"several increments", []llm.Increment{{Delta: "a"}, {Delta: "b"}, {Delta: "c"}, {Err: errors.New("boom")}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sink := &recordingSink{}
			client := &scriptClient{incs: tc.incs}
			o := newTestOrchestrator(ModeOllama, client, sink)

			o.Handle(context.Background(), "hello there")

			if sink.provisional != 0 {
				t.Errorf("provisional = %d, want 0", sink.provisional)
			}
			if sink.removed != 1 {
				t.Errorf("removed = %d, want 1", sink.removed)
			}
			if len(sink.botMsgs) != 1 || !strings.Contains(sink.botMsgs[0], "Using fallback mode") {
				t.Errorf("bot messages = %v", sink.botMsgs)
			}

			// The in-flight flag must be clear: a follow-up call works.
			o.Handle(context.Background(), "and again")
			if len(sink.userMsgs) != 2 {
				t.Errorf("follow-up call was rejected; user messages = %v", sink.userMsgs)
			}
		})
	}
}

func TestHandle_EmptyResponseFallsBack(t *testing.T) {
	sink := &recordingSink{}
	client := &scriptClient{incs: []llm.Increment{{Err: llm.ErrEmptyResponse}}}
	o := newTestOrchestrator(ModeGroq, client, sink)

	o.Handle(context.Background(), "hi there")

	if len(sink.botMsgs) != 1 || !strings.Contains(sink.botMsgs[0], "Using fallback mode") {
		t.Errorf("bot messages = %v", sink.botMsgs)
	}
}

func TestHandle_RejectsOverlappingCall(t *testing.T) {
	sink := &recordingSink{}
	gate := make(chan struct{})
	client := &scriptClient{
		incs: []llm.Increment{{Delta: "x"}, {Done: true}},
		gate: gate,
	}
	o := newTestOrchestrator(ModeGroq, client, sink)

	done := make(chan struct{})
	go func() {
		o.Handle(context.Background(), "first")
		close(done)
	}()

	// Wait until the first call is past its in-flight acquisition.
	for {
		sink.mu.Lock()
		n := len(sink.userMsgs)
		sink.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	o.Handle(context.Background(), "second") // must be a no-op

	sink.mu.Lock()
	users := len(sink.userMsgs)
	sink.mu.Unlock()
	if users != 1 {
		t.Errorf("overlapping call touched the sink: %d user messages", users)
	}

	close(gate)
	<-done

	if got := o.Window().Len(); got != 2 {
		t.Errorf("window has %d turns, want 2 (second call must not append)", got)
	}
}

func TestHandle_RetrievalFailureDegradesSilently(t *testing.T) {
	sink := &recordingSink{}
	client := &scriptClient{incs: []llm.Increment{{Delta: "answer"}, {Done: true}}}

	o := New(Options{
		Mode:      ModeGroq,
		KB:        knowledge.Default(),
		Sink:      sink,
		Client:    client,
		Retriever: failingProvider{},
		Rand:      rand.New(rand.NewSource(1)),
		Sleep:     noSleep,
	})

	o.Handle(context.Background(), "when do admissions open?")

	if sink.finalized != 1 {
		t.Errorf("finalized = %d, want 1 (retrieval failure must not abort generation)", sink.finalized)
	}
	if strings.Contains(client.lastReq.System, "[Retrieved Context]") {
		t.Error("system prompt contains context despite retrieval failure")
	}
}

func TestHandle_RetrievalContextInPrompt(t *testing.T) {
	sink := &recordingSink{}
	client := &scriptClient{incs: []llm.Increment{{Delta: "answer"}, {Done: true}}}

	o := New(Options{
		Mode:   ModeGroq,
		KB:     knowledge.Default(),
		Sink:   sink,
		Client: client,
		Retriever: staticProvider{chunks: []retrieval.Chunk{
			{Title: "Admissions", Text: "Merit lists release July 15.", Score: 0.9},
		}},
		Rand:  rand.New(rand.NewSource(1)),
		Sleep: noSleep,
	})

	o.Handle(context.Background(), "when do admissions open?")

	if !strings.Contains(client.lastReq.System, "Merit lists release July 15.") {
		t.Error("retrieved chunk missing from system prompt")
	}
}

func TestHandle_EmptyUtteranceIgnored(t *testing.T) {
	sink := &recordingSink{}
	o := newTestOrchestrator(ModeRuleBased, nil, sink)

	o.Handle(context.Background(), "   ")

	if len(sink.userMsgs) != 0 || o.Window().Len() != 0 {
		t.Error("empty utterance must not touch sink or window")
	}
}

func TestNew_MissingClientForcesRuleBased(t *testing.T) {
	sink := &recordingSink{}
	o := newTestOrchestrator(ModeGroq, nil, sink)

	if o.mode != ModeRuleBased {
		t.Errorf("mode = %q, want rule-based when no client is configured", o.mode)
	}
}

type failingProvider struct{}

func (failingProvider) Search(context.Context, string, int) ([]retrieval.Chunk, error) {
	return nil, errors.New("provider not initialized")
}

type staticProvider struct {
	chunks []retrieval.Chunk
}

func (p staticProvider) Search(context.Context, string, int) ([]retrieval.Chunk, error) {
	return p.chunks, nil
}
