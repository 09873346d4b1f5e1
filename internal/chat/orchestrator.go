// Package chat is the response orchestrator: it decides how a user
// utterance is answered (rule-based match or remote generation), drives the
// streaming pipeline, and degrades to a rule-based answer when a remote
// call fails.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/stxaviers/campusbot/internal/composer"
	"github.com/stxaviers/campusbot/internal/knowledge"
	"github.com/stxaviers/campusbot/internal/llm"
	"github.com/stxaviers/campusbot/internal/retrieval"
	"github.com/stxaviers/campusbot/internal/rules"
	"github.com/stxaviers/campusbot/internal/session"
)

// Mode selects how utterances are answered.
type Mode string

const (
	ModeRuleBased Mode = "rule-based"
	ModeGroq      Mode = "groq"
	ModeOllama    Mode = "ollama"
)

const defaultTopK = 3

// Options configures an Orchestrator. KB and Sink are required; Client is
// required for the streaming modes. Retriever is optional. Rand and Sleep
// default to real randomness and time.Sleep, and exist so tests can inject
// deterministic versions.
type Options struct {
	Mode      Mode
	KB        *knowledge.Store
	Sink      Sink
	Client    llm.Client
	Retriever retrieval.Provider
	TopK      int
	Rand      *rand.Rand
	Sleep     func(time.Duration)
}

// Orchestrator routes one chat session. Not safe for use by multiple
// sessions; create one per session.
type Orchestrator struct {
	mode      Mode
	kb        *knowledge.Store
	matcher   *rules.Matcher
	client    llm.Client
	retriever retrieval.Provider
	comp      *composer.Composer
	sink      Sink
	window    *session.Window
	rng       *rand.Rand
	sleep     func(time.Duration)
	topK      int

	// inFlight enforces the one-outstanding-request invariant: the sink
	// and window are not safe for concurrent appends from two overlapping
	// generations.
	inFlight atomic.Bool
}

// New creates an Orchestrator for one chat session.
func New(opts Options) *Orchestrator {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if opts.TopK <= 0 {
		opts.TopK = defaultTopK
	}
	mode := opts.Mode
	if mode != ModeRuleBased && opts.Client == nil {
		slog.Warn("no generation client configured, forcing rule-based mode")
		mode = ModeRuleBased
	}
	return &Orchestrator{
		mode:      mode,
		kb:        opts.KB,
		matcher:   rules.New(opts.KB, opts.Rand),
		client:    opts.Client,
		retriever: opts.Retriever,
		comp:      composer.New(0),
		sink:      opts.Sink,
		window:    session.NewWindow(),
		rng:       opts.Rand,
		sleep:     opts.Sleep,
		topK:      opts.TopK,
	}
}

// Window exposes the conversation log, e.g. for transcript rendering.
func (o *Orchestrator) Window() *session.Window {
	return o.window
}

// Welcome emits the session opening message.
func (o *Orchestrator) Welcome() {
	o.sink.AppendBotMessage("Hello! 👋 I'm the " + o.kb.College.Name + " virtual assistant. I can help you with information about courses, admissions, facilities, and more. How can I assist you today?")
}

// Handle answers one utterance. Empty input is ignored, and a call made
// while a previous one is still outstanding is a no-op: the sink and
// window are left untouched.
func (o *Orchestrator) Handle(ctx context.Context, utterance string) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return
	}
	if !o.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer o.inFlight.Store(false)

	o.sink.AppendUserMessage(utterance)
	o.sink.ShowTypingIndicator()

	if o.mode == ModeRuleBased {
		o.handleRuleBased(utterance)
		return
	}
	o.handleStreaming(ctx, utterance)
}

// handleRuleBased waits a randomized 1.0–2.0s "thinking" delay before
// computing the answer, then records both turns.
func (o *Orchestrator) handleRuleBased(utterance string) {
	o.sleep(time.Second + time.Duration(o.rng.Float64()*float64(time.Second)))
	o.sink.HideTypingIndicator()

	o.window.Append(session.Turn{Role: session.RoleUser, Text: utterance})
	reply := o.matcher.Reply(utterance, o.window)
	o.sink.AppendBotMessage(reply)
	o.window.Append(session.Turn{Role: session.RoleAssistant, Text: reply})
}

func (o *Orchestrator) handleStreaming(ctx context.Context, utterance string) {
	// The user turn is recorded before the call so prompt construction
	// sees it.
	o.window.Append(session.Turn{Role: session.RoleUser, Text: utterance})

	system := o.comp.SystemPrompt(o.kb, o.retrieve(ctx, utterance))
	req := llm.Request{System: system, Messages: o.comp.Messages(o.window)}

	o.sink.HideTypingIndicator()

	ch, err := o.client.Generate(ctx, req)
	if err != nil {
		o.fallback(utterance, err)
		return
	}

	handle := o.sink.BeginStreamingMessage()
	var full strings.Builder

	for inc := range ch {
		switch {
		case inc.Err != nil:
			o.sink.RemoveMessage(handle)
			o.fallback(utterance, inc.Err)
			return
		case inc.Done:
			final := strings.TrimSpace(full.String())
			o.sink.UpdateStreamingMessage(handle, final)
			o.sink.FinalizeStreamingMessage(handle)
			o.window.Append(session.Turn{Role: session.RoleAssistant, Text: final})
			return
		default:
			full.WriteString(inc.Delta)
			o.sink.UpdateStreamingMessage(handle, full.String())
		}
	}

	// The channel closed without a terminal increment: the producer gave
	// up on a cancelled context.
	o.sink.RemoveMessage(handle)
	err = ctx.Err()
	if err == nil {
		err = errors.New("stream interrupted")
	}
	o.fallback(utterance, err)
}

// retrieve asks the optional context provider for supplementary chunks.
// Failures degrade silently to no extra context.
func (o *Orchestrator) retrieve(ctx context.Context, query string) []retrieval.Chunk {
	if o.retriever == nil {
		return nil
	}
	chunks, err := o.retriever.Search(ctx, query, o.topK)
	if err != nil {
		slog.Warn("retrieval unavailable, continuing without context", "error", err)
		return nil
	}
	return chunks
}

// fallback converts a remote-generation failure into a rule-based answer
// with a diagnostic suffix. Only the plain answer (suffix excluded) is
// recorded as the assistant turn.
func (o *Orchestrator) fallback(utterance string, cause error) {
	slog.Warn("generation failed, falling back to rule-based answer", "mode", string(o.mode), "error", cause)

	reply := o.matcher.Reply(utterance, o.window)
	o.sink.AppendBotMessage(reply + o.diagnosticSuffix(cause))
	o.window.Append(session.Turn{Role: session.RoleAssistant, Text: reply})
}

func (o *Orchestrator) diagnosticSuffix(cause error) string {
	var statusErr *llm.StatusError
	switch {
	case errors.As(cause, &statusErr) && statusErr.Code == 401:
		return "\n\n⚠️ Invalid API key. Please check your configured credentials. Using fallback mode."
	case errors.Is(cause, context.DeadlineExceeded):
		return "\n\n⚠️ The model response timed out. Using fallback mode."
	case isTransportError(cause):
		if o.mode == ModeOllama {
			return "\n\n⚠️ Cannot connect to Ollama. Make sure Ollama is running (ollama serve). Using fallback mode."
		}
		return "\n\n⚠️ Cannot connect to the model API. Check your internet connection. Using fallback mode."
	default:
		return fmt.Sprintf("\n\n⚠️ %v. Using fallback mode.", cause)
	}
}

func isTransportError(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
