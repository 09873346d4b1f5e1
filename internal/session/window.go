// Package session holds the per-session conversation log.
package session

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged message in the conversation log. Immutable once
// appended.
type Turn struct {
	Role Role
	Text string
}

// Window is the append-only conversation log for one chat session. The
// underlying log grows without eviction; only the read path truncates, so
// the full history stays available for display while prompt construction
// sees a bounded tail.
type Window struct {
	turns []Turn
}

// NewWindow returns an empty conversation log.
func NewWindow() *Window {
	return &Window{}
}

// Append adds a turn to the end of the log.
func (w *Window) Append(t Turn) {
	w.turns = append(w.turns, t)
}

// Len returns the number of turns in the log.
func (w *Window) Len() int {
	return len(w.turns)
}

// Last returns the most recent turn. ok is false for an empty log.
func (w *Window) Last() (Turn, bool) {
	if len(w.turns) == 0 {
		return Turn{}, false
	}
	return w.turns[len(w.turns)-1], true
}

// Recent returns the last n turns in order, or fewer if the log is shorter.
// The returned slice must not be modified.
func (w *Window) Recent(n int) []Turn {
	if n <= 0 {
		return nil
	}
	if len(w.turns) <= n {
		return w.turns
	}
	return w.turns[len(w.turns)-n:]
}
