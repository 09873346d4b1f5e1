package chat

// MessageHandle identifies a provisional streaming message in a Sink.
type MessageHandle string

// Sink is the rendering target the orchestrator writes finalized and
// in-progress messages into. Implementations own presentation concerns;
// in particular, HTML escaping of user text happens at the sink boundary,
// not in the core.
type Sink interface {
	AppendUserMessage(text string)
	AppendBotMessage(text string)

	// BeginStreamingMessage creates a provisional message that
	// UpdateStreamingMessage rewrites in place as increments arrive.
	// FinalizeStreamingMessage drops its in-progress identity so later
	// operations cannot retarget it; RemoveMessage deletes it entirely.
	BeginStreamingMessage() MessageHandle
	UpdateStreamingMessage(h MessageHandle, fullTextSoFar string)
	FinalizeStreamingMessage(h MessageHandle)
	RemoveMessage(h MessageHandle)

	ShowTypingIndicator()
	HideTypingIndicator()
}
