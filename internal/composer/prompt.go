// Package composer assembles generation prompts from the knowledge base,
// optional retrieved context, and the bounded conversation tail.
package composer

import (
	"fmt"
	"strings"

	"github.com/stxaviers/campusbot/internal/knowledge"
	"github.com/stxaviers/campusbot/internal/llm"
	"github.com/stxaviers/campusbot/internal/retrieval"
	"github.com/stxaviers/campusbot/internal/session"
)

const defaultMaxContextTokens = 1000

// HistoryWindow is how many recent turns are visible to prompt
// construction. Older turns are retained for display only.
const HistoryWindow = 6

// Composer builds system prompts and message lists for generation calls.
// MaxContextTokens bounds the retrieved-context section.
type Composer struct {
	MaxContextTokens int
}

// New creates a Composer. If maxContextTokens <= 0 the default is used.
func New(maxContextTokens int) *Composer {
	if maxContextTokens <= 0 {
		maxContextTokens = defaultMaxContextTokens
	}
	return &Composer{MaxContextTokens: maxContextTokens}
}

// SystemPrompt renders the assistant instructions: a compact summary of the
// knowledge base plus, when retrieval produced any, a retrieved-context
// section trimmed to the token budget (lowest-scoring chunks dropped first).
func (c *Composer) SystemPrompt(kb *knowledge.Store, chunks []retrieval.Chunk) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are %s virtual assistant. Be helpful and concise.\n\n", kb.College.Name)
	fmt.Fprintf(&sb, "College: %s, Est. %s, %s\n", kb.College.Name, kb.College.Established, kb.College.Affiliation)
	fmt.Fprintf(&sb, "Location: %s\n", kb.College.Location)
	fmt.Fprintf(&sb, "Contact: %s, %s\n\n", kb.College.Phone, kb.College.Email)

	names := make([]string, len(kb.Courses))
	for i, course := range kb.Courses {
		names[i] = course.Name
	}
	fmt.Fprintf(&sb, "Courses: %s\n\n", strings.Join(names, ", "))

	fmt.Fprintf(&sb, "Admissions %s: apply %s to %s, classes start %s\n\n",
		kb.Admissions.Year, kb.Admissions.ApplicationStart, kb.Admissions.ApplicationDeadline, kb.Admissions.ClassesCommence)

	facilityNames := make([]string, len(kb.Facilities))
	for i, f := range kb.Facilities {
		facilityNames[i] = f.Name
	}
	fmt.Fprintf(&sb, "Facilities: %s\n\n", strings.Join(facilityNames, ", "))

	fmt.Fprintf(&sb, "Stats: %s students, %s faculty, %s placement\n\n",
		kb.Stats.Students, kb.Stats.Faculty, kb.Stats.PlacementRate)

	sb.WriteString("Keep responses brief, friendly, and accurate. Direct users to contact the office for details not provided.")

	if section := c.contextSection(chunks); section != "" {
		sb.WriteString(section)
	}

	return sb.String()
}

// contextSection formats retrieved chunks under a token budget. Chunks
// arrive ordered by descending score; ones that don't fit are skipped.
func (c *Composer) contextSection(chunks []retrieval.Chunk) string {
	if len(chunks) == 0 {
		return ""
	}

	header := "\n\n[Retrieved Context]\n"
	remaining := c.MaxContextTokens - EstimateTokens(header)

	var entries []string
	for _, ch := range chunks {
		entry := fmt.Sprintf("(Score: %.2f, Source: %s)\n%s\n\n", ch.Score, ch.Title, ch.Text)
		tokens := EstimateTokens(entry)
		if tokens > remaining {
			continue
		}
		entries = append(entries, entry)
		remaining -= tokens
	}

	if len(entries) == 0 {
		return ""
	}
	return header + strings.Join(entries, "")
}

// Messages converts the last HistoryWindow turns into provider messages,
// oldest first.
func (c *Composer) Messages(history *session.Window) []llm.Message {
	turns := history.Recent(HistoryWindow)
	msgs := make([]llm.Message, len(turns))
	for i, t := range turns {
		msgs[i] = llm.Message{Role: string(t.Role), Content: t.Text}
	}
	return msgs
}

// EstimateTokens provides a rough token count using the 4 chars per token
// heuristic.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}
