// Package rules implements the keyword-driven answer matcher used in
// rule-based mode and as the fallback when remote generation fails.
package rules

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/stxaviers/campusbot/internal/knowledge"
	"github.com/stxaviers/campusbot/internal/session"
)

// Matcher maps a user utterance to a canned answer using ordered matching
// tiers over the knowledge base. Matching is case-insensitive substring
// containment, and the first tier that hits wins. The rand source is
// injected so tests can seed it.
type Matcher struct {
	kb  *knowledge.Store
	rng *rand.Rand
}

// New creates a Matcher over the given knowledge base.
func New(kb *knowledge.Store, rng *rand.Rand) *Matcher {
	return &Matcher{kb: kb, rng: rng}
}

// Reply returns an answer for the utterance. It never fails: if no tier
// matches it falls back to one of three canned suggestion texts.
//
// Tier order: course detail, FAQ category (declared priority order),
// facility, statistics, context-aware continuation, literal yes/no,
// default suggestions.
func (m *Matcher) Reply(utterance string, history *session.Window) string {
	lower := strings.ToLower(utterance)

	if course, ok := m.kb.FindCourse(lower); ok {
		return courseDetail(course)
	}

	if cat, ok := m.kb.FindFAQ(lower); ok {
		return cat.Answer.Pick(m.rng)
	}

	if fac, ok := m.kb.FindFacility(lower); ok {
		return fac.Name + ": " + fac.Description + "\n\nWould you like to know about other facilities?"
	}

	if strings.Contains(lower, "student") && strings.Contains(lower, "how many") {
		return fmt.Sprintf("We have %s students enrolled across various undergraduate programs.", m.kb.Stats.Students)
	}
	if strings.Contains(lower, "faculty") && (strings.Contains(lower, "how many") || strings.Contains(lower, "teacher")) {
		return fmt.Sprintf("Our college has %s experienced faculty members dedicated to quality education.", m.kb.Stats.Faculty)
	}

	if reply, ok := m.contextualReply(lower, history); ok {
		return reply
	}

	switch lower {
	case "yes", "yeah", "sure":
		return "Great! What specific information would you like to know? I can help with courses, admissions, facilities, placements, or contact details."
	case "no", "nope":
		return "No problem! Is there anything else I can help you with?"
	}

	return m.defaultReply()
}

// contextualReply handles short follow-ups ("yes", "more", "criteria")
// whose meaning depends on what the assistant said last. Only consulted
// once the conversation has more than two turns.
func (m *Matcher) contextualReply(lower string, history *session.Window) (string, bool) {
	if history == nil || history.Len() <= 2 {
		return "", false
	}

	last, ok := lastAssistantTurn(history)
	if !ok {
		return "", false
	}
	lastLower := strings.ToLower(last.Text)

	if strings.Contains(lastLower, "course") && (strings.Contains(lower, "yes") || strings.Contains(lower, "more")) {
		if cat, ok := m.kb.Category("courses"); ok {
			return cat.Answer.Canonical(), true
		}
	}

	if strings.Contains(lastLower, "admission") && (strings.Contains(lower, "eligibility") || strings.Contains(lower, "criteria")) {
		if cat, ok := m.kb.Category("eligibility"); ok {
			return cat.Answer.Canonical(), true
		}
	}

	return "", false
}

func lastAssistantTurn(history *session.Window) (session.Turn, bool) {
	turns := history.Recent(history.Len())
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == session.RoleAssistant {
			return turns[i], true
		}
	}
	return session.Turn{}, false
}

func courseDetail(c knowledge.Course) string {
	return fmt.Sprintf("📚 %s\n\n⏱️ Duration: %s\n🪑 Seats: %d\n✅ Eligibility: %s\n\n%s\n\nWould you like to know more about admissions or other courses?",
		c.Name, c.Duration, c.Seats, c.Eligibility, c.Description)
}

var defaultReplies = []string{
	"I'm not sure about that specific question. Here are some topics I can help with:\n\n• Courses and Programs\n• Admissions Process\n• Fees Structure\n• Facilities\n• Placements\n• Contact Information\n\nWhat would you like to know?",
	"I don't have specific information about that. However, I can help you with:\n\n• Course details and eligibility\n• Admission dates and process\n• College facilities\n• Placement statistics\n• Contact details\n\nHow can I assist you?",
	"That's a great question! While I don't have that exact information, I can help you with courses, admissions, facilities, and more. You can also contact our office directly:\n\n📞 +91-11-2397-XXXX\n📧 info@stxaviers.edu.in\n\nWhat else would you like to know?",
}

func (m *Matcher) defaultReply() string {
	return defaultReplies[m.rng.Intn(len(defaultReplies))]
}
