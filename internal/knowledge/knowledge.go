// Package knowledge holds the static college knowledge base: institution
// facts, course records, facilities, statistics, and keyword-matched FAQ
// categories. The data is loaded once at startup and never mutated.
package knowledge

import (
	"math/rand"
	"strings"
)

// College holds general institution facts.
type College struct {
	Name            string
	Established     string
	Affiliation     string
	Accreditation   string
	Location        string
	Phone           string
	Email           string
	AdmissionsEmail string
}

// Course is one undergraduate course record.
type Course struct {
	Name        string
	Duration    string
	Seats       int
	Description string
	Eligibility string
}

// Admissions holds the admission cycle dates and process steps.
type Admissions struct {
	Year                string
	ApplicationStart    string
	ApplicationDeadline string
	MeritListRelease    string
	ClassesCommence     string
	Process             []string
	GeneralEligibility  string
}

// Facility is one campus facility record.
type Facility struct {
	Name        string
	Description string
}

// Stats holds headline college statistics.
type Stats struct {
	Students          string
	Faculty           string
	YearsOfExcellence string
	PlacementRate     string
}

// OfficeHours holds the office schedule.
type OfficeHours struct {
	Weekdays string
	Saturday string
	Sunday   string
}

// Response is the answer set of a FAQ category: either a single fixed text
// or a choice between several candidates, one picked uniformly at random.
type Response struct {
	single  string
	choices []string
}

// Single returns a Response with one fixed text.
func Single(text string) Response {
	return Response{single: text}
}

// Choice returns a Response that picks among the given candidates.
func Choice(texts ...string) Response {
	return Response{choices: texts}
}

// Pick returns the response text, choosing at random only for Choice values.
func (r Response) Pick(rng *rand.Rand) string {
	if len(r.choices) == 0 {
		return r.single
	}
	return r.choices[rng.Intn(len(r.choices))]
}

// Canonical returns the fixed text for Single values and the first
// candidate for Choice values. Used by the context-aware matching tier,
// which must be deterministic.
func (r Response) Canonical() string {
	if len(r.choices) == 0 {
		return r.single
	}
	return r.choices[0]
}

// Contains reports whether text is a member of the response set.
func (r Response) Contains(text string) bool {
	if len(r.choices) == 0 {
		return r.single == text
	}
	for _, c := range r.choices {
		if c == text {
			return true
		}
	}
	return false
}

// FAQCategory is one keyword-triggered FAQ entry. Keyword matching is
// case-insensitive substring containment.
type FAQCategory struct {
	Name     string
	Keywords []string
	Answer   Response
}

// Matches reports whether any keyword is a substring of the lower-cased utterance.
func (c FAQCategory) Matches(lower string) bool {
	for _, kw := range c.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Store is the read-only knowledge base consulted by the rule matcher and
// the prompt composer. FAQ order is significant: the first matching
// category wins, so priority is an explicit ordered slice rather than a map.
type Store struct {
	College     College
	Courses     []Course
	Admissions  Admissions
	Facilities  []Facility
	Stats       Stats
	OfficeHours OfficeHours
	FAQ         []FAQCategory
}

// FindCourse returns the first course whose full name, or whose name prefix
// before the parenthesised part, is a substring of the lower-cased utterance.
func (s *Store) FindCourse(lower string) (Course, bool) {
	for _, c := range s.Courses {
		full := strings.ToLower(c.Name)
		prefix := strings.TrimSpace(strings.SplitN(full, "(", 2)[0])
		if strings.Contains(lower, full) || strings.Contains(lower, prefix) {
			return c, true
		}
	}
	return Course{}, false
}

// FindFAQ returns the first FAQ category, in declared priority order, with a
// keyword contained in the lower-cased utterance.
func (s *Store) FindFAQ(lower string) (FAQCategory, bool) {
	for _, c := range s.FAQ {
		if c.Matches(lower) {
			return c, true
		}
	}
	return FAQCategory{}, false
}

// FindFacility returns the first facility whose name is a substring of the
// lower-cased utterance.
func (s *Store) FindFacility(lower string) (Facility, bool) {
	for _, f := range s.Facilities {
		if strings.Contains(lower, strings.ToLower(f.Name)) {
			return f, true
		}
	}
	return Facility{}, false
}

// Category returns the FAQ category with the given name.
func (s *Store) Category(name string) (FAQCategory, bool) {
	for _, c := range s.FAQ {
		if c.Name == name {
			return c, true
		}
	}
	return FAQCategory{}, false
}
