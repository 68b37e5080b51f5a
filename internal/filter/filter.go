// Package filter evaluates search and category criteria against in-memory
// record collections. The same evaluator backs every list in the dashboard;
// record types only differ in the fields their Spec exposes.
package filter

import "strings"

// All is the category value that places no constraint on a field.
const All = "all"

type Criteria struct {
	Search     string
	Categories map[string]string
}

// Field extracts a textual field from a record.
type Field[T any] func(T) string

// MatchFunc reports whether a record's field value satisfies the selected
// category value.
type MatchFunc func(value, want string) bool

type Category[T any] struct {
	Value Field[T]
	Match MatchFunc // nil means exact equality
}

// Spec describes which fields of T take part in text search and which can
// be constrained by a category filter.
type Spec[T any] struct {
	Text       []Field[T]
	Categories map[string]Category[T]
}

func Equal(value, want string) bool {
	return value == want
}

func Contains(value, want string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(want))
}

// Matches reports whether rec satisfies the text search and every category
// filter in c. Category keys that s does not declare are ignored.
func (s Spec[T]) Matches(rec T, c Criteria) bool {
	if !s.matchesText(rec, c.Search) {
		return false
	}
	for key, want := range c.Categories {
		if want == "" || want == All {
			continue
		}
		cat, ok := s.Categories[key]
		if !ok {
			continue
		}
		match := cat.Match
		if match == nil {
			match = Equal
		}
		if !match(cat.Value(rec), want) {
			return false
		}
	}
	return true
}

func (s Spec[T]) matchesText(rec T, search string) bool {
	if search == "" {
		return true
	}
	term := strings.ToLower(search)
	for _, f := range s.Text {
		if strings.Contains(strings.ToLower(f(rec)), term) {
			return true
		}
	}
	return false
}

// Apply returns the records that match c, in their original order. The
// input slice is never modified.
func Apply[T any](records []T, spec Spec[T], c Criteria) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if spec.Matches(r, c) {
			out = append(out, r)
		}
	}
	return out
}
