package model

import "strings"

// AnswerSet maps question IDs to raw answer values.
// Treat it as immutable once handed to the engine: use With to derive revisions.
type AnswerSet map[string]string

// Get returns the answer for id, or "" when missing
func (a AnswerSet) Get(id string) string {
	if a == nil {
		return ""
	}
	return a[id]
}

// Has reports whether id has a non-empty answer
func (a AnswerSet) Has(id string) bool {
	return strings.TrimSpace(a.Get(id)) != ""
}

// Clone returns an independent copy
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// With returns a copy of the set with id set to value
func (a AnswerSet) With(id, value string) AnswerSet {
	out := a.Clone()
	out[id] = value
	return out
}

// Normalized trims keys and values and drops empty answers. Rule evaluation and
// the pattern hash both work on this form.
func (a AnswerSet) Normalized() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out[strings.TrimSpace(k)] = v
	}
	return out
}
