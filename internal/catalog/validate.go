package catalog

import (
	"errors"
	"fmt"

	"hellosleep/internal/model"
	"hellosleep/internal/rules"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Report is the outcome of a catalog check
type Report struct {
	Errors []string `json:"errors"`
	Gaps   []string `json:"gaps"` // tags without any booklet
}

// Check verifies the static tables against each other: rule inputs must be known
// questions, function rules must resolve with the right arity, dependencies must point
// at known questions and every booklet must be bound to a known tag.
func Check(qs []model.Question, ts []model.Tag, bs []model.Booklet) Report {
	var r Report

	known := make(map[string]bool, len(qs))
	for _, q := range qs {
		if known[q.ID] {
			r.Errors = append(r.Errors, fmt.Sprintf("duplicate question %q", q.ID))
		}
		known[q.ID] = true
	}
	for _, q := range qs {
		if q.DependsOn != nil && !known[q.DependsOn.QuestionID] {
			r.Errors = append(r.Errors, fmt.Sprintf("question %q depends on unknown question %q", q.ID, q.DependsOn.QuestionID))
		}
	}

	tagSet := make(map[string]bool, len(ts))
	for _, t := range ts {
		if tagSet[t.Name] {
			r.Errors = append(r.Errors, fmt.Sprintf("duplicate tag %q", t.Name))
		}
		tagSet[t.Name] = true

		switch t.Rule.Kind {
		case model.RuleEquals:
		case model.RuleFunction:
			if err := rules.Check(t.Rule.Function, len(t.Rule.Inputs)); err != nil {
				r.Errors = append(r.Errors, fmt.Sprintf("tag %q: %v", t.Name, err))
			}
		default:
			r.Errors = append(r.Errors, fmt.Sprintf("tag %q: unknown rule kind %q", t.Name, t.Rule.Kind))
		}
		for _, qid := range t.Rule.Questions() {
			if !known[qid] {
				r.Errors = append(r.Errors, fmt.Sprintf("tag %q reads unknown question %q", t.Name, qid))
			}
		}
	}

	covered := make(map[string]bool)
	ids := make(map[string]bool, len(bs))
	for _, b := range bs {
		if ids[b.ID] {
			r.Errors = append(r.Errors, fmt.Sprintf("duplicate booklet %q", b.ID))
		}
		ids[b.ID] = true
		if !tagSet[b.Tag] {
			r.Errors = append(r.Errors, fmt.Sprintf("booklet %q bound to unknown tag %q", b.ID, b.Tag))
			continue
		}
		covered[b.Tag] = true
	}
	for _, t := range ts {
		if !covered[t.Name] {
			r.Gaps = append(r.Gaps, t.Name)
		}
	}
	return r
}

// Err returns nil when the report has no errors
func (r Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d problem(s), first: %s", ErrInvalidCatalog, len(r.Errors), r.Errors[0])
}

// Validate checks the built-in tables
func Validate() Report {
	return Check(questions, tags, booklets)
}
