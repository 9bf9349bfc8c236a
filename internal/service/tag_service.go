package service

import (
	"fmt"

	"go.uber.org/zap"

	"hellosleep/internal/model"
	"hellosleep/internal/rules"
)

// TagService evaluates the tag table against an answer set
type TagService struct {
	tags   []model.Tag
	byName map[string]model.Tag
	log    *zap.Logger
}

// NewTagService expects a table that already passed catalog validation;
// rules that still fail to resolve are treated as non-matches.
func NewTagService(tags []model.Tag, log *zap.Logger) *TagService {
	byName := make(map[string]model.Tag, len(tags))
	for _, t := range tags {
		byName[t.Name] = t
	}
	return &TagService{tags: tags, byName: byName, log: log}
}

func (s *TagService) Tags() []model.Tag {
	out := make([]model.Tag, len(s.tags))
	copy(out, s.tags)
	return out
}

// Tag looks up a tag by name
func (s *TagService) Tag(name string) (model.Tag, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// Evaluate returns the names of the active tags in table order.
func (s *TagService) Evaluate(answers model.AnswerSet) []string {
	var active []string
	for _, a := range s.EvaluateDetailed(answers) {
		if a.Active {
			active = append(active, a.Tag)
		}
	}
	return active
}

// EvaluateDetailed returns one activation per tag, active or not, in table order.
// Answers are read in normalized form, the same form the pattern cache hashes.
func (s *TagService) EvaluateDetailed(answers model.AnswerSet) []model.TagActivation {
	answers = answers.Normalized()
	out := make([]model.TagActivation, 0, len(s.tags))
	for _, t := range s.tags {
		out = append(out, s.evaluate(t, answers))
	}
	return out
}

func (s *TagService) evaluate(t model.Tag, answers model.AnswerSet) model.TagActivation {
	switch t.Rule.Kind {
	case model.RuleEquals:
		got := answers.Get(t.Rule.Question)
		if got == "" {
			return model.TagActivation{
				Tag:       t.Name,
				Reasoning: fmt.Sprintf("%s not answered", t.Rule.Question),
			}
		}
		active := got == t.Rule.Expected
		act := model.TagActivation{Tag: t.Name, Active: active, Confidence: 1}
		if active {
			act.Score = 1
			act.Reasoning = fmt.Sprintf("%s is %s", t.Rule.Question, got)
		}
		return act

	case model.RuleFunction:
		args := make([]string, len(t.Rule.Inputs))
		for i, q := range t.Rule.Inputs {
			args[i] = answers.Get(q)
		}
		res, err := rules.Invoke(t.Rule.Function, args)
		if err != nil {
			s.log.Warn("tag rule not evaluated",
				zap.String("tag", t.Name),
				zap.String("function", string(t.Rule.Function)),
				zap.Error(err))
			return model.TagActivation{Tag: t.Name, Reasoning: err.Error()}
		}
		return model.TagActivation{
			Tag:        t.Name,
			Active:     res.Value,
			Score:      res.Score,
			Confidence: res.Confidence,
			Reasoning:  res.Reasoning,
		}

	default:
		s.log.Warn("tag rule has unknown kind",
			zap.String("tag", t.Name),
			zap.String("kind", string(t.Rule.Kind)))
		return model.TagActivation{Tag: t.Name}
	}
}
