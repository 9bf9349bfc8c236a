package service

import (
	"hellosleep/internal/model"
)

// QuestionnaireService answers visibility and completeness questions about a
// static question list.
type QuestionnaireService struct {
	questions []model.Question
}

// NewQuestionnaireService keeps questions in the order given.
func NewQuestionnaireService(questions []model.Question) *QuestionnaireService {
	return &QuestionnaireService{questions: questions}
}

// IsVisible is true when q has no dependency or its parent currently holds the
// required value. Only the direct parent is consulted.
func IsVisible(q model.Question, answers model.AnswerSet) bool {
	if q.DependsOn == nil {
		return true
	}
	return answers.Get(q.DependsOn.QuestionID) == q.DependsOn.Value
}

// Questions returns every question in declaration order
func (s *QuestionnaireService) Questions() []model.Question {
	out := make([]model.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// VisibleQuestions filters to what should be shown for answers, order preserved
func (s *QuestionnaireService) VisibleQuestions(answers model.AnswerSet) []model.Question {
	var out []model.Question
	for _, q := range s.questions {
		if IsVisible(q, answers) {
			out = append(out, q)
		}
	}
	return out
}

// Progress is answered visible questions over visible questions, in [0,1].
// Answers to hidden questions do not count.
func (s *QuestionnaireService) Progress(answers model.AnswerSet) float64 {
	visible := s.VisibleQuestions(answers)
	if len(visible) == 0 {
		return 0
	}
	answered := 0
	for _, q := range visible {
		if answers.Has(q.ID) {
			answered++
		}
	}
	return float64(answered) / float64(len(visible))
}

// MissingRequired lists visible required questions without an answer
func (s *QuestionnaireService) MissingRequired(answers model.AnswerSet) []string {
	var out []string
	for _, q := range s.VisibleQuestions(answers) {
		if q.Required && !answers.Has(q.ID) {
			out = append(out, q.ID)
		}
	}
	return out
}

// Context derives the completion counters sent along with a recommendation request
func (s *QuestionnaireService) Context(answers model.AnswerSet) model.RecommendationContext {
	ctx := model.RecommendationContext{CategoryCounts: make(map[string]int)}
	for _, q := range s.VisibleQuestions(answers) {
		ctx.TotalQuestions++
		if answers.Has(q.ID) {
			ctx.AnsweredQuestions++
			ctx.CategoryCounts[q.Category]++
		}
	}
	return ctx
}
