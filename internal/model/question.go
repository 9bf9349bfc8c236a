package model

// QuestionKind defines the input shape of a question
type QuestionKind string

const (
	QuestionKindSingleChoice QuestionKind = "single_choice"
	QuestionKindScale        QuestionKind = "scale"
	QuestionKindNumber       QuestionKind = "number"
	QuestionKindDate         QuestionKind = "date"
	QuestionKindText         QuestionKind = "text" // free text, also used for HH:MM times
)

// Option is one selectable answer of a choice or scale question
type Option struct {
	Value string `json:"value" bson:"value"`
	Label string `json:"label" bson:"label"`
	Score *int   `json:"score,omitempty" bson:"score,omitempty"`
}

// Dependency makes a question visible only while its parent holds Value
type Dependency struct {
	QuestionID string `json:"questionId" bson:"questionId"`
	Value      string `json:"value" bson:"value"`
}

// Question is a static questionnaire item
type Question struct {
	ID        string       `json:"id" bson:"id"`
	Order     int          `json:"order" bson:"order"`
	Category  string       `json:"category" bson:"category"`
	Prompt    string       `json:"prompt" bson:"prompt"`
	Kind      QuestionKind `json:"kind" bson:"kind"`
	Options   []Option     `json:"options,omitempty" bson:"options,omitempty"`
	Required  bool         `json:"required" bson:"required"`
	DependsOn *Dependency  `json:"dependsOn,omitempty" bson:"dependsOn,omitempty"`
}

// HasOption reports whether value is one of the declared options
func (q *Question) HasOption(value string) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// IntPtr is a helper for option scores
func IntPtr(v int) *int {
	return &v
}
