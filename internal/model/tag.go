package model

// Priority of a tag or recommendation
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Severity of the problem a tag indicates
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// RuleKind discriminates the calculation rule union
type RuleKind string

const (
	RuleEquals   RuleKind = "equals"
	RuleFunction RuleKind = "function"
)

// FunctionName names an entry of the rule function library
type FunctionName string

const (
	FuncSleepInefficiency   FunctionName = "isSleepInefficient"
	FuncUnhealthyLifestyle  FunctionName = "isUnhealthyLifestyle"
	FuncIdle                FunctionName = "isIdle"
	FuncSpaceOveruse        FunctionName = "isSpaceOverused"
	FuncMaladaptiveBehavior FunctionName = "hasMaladaptiveBehaviors"
)

// Rule is the calculation rule of a tag.
// Equals rules use Question/Expected, function rules use Function/Inputs.
type Rule struct {
	Kind     RuleKind     `json:"kind"`
	Question string       `json:"question,omitempty"`
	Expected string       `json:"expectedValue,omitempty"`
	Function FunctionName `json:"functionName,omitempty"`
	Inputs   []string     `json:"inputQuestions,omitempty"`
}

// Equals builds an equality rule
func Equals(question, expected string) Rule {
	return Rule{Kind: RuleEquals, Question: question, Expected: expected}
}

// Call builds a function rule
func Call(fn FunctionName, inputs ...string) Rule {
	return Rule{Kind: RuleFunction, Function: fn, Inputs: inputs}
}

// Questions returns every question ID the rule reads
func (r Rule) Questions() []string {
	if r.Kind == RuleEquals {
		return []string{r.Question}
	}
	return r.Inputs
}

// Tag is a named problem indicator derived from answers
type Tag struct {
	Name          string   `json:"name"`
	Text          string   `json:"text"`
	Category      string   `json:"category"`
	Priority      Priority `json:"priority"`
	Severity      Severity `json:"severity"`
	Rule          Rule     `json:"rule"`
	Interventions []string `json:"interventions"`
}

// TagActivation is the outcome of evaluating one tag
type TagActivation struct {
	Tag        string  `json:"tag"`
	Active     bool    `json:"active"`
	Score      float64 `json:"score,omitempty"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}
