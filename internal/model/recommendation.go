package model

import "time"

// UserProfile describes the person taking the assessment
type UserProfile struct {
	Age              int    `json:"age,omitempty" bson:"age,omitempty"`
	Gender           string `json:"gender,omitempty" bson:"gender,omitempty"`
	Status           string `json:"status,omitempty" bson:"status,omitempty"`
	InsomniaDuration string `json:"insomniaDuration,omitempty" bson:"insomniaDuration,omitempty"`
}

// RecommendationContext carries questionnaire completion counters
type RecommendationContext struct {
	TotalQuestions    int            `json:"totalQuestions"`
	AnsweredQuestions int            `json:"answeredQuestions"`
	CategoryCounts    map[string]int `json:"categoryCounts,omitempty"`
}

// RecommendationRequest is the input of the AI-assisted path
type RecommendationRequest struct {
	Answers     AnswerSet             `json:"answers"`
	UserProfile UserProfile           `json:"userProfile"`
	Context     RecommendationContext `json:"context"`
}

// Action is one concrete thing a recommendation asks the user to do
type Action struct {
	Title          string `json:"title" bson:"title"`
	Description    string `json:"description" bson:"description"`
	Difficulty     string `json:"difficulty" bson:"difficulty"`
	TimeEstimate   string `json:"timeEstimate" bson:"timeEstimate"`
	Frequency      string `json:"frequency" bson:"frequency"`
	ExpectedImpact string `json:"expectedImpact" bson:"expectedImpact"`
}

// Recommendation is a single piece of generated or fallback guidance
type Recommendation struct {
	ID             string   `json:"id" bson:"id"`
	Title          string   `json:"title" bson:"title"`
	Description    string   `json:"description" bson:"description"`
	Category       string   `json:"category" bson:"category"`
	Priority       Priority `json:"priority" bson:"priority"`
	Confidence     float64  `json:"confidence" bson:"confidence"`
	Reasoning      string   `json:"reasoning" bson:"reasoning"`
	Actions        []Action `json:"actions" bson:"actions"`
	RelatedContent []string `json:"relatedContent,omitempty" bson:"relatedContent,omitempty"`
}

// Urgency of the overall result
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Summary condenses the recommendation set
type Summary struct {
	PrimaryIssues  []string `json:"primaryIssues" bson:"primaryIssues"`
	SuggestedFocus []string `json:"suggestedFocus" bson:"suggestedFocus"`
	Urgency        Urgency  `json:"urgency" bson:"urgency"`
}

// Insights lists patterns observed across answers
type Insights struct {
	Patterns     []string `json:"patterns" bson:"patterns"`
	Correlations []string `json:"correlations" bson:"correlations"`
	RiskFactors  []string `json:"riskFactors" bson:"riskFactors"`
}

// RecommendationResponse is the uniform payload returned by every path
type RecommendationResponse struct {
	Recommendations []Recommendation `json:"recommendations" bson:"recommendations"`
	Summary         Summary          `json:"summary" bson:"summary"`
	Insights        Insights         `json:"insights" bson:"insights"`
}

// ResultSource says which pipeline stage produced a response
type ResultSource string

const (
	SourceCache    ResultSource = "cache"
	SourceProvider ResultSource = "provider"
	SourceFallback ResultSource = "fallback"
)

// RecommendationResult wraps a response with pipeline metadata
type RecommendationResult struct {
	RecommendationResponse
	Source         ResultSource `json:"source"`
	Provider       string       `json:"provider,omitempty"`
	Confidence     float64      `json:"confidence"`
	PatternHash    string       `json:"patternHash"`
	CalculatedTags []string     `json:"calculatedTags"`
	GeneratedAt    time.Time    `json:"generatedAt"`
}
