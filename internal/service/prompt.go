package service

import (
	"fmt"
	"sort"
	"strings"

	"hellosleep/internal/catalog"
	"hellosleep/internal/model"
)

// buildRecommendationPrompt asks a provider for a RecommendationResponse-shaped
// JSON document grounded on the active tags and evidence facts.
func buildRecommendationPrompt(req *model.RecommendationRequest, active []model.Tag, facts []catalog.Fact) string {
	keys := make([]string, 0, len(req.Answers))
	for k, v := range req.Answers {
		if strings.TrimSpace(v) != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var answers strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&answers, "- %s: %s\n", k, req.Answers[k])
	}

	var problems strings.Builder
	if len(active) == 0 {
		problems.WriteString("- none detected\n")
	}
	for _, t := range active {
		fmt.Fprintf(&problems, "- %s (%s, priority %s, severity %s)\n", t.Text, t.Name, t.Priority, t.Severity)
	}

	var evidence strings.Builder
	for _, f := range facts {
		fmt.Fprintf(&evidence, "- %s\n", f.Text)
	}

	p := req.UserProfile
	return fmt.Sprintf(`Analyse this sleep self-assessment and return ONLY valid JSON matching this schema:
{
  "recommendations": [
    {
      "id": "short-id",
      "title": "string",
      "description": "string",
      "category": "schedule|lifestyle|behavior|environment|medical|emotional",
      "priority": "high" or "medium" or "low",
      "confidence": 0.0 to 1.0,
      "reasoning": "why this applies to this person",
      "actions": [
        {"title": "", "description": "", "difficulty": "easy|medium|hard", "timeEstimate": "", "frequency": "", "expectedImpact": ""}
      ]
    }
  ],
  "summary": {"primaryIssues": [], "suggestedFocus": [], "urgency": "low" or "medium" or "high"},
  "insights": {"patterns": [], "correlations": [], "riskFactors": []}
}

Profile: age %d, gender %s, status %s, insomnia duration %s
Questionnaire: %d of %d questions answered

Answers:
%s
Detected problems:
%s
Evidence to rely on:
%s
Give 3 to 5 recommendations ordered by priority. Do not recommend medication changes
without a doctor. Keep every action concrete and achievable within a week.`,
		p.Age, orUnknown(p.Gender), orUnknown(p.Status), orUnknown(p.InsomniaDuration),
		req.Context.AnsweredQuestions, req.Context.TotalQuestions,
		answers.String(), problems.String(), evidence.String())
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
