package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hellosleep/internal/model"
)

const systemPrompt = "You are a sleep-health coach. Reply with a single JSON object only, no prose."

var (
	ErrNoJSON           = errors.New("no JSON object in completion")
	ErrNoRecommendation = errors.New("completion has no recommendations or summary")
)

// ExtractJSON returns the first balanced {...} block in text. Braces inside
// JSON strings are ignored, so code fences and leading prose are skipped.
// String state is tracked from the first '{'. Runs in one pass.
func ExtractJSON(text string) (string, bool) {
	first := strings.IndexByte(text, '{')
	if first < 0 {
		return "", false
	}

	var open []int
	best, bestEnd := -1, -1
	inString, escaped := false, false
	for i := first; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			open = append(open, i)
		case '}':
			if len(open) == 0 {
				continue
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			if best < 0 || start < best {
				best, bestEnd = start, i
			}
			// nothing opened later can start before best
			if len(open) == 0 {
				return text[best : bestEnd+1], true
			}
		}
	}
	if best < 0 {
		return "", false
	}
	return text[best : bestEnd+1], true
}

// ParseRecommendation decodes a completion into a response and normalizes it:
// confidences are clamped to [0,1], missing IDs get a uuid and unknown
// priority or urgency values fall back to medium.
func ParseRecommendation(text string) (*model.RecommendationResponse, error) {
	raw, ok := ExtractJSON(text)
	if !ok {
		return nil, ErrNoJSON
	}
	var resp model.RecommendationResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if len(resp.Recommendations) == 0 && len(resp.Summary.PrimaryIssues) == 0 {
		return nil, ErrNoRecommendation
	}

	for i := range resp.Recommendations {
		r := &resp.Recommendations[i]
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		r.Confidence = clamp01(r.Confidence)
		switch r.Priority {
		case model.PriorityHigh, model.PriorityMedium, model.PriorityLow:
		default:
			r.Priority = model.PriorityMedium
		}
	}
	switch resp.Summary.Urgency {
	case model.UrgencyHigh, model.UrgencyMedium, model.UrgencyLow:
	default:
		resp.Summary.Urgency = model.UrgencyMedium
	}
	return &resp, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
