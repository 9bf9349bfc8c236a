// Package rules implements the pure predicate functions used by function-kind tag rules.
//
// Every function is total: malformed or missing answers never panic or error, they
// produce Value=false with a low confidence and a reasoning string that says what was
// missing.
package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// Result is the structured outcome of a rule function
type Result struct {
	Value      bool    `json:"value"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

const (
	// EfficiencyThreshold is the minimum healthy ratio of sleep time to time in bed
	EfficiencyThreshold = 0.85
	// LifestyleThreshold is the minimum exercise+sunlight score considered healthy
	LifestyleThreshold = 3
	// IdleThreshold is the pressure+richness score from which a day counts as idle
	IdleThreshold = 4
	// MaladaptiveThreshold is how many maladaptive behaviours activate the tag
	MaladaptiveThreshold = 3
)

// Ordinal answer scores. Question options in the catalog reuse these maps.
var (
	ExerciseScores = map[string]int{"never": 0, "rarely": 1, "weekly": 2, "daily": 3}
	SunlightScores = map[string]int{"none": 0, "little": 1, "some": 2, "plenty": 3}
	PressureScores = map[string]int{"high": 0, "moderate": 1, "low": 2, "none": 3}
	RichnessScores = map[string]int{"rich": 0, "ordinary": 1, "dull": 3}
)

// ParseClock parses "HH:MM" (or a bare hour) into minutes after midnight
func ParseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	hh, mm := s, "0"
	if i := strings.IndexAny(s, ":."); i >= 0 {
		hh, mm = s[:i], s[i+1:]
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	if h == 24 {
		if m != 0 {
			return 0, false
		}
		h = 0
	}
	return h*60 + m, true
}

// ParseHours parses a positive number of hours
func ParseHours(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 || v > 24 {
		return 0, false
	}
	return v, true
}

// SleepDuration returns the hours between bedtime and waketime, wrapping past
// midnight. When either time is unusable it falls back to the explicit hours answer.
func SleepDuration(bedtime, waketime, explicit string) Result {
	bed, okBed := ParseClock(bedtime)
	wake, okWake := ParseClock(waketime)
	if okBed && okWake && bed != wake {
		minutes := wake - bed
		if minutes < 0 {
			minutes += 24 * 60
		}
		hours := float64(minutes) / 60
		return Result{
			Value:      true,
			Score:      hours,
			Confidence: 0.9,
			Reasoning:  fmt.Sprintf("%.1f hours between bedtime %s and wake time %s", hours, bedtime, waketime),
		}
	}
	if hours, ok := ParseHours(explicit); ok {
		return Result{
			Value:      true,
			Score:      hours,
			Confidence: 0.7,
			Reasoning:  fmt.Sprintf("%.1f hours reported directly", hours),
		}
	}
	return Result{Confidence: 0, Reasoning: "no usable bedtime/wake time or duration answer"}
}

// IsSleepInefficient compares actual sleep to time in bed against EfficiencyThreshold.
// args: bedtime, waketime, hours in bed, hours asleep.
func IsSleepInefficient(args []string) Result {
	inBed := SleepDuration(args[0], args[1], args[2])
	if !inBed.Value {
		return Result{Confidence: 0.2, Reasoning: "time in bed unknown: " + inBed.Reasoning}
	}
	asleep, ok := ParseHours(args[3])
	if !ok {
		return Result{Confidence: 0.2, Reasoning: "actual sleep time unknown"}
	}
	efficiency := asleep / inBed.Score
	if efficiency > 1 {
		efficiency = 1
	}
	res := Result{
		Value:      efficiency < EfficiencyThreshold,
		Score:      efficiency,
		Confidence: inBed.Confidence,
	}
	if res.Value {
		res.Reasoning = fmt.Sprintf("sleep efficiency %.0f%% (%.1fh asleep of %.1fh in bed) is below %.0f%%",
			efficiency*100, asleep, inBed.Score, EfficiencyThreshold*100)
	} else {
		res.Reasoning = fmt.Sprintf("sleep efficiency %.0f%% is within the healthy range", efficiency*100)
	}
	return res
}

// IsUnhealthyLifestyle negates the exercise+sunlight health check.
// args: exercise, sunlight.
func IsUnhealthyLifestyle(args []string) Result {
	ex, okEx := ExerciseScores[args[0]]
	sun, okSun := SunlightScores[args[1]]
	if !okEx && !okSun {
		return Result{Confidence: 0.1, Reasoning: "exercise and sunlight answers missing"}
	}
	score := ex + sun
	confidence := 0.9
	if !okEx || !okSun {
		confidence = 0.5
	}
	healthy := score >= LifestyleThreshold
	res := Result{Value: !healthy, Score: float64(score), Confidence: confidence}
	if healthy {
		res.Reasoning = fmt.Sprintf("lifestyle score %d meets the healthy threshold %d", score, LifestyleThreshold)
	} else {
		res.Reasoning = fmt.Sprintf("lifestyle score %d is below %d: little exercise or daylight", score, LifestyleThreshold)
	}
	return res
}

// IsIdle sums workload pressure and life richness scores.
// args: pressure, life richness.
func IsIdle(args []string) Result {
	p, okP := PressureScores[args[0]]
	r, okR := RichnessScores[args[1]]
	if !okP || !okR {
		return Result{Confidence: 0.2, Reasoning: "pressure or life richness answer missing"}
	}
	score := p + r
	res := Result{Value: score >= IdleThreshold, Score: float64(score), Confidence: 0.8}
	if res.Value {
		res.Reasoning = fmt.Sprintf("idleness score %d reaches %d: low demands and few daytime activities", score, IdleThreshold)
	} else {
		res.Reasoning = fmt.Sprintf("idleness score %d is below %d", score, IdleThreshold)
	}
	return res
}

// IsSpaceOverused is true when the bedroom or the bed is used for waking activities.
// args: bedroom overuse, bed overuse.
func IsSpaceOverused(args []string) Result {
	bedroom, bed := isYes(args[0]), isYes(args[1])
	answered := 0
	for _, a := range args {
		if strings.TrimSpace(a) != "" {
			answered++
		}
	}
	res := Result{Value: bedroom || bed, Confidence: float64(answered) / 2}
	switch {
	case bedroom && bed:
		res.Score = 2
		res.Reasoning = "both the bedroom and the bed are used for waking activities"
	case bedroom:
		res.Score = 1
		res.Reasoning = "the bedroom is used for waking activities"
	case bed:
		res.Score = 1
		res.Reasoning = "the bed is used for waking activities"
	default:
		res.Reasoning = "bed and bedroom are reserved for sleep"
	}
	return res
}

// HasMaladaptiveBehaviors counts yes answers among the maladaptive behaviour flags.
func HasMaladaptiveBehaviors(args []string) Result {
	count, answered := 0, 0
	for _, a := range args {
		if strings.TrimSpace(a) != "" {
			answered++
		}
		if isYes(a) {
			count++
		}
	}
	res := Result{
		Value:      count >= MaladaptiveThreshold,
		Score:      float64(count),
		Confidence: float64(answered) / float64(len(args)),
	}
	res.Reasoning = fmt.Sprintf("%d of %d maladaptive behaviours reported (threshold %d)", count, len(args), MaladaptiveThreshold)
	return res
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}
