package service

import (
	"hellosleep/internal/catalog"
	"hellosleep/internal/model"
	"hellosleep/internal/rules"
)

// fallbackRule is a canned recommendation for one tag
type fallbackRule struct {
	tag        string
	title      string
	desc       string
	category   string
	priority   model.Priority
	confidence float64
	actions    []model.Action
}

var fallbackRules = []fallbackRule{
	{
		tag: catalog.TagMedicationDependency, title: "Plan a supervised taper",
		desc:     "Talk to your doctor about reducing sleep medication gradually while you build sleep skills.",
		category: "medical", priority: model.PriorityHigh, confidence: 0.8,
		actions: []model.Action{
			{Title: "Book a medication review", Description: "Bring a two-week sleep diary to the appointment.", Difficulty: "easy", TimeEstimate: "1 hour", Frequency: "once", ExpectedImpact: "high"},
		},
	},
	{
		tag: catalog.TagPrenatal, title: "Protect rest during pregnancy",
		desc:     "Use side sleeping with pillow support and short daytime rests; check any sleep aid with your obstetrician.",
		category: "medical", priority: model.PriorityHigh, confidence: 0.75,
		actions: []model.Action{
			{Title: "Set up pillow support", Description: "One pillow between the knees, one behind the back.", Difficulty: "easy", TimeEstimate: "10 minutes", Frequency: "nightly", ExpectedImpact: "medium"},
		},
	},
	{
		tag: catalog.TagPostpartum, title: "Share the night shifts",
		desc:     "Split night-time infant care so each parent gets one protected block of sleep.",
		category: "schedule", priority: model.PriorityHigh, confidence: 0.75,
		actions: []model.Action{
			{Title: "Agree a shift plan", Description: "Decide who covers the first and second half of the night.", Difficulty: "medium", TimeEstimate: "15 minutes", Frequency: "daily", ExpectedImpact: "high"},
		},
	},
	{
		tag: catalog.TagChronicInsomnia, title: "Start a structured CBT-I programme",
		desc:     "Long-standing insomnia responds best to a full cognitive behavioural programme rather than single tips.",
		category: "behavior", priority: model.PriorityHigh, confidence: 0.75,
		actions: []model.Action{
			{Title: "Keep a sleep diary", Description: "Record bed, wake and estimated sleep times every morning.", Difficulty: "easy", TimeEstimate: "5 minutes", Frequency: "daily", ExpectedImpact: "medium"},
		},
	},
	{
		tag: catalog.TagSleepInefficiency, title: "Match time in bed to sleep time",
		desc:     "Spend only as long in bed as you actually sleep, then extend in 15-minute steps as efficiency rises.",
		category: "schedule", priority: model.PriorityHigh, confidence: 0.8,
		actions: []model.Action{
			{Title: "Set a sleep window", Description: "Fix the wake time and count back your average sleep hours.", Difficulty: "hard", TimeEstimate: "2 weeks", Frequency: "nightly", ExpectedImpact: "high"},
		},
	},
	{
		tag: catalog.TagSleepAnxiety, title: "Stop trying to sleep",
		desc:     "Sleep cannot be forced. Let the night be what it is and get up when you feel restless.",
		category: "emotional", priority: model.PriorityMedium, confidence: 0.7,
		actions: []model.Action{
			{Title: "Schedule worry time", Description: "Write worries down in the early evening, not in bed.", Difficulty: "easy", TimeEstimate: "15 minutes", Frequency: "daily", ExpectedImpact: "medium"},
		},
	},
	{
		tag: catalog.TagIrregularSchedule, title: "Fix your wake-up time",
		desc:     "Get up at the same time every day, weekends included, whatever the night was like.",
		category: "schedule", priority: model.PriorityHigh, confidence: 0.8,
		actions: []model.Action{
			{Title: "Set one alarm for every day", Description: "Pick a time you can keep seven days a week.", Difficulty: "medium", TimeEstimate: "1 minute", Frequency: "daily", ExpectedImpact: "high"},
		},
	},
	{
		tag: catalog.TagMaladaptiveBehaviors, title: "Drop the sleep-compensating habits",
		desc:     "Napping, going to bed early and lying in all reduce sleep pressure for the next night.",
		category: "behavior", priority: model.PriorityMedium, confidence: 0.7,
		actions: []model.Action{
			{Title: "Remove one habit this week", Description: "Start with naps or lying in after waking.", Difficulty: "medium", TimeEstimate: "1 week", Frequency: "daily", ExpectedImpact: "medium"},
		},
	},
	{
		tag: catalog.TagBedSpaceMisuse, title: "Keep the bed for sleep",
		desc:     "Move screens, work and reading out of bed so the bed signals sleep again.",
		category: "environment", priority: model.PriorityMedium, confidence: 0.7,
		actions: []model.Action{
			{Title: "Pick another spot for screens", Description: "Use a chair or another room for phone and laptop.", Difficulty: "easy", TimeEstimate: "5 minutes", Frequency: "daily", ExpectedImpact: "medium"},
		},
	},
	{
		tag: catalog.TagExcessiveIdleness, title: "Give your day a shape",
		desc:     "Plan a few meaningful activities so the day carries weight and the night stops being the focus.",
		category: "lifestyle", priority: model.PriorityMedium, confidence: 0.65,
		actions: []model.Action{
			{Title: "Plan three activities", Description: "One practical, one social, one enjoyable.", Difficulty: "medium", TimeEstimate: "10 minutes", Frequency: "daily", ExpectedImpact: "medium"},
		},
	},
	{
		tag: catalog.TagUnhealthyLifestyle, title: "Move and get daylight",
		desc:     "Exercise and daylight strengthen the day-night rhythm and deepen sleep.",
		category: "lifestyle", priority: model.PriorityMedium, confidence: 0.65,
		actions: []model.Action{
			{Title: "Take a morning walk", Description: "Thirty minutes outdoors before noon.", Difficulty: "easy", TimeEstimate: "30 minutes", Frequency: "daily", ExpectedImpact: "medium"},
		},
	},
	{
		tag: catalog.TagNoiseIssues, title: "Quiet the bedroom",
		desc:     "Block or mask noise with earplugs, heavier curtains or steady background sound.",
		category: "environment", priority: model.PriorityLow, confidence: 0.6,
		actions: []model.Action{
			{Title: "Try earplugs for a week", Description: "Foam earplugs are cheap and effective.", Difficulty: "easy", TimeEstimate: "1 minute", Frequency: "nightly", ExpectedImpact: "low"},
		},
	},
}

var baselineRecommendation = fallbackRule{
	tag: "", title: "Keep a regular rhythm",
	desc:     "Your answers show no specific problem. A steady wake time and an active day keep sleep healthy.",
	category: "schedule", priority: model.PriorityLow, confidence: 0.5,
	actions: []model.Action{
		{Title: "Keep a sleep diary", Description: "Note bed and wake times for two weeks to spot patterns.", Difficulty: "easy", TimeEstimate: "5 minutes", Frequency: "daily", ExpectedImpact: "low"},
	},
}

// fallbackResponse builds a recommendation set from the active tags alone. It
// cannot fail and always sets an urgency.
func fallbackResponse(answers model.AnswerSet, active []model.Tag, facts []catalog.Fact, booklets *BookletService) *model.RecommendationResponse {
	activeSet := make(map[string]model.Tag, len(active))
	for _, t := range active {
		activeSet[t.Name] = t
	}
	factFor := make(map[string]string)
	for _, f := range facts {
		if _, ok := factFor[f.Tag]; !ok {
			factFor[f.Tag] = f.Text
		}
	}

	resp := &model.RecommendationResponse{}
	for _, r := range fallbackRules {
		t, ok := activeSet[r.tag]
		if !ok {
			continue
		}
		resp.Recommendations = append(resp.Recommendations, r.recommendation(factFor[r.tag], t.Text, booklets))
	}
	if len(resp.Recommendations) == 0 {
		resp.Recommendations = append(resp.Recommendations, baselineRecommendation.recommendation("", "", booklets))
	}

	for _, t := range prioritizedTags(active) {
		resp.Summary.PrimaryIssues = append(resp.Summary.PrimaryIssues, t.Text)
		if len(resp.Summary.PrimaryIssues) == 3 {
			break
		}
	}
	for i, r := range resp.Recommendations {
		if i == 2 {
			break
		}
		resp.Summary.SuggestedFocus = append(resp.Summary.SuggestedFocus, r.Title)
	}
	resp.Summary.Urgency = urgencyFor(active)
	resp.Insights = fallbackInsights(answers, activeSet, facts)
	return resp
}

func (r fallbackRule) recommendation(fact, tagText string, booklets *BookletService) model.Recommendation {
	reasoning := fact
	if reasoning == "" {
		reasoning = "General sleep hygiene guidance."
	}
	if tagText != "" {
		reasoning = tagText + ". " + reasoning
	}
	rec := model.Recommendation{
		ID:          "fallback_" + r.tag,
		Title:       r.title,
		Description: r.desc,
		Category:    r.category,
		Priority:    r.priority,
		Confidence:  r.confidence,
		Reasoning:   reasoning,
		Actions:     append([]model.Action(nil), r.actions...),
	}
	if r.tag == "" {
		rec.ID = "fallback_baseline"
	} else if booklets != nil {
		rec.RelatedContent = booklets.IDs([]string{r.tag})
	}
	return rec
}

func prioritizedTags(active []model.Tag) []model.Tag {
	out := make([]model.Tag, 0, len(active))
	for _, p := range []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow} {
		for _, t := range active {
			if t.Priority == p {
				out = append(out, t)
			}
		}
	}
	return out
}

func urgencyFor(active []model.Tag) model.Urgency {
	if len(active) == 0 {
		return model.UrgencyLow
	}
	high := 0
	for _, t := range active {
		if t.Severity == model.SeveritySevere {
			return model.UrgencyHigh
		}
		if t.Priority == model.PriorityHigh {
			high++
		}
	}
	if high >= 3 {
		return model.UrgencyHigh
	}
	return model.UrgencyMedium
}

func fallbackInsights(answers model.AnswerSet, active map[string]model.Tag, facts []catalog.Fact) model.Insights {
	in := model.Insights{Patterns: []string{}, Correlations: []string{}, RiskFactors: []string{}}
	for _, f := range facts {
		in.Patterns = append(in.Patterns, f.Text)
	}

	has := func(name string) bool { _, ok := active[name]; return ok }
	if has(catalog.TagIrregularSchedule) && has(catalog.TagSleepInefficiency) {
		in.Correlations = append(in.Correlations, "An irregular schedule and long time in bed reinforce each other.")
	}
	if has(catalog.TagMaladaptiveBehaviors) && has(catalog.TagSleepAnxiety) {
		in.Correlations = append(in.Correlations, "Compensating habits often grow out of worry about sleep.")
	}
	if has(catalog.TagExcessiveIdleness) && has(catalog.TagUnhealthyLifestyle) {
		in.Correlations = append(in.Correlations, "A quiet, indoor day leaves little sleep pressure for the night.")
	}

	for _, t := range active {
		if t.Severity == model.SeveritySevere {
			in.RiskFactors = append(in.RiskFactors, t.Text)
		}
	}
	if d := rules.SleepDuration(answers.Get(catalog.QBedtime), answers.Get(catalog.QWaketime), answers.Get(catalog.QHoursToSleep)); d.Value && d.Score > 10 {
		in.RiskFactors = append(in.RiskFactors, "More than 10 hours in bed per night")
	}
	return in
}
