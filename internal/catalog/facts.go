package catalog

// Fact is a curated evidence statement about a tag
type Fact struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

// TagWeights ranks tags when facts compete for prompt space
var TagWeights = map[string]int{
	TagMedicationDependency: 10,
	TagPrenatal:             9,
	TagPostpartum:           9,
	TagChronicInsomnia:      8,
	TagSleepAnxiety:         7,
	TagSleepInefficiency:    7,
	TagMaladaptiveBehaviors: 6,
	TagIrregularSchedule:    6,
	TagBedSpaceMisuse:       5,
	TagExcessiveIdleness:    4,
	TagUnhealthyLifestyle:   3,
	TagNoiseIssues:          1,
}

var facts = []Fact{
	{TagIrregularSchedule, "A consistent wake-up time, kept on weekends too, is the strongest single anchor of the circadian rhythm."},
	{TagIrregularSchedule, "Morning light exposure within an hour of waking advances and stabilises the body clock."},
	{TagSleepInefficiency, "Sleep restriction therapy, limiting time in bed to actual sleep time, improves sleep efficiency and continuity."},
	{TagSleepInefficiency, "Sleep efficiency below 85% is a common marker of insomnia in clinical practice."},
	{TagUnhealthyLifestyle, "Regular moderate exercise shortens sleep onset and increases deep sleep."},
	{TagUnhealthyLifestyle, "Daytime light exposure strengthens the contrast between day and night signals to the clock."},
	{TagExcessiveIdleness, "Low daytime engagement increases attention to sleep and perceived fatigue."},
	{TagBedSpaceMisuse, "Stimulus control, using the bed only for sleep, re-establishes the bed as a cue for sleepiness."},
	{TagMaladaptiveBehaviors, "Napping, spending extra time in bed and sleeping in reduce homeostatic sleep pressure and perpetuate insomnia."},
	{TagMaladaptiveBehaviors, "Sleep effort, actively trying to fall asleep, raises arousal and delays sleep onset."},
	{TagMedicationDependency, "Long-term hypnotic use leads to tolerance; supervised gradual tapering combined with CBT-I gives the best outcomes."},
	{TagMedicationDependency, "Abrupt discontinuation of hypnotics can cause rebound insomnia and withdrawal effects."},
	{TagPrenatal, "Sleep disruption is common in pregnancy; sleep medication should only be used under obstetric guidance."},
	{TagPrenatal, "Left-side sleeping with pillow support improves comfort in later pregnancy."},
	{TagPostpartum, "Sharing night-time infant care protects at least one consolidated sleep period for each parent."},
	{TagChronicInsomnia, "Cognitive behavioural therapy for insomnia (CBT-I) is the first-line treatment for chronic insomnia."},
	{TagSleepAnxiety, "Worry about sleep creates conditioned arousal; paradoxical intention and acceptance reduce sleep-related anxiety."},
	{TagNoiseIssues, "Steady masking sound and earplugs reduce noise-related awakenings."},
}

// Facts returns the facts of the given tags in table order
func Facts(tagNames []string) []Fact {
	wanted := make(map[string]bool, len(tagNames))
	for _, t := range tagNames {
		wanted[t] = true
	}
	var out []Fact
	for _, f := range facts {
		if wanted[f.Tag] {
			out = append(out, f)
		}
	}
	return out
}

// AllFacts returns the whole table
func AllFacts() []Fact {
	out := make([]Fact, len(facts))
	copy(out, facts)
	return out
}
