package catalog

import "hellosleep/internal/model"

// Tag names
const (
	TagIrregularSchedule    = "irregular_schedule"
	TagSleepInefficiency    = "sleep_inefficiency"
	TagUnhealthyLifestyle   = "unhealthy_lifestyle"
	TagExcessiveIdleness    = "excessive_idleness"
	TagBedSpaceMisuse       = "bed_space_misuse"
	TagMaladaptiveBehaviors = "maladaptive_behaviors"
	TagMedicationDependency = "medication_dependency"
	TagPrenatal             = "prenatal"
	TagPostpartum           = "postpartum"
	TagChronicInsomnia      = "chronic_insomnia"
	TagSleepAnxiety         = "sleep_anxiety"
	TagNoiseIssues          = "noise_issues"
)

var tags = []model.Tag{
	{
		Name:          TagIrregularSchedule,
		Text:          "Irregular wake-up time",
		Category:      CategorySchedule,
		Priority:      model.PriorityHigh,
		Severity:      model.SeverityModerate,
		Rule:          model.Equals(QSleepRegular, "no"),
		Interventions: []string{"fixed_wake_time", "morning_light"},
	},
	{
		Name:     TagSleepInefficiency,
		Text:     "Too much time in bed awake",
		Category: CategorySchedule,
		Priority: model.PriorityHigh,
		Severity: model.SeverityModerate,
		Rule: model.Call(model.FuncSleepInefficiency,
			QBedtime, QWaketime, QHoursToSleep, QHoursFallInSleep),
		Interventions: []string{"sleep_restriction", "get_up_when_awake"},
	},
	{
		Name:          TagUnhealthyLifestyle,
		Text:          "Little exercise or daylight",
		Category:      CategoryLifestyle,
		Priority:      model.PriorityMedium,
		Severity:      model.SeverityMild,
		Rule:          model.Call(model.FuncUnhealthyLifestyle, QExercise, QSunlight),
		Interventions: []string{"daily_exercise", "morning_light"},
	},
	{
		Name:          TagExcessiveIdleness,
		Text:          "Days without enough structure",
		Category:      CategoryLifestyle,
		Priority:      model.PriorityMedium,
		Severity:      model.SeverityMild,
		Rule:          model.Call(model.FuncIdle, QPressure, QLifeRichness),
		Interventions: []string{"daytime_engagement"},
	},
	{
		Name:          TagBedSpaceMisuse,
		Text:          "Bed and bedroom used for waking life",
		Category:      CategoryBehavior,
		Priority:      model.PriorityMedium,
		Severity:      model.SeverityMild,
		Rule:          model.Call(model.FuncSpaceOveruse, QBedroomOveruse, QBedOveruse),
		Interventions: []string{"stimulus_control"},
	},
	{
		Name:          TagMaladaptiveBehaviors,
		Text:          "Habits that keep insomnia going",
		Category:      CategoryBehavior,
		Priority:      model.PriorityHigh,
		Severity:      model.SeverityModerate,
		Rule:          model.Call(model.FuncMaladaptiveBehavior, MaladaptiveBehaviorQuestions...),
		Interventions: []string{"stop_compensating", "get_up_when_awake"},
	},
	{
		Name:          TagMedicationDependency,
		Text:          "Relying on sleep medication",
		Category:      CategoryMedication,
		Priority:      model.PriorityHigh,
		Severity:      model.SeveritySevere,
		Rule:          model.Equals(QSleepMedicine, "yes"),
		Interventions: []string{"medical_supervision", "gradual_tapering"},
	},
	{
		Name:          TagPrenatal,
		Text:          "Sleep during pregnancy",
		Category:      CategoryBackground,
		Priority:      model.PriorityHigh,
		Severity:      model.SeverityModerate,
		Rule:          model.Equals(QStatus, "prenatal"),
		Interventions: []string{"prenatal_care", "gentle_routine"},
	},
	{
		Name:          TagPostpartum,
		Text:          "Sleep after giving birth",
		Category:      CategoryBackground,
		Priority:      model.PriorityHigh,
		Severity:      model.SeverityModerate,
		Rule:          model.Equals(QStatus, "postpartum"),
		Interventions: []string{"shared_night_care", "gentle_routine"},
	},
	{
		Name:          TagChronicInsomnia,
		Text:          "Long-standing insomnia",
		Category:      CategoryBackground,
		Priority:      model.PriorityHigh,
		Severity:      model.SeveritySevere,
		Rule:          model.Equals(QInsomniaDuration, "over_year"),
		Interventions: []string{"cbt_i", "stop_compensating"},
	},
	{
		Name:          TagSleepAnxiety,
		Text:          "Worrying about sleep",
		Category:      CategoryMindset,
		Priority:      model.PriorityHigh,
		Severity:      model.SeverityModerate,
		Rule:          model.Equals(QSleepAnxiety, "yes"),
		Interventions: []string{"accept_wakefulness", "daytime_engagement"},
	},
	{
		Name:          TagNoiseIssues,
		Text:          "Noisy sleeping environment",
		Category:      CategoryEnvironment,
		Priority:      model.PriorityLow,
		Severity:      model.SeverityMild,
		Rule:          model.Equals(QNoise, "yes"),
		Interventions: []string{"noise_reduction"},
	},
}

// Tags returns the tag registry in declaration order
func Tags() []model.Tag {
	out := make([]model.Tag, len(tags))
	copy(out, tags)
	return out
}

// TagByName looks up a tag
func TagByName(name string) (model.Tag, bool) {
	for _, t := range tags {
		if t.Name == name {
			return t, true
		}
	}
	return model.Tag{}, false
}
