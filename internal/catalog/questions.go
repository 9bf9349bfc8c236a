// Package catalog holds the static questionnaire, tag registry, booklet library and
// evidence fact table. Everything here is defined at process start and never mutated.
package catalog

import (
	"sort"

	"hellosleep/internal/model"
	"hellosleep/internal/rules"
)

// Question IDs
const (
	QStatus            = "status"
	QPregnancyWeeks    = "pregnancyweeks"
	QInsomniaDuration  = "insomniaduration"
	QSleepRegular      = "sleepregular"
	QBedtime           = "bedtime"
	QWaketime          = "waketime"
	QHoursToSleep      = "hourstosleep"
	QHoursFallInSleep  = "hourstofallinsleep"
	QExercise          = "exercise"
	QSunlight          = "sunlight"
	QPressure          = "pressure"
	QLifeRichness      = "liferichness"
	QBedroomOveruse    = "bedroomoveruse"
	QBedOveruse        = "bedoveruse"
	QNapping           = "napping"
	QNapDuration       = "napduration"
	QEarlyBed          = "earlybed"
	QLieInBed          = "lieinbed"
	QSleepIn           = "sleepin"
	QClockWatching     = "clockwatching"
	QTryToSleep        = "trytosleep"
	QSleepMedicine     = "sleepmedicine"
	QMedicineFrequency = "medicinefrequency"
	QNoise             = "noise"
	QNoiseSource       = "noisesource"
	QSleepAnxiety      = "sleepanxiety"
	QDaytimeImpact     = "daytimeimpact"
	QAssessmentDate    = "assessmentdate"
)

// Question categories, also used for RecommendationContext.CategoryCounts
const (
	CategoryBackground  = "background"
	CategorySchedule    = "schedule"
	CategoryLifestyle   = "lifestyle"
	CategoryBehavior    = "behavior"
	CategoryMedication  = "medication"
	CategoryEnvironment = "environment"
	CategoryMindset     = "mindset"
)

// MaladaptiveBehaviorQuestions is the ordered input list of the maladaptive behaviour rule
var MaladaptiveBehaviorQuestions = []string{
	QNapping, QEarlyBed, QLieInBed, QSleepIn, QClockWatching, QTryToSleep,
}

var yesNo = []model.Option{
	{Value: "yes", Label: "Yes"},
	{Value: "no", Label: "No"},
}

func scored(labels [][2]string, scores map[string]int) []model.Option {
	opts := make([]model.Option, 0, len(labels))
	for _, l := range labels {
		o := model.Option{Value: l[0], Label: l[1]}
		if s, ok := scores[l[0]]; ok {
			o.Score = model.IntPtr(s)
		}
		opts = append(opts, o)
	}
	return opts
}

var questions = []model.Question{
	{
		ID: QStatus, Order: 1, Category: CategoryBackground, Kind: model.QuestionKindSingleChoice, Required: true,
		Prompt: "Which best describes your current situation?",
		Options: []model.Option{
			{Value: "student", Label: "Student"},
			{Value: "employed", Label: "Working"},
			{Value: "self_employed", Label: "Self-employed"},
			{Value: "unemployed", Label: "Between jobs"},
			{Value: "retired", Label: "Retired"},
			{Value: "prenatal", Label: "Pregnant"},
			{Value: "postpartum", Label: "Recently gave birth"},
		},
	},
	{
		ID: QPregnancyWeeks, Order: 2, Category: CategoryBackground, Kind: model.QuestionKindNumber,
		Prompt:    "How many weeks pregnant are you?",
		DependsOn: &model.Dependency{QuestionID: QStatus, Value: "prenatal"},
	},
	{
		ID: QInsomniaDuration, Order: 3, Category: CategoryBackground, Kind: model.QuestionKindSingleChoice, Required: true,
		Prompt: "How long have you been sleeping badly?",
		Options: []model.Option{
			{Value: "under_month", Label: "Less than a month"},
			{Value: "one_to_three_months", Label: "One to three months"},
			{Value: "three_to_twelve_months", Label: "Three months to a year"},
			{Value: "over_year", Label: "More than a year"},
		},
	},
	{
		ID: QSleepRegular, Order: 4, Category: CategorySchedule, Kind: model.QuestionKindSingleChoice, Required: true,
		Prompt:  "Do you get up at roughly the same time every day, weekends included?",
		Options: yesNo,
	},
	{
		ID: QBedtime, Order: 5, Category: CategorySchedule, Kind: model.QuestionKindText,
		Prompt: "What time do you usually go to bed? (HH:MM)",
	},
	{
		ID: QWaketime, Order: 6, Category: CategorySchedule, Kind: model.QuestionKindText,
		Prompt: "What time do you usually get out of bed? (HH:MM)",
	},
	{
		ID: QHoursToSleep, Order: 7, Category: CategorySchedule, Kind: model.QuestionKindNumber, Required: true,
		Prompt: "How many hours do you spend in bed each night?",
	},
	{
		ID: QHoursFallInSleep, Order: 8, Category: CategorySchedule, Kind: model.QuestionKindNumber, Required: true,
		Prompt: "Of those hours, how many are you actually asleep?",
	},
	{
		ID: QExercise, Order: 9, Category: CategoryLifestyle, Kind: model.QuestionKindScale, Required: true,
		Prompt: "How often do you exercise?",
		Options: scored([][2]string{
			{"never", "Never"}, {"rarely", "A few times a month"}, {"weekly", "Every week"}, {"daily", "Almost every day"},
		}, rules.ExerciseScores),
	},
	{
		ID: QSunlight, Order: 10, Category: CategoryLifestyle, Kind: model.QuestionKindScale, Required: true,
		Prompt: "How much daylight do you get during the day?",
		Options: scored([][2]string{
			{"none", "Almost none"}, {"little", "A little"}, {"some", "Some"}, {"plenty", "Plenty"},
		}, rules.SunlightScores),
	},
	{
		ID: QPressure, Order: 11, Category: CategoryLifestyle, Kind: model.QuestionKindScale, Required: true,
		Prompt: "How demanding is your work or study right now?",
		Options: scored([][2]string{
			{"high", "Very demanding"}, {"moderate", "Moderate"}, {"low", "Light"}, {"none", "Nothing scheduled"},
		}, rules.PressureScores),
	},
	{
		ID: QLifeRichness, Order: 12, Category: CategoryLifestyle, Kind: model.QuestionKindScale, Required: true,
		Prompt: "Outside of work, how full are your days?",
		Options: scored([][2]string{
			{"rich", "Full of things I enjoy"}, {"ordinary", "Ordinary"}, {"dull", "Mostly empty"},
		}, rules.RichnessScores),
	},
	{
		ID: QBedroomOveruse, Order: 13, Category: CategoryBehavior, Kind: model.QuestionKindSingleChoice, Required: true,
		Prompt:  "Do you spend much of your waking time in the bedroom?",
		Options: yesNo,
	},
	{
		ID: QBedOveruse, Order: 14, Category: CategoryBehavior, Kind: model.QuestionKindSingleChoice, Required: true,
		Prompt:  "Do you use the bed for things other than sleep, such as phone, TV or work?",
		Options: yesNo,
	},
	{
		ID: QNapping, Order: 15, Category: CategoryBehavior, Kind: model.QuestionKindSingleChoice, Required: true,
		Prompt:  "Do you nap during the day to make up for bad nights?",
		Options: yesNo,
	},
	{
		ID: QNapDuration, Order: 16, Category: CategoryBehavior, Kind: model.QuestionKindSingleChoice,
		Prompt: "How long are your naps?",
		Options: []model.Option{
			{Value: "under_30", Label: "Under 30 minutes"},
			{Value: "30_60", Label: "30 to 60 minutes"},
			{Value: "over_60", Label: "Over an hour"},
		},
		DependsOn: &model.Dependency{QuestionID: QNapping, Value: "yes"},
	},
	{
		ID: QEarlyBed, Order: 17, Category: CategoryBehavior, Kind: model.QuestionKindSingleChoice, Required: true,
		Prompt:  "Do you go to bed early hoping to get more sleep?",
		Options: yesNo,
	},
	{
		ID: QLieInBed, Order: 18, Category: CategoryBehavior, Kind: model.QuestionKindSingleChoice, Required: true,
		Prompt:  "Do you stay in bed when you cannot sleep?",
		Options: yesNo,
	},
	{
		ID: QSleepIn, Order: 19, Category: CategoryBehavior, Kind: model.QuestionKindSingleChoice, Required: true,
		Prompt:  "Do you sleep in after a bad night?",
		Options: yesNo,
	},
	{
		ID: QClockWatching, Order: 20, Category: CategoryBehavior, Kind: model.QuestionKindSingleChoice, Required: true,
		Prompt:  "Do you check the clock during the night?",
		Options: yesNo,
	},
	{
		ID: QTryToSleep, Order: 21, Category: CategoryBehavior, Kind: model.QuestionKindSingleChoice, Required: true,
		Prompt:  "Do you try hard to fall asleep (counting, forcing relaxation, rituals)?",
		Options: yesNo,
	},
	{
		ID: QSleepMedicine, Order: 22, Category: CategoryMedication, Kind: model.QuestionKindSingleChoice, Required: true,
		Prompt:  "Do you take sleeping pills or other sleep aids?",
		Options: yesNo,
	},
	{
		ID: QMedicineFrequency, Order: 23, Category: CategoryMedication, Kind: model.QuestionKindSingleChoice,
		Prompt: "How often do you take them?",
		Options: []model.Option{
			{Value: "nightly", Label: "Every night"},
			{Value: "weekly", Label: "A few times a week"},
			{Value: "occasionally", Label: "Occasionally"},
		},
		DependsOn: &model.Dependency{QuestionID: QSleepMedicine, Value: "yes"},
	},
	{
		ID: QNoise, Order: 24, Category: CategoryEnvironment, Kind: model.QuestionKindSingleChoice, Required: true,
		Prompt:  "Is noise disturbing your sleep?",
		Options: yesNo,
	},
	{
		ID: QNoiseSource, Order: 25, Category: CategoryEnvironment, Kind: model.QuestionKindText,
		Prompt:    "Where does the noise come from?",
		DependsOn: &model.Dependency{QuestionID: QNoise, Value: "yes"},
	},
	{
		ID: QSleepAnxiety, Order: 26, Category: CategoryMindset, Kind: model.QuestionKindSingleChoice, Required: true,
		Prompt:  "During the day, do you worry about whether you will sleep tonight?",
		Options: yesNo,
	},
	{
		ID: QDaytimeImpact, Order: 27, Category: CategoryMindset, Kind: model.QuestionKindScale,
		Prompt: "How much does poor sleep affect your day? (1 = not at all, 5 = severely)",
		Options: []model.Option{
			{Value: "1", Label: "1", Score: model.IntPtr(1)},
			{Value: "2", Label: "2", Score: model.IntPtr(2)},
			{Value: "3", Label: "3", Score: model.IntPtr(3)},
			{Value: "4", Label: "4", Score: model.IntPtr(4)},
			{Value: "5", Label: "5", Score: model.IntPtr(5)},
		},
	},
	{
		ID: QAssessmentDate, Order: 28, Category: CategoryBackground, Kind: model.QuestionKindDate,
		Prompt: "Today's date",
	},
}

// Questions returns the questionnaire in declaration order
func Questions() []model.Question {
	out := make([]model.Question, len(questions))
	copy(out, questions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Question looks up a question by ID
func Question(id string) (model.Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return model.Question{}, false
}
