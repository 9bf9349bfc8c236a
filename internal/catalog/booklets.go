package catalog

import "hellosleep/internal/model"

var booklets = []model.Booklet{
	{
		ID:          "life_rhythm_guide",
		Tag:         TagIrregularSchedule,
		Title:       "Finding your rhythm again",
		Description: "Anchor your day with a fixed wake-up time so the body clock can settle.",
		Content: model.BookletContent{
			Summary: "A fixed wake-up time is the single most reliable way to stabilise sleep.",
			Problem: "When you get up at different times, your internal clock never knows when to make you sleepy. " +
				"Sleeping in after a bad night feels like recovery but shifts the clock and makes the next night harder.",
			Solution: "Pick one wake-up time you can keep **every day**, including weekends, and hold it regardless " +
				"of how the night went. Bedtime follows on its own once the morning is fixed.",
			Steps: []model.Step{
				{Title: "Choose the time", Description: "Pick a wake-up time that works on your busiest day."},
				{Title: "Set one alarm", Description: "Put the alarm across the room so you have to stand up to stop it."},
				{Title: "Get light", Description: "Open the curtains or step outside within 30 minutes of waking."},
				{Title: "Hold it for three weeks", Description: "Keep the time even after poor nights; the clock needs repetition."},
			},
			Tips: []string{
				"Plan something pleasant for the first half hour of the morning.",
				"If you are sleepy in the evening, go to bed; do not move the morning.",
			},
			Warnings: []string{"Expect a few tired days at first; that tiredness builds sleep pressure."},
		},
		Metadata: model.BookletMetadata{
			EstimatedTime:   "3 weeks",
			Difficulty:      "medium",
			ExpectedOutcome: "More predictable sleepiness in the evening and fewer broken nights.",
		},
	},
	{
		ID:          "weekend_rhythm_checklist",
		Tag:         TagIrregularSchedule,
		Title:       "Keeping weekends on schedule",
		Description: "Practical ways to avoid social jet lag on days off.",
		Content: model.BookletContent{
			Summary: "Weekends are where most schedules break; plan them instead of recovering on them.",
			Problem: "Late nights and long lie-ins on days off move your clock by hours, and Monday feels like flying across time zones.",
			Solution: "Keep the weekend wake-up within an hour of the weekday one and move social plans earlier where you can.",
			Steps: []model.Step{
				{Title: "Book the morning", Description: "Schedule something on Saturday and Sunday morning that you look forward to."},
				{Title: "Cap the difference", Description: "Never get up more than an hour later than on weekdays."},
			},
			Tips: []string{"Nap-free weekends make Sunday night much easier."},
		},
		Metadata: model.BookletMetadata{
			EstimatedTime:   "2 weekends",
			Difficulty:      "easy",
			ExpectedOutcome: "Easier Monday mornings and a steadier weekly rhythm.",
		},
	},
	{
		ID:          "sleep_efficiency_guide",
		Tag:         TagSleepInefficiency,
		Title:       "Less time in bed, better sleep",
		Description: "Match the time you spend in bed to the sleep you actually get.",
		Content: model.BookletContent{
			Summary: "Lying in bed awake teaches the brain that bed is a place for being awake.",
			Problem: "Spending eight or nine hours in bed to get five hours of sleep spreads sleep thin: it becomes light, " +
				"broken and unpredictable.",
			Solution: "Shrink your time in bed to roughly the sleep you get now, then extend it in small steps once " +
				"you sleep through most of that window.",
			Steps: []model.Step{
				{Title: "Measure", Description: "Keep a simple sleep diary for one week: time in bed and estimated sleep."},
				{Title: "Set a window", Description: "Your window is your average sleep time, never less than five and a half hours."},
				{Title: "Hold the window", Description: "Go to bed only when sleepy and no earlier than the window start."},
				{Title: "Extend gradually", Description: "When you sleep most of the window for a week, add 15 minutes."},
			},
			Tips: []string{
				"Plan quiet evening activities so staying up until the window starts is easy.",
				"Keep the wake-up time fixed; adjust only the bedtime.",
			},
			Warnings: []string{
				"Do not drive or operate machinery when very sleepy during the first weeks.",
				"Talk to a doctor first if you have epilepsy, bipolar disorder or another condition worsened by sleep loss.",
			},
		},
		Metadata: model.BookletMetadata{
			EstimatedTime:   "4-6 weeks",
			Difficulty:      "hard",
			ExpectedOutcome: "Deeper, more continuous sleep and shorter time to fall asleep.",
		},
	},
	{
		ID:          "active_day_guide",
		Tag:         TagUnhealthyLifestyle,
		Title:       "Move and get light",
		Description: "Exercise and daylight build the sleep pressure and clock signals good nights depend on.",
		Content: model.BookletContent{
			Summary: "Good nights are made during the day.",
			Problem: "Without physical activity and daylight, the body has little reason to sleep deeply and the clock drifts.",
			Solution: "Add a daily walk outdoors, ideally in the morning, and build up to regular exercise you enjoy.",
			Steps: []model.Step{
				{Title: "Morning walk", Description: "Walk outside for 20 minutes within two hours of waking."},
				{Title: "Pick an activity", Description: "Choose something you can do three times a week."},
				{Title: "Track it", Description: "Tick off each active day; aim for five per week."},
			},
			Tips: []string{"Exercise earlier in the day if late workouts keep you alert."},
		},
		Metadata: model.BookletMetadata{
			EstimatedTime:   "2 weeks",
			Difficulty:      "easy",
			ExpectedOutcome: "Stronger evening sleepiness and better daytime mood.",
		},
	},
	{
		ID:          "purposeful_day_guide",
		Tag:         TagExcessiveIdleness,
		Title:       "Filling the day",
		Description: "A day with structure and engagement leaves less room for sleep worry.",
		Content: model.BookletContent{
			Summary: "An empty day makes the night the main event.",
			Problem: "With few demands and little to look forward to, attention turns to sleep, and tiredness is felt more.",
			Solution: "Build a daily plan with fixed points: meals, outdoor time, social contact and one meaningful activity.",
			Steps: []model.Step{
				{Title: "Fixed points", Description: "Write down three fixed appointments for each day of the week."},
				{Title: "One project", Description: "Start a small project or course with visible progress."},
				{Title: "See people", Description: "Arrange contact with someone at least every other day."},
			},
			Tips: []string{"Keep the bedroom out of the daytime plan."},
		},
		Metadata: model.BookletMetadata{
			EstimatedTime:   "ongoing",
			Difficulty:      "medium",
			ExpectedOutcome: "Less preoccupation with sleep and more energy during the day.",
		},
	},
	{
		ID:          "bed_for_sleep_guide",
		Tag:         TagBedSpaceMisuse,
		Title:       "The bed is for sleeping",
		Description: "Re-train the link between bed and sleep.",
		Content: model.BookletContent{
			Summary: "Your brain learns what a place is for.",
			Problem: "Working, scrolling or watching in bed teaches the brain that bed is a place to be alert.",
			Solution: "Use the bed only for sleep and intimacy, and spend waking time in another room.",
			Steps: []model.Step{
				{Title: "Move activities out", Description: "Set up a chair elsewhere for reading, phone and TV."},
				{Title: "Leave when awake", Description: "If you are awake and restless for a while, get up and return when sleepy."},
				{Title: "Charge the phone outside", Description: "Keep the phone out of the bedroom overnight."},
			},
			Tips: []string{"A small reading lamp in the living room makes night-time getting up easier."},
		},
		Metadata: model.BookletMetadata{
			EstimatedTime:   "2-4 weeks",
			Difficulty:      "medium",
			ExpectedOutcome: "Feeling sleepy rather than alert when getting into bed.",
		},
	},
	{
		ID:          "unlearning_habits_guide",
		Tag:         TagMaladaptiveBehaviors,
		Title:       "Habits that keep insomnia going",
		Description: "Why napping, going to bed early and trying hard to sleep backfire.",
		Content: model.BookletContent{
			Summary: "Most things we do to get more sleep make sleep worse in the long run.",
			Problem: "Napping, early nights, lying in, clock-watching and forcing sleep all reduce sleep pressure or raise " +
				"arousal, so the next night is harder and the cycle continues.",
			Solution: "Stop compensating. Keep the schedule, skip naps, leave the bed when awake and let sleep come on its own.",
			Steps: []model.Step{
				{Title: "List your habits", Description: "Write down which compensating habits you use."},
				{Title: "Drop one per week", Description: "Start with naps or lie-ins, which have the biggest effect."},
				{Title: "Hide the clock", Description: "Turn the clock away from the bed."},
				{Title: "Stop trying", Description: "Replace effort with a boring, pleasant activity until sleepy."},
			},
			Tips: []string{"The first nights without compensating are the hardest; it gets easier after a week."},
		},
		Metadata: model.BookletMetadata{
			EstimatedTime:   "4 weeks",
			Difficulty:      "hard",
			ExpectedOutcome: "Breaking the cycle that keeps insomnia going.",
		},
	},
	{
		ID:          "medication_tapering_guide",
		Tag:         TagMedicationDependency,
		Title:       "Reducing sleep medication safely",
		Description: "How to work with your doctor towards sleeping without pills.",
		Content: model.BookletContent{
			Summary: "Sleep medication treats symptoms; reducing it safely needs a plan and medical support.",
			Problem: "Long-term use of sleeping pills brings tolerance and dependence, and stopping abruptly can cause rebound insomnia.",
			Solution: "Agree a gradual tapering schedule with your doctor while building the behavioural habits that support natural sleep.",
			Steps: []model.Step{
				{Title: "Talk to your doctor", Description: "Never change the dose without medical advice."},
				{Title: "Build habits first", Description: "Start with a fixed wake-up time before reducing anything."},
				{Title: "Taper slowly", Description: "Reduce in small steps, holding each step for one to two weeks."},
			},
			Tips: []string{"Expect some worse nights during each step; they pass."},
			Warnings: []string{
				"Stopping some sleep medications abruptly can be dangerous.",
				"This booklet does not replace medical advice.",
			},
			Resources: []model.Resource{
				{Title: "Talking to your GP about sleeping pills", URL: "https://www.nhs.uk/conditions/insomnia/"},
			},
		},
		Metadata: model.BookletMetadata{
			EstimatedTime:   "2-6 months",
			Difficulty:      "hard",
			ExpectedOutcome: "Sleeping with less or no medication.",
		},
	},
	{
		ID:          "prenatal_wellness_guide",
		Tag:         TagPrenatal,
		Title:       "Sleeping well during pregnancy",
		Description: "Gentle routines for the changes pregnancy brings to sleep.",
		Content: model.BookletContent{
			Summary: "Sleep changes during pregnancy are normal; a calm routine helps more than trying harder.",
			Problem: "Hormones, discomfort, night-time bathroom visits and worry about the baby all interrupt sleep.",
			Solution: "Keep a regular schedule, rest without pressure to sleep, and look after comfort and daytime activity.",
			Steps: []model.Step{
				{Title: "Side sleeping", Description: "Use pillows between the knees and under the bump."},
				{Title: "Evening fluids", Description: "Drink more earlier in the day and less in the last two hours."},
				{Title: "Daily movement", Description: "Walk or swim as your midwife recommends."},
			},
			Tips: []string{"Resting with eyes closed still helps; do not judge the night by hours slept."},
			Warnings: []string{
				"Do not take sleep aids or supplements without asking your doctor or midwife.",
				"Report loud snoring, leg restlessness or low mood to your care team.",
			},
		},
		Metadata: model.BookletMetadata{
			EstimatedTime:   "ongoing",
			Difficulty:      "easy",
			ExpectedOutcome: "More restful nights and less worry about sleep.",
		},
	},
	{
		ID:          "postpartum_rest_guide",
		Tag:         TagPostpartum,
		Title:       "Rest after birth",
		Description: "Protecting sleep when a newborn sets the schedule.",
		Content: model.BookletContent{
			Summary: "Broken nights are expected after birth; sharing the load protects your health.",
			Problem: "Night feeds fragment sleep, and anxiety can keep you awake even when the baby sleeps.",
			Solution: "Share night duties, protect one longer stretch of sleep and keep mornings bright and active.",
			Steps: []model.Step{
				{Title: "Split the night", Description: "Agree shifts with a partner so each gets one unbroken block."},
				{Title: "Bright mornings", Description: "Get outdoor light with the baby in the morning."},
			},
			Tips:     []string{"Accept help with household tasks so rest time is for rest."},
			Warnings: []string{"Talk to a doctor if low mood or anxiety lasts more than two weeks."},
		},
		Metadata: model.BookletMetadata{
			EstimatedTime:   "ongoing",
			Difficulty:      "medium",
			ExpectedOutcome: "Better recovery and steadier mood.",
		},
	},
	{
		ID:          "chronic_insomnia_guide",
		Tag:         TagChronicInsomnia,
		Title:       "Understanding long-term insomnia",
		Description: "What keeps insomnia going for years, and how to break the cycle.",
		Content: model.BookletContent{
			Summary: "Long-standing insomnia is kept alive by habits and worry, not by whatever started it.",
			Problem: "Over months the original trigger fades, but compensating habits and fear of sleeplessness remain.",
			Solution: "Work through the behavioural approach step by step: fixed schedule, less time in bed, no compensating, full days.",
			Steps: []model.Step{
				{Title: "Accept the timeline", Description: "Expect change over weeks, not nights."},
				{Title: "Follow one plan", Description: "Combine the schedule, bed and habit booklets into one routine."},
				{Title: "Review weekly", Description: "Look at the week, never at a single night."},
			},
			Tips: []string{"Structured programmes (CBT-I) have strong evidence for chronic insomnia."},
		},
		Metadata: model.BookletMetadata{
			EstimatedTime:   "6-8 weeks",
			Difficulty:      "hard",
			ExpectedOutcome: "Lasting improvement rather than night-to-night fluctuation.",
		},
	},
	{
		ID:          "letting_go_guide",
		Tag:         TagSleepAnxiety,
		Title:       "Letting go of sleep effort",
		Description: "Why worrying about sleep keeps you awake, and what to do instead.",
		Content: model.BookletContent{
			Summary: "Sleep cannot be forced; it comes when you stop chasing it.",
			Problem: "Worrying about tonight raises arousal, and every bad night confirms the worry.",
			Solution: "Treat wakefulness as harmless, focus on the day and stop monitoring sleep.",
			Steps: []model.Step{
				{Title: "Notice the worry", Description: "Write worries down in the early evening, then close the notebook."},
				{Title: "Change the goal", Description: "Aim to rest and live the day well, not to sleep a number of hours."},
				{Title: "Stop tracking", Description: "Pause sleep trackers and apps for a month."},
			},
			Tips: []string{"A tired day is unpleasant but manageable; you have managed many already."},
		},
		Metadata: model.BookletMetadata{
			EstimatedTime:   "3-4 weeks",
			Difficulty:      "medium",
			ExpectedOutcome: "Less fear of bedtime and easier sleep onset.",
		},
	},
	{
		ID:          "quiet_bedroom_guide",
		Tag:         TagNoiseIssues,
		Title:       "A quieter night",
		Description: "Reducing noise and how much it bothers you.",
		Content: model.BookletContent{
			Summary: "Noise wakes us more when we are already sleeping lightly.",
			Problem: "Traffic, neighbours or a snoring partner interrupt light sleep and keep you alert for noises.",
			Solution: "Reduce the noise you can and mask the rest, while deepening sleep with the other booklets.",
			Steps: []model.Step{
				{Title: "Earplugs", Description: "Try foam or wax earplugs for two weeks."},
				{Title: "Masking", Description: "Use a fan or steady background sound."},
				{Title: "Seal gaps", Description: "Heavy curtains and door seals help with street noise."},
			},
			Tips: []string{"Deeper sleep from a regular schedule makes noise less disruptive."},
		},
		Metadata: model.BookletMetadata{
			EstimatedTime:   "1 week",
			Difficulty:      "easy",
			ExpectedOutcome: "Fewer awakenings caused by noise.",
		},
	},
}

// Booklets returns the booklet library in declaration order
func Booklets() []model.Booklet {
	out := make([]model.Booklet, len(booklets))
	copy(out, booklets)
	return out
}
