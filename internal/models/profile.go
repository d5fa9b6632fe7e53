package models

// RawProfile is the loosely structured onboarding questionnaire as stored in
// the user_profile collection. Nearly everything is optional; pointers and
// zero values distinguish "not answered" from real answers where it matters.
type RawProfile struct {
	HeightCm *float64 `json:"height_cm,omitempty"`
	HeightFt *int     `json:"height_ft,omitempty"`
	HeightIn *int     `json:"height_in,omitempty"`
	Weight   *float64 `json:"weight,omitempty"`
	Age      *int     `json:"age,omitempty"`
	Gender   string   `json:"gender,omitempty"`

	PrimaryGoal       string   `json:"primary_goal,omitempty"`
	PrimaryGoalCustom string   `json:"primary_goal_custom,omitempty"`
	SecondaryGoals    []string `json:"secondary_goals,omitempty"`
	TimeHorizon       string   `json:"time_horizon,omitempty"`

	WorkSchoolHours       string `json:"work_school_hours,omitempty"`
	BusyLevel             *int   `json:"busy_level,omitempty"`
	FamilyObligations     bool   `json:"family_obligations,omitempty"`
	FamilyObligationsNote string `json:"family_obligations_note,omitempty"`
	TypicalStressLevel    *int   `json:"typical_stress_level,omitempty"`
	StressFluctuates      bool   `json:"stress_fluctuates,omitempty"`

	ExperienceLevel         string   `json:"experience_level,omitempty"`
	TrainingHistoryStyle    []string `json:"training_history_style,omitempty"`
	TrainingHistoryNotes    string   `json:"training_history_notes,omitempty"`
	CoachingStylePreference string   `json:"coaching_style_preference,omitempty"`

	PreferredSessionLength    string `json:"preferred_session_length,omitempty"`
	PreferredWorkoutFrequency string `json:"preferred_workout_frequency,omitempty"`
	PreferredWorkoutTime      string `json:"preferred_workout_time,omitempty"`

	DietaryPreference      string `json:"dietary_preference,omitempty"`
	DietaryPreferenceOther string `json:"dietary_preference_other,omitempty"`
	WillingnessToTrack     string `json:"willingness_to_track,omitempty"`

	ProgressFeeling string `json:"progress_feeling,omitempty"`
	BiggestBlocker  string `json:"biggest_blocker,omitempty"`
	OpenReflection  string `json:"open_reflection,omitempty"`
}

// CoachingProfile is the normalized personalization block embedded in every
// prompt sent to the language model.
type CoachingProfile struct {
	PhysicalStats    string             `json:"physical_stats,omitempty"`
	Goal             string             `json:"goal"`
	Priority         string             `json:"priority"`
	Constraints      []string           `json:"constraints"`
	ExperienceLevel  string             `json:"experience_level"`
	TrainingStyle    string             `json:"training_style"`
	Preferences      ProfilePreferences `json:"preferences"`
	NutritionContext string             `json:"nutrition_context,omitempty"`
	Mindset          string             `json:"mindset,omitempty"`
}

// ProfilePreferences holds scheduling and session preferences; every field
// has a default, DurationNote only appears when derivable.
type ProfilePreferences struct {
	WorkoutDuration   string `json:"workout_duration"`
	DurationNote      string `json:"duration_note,omitempty"`
	TrainingFrequency string `json:"training_frequency"`
	PreferredTime     string `json:"preferred_time"`
}
