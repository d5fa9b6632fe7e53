package models

import "encoding/json"

// Collection names for the per-user record store. These mirror the logging
// surfaces the mobile/web clients write to.
const (
	CollectionWorkoutSessions    = "workout_sessions"
	CollectionMacros             = "macros"
	CollectionSleep              = "sleep"
	CollectionWellnessSurvey     = "wellness_survey"
	CollectionStress             = "stress"
	CollectionPhysicalActivities = "physical_activities"
	CollectionHydration          = "hydration"
	CollectionSplits             = "splits"
	CollectionBodyFeelings       = "body_feelings"
	CollectionUserProfile        = "user_profile"
)

// KnownCollections lists every collection the records API accepts.
var KnownCollections = map[string]bool{
	CollectionWorkoutSessions:    true,
	CollectionMacros:             true,
	CollectionSleep:              true,
	CollectionWellnessSurvey:     true,
	CollectionStress:             true,
	CollectionPhysicalActivities: true,
	CollectionHydration:          true,
	CollectionSplits:             true,
	CollectionBodyFeelings:       true,
	CollectionUserProfile:        true,
}

// ProfileDocumentID is the fixed document id of the single user-profile
// document inside the user_profile collection.
const ProfileDocumentID = "profile"

// Document is a raw stored record: an opaque id plus a loosely structured
// JSON payload. Dates are ISO "YYYY-MM-DD" strings throughout.
type Document struct {
	ID         string          `json:"id"`
	Collection string          `json:"collection"`
	Date       string          `json:"date,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

// WorkoutSession is a logged training session with its exercises.
type WorkoutSession struct {
	ID        string     `json:"id,omitempty"`
	Date      string     `json:"date"`
	SplitName string     `json:"split_name,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Exercises []Exercise `json:"exercises,omitempty"`
}

// Exercise is one movement within a workout session.
type Exercise struct {
	Name string        `json:"exercise_name"`
	Sets []ExerciseSet `json:"sets,omitempty"`
}

// ExerciseSet is a single set. Weight is a pointer because bodyweight work
// is logged without one; aggregation treats absent as zero.
type ExerciseSet struct {
	Reps   int      `json:"reps"`
	Weight *float64 `json:"weight,omitempty"`
}

// MacroEntry is a daily nutrition log. Zero values mean "not logged" for
// that macro, matching how the clients omit untracked fields.
type MacroEntry struct {
	ID            string  `json:"id,omitempty"`
	Date          string  `json:"date"`
	TotalCalories float64 `json:"total_calories,omitempty"`
	TotalProtein  float64 `json:"total_protein,omitempty"`
	TotalCarbs    float64 `json:"total_carbs,omitempty"`
	TotalFats     float64 `json:"total_fats,omitempty"`
}

// SleepEntry is a nightly sleep log.
type SleepEntry struct {
	ID         string  `json:"id,omitempty"`
	Date       string  `json:"date"`
	HoursSlept float64 `json:"hours_slept,omitempty"`
	Quality    float64 `json:"quality,omitempty"`
}

// WellnessSurvey is a subjective daily check-in, all on 1-10 scales.
type WellnessSurvey struct {
	ID        string  `json:"id,omitempty"`
	Date      string  `json:"date"`
	Fatigue   float64 `json:"fatigue,omitempty"`
	Energy    float64 `json:"energy,omitempty"`
	BodyAches float64 `json:"body_aches,omitempty"`
}

// StressEntry is a daily stress log. Level is a pointer: an entry logged
// without a level counts as neutral (5) in aggregation.
type StressEntry struct {
	ID    string `json:"id,omitempty"`
	Date  string `json:"date"`
	Level *int   `json:"level,omitempty"`
}

// ActivityEntry is a daily physical-activity log (steps etc.).
type ActivityEntry struct {
	ID           string `json:"id,omitempty"`
	Date         string `json:"date"`
	Steps        int    `json:"steps,omitempty"`
	ActivityType string `json:"activity_type,omitempty"`
}
