package models

import "encoding/json"

// Trend classifies the direction of a metric across a month.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
	TrendImproving  Trend = "improving"
	TrendDeclining  Trend = "declining"
)

// Consistency classifies calorie logging variability.
type Consistency string

const (
	ConsistencyExcellent Consistency = "excellent"
	ConsistencyGood      Consistency = "good"
	ConsistencyVariable  Consistency = "variable"
)

// ErrNoNutritionData and ErrNoRecoveryData are the soft "no data" markers.
// They are not failures: the coach passes them through to the model as-is.
const (
	ErrNoNutritionData = "No nutrition data available"
	ErrNoRecoveryData  = "No recovery data available"
)

// MonthlySummary is the derived monthly aggregate fed to the AI coach.
// It is recomputed on every request and never cached.
type MonthlySummary struct {
	UserID         string           `json:"user_id"`
	AnalysisPeriod string           `json:"analysis_period"`
	Training       TrainingSummary  `json:"training"`
	Nutrition      NutritionSummary `json:"nutrition"`
	Recovery       RecoverySummary  `json:"recovery"`
	Lifestyle      LifestyleSummary `json:"lifestyle"`
}

// LiftObservation records one session's best effort on a compound lift.
type LiftObservation struct {
	Date      string  `json:"date"`
	MaxWeight float64 `json:"max_weight"`
	TotalReps int     `json:"total_reps"`
}

// TrainingSummary aggregates workout sessions for a month. Empty months are
// valid and produce zeroed fields, not an error.
type TrainingSummary struct {
	TimeWindow        string                       `json:"time_window"`
	StartDate         string                       `json:"start_date"`
	EndDate           string                       `json:"end_date"`
	TotalSessions     int                          `json:"total_sessions"`
	SessionsPerWeek   float64                      `json:"sessions_per_week"`
	SplitDistribution map[string]int               `json:"split_distribution"`
	TotalSets         int                          `json:"total_sets"`
	TotalReps         int                          `json:"total_reps"`
	AvgSetsPerSession float64                      `json:"avg_sets_per_session"`
	Progression       Trend                        `json:"progression"`
	MissedSessions    int                          `json:"missed_sessions"`
	CompoundLifts     map[string][]LiftObservation `json:"compound_lifts"`
}

// NutritionSummary aggregates macro logs. When no calorie-bearing records
// exist the summary carries only an error marker; MarshalJSON emits it as
// {"error": "..."} so downstream prompt assembly sees an explicit signal
// instead of zeros that look like real intake.
type NutritionSummary struct {
	TimeWindow    string      `json:"time_window"`
	DaysLogged    int         `json:"days_logged"`
	AvgCalories   int         `json:"avg_calories"`
	CaloriesRange [2]float64  `json:"calories_range"`
	AvgProtein    int         `json:"avg_protein"`
	AvgCarbs      int         `json:"avg_carbs"`
	AvgFats       int         `json:"avg_fats"`
	Consistency   Consistency `json:"consistency"`
	ProteinRatio  float64     `json:"protein_ratio"`

	Err string `json:"-"`
}

func (n NutritionSummary) MarshalJSON() ([]byte, error) {
	if n.Err != "" {
		return json.Marshal(map[string]string{"error": n.Err})
	}
	type plain NutritionSummary
	return json.Marshal(plain(n))
}

func (n *NutritionSummary) UnmarshalJSON(data []byte) error {
	var marker struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &marker); err == nil && marker.Error != "" {
		n.Err = marker.Error
		return nil
	}
	type plain NutritionSummary
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*n = NutritionSummary(p)
	return nil
}

// RecoverySummary aggregates sleep logs and wellness surveys. Either source
// alone is enough to produce a summary; the error marker appears only when
// both are empty for the month.
type RecoverySummary struct {
	TimeWindow      string     `json:"time_window"`
	AvgSleepHours   float64    `json:"avg_sleep_hours"`
	SleepRange      [2]float64 `json:"sleep_range"`
	AvgSleepQuality float64    `json:"avg_sleep_quality"`
	SleepTrend      Trend      `json:"sleep_trend"`
	AvgFatigue      float64    `json:"avg_fatigue"`
	FatigueTrend    Trend      `json:"fatigue_trend"`
	AvgEnergy       float64    `json:"avg_energy"`
	AvgBodyAches    float64    `json:"avg_body_aches"`

	Err string `json:"-"`
}

func (r RecoverySummary) MarshalJSON() ([]byte, error) {
	if r.Err != "" {
		return json.Marshal(map[string]string{"error": r.Err})
	}
	type plain RecoverySummary
	return json.Marshal(plain(r))
}

func (r *RecoverySummary) UnmarshalJSON(data []byte) error {
	var marker struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &marker); err == nil && marker.Error != "" {
		r.Err = marker.Error
		return nil
	}
	type plain RecoverySummary
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = RecoverySummary(p)
	return nil
}

// LifestyleSummary aggregates stress and daily-activity logs. It never
// carries an error marker: empty input degrades to neutral defaults.
type LifestyleSummary struct {
	TimeWindow     string  `json:"time_window"`
	AvgStress      float64 `json:"avg_stress"`
	HighStressDays int     `json:"high_stress_days"`
	AvgSteps       int     `json:"avg_steps"`
	ActiveDays     int     `json:"active_days"`
}
