package analyzer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/PULSECOACH/pulsecoach/internal/models"
)

type fakeStore struct {
	workouts   []models.WorkoutSession
	macros     []models.MacroEntry
	sleep      []models.SleepEntry
	wellness   []models.WellnessSurvey
	stress     []models.StressEntry
	activities []models.ActivityEntry
	err        error
}

func (f *fakeStore) WorkoutSessions(ctx context.Context, userID string, start, end time.Time) ([]models.WorkoutSession, error) {
	return f.workouts, f.err
}
func (f *fakeStore) MacroEntries(ctx context.Context, userID string, start, end time.Time) ([]models.MacroEntry, error) {
	return f.macros, f.err
}
func (f *fakeStore) SleepEntries(ctx context.Context, userID string, start, end time.Time) ([]models.SleepEntry, error) {
	return f.sleep, f.err
}
func (f *fakeStore) WellnessSurveys(ctx context.Context, userID string, start, end time.Time) ([]models.WellnessSurvey, error) {
	return f.wellness, f.err
}
func (f *fakeStore) StressEntries(ctx context.Context, userID string, start, end time.Time) ([]models.StressEntry, error) {
	return f.stress, f.err
}
func (f *fakeStore) ActivityEntries(ctx context.Context, userID string, start, end time.Time) ([]models.ActivityEntry, error) {
	return f.activities, f.err
}

func testBuilder(store *fakeStore) *Builder {
	return NewBuilder(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func weightPtr(w float64) *float64 { return &w }

func session(date, split string, setCounts ...int) models.WorkoutSession {
	s := models.WorkoutSession{Date: date, SplitName: split}
	for _, n := range setCounts {
		ex := models.Exercise{Name: "Row"}
		for i := 0; i < n; i++ {
			ex.Sets = append(ex.Sets, models.ExerciseSet{Reps: 10, Weight: weightPtr(60)})
		}
		s.Exercises = append(s.Exercises, ex)
	}
	return s
}

func TestBuildTrainingSummaryEmptyMonth(t *testing.T) {
	b := testBuilder(&fakeStore{})

	got, err := b.BuildTrainingSummary(context.Background(), "u1", 2024, 2)
	if err != nil {
		t.Fatalf("BuildTrainingSummary returned error: %v", err)
	}

	if got.TotalSessions != 0 {
		t.Errorf("expected 0 sessions, got %d", got.TotalSessions)
	}
	if got.SessionsPerWeek != 0 {
		t.Errorf("expected 0 sessions/week, got %v", got.SessionsPerWeek)
	}
	if got.Progression != models.TrendStable {
		t.Errorf("expected stable progression, got %q", got.Progression)
	}
	// Feb 2024 has 29 days: floor(29/7*4.5) = 18 expected sessions missed.
	if got.MissedSessions != 18 {
		t.Errorf("expected 18 missed sessions, got %d", got.MissedSessions)
	}
	if got.StartDate != "2024-02-01" || got.EndDate != "2024-02-29" {
		t.Errorf("unexpected month bounds: %s .. %s", got.StartDate, got.EndDate)
	}
	if got.TimeWindow != "February 2024" {
		t.Errorf("unexpected time window %q", got.TimeWindow)
	}
}

func TestBuildTrainingSummaryLeapFebruary(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 10; i++ {
		store.workouts = append(store.workouts, session("2024-02-05", "Push", 3))
	}
	b := testBuilder(store)

	got, err := b.BuildTrainingSummary(context.Background(), "u1", 2024, 2)
	if err != nil {
		t.Fatalf("BuildTrainingSummary returned error: %v", err)
	}

	if got.TotalSessions != 10 {
		t.Errorf("expected 10 sessions, got %d", got.TotalSessions)
	}
	if got.TotalSets != 30 {
		t.Errorf("expected 30 sets, got %d", got.TotalSets)
	}
	// 10 sessions over 29 days: 10/29*7 = 2.413..., rounded to one decimal.
	if got.SessionsPerWeek != 2.4 {
		t.Errorf("expected 2.4 sessions/week, got %v", got.SessionsPerWeek)
	}
	if got.AvgSetsPerSession != 3 {
		t.Errorf("expected 3 sets per session, got %v", got.AvgSetsPerSession)
	}
	if got.SplitDistribution["Push"] != 10 {
		t.Errorf("expected 10 Push sessions, got %d", got.SplitDistribution["Push"])
	}
}

func TestBuildTrainingSummaryProgression(t *testing.T) {
	tests := []struct {
		name     string
		sessions []models.WorkoutSession
		want     models.Trend
	}{
		{
			name: "increasing when recent volume exceeds early by over 10 percent",
			sessions: []models.WorkoutSession{
				session("2024-03-01", "A", 2), session("2024-03-05", "A", 2),
				session("2024-03-20", "A", 3), session("2024-03-25", "A", 3),
			},
			want: models.TrendIncreasing,
		},
		{
			name: "decreasing when recent volume drops below 90 percent",
			sessions: []models.WorkoutSession{
				session("2024-03-01", "A", 3), session("2024-03-05", "A", 3),
				session("2024-03-20", "A", 2), session("2024-03-25", "A", 2),
			},
			want: models.TrendDecreasing,
		},
		{
			name: "stable within the band",
			sessions: []models.WorkoutSession{
				session("2024-03-01", "A", 3), session("2024-03-05", "A", 3),
				session("2024-03-20", "A", 3), session("2024-03-25", "A", 3),
			},
			want: models.TrendStable,
		},
		{
			name: "stable below minimum sample",
			sessions: []models.WorkoutSession{
				session("2024-03-01", "A", 1), session("2024-03-25", "A", 9),
			},
			want: models.TrendStable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBuilder(&fakeStore{workouts: tt.sessions})
			got, err := b.BuildTrainingSummary(context.Background(), "u1", 2024, 3)
			if err != nil {
				t.Fatalf("BuildTrainingSummary returned error: %v", err)
			}
			if got.Progression != tt.want {
				t.Errorf("progression = %q, want %q", got.Progression, tt.want)
			}
		})
	}
}

func TestBuildTrainingSummaryCompoundLifts(t *testing.T) {
	store := &fakeStore{workouts: []models.WorkoutSession{
		{
			Date:      "2024-03-04",
			SplitName: "Legs",
			Exercises: []models.Exercise{
				{
					Name: "Back Squat",
					Sets: []models.ExerciseSet{
						{Reps: 5, Weight: weightPtr(100)},
						{Reps: 5, Weight: weightPtr(110)},
					},
				},
				{
					Name: "Leg Curl",
					Sets: []models.ExerciseSet{{Reps: 12, Weight: weightPtr(40)}},
				},
			},
		},
		{
			Date:      "2024-03-08",
			SplitName: "Push",
			Exercises: []models.Exercise{
				{
					// Bodyweight variation logged without weights.
					Name: "Bench Press (paused)",
					Sets: []models.ExerciseSet{{Reps: 8}, {Reps: 8}},
				},
			},
		},
	}}
	b := testBuilder(store)

	got, err := b.BuildTrainingSummary(context.Background(), "u1", 2024, 3)
	if err != nil {
		t.Fatalf("BuildTrainingSummary returned error: %v", err)
	}

	squat := got.CompoundLifts["Back Squat"]
	if len(squat) != 1 {
		t.Fatalf("expected 1 squat observation, got %d", len(squat))
	}
	if squat[0].Date != "2024-03-04" || squat[0].MaxWeight != 110 || squat[0].TotalReps != 10 {
		t.Errorf("unexpected squat observation: %+v", squat[0])
	}

	bench := got.CompoundLifts["Bench Press (paused)"]
	if len(bench) != 1 {
		t.Fatalf("expected 1 bench observation, got %d", len(bench))
	}
	if bench[0].MaxWeight != 0 || bench[0].TotalReps != 16 {
		t.Errorf("unexpected bench observation: %+v", bench[0])
	}

	if _, ok := got.CompoundLifts["Leg Curl"]; ok {
		t.Error("Leg Curl should not be tracked as a compound lift")
	}
}

func TestBuildNutritionSummaryNoData(t *testing.T) {
	tests := []struct {
		name   string
		macros []models.MacroEntry
	}{
		{name: "no records"},
		{
			name: "records without calories",
			macros: []models.MacroEntry{
				{Date: "2024-03-01", TotalProtein: 150},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBuilder(&fakeStore{macros: tt.macros})
			got, err := b.BuildNutritionSummary(context.Background(), "u1", 2024, 3)
			if err != nil {
				t.Fatalf("BuildNutritionSummary returned error: %v", err)
			}
			if got.Err != models.ErrNoNutritionData {
				t.Errorf("expected no-data marker, got %+v", got)
			}
		})
	}
}

func TestBuildNutritionSummaryConsistency(t *testing.T) {
	tests := []struct {
		name     string
		calories []float64
		want     models.Consistency
	}{
		{name: "identical intake is excellent", calories: []float64{2000, 2000, 2000}, want: models.ConsistencyExcellent},
		{name: "moderate spread is good", calories: []float64{1800, 2200}, want: models.ConsistencyGood},
		{name: "wide spread is variable", calories: []float64{1500, 2500}, want: models.ConsistencyVariable},
		{name: "single record is excellent", calories: []float64{2400}, want: models.ConsistencyExcellent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			for _, c := range tt.calories {
				store.macros = append(store.macros, models.MacroEntry{Date: "2024-03-01", TotalCalories: c})
			}
			b := testBuilder(store)

			got, err := b.BuildNutritionSummary(context.Background(), "u1", 2024, 3)
			if err != nil {
				t.Fatalf("BuildNutritionSummary returned error: %v", err)
			}
			if got.Consistency != tt.want {
				t.Errorf("consistency = %q, want %q", got.Consistency, tt.want)
			}
		})
	}
}

func TestBuildNutritionSummaryAverages(t *testing.T) {
	store := &fakeStore{macros: []models.MacroEntry{
		{Date: "2024-03-01", TotalCalories: 2000, TotalProtein: 150, TotalCarbs: 220, TotalFats: 60},
		{Date: "2024-03-02", TotalCalories: 2000, TotalProtein: 150},
		{Date: "2024-03-03", TotalProtein: 150}, // no calories, still counts as a logged day
	}}
	b := testBuilder(store)

	got, err := b.BuildNutritionSummary(context.Background(), "u1", 2024, 3)
	if err != nil {
		t.Fatalf("BuildNutritionSummary returned error: %v", err)
	}

	if got.DaysLogged != 3 {
		t.Errorf("expected 3 days logged, got %d", got.DaysLogged)
	}
	if got.AvgCalories != 2000 {
		t.Errorf("expected avg 2000 calories, got %d", got.AvgCalories)
	}
	if got.AvgProtein != 150 {
		t.Errorf("expected avg 150 protein, got %d", got.AvgProtein)
	}
	if got.CaloriesRange != [2]float64{2000, 2000} {
		t.Errorf("unexpected calories range %v", got.CaloriesRange)
	}
	// 150g protein * 4 kcal/g out of 2000 kcal = 30% of intake.
	if got.ProteinRatio != 30 {
		t.Errorf("expected protein ratio 30, got %v", got.ProteinRatio)
	}
	if got.AvgCarbs != 220 || got.AvgFats != 60 {
		t.Errorf("unexpected carb/fat averages: %d / %d", got.AvgCarbs, got.AvgFats)
	}
}

func TestBuildRecoverySummaryNoData(t *testing.T) {
	b := testBuilder(&fakeStore{})

	got, err := b.BuildRecoverySummary(context.Background(), "u1", 2024, 3)
	if err != nil {
		t.Fatalf("BuildRecoverySummary returned error: %v", err)
	}
	if got.Err != models.ErrNoRecoveryData {
		t.Errorf("expected no-data marker, got %+v", got)
	}
}

func TestBuildRecoverySummarySleepOnly(t *testing.T) {
	store := &fakeStore{sleep: []models.SleepEntry{
		{Date: "2024-03-01", HoursSlept: 6, Quality: 6},
		{Date: "2024-03-05", HoursSlept: 6, Quality: 7},
		{Date: "2024-03-10", HoursSlept: 8, Quality: 8},
		{Date: "2024-03-15", HoursSlept: 8, Quality: 8},
	}}
	b := testBuilder(store)

	got, err := b.BuildRecoverySummary(context.Background(), "u1", 2024, 3)
	if err != nil {
		t.Fatalf("BuildRecoverySummary returned error: %v", err)
	}

	if got.Err != "" {
		t.Fatalf("sleep data alone should produce a summary, got marker %q", got.Err)
	}
	if got.AvgSleepHours != 7 {
		t.Errorf("expected avg 7 hours, got %v", got.AvgSleepHours)
	}
	if got.SleepTrend != models.TrendImproving {
		t.Errorf("expected improving sleep trend, got %q", got.SleepTrend)
	}
	if got.SleepRange != [2]float64{6, 8} {
		t.Errorf("unexpected sleep range %v", got.SleepRange)
	}
	if got.FatigueTrend != models.TrendStable {
		t.Errorf("expected stable fatigue trend with no surveys, got %q", got.FatigueTrend)
	}
	if got.AvgFatigue != 0 {
		t.Errorf("expected zero fatigue with no surveys, got %v", got.AvgFatigue)
	}
}

func TestBuildRecoverySummaryFatigueTrend(t *testing.T) {
	store := &fakeStore{wellness: []models.WellnessSurvey{
		{Date: "2024-03-01", Fatigue: 8, Energy: 4},
		{Date: "2024-03-08", Fatigue: 8, Energy: 4},
		{Date: "2024-03-20", Fatigue: 3, Energy: 7},
		{Date: "2024-03-27", Fatigue: 3, Energy: 7},
	}}
	b := testBuilder(store)

	got, err := b.BuildRecoverySummary(context.Background(), "u1", 2024, 3)
	if err != nil {
		t.Fatalf("BuildRecoverySummary returned error: %v", err)
	}

	if got.FatigueTrend != models.TrendDecreasing {
		t.Errorf("expected decreasing fatigue trend, got %q", got.FatigueTrend)
	}
	if got.AvgFatigue != 5.5 {
		t.Errorf("expected avg fatigue 5.5, got %v", got.AvgFatigue)
	}
	if got.AvgEnergy != 5.5 {
		t.Errorf("expected avg energy 5.5, got %v", got.AvgEnergy)
	}
}

func TestBuildLifestyleSummaryDefaults(t *testing.T) {
	b := testBuilder(&fakeStore{})

	got, err := b.BuildLifestyleSummary(context.Background(), "u1", 2024, 3)
	if err != nil {
		t.Fatalf("BuildLifestyleSummary returned error: %v", err)
	}

	if got.AvgStress != 5 {
		t.Errorf("expected neutral stress 5, got %v", got.AvgStress)
	}
	if got.HighStressDays != 0 {
		t.Errorf("expected 0 high-stress days, got %d", got.HighStressDays)
	}
	if got.AvgSteps != 0 || got.ActiveDays != 0 {
		t.Errorf("expected zero activity, got steps %d active %d", got.AvgSteps, got.ActiveDays)
	}
}

func TestBuildLifestyleSummaryAggregation(t *testing.T) {
	nine := 9
	store := &fakeStore{
		stress: []models.StressEntry{
			{Date: "2024-03-01", Level: &nine},
			{Date: "2024-03-02", Level: &nine},
			{Date: "2024-03-03"}, // level not logged, counts as neutral
		},
		activities: []models.ActivityEntry{
			{Date: "2024-03-01", Steps: 10000},
			{Date: "2024-03-02", Steps: 2000},
		},
	}
	b := testBuilder(store)

	got, err := b.BuildLifestyleSummary(context.Background(), "u1", 2024, 3)
	if err != nil {
		t.Fatalf("BuildLifestyleSummary returned error: %v", err)
	}

	if got.AvgStress != 7.7 {
		t.Errorf("expected avg stress 7.7, got %v", got.AvgStress)
	}
	if got.HighStressDays != 2 {
		t.Errorf("expected 2 high-stress days, got %d", got.HighStressDays)
	}
	if got.AvgSteps != 6000 {
		t.Errorf("expected avg 6000 steps, got %d", got.AvgSteps)
	}
	if got.ActiveDays != 1 {
		t.Errorf("expected 1 active day, got %d", got.ActiveDays)
	}
}

func TestBuildCompleteSummary(t *testing.T) {
	store := &fakeStore{
		workouts: []models.WorkoutSession{session("2024-03-04", "Pull", 4)},
		macros:   []models.MacroEntry{{Date: "2024-03-04", TotalCalories: 2200, TotalProtein: 160}},
		sleep:    []models.SleepEntry{{Date: "2024-03-04", HoursSlept: 7.5}},
	}
	b := testBuilder(store)

	got, err := b.BuildCompleteSummary(context.Background(), "u1", 2024, 3)
	if err != nil {
		t.Fatalf("BuildCompleteSummary returned error: %v", err)
	}

	if got.UserID != "u1" {
		t.Errorf("unexpected user id %q", got.UserID)
	}
	if got.AnalysisPeriod != "March 2024" {
		t.Errorf("unexpected period %q", got.AnalysisPeriod)
	}
	if got.Training.TotalSessions != 1 {
		t.Errorf("expected 1 session, got %d", got.Training.TotalSessions)
	}
	if got.Nutrition.AvgCalories != 2200 {
		t.Errorf("expected 2200 calories, got %d", got.Nutrition.AvgCalories)
	}
	if got.Recovery.AvgSleepHours != 7.5 {
		t.Errorf("expected 7.5 sleep hours, got %v", got.Recovery.AvgSleepHours)
	}
	if got.Lifestyle.AvgStress != 5 {
		t.Errorf("expected neutral stress, got %v", got.Lifestyle.AvgStress)
	}
}

func TestBuildCompleteSummaryPropagatesStoreError(t *testing.T) {
	b := testBuilder(&fakeStore{err: errors.New("connection reset")})

	if _, err := b.BuildCompleteSummary(context.Background(), "u1", 2024, 3); err == nil {
		t.Fatal("expected error from failing store")
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		year, month int
		end         string
		days        int
	}{
		{2024, 2, "2024-02-29", 29},
		{2023, 2, "2023-02-28", 28},
		{2024, 12, "2024-12-31", 31},
		{2024, 4, "2024-04-30", 30},
	}

	for _, tt := range tests {
		_, end, days := monthRange(tt.year, tt.month)
		if end.Format("2006-01-02") != tt.end {
			t.Errorf("monthRange(%d, %d) end = %s, want %s", tt.year, tt.month, end.Format("2006-01-02"), tt.end)
		}
		if days != tt.days {
			t.Errorf("monthRange(%d, %d) days = %d, want %d", tt.year, tt.month, days, tt.days)
		}
	}
}
