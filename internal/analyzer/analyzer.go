package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/PULSECOACH/pulsecoach/internal/models"
)

// RecordStore provides the per-category record fetches the builder needs.
// Implementations must return only records whose date falls inside the
// inclusive [start, end] range, in chronological order.
type RecordStore interface {
	WorkoutSessions(ctx context.Context, userID string, start, end time.Time) ([]models.WorkoutSession, error)
	MacroEntries(ctx context.Context, userID string, start, end time.Time) ([]models.MacroEntry, error)
	SleepEntries(ctx context.Context, userID string, start, end time.Time) ([]models.SleepEntry, error)
	WellnessSurveys(ctx context.Context, userID string, start, end time.Time) ([]models.WellnessSurvey, error)
	StressEntries(ctx context.Context, userID string, start, end time.Time) ([]models.StressEntry, error)
	ActivityEntries(ctx context.Context, userID string, start, end time.Time) ([]models.ActivityEntry, error)
}

// Builder reduces a month of raw logs into a MonthlySummary. It holds no
// state between calls; store faults propagate to the caller untouched.
type Builder struct {
	store  RecordStore
	logger *slog.Logger
}

// NewBuilder constructs a Builder around the given store.
func NewBuilder(store RecordStore, logger *slog.Logger) *Builder {
	return &Builder{store: store, logger: logger}
}

// Exercise names containing any of these substrings are tracked per-session
// as compound lifts.
var compoundLifts = []string{"Deadlift", "Squat", "Bench Press"}

const (
	// Progression and trend classification need at least this many points.
	minTrendPoints = 4

	// Sessions per week a fully adherent month is expected to hit.
	expectedWeeklySessions = 4.5

	highStressThreshold = 7
	activeDaySteps      = 5000
)

// monthRange returns the inclusive calendar bounds of a month and its length
// in days.
func monthRange(year, month int) (start, end time.Time, days int) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)
	return start, end, end.Day()
}

func timeWindow(year, month int) string {
	return fmt.Sprintf("%s %d", time.Month(month).String(), year)
}

// BuildCompleteSummary fetches and reduces all four categories for the given
// user-month. The category builds are independent and run concurrently; the
// first store fault aborts the whole summary.
func (b *Builder) BuildCompleteSummary(ctx context.Context, userID string, year, month int) (*models.MonthlySummary, error) {
	summary := &models.MonthlySummary{
		UserID:         userID,
		AnalysisPeriod: timeWindow(year, month),
	}

	type part struct {
		name string
		err  error
	}
	results := make(chan part, 4)

	go func() {
		var err error
		summary.Training, err = b.BuildTrainingSummary(ctx, userID, year, month)
		results <- part{"training", err}
	}()
	go func() {
		var err error
		summary.Nutrition, err = b.BuildNutritionSummary(ctx, userID, year, month)
		results <- part{"nutrition", err}
	}()
	go func() {
		var err error
		summary.Recovery, err = b.BuildRecoverySummary(ctx, userID, year, month)
		results <- part{"recovery", err}
	}()
	go func() {
		var err error
		summary.Lifestyle, err = b.BuildLifestyleSummary(ctx, userID, year, month)
		results <- part{"lifestyle", err}
	}()

	var firstErr error
	for i := 0; i < 4; i++ {
		res := <-results
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s summary: %w", res.name, res.err)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	b.logger.Debug("built monthly summary",
		"user_id", userID,
		"period", summary.AnalysisPeriod,
		"sessions", summary.Training.TotalSessions)

	return summary, nil
}

// BuildTrainingSummary aggregates workout sessions for a month.
func (b *Builder) BuildTrainingSummary(ctx context.Context, userID string, year, month int) (models.TrainingSummary, error) {
	start, end, days := monthRange(year, month)

	workouts, err := b.store.WorkoutSessions(ctx, userID, start, end)
	if err != nil {
		return models.TrainingSummary{}, fmt.Errorf("fetch workout sessions: %w", err)
	}

	totalSessions := len(workouts)
	sessionsPerWeek := 0.0
	if days > 0 {
		sessionsPerWeek = float64(totalSessions) / float64(days) * 7
	}

	splitDistribution := make(map[string]int)
	for _, w := range workouts {
		name := w.SplitName
		if name == "" {
			name = "Unknown"
		}
		splitDistribution[name]++
	}

	totalSets := 0
	totalReps := 0
	compound := make(map[string][]models.LiftObservation)

	for _, w := range workouts {
		for _, ex := range w.Exercises {
			totalSets += len(ex.Sets)
			reps := 0
			maxWeight := 0.0
			for _, s := range ex.Sets {
				reps += s.Reps
				if s.Weight != nil && *s.Weight > maxWeight {
					maxWeight = *s.Weight
				}
			}
			totalReps += reps

			if isCompoundLift(ex.Name) {
				compound[ex.Name] = append(compound[ex.Name], models.LiftObservation{
					Date:      w.Date,
					MaxWeight: maxWeight,
					TotalReps: reps,
				})
			}
		}
	}

	progression := models.TrendStable
	if totalSessions >= minTrendPoints {
		mid := totalSessions / 2
		earlyVolume := sessionSetVolume(workouts[:mid])
		recentVolume := sessionSetVolume(workouts[mid:])
		switch {
		case float64(recentVolume) > float64(earlyVolume)*1.1:
			progression = models.TrendIncreasing
		case float64(recentVolume) < float64(earlyVolume)*0.9:
			progression = models.TrendDecreasing
		}
	}

	expected := float64(days) / 7 * expectedWeeklySessions
	missed := int(math.Floor(expected - float64(totalSessions)))
	if missed < 0 {
		missed = 0
	}

	avgSets := 0.0
	if totalSessions > 0 {
		avgSets = round1(float64(totalSets) / float64(totalSessions))
	}

	return models.TrainingSummary{
		TimeWindow:        timeWindow(year, month),
		StartDate:         start.Format("2006-01-02"),
		EndDate:           end.Format("2006-01-02"),
		TotalSessions:     totalSessions,
		SessionsPerWeek:   round1(sessionsPerWeek),
		SplitDistribution: splitDistribution,
		TotalSets:         totalSets,
		TotalReps:         totalReps,
		AvgSetsPerSession: avgSets,
		Progression:       progression,
		MissedSessions:    missed,
		CompoundLifts:     compound,
	}, nil
}

func isCompoundLift(name string) bool {
	for _, lift := range compoundLifts {
		if strings.Contains(name, lift) {
			return true
		}
	}
	return false
}

func sessionSetVolume(workouts []models.WorkoutSession) int {
	volume := 0
	for _, w := range workouts {
		for _, ex := range w.Exercises {
			volume += len(ex.Sets)
		}
	}
	return volume
}

// BuildNutritionSummary aggregates macro logs. A record contributes to each
// macro independently; a month without any calorie-bearing records yields
// the no-data marker rather than zeros.
func (b *Builder) BuildNutritionSummary(ctx context.Context, userID string, year, month int) (models.NutritionSummary, error) {
	start, end, _ := monthRange(year, month)

	macros, err := b.store.MacroEntries(ctx, userID, start, end)
	if err != nil {
		return models.NutritionSummary{}, fmt.Errorf("fetch macro entries: %w", err)
	}

	if len(macros) == 0 {
		return models.NutritionSummary{Err: models.ErrNoNutritionData}, nil
	}

	var calories, protein, carbs, fats []float64
	for _, m := range macros {
		if m.TotalCalories > 0 {
			calories = append(calories, m.TotalCalories)
		}
		if m.TotalProtein > 0 {
			protein = append(protein, m.TotalProtein)
		}
		if m.TotalCarbs > 0 {
			carbs = append(carbs, m.TotalCarbs)
		}
		if m.TotalFats > 0 {
			fats = append(fats, m.TotalFats)
		}
	}

	if len(calories) == 0 {
		return models.NutritionSummary{Err: models.ErrNoNutritionData}, nil
	}

	calStd := popStdDev(calories)
	consistency := models.ConsistencyVariable
	switch {
	case calStd < 150:
		consistency = models.ConsistencyExcellent
	case calStd < 250:
		consistency = models.ConsistencyGood
	}

	proteinRatio := 0.0
	if len(protein) > 0 {
		proteinRatio = round1(mean(protein) * 4 / mean(calories) * 100)
	}

	return models.NutritionSummary{
		TimeWindow:    timeWindow(year, month),
		DaysLogged:    len(macros),
		AvgCalories:   int(math.Round(mean(calories))),
		CaloriesRange: [2]float64{minOf(calories), maxOf(calories)},
		AvgProtein:    int(math.Round(meanOrZero(protein))),
		AvgCarbs:      int(math.Round(meanOrZero(carbs))),
		AvgFats:       int(math.Round(meanOrZero(fats))),
		Consistency:   consistency,
		ProteinRatio:  proteinRatio,
	}, nil
}

// BuildRecoverySummary combines sleep logs and wellness surveys. Either
// source alone suffices; individual metrics default to zero when absent.
func (b *Builder) BuildRecoverySummary(ctx context.Context, userID string, year, month int) (models.RecoverySummary, error) {
	start, end, _ := monthRange(year, month)

	sleep, err := b.store.SleepEntries(ctx, userID, start, end)
	if err != nil {
		return models.RecoverySummary{}, fmt.Errorf("fetch sleep entries: %w", err)
	}
	wellness, err := b.store.WellnessSurveys(ctx, userID, start, end)
	if err != nil {
		return models.RecoverySummary{}, fmt.Errorf("fetch wellness surveys: %w", err)
	}

	if len(sleep) == 0 && len(wellness) == 0 {
		return models.RecoverySummary{Err: models.ErrNoRecoveryData}, nil
	}

	var sleepHours, sleepQuality []float64
	for _, s := range sleep {
		if s.HoursSlept > 0 {
			sleepHours = append(sleepHours, s.HoursSlept)
		}
		if s.Quality > 0 {
			sleepQuality = append(sleepQuality, s.Quality)
		}
	}

	var fatigue, energy, bodyAches []float64
	for _, w := range wellness {
		if w.Fatigue > 0 {
			fatigue = append(fatigue, w.Fatigue)
		}
		if w.Energy > 0 {
			energy = append(energy, w.Energy)
		}
		if w.BodyAches > 0 {
			bodyAches = append(bodyAches, w.BodyAches)
		}
	}

	sleepTrend := models.TrendStable
	if len(sleepHours) >= minTrendPoints {
		mid := len(sleepHours) / 2
		early := mean(sleepHours[:mid])
		recent := mean(sleepHours[mid:])
		switch {
		case recent < early-0.5:
			sleepTrend = models.TrendDeclining
		case recent > early+0.5:
			sleepTrend = models.TrendImproving
		}
	}

	fatigueTrend := models.TrendStable
	if len(fatigue) >= minTrendPoints {
		mid := len(fatigue) / 2
		early := mean(fatigue[:mid])
		recent := mean(fatigue[mid:])
		switch {
		case recent > early+1:
			fatigueTrend = models.TrendIncreasing
		case recent < early-1:
			fatigueTrend = models.TrendDecreasing
		}
	}

	sleepRange := [2]float64{0, 0}
	if len(sleepHours) > 0 {
		sleepRange = [2]float64{round1(minOf(sleepHours)), round1(maxOf(sleepHours))}
	}

	return models.RecoverySummary{
		TimeWindow:      timeWindow(year, month),
		AvgSleepHours:   round1(meanOrZero(sleepHours)),
		SleepRange:      sleepRange,
		AvgSleepQuality: round1(meanOrZero(sleepQuality)),
		SleepTrend:      sleepTrend,
		AvgFatigue:      round1(meanOrZero(fatigue)),
		FatigueTrend:    fatigueTrend,
		AvgEnergy:       round1(meanOrZero(energy)),
		AvgBodyAches:    round1(meanOrZero(bodyAches)),
	}, nil
}

// BuildLifestyleSummary aggregates stress and daily-activity logs. Missing
// data degrades to neutral defaults; this category never errors.
func (b *Builder) BuildLifestyleSummary(ctx context.Context, userID string, year, month int) (models.LifestyleSummary, error) {
	start, end, _ := monthRange(year, month)

	stress, err := b.store.StressEntries(ctx, userID, start, end)
	if err != nil {
		return models.LifestyleSummary{}, fmt.Errorf("fetch stress entries: %w", err)
	}
	activities, err := b.store.ActivityEntries(ctx, userID, start, end)
	if err != nil {
		return models.LifestyleSummary{}, fmt.Errorf("fetch activity entries: %w", err)
	}

	// No stress logs at all reads as neutral, not as zero stress.
	stressLevels := []float64{5}
	if len(stress) > 0 {
		stressLevels = stressLevels[:0]
		for _, s := range stress {
			level := 5
			if s.Level != nil {
				level = *s.Level
			}
			stressLevels = append(stressLevels, float64(level))
		}
	}

	highStressDays := 0
	for _, level := range stressLevels {
		if level >= highStressThreshold {
			highStressDays++
		}
	}

	steps := []float64{0}
	if len(activities) > 0 {
		steps = steps[:0]
		for _, a := range activities {
			if a.Steps > 0 {
				steps = append(steps, float64(a.Steps))
			}
		}
	}

	activeDays := 0
	for _, s := range steps {
		if s > activeDaySteps {
			activeDays++
		}
	}

	return models.LifestyleSummary{
		TimeWindow:     timeWindow(year, month),
		AvgStress:      round1(mean(stressLevels)),
		HighStressDays: highStressDays,
		AvgSteps:       int(math.Round(meanOrZero(steps))),
		ActiveDays:     activeDays,
	}, nil
}
