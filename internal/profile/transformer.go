// Package profile normalizes the loosely structured onboarding
// questionnaire into the coaching profile embedded in AI prompts.
package profile

import (
	"fmt"
	"strings"

	"github.com/PULSECOACH/pulsecoach/internal/models"
)

const (
	defaultGoal          = "Get strong and build muscle"
	defaultPriority      = "Long-term consistency over short-term aesthetics"
	defaultConstraint    = "Busy work schedule"
	defaultTrainingStyle = "Prefers efficient sessions with progressive overload"
	defaultExperience    = "intermediate"
	defaultDuration      = "45-60 minutes"
	defaultFrequency     = "4-5 days per week"
)

// Default returns the fixed profile used when a user has not filled out the
// questionnaire. Callers get a fresh value each time; mutating it is safe.
func Default() models.CoachingProfile {
	return models.CoachingProfile{
		Goal:            defaultGoal,
		Priority:        defaultPriority,
		Constraints:     []string{defaultConstraint},
		ExperienceLevel: defaultExperience,
		TrainingStyle:   defaultTrainingStyle,
		Preferences: models.ProfilePreferences{
			WorkoutDuration:   defaultDuration,
			TrainingFrequency: defaultFrequency,
			PreferredTime:     "evening",
		},
	}
}

// Transform normalizes a raw profile field by field, falling back to fixed
// defaults wherever an answer is missing. It is total: nil input yields
// Default() and no input can make it fail.
func Transform(raw *models.RawProfile) models.CoachingProfile {
	if raw == nil {
		return Default()
	}

	return models.CoachingProfile{
		PhysicalStats:    physicalStats(raw),
		Goal:             goal(raw),
		Priority:         priority(raw),
		Constraints:      constraints(raw),
		ExperienceLevel:  experienceLevel(raw),
		TrainingStyle:    trainingStyle(raw),
		Preferences:      preferences(raw),
		NutritionContext: nutritionContext(raw),
		Mindset:          mindset(raw),
	}
}

// physicalStats joins the available stats with ", ". Metric height wins;
// imperial is used only when metric is absent and both feet and inches are
// present.
func physicalStats(raw *models.RawProfile) string {
	var parts []string

	switch {
	case raw.HeightCm != nil:
		parts = append(parts, fmt.Sprintf("Height: %gcm", *raw.HeightCm))
	case raw.HeightFt != nil && raw.HeightIn != nil:
		parts = append(parts, fmt.Sprintf("Height: %d'%d\"", *raw.HeightFt, *raw.HeightIn))
	}

	if raw.Weight != nil {
		parts = append(parts, fmt.Sprintf("Weight: %glbs", *raw.Weight))
	}
	if raw.Age != nil {
		parts = append(parts, fmt.Sprintf("Age: %d", *raw.Age))
	}
	if raw.Gender != "" {
		parts = append(parts, fmt.Sprintf("Gender: %s", raw.Gender))
	}

	return strings.Join(parts, ", ")
}

func goal(raw *models.RawProfile) string {
	var parts []string

	if g := strings.TrimSpace(raw.PrimaryGoal); g != "" {
		parts = append(parts, g)
	}
	if custom := strings.TrimSpace(raw.PrimaryGoalCustom); custom != "" {
		parts = append(parts, custom)
	}

	var secondary []string
	for _, s := range raw.SecondaryGoals {
		if s = strings.TrimSpace(s); s != "" {
			secondary = append(secondary, s)
		}
	}
	if len(secondary) > 0 {
		parts = append(parts, "Also: "+strings.Join(secondary, ", "))
	}

	if len(parts) == 0 {
		return defaultGoal
	}
	return strings.Join(parts, " | ")
}

func priority(raw *models.RawProfile) string {
	if raw.TimeHorizon != "" {
		return fmt.Sprintf("%s timeframe", raw.TimeHorizon)
	}
	return defaultPriority
}

func constraints(raw *models.RawProfile) []string {
	var out []string

	if raw.WorkSchoolHours != "" {
		out = append(out, fmt.Sprintf("Works/studies %s hours/day", raw.WorkSchoolHours))
	}

	if raw.BusyLevel != nil {
		if band := busyBand(*raw.BusyLevel); band != "" {
			out = append(out, band)
		}
	}

	if raw.FamilyObligations {
		if raw.FamilyObligationsNote != "" {
			out = append(out, fmt.Sprintf("Family obligations: %s", raw.FamilyObligationsNote))
		} else {
			out = append(out, "Has family obligations")
		}
	}

	if raw.TypicalStressLevel != nil {
		switch level := *raw.TypicalStressLevel; {
		case level >= 7:
			out = append(out, "High stress levels")
			if raw.StressFluctuates {
				out = append(out, "Stress levels fluctuate significantly")
			}
		case level >= 5:
			out = append(out, "Moderate stress levels")
		}
	}

	if len(out) == 0 {
		return []string{defaultConstraint}
	}
	return out
}

// busyBand maps the 1-10 busy-level scale to one of five descriptive bands.
func busyBand(level int) string {
	switch {
	case level >= 9:
		return "Extremely busy schedule - very limited free time"
	case level >= 7:
		return "Very busy schedule - limited free time"
	case level >= 5:
		return "Moderately busy schedule"
	case level >= 3:
		return "Somewhat busy - manageable schedule"
	case level >= 1:
		return "Flexible schedule with good availability"
	default:
		return ""
	}
}

func experienceLevel(raw *models.RawProfile) string {
	if raw.ExperienceLevel != "" {
		return raw.ExperienceLevel
	}
	return defaultExperience
}

func trainingStyle(raw *models.RawProfile) string {
	var parts []string

	var styles []string
	for _, s := range raw.TrainingHistoryStyle {
		if s = strings.TrimSpace(s); s != "" {
			styles = append(styles, s)
		}
	}
	if len(styles) > 0 {
		parts = append(parts, "Experience with: "+strings.Join(styles, ", "))
	}

	if raw.TrainingHistoryNotes != "" {
		parts = append(parts, raw.TrainingHistoryNotes)
	}
	if raw.CoachingStylePreference != "" {
		parts = append(parts, fmt.Sprintf("Prefers %s coaching style", raw.CoachingStylePreference))
	}

	if len(parts) == 0 {
		return defaultTrainingStyle
	}
	return strings.Join(parts, " | ")
}

func preferences(raw *models.RawProfile) models.ProfilePreferences {
	prefs := models.ProfilePreferences{
		WorkoutDuration:   defaultDuration,
		TrainingFrequency: defaultFrequency,
		PreferredTime:     "flexible",
	}

	// Session lengths arrive as free text like "30-45 min" or "90+ min";
	// long and short extremes each earn an advisory note.
	if length := raw.PreferredSessionLength; length != "" {
		prefs.WorkoutDuration = length
		switch {
		case strings.Contains(length, "90+") || strings.Contains(length, "90-"):
			prefs.DurationNote = "Prefers longer training sessions - likely high volume tolerance"
		case strings.Contains(length, "30-45"):
			prefs.DurationNote = "Prefers shorter, efficient sessions - time-constrained"
		}
	}

	if raw.PreferredWorkoutFrequency != "" {
		prefs.TrainingFrequency = raw.PreferredWorkoutFrequency
	}
	if raw.PreferredWorkoutTime != "" {
		prefs.PreferredTime = raw.PreferredWorkoutTime
	}

	return prefs
}

func nutritionContext(raw *models.RawProfile) string {
	var parts []string

	if dietary := raw.DietaryPreference; dietary != "" {
		if dietary == "Other" && raw.DietaryPreferenceOther != "" {
			parts = append(parts, raw.DietaryPreferenceOther)
		} else {
			parts = append(parts, dietary)
		}
	}
	if raw.WillingnessToTrack != "" {
		parts = append(parts, fmt.Sprintf("Tracking willingness: %s", raw.WillingnessToTrack))
	}

	return strings.Join(parts, " | ")
}

func mindset(raw *models.RawProfile) string {
	var parts []string

	if raw.ProgressFeeling != "" {
		parts = append(parts, fmt.Sprintf("Feels progress is: %s", raw.ProgressFeeling))
	}
	if raw.BiggestBlocker != "" {
		parts = append(parts, fmt.Sprintf("Biggest blocker: %s", raw.BiggestBlocker))
	}
	if raw.OpenReflection != "" {
		parts = append(parts, fmt.Sprintf("Personal reflection: %s", raw.OpenReflection))
	}

	return strings.Join(parts, " | ")
}
