package profile

import (
	"reflect"
	"testing"

	"github.com/PULSECOACH/pulsecoach/internal/models"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func TestTransformNilYieldsDefault(t *testing.T) {
	got := Transform(nil)
	want := Default()

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Transform(nil) = %+v, want default %+v", got, want)
	}
}

func TestTransformEmptyProfileYieldsDefaults(t *testing.T) {
	got := Transform(&models.RawProfile{})

	if got.Goal != defaultGoal {
		t.Errorf("goal = %q, want default", got.Goal)
	}
	if got.Priority != defaultPriority {
		t.Errorf("priority = %q, want default", got.Priority)
	}
	if len(got.Constraints) != 1 || got.Constraints[0] != defaultConstraint {
		t.Errorf("constraints = %v, want [%q]", got.Constraints, defaultConstraint)
	}
	if got.ExperienceLevel != defaultExperience {
		t.Errorf("experience = %q, want %q", got.ExperienceLevel, defaultExperience)
	}
	if got.Preferences.WorkoutDuration != defaultDuration {
		t.Errorf("duration = %q, want %q", got.Preferences.WorkoutDuration, defaultDuration)
	}
	if got.Preferences.PreferredTime != "flexible" {
		t.Errorf("preferred time = %q, want flexible", got.Preferences.PreferredTime)
	}
	if got.PhysicalStats != "" {
		t.Errorf("expected empty physical stats, got %q", got.PhysicalStats)
	}
}

func TestPhysicalStats(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawProfile
		want string
	}{
		{
			name: "metric height wins over imperial",
			raw: models.RawProfile{
				HeightCm: floatPtr(180),
				HeightFt: intPtr(5),
				HeightIn: intPtr(9),
			},
			want: "Height: 180cm",
		},
		{
			name: "imperial height needs both parts",
			raw:  models.RawProfile{HeightFt: intPtr(5)},
			want: "",
		},
		{
			name: "full stats",
			raw: models.RawProfile{
				HeightFt: intPtr(5), HeightIn: intPtr(11),
				Weight: floatPtr(185),
				Age:    intPtr(27),
				Gender: "male",
			},
			want: `Height: 5'11", Weight: 185lbs, Age: 27, Gender: male`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transform(&tt.raw)
			if got.PhysicalStats != tt.want {
				t.Errorf("physical stats = %q, want %q", got.PhysicalStats, tt.want)
			}
		})
	}
}

func TestGoalComposition(t *testing.T) {
	raw := models.RawProfile{
		PrimaryGoal:       "Build muscle",
		PrimaryGoalCustom: "Hit a 140kg squat",
		SecondaryGoals:    []string{"Improve conditioning", "Sleep better"},
	}

	got := Transform(&raw).Goal
	want := "Build muscle | Hit a 140kg squat | Also: Improve conditioning, Sleep better"
	if got != want {
		t.Errorf("goal = %q, want %q", got, want)
	}
}

func TestConstraints(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawProfile
		want []string
	}{
		{
			name: "busy level bands",
			raw:  models.RawProfile{BusyLevel: intPtr(9)},
			want: []string{"Extremely busy schedule - very limited free time"},
		},
		{
			name: "high stress with fluctuation",
			raw:  models.RawProfile{TypicalStressLevel: intPtr(8), StressFluctuates: true},
			want: []string{"High stress levels", "Stress levels fluctuate significantly"},
		},
		{
			name: "moderate stress ignores fluctuation flag",
			raw:  models.RawProfile{TypicalStressLevel: intPtr(5), StressFluctuates: true},
			want: []string{"Moderate stress levels"},
		},
		{
			name: "family obligations with note",
			raw:  models.RawProfile{FamilyObligations: true, FamilyObligationsNote: "two kids"},
			want: []string{"Family obligations: two kids"},
		},
		{
			name: "work hours",
			raw:  models.RawProfile{WorkSchoolHours: "8-10"},
			want: []string{"Works/studies 8-10 hours/day"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transform(&tt.raw).Constraints
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("constraints = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBusyBand(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{10, "Extremely busy schedule - very limited free time"},
		{9, "Extremely busy schedule - very limited free time"},
		{8, "Very busy schedule - limited free time"},
		{6, "Moderately busy schedule"},
		{4, "Somewhat busy - manageable schedule"},
		{1, "Flexible schedule with good availability"},
		{0, ""},
	}

	for _, tt := range tests {
		if got := busyBand(tt.level); got != tt.want {
			t.Errorf("busyBand(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestPreferencesDurationNotes(t *testing.T) {
	tests := []struct {
		length   string
		wantNote string
	}{
		{"90+ min", "Prefers longer training sessions - likely high volume tolerance"},
		{"30-45 min", "Prefers shorter, efficient sessions - time-constrained"},
		{"60 min", ""},
	}

	for _, tt := range tests {
		t.Run(tt.length, func(t *testing.T) {
			got := Transform(&models.RawProfile{PreferredSessionLength: tt.length}).Preferences
			if got.WorkoutDuration != tt.length {
				t.Errorf("duration = %q, want %q", got.WorkoutDuration, tt.length)
			}
			if got.DurationNote != tt.wantNote {
				t.Errorf("note = %q, want %q", got.DurationNote, tt.wantNote)
			}
		})
	}
}

func TestNutritionContextDietaryOther(t *testing.T) {
	raw := models.RawProfile{
		DietaryPreference:      "Other",
		DietaryPreferenceOther: "Pescatarian",
		WillingnessToTrack:     "daily",
	}

	got := Transform(&raw).NutritionContext
	want := "Pescatarian | Tracking willingness: daily"
	if got != want {
		t.Errorf("nutrition context = %q, want %q", got, want)
	}
}

func TestMindset(t *testing.T) {
	raw := models.RawProfile{
		ProgressFeeling: "slow but steady",
		BiggestBlocker:  "late work nights",
	}

	got := Transform(&raw).Mindset
	want := "Feels progress is: slow but steady | Biggest blocker: late work nights"
	if got != want {
		t.Errorf("mindset = %q, want %q", got, want)
	}
}

func TestDefaultReturnsFreshValue(t *testing.T) {
	first := Default()
	first.Constraints[0] = "mutated"

	second := Default()
	if second.Constraints[0] != defaultConstraint {
		t.Error("Default() must not share state between calls")
	}
}
