package coach

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PULSECOACH/pulsecoach/internal/models"
)

const analysisSystemPrompt = "You are an expert fitness coach providing personalized, data-driven insights. " +
	"You are direct, supportive, and focused on long-term sustainable progress."

// buildAnalysisPrompt assembles the monthly review prompt: profile, prior
// analyses for context when present, the current summary, and the seven
// report sections the model must cover.
func buildAnalysisPrompt(profile models.CoachingProfile, summary *models.MonthlySummary, previousAnalyses []string) string {
	var b strings.Builder

	b.WriteString("You are an expert fitness coach providing a personalized monthly review.\n\n")
	b.WriteString("USER PROFILE:\n")
	b.WriteString(marshalIndent(profile))
	b.WriteString("\n")

	if len(previousAnalyses) == 1 {
		b.WriteString("\nPREVIOUS MONTH'S ANALYSIS (for context and comparison):\n")
		b.WriteString(previousAnalyses[0])
		b.WriteString("\n\n")
	} else if len(previousAnalyses) > 1 {
		b.WriteString("\nPREVIOUS MONTHS' ANALYSES (in chronological order, for context and trend analysis):\n")
		for i, analysis := range previousAnalyses {
			fmt.Fprintf(&b, "\n--- Month %d ---\n%s\n\n", i+1, analysis)
		}
	}

	b.WriteString("CURRENT MONTH DATA:\n")
	b.WriteString(marshalIndent(summary))
	b.WriteString("\n\n")

	b.WriteString(`Provide a structured analysis covering these sections:

1. TRAINING
   - Evaluate training frequency, volume, and progression
   - Note any concerning patterns or positive trends

2. NUTRITION
   - Assess calorie and protein intake relative to goals
   - Comment on consistency and adequacy

3. RECOVERY
   - Analyze sleep quality and quantity
   - Assess fatigue and energy levels
   - Identify any recovery deficits

4. LIFESTYLE
   - Consider stress impact on training and recovery
   - Evaluate overall activity levels

5. WHAT TO CHANGE
   - Provide 2-3 specific, actionable changes
   - Prioritize based on biggest limiting factors
   - Make recommendations realistic and incremental

6. WHAT TO KEEP
   - Identify 2-3 things that are working well
   - Reinforce positive behaviors

7. PRIORITY FOCUS (Next 1-2 Weeks)
   - One clear, measurable focus area
   - Explain why this is the priority

GUIDELINES:
- Be specific and personal (use actual numbers from the data)
- Be realistic about constraints (busy student schedule)
- Prioritize sustainability over optimization
- Avoid generic advice
- Use a supportive but direct coaching tone
- Keep each section concise (2-4 sentences max)
`)

	if len(previousAnalyses) == 1 {
		b.WriteString(`- Compare current month's performance with the previous month
- Note improvements, declines, or trends
- Reference specific changes from the previous analysis when relevant
`)
	} else if len(previousAnalyses) > 1 {
		b.WriteString(`- Compare current month's performance with all previous months
- Identify trends and patterns across the entire period
- Note improvements, declines, or consistent patterns over time
- Reference specific changes and progressions from earlier months when relevant
`)
	}

	b.WriteString("\nFormat your response with clear section headers.")

	return b.String()
}

// buildChatSystemPrompt condenses the summary into a short context paragraph
// rather than embedding the full summary JSON, keeping chat prompts cheap.
func buildChatSystemPrompt(profile models.CoachingProfile, summary *models.MonthlySummary) string {
	var b strings.Builder

	b.WriteString("You are a personal fitness coach who knows this user's training history and current status.\n\n")
	b.WriteString("USER PROFILE:\n")
	b.WriteString(marshalIndent(profile))
	b.WriteString("\n\nRECENT DATA (monthly summary):\n")

	training := summary.Training
	nutrition := summary.Nutrition
	recovery := summary.Recovery
	lifestyle := summary.Lifestyle

	progression := training.Progression
	if progression == "" {
		progression = models.TrendStable
	}
	sleepTrend := recovery.SleepTrend
	if sleepTrend == "" {
		sleepTrend = models.TrendStable
	}

	fmt.Fprintf(&b, "Training: %g sessions/week, %s progression\n", training.SessionsPerWeek, progression)
	fmt.Fprintf(&b, "Nutrition: ~%d cal, ~%dg protein\n", nutrition.AvgCalories, nutrition.AvgProtein)
	fmt.Fprintf(&b, "Recovery: %gh sleep (trend: %s), fatigue %g/10\n", recovery.AvgSleepHours, sleepTrend, recovery.AvgFatigue)
	fmt.Fprintf(&b, "Lifestyle: Stress %g/10, %d high-stress days\n", lifestyle.AvgStress, lifestyle.HighStressDays)

	b.WriteString(`
Provide specific, personalized advice based on their actual data. Be conversational but precise.
Reference their actual numbers when relevant (sleep hours, training frequency, etc.).
Consider their constraints (busy student schedule) in your recommendations.`)

	return b.String()
}

func marshalIndent(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
