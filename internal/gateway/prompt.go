package gateway

import (
	"fmt"
	"strings"

	"nutriplan/internal/types"
)

func scheduleLines(s types.Schedule) string {
	var b strings.Builder
	for _, day := range types.Weekdays {
		d := s[day]
		if d.IsWorkout {
			fmt.Fprintf(&b, "    - %s: workout at %s\n", day, d.Time)
		} else {
			fmt.Fprintf(&b, "    - %s: rest\n", day)
		}
	}
	return b.String()
}

func planPrompt(p types.UserProfile, language string) string {
	return fmt.Sprintf(`Act as an expert sports nutritionist.
Create a structured weekly meal plan with 5 MEALS PER DAY for the following user:

Profile:
    - Name: %s
    - Age: %d
    - Sex: %s
    - Height: %g cm
    - Weight: %g kg
    - Goal: %s

Weekly schedule:
%s
Required meal structure (5 meals):
    1. Breakfast
    2. Mid-morning (light but nutritious snack)
    3. Lunch (main midday meal)
    4. Snack (afternoon)
    5. Dinner (evening)

Requirements:
    1. Variety: use different fruits, vegetables and protein sources each day.
    2. Supplements: decide whether creatine and whey protein are needed based strictly on the goal and profile.
    3. Timing: arrange the meals around the specific workout time of each day.
    4. Food guide: produce generic option lists for swaps.
    5. Return the answer strictly as JSON following the provided schema.
    6. All content must be written in %s.
`, p.Name, p.Age, p.Gender, p.Height, p.Weight, p.Goal.Label(), scheduleLines(p.Schedule), language)
}

func alternativePrompt(m types.Meal, goalLabel, language string) string {
	return fmt.Sprintf(`Suggest a healthy, different alternative for the following meal, keeping the goal of %q.

Original meal:
    - Name: %s
    - Description: %s
    - Ingredients: %s

The new meal must be nutritionally equivalent but use different ingredients for variety.
Return only the JSON object for the meal, written in %s.
`, goalLabel, m.Name, m.Description, strings.Join(m.Ingredients, ", "), language)
}
