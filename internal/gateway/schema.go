package gateway

import "google.golang.org/genai"

// Response schemas sent with every request. Field names match the JSON tags
// in internal/types.

func stringSchema(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

func stringListSchema(desc string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Items:       &genai.Schema{Type: genai.TypeString},
		Description: desc,
	}
}

func mealSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":        stringSchema("Dish name"),
			"description": stringSchema("Short description"),
			"ingredients": stringListSchema("Key ingredients"),
		},
		Required: []string{"name", "description", "ingredients"},
	}
}

func dayPlanSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"dayName":    stringSchema("Day of the week, e.g. Monday"),
			"breakfast":  mealSchema(),
			"midMorning": mealSchema(),
			"lunch":      mealSchema(),
			"snack":      mealSchema(),
			"dinner":     mealSchema(),
			"workoutNutrition": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"preWorkout":  {Type: genai.TypeString, Nullable: genai.Ptr(true)},
					"postWorkout": {Type: genai.TypeString, Nullable: genai.Ptr(true)},
					"notes":       {Type: genai.TypeString},
				},
				Required: []string{"notes"},
			},
		},
		Required: []string{"dayName", "breakfast", "midMorning", "lunch", "snack", "dinner", "workoutNutrition"},
	}
}

func supplementSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"recommended": {Type: genai.TypeBoolean},
			"reason":      {Type: genai.TypeString},
			"dosage":      {Type: genai.TypeString, Nullable: genai.Ptr(true)},
		},
		Required: []string{"recommended", "reason"},
	}
}

func weeklyPlanSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"introduction": stringSchema("A short motivational summary of the plan"),
			"weeklySchedule": {
				Type:        genai.TypeArray,
				Items:       dayPlanSchema(),
				Description: "Plan for the 7 days of the week",
			},
			"foodGuide": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"breakfastOptions":  stringListSchema("5 varied breakfast options"),
					"midMorningOptions": stringListSchema("5 mid-morning snack options"),
					"lunchOptions":      stringListSchema("5 options for the main midday meal"),
					"snackOptions":      stringListSchema("5 afternoon snack options"),
					"dinnerOptions":     stringListSchema("5 dinner options"),
				},
				Required: []string{"breakfastOptions", "midMorningOptions", "lunchOptions", "snackOptions", "dinnerOptions"},
			},
			"generalAdvice": stringSchema("General advice on hydration, rest, etc."),
			"supplements": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"creatine":    supplementSchema(),
					"wheyProtein": supplementSchema(),
				},
				Required: []string{"creatine", "wheyProtein"},
			},
		},
		Required: []string{"introduction", "weeklySchedule", "foodGuide", "generalAdvice", "supplements"},
	}
}
