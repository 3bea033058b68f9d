package gateway

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"nutriplan/internal/logging"
	"nutriplan/internal/types"
)

// Fixture is a deterministic, offline Generator. It backs the --offline
// flag and the tests of packages that need a plan without a network.
type Fixture struct {
	// Fail, when set, is returned (wrapped in a GenerationError) by every call.
	Fail error

	once     sync.Once
	inflight inflight
}

// NewFixture returns a ready Fixture.
func NewFixture() *Fixture {
	return &Fixture{}
}

// GeneratePlan implements Generator.
func (f *Fixture) GeneratePlan(ctx context.Context, profile types.UserProfile) (types.WeeklyPlan, error) {
	release, err := f.acquire()
	if err != nil {
		return types.WeeklyPlan{}, err
	}
	defer release()

	if err := ctx.Err(); err != nil {
		return types.WeeklyPlan{}, genErr(OpPlan, "request cancelled", err)
	}
	if f.Fail != nil {
		return types.WeeklyPlan{}, genErr(OpPlan, "request failed", f.Fail)
	}
	logging.API("Fixture plan for %q", profile.Name)
	return SamplePlan(profile), nil
}

// GenerateAlternative implements Generator. The alternative is chosen from a
// fixed pool by hashing the meal name, never returning the same name.
func (f *Fixture) GenerateAlternative(ctx context.Context, meal types.Meal, goalLabel string) (types.Meal, error) {
	release, err := f.acquire()
	if err != nil {
		return types.Meal{}, err
	}
	defer release()

	if err := ctx.Err(); err != nil {
		return types.Meal{}, genErr(OpAlternative, "request cancelled", err)
	}
	if f.Fail != nil {
		return types.Meal{}, genErr(OpAlternative, "request failed", f.Fail)
	}

	h := fnv.New32a()
	h.Write([]byte(meal.Name))
	i := int(h.Sum32() % uint32(len(alternativePool)))
	alt := alternativePool[i]
	if alt.Name == meal.Name {
		alt = alternativePool[(i+1)%len(alternativePool)]
	}
	alt.Description = fmt.Sprintf("%s (%s)", alt.Description, goalLabel)
	alt.Ingredients = append([]string(nil), alt.Ingredients...)
	return alt, nil
}

func (f *Fixture) acquire() (func(), error) {
	f.once.Do(func() { f.inflight = newInflight() })
	return f.inflight.acquire()
}

var alternativePool = []types.Meal{
	{Name: "Turkey and avocado wrap", Description: "Whole-wheat wrap with lean turkey", Ingredients: []string{"whole-wheat tortilla", "turkey breast", "avocado", "spinach"}},
	{Name: "Quinoa chickpea bowl", Description: "Warm bowl with roasted vegetables", Ingredients: []string{"quinoa", "chickpeas", "zucchini", "olive oil"}},
	{Name: "Greek yogurt parfait", Description: "Layered yogurt with fruit and seeds", Ingredients: []string{"greek yogurt", "blueberries", "chia seeds", "honey"}},
	{Name: "Baked cod with sweet potato", Description: "Oven-baked white fish and roasted tuber", Ingredients: []string{"cod", "sweet potato", "green beans", "lemon"}},
	{Name: "Tofu stir-fry", Description: "Crisp tofu with mixed vegetables", Ingredients: []string{"firm tofu", "broccoli", "bell pepper", "brown rice", "soy sauce"}},
	{Name: "Egg white omelette", Description: "Fluffy omelette with vegetables", Ingredients: []string{"egg whites", "mushrooms", "tomato", "rye bread"}},
}

// SampleProfile returns a complete, valid profile.
func SampleProfile() types.UserProfile {
	s := types.DefaultSchedule()
	s["Monday"] = types.DaySchedule{IsWorkout: true, Time: "18:00"}
	s["Wednesday"] = types.DaySchedule{IsWorkout: true, Time: "07:30"}
	s["Friday"] = types.DaySchedule{IsWorkout: true, Time: "18:00"}
	return types.UserProfile{
		PlanName: "Spring cut",
		Name:     "Alex",
		Age:      32,
		Gender:   types.GenderOther,
		Height:   175,
		Weight:   78.5,
		Goal:     types.GoalTone,
		Schedule: s,
	}
}

// SamplePlan builds a complete WeeklyPlan for profile. The output depends
// only on the profile.
func SamplePlan(profile types.UserProfile) types.WeeklyPlan {
	days := make([]types.DayPlan, 0, types.DaysPerPlan)
	for i, name := range types.Weekdays {
		day := types.DayPlan{
			DayName:    name,
			Breakfast:  sampleMeal("Oat porridge", i, "oats", "milk", "banana"),
			MidMorning: sampleMeal("Fruit and nuts", i, "apple", "almonds"),
			Lunch:      sampleMeal("Chicken rice bowl", i, "chicken breast", "brown rice", "broccoli"),
			Snack:      sampleMeal("Yogurt cup", i, "yogurt", "walnuts"),
			Dinner:     sampleMeal("Salmon with salad", i, "salmon", "lettuce", "tomato", "olive oil"),
		}
		if d := profile.Schedule[name]; d.IsWorkout {
			day.WorkoutNutrition = types.WorkoutNutrition{
				PreWorkout:  fmt.Sprintf("Banana and rice cakes 60 minutes before %s", d.Time),
				PostWorkout: "Protein shake or lean protein with carbs within an hour",
				Notes:       "Training day: keep carbs around the session.",
			}
		} else {
			day.WorkoutNutrition = types.WorkoutNutrition{Notes: "Rest day: lighter carbs, keep protein steady."}
		}
		days = append(days, day)
	}

	creatine := types.SupplementAdvice{
		Recommended: profile.Goal == types.GoalMuscleGain,
		Reason:      "Supports strength gains on a muscle-building plan.",
	}
	if creatine.Recommended {
		creatine.Dosage = "3-5 g daily"
	} else {
		creatine.Reason = "Not required for a toning goal with this training volume."
	}

	return types.WeeklyPlan{
		Introduction:   fmt.Sprintf("A balanced week for %s focused on %s.", profile.Name, profile.Goal.Label()),
		WeeklySchedule: days,
		FoodGuide: types.FoodGuide{
			BreakfastOptions:  []string{"Oats with fruit", "Wholegrain toast with eggs", "Yogurt with granola", "Smoothie bowl", "Cottage cheese and berries"},
			MidMorningOptions: []string{"Piece of fruit", "Handful of nuts", "Rice cakes with hummus", "Boiled egg", "Protein bar"},
			LunchOptions:      []string{"Chicken with rice", "Lentil stew", "Tuna pasta", "Beef and potatoes", "Tofu curry"},
			SnackOptions:      []string{"Greek yogurt", "Fruit and cheese", "Vegetable sticks", "Trail mix", "Kefir"},
			DinnerOptions:     []string{"Grilled fish and vegetables", "Omelette and salad", "Turkey stir-fry", "Bean soup", "Baked chicken"},
		},
		GeneralAdvice: "Drink 2-3 litres of water daily and sleep 7-9 hours.",
		Supplements: types.Supplements{
			Creatine: creatine,
			WheyProtein: types.SupplementAdvice{
				Recommended: profile.Schedule.WorkoutDays() >= 3,
				Reason:      "Convenient way to reach daily protein on training days.",
				Dosage:      "25 g after training",
			},
		},
	}
}

func sampleMeal(name string, day int, ingredients ...string) types.Meal {
	return types.Meal{
		Name:        fmt.Sprintf("%s #%d", name, day+1),
		Description: fmt.Sprintf("%s, day %d variant", name, day+1),
		Ingredients: ingredients,
	}
}
