package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompletePlan is returned when a plan or meal does not match the
// generation schema.
var ErrIncompletePlan = errors.New("plan does not match schema")

// DaysPerPlan is the fixed length of WeeklyPlan.WeeklySchedule.
const DaysPerPlan = 7

// MealSlot names one of the five fixed meals of a DayPlan.
type MealSlot string

const (
	SlotBreakfast  MealSlot = "breakfast"
	SlotMidMorning MealSlot = "midMorning"
	SlotLunch      MealSlot = "lunch"
	SlotSnack      MealSlot = "snack"
	SlotDinner     MealSlot = "dinner"
)

// MealSlots lists the slots in serving order.
var MealSlots = []MealSlot{SlotBreakfast, SlotMidMorning, SlotLunch, SlotSnack, SlotDinner}

// Valid reports whether s is a known slot.
func (s MealSlot) Valid() bool {
	for _, v := range MealSlots {
		if v == s {
			return true
		}
	}
	return false
}

// Title is the display heading for the slot.
func (s MealSlot) Title() string {
	switch s {
	case SlotBreakfast:
		return "Breakfast"
	case SlotMidMorning:
		return "Mid-morning"
	case SlotLunch:
		return "Lunch"
	case SlotSnack:
		return "Snack"
	case SlotDinner:
		return "Dinner"
	}
	return string(s)
}

// GuideCategory names one of the five FoodGuide lists.
type GuideCategory string

const (
	CategoryBreakfast  GuideCategory = "breakfastOptions"
	CategoryMidMorning GuideCategory = "midMorningOptions"
	CategoryLunch      GuideCategory = "lunchOptions"
	CategorySnack      GuideCategory = "snackOptions"
	CategoryDinner     GuideCategory = "dinnerOptions"
)

// GuideCategories lists the categories in serving order.
var GuideCategories = []GuideCategory{CategoryBreakfast, CategoryMidMorning, CategoryLunch, CategorySnack, CategoryDinner}

// Valid reports whether c is a known category.
func (c GuideCategory) Valid() bool {
	for _, v := range GuideCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Title is the display heading for the category.
func (c GuideCategory) Title() string {
	switch c {
	case CategoryBreakfast:
		return "Breakfast options"
	case CategoryMidMorning:
		return "Mid-morning options"
	case CategoryLunch:
		return "Lunch options"
	case CategorySnack:
		return "Snack options"
	case CategoryDinner:
		return "Dinner options"
	}
	return string(c)
}

// Meal is a value type: it is always replaced wholesale on edit.
type Meal struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
}

// Validate checks the fields the generation schema marks as required.
func (m Meal) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: meal name is empty", ErrIncompletePlan)
	}
	if m.Ingredients == nil {
		return fmt.Errorf("%w: meal %q has no ingredient list", ErrIncompletePlan, m.Name)
	}
	return nil
}

// WorkoutNutrition holds the training-day fueling notes of a DayPlan.
type WorkoutNutrition struct {
	PreWorkout  string `json:"preWorkout,omitempty"`
	PostWorkout string `json:"postWorkout,omitempty"`
	Notes       string `json:"notes"`
}

// DayPlan is one day of the weekly schedule.
type DayPlan struct {
	DayName          string           `json:"dayName"`
	Breakfast        Meal             `json:"breakfast"`
	MidMorning       Meal             `json:"midMorning"`
	Lunch            Meal             `json:"lunch"`
	Snack            Meal             `json:"snack"`
	Dinner           Meal             `json:"dinner"`
	WorkoutNutrition WorkoutNutrition `json:"workoutNutrition"`
}

// Meal returns the meal stored in slot.
func (d DayPlan) Meal(slot MealSlot) (Meal, bool) {
	switch slot {
	case SlotBreakfast:
		return d.Breakfast, true
	case SlotMidMorning:
		return d.MidMorning, true
	case SlotLunch:
		return d.Lunch, true
	case SlotSnack:
		return d.Snack, true
	case SlotDinner:
		return d.Dinner, true
	}
	return Meal{}, false
}

// WithMeal returns a copy of d with slot replaced.
func (d DayPlan) WithMeal(slot MealSlot, m Meal) (DayPlan, bool) {
	switch slot {
	case SlotBreakfast:
		d.Breakfast = m
	case SlotMidMorning:
		d.MidMorning = m
	case SlotLunch:
		d.Lunch = m
	case SlotSnack:
		d.Snack = m
	case SlotDinner:
		d.Dinner = m
	default:
		return d, false
	}
	return d, true
}

// FoodGuide holds the free-text exchange lists, one per meal slot.
type FoodGuide struct {
	BreakfastOptions  []string `json:"breakfastOptions"`
	MidMorningOptions []string `json:"midMorningOptions"`
	LunchOptions      []string `json:"lunchOptions"`
	SnackOptions      []string `json:"snackOptions"`
	DinnerOptions     []string `json:"dinnerOptions"`
}

// List returns the list for category.
func (g FoodGuide) List(c GuideCategory) ([]string, bool) {
	switch c {
	case CategoryBreakfast:
		return g.BreakfastOptions, true
	case CategoryMidMorning:
		return g.MidMorningOptions, true
	case CategoryLunch:
		return g.LunchOptions, true
	case CategorySnack:
		return g.SnackOptions, true
	case CategoryDinner:
		return g.DinnerOptions, true
	}
	return nil, false
}

// WithList returns a copy of g with category replaced.
func (g FoodGuide) WithList(c GuideCategory, items []string) (FoodGuide, bool) {
	switch c {
	case CategoryBreakfast:
		g.BreakfastOptions = items
	case CategoryMidMorning:
		g.MidMorningOptions = items
	case CategoryLunch:
		g.LunchOptions = items
	case CategorySnack:
		g.SnackOptions = items
	case CategoryDinner:
		g.DinnerOptions = items
	default:
		return g, false
	}
	return g, true
}

// SupplementAdvice is the recommendation for one supplement.
type SupplementAdvice struct {
	Recommended bool   `json:"recommended"`
	Reason      string `json:"reason"`
	Dosage      string `json:"dosage,omitempty"`
}

// Supplements is the supplements block of a plan.
type Supplements struct {
	Creatine    SupplementAdvice `json:"creatine"`
	WheyProtein SupplementAdvice `json:"wheyProtein"`
}

// WeeklyPlan is the structured plan returned by the generator. It is only
// changed through whole-field replacement (see internal/plan).
type WeeklyPlan struct {
	Introduction   string      `json:"introduction"`
	WeeklySchedule []DayPlan   `json:"weeklySchedule"`
	FoodGuide      FoodGuide   `json:"foodGuide"`
	GeneralAdvice  string      `json:"generalAdvice"`
	Supplements    Supplements `json:"supplements"`
}

// Validate enforces schema completeness: 7 days with every meal slot filled,
// all five guide lists present and both supplement blocks present.
func (p WeeklyPlan) Validate() error {
	if len(p.WeeklySchedule) != DaysPerPlan {
		return fmt.Errorf("%w: expected %d days, got %d", ErrIncompletePlan, DaysPerPlan, len(p.WeeklySchedule))
	}
	for i, day := range p.WeeklySchedule {
		if strings.TrimSpace(day.DayName) == "" {
			return fmt.Errorf("%w: day %d has no name", ErrIncompletePlan, i)
		}
		for _, slot := range MealSlots {
			m, _ := day.Meal(slot)
			if err := m.Validate(); err != nil {
				return fmt.Errorf("%s %s: %w", day.DayName, slot, err)
			}
		}
	}
	for _, c := range GuideCategories {
		if list, _ := p.FoodGuide.List(c); list == nil {
			return fmt.Errorf("%w: food guide missing %s", ErrIncompletePlan, c)
		}
	}
	if strings.TrimSpace(p.Supplements.Creatine.Reason) == "" {
		return fmt.Errorf("%w: creatine advice missing", ErrIncompletePlan)
	}
	if strings.TrimSpace(p.Supplements.WheyProtein.Reason) == "" {
		return fmt.Errorf("%w: whey protein advice missing", ErrIncompletePlan)
	}
	return nil
}
