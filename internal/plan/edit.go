// Package plan implements localized, copy-on-write edits of a WeeklyPlan.
//
// Every function returns a new plan value. Only the containers on the path to
// the edited field are copied; all untouched substructure is shared with the
// input, which is never mutated.
package plan

import (
	"errors"
	"fmt"

	"nutriplan/internal/types"
)

var (
	// ErrInvalidDay is returned for a day index outside the weekly schedule.
	ErrInvalidDay = errors.New("invalid day index")
	// ErrInvalidSlot is returned for an unknown meal slot.
	ErrInvalidSlot = errors.New("invalid meal slot")
	// ErrInvalidCategory is returned for an unknown food-guide category.
	ErrInvalidCategory = errors.New("invalid food guide category")
)

// MealAt returns the meal at (dayIndex, slot).
func MealAt(p types.WeeklyPlan, dayIndex int, slot types.MealSlot) (types.Meal, error) {
	if dayIndex < 0 || dayIndex >= len(p.WeeklySchedule) {
		return types.Meal{}, fmt.Errorf("%w: %d (plan has %d days)", ErrInvalidDay, dayIndex, len(p.WeeklySchedule))
	}
	m, ok := p.WeeklySchedule[dayIndex].Meal(slot)
	if !ok {
		return types.Meal{}, fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return m, nil
}

// WithMeal replaces one meal of one day. The schedule slice and the touched
// DayPlan are copied; the meal itself is copied so later edits to the
// caller's ingredient slice cannot leak into the plan.
func WithMeal(p types.WeeklyPlan, dayIndex int, slot types.MealSlot, m types.Meal) (types.WeeklyPlan, error) {
	if dayIndex < 0 || dayIndex >= len(p.WeeklySchedule) {
		return p, fmt.Errorf("%w: %d (plan has %d days)", ErrInvalidDay, dayIndex, len(p.WeeklySchedule))
	}
	day, ok := p.WeeklySchedule[dayIndex].WithMeal(slot, cloneMeal(m))
	if !ok {
		return p, fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}

	schedule := make([]types.DayPlan, len(p.WeeklySchedule))
	copy(schedule, p.WeeklySchedule)
	schedule[dayIndex] = day

	out := p
	out.WeeklySchedule = schedule
	return out, nil
}

// GuideList returns the current snapshot of one food-guide list.
func GuideList(p types.WeeklyPlan, c types.GuideCategory) ([]string, error) {
	list, ok := p.FoodGuide.List(c)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, c)
	}
	return list, nil
}

// WithGuideCategory replaces one food-guide list with a copy of items.
func WithGuideCategory(p types.WeeklyPlan, c types.GuideCategory, items []string) (types.WeeklyPlan, error) {
	owned := make([]string, len(items))
	copy(owned, items)
	guide, ok := p.FoodGuide.WithList(c, owned)
	if !ok {
		return p, fmt.Errorf("%w: %q", ErrInvalidCategory, c)
	}
	out := p
	out.FoodGuide = guide
	return out, nil
}

func cloneMeal(m types.Meal) types.Meal {
	if m.Ingredients != nil {
		ing := make([]string, len(m.Ingredients))
		copy(ing, m.Ingredients)
		m.Ingredients = ing
	}
	return m
}
