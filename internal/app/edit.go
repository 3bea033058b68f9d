package app

import (
	"context"
	"fmt"
	"strings"

	"nutriplan/internal/gateway"
	"nutriplan/internal/logging"
	"nutriplan/internal/plan"
	"nutriplan/internal/types"
)

// Edits apply to the active plan only. The SavedPlan it was loaded from is
// never touched; SaveActiveAsNew snapshots the edited plan under a new id.

func (a *App) activeForEdit() (*ActivePlan, error) {
	if err := a.checkIdle(); err != nil {
		return nil, err
	}
	if a.active == nil {
		return nil, ErrNoActivePlan
	}
	return a.active, nil
}

// MealAt returns a meal of the active plan.
func (a *App) MealAt(day int, slot types.MealSlot) (types.Meal, error) {
	if a.active == nil {
		return types.Meal{}, ErrNoActivePlan
	}
	return plan.MealAt(a.active.Plan, day, slot)
}

// UpdateMeal replaces one meal of the active plan.
func (a *App) UpdateMeal(day int, slot types.MealSlot, m types.Meal) error {
	active, err := a.activeForEdit()
	if err != nil {
		return err
	}
	m.Name = strings.TrimSpace(m.Name)
	m.Description = strings.TrimSpace(m.Description)
	if m.Ingredients == nil {
		m.Ingredients = []string{}
	}
	if err := m.Validate(); err != nil {
		return a.fail(err)
	}
	next, err := plan.WithMeal(active.Plan, day, slot, m)
	if err != nil {
		return a.fail(err)
	}
	active.Plan = next
	logging.StateDebug("Meal %s of day %d replaced with %q", slot, day, m.Name)
	return nil
}

// ApplyAlternativeResult applies a gateway alternative for (day, slot). A
// failed or invalid result leaves the original meal in place.
func (a *App) ApplyAlternativeResult(day int, slot types.MealSlot, alt types.Meal, genErr error) error {
	if genErr == nil {
		if err := alt.Validate(); err != nil {
			genErr = &gateway.GenerationError{Op: gateway.OpAlternative, Reason: "incomplete meal", Err: err}
		}
	}
	if genErr != nil {
		logging.StateWarn("Alternative for day %d %s discarded: %v", day, slot, genErr)
		return a.fail(genErr)
	}
	return a.UpdateMeal(day, slot, alt)
}

// ApplyAlternative asks gen for an alternative to (day, slot) and applies it.
func (a *App) ApplyAlternative(ctx context.Context, gen gateway.Generator, day int, slot types.MealSlot) (types.Meal, error) {
	active, err := a.activeForEdit()
	if err != nil {
		return types.Meal{}, err
	}
	orig, err := plan.MealAt(active.Plan, day, slot)
	if err != nil {
		return types.Meal{}, a.fail(err)
	}
	alt, genErr := gen.GenerateAlternative(ctx, orig, active.Profile.Goal.Label())
	if err := a.ApplyAlternativeResult(day, slot, alt, genErr); err != nil {
		return types.Meal{}, err
	}
	return alt, nil
}

// GuideList returns a food-guide list of the active plan.
func (a *App) GuideList(c types.GuideCategory) ([]string, error) {
	if a.active == nil {
		return nil, ErrNoActivePlan
	}
	return plan.GuideList(a.active.Plan, c)
}

func (a *App) editGuide(c types.GuideCategory, edit func([]string) ([]string, error)) error {
	active, err := a.activeForEdit()
	if err != nil {
		return err
	}
	list, err := plan.GuideList(active.Plan, c)
	if err != nil {
		return a.fail(err)
	}
	updated, err := edit(list)
	if err != nil {
		return a.fail(err)
	}
	next, err := plan.WithGuideCategory(active.Plan, c, updated)
	if err != nil {
		return a.fail(err)
	}
	active.Plan = next
	return nil
}

// AppendGuideItem adds value to a food-guide list.
func (a *App) AppendGuideItem(c types.GuideCategory, value string) error {
	return a.editGuide(c, func(list []string) ([]string, error) {
		return plan.AppendItem(list, value)
	})
}

// ReplaceGuideItem replaces the entry at index of a food-guide list.
func (a *App) ReplaceGuideItem(c types.GuideCategory, index int, value string) error {
	return a.editGuide(c, func(list []string) ([]string, error) {
		return plan.ReplaceItem(list, index, value)
	})
}

// RequestGuideItemRemoval holds a removal pending confirmation.
func (a *App) RequestGuideItemRemoval(c types.GuideCategory, index int) error {
	active, err := a.activeForEdit()
	if err != nil {
		return err
	}
	list, err := plan.GuideList(active.Plan, c)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(list) {
		return fmt.Errorf("%w: %d (len %d)", plan.ErrIndexOutOfRange, index, len(list))
	}
	a.removal = &plan.PendingRemoval{Category: c, Index: index, Item: list[index]}
	return nil
}

// PendingGuideRemoval returns the removal awaiting confirmation.
func (a *App) PendingGuideRemoval() (plan.PendingRemoval, bool) {
	if a.removal == nil {
		return plan.PendingRemoval{}, false
	}
	return *a.removal, true
}

// CancelGuideItemRemoval clears the pending removal without touching the list.
func (a *App) CancelGuideItemRemoval() {
	a.removal = nil
}

// ConfirmGuideItemRemoval executes the pending removal.
func (a *App) ConfirmGuideItemRemoval() error {
	if a.removal == nil {
		return ErrNoPendingRemoval
	}
	if err := a.checkIdle(); err != nil {
		return err
	}
	r := *a.removal
	a.removal = nil
	return a.editGuide(r.Category, func(list []string) ([]string, error) {
		return plan.RemoveItem(list, r.Index)
	})
}

// SaveActiveAsNew snapshots the active plan, edits included, as a new
// SavedPlan and rebinds the active plan to it. An empty name falls back to
// the default date name.
func (a *App) SaveActiveAsNew(name string) (types.SavedPlan, error) {
	active, err := a.activeForEdit()
	if err != nil {
		return types.SavedPlan{}, err
	}
	prof := active.Profile
	prof.PlanName = strings.TrimSpace(name)
	sp, err := a.catalog.Create(prof, active.Plan)
	if err != nil {
		return types.SavedPlan{}, a.fail(err)
	}
	active.SavedID = sp.ID
	active.Profile = prof
	return sp, nil
}
