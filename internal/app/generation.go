package app

import (
	"context"
	"fmt"

	"nutriplan/internal/gateway"
	"nutriplan/internal/logging"
	"nutriplan/internal/profile"
	"nutriplan/internal/types"
)

// BeginGeneration moves from the form to ViewLoading with profile pending.
func (a *App) BeginGeneration(p types.UserProfile) error {
	if a.view == ViewLoading {
		return ErrBusy
	}
	if a.view != ViewForm {
		return fmt.Errorf("%w: generate from %s", ErrInvalidTransition, a.view)
	}
	a.pending = &p
	a.lastErr = nil
	a.setView(ViewLoading)
	return nil
}

// CompleteGeneration applies the gateway result. On success the plan is
// saved to the catalog, bound as active and shown. On failure the pending
// profile is discarded, the catalog is untouched and the form is shown with
// the error.
func (a *App) CompleteGeneration(p types.WeeklyPlan, genErr error) (types.SavedPlan, error) {
	if a.view != ViewLoading || a.pending == nil {
		return types.SavedPlan{}, fmt.Errorf("%w: no generation pending", ErrInvalidTransition)
	}
	prof := *a.pending
	a.pending = nil

	if genErr == nil {
		if err := p.Validate(); err != nil {
			genErr = &gateway.GenerationError{Op: gateway.OpPlan, Reason: "incomplete plan", Err: err}
		}
	}
	if genErr != nil {
		logging.StateWarn("Generation failed, back to form: %v", genErr)
		a.setView(ViewForm)
		return types.SavedPlan{}, a.fail(genErr)
	}

	sp, err := a.catalog.Create(prof, p)
	if err != nil {
		a.setView(ViewForm)
		return types.SavedPlan{}, a.fail(err)
	}
	a.active = &ActivePlan{SavedID: sp.ID, Profile: prof, Plan: p}
	a.removal = nil
	a.setView(ViewPlan)
	return sp, nil
}

// Generate validates the form, then runs the whole generation synchronously.
// A validation failure leaves the form in place and never calls gen.
func (a *App) Generate(ctx context.Context, gen gateway.Generator, b *profile.Builder) (types.SavedPlan, error) {
	if err := a.checkIdle(); err != nil {
		return types.SavedPlan{}, err
	}
	p, err := b.Build()
	if err != nil {
		return types.SavedPlan{}, a.fail(err)
	}
	if err := a.BeginGeneration(p); err != nil {
		return types.SavedPlan{}, err
	}
	weekly, err := gen.GeneratePlan(ctx, p)
	return a.CompleteGeneration(weekly, err)
}
