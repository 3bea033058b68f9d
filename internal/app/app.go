// Package app owns nutriplan's application state: the current view, the
// active plan binding, the saved-plan catalog, the progress log and the
// pending confirmations.
//
// App is driven by discrete user commands and is not safe for concurrent
// use; the TUI calls it only from its update loop. The one asynchronous
// operation, generation, is split into BeginGeneration and
// CompleteGeneration so the caller can run the gateway call elsewhere while
// the state machine sits in ViewLoading.
package app

import (
	"context"
	"errors"
	"fmt"

	"nutriplan/internal/catalog"
	"nutriplan/internal/gateway"
	"nutriplan/internal/logging"
	"nutriplan/internal/plan"
	"nutriplan/internal/progress"
	"nutriplan/internal/store"
	"nutriplan/internal/types"
)

// View is the screen the application is showing.
type View int

const (
	ViewForm View = iota
	ViewLoading
	ViewPlan
	ViewTracker
	ViewSaved
)

func (v View) String() string {
	switch v {
	case ViewForm:
		return "form"
	case ViewLoading:
		return "loading"
	case ViewPlan:
		return "plan"
	case ViewTracker:
		return "tracker"
	case ViewSaved:
		return "saved"
	}
	return fmt.Sprintf("View(%d)", int(v))
}

var (
	// ErrBusy is returned by every command other than CompleteGeneration
	// while a generation is pending.
	ErrBusy = gateway.ErrBusy
	// ErrNoActivePlan is returned by plan commands when nothing is bound.
	ErrNoActivePlan = errors.New("no active plan")
	// ErrInvalidTransition is returned for a command the current view does not accept.
	ErrInvalidTransition = errors.New("invalid view transition")
	// ErrNoPendingRemoval is returned when confirming without a request.
	ErrNoPendingRemoval = errors.New("no food guide removal pending")
)

// ActivePlan is the plan bound for display and editing. Plan may diverge
// from the SavedPlan snapshot it was loaded from; SavedID never changes.
type ActivePlan struct {
	SavedID string
	Profile types.UserProfile
	Plan    types.WeeklyPlan
}

// App is the explicit application state.
type App struct {
	view     View
	active   *ActivePlan
	pending  *types.UserProfile // profile submitted for the in-flight generation
	removal  *plan.PendingRemoval
	lastErr  error
	persist  error
	catalog  *catalog.Catalog
	progress *progress.Log
}

// Load builds an App from the persisted records and wires every catalog and
// progress mutation to a synchronous full-overwrite save.
func Load(ctx context.Context, records *store.Records) *App {
	a := New(records.LoadPlans(ctx), records.LoadProgress(ctx))
	a.catalog.SetObserver(func(plans []types.SavedPlan) {
		a.persist = records.SavePlans(ctx, plans)
	})
	a.progress.SetObserver(func(entries []types.ProgressEntry) {
		a.persist = records.SaveProgress(ctx, entries)
	})
	return a
}

// New builds an App without persistence.
func New(plans []types.SavedPlan, entries []types.ProgressEntry) *App {
	logging.State("App state initialized (%d saved plans, %d progress entries)", len(plans), len(entries))
	return &App{
		view:     ViewForm,
		catalog:  catalog.New(plans),
		progress: progress.New(entries),
	}
}

// View returns the current view.
func (a *App) View() View { return a.view }

// Active returns the bound plan.
func (a *App) Active() (ActivePlan, bool) {
	if a.active == nil {
		return ActivePlan{}, false
	}
	return *a.active, true
}

// Catalog exposes the saved-plan catalog for listing.
func (a *App) Catalog() *catalog.Catalog { return a.catalog }

// Progress exposes the progress log for listing.
func (a *App) Progress() *progress.Log { return a.progress }

// Err returns the last user-visible error, if any.
func (a *App) Err() error { return a.lastErr }

// ClearErr dismisses the user-visible error.
func (a *App) ClearErr() { a.lastErr = nil }

// PersistErr returns the result of the most recent save.
func (a *App) PersistErr() error { return a.persist }

func (a *App) setView(v View) {
	if a.view != v {
		logging.State("View %s -> %s", a.view, v)
	}
	a.view = v
}

func (a *App) checkIdle() error {
	if a.view == ViewLoading {
		return ErrBusy
	}
	return nil
}

func (a *App) fail(err error) error {
	a.lastErr = err
	return err
}

// =============================================================================
// NAVIGATION
// =============================================================================

// ShowPlan switches to the active plan.
func (a *App) ShowPlan() error {
	if err := a.checkIdle(); err != nil {
		return err
	}
	if a.active == nil {
		return ErrNoActivePlan
	}
	a.setView(ViewPlan)
	return nil
}

// ShowSaved switches to the saved-plan list.
func (a *App) ShowSaved() error {
	if err := a.checkIdle(); err != nil {
		return err
	}
	a.setView(ViewSaved)
	return nil
}

// ShowTracker switches to the progress tracker.
func (a *App) ShowTracker() error {
	if err := a.checkIdle(); err != nil {
		return err
	}
	a.setView(ViewTracker)
	return nil
}

// ShowForm switches to the profile form and keeps the active binding.
func (a *App) ShowForm() error {
	if err := a.checkIdle(); err != nil {
		return err
	}
	a.setView(ViewForm)
	return nil
}

// SelectSaved binds a saved snapshot as the active plan.
func (a *App) SelectSaved(id string) error {
	if err := a.checkIdle(); err != nil {
		return err
	}
	profile, p, err := a.catalog.Select(id)
	if err != nil {
		return a.fail(err)
	}
	a.active = &ActivePlan{SavedID: id, Profile: profile, Plan: p}
	a.removal = nil
	logging.State("Bound saved plan %s", id)
	a.setView(ViewPlan)
	return nil
}

// Reset clears the active plan and returns to the form.
func (a *App) Reset() error {
	if err := a.checkIdle(); err != nil {
		return err
	}
	if a.view != ViewPlan && a.view != ViewSaved {
		return fmt.Errorf("%w: reset from %s", ErrInvalidTransition, a.view)
	}
	a.active = nil
	a.removal = nil
	a.setView(ViewForm)
	return nil
}

// =============================================================================
// SAVED PLAN DELETION
// =============================================================================

// RequestDeletePlan marks a saved plan for deletion.
func (a *App) RequestDeletePlan(id string) error {
	if err := a.checkIdle(); err != nil {
		return err
	}
	return a.catalog.RequestDelete(id)
}

// PendingDeletePlan returns the saved plan awaiting confirmation.
func (a *App) PendingDeletePlan() (types.SavedPlan, bool) {
	id, ok := a.catalog.PendingDelete()
	if !ok {
		return types.SavedPlan{}, false
	}
	return a.catalog.Get(id)
}

// CancelDeletePlan clears the pending deletion.
func (a *App) CancelDeletePlan() {
	a.catalog.CancelDelete()
}

// ConfirmDeletePlan removes the pending saved plan. Deleting the plan the
// active binding came from unbinds it and moves to ViewSaved.
func (a *App) ConfirmDeletePlan() (types.SavedPlan, error) {
	if err := a.checkIdle(); err != nil {
		return types.SavedPlan{}, err
	}
	removed, err := a.catalog.ConfirmDelete()
	if err != nil {
		return types.SavedPlan{}, err
	}
	if a.active != nil && a.active.SavedID == removed.ID {
		logging.State("Active plan %s deleted, unbinding", removed.ID)
		a.active = nil
		a.removal = nil
		a.setView(ViewSaved)
	}
	return removed, nil
}

// =============================================================================
// PROGRESS
// =============================================================================

// AddProgress appends a progress entry.
func (a *App) AddProgress(in progress.Input) (types.ProgressEntry, error) {
	if err := a.checkIdle(); err != nil {
		return types.ProgressEntry{}, err
	}
	e, err := a.progress.Append(in)
	if err != nil {
		return types.ProgressEntry{}, a.fail(err)
	}
	return e, nil
}
