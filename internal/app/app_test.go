package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"nutriplan/internal/gateway"
	"nutriplan/internal/plan"
	"nutriplan/internal/profile"
	"nutriplan/internal/progress"
	"nutriplan/internal/store"
	"nutriplan/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// countingGen wraps Fixture and counts calls.
type countingGen struct {
	gateway.Fixture
	plans atomic.Int32
	alts  atomic.Int32
}

func (g *countingGen) GeneratePlan(ctx context.Context, p types.UserProfile) (types.WeeklyPlan, error) {
	g.plans.Add(1)
	return g.Fixture.GeneratePlan(ctx, p)
}

func (g *countingGen) GenerateAlternative(ctx context.Context, m types.Meal, goal string) (types.Meal, error) {
	g.alts.Add(1)
	return g.Fixture.GenerateAlternative(ctx, m, goal)
}

func newPersistentApp(t *testing.T) (*App, *store.Records) {
	t.Helper()
	records := store.NewRecords(store.NewMemoryKV())
	return Load(context.Background(), records), records
}

func validBuilder() *profile.Builder {
	return profile.FromProfile(gateway.SampleProfile())
}

func generated(t *testing.T, a *App) types.SavedPlan {
	t.Helper()
	sp, err := a.Generate(context.Background(), gateway.NewFixture(), validBuilder())
	require.NoError(t, err)
	return sp
}

func TestInitialState(t *testing.T) {
	a := New(nil, nil)
	assert.Equal(t, ViewForm, a.View())
	_, ok := a.Active()
	assert.False(t, ok)
	assert.ErrorIs(t, a.ShowPlan(), ErrNoActivePlan)
}

func TestGenerate_SuccessBindsAndSaves(t *testing.T) {
	a, records := newPersistentApp(t)
	sp := generated(t, a)

	assert.Equal(t, ViewPlan, a.View())
	active, ok := a.Active()
	require.True(t, ok)
	assert.Equal(t, sp.ID, active.SavedID)
	assert.Len(t, active.Plan.WeeklySchedule, types.DaysPerPlan)
	assert.Equal(t, "Spring cut", sp.Name)

	persisted := records.LoadPlans(context.Background())
	require.Len(t, persisted, 1)
	assert.Equal(t, sp.ID, persisted[0].ID)
}

func TestGenerate_ValidationNeverCallsGateway(t *testing.T) {
	a := New(nil, nil)
	gen := &countingGen{}

	b := validBuilder()
	b.Age, b.Height, b.Weight = "", "", ""
	_, err := a.Generate(context.Background(), gen, b)

	assert.ErrorIs(t, err, profile.ErrValidation)
	assert.Equal(t, int32(0), gen.plans.Load())
	assert.Equal(t, ViewForm, a.View())
	assert.ErrorIs(t, a.Err(), profile.ErrValidation)
}

func TestGenerate_NonFiniteMeasurementsKeepCatalogPersistable(t *testing.T) {
	a, records := newPersistentApp(t)
	gen := &countingGen{}

	b := validBuilder()
	b.Weight = "NaN"
	_, err := a.Generate(context.Background(), gen, b)
	assert.ErrorIs(t, err, profile.ErrValidation)
	assert.Equal(t, int32(0), gen.plans.Load())

	sp := generated(t, a)
	assert.NoError(t, a.PersistErr())
	persisted := records.LoadPlans(context.Background())
	require.Len(t, persisted, 1)
	assert.Equal(t, sp.ID, persisted[0].ID)
}

func TestGenerate_FailureReturnsToFormWithoutSaving(t *testing.T) {
	a, records := newPersistentApp(t)
	gen := &gateway.Fixture{Fail: errors.New("quota exceeded")}

	_, err := a.Generate(context.Background(), gen, validBuilder())
	assert.ErrorIs(t, err, gateway.ErrGeneration)
	assert.Equal(t, ViewForm, a.View())
	assert.Zero(t, a.Catalog().Len())
	assert.Empty(t, records.LoadPlans(context.Background()))
	_, ok := a.Active()
	assert.False(t, ok)
	assert.Error(t, a.Err())
}

func TestCompleteGeneration_RejectsIncompletePlan(t *testing.T) {
	a := New(nil, nil)
	require.NoError(t, a.BeginGeneration(gateway.SampleProfile()))

	p := gateway.SamplePlan(gateway.SampleProfile())
	p.WeeklySchedule = p.WeeklySchedule[:3]
	_, err := a.CompleteGeneration(p, nil)
	assert.ErrorIs(t, err, gateway.ErrGeneration)
	assert.ErrorIs(t, err, types.ErrIncompletePlan)
	assert.Equal(t, ViewForm, a.View())
	assert.Zero(t, a.Catalog().Len())
}

func TestLoading_BlocksOtherCommands(t *testing.T) {
	a := New(nil, nil)
	require.NoError(t, a.BeginGeneration(gateway.SampleProfile()))
	assert.Equal(t, ViewLoading, a.View())

	assert.ErrorIs(t, a.ShowSaved(), ErrBusy)
	assert.ErrorIs(t, a.ShowTracker(), ErrBusy)
	assert.ErrorIs(t, a.ShowForm(), ErrBusy)
	assert.ErrorIs(t, a.BeginGeneration(gateway.SampleProfile()), ErrBusy)
	_, err := a.AddProgress(progress.Input{Date: "2024-01-01", Weight: 70})
	assert.ErrorIs(t, err, ErrBusy)

	_, err = a.CompleteGeneration(gateway.SamplePlan(gateway.SampleProfile()), nil)
	require.NoError(t, err)
	assert.Equal(t, ViewPlan, a.View())

	_, err = a.CompleteGeneration(types.WeeklyPlan{}, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBeginGeneration_OnlyFromForm(t *testing.T) {
	a := New(nil, nil)
	require.NoError(t, a.ShowTracker())
	assert.ErrorIs(t, a.BeginGeneration(gateway.SampleProfile()), ErrInvalidTransition)
}

func TestNavigation(t *testing.T) {
	a := New(nil, nil)
	sp := generated(t, a)

	require.NoError(t, a.ShowTracker())
	assert.Equal(t, ViewTracker, a.View())
	require.NoError(t, a.ShowSaved())
	require.NoError(t, a.ShowForm())
	_, ok := a.Active()
	assert.True(t, ok, "header shortcut keeps the binding")
	require.NoError(t, a.ShowPlan())

	require.NoError(t, a.ShowTracker())
	assert.ErrorIs(t, a.Reset(), ErrInvalidTransition)

	require.NoError(t, a.ShowSaved())
	require.NoError(t, a.Reset())
	assert.Equal(t, ViewForm, a.View())
	_, ok = a.Active()
	assert.False(t, ok)

	require.NoError(t, a.ShowSaved())
	require.NoError(t, a.SelectSaved(sp.ID))
	assert.Equal(t, ViewPlan, a.View())
	active, _ := a.Active()
	assert.Equal(t, sp.ID, active.SavedID)

	assert.Error(t, a.SelectSaved("missing"))
}

func seededApp(t *testing.T) (*App, *store.Records) {
	t.Helper()
	ctx := context.Background()
	prof := gateway.SampleProfile()
	records := store.NewRecords(store.NewMemoryKV())
	require.NoError(t, records.SavePlans(ctx, []types.SavedPlan{
		{ID: "111", Name: "first", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Profile: prof, Plan: gateway.SamplePlan(prof)},
		{ID: "123", Name: "second", CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Profile: prof, Plan: gateway.SamplePlan(prof)},
	}))
	return Load(ctx, records), records
}

func TestDeletePlan_ConfirmationGate(t *testing.T) {
	a, records := seededApp(t)
	require.NoError(t, a.ShowSaved())
	before := a.Catalog().All()

	require.NoError(t, a.RequestDeletePlan("123"))
	pending, ok := a.PendingDeletePlan()
	require.True(t, ok)
	assert.Equal(t, "second", pending.Name)

	a.CancelDeletePlan()
	assert.Equal(t, before, a.Catalog().All())
	_, ok = a.PendingDeletePlan()
	assert.False(t, ok)

	require.NoError(t, a.RequestDeletePlan("123"))
	removed, err := a.ConfirmDeletePlan()
	require.NoError(t, err)
	assert.Equal(t, "123", removed.ID)
	assert.Equal(t, ViewSaved, a.View())

	left := records.LoadPlans(context.Background())
	require.Len(t, left, 1)
	assert.Equal(t, "111", left[0].ID)
}

func TestDeletePlan_ActivePlanIsUnbound(t *testing.T) {
	a, _ := seededApp(t)
	require.NoError(t, a.SelectSaved("123"))
	require.NoError(t, a.ShowSaved())

	require.NoError(t, a.RequestDeletePlan("123"))
	_, err := a.ConfirmDeletePlan()
	require.NoError(t, err)

	assert.Equal(t, ViewSaved, a.View())
	_, ok := a.Active()
	assert.False(t, ok)
	assert.ErrorIs(t, a.ShowPlan(), ErrNoActivePlan)
}

func TestDeletePlan_OtherPlanKeepsBinding(t *testing.T) {
	a, _ := seededApp(t)
	require.NoError(t, a.SelectSaved("111"))
	require.NoError(t, a.ShowSaved())

	require.NoError(t, a.RequestDeletePlan("123"))
	_, err := a.ConfirmDeletePlan()
	require.NoError(t, err)

	active, ok := a.Active()
	require.True(t, ok)
	assert.Equal(t, "111", active.SavedID)
	assert.Equal(t, ViewSaved, a.View())
}

func TestUpdateMeal_OnlyThatMealChanges(t *testing.T) {
	a, _ := seededApp(t)
	require.NoError(t, a.SelectSaved("111"))
	before, _ := a.Active()

	meal := types.Meal{Name: " Tuna salad ", Description: "Light", Ingredients: []string{"tuna", "lettuce"}}
	require.NoError(t, a.UpdateMeal(2, types.SlotLunch, meal))

	after, _ := a.Active()
	got, err := a.MealAt(2, types.SlotLunch)
	require.NoError(t, err)
	assert.Equal(t, "Tuna salad", got.Name)

	// Restoring the old meal yields byte-identical JSON.
	restored := after.Plan
	restored.WeeklySchedule = append([]types.DayPlan(nil), after.Plan.WeeklySchedule...)
	restored.WeeklySchedule[2].Lunch = before.Plan.WeeklySchedule[2].Lunch
	want, err := json.Marshal(before.Plan)
	require.NoError(t, err)
	have, err := json.Marshal(restored)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(have))

	// The saved snapshot is untouched and the binding keeps its id.
	saved, ok := a.Catalog().Get("111")
	require.True(t, ok)
	assert.Empty(t, cmp.Diff(before.Plan, saved.Plan))
	assert.Equal(t, "111", after.SavedID)

	assert.ErrorIs(t, a.UpdateMeal(7, types.SlotLunch, meal), plan.ErrInvalidDay)
	assert.ErrorIs(t, a.UpdateMeal(0, types.MealSlot("brunch"), meal), plan.ErrInvalidSlot)
	assert.Error(t, a.UpdateMeal(0, types.SlotLunch, types.Meal{}))
}

func TestApplyAlternative(t *testing.T) {
	a, _ := seededApp(t)
	require.NoError(t, a.SelectSaved("111"))
	orig, err := a.MealAt(0, types.SlotDinner)
	require.NoError(t, err)

	alt, err := a.ApplyAlternative(context.Background(), gateway.NewFixture(), 0, types.SlotDinner)
	require.NoError(t, err)
	got, _ := a.MealAt(0, types.SlotDinner)
	assert.Equal(t, alt, got)
	assert.NotEqual(t, orig.Name, got.Name)

	failing := &gateway.Fixture{Fail: errors.New("timeout")}
	_, err = a.ApplyAlternative(context.Background(), failing, 0, types.SlotDinner)
	assert.ErrorIs(t, err, gateway.ErrGeneration)
	still, _ := a.MealAt(0, types.SlotDinner)
	assert.Equal(t, got, still)

	err = a.ApplyAlternativeResult(0, types.SlotDinner, types.Meal{Description: "no name"}, nil)
	assert.ErrorIs(t, err, gateway.ErrGeneration)
	still, _ = a.MealAt(0, types.SlotDinner)
	assert.Equal(t, got, still)
}

func TestGuideItemEditing(t *testing.T) {
	a, _ := seededApp(t)
	require.NoError(t, a.SelectSaved("111"))
	c := types.CategoryBreakfast

	require.NoError(t, a.AppendGuideItem(c, "Pancakes"))
	assert.Error(t, a.AppendGuideItem(c, "   "))
	require.NoError(t, a.ReplaceGuideItem(c, 0, "Overnight oats"))

	list, err := a.GuideList(c)
	require.NoError(t, err)
	require.Len(t, list, 6)
	assert.Equal(t, "Overnight oats", list[0])
	assert.Equal(t, "Pancakes", list[5])

	saved, _ := a.Catalog().Get("111")
	assert.Len(t, saved.Plan.FoodGuide.BreakfastOptions, 5)
}

func TestGuideItemRemoval_ConfirmationGate(t *testing.T) {
	a, _ := seededApp(t)
	require.NoError(t, a.SelectSaved("111"))
	c := types.CategoryBreakfast
	orig, _ := a.GuideList(c)
	require.Len(t, orig, 5)

	assert.ErrorIs(t, a.ConfirmGuideItemRemoval(), ErrNoPendingRemoval)

	require.NoError(t, a.RequestGuideItemRemoval(c, 2))
	pending, ok := a.PendingGuideRemoval()
	require.True(t, ok)
	assert.Equal(t, orig[2], pending.Item)

	a.CancelGuideItemRemoval()
	list, _ := a.GuideList(c)
	assert.Equal(t, orig, list)

	require.NoError(t, a.RequestGuideItemRemoval(c, 2))
	require.NoError(t, a.ConfirmGuideItemRemoval())
	list, _ = a.GuideList(c)
	assert.Equal(t, []string{orig[0], orig[1], orig[3], orig[4]}, list)

	assert.Error(t, a.RequestGuideItemRemoval(c, 4))
}

func TestGuideItemRemoval_SurvivesBusyConfirm(t *testing.T) {
	a, _ := seededApp(t)
	require.NoError(t, a.SelectSaved("111"))
	c := types.CategoryBreakfast
	orig, _ := a.GuideList(c)

	require.NoError(t, a.RequestGuideItemRemoval(c, 0))
	require.NoError(t, a.ShowForm())
	require.NoError(t, a.BeginGeneration(gateway.SampleProfile()))

	assert.ErrorIs(t, a.ConfirmGuideItemRemoval(), ErrBusy)
	_, ok := a.PendingGuideRemoval()
	assert.True(t, ok, "a refused confirmation keeps the removal pending")

	_, err := a.CompleteGeneration(types.WeeklyPlan{}, errors.New("offline"))
	require.Error(t, err)
	require.NoError(t, a.ShowPlan())

	require.NoError(t, a.ConfirmGuideItemRemoval())
	list, _ := a.GuideList(c)
	assert.Equal(t, orig[1:], list)
}

func TestSaveActiveAsNew(t *testing.T) {
	a, records := seededApp(t)
	require.NoError(t, a.SelectSaved("111"))
	require.NoError(t, a.AppendGuideItem(types.CategorySnack, "Dark chocolate"))

	sp, err := a.SaveActiveAsNew("Edited week")
	require.NoError(t, err)
	assert.Equal(t, "Edited week", sp.Name)
	assert.NotEqual(t, "111", sp.ID)
	assert.Contains(t, sp.Plan.FoodGuide.SnackOptions, "Dark chocolate")

	active, _ := a.Active()
	assert.Equal(t, sp.ID, active.SavedID)

	orig, _ := a.Catalog().Get("111")
	assert.NotContains(t, orig.Plan.FoodGuide.SnackOptions, "Dark chocolate")
	assert.Len(t, records.LoadPlans(context.Background()), 3)
}

func TestAddProgress_PersistsAndOrders(t *testing.T) {
	a, records := newPersistentApp(t)
	for _, d := range []string{"2024-01-05", "2024-01-20"} {
		_, err := a.AddProgress(progress.Input{Date: d, Weight: 71})
		require.NoError(t, err)
	}
	e, err := a.AddProgress(progress.Input{Date: "2024-01-10", Weight: 70.5})
	require.NoError(t, err)
	assert.Nil(t, e.Waist)

	var order []string
	for entry := range a.Progress().Chronological() {
		order = append(order, entry.Date)
	}
	assert.Equal(t, []string{"2024-01-05", "2024-01-10", "2024-01-20"}, order)
	assert.Len(t, records.LoadProgress(context.Background()), 3)
	assert.NoError(t, a.PersistErr())

	_, err = a.AddProgress(progress.Input{Date: "", Weight: 70})
	assert.ErrorIs(t, err, progress.ErrInvalidDate)
}

func TestReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	a := Load(ctx, store.NewRecords(kv))
	generated(t, a)
	require.NoError(t, a.ShowForm())
	generated(t, a)
	_, err := a.AddProgress(progress.Input{Date: "2024-01-05", Weight: 80})
	require.NoError(t, err)

	reloaded := Load(ctx, store.NewRecords(kv))
	assert.Empty(t, cmp.Diff(a.Catalog().All(), reloaded.Catalog().All()))
	assert.Empty(t, cmp.Diff(a.Progress().All(), reloaded.Progress().All()))
	assert.Equal(t, ViewForm, reloaded.View())
}

func TestPersistErrorIsRecorded(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	a := Load(ctx, store.NewRecords(kv))
	require.NoError(t, kv.Close())

	_, err := a.AddProgress(progress.Input{Date: "2024-01-05", Weight: 80})
	require.NoError(t, err, "the in-memory log still accepts the entry")
	assert.ErrorIs(t, a.PersistErr(), store.ErrClosed)
}

func TestViewString(t *testing.T) {
	assert.Equal(t, "tracker", ViewTracker.String())
	assert.Equal(t, "View(9)", View(9).String())
}
