package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"nutriplan/internal/types"
)

func samplePlans() []types.SavedPlan {
	return []types.SavedPlan{{
		ID:        "p-1",
		Name:      "Cut",
		CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Profile:   types.UserProfile{Name: "Ana", Age: 30, Gender: types.GenderFemale, Height: 165, Weight: 60, Goal: types.GoalTone, Schedule: types.DefaultSchedule()},
	}}
}

func sampleEntries() []types.ProgressEntry {
	waist := 80.5
	return []types.ProgressEntry{
		{ID: "e-1", Date: "2024-01-05", Weight: 80},
		{ID: "e-2", Date: "2024-01-10", Weight: 79.4, Waist: &waist, WorkoutPerformance: types.PerformanceGood, Notes: "ok"},
	}
}

func TestSQLiteKV_RoundTripAcrossReopen(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "nutriplan.db")

	kv, err := OpenSQLite(DriverModernc, path)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, kv.SchemaVersion())

	r := NewRecords(kv)
	require.NoError(t, r.SavePlans(ctx, samplePlans()))
	require.NoError(t, r.SaveProgress(ctx, sampleEntries()))
	require.NoError(t, kv.Close())

	kv, err = OpenSQLite(DriverModernc, path)
	require.NoError(t, err)
	defer kv.Close()
	assert.Equal(t, CurrentSchemaVersion, kv.SchemaVersion())

	r = NewRecords(kv)
	assert.Equal(t, samplePlans(), r.LoadPlans(ctx))
	assert.Equal(t, sampleEntries(), r.LoadProgress(ctx))
}

func TestSQLiteKV_Overwrite(t *testing.T) {
	ctx := context.Background()
	kv, err := OpenSQLite("", filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	defer kv.Close()
	assert.Equal(t, DriverModernc, kv.Driver())

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Put(ctx, "k", []byte("one")))
	require.NoError(t, kv.Put(ctx, "k", []byte("two")))
	v, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", string(v))
}

func TestSQLiteKV_CGODriver(t *testing.T) {
	kv, err := OpenSQLite(DriverCGO, filepath.Join(t.TempDir(), "cgo.db"))
	if err != nil {
		t.Skipf("cgo sqlite driver unavailable: %v", err)
	}
	defer kv.Close()

	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, PlansKey, []byte("[]")))
	v, ok, err := kv.Get(ctx, PlansKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", string(v))
}

func TestOpenSQLite_UnknownDriver(t *testing.T) {
	_, err := OpenSQLite("postgres", filepath.Join(t.TempDir(), "x.db"))
	assert.Error(t, err)
}

func TestSQLiteKV_Closed(t *testing.T) {
	kv, err := OpenSQLite(DriverModernc, filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	require.NoError(t, kv.Close())
	require.NoError(t, kv.Close())

	_, _, err = kv.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, kv.Put(context.Background(), "k", nil), ErrClosed)
}

func TestRecords_MissingDataLoadsEmpty(t *testing.T) {
	r := NewRecords(NewMemoryKV())
	ctx := context.Background()

	plans := r.LoadPlans(ctx)
	require.NotNil(t, plans)
	assert.Empty(t, plans)
	entries := r.LoadProgress(ctx)
	require.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestRecords_MalformedDataLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Put(ctx, PlansKey, []byte("{not json")))
	require.NoError(t, kv.Put(ctx, ProgressKey, []byte(`{"id": "object, not array"}`)))

	r := NewRecords(kv)
	assert.Empty(t, r.LoadPlans(ctx))
	assert.Empty(t, r.LoadProgress(ctx))
}

func TestRecords_NullLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Put(ctx, PlansKey, []byte("null")))

	plans := NewRecords(kv).LoadPlans(ctx)
	require.NotNil(t, plans)
	assert.Empty(t, plans)
}

func TestRecords_SaveNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	r := NewRecords(kv)
	require.NoError(t, r.SaveProgress(ctx, nil))

	v, ok, err := kv.Get(ctx, ProgressKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", string(v))
}

func TestRecords_WriteFailureSurfaces(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Close())
	err := NewRecords(kv).SavePlans(context.Background(), samplePlans())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryKV_CopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	in := []byte("abc")
	require.NoError(t, kv.Put(ctx, "k", in))
	in[0] = 'z'

	v, _, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(v))
}
