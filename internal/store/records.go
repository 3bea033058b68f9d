package store

import (
	"context"
	"encoding/json"
	"fmt"

	"nutriplan/internal/logging"
	"nutriplan/internal/types"
)

// Record names. These match the keys used by earlier releases so existing
// data keeps loading.
const (
	PlansKey    = "nutriplan_plans"
	ProgressKey = "nutriplan_progress"
)

// Records reads and writes the saved-plan and progress collections.
type Records struct {
	kv KV
}

// NewRecords wraps kv.
func NewRecords(kv KV) *Records {
	return &Records{kv: kv}
}

// LoadPlans returns the saved plans in stored order. A missing or malformed
// record yields an empty collection.
func (r *Records) LoadPlans(ctx context.Context) []types.SavedPlan {
	var plans []types.SavedPlan
	if !r.load(ctx, PlansKey, &plans) {
		return []types.SavedPlan{}
	}
	if plans == nil {
		plans = []types.SavedPlan{}
	}
	logging.Store("Loaded %d saved plans", len(plans))
	return plans
}

// LoadProgress returns the progress entries in stored order. A missing or
// malformed record yields an empty collection.
func (r *Records) LoadProgress(ctx context.Context) []types.ProgressEntry {
	var entries []types.ProgressEntry
	if !r.load(ctx, ProgressKey, &entries) {
		return []types.ProgressEntry{}
	}
	if entries == nil {
		entries = []types.ProgressEntry{}
	}
	logging.Store("Loaded %d progress entries", len(entries))
	return entries
}

// SavePlans overwrites the saved-plan record.
func (r *Records) SavePlans(ctx context.Context, plans []types.SavedPlan) error {
	if plans == nil {
		plans = []types.SavedPlan{}
	}
	return r.save(ctx, PlansKey, plans)
}

// SaveProgress overwrites the progress record.
func (r *Records) SaveProgress(ctx context.Context, entries []types.ProgressEntry) error {
	if entries == nil {
		entries = []types.ProgressEntry{}
	}
	return r.save(ctx, ProgressKey, entries)
}

func (r *Records) load(ctx context.Context, key string, dst any) bool {
	data, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		logging.StoreWarn("Read of %s failed, starting empty: %v", key, err)
		return false
	}
	if !ok {
		logging.StoreDebug("No %s record yet", key)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logging.StoreWarn("Malformed %s record ignored: %v", key, err)
		return false
	}
	return true
}

func (r *Records) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := r.kv.Put(ctx, key, data); err != nil {
		logging.StoreError("Write of %s failed: %v", key, err)
		return err
	}
	return nil
}
