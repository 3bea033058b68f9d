// Package catalog holds the ordered collection of saved plan snapshots.
//
// Snapshots are immutable once created. Deletion is two-step: RequestDelete
// records the target, and only ConfirmDelete removes it. Every mutation is
// reported to the observer with the full collection so it can be persisted.
package catalog

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"nutriplan/internal/logging"
	"nutriplan/internal/types"
)

var (
	// ErrNotFound is returned for an unknown plan id.
	ErrNotFound = errors.New("saved plan not found")
	// ErrNoPendingDelete is returned when confirming without a request.
	ErrNoPendingDelete = errors.New("no deletion pending")
)

// DefaultNameLayout formats the fallback plan name.
const DefaultNameLayout = "2006-01-02"

// Observer receives the full collection after each mutation.
type Observer func(plans []types.SavedPlan)

// Catalog is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	plans    []types.SavedPlan
	pending  string
	observer Observer
	now      func() time.Time
	newID    func() (string, error)
}

// New creates a catalog seeded with plans (typically loaded from the store).
func New(plans []types.SavedPlan) *Catalog {
	owned := make([]types.SavedPlan, len(plans))
	copy(owned, plans)
	return &Catalog{
		plans: owned,
		now:   time.Now,
		newID: newV7,
	}
}

func newV7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// SetObserver registers the mutation callback.
func (c *Catalog) SetObserver(o Observer) {
	c.mu.Lock()
	c.observer = o
	c.mu.Unlock()
}

// SetClock overrides the time source.
func (c *Catalog) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// DefaultName returns the name given to a plan created at t without one.
func DefaultName(t time.Time) string {
	return "Plan " + t.Format(DefaultNameLayout)
}

// Create snapshots profile and plan as a new SavedPlan and appends it.
func (c *Catalog) Create(profile types.UserProfile, plan types.WeeklyPlan) (types.SavedPlan, error) {
	c.mu.Lock()
	id, err := c.newID()
	if err != nil {
		c.mu.Unlock()
		return types.SavedPlan{}, fmt.Errorf("failed to allocate plan id: %w", err)
	}
	now := c.now()
	name := strings.TrimSpace(profile.PlanName)
	if name == "" {
		name = DefaultName(now)
	}
	sp := types.SavedPlan{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		Profile:   profile,
		Plan:      plan,
	}
	c.plans = append(c.plans, sp)
	snapshot, obs := c.snapshotLocked()
	c.mu.Unlock()

	logging.State("Saved plan %s (%q), %d total", id, name, len(snapshot))
	if obs != nil {
		obs(snapshot)
	}
	return sp, nil
}

// Get returns the plan with id.
func (c *Catalog) Get(id string) (types.SavedPlan, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexLocked(id)
	if i < 0 {
		return types.SavedPlan{}, false
	}
	return c.plans[i], true
}

// Select returns the profile and plan of a snapshot for activation.
func (c *Catalog) Select(id string) (types.UserProfile, types.WeeklyPlan, error) {
	sp, ok := c.Get(id)
	if !ok {
		return types.UserProfile{}, types.WeeklyPlan{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sp.Profile, sp.Plan, nil
}

// RequestDelete marks id for deletion pending confirmation.
func (c *Catalog) RequestDelete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexLocked(id) < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.pending = id
	return nil
}

// PendingDelete returns the id awaiting confirmation.
func (c *Catalog) PendingDelete() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending, c.pending != ""
}

// CancelDelete clears the pending request without mutating the collection.
func (c *Catalog) CancelDelete() {
	c.mu.Lock()
	c.pending = ""
	c.mu.Unlock()
}

// ConfirmDelete removes the pending plan and returns it.
func (c *Catalog) ConfirmDelete() (types.SavedPlan, error) {
	c.mu.Lock()
	id := c.pending
	c.pending = ""
	if id == "" {
		c.mu.Unlock()
		return types.SavedPlan{}, ErrNoPendingDelete
	}
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return types.SavedPlan{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	removed := c.plans[i]
	next := make([]types.SavedPlan, 0, len(c.plans)-1)
	next = append(next, c.plans[:i]...)
	c.plans = append(next, c.plans[i+1:]...)
	snapshot, obs := c.snapshotLocked()
	c.mu.Unlock()

	logging.State("Deleted plan %s (%q), %d remain", removed.ID, removed.Name, len(snapshot))
	if obs != nil {
		obs(snapshot)
	}
	return removed, nil
}

// All returns a copy of the collection in insertion order.
func (c *Catalog) All() []types.SavedPlan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.SavedPlan, len(c.plans))
	copy(out, c.plans)
	return out
}

// NewestFirst yields the plans in reverse insertion order. It iterates over
// the snapshot taken when the sequence is created.
func (c *Catalog) NewestFirst() iter.Seq[types.SavedPlan] {
	plans := c.All()
	return func(yield func(types.SavedPlan) bool) {
		for i := len(plans) - 1; i >= 0; i-- {
			if !yield(plans[i]) {
				return
			}
		}
	}
}

// Len returns the number of saved plans.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.plans)
}

func (c *Catalog) indexLocked(id string) int {
	for i := range c.plans {
		if c.plans[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Catalog) snapshotLocked() ([]types.SavedPlan, Observer) {
	out := make([]types.SavedPlan, len(c.plans))
	copy(out, c.plans)
	return out, c.observer
}
