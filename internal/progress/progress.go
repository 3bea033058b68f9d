// Package progress is the append-only log of body-metric entries.
//
// Entries are kept in insertion order. Chronological and NewestFirst are
// lazy views over that backing slice; entries sharing a date keep their
// insertion order in both views.
package progress

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"nutriplan/internal/logging"
	"nutriplan/internal/types"
)

var (
	// ErrInvalidDate rejects dates that are not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date (expected YYYY-MM-DD)")
	// ErrInvalidWeight rejects non-positive or non-finite weights.
	ErrInvalidWeight = errors.New("weight must be a positive number")
	// ErrInvalidWaist rejects a non-positive waist measurement.
	ErrInvalidWaist = errors.New("waist must be a positive number")
)

// Input is one submission of the tracker form.
type Input struct {
	Date               string
	Weight             float64
	Waist              *float64
	WorkoutPerformance string
	Notes              string
}

// Observer receives the full collection after each append.
type Observer func(entries []types.ProgressEntry)

// Log is safe for concurrent use.
type Log struct {
	mu       sync.RWMutex
	entries  []types.ProgressEntry
	observer Observer
	newID    func() (string, error)
}

// New creates a log seeded with entries (typically loaded from the store).
func New(entries []types.ProgressEntry) *Log {
	owned := make([]types.ProgressEntry, len(entries))
	copy(owned, entries)
	return &Log{entries: owned, newID: newV7}
}

func newV7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// SetObserver registers the mutation callback.
func (l *Log) SetObserver(o Observer) {
	l.mu.Lock()
	l.observer = o
	l.mu.Unlock()
}

// Validate checks in without appending it.
func (in Input) Validate() (types.ProgressEntry, error) {
	date := strings.TrimSpace(in.Date)
	if _, err := time.Parse(types.DateLayout, date); err != nil {
		return types.ProgressEntry{}, fmt.Errorf("%w: %q", ErrInvalidDate, in.Date)
	}
	if in.Weight <= 0 || math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0) {
		return types.ProgressEntry{}, ErrInvalidWeight
	}
	var waist *float64
	if in.Waist != nil {
		if *in.Waist <= 0 || math.IsNaN(*in.Waist) || math.IsInf(*in.Waist, 0) {
			return types.ProgressEntry{}, ErrInvalidWaist
		}
		w := *in.Waist
		waist = &w
	}
	perf, err := types.ParsePerformance(in.WorkoutPerformance)
	if err != nil {
		return types.ProgressEntry{}, err
	}
	return types.ProgressEntry{
		Date:               date,
		Weight:             in.Weight,
		Waist:              waist,
		WorkoutPerformance: perf,
		Notes:              strings.TrimSpace(in.Notes),
	}, nil
}

// Append validates in and adds it as a new entry.
func (l *Log) Append(in Input) (types.ProgressEntry, error) {
	entry, err := in.Validate()
	if err != nil {
		return types.ProgressEntry{}, err
	}

	l.mu.Lock()
	id, err := l.newID()
	if err != nil {
		l.mu.Unlock()
		return types.ProgressEntry{}, fmt.Errorf("failed to allocate entry id: %w", err)
	}
	entry.ID = id
	l.entries = append(l.entries, entry)
	snapshot := slices.Clone(l.entries)
	obs := l.observer
	l.mu.Unlock()

	logging.State("Progress entry %s on %s (%.1f kg)", entry.ID, entry.Date, entry.Weight)
	if obs != nil {
		obs(snapshot)
	}
	return entry, nil
}

// All returns a copy of the entries in insertion order.
func (l *Log) All() []types.ProgressEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.entries)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// sorted returns the entries ordered by date, ties in insertion order.
func (l *Log) sorted() []types.ProgressEntry {
	out := l.All()
	slices.SortStableFunc(out, func(a, b types.ProgressEntry) int {
		return strings.Compare(a.Date, b.Date)
	})
	return out
}

// Chronological yields entries by ascending date. Each range over the
// sequence reads the log afresh.
func (l *Log) Chronological() iter.Seq[types.ProgressEntry] {
	return func(yield func(types.ProgressEntry) bool) {
		for _, e := range l.sorted() {
			if !yield(e) {
				return
			}
		}
	}
}

// NewestFirst yields entries by descending date: the exact reverse of
// Chronological.
func (l *Log) NewestFirst() iter.Seq[types.ProgressEntry] {
	return func(yield func(types.ProgressEntry) bool) {
		s := l.sorted()
		for i := len(s) - 1; i >= 0; i-- {
			if !yield(s[i]) {
				return
			}
		}
	}
}

// Summary describes the weight trend over the chronological view.
type Summary struct {
	Count       int
	FirstDate   string
	LastDate    string
	FirstWeight float64
	LastWeight  float64
	MinWeight   float64
	MaxWeight   float64
}

// Delta is the weight change from the first to the last entry.
func (s Summary) Delta() float64 { return s.LastWeight - s.FirstWeight }

// Chartable reports whether there are enough points to draw a trend.
func (s Summary) Chartable() bool { return s.Count >= 2 }

// Summary computes the trend summary. The zero Summary means no entries.
func (l *Log) Summary() Summary {
	var s Summary
	for e := range l.Chronological() {
		if s.Count == 0 {
			s.FirstDate, s.FirstWeight = e.Date, e.Weight
			s.MinWeight, s.MaxWeight = e.Weight, e.Weight
		}
		s.Count++
		s.LastDate, s.LastWeight = e.Date, e.Weight
		s.MinWeight = min(s.MinWeight, e.Weight)
		s.MaxWeight = max(s.MaxWeight, e.Weight)
	}
	return s
}
