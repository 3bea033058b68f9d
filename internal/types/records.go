package types

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day layout of ProgressEntry.Date.
const DateLayout = "2006-01-02"

// Performance is the optional workout feeling tag of a progress entry.
type Performance string

const (
	PerformanceExcellent Performance = "Excellent"
	PerformanceGood      Performance = "Good"
	PerformanceAverage   Performance = "Average"
	PerformanceTired     Performance = "Tired"
	PerformanceRest      Performance = "Rest"
)

// Performances lists the known tags in form order.
var Performances = []Performance{PerformanceExcellent, PerformanceGood, PerformanceAverage, PerformanceTired, PerformanceRest}

// ParsePerformance accepts "" (not recorded) or any casing of a known tag.
func ParsePerformance(s string) (Performance, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, p := range Performances {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown workout performance %q", s)
}

// ProgressEntry is one body-metric log line. Entries are never mutated.
type ProgressEntry struct {
	ID                 string      `json:"id"`
	Date               string      `json:"date"` // YYYY-MM-DD
	Weight             float64     `json:"weight"`
	Waist              *float64    `json:"waist,omitempty"`
	WorkoutPerformance Performance `json:"workoutPerformance,omitempty"`
	Notes              string      `json:"notes"`
}

// Day parses Date.
func (e ProgressEntry) Day() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}

// SavedPlan is an immutable snapshot of a generated plan.
type SavedPlan struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	CreatedAt time.Time   `json:"createdAt"`
	Profile   UserProfile `json:"profile"`
	Plan      WeeklyPlan  `json:"plan"`
}
