// Package types provides the shared data model used across nutriplan packages.
// Types in this package are plain values with JSON tags matching the persisted
// records; they carry validation but no storage or transport dependencies.
package types

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// PROFILE ENUMS
// =============================================================================

// Gender is the biological sex reported on the profile form.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Genders lists the accepted values in form order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// Valid reports whether g is a known gender.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// ParseGender accepts any casing of a known gender.
func ParseGender(s string) (Gender, error) {
	for _, g := range Genders {
		if strings.EqualFold(strings.TrimSpace(s), string(g)) {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown gender %q (valid: Male, Female, Other)", s)
}

// Goal is the training objective the plan is generated for.
type Goal string

const (
	GoalMuscleGain Goal = "Muscle-gain"
	GoalTone       Goal = "Tone"
)

// Goals lists the accepted values in form order.
var Goals = []Goal{GoalMuscleGain, GoalTone}

// Valid reports whether g is a known goal.
func (g Goal) Valid() bool {
	return g == GoalMuscleGain || g == GoalTone
}

// Label returns the descriptive text sent to the generator.
func (g Goal) Label() string {
	switch g {
	case GoalMuscleGain:
		return "Muscle gain (build mass)"
	case GoalTone:
		return "Tone (definition / maintenance)"
	}
	return string(g)
}

// ParseGoal accepts the enum value or a short alias ("muscle", "tone").
func ParseGoal(s string) (Goal, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "muscle-gain", "muscle", "muscle_gain", "gain":
		return GoalMuscleGain, nil
	case "tone", "toning":
		return GoalTone, nil
	}
	return "", fmt.Errorf("unknown goal %q (valid: Muscle-gain, Tone)", s)
}

// =============================================================================
// WEEKLY SCHEDULE
// =============================================================================

// Weekdays are the fixed schedule keys, in plan order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// IsWeekday reports whether name is one of Weekdays (case-sensitive).
func IsWeekday(name string) bool {
	for _, d := range Weekdays {
		if d == name {
			return true
		}
	}
	return false
}

// NormalizeWeekday maps any casing of a weekday to its canonical form.
func NormalizeWeekday(name string) (string, bool) {
	for _, d := range Weekdays {
		if strings.EqualFold(strings.TrimSpace(name), d) {
			return d, true
		}
	}
	return "", false
}

// TimeLayout is the HH:mm layout used for workout times.
const TimeLayout = "15:04"

// DaySchedule describes one day of the user's training week.
type DaySchedule struct {
	IsWorkout bool   `json:"isWorkout"`
	Time      string `json:"time,omitempty"` // HH:mm
}

// Schedule maps each weekday name to its DaySchedule.
type Schedule map[string]DaySchedule

// DefaultSchedule returns a rest week with the form's default 18:00 time.
func DefaultSchedule() Schedule {
	s := make(Schedule, len(Weekdays))
	for _, d := range Weekdays {
		s[d] = DaySchedule{IsWorkout: false, Time: "18:00"}
	}
	return s
}

// Validate checks that all 7 weekdays are present and workout times parse.
func (s Schedule) Validate() error {
	for _, d := range Weekdays {
		day, ok := s[d]
		if !ok {
			return fmt.Errorf("schedule missing %s", d)
		}
		if day.IsWorkout {
			if _, err := time.Parse(TimeLayout, day.Time); err != nil {
				return fmt.Errorf("invalid workout time %q for %s (expected HH:mm)", day.Time, d)
			}
		}
	}
	for k := range s {
		if !IsWeekday(k) {
			return fmt.Errorf("unknown schedule day %q", k)
		}
	}
	return nil
}

// Clone returns an independent copy of the schedule.
func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// WorkoutDays returns the number of training days.
func (s Schedule) WorkoutDays() int {
	n := 0
	for _, d := range s {
		if d.IsWorkout {
			n++
		}
	}
	return n
}

// =============================================================================
// USER PROFILE
// =============================================================================

// UserProfile is the immutable form submission a plan is generated from.
type UserProfile struct {
	PlanName string   `json:"planName,omitempty"`
	Name     string   `json:"name"`
	Age      int      `json:"age"`
	Gender   Gender   `json:"gender"`
	Height   float64  `json:"height"` // cm
	Weight   float64  `json:"weight"` // kg
	Goal     Goal     `json:"goal"`
	Schedule Schedule `json:"schedule"`
}
