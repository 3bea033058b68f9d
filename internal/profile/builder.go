// Package profile collects raw form input into a validated UserProfile.
//
// The Builder accepts text exactly as typed; nothing is parsed until Build,
// which either returns a complete profile or a ValidationError listing every
// missing and invalid field. A profile that fails Build never reaches the
// generation gateway.
package profile

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"nutriplan/internal/types"
)

// ErrValidation is matched by every ValidationError.
var ErrValidation = errors.New("profile validation failed")

// Field names used in ValidationError and by form steps.
const (
	FieldPlanName = "planName"
	FieldName     = "name"
	FieldAge      = "age"
	FieldGender   = "gender"
	FieldHeight   = "height"
	FieldWeight   = "weight"
	FieldGoal     = "goal"
	FieldSchedule = "schedule"
)

// Steps groups the fields shown on each page of the three-step form.
var Steps = [][]string{
	{FieldPlanName, FieldName, FieldAge, FieldGender},
	{FieldHeight, FieldWeight, FieldGoal},
	{FieldSchedule},
}

// ValidationError lists the fields that blocked submission.
type ValidationError struct {
	Missing []string
	Invalid map[string]string // field -> reason
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	keys := make([]string, 0, len(e.Invalid))
	for k := range e.Invalid {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Invalid[k]))
	}
	return "profile incomplete: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) empty() bool { return len(e.Missing) == 0 && len(e.Invalid) == 0 }

// Builder holds raw form input.
type Builder struct {
	PlanName string
	Name     string
	Age      string
	Gender   string
	Height   string
	Weight   string
	Goal     string
	Schedule types.Schedule
}

// NewBuilder returns a Builder with the form defaults: Male, Muscle-gain and
// a rest week with 18:00 workout times.
func NewBuilder() *Builder {
	return &Builder{
		Gender:   string(types.GenderMale),
		Goal:     string(types.GoalMuscleGain),
		Schedule: types.DefaultSchedule(),
	}
}

// FromProfile seeds a Builder from an existing profile.
func FromProfile(p types.UserProfile) *Builder {
	b := &Builder{
		PlanName: p.PlanName,
		Name:     p.Name,
		Gender:   string(p.Gender),
		Goal:     string(p.Goal),
		Schedule: p.Schedule.Clone(),
	}
	if p.Age > 0 {
		b.Age = strconv.Itoa(p.Age)
	}
	if p.Height > 0 {
		b.Height = strconv.FormatFloat(p.Height, 'f', -1, 64)
	}
	if p.Weight > 0 {
		b.Weight = strconv.FormatFloat(p.Weight, 'f', -1, 64)
	}
	if b.Schedule == nil {
		b.Schedule = types.DefaultSchedule()
	}
	return b
}

// SetWorkout toggles a training day. day accepts any casing.
func (b *Builder) SetWorkout(day string, on bool) error {
	name, ok := types.NormalizeWeekday(day)
	if !ok {
		return fmt.Errorf("unknown day %q", day)
	}
	if b.Schedule == nil {
		b.Schedule = types.DefaultSchedule()
	}
	d := b.Schedule[name]
	d.IsWorkout = on
	if on && d.Time == "" {
		d.Time = "18:00"
	}
	b.Schedule[name] = d
	return nil
}

// SetWorkoutTime sets the HH:mm time of a training day.
func (b *Builder) SetWorkoutTime(day, hhmm string) error {
	name, ok := types.NormalizeWeekday(day)
	if !ok {
		return fmt.Errorf("unknown day %q", day)
	}
	if _, err := time.Parse(types.TimeLayout, strings.TrimSpace(hhmm)); err != nil {
		return fmt.Errorf("invalid time %q (expected HH:mm)", hhmm)
	}
	if b.Schedule == nil {
		b.Schedule = types.DefaultSchedule()
	}
	d := b.Schedule[name]
	d.Time = strings.TrimSpace(hhmm)
	b.Schedule[name] = d
	return nil
}

// ValidateStep checks only the fields of one form step (0-based).
func (b *Builder) ValidateStep(step int) error {
	if step < 0 || step >= len(Steps) {
		return fmt.Errorf("invalid form step %d", step)
	}
	_, verr := b.check()
	out := &ValidationError{Invalid: map[string]string{}}
	for _, f := range Steps[step] {
		for _, m := range verr.Missing {
			if m == f {
				out.Missing = append(out.Missing, f)
			}
		}
		if reason, ok := verr.Invalid[f]; ok {
			out.Invalid[f] = reason
		}
	}
	if out.empty() {
		return nil
	}
	return out
}

// Build parses and validates every field.
func (b *Builder) Build() (types.UserProfile, error) {
	p, verr := b.check()
	if !verr.empty() {
		return types.UserProfile{}, verr
	}
	return p, nil
}

func (b *Builder) check() (types.UserProfile, *ValidationError) {
	verr := &ValidationError{Invalid: map[string]string{}}
	p := types.UserProfile{
		PlanName: strings.TrimSpace(b.PlanName),
		Name:     strings.TrimSpace(b.Name),
	}

	if p.Name == "" {
		verr.Missing = append(verr.Missing, FieldName)
	}

	if s := strings.TrimSpace(b.Age); s == "" {
		verr.Missing = append(verr.Missing, FieldAge)
	} else if age, err := strconv.Atoi(s); err != nil || age <= 0 || age > 120 {
		verr.Invalid[FieldAge] = "must be a whole number between 1 and 120"
	} else {
		p.Age = age
	}

	if g, err := types.ParseGender(b.Gender); err != nil {
		verr.Invalid[FieldGender] = err.Error()
	} else {
		p.Gender = g
	}

	p.Height = positive(b.Height, FieldHeight, verr)
	p.Weight = positive(b.Weight, FieldWeight, verr)

	if g, err := types.ParseGoal(b.Goal); err != nil {
		verr.Invalid[FieldGoal] = err.Error()
	} else {
		p.Goal = g
	}

	sched := b.Schedule
	if sched == nil {
		sched = types.DefaultSchedule()
	}
	if err := sched.Validate(); err != nil {
		verr.Invalid[FieldSchedule] = err.Error()
	} else {
		p.Schedule = sched.Clone()
	}
	return p, verr
}

func positive(raw, field string, verr *ValidationError) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if s == "" {
		verr.Missing = append(verr.Missing, field)
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		verr.Invalid[field] = "must be a positive number"
		return 0
	}
	return v
}
