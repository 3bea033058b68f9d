package profile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriplan/internal/types"
)

func filled() *Builder {
	b := NewBuilder()
	b.Name = " Ana "
	b.Age = "29"
	b.Gender = "female"
	b.Height = "168"
	b.Weight = "61,5"
	b.Goal = "tone"
	return b
}

func TestBuild_Complete(t *testing.T) {
	b := filled()
	require.NoError(t, b.SetWorkout("monday", true))
	require.NoError(t, b.SetWorkoutTime("Monday", "07:15"))

	p, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, 29, p.Age)
	assert.Equal(t, types.GenderFemale, p.Gender)
	assert.Equal(t, 61.5, p.Weight)
	assert.Equal(t, types.GoalTone, p.Goal)
	assert.Equal(t, types.DaySchedule{IsWorkout: true, Time: "07:15"}, p.Schedule["Monday"])
	assert.Equal(t, 1, p.Schedule.WorkoutDays())

	// The built profile owns its schedule.
	require.NoError(t, b.SetWorkout("Tuesday", true))
	assert.False(t, p.Schedule["Tuesday"].IsWorkout)
}

func TestBuild_MissingNumericFields(t *testing.T) {
	b := NewBuilder()
	b.Name = "Ana"

	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{FieldAge, FieldHeight, FieldWeight}, verr.Missing)
	assert.Empty(t, verr.Invalid)
}

func TestBuild_InvalidValues(t *testing.T) {
	b := filled()
	b.Age = "abc"
	b.Weight = "-3"
	b.Goal = "bulk"

	_, err := b.Build()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Empty(t, verr.Missing)
	assert.Contains(t, verr.Invalid, FieldAge)
	assert.Contains(t, verr.Invalid, FieldWeight)
	assert.Contains(t, verr.Invalid, FieldGoal)
	assert.Contains(t, err.Error(), "age:")
}

func TestBuild_RejectsNonFiniteNumbers(t *testing.T) {
	for _, raw := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "1e400"} {
		t.Run(raw, func(t *testing.T) {
			b := filled()
			b.Height = raw
			b.Weight = raw

			_, err := b.Build()
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Invalid, FieldHeight)
			assert.Contains(t, verr.Invalid, FieldWeight)
		})
	}
}

func TestValidateStep(t *testing.T) {
	b := NewBuilder()
	b.Name = "Ana"
	b.Age = "29"
	assert.NoError(t, b.ValidateStep(0))

	err := b.ValidateStep(1)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{FieldHeight, FieldWeight}, verr.Missing)

	assert.NoError(t, b.ValidateStep(2))
	assert.Error(t, b.ValidateStep(3))
}

func TestSetWorkout(t *testing.T) {
	b := NewBuilder()
	assert.Error(t, b.SetWorkout("Funday", true))
	assert.Error(t, b.SetWorkoutTime("Monday", "25:00"))

	require.NoError(t, b.SetWorkout("friday", true))
	assert.Equal(t, "18:00", b.Schedule["Friday"].Time)
}

func TestFromProfileRoundTrip(t *testing.T) {
	p, err := filled().Build()
	require.NoError(t, err)

	again, err := FromProfile(p).Build()
	require.NoError(t, err)
	assert.Equal(t, p, again)
}
