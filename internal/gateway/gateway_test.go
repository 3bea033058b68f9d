package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/genai"

	"nutriplan/internal/types"
)

type fakeModels struct {
	text    string
	err     error
	entered chan struct{}
	unblock chan struct{}

	gotModel  string
	gotConfig *genai.GenerateContentConfig
	gotPrompt string
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	f.gotConfig = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.gotPrompt = contents[0].Parts[0].Text
	}
	if f.entered != nil {
		close(f.entered)
	}
	if f.unblock != nil {
		<-f.unblock
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(f.text, genai.RoleModel)}},
	}, nil
}

func planJSON(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(SamplePlan(SampleProfile()))
	require.NoError(t, err)
	return string(data)
}

func TestGeneratePlan_Success(t *testing.T) {
	fake := &fakeModels{text: planJSON(t)}
	g := newGeminiGenerator(fake, GeminiConfig{Language: "Spanish"})

	plan, err := g.GeneratePlan(context.Background(), SampleProfile())
	require.NoError(t, err)
	assert.Equal(t, SamplePlan(SampleProfile()), plan)

	assert.Equal(t, DefaultModel, fake.gotModel)
	require.NotNil(t, fake.gotConfig)
	assert.Equal(t, "application/json", fake.gotConfig.ResponseMIMEType)
	require.NotNil(t, fake.gotConfig.ThinkingConfig)
	assert.Equal(t, int32(0), *fake.gotConfig.ThinkingConfig.ThinkingBudget)
	assert.ElementsMatch(t,
		[]string{"introduction", "weeklySchedule", "foodGuide", "generalAdvice", "supplements"},
		fake.gotConfig.ResponseSchema.Required)
	assert.Contains(t, fake.gotPrompt, "Wednesday: workout at 07:30")
	assert.Contains(t, fake.gotPrompt, "Tuesday: rest")
	assert.Contains(t, fake.gotPrompt, "written in Spanish")
}

func TestGeneratePlan_Failures(t *testing.T) {
	sixDays := SamplePlan(SampleProfile())
	sixDays.WeeklySchedule = sixDays.WeeklySchedule[:6]
	short, err := json.Marshal(sixDays)
	require.NoError(t, err)

	tests := []struct {
		name   string
		fake   *fakeModels
		reason string
	}{
		{"transport", &fakeModels{err: errors.New("401 unauthorized")}, "request failed"},
		{"empty", &fakeModels{text: "   "}, "empty response"},
		{"not json", &fakeModels{text: "Here is your plan!"}, "malformed response"},
		{"unknown field", &fakeModels{text: `{"introduction":"x","bogus":1}`}, "malformed response"},
		{"six days", &fakeModels{text: string(short)}, "incomplete plan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGeminiGenerator(tt.fake, GeminiConfig{})
			_, err := g.GeneratePlan(context.Background(), SampleProfile())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrGeneration)

			var ge *GenerationError
			require.True(t, errors.As(err, &ge))
			assert.Equal(t, OpPlan, ge.Op)
			assert.Equal(t, tt.reason, ge.Reason)
		})
	}
}

func TestGeneratePlan_IncompleteWrapsSchemaError(t *testing.T) {
	p := SamplePlan(SampleProfile())
	p.WeeklySchedule[2].Lunch.Ingredients = nil
	data, err := json.Marshal(p)
	require.NoError(t, err)

	g := newGeminiGenerator(&fakeModels{text: string(data)}, GeminiConfig{})
	_, err = g.GeneratePlan(context.Background(), SampleProfile())
	assert.ErrorIs(t, err, types.ErrIncompletePlan)
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestGenerateAlternative(t *testing.T) {
	fake := &fakeModels{text: `{"name":"Lentil salad","description":"Cold salad","ingredients":["lentils","cucumber"]}`}
	g := newGeminiGenerator(fake, GeminiConfig{})

	orig := types.Meal{Name: "Chicken rice bowl", Description: "Bowl", Ingredients: []string{"chicken", "rice"}}
	alt, err := g.GenerateAlternative(context.Background(), orig, types.GoalTone.Label())
	require.NoError(t, err)
	assert.Equal(t, "Lentil salad", alt.Name)
	assert.Equal(t, []string{"lentils", "cucumber"}, alt.Ingredients)
	assert.Contains(t, fake.gotPrompt, "chicken, rice")
	assert.Equal(t, []string{"name", "description", "ingredients"}, fake.gotConfig.ResponseSchema.Required)

	fake.text = `{"name":"","description":"x","ingredients":[]}`
	_, err = g.GenerateAlternative(context.Background(), orig, "Tone")
	var ge *GenerationError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, OpAlternative, ge.Op)
}

func TestGeneratePlan_BusyWhileInFlight(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))

	fake := &fakeModels{text: planJSON(t), entered: make(chan struct{}), unblock: make(chan struct{})}
	g := newGeminiGenerator(fake, GeminiConfig{})

	done := make(chan error, 1)
	go func() {
		_, err := g.GeneratePlan(context.Background(), SampleProfile())
		done <- err
	}()

	select {
	case <-fake.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first call never reached the model")
	}

	_, err := g.GenerateAlternative(context.Background(), types.Meal{Name: "x", Ingredients: []string{}}, "Tone")
	assert.ErrorIs(t, err, ErrBusy)

	close(fake.unblock)
	require.NoError(t, <-done)
}

func TestGenerationErrorMessage(t *testing.T) {
	err := genErr(OpPlan, "request failed", errors.New("boom"))
	assert.True(t, strings.HasPrefix(err.Error(), "plan generation failed"))
	assert.Contains(t, err.Error(), "boom")
}

func TestFixture(t *testing.T) {
	f := NewFixture()
	ctx := context.Background()

	plan, err := f.GeneratePlan(ctx, SampleProfile())
	require.NoError(t, err)
	require.NoError(t, plan.Validate())
	assert.NotEmpty(t, plan.WeeklySchedule[0].WorkoutNutrition.PreWorkout, "Monday is a workout day")
	assert.Empty(t, plan.WeeklySchedule[1].WorkoutNutrition.PreWorkout, "Tuesday is a rest day")

	meal := plan.WeeklySchedule[0].Lunch
	alt, err := f.GenerateAlternative(ctx, meal, "Tone")
	require.NoError(t, err)
	require.NoError(t, alt.Validate())
	assert.NotEqual(t, meal.Name, alt.Name)

	f.Fail = errors.New("offline")
	_, err = f.GeneratePlan(ctx, SampleProfile())
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestFixture_ZeroValueUsable(t *testing.T) {
	var f Fixture
	_, err := f.GeneratePlan(context.Background(), SampleProfile())
	assert.NoError(t, err)
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}
