package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"nutriplan/internal/logging"
	"nutriplan/internal/types"
)

// DefaultModel is used when GeminiConfig.Model is empty.
const DefaultModel = "gemini-3-flash-preview"

// GeminiConfig configures a GeminiGenerator.
type GeminiConfig struct {
	APIKey   string
	Model    string
	Timeout  time.Duration
	Language string
}

// contentGenerator is the subset of *genai.Models the generator uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements Generator on the Gemini API.
type GeminiGenerator struct {
	models   contentGenerator
	model    string
	timeout  time.Duration
	language string
	inflight inflight
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGeminiGenerator(client.Models, cfg), nil
}

func newGeminiGenerator(models contentGenerator, cfg GeminiConfig) *GeminiGenerator {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.Language == "" {
		cfg.Language = "English"
	}
	return &GeminiGenerator{
		models:   models,
		model:    cfg.Model,
		timeout:  cfg.Timeout,
		language: cfg.Language,
		inflight: newInflight(),
	}
}

// Model returns the configured model name.
func (g *GeminiGenerator) Model() string { return g.model }

// GeneratePlan implements Generator.
func (g *GeminiGenerator) GeneratePlan(ctx context.Context, profile types.UserProfile) (types.WeeklyPlan, error) {
	release, err := g.inflight.acquire()
	if err != nil {
		return types.WeeklyPlan{}, err
	}
	defer release()

	timer := logging.StartTimer(logging.CategoryAPI, "GeneratePlan")
	defer timer.StopWithThreshold(60 * time.Second)

	logging.API("Generating plan for %q (goal=%s, workout days=%d, model=%s)",
		profile.Name, profile.Goal, profile.Schedule.WorkoutDays(), g.model)

	text, err := g.call(ctx, OpPlan, planPrompt(profile, g.language), weeklyPlanSchema())
	if err != nil {
		return types.WeeklyPlan{}, err
	}

	var plan types.WeeklyPlan
	if err := decodeStrict(text, &plan); err != nil {
		logging.APIError("Plan response did not decode: %v", err)
		return types.WeeklyPlan{}, genErr(OpPlan, "malformed response", err)
	}
	if err := plan.Validate(); err != nil {
		logging.APIError("Plan response failed validation: %v", err)
		return types.WeeklyPlan{}, genErr(OpPlan, "incomplete plan", err)
	}
	logging.Get(logging.CategoryAPI).StructuredLog("info", "plan generated", map[string]interface{}{
		"model":   g.model,
		"bytes":   len(text),
		"goal":    string(profile.Goal),
		"workout": profile.Schedule.WorkoutDays(),
	})
	return plan, nil
}

// GenerateAlternative implements Generator.
func (g *GeminiGenerator) GenerateAlternative(ctx context.Context, meal types.Meal, goalLabel string) (types.Meal, error) {
	release, err := g.inflight.acquire()
	if err != nil {
		return types.Meal{}, err
	}
	defer release()

	timer := logging.StartTimer(logging.CategoryAPI, "GenerateAlternative")
	defer timer.Stop()

	logging.API("Generating alternative for %q", meal.Name)

	text, err := g.call(ctx, OpAlternative, alternativePrompt(meal, goalLabel, g.language), mealSchema())
	if err != nil {
		return types.Meal{}, err
	}

	var alt types.Meal
	if err := decodeStrict(text, &alt); err != nil {
		logging.APIError("Alternative response did not decode: %v", err)
		return types.Meal{}, genErr(OpAlternative, "malformed response", err)
	}
	if err := alt.Validate(); err != nil {
		return types.Meal{}, genErr(OpAlternative, "incomplete meal", err)
	}
	return alt, nil
}

func (g *GeminiGenerator) call(ctx context.Context, op Op, prompt string, schema *genai.Schema) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	logging.APIDebug("%s prompt (%d chars)", op, len(prompt))
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
		ThinkingConfig:   &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	})
	if err != nil {
		logging.APIError("%s request failed: %v", op, err)
		if errors.Is(err, context.DeadlineExceeded) {
			return "", genErr(op, "request timed out", err)
		}
		return "", genErr(op, "request failed", err)
	}
	if resp == nil {
		return "", genErr(op, "empty response", nil)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", genErr(op, "empty response", nil)
	}
	return text, nil
}

func decodeStrict(text string, dst any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after JSON value")
	}
	return nil
}
