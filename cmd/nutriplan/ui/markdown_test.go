package ui

import (
	"strings"
	"testing"

	"nutriplan/internal/gateway"
	"nutriplan/internal/types"
)

func TestPlanMarkdown(t *testing.T) {
	profile := gateway.SampleProfile()
	plan := gateway.SamplePlan(profile)

	md := PlanMarkdown(profile, plan)

	if !strings.HasPrefix(md, "# Spring cut\n") {
		t.Errorf("expected plan name heading, got %q", md[:min(len(md), 40)])
	}
	for _, day := range types.Weekdays {
		if !strings.Contains(md, "## "+day+"\n") {
			t.Errorf("missing day heading %s", day)
		}
	}
	for _, c := range types.GuideCategories {
		if !strings.Contains(md, "### "+c.Title()) {
			t.Errorf("missing guide category %s", c)
		}
	}
	if !strings.Contains(md, "**Creatine**") || !strings.Contains(md, "**Whey protein**") {
		t.Error("missing supplements")
	}
}

func TestGuideMarkdownEmptyList(t *testing.T) {
	md := GuideMarkdown(types.FoodGuide{})
	if strings.Count(md, "_empty_") != len(types.GuideCategories) {
		t.Errorf("expected every category marked empty:\n%s", md)
	}
}

func TestRendererFallback(t *testing.T) {
	var r *Renderer
	if got := r.Render("# hi"); got != "# hi" {
		t.Errorf("nil renderer should pass markdown through, got %q", got)
	}

	r, err := NewRenderer(LightTheme(), 0)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if out := r.Render("# Title\n\nbody"); out == "" {
		t.Error("expected rendered output")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{80}); got != "" {
		t.Errorf("single value should not chart, got %q", got)
	}
	if got := Sparkline([]float64{80, 79, 78}); got != "█▄▁" {
		t.Errorf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{70, 70}); got != "▅▅" {
		t.Errorf("flat series should sit mid-scale, got %q", got)
	}
}

func TestWeightChartSamples(t *testing.T) {
	values := make([]float64, MaxChartWidth*2)
	for i := range values {
		values[i] = float64(i)
	}
	out := WeightChart(NewStyles(LightTheme()), values)
	if !strings.Contains(out, "0.0 to 119.0 kg") {
		t.Errorf("missing range label: %q", out)
	}
}
