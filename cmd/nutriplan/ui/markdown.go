package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"nutriplan/internal/types"
)

// PlanMarkdown renders a whole plan as markdown, used by the export command
// and as the source for glamour rendering.
func PlanMarkdown(p types.UserProfile, plan types.WeeklyPlan) string {
	var sb strings.Builder
	title := p.PlanName
	if title == "" {
		title = "Weekly plan"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if p.Name != "" {
		fmt.Fprintf(&sb, "_%s, %d, %s, %s_\n\n", p.Name, p.Age, p.Gender, p.Goal.Label())
	}
	if plan.Introduction != "" {
		sb.WriteString(plan.Introduction + "\n\n")
	}
	for _, day := range plan.WeeklySchedule {
		sb.WriteString(DayMarkdown(day))
	}
	sb.WriteString(GuideMarkdown(plan.FoodGuide))
	sb.WriteString(AdviceMarkdown(plan))
	return sb.String()
}

// DayMarkdown renders one day with its five meals and workout notes.
func DayMarkdown(day types.DayPlan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", day.DayName)
	for _, slot := range types.MealSlots {
		m, _ := day.Meal(slot)
		sb.WriteString(MealMarkdown(slot, m))
	}
	wn := day.WorkoutNutrition
	if wn.PreWorkout != "" || wn.PostWorkout != "" || wn.Notes != "" {
		sb.WriteString("#### Workout nutrition\n\n")
		if wn.PreWorkout != "" {
			fmt.Fprintf(&sb, "- **Pre-workout:** %s\n", wn.PreWorkout)
		}
		if wn.PostWorkout != "" {
			fmt.Fprintf(&sb, "- **Post-workout:** %s\n", wn.PostWorkout)
		}
		if wn.Notes != "" {
			fmt.Fprintf(&sb, "- %s\n", wn.Notes)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// MealMarkdown renders a single meal under its slot heading.
func MealMarkdown(slot types.MealSlot, m types.Meal) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s: %s\n\n", slot.Title(), m.Name)
	if m.Description != "" {
		sb.WriteString(m.Description + "\n\n")
	}
	for _, ing := range m.Ingredients {
		fmt.Fprintf(&sb, "- %s\n", ing)
	}
	if len(m.Ingredients) > 0 {
		sb.WriteString("\n")
	}
	return sb.String()
}

// GuideMarkdown renders the food guide lists.
func GuideMarkdown(g types.FoodGuide) string {
	var sb strings.Builder
	sb.WriteString("## Food guide\n\n")
	for _, c := range types.GuideCategories {
		list, _ := g.List(c)
		fmt.Fprintf(&sb, "### %s\n\n", c.Title())
		if len(list) == 0 {
			sb.WriteString("_empty_\n\n")
			continue
		}
		for i, item := range list {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, item)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// AdviceMarkdown renders general advice and the supplements block.
func AdviceMarkdown(plan types.WeeklyPlan) string {
	var sb strings.Builder
	if plan.GeneralAdvice != "" {
		sb.WriteString("## General advice\n\n" + plan.GeneralAdvice + "\n\n")
	}
	sb.WriteString("## Supplements\n\n")
	writeSupp := func(name string, s types.SupplementAdvice) {
		verdict := "not recommended"
		if s.Recommended {
			verdict = "recommended"
		}
		fmt.Fprintf(&sb, "- **%s** (%s): %s", name, verdict, s.Reason)
		if s.Dosage != "" {
			fmt.Fprintf(&sb, " Dosage: %s", s.Dosage)
		}
		sb.WriteString("\n")
	}
	writeSupp("Creatine", plan.Supplements.Creatine)
	writeSupp("Whey protein", plan.Supplements.WheyProtein)
	return sb.String()
}

// Renderer wraps a glamour renderer for the theme. A failed render falls
// back to the raw markdown.
type Renderer struct {
	r *glamour.TermRenderer
}

// NewRenderer creates a renderer wrapping at width.
func NewRenderer(theme Theme, width int) (*Renderer, error) {
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Renderer{r: r}, nil
}

// Render renders md. A nil Renderer returns md unchanged.
func (r *Renderer) Render(md string) string {
	if r == nil || r.r == nil {
		return md
	}
	out, err := r.r.Render(md)
	if err != nil {
		return md
	}
	return out
}
