package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nutriplan/cmd/nutriplan/ui"
	"nutriplan/internal/app"
	"nutriplan/internal/types"
)

// View implements tea.Model.
func (m Model) View() string {
	var body string
	switch m.app.View() {
	case app.ViewLoading:
		body = m.spinner.View() + " " + m.styles.Body.Render("Generating your weekly plan...") + "\n\n" +
			m.styles.Muted.Render("This can take up to a couple of minutes.")
	case app.ViewForm:
		body = m.form.view(m.styles)
	case app.ViewPlan:
		body = m.renderPlan()
	case app.ViewSaved:
		body = m.renderSaved()
	case app.ViewTracker:
		body = m.tracker.view(m.styles, m.app.Progress())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.styles.Content.Render(body),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	tabs := []struct {
		key  string
		name string
		view app.View
	}{
		{"1", "Plan", app.ViewPlan},
		{"2", "Saved", app.ViewSaved},
		{"3", "Progress", app.ViewTracker},
		{"n", "New plan", app.ViewForm},
	}
	parts := []string{ui.Logo(m.styles)}
	for _, t := range tabs {
		label := fmt.Sprintf("%s %s", t.key, t.name)
		if m.app.View() == t.view {
			parts = append(parts, m.styles.ActiveTab.Render(label))
		} else {
			parts = append(parts, m.styles.Tab.Render(label))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return line + "\n" + m.styles.RenderDivider(m.layout.ContentWidth())
}

func (m Model) renderFooter() string {
	var hints string
	switch m.app.View() {
	case app.ViewLoading:
		hints = "please wait"
	case app.ViewForm:
		hints = "tab/↑↓ move · ←→ choose · enter next · esc back"
	case app.ViewPlan:
		switch m.section {
		case sectionMeals:
			hints = "←→ day · ↑↓ meal · e edit · a alternative · tab section · s save as · r reset · q quit"
		case sectionGuide:
			hints = "←→ category · ↑↓ item · i add · e edit · d delete · tab section · s save as · q quit"
		default:
			hints = "↑↓ scroll · tab section · s save as · r reset · q quit"
		}
	case app.ViewSaved:
		hints = "enter open · d delete · / filter · n new · q quit"
	case app.ViewTracker:
		if m.tracker.open {
			hints = "tab move · enter next/save · esc cancel"
		} else {
			hints = "a add entry · q quit"
		}
	}

	lines := []string{m.styles.Footer.Render(hints)}
	if m.status != "" {
		lines = append(lines, m.styles.Success.Render(m.status))
	}
	if m.err != nil {
		lines = append(lines, m.styles.Error.Render(m.err.Error()))
	}
	if err := m.app.PersistErr(); err != nil {
		lines = append(lines, m.styles.Warning.Render("Changes not saved: "+err.Error()))
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// PLAN
// =============================================================================

func (m Model) renderPlan() string {
	active, ok := m.app.Active()
	if !ok {
		return m.styles.Muted.Render("No plan selected.")
	}

	var sb strings.Builder
	title := active.Profile.PlanName
	if title == "" {
		if sp, ok := m.app.Catalog().Get(active.SavedID); ok {
			title = sp.Name
		}
	}
	sb.WriteString(m.styles.Title.Render(title) + "\n")
	sb.WriteString(m.styles.Subtitle.Render(fmt.Sprintf("%s · %d · %s", active.Profile.Name, active.Profile.Age, active.Profile.Goal.Label())) + "\n\n")

	var tabs []string
	for _, s := range sections {
		if s == m.section {
			tabs = append(tabs, m.styles.ActiveTab.Render(s.String()))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(s.String()))
		}
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n\n")

	switch m.section {
	case sectionMeals:
		sb.WriteString(m.renderDay(active.Plan))
	case sectionGuide:
		sb.WriteString(m.renderGuide(active.Plan))
	case sectionOverview:
		sb.WriteString(m.viewport.View())
	}

	if m.editor != nil {
		sb.WriteString("\n" + m.editor.view(m.styles))
	}
	if r, ok := m.app.PendingGuideRemoval(); ok {
		sb.WriteString("\n" + m.styles.Modal.Render(fmt.Sprintf("Remove %q from %s?\n\ny confirm · n cancel", r.Item, r.Category.Title())))
	}
	return sb.String()
}

func (m Model) renderDay(p types.WeeklyPlan) string {
	if m.day >= len(p.WeeklySchedule) {
		return ""
	}
	var sb strings.Builder

	var days []string
	for i, d := range p.WeeklySchedule {
		short := d.DayName
		if len(short) > 3 {
			short = short[:3]
		}
		if i == m.day {
			days = append(days, m.styles.Badge.Render(short))
		} else {
			days = append(days, m.styles.Muted.Render(" "+short+" "))
		}
	}
	sb.WriteString(strings.Join(days, " ") + "\n\n")

	day := p.WeeklySchedule[m.day]
	width := min(m.layout.ContentWidth()-4, 90)
	for i, slot := range types.MealSlots {
		meal, _ := day.Meal(slot)
		heading := slot.Title() + " · " + meal.Name
		card := m.styles.Card.Width(width)
		if i == m.slot {
			heading = m.styles.Selected.Render(heading)
			card = card.BorderForeground(m.styles.Theme.Primary)
			if m.altBusy {
				heading += " " + m.spinner.View()
			}
		} else {
			heading = m.styles.Bold.Render(heading)
		}
		content := heading
		if meal.Description != "" {
			content += "\n" + m.styles.Body.Render(meal.Description)
		}
		if len(meal.Ingredients) > 0 {
			content += "\n" + m.styles.Muted.Render(strings.Join(meal.Ingredients, " · "))
		}
		sb.WriteString(card.Render(content) + "\n")
	}

	wn := day.WorkoutNutrition
	if wn.PreWorkout != "" || wn.PostWorkout != "" || wn.Notes != "" {
		sb.WriteString("\n" + m.styles.Bold.Render("Workout nutrition") + "\n")
		if wn.PreWorkout != "" {
			sb.WriteString(m.styles.Body.Render("Pre: "+wn.PreWorkout) + "\n")
		}
		if wn.PostWorkout != "" {
			sb.WriteString(m.styles.Body.Render("Post: "+wn.PostWorkout) + "\n")
		}
		if wn.Notes != "" {
			sb.WriteString(m.styles.Muted.Render(wn.Notes) + "\n")
		}
	}
	return sb.String()
}

func (m Model) renderGuide(p types.WeeklyPlan) string {
	var sb strings.Builder
	var cats []string
	for i, c := range types.GuideCategories {
		if i == m.category {
			cats = append(cats, m.styles.Badge.Render(c.Title()))
		} else {
			cats = append(cats, m.styles.Muted.Render(c.Title()))
		}
	}
	sb.WriteString(strings.Join(cats, "  ") + "\n\n")

	items, _ := p.FoodGuide.List(m.currentCategory())
	if len(items) == 0 {
		sb.WriteString(m.styles.Muted.Render("No options yet. Press i to add one."))
		return sb.String()
	}
	for i, item := range items {
		line := fmt.Sprintf("%2d. %s", i+1, item)
		if i == m.item {
			sb.WriteString(m.styles.Selected.Render("> "+line) + "\n")
		} else {
			sb.WriteString(m.styles.Body.Render("  "+line) + "\n")
		}
	}
	return sb.String()
}

// =============================================================================
// SAVED PLANS
// =============================================================================

func (m Model) renderSaved() string {
	if m.app.Catalog().Len() == 0 {
		return m.styles.Title.Render("Saved plans") + "\n" +
			m.styles.Muted.Render("No saved plans yet. Press n to create one.")
	}
	out := m.list.View()
	if sp, ok := m.app.PendingDeletePlan(); ok {
		out += "\n" + m.styles.Modal.Render(fmt.Sprintf("Delete %q permanently?\n\ny confirm · n cancel", sp.Name))
	}
	return out
}
