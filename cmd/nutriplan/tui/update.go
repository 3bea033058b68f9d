package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"nutriplan/internal/app"
	"nutriplan/internal/logging"
	"nutriplan/internal/profile"
	"nutriplan/internal/types"
)

// errAltPending refuses a new plan while a meal alternative is in flight;
// both share the generator's single request slot.
var errAltPending = errors.New("wait for the pending meal alternative before generating a new plan")

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case genDoneMsg:
		return m.handleGenDone(msg)

	case altDoneMsg:
		return m.handleAltDone(msg)

	case spinner.TickMsg:
		if m.app.View() != app.ViewLoading && !m.altBusy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.app.View() {
	case app.ViewLoading:
		// No cancellation: the pending generation always completes.
		return m, nil
	case app.ViewForm:
		return m.updateForm(msg)
	case app.ViewPlan:
		return m.updatePlan(msg)
	case app.ViewSaved:
		return m.updateSaved(msg)
	case app.ViewTracker:
		return m.updateTracker(msg)
	}
	return m, nil
}

// navigate handles the view-switching keys shared by the non-typing views.
func (m Model) navigate(key string) (Model, tea.Cmd, bool) {
	var err error
	switch key {
	case "1":
		if err = m.app.ShowPlan(); err == nil {
			m.refreshOverview()
		}
	case "2":
		if err = m.app.ShowSaved(); err == nil {
			m.refreshSaved()
		}
	case "3":
		err = m.app.ShowTracker()
	case "n":
		if m.altBusy {
			m.status = "An alternative is still on its way"
			return m, nil, true
		}
		if err = m.app.ShowForm(); err == nil {
			b := profile.NewBuilder()
			if active, ok := m.app.Active(); ok {
				b = profile.FromProfile(active.Profile)
			}
			m.form = newFormModel(b)
		}
	case "q":
		return m, tea.Quit, true
	default:
		return m, nil, false
	}
	m.err = err
	m.status = ""
	return m, nil, true
}

// =============================================================================
// FORM
// =============================================================================

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		if m.form.back() {
			return m, nil
		}
		if err := m.app.ShowPlan(); err == nil {
			m.refreshOverview()
		} else if err := m.app.ShowSaved(); err == nil {
			m.refreshSaved()
		}
		return m, nil
	}

	submit, cmd := m.form.update(msg)
	if !submit {
		return m, cmd
	}
	if m.altBusy {
		m.form.err = errAltPending
		return m, nil
	}
	p, err := m.form.builder.Build()
	if err != nil {
		m.form.err = err
		return m, nil
	}
	if err := m.app.BeginGeneration(p); err != nil {
		m.form.err = err
		return m, nil
	}
	logging.UI("Generating plan for %q", p.Name)
	m.err, m.status = nil, ""
	return m, tea.Batch(m.spinner.Tick, generateCmd(m.ctx, m.gen, p))
}

func (m Model) handleGenDone(msg genDoneMsg) (tea.Model, tea.Cmd) {
	sp, err := m.app.CompleteGeneration(msg.plan, msg.err)
	if err != nil {
		m.form.err = err
		return m, nil
	}
	m.form = newFormModel(profile.NewBuilder())
	m.resetCursor()
	m.refreshOverview()
	m.refreshSaved()
	m.status = fmt.Sprintf("Plan saved as %q", sp.Name)
	return m, nil
}

// =============================================================================
// PLAN
// =============================================================================

func (m Model) updatePlan(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editor != nil {
		return m.updateEditor(msg)
	}
	key := msg.String()

	if _, ok := m.app.PendingGuideRemoval(); ok {
		switch key {
		case "y", "enter":
			if err := m.app.ConfirmGuideItemRemoval(); err != nil {
				m.err = err
			} else {
				m.status = "Item removed"
				m.clampItem()
			}
		case "n", "esc":
			m.app.CancelGuideItemRemoval()
		}
		return m, nil
	}

	if next, cmd, ok := m.navigate(key); ok {
		return next, cmd
	}

	switch key {
	case "tab":
		m.section = sections[(int(m.section)+1)%len(sections)]
		return m, nil
	case "shift+tab":
		m.section = sections[(int(m.section)-1+len(sections))%len(sections)]
		return m, nil
	case "r":
		if err := m.app.Reset(); err != nil {
			m.err = err
			return m, nil
		}
		m.form = newFormModel(profile.NewBuilder())
		m.status = ""
		return m, nil
	case "s":
		active, _ := m.app.Active()
		m.editor = newEditor(saveAs, "Save as a new plan", []string{"Plan name"}, []string{active.Profile.PlanName})
		return m, nil
	}

	switch m.section {
	case sectionMeals:
		return m.updateMeals(key)
	case sectionGuide:
		return m.updateGuide(key)
	case sectionOverview:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) dayCount() int {
	active, ok := m.app.Active()
	if !ok {
		return 0
	}
	return len(active.Plan.WeeklySchedule)
}

func (m Model) updateMeals(key string) (tea.Model, tea.Cmd) {
	days := m.dayCount()
	if days == 0 {
		return m, nil
	}
	slot := types.MealSlots[m.slot]
	switch key {
	case "left", "h":
		m.day = (m.day - 1 + days) % days
	case "right", "l":
		m.day = (m.day + 1) % days
	case "up", "k":
		m.slot = max(m.slot-1, 0)
	case "down", "j":
		m.slot = min(m.slot+1, len(types.MealSlots)-1)
	case "e":
		meal, err := m.app.MealAt(m.day, slot)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.editor = mealEditor(m.day, slot, meal)
	case "a":
		if m.altBusy {
			m.status = "An alternative is already on its way"
			return m, nil
		}
		active, _ := m.app.Active()
		orig, err := m.app.MealAt(m.day, slot)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.altBusy = true
		m.err = nil
		m.status = fmt.Sprintf("Finding an alternative to %q", orig.Name)
		return m, tea.Batch(m.spinner.Tick,
			alternativeCmd(m.ctx, m.gen, active.SavedID, m.day, slot, orig, active.Profile.Goal.Label()))
	}
	return m, nil
}

func (m Model) handleAltDone(msg altDoneMsg) (tea.Model, tea.Cmd) {
	m.altBusy = false
	active, ok := m.app.Active()
	if !ok || active.SavedID != msg.savedID {
		m.status = "Alternative discarded: the active plan changed"
		return m, nil
	}
	if err := m.app.ApplyAlternativeResult(msg.day, msg.slot, msg.meal, msg.err); err != nil {
		m.err = err
		m.status = ""
		return m, nil
	}
	m.err = nil
	m.status = fmt.Sprintf("%s replaced with %q", msg.slot.Title(), msg.meal.Name)
	return m, nil
}

func (m Model) currentCategory() types.GuideCategory {
	return types.GuideCategories[m.category]
}

func (m *Model) clampItem() {
	items, _ := m.app.GuideList(m.currentCategory())
	m.item = max(min(m.item, len(items)-1), 0)
}

func (m Model) updateGuide(key string) (tea.Model, tea.Cmd) {
	cat := m.currentCategory()
	items, err := m.app.GuideList(cat)
	if err != nil {
		m.err = err
		return m, nil
	}
	n := len(types.GuideCategories)
	switch key {
	case "left", "h":
		m.category = (m.category - 1 + n) % n
		m.item = 0
	case "right", "l":
		m.category = (m.category + 1) % n
		m.item = 0
	case "up", "k":
		m.item = max(m.item-1, 0)
	case "down", "j":
		m.item = max(min(m.item+1, len(items)-1), 0)
	case "i", "+":
		m.editor = newEditor(addGuideItem, "Add to "+cat.Title(), []string{"Item"}, nil)
		m.editor.category = cat
	case "e":
		if len(items) == 0 {
			return m, nil
		}
		m.editor = newEditor(editGuideItem, "Edit "+cat.Title(), []string{"Item"}, []string{items[m.item]})
		m.editor.category, m.editor.index = cat, m.item
	case "d", "x":
		if len(items) == 0 {
			return m, nil
		}
		if err := m.app.RequestGuideItemRemoval(cat, m.item); err != nil {
			m.err = err
		}
	}
	return m, nil
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.editor = nil
		m.err = nil
		return m, nil
	}
	done, cmd := m.editor.update(msg)
	if !done {
		return m, cmd
	}

	e := m.editor
	var err error
	switch e.kind {
	case editMeal:
		if err = m.app.UpdateMeal(e.day, e.slot, e.meal()); err == nil {
			m.status = e.slot.Title() + " updated"
		}
	case addGuideItem:
		if err = m.app.AppendGuideItem(e.category, e.value()); err == nil {
			items, _ := m.app.GuideList(e.category)
			m.item = len(items) - 1
			m.status = "Item added"
		}
	case editGuideItem:
		if err = m.app.ReplaceGuideItem(e.category, e.index, e.value()); err == nil {
			m.status = "Item updated"
		}
	case saveAs:
		var sp types.SavedPlan
		if sp, err = m.app.SaveActiveAsNew(e.value()); err == nil {
			m.refreshSaved()
			m.status = fmt.Sprintf("Saved as %q", sp.Name)
		}
	}
	if err != nil {
		// Keep the editor open so the input can be corrected.
		m.err = err
		return m, nil
	}
	m.err = nil
	m.editor = nil
	return m, nil
}

// =============================================================================
// SAVED PLANS
// =============================================================================

func (m Model) selectedSaved() (types.SavedPlan, bool) {
	item, ok := m.list.SelectedItem().(savedItem)
	if !ok {
		return types.SavedPlan{}, false
	}
	return item.plan, true
}

func (m Model) updateSaved(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if _, ok := m.app.PendingDeletePlan(); ok {
		switch key {
		case "y", "enter":
			removed, err := m.app.ConfirmDeletePlan()
			if err != nil {
				m.err = err
			} else {
				m.status = fmt.Sprintf("Deleted %q", removed.Name)
			}
			m.refreshSaved()
		case "n", "esc":
			m.app.CancelDeletePlan()
		}
		return m, nil
	}

	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if next, cmd, ok := m.navigate(key); ok {
		return next, cmd
	}

	switch key {
	case "enter":
		sp, ok := m.selectedSaved()
		if !ok {
			return m, nil
		}
		if err := m.app.SelectSaved(sp.ID); err != nil {
			m.err = err
			return m, nil
		}
		m.resetCursor()
		m.refreshOverview()
		m.err, m.status = nil, ""
		return m, nil
	case "d", "x", "delete":
		if sp, ok := m.selectedSaved(); ok {
			m.err = m.app.RequestDeletePlan(sp.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// =============================================================================
// TRACKER
// =============================================================================

func (m Model) updateTracker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tracker.open {
		if msg.Type == tea.KeyEsc {
			m.tracker.close()
			return m, nil
		}
		submit, cmd := m.tracker.update(msg)
		if !submit {
			return m, cmd
		}
		in, err := m.tracker.input()
		if err != nil {
			m.tracker.err = err
			return m, nil
		}
		entry, err := m.app.AddProgress(in)
		if err != nil {
			m.tracker.err = err
			return m, nil
		}
		m.tracker.close()
		m.status = fmt.Sprintf("Logged %.1f kg on %s", entry.Weight, entry.Date)
		return m, nil
	}

	if next, cmd, ok := m.navigate(msg.String()); ok {
		return next, cmd
	}
	if msg.String() == "a" {
		m.tracker.start()
		m.status = ""
	}
	return m, nil
}
