package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"nutriplan/cmd/nutriplan/ui"
	"nutriplan/internal/progress"
	"nutriplan/internal/types"
)

const (
	trackDate = iota
	trackWeight
	trackWaist
	trackPerformance
	trackNotes
)

var trackerLabels = []string{"Date (YYYY-MM-DD)", "Weight (kg)", "Waist (cm, optional)", "Workout (Excellent/Good/Average/Tired/Rest)", "Notes"}

// trackerModel is the progress entry form. It is closed until opened with
// "a"; the history below it is always visible.
type trackerModel struct {
	open   bool
	inputs []textinput.Model
	focus  int
	err    error
	now    func() time.Time
}

func newTrackerModel(now func() time.Time) trackerModel {
	t := trackerModel{now: now}
	for _, label := range trackerLabels {
		ti := newTextInput(label, 200)
		t.inputs = append(t.inputs, ti)
	}
	return t
}

// start opens the form with today's date.
func (t *trackerModel) start() {
	for i := range t.inputs {
		t.inputs[i].SetValue("")
		t.inputs[i].Blur()
	}
	t.inputs[trackDate].SetValue(t.now().Format(types.DateLayout))
	t.focus = trackWeight
	t.inputs[t.focus].Focus()
	t.open = true
	t.err = nil
}

func (t *trackerModel) close() {
	t.open = false
	t.err = nil
}

func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", ".")), 64)
}

// input converts the form into a progress.Input.
func (t *trackerModel) input() (progress.Input, error) {
	weight, err := parseDecimal(t.inputs[trackWeight].Value())
	if err != nil {
		return progress.Input{}, progress.ErrInvalidWeight
	}
	in := progress.Input{
		Date:               t.inputs[trackDate].Value(),
		Weight:             weight,
		WorkoutPerformance: t.inputs[trackPerformance].Value(),
		Notes:              t.inputs[trackNotes].Value(),
	}
	if raw := strings.TrimSpace(t.inputs[trackWaist].Value()); raw != "" {
		waist, err := parseDecimal(raw)
		if err != nil {
			return progress.Input{}, progress.ErrInvalidWaist
		}
		in.Waist = &waist
	}
	return in, nil
}

func (t *trackerModel) update(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if t.focus == len(t.inputs)-1 {
			return true, nil
		}
		t.setFocus(t.focus + 1)
		return false, nil
	case "tab", "down":
		t.setFocus((t.focus + 1) % len(t.inputs))
		return false, nil
	case "shift+tab", "up":
		t.setFocus((t.focus - 1 + len(t.inputs)) % len(t.inputs))
		return false, nil
	}
	var cmd tea.Cmd
	t.inputs[t.focus], cmd = t.inputs[t.focus].Update(msg)
	return false, cmd
}

func (t *trackerModel) setFocus(i int) {
	t.inputs[t.focus].Blur()
	t.focus = i
	t.inputs[t.focus].Focus()
}

func (t trackerModel) view(styles ui.Styles, log *progress.Log) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Progress") + "\n")

	if t.open {
		var form strings.Builder
		for i, ti := range t.inputs {
			label := styles.Bold.Render(trackerLabels[i])
			if i == t.focus {
				label = styles.Selected.Render(trackerLabels[i])
			}
			form.WriteString(label + "  " + ti.View() + "\n")
		}
		if t.err != nil {
			form.WriteString(styles.Error.Render(t.err.Error()) + "\n")
		}
		sb.WriteString(styles.Card.Render(form.String()) + "\n\n")
	}

	summary := log.Summary()
	if summary.Count == 0 {
		sb.WriteString(styles.Muted.Render("No entries yet. Press a to log your first one."))
		return sb.String()
	}

	var weights []float64
	for e := range log.Chronological() {
		weights = append(weights, e.Weight)
	}
	sb.WriteString(ui.WeightChart(styles, weights) + "\n")
	if summary.Chartable() {
		sb.WriteString(styles.Muted.Render(fmt.Sprintf("%s → %s: %+.1f kg", summary.FirstDate, summary.LastDate, summary.Delta())) + "\n")
	}
	sb.WriteString("\n")

	table := ui.NewSimpleTable("History", []string{"Date", "Weight", "Waist", "Workout", "Notes"})
	for e := range log.NewestFirst() {
		waist := "-"
		if e.Waist != nil {
			waist = fmt.Sprintf("%.1f", *e.Waist)
		}
		perf := string(e.WorkoutPerformance)
		if perf == "" {
			perf = "-"
		}
		table.AddRow(e.Date, fmt.Sprintf("%.1f", e.Weight), waist, perf, e.Notes)
	}
	sb.WriteString(table.View(styles))
	return sb.String()
}
