package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nutriplan/cmd/nutriplan/ui"
	"nutriplan/internal/profile"
	"nutriplan/internal/types"
)

// formModel is the three-step profile form. Text goes straight into a
// profile.Builder; nothing is parsed until a step is validated.
type formModel struct {
	builder *profile.Builder
	step    int
	focus   int
	inputs  map[string]textinput.Model
	times   []textinput.Model // one per weekday, step 3
	err     error
}

var fieldLabels = map[string]string{
	profile.FieldPlanName: "Plan name (optional)",
	profile.FieldName:     "Name",
	profile.FieldAge:      "Age",
	profile.FieldGender:   "Gender",
	profile.FieldHeight:   "Height (cm)",
	profile.FieldWeight:   "Weight (kg)",
	profile.FieldGoal:     "Goal",
}

func choicesFor(field string) []string {
	switch field {
	case profile.FieldGender:
		out := make([]string, len(types.Genders))
		for i, g := range types.Genders {
			out[i] = string(g)
		}
		return out
	case profile.FieldGoal:
		out := make([]string, len(types.Goals))
		for i, g := range types.Goals {
			out[i] = string(g)
		}
		return out
	}
	return nil
}

func newTextInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 30
	return ti
}

func newFormModel(b *profile.Builder) formModel {
	f := formModel{
		builder: b,
		inputs:  make(map[string]textinput.Model),
	}
	values := map[string]string{
		profile.FieldPlanName: b.PlanName,
		profile.FieldName:     b.Name,
		profile.FieldAge:      b.Age,
		profile.FieldHeight:   b.Height,
		profile.FieldWeight:   b.Weight,
	}
	for field, v := range values {
		ti := newTextInput(fieldLabels[field], 60)
		ti.SetValue(v)
		f.inputs[field] = ti
	}
	for _, day := range types.Weekdays {
		ti := newTextInput("HH:mm", 5)
		ti.Width = 6
		ti.SetValue(b.Schedule[day].Time)
		f.times = append(f.times, ti)
	}
	f.refocus()
	return f
}

// fields returns the focusable rows of the current step.
func (f *formModel) fields() []string {
	if f.step == len(profile.Steps)-1 {
		return types.Weekdays
	}
	return profile.Steps[f.step]
}

func (f *formModel) focusedField() string {
	return f.fields()[f.focus]
}

func (f *formModel) onSchedule() bool {
	return f.step == len(profile.Steps)-1
}

func (f *formModel) refocus() {
	for k, ti := range f.inputs {
		ti.Blur()
		f.inputs[k] = ti
	}
	for i := range f.times {
		f.times[i].Blur()
	}
	if f.onSchedule() {
		f.times[f.focus].Focus()
		return
	}
	if ti, ok := f.inputs[f.focusedField()]; ok {
		ti.Focus()
		f.inputs[f.focusedField()] = ti
	}
}

func (f *formModel) move(delta int) {
	n := len(f.fields())
	f.focus = (f.focus + delta + n) % n
	f.refocus()
}

func (f *formModel) cycleChoice(delta int) {
	field := f.focusedField()
	choices := choicesFor(field)
	if choices == nil {
		return
	}
	cur := f.builder.Gender
	if field == profile.FieldGoal {
		cur = f.builder.Goal
	}
	idx := 0
	for i, c := range choices {
		if strings.EqualFold(c, cur) {
			idx = i
		}
	}
	next := choices[(idx+delta+len(choices))%len(choices)]
	if field == profile.FieldGoal {
		f.builder.Goal = next
	} else {
		f.builder.Gender = next
	}
}

// sync copies input values into the builder.
func (f *formModel) sync() {
	f.builder.PlanName = f.inputs[profile.FieldPlanName].Value()
	f.builder.Name = f.inputs[profile.FieldName].Value()
	f.builder.Age = f.inputs[profile.FieldAge].Value()
	f.builder.Height = f.inputs[profile.FieldHeight].Value()
	f.builder.Weight = f.inputs[profile.FieldWeight].Value()
	for i, day := range types.Weekdays {
		d := f.builder.Schedule[day]
		d.Time = strings.TrimSpace(f.times[i].Value())
		f.builder.Schedule[day] = d
	}
}

// advance validates the current step. It reports true when the final step
// passed and the form is ready to submit.
func (f *formModel) advance() bool {
	f.sync()
	if err := f.builder.ValidateStep(f.step); err != nil {
		f.err = err
		return false
	}
	f.err = nil
	if f.step == len(profile.Steps)-1 {
		return true
	}
	f.step++
	f.focus = 0
	f.refocus()
	return false
}

func (f *formModel) back() bool {
	if f.step == 0 {
		return false
	}
	f.sync()
	f.step--
	f.focus = 0
	f.err = nil
	f.refocus()
	return true
}

func (f *formModel) update(msg tea.KeyMsg) (submit bool, cmd tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		f.move(1)
		return false, nil
	case "shift+tab", "up":
		f.move(-1)
		return false, nil
	case "enter":
		return f.advance(), nil
	}

	field := f.focusedField()
	if choicesFor(field) != nil {
		switch msg.String() {
		case "left", "h":
			f.cycleChoice(-1)
		case "right", "l", " ":
			f.cycleChoice(1)
		}
		return false, nil
	}

	if f.onSchedule() {
		if msg.String() == " " {
			day := types.Weekdays[f.focus]
			_ = f.builder.SetWorkout(day, !f.builder.Schedule[day].IsWorkout)
			if f.times[f.focus].Value() == "" {
				f.times[f.focus].SetValue(f.builder.Schedule[day].Time)
			}
			return false, nil
		}
		f.times[f.focus], cmd = f.times[f.focus].Update(msg)
		return false, cmd
	}

	ti := f.inputs[field]
	ti, cmd = ti.Update(msg)
	f.inputs[field] = ti
	return false, cmd
}

func (f formModel) view(styles ui.Styles) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(fmt.Sprintf("Your profile · step %d of %d", f.step+1, len(profile.Steps))))
	sb.WriteString("\n")

	if f.onSchedule() {
		sb.WriteString(styles.Subtitle.Render("space toggles a training day, type its time as HH:mm"))
		sb.WriteString("\n\n")
		for i, day := range types.Weekdays {
			d := f.builder.Schedule[day]
			box := "[ ]"
			if d.IsWorkout {
				box = "[x]"
			}
			line := fmt.Sprintf("%s %-10s", box, day)
			if d.IsWorkout {
				line += " " + f.times[i].View()
			} else {
				line += " " + styles.Muted.Render("rest")
			}
			if i == f.focus {
				line = styles.Selected.Render("> ") + line
			} else {
				line = "  " + line
			}
			sb.WriteString(line + "\n")
		}
	} else {
		for i, field := range profile.Steps[f.step] {
			label := fieldLabels[field]
			var value string
			if choices := choicesFor(field); choices != nil {
				cur := f.builder.Gender
				if field == profile.FieldGoal {
					cur = f.builder.Goal
				}
				value = "‹ " + cur + " ›"
			} else {
				value = f.inputs[field].View()
			}
			prefix := "  "
			if i == f.focus {
				prefix = styles.Selected.Render("> ")
				label = styles.Selected.Render(label)
			} else {
				label = styles.Bold.Render(label)
			}
			sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, prefix, label, "  ", value))
			sb.WriteString("\n")
		}
	}

	if f.err != nil {
		sb.WriteString("\n" + styles.Error.Render(f.err.Error()) + "\n")
	}
	return sb.String()
}
