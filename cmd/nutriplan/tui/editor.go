package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"nutriplan/cmd/nutriplan/ui"
	"nutriplan/internal/types"
)

type editorKind int

const (
	editMeal editorKind = iota + 1
	addGuideItem
	editGuideItem
	saveAs
)

// editor is the inline input overlay of the plan view.
type editor struct {
	kind   editorKind
	title  string
	labels []string
	inputs []textinput.Model
	focus  int

	day      int
	slot     types.MealSlot
	category types.GuideCategory
	index    int
}

func newEditor(kind editorKind, title string, labels, values []string) *editor {
	e := &editor{kind: kind, title: title, labels: labels}
	for i := range labels {
		ti := newTextInput(labels[i], 500)
		ti.Width = 50
		if i < len(values) {
			ti.SetValue(values[i])
		}
		e.inputs = append(e.inputs, ti)
	}
	e.inputs[0].Focus()
	return e
}

func mealEditor(day int, slot types.MealSlot, m types.Meal) *editor {
	e := newEditor(editMeal, "Edit "+slot.Title(),
		[]string{"Name", "Description", "Ingredients (comma separated)"},
		[]string{m.Name, m.Description, strings.Join(m.Ingredients, ", ")})
	e.day, e.slot = day, slot
	return e
}

// meal builds the edited meal from the inputs.
func (e *editor) meal() types.Meal {
	ingredients := []string{}
	for _, part := range strings.Split(e.inputs[2].Value(), ",") {
		if s := strings.TrimSpace(part); s != "" {
			ingredients = append(ingredients, s)
		}
	}
	return types.Meal{
		Name:        e.inputs[0].Value(),
		Description: e.inputs[1].Value(),
		Ingredients: ingredients,
	}
}

func (e *editor) value() string {
	return e.inputs[0].Value()
}

// update routes a key to the focused input. It reports true when the last
// input was submitted.
func (e *editor) update(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if e.focus == len(e.inputs)-1 {
			return true, nil
		}
		e.setFocus(e.focus + 1)
		return false, nil
	case "tab", "down":
		e.setFocus((e.focus + 1) % len(e.inputs))
		return false, nil
	case "shift+tab", "up":
		e.setFocus((e.focus - 1 + len(e.inputs)) % len(e.inputs))
		return false, nil
	}
	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	return false, cmd
}

func (e *editor) setFocus(i int) {
	e.inputs[e.focus].Blur()
	e.focus = i
	e.inputs[e.focus].Focus()
}

func (e *editor) view(styles ui.Styles) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(e.title) + "\n")
	for i, ti := range e.inputs {
		label := styles.Bold.Render(e.labels[i])
		if i == e.focus {
			label = styles.Selected.Render(e.labels[i])
		}
		sb.WriteString(label + "\n" + ti.View() + "\n\n")
	}
	sb.WriteString(styles.Muted.Render("enter next/save · esc cancel"))
	return styles.Card.Render(sb.String())
}
