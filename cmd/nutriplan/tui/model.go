// Package tui is the bubbletea front end of nutriplan. Model owns no domain
// state of its own: every command goes through *app.App, and gateway calls
// run as tea.Cmds whose results are applied back in Update.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"nutriplan/cmd/nutriplan/ui"
	"nutriplan/internal/app"
	"nutriplan/internal/gateway"
	"nutriplan/internal/logging"
	"nutriplan/internal/profile"
	"nutriplan/internal/types"
)

// section is the pane of the plan view.
type section int

const (
	sectionMeals section = iota
	sectionGuide
	sectionOverview
)

func (s section) String() string {
	switch s {
	case sectionMeals:
		return "Meals"
	case sectionGuide:
		return "Food guide"
	case sectionOverview:
		return "Overview"
	}
	return "?"
}

var sections = []section{sectionMeals, sectionGuide, sectionOverview}

type (
	// genDoneMsg carries the result of a plan generation.
	genDoneMsg struct {
		plan types.WeeklyPlan
		err  error
	}
	// altDoneMsg carries the result of a meal alternative request.
	altDoneMsg struct {
		savedID string
		day     int
		slot    types.MealSlot
		meal    types.Meal
		err     error
	}
)

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	app    *app.App
	gen    gateway.Generator
	styles ui.Styles
	layout ui.LayoutConfig
	now    func() time.Time

	spinner  spinner.Model
	viewport viewport.Model
	renderer *ui.Renderer
	list     list.Model

	form    formModel
	editor  *editor
	tracker trackerModel

	// plan view cursor
	section  section
	day      int
	slot     int
	category int
	item     int
	altBusy  bool

	status string
	err    error
}

// New creates the root model. ctx bounds every gateway call the model starts.
func New(ctx context.Context, a *app.App, gen gateway.Generator, styles ui.Styles) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Saved plans"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	m := Model{
		ctx:      ctx,
		app:      a,
		gen:      gen,
		styles:   styles,
		now:      time.Now,
		spinner:  sp,
		viewport: viewport.New(80, 20),
		list:     l,
		form:     newFormModel(profile.NewBuilder()),
	}
	m.tracker = newTrackerModel(m.now)
	m.resize(80, 24)
	m.refreshSaved()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.layout = ui.NewLayoutConfig(width, height)
	m.viewport.Width = m.layout.ContentWidth()
	m.viewport.Height = m.layout.ContentHeight()
	m.list.SetSize(m.layout.ContentWidth(), m.layout.ContentHeight())
	r, err := ui.NewRenderer(m.styles.Theme, m.layout.ContentWidth())
	if err != nil {
		logging.UIDebug("Markdown renderer unavailable: %v", err)
	}
	m.renderer = r
	m.refreshOverview()
}

// refreshOverview re-renders the plan overview into the viewport.
func (m *Model) refreshOverview() {
	active, ok := m.app.Active()
	if !ok {
		m.viewport.SetContent("")
		return
	}
	md := active.Plan.Introduction + "\n\n" + ui.AdviceMarkdown(active.Plan)
	m.viewport.SetContent(m.renderer.Render(md))
}

// refreshSaved reloads the saved-plan list newest first.
func (m *Model) refreshSaved() {
	var items []list.Item
	for sp := range m.app.Catalog().NewestFirst() {
		items = append(items, savedItem{plan: sp})
	}
	m.list.SetItems(items)
}

// resetCursor moves the plan cursor to the first day.
func (m *Model) resetCursor() {
	m.section = sectionMeals
	m.day, m.slot, m.category, m.item = 0, 0, 0, 0
}

func generateCmd(ctx context.Context, gen gateway.Generator, p types.UserProfile) tea.Cmd {
	return func() tea.Msg {
		plan, err := gen.GeneratePlan(ctx, p)
		return genDoneMsg{plan: plan, err: err}
	}
}

func alternativeCmd(ctx context.Context, gen gateway.Generator, savedID string, day int, slot types.MealSlot, orig types.Meal, goalLabel string) tea.Cmd {
	return func() tea.Msg {
		alt, err := gen.GenerateAlternative(ctx, orig, goalLabel)
		return altDoneMsg{savedID: savedID, day: day, slot: slot, meal: alt, err: err}
	}
}
