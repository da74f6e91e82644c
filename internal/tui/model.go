// Package tui renders a live workout with bubbletea. It only reads
// projections of the session and dispatches events to it.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/liftlit/internal/models"
	"github.com/julianstephens/liftlit/internal/session"
	"github.com/julianstephens/liftlit/internal/timer"
)

type formKind int

const (
	formNone formKind = iota
	formGoal
	formAddExercise
	formRename
	formTemplate
)

// formFields backs the huh forms. It is a pointer so the values survive
// bubbletea copying the model.
type formFields struct {
	Goal models.GoalType
	Name string
}

type Model struct {
	ctrl     *session.Controller
	keys     KeyMap
	help     help.Model
	snap     timer.Snapshot
	now      func() time.Time
	form     *huh.Form
	formKind formKind
	fields   *formFields
	message  string
	errMsg   string
	quitting bool
	width    int
	height   int
}

func NewModel(ctrl *session.Controller) Model {
	m := Model{
		ctrl:   ctrl,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		now:    time.Now,
		fields: &formFields{},
	}
	m.snap = ctrl.Tick(m.now())
	return m
}

// TickMsg drives the elapsed clock and rest countdown.
type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) ShortHelp() []key.Binding {
	switch m.ctrl.Phase() {
	case session.PhaseWarmup, session.PhaseCooldown:
		return []key.Binding{m.keys.Complete, m.keys.Back, m.keys.Quit}
	case session.PhaseConfirm:
		return []key.Binding{m.keys.Confirm, m.keys.Back}
	}
	if m.ctrl.State().Numpad.Open {
		return []key.Binding{m.keys.Complete, m.keys.Back}
	}
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) suggestionNames() []string {
	var names []string
	for _, pe := range m.ctrl.Suggestions("") {
		names = append(names, pe.Name)
	}
	return names
}

func (m *Model) openGoalForm() tea.Cmd {
	m.fields.Goal = models.GoalGeneral
	m.formKind = formGoal
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.GoalType]().
				Title("What are you training for today?").
				Options(huh.NewOptions(models.Goals...)...).
				Value(&m.fields.Goal),
		),
	)
	return m.form.Init()
}

func (m *Model) openNameForm(kind formKind, title, initial string) tea.Cmd {
	m.fields.Name = initial
	m.formKind = kind
	input := huh.NewInput().
		Title(title).
		Value(&m.fields.Name).
		Validate(huh.ValidateNotEmpty())
	if kind != formTemplate {
		input = input.Suggestions(m.suggestionNames())
	}
	m.form = huh.NewForm(huh.NewGroup(input))
	return m.form.Init()
}

func (m *Model) closeForm() {
	m.form = nil
	m.formKind = formNone
}
