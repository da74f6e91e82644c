package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/julianstephens/liftlit/internal/constants"
	"github.com/julianstephens/liftlit/internal/errors"
	"github.com/julianstephens/liftlit/internal/models"
	"github.com/julianstephens/liftlit/internal/session"
	"github.com/julianstephens/liftlit/internal/workout"
)

const weightStep = 2.5

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		m.snap = m.ctrl.Tick(time.Time(msg))
		if m.ctrl.Phase().Terminal() {
			return m, nil
		}
		return m, tea.Batch(tick(), m.syncForms())
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	if m.form != nil {
		cmd := m.updateForm(msg)
		return m, tea.Batch(cmd, m.syncForms())
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.syncForms()
	}

	phase := m.ctrl.Phase()
	if phase.Terminal() {
		m.quitting = true
		return m, tea.Quit
	}
	if phase != session.PhaseConfirm && !m.ctrl.State().Numpad.Open {
		switch {
		case key.Matches(keyMsg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch phase {
	case session.PhaseWarmup:
		if key.Matches(keyMsg, m.keys.Complete, m.keys.Back) {
			m.report(m.ctrl.FinishWarmup())
		}
	case session.PhaseCooldown:
		switch {
		case key.Matches(keyMsg, m.keys.Complete):
			m.report(m.ctrl.FinishCooldown())
		case key.Matches(keyMsg, m.keys.Back):
			m.report(m.ctrl.BackToWorkout())
		}
	case session.PhaseConfirm:
		cmd = m.handleConfirm(keyMsg)
	case session.PhaseExerciseLoop:
		cmd = m.handleWorkoutKeys(keyMsg)
	}
	m.snap = m.ctrl.Tick(m.now())
	return m, tea.Batch(cmd, m.syncForms())
}

// syncForms opens the form the session currently calls for.
func (m *Model) syncForms() tea.Cmd {
	if m.form != nil {
		return nil
	}
	switch m.ctrl.Phase() {
	case session.PhaseGoalSelect:
		return m.openGoalForm()
	case session.PhaseExerciseLoop:
		if m.ctrl.State().ShowSelector {
			return m.openNameForm(formAddExercise, "Add exercise", "")
		}
	}
	return nil
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.abortForm()
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.submitForm()
	case huh.StateAborted:
		m.abortForm()
	}
	return cmd
}

func (m *Model) abortForm() {
	if m.formKind == formAddExercise {
		m.ctrl.Dispatch(workout.CloseSelector{})
	}
	m.closeForm()
}

func (m *Model) submitForm() {
	kind := m.formKind
	name := strings.TrimSpace(m.fields.Name)
	m.closeForm()
	m.errMsg = ""

	switch kind {
	case formGoal:
		m.report(m.ctrl.ChooseGoal(m.fields.Goal))
	case formAddExercise:
		m.ctrl.Dispatch(workout.AddExercise{Exercise: models.Exercise{
			ID:             uuid.NewString(),
			Name:           name,
			TargetRestTime: m.ctrl.State().Settings.DefaultRestTime,
		}})
		st := m.ctrl.Dispatch(workout.CloseSelector{})
		if n := len(st.Navigable()); n > 0 {
			m.ctrl.Dispatch(workout.ChangeExercise{Index: n - 1})
		}
	case formRename:
		if raw, ok := m.ctrl.State().CurrentRaw(); ok {
			m.ctrl.Dispatch(workout.RenameExercise{Index: raw, Name: name})
		}
	case formTemplate:
		tmpl, err := m.ctrl.SaveAsTemplate(name)
		if err != nil {
			m.report(err)
			return
		}
		m.message = fmt.Sprintf("Saved template %q", tmpl.Name)
	}
}

func (m *Model) handleConfirm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if m.ctrl.Confirming() == session.ConfirmCancel {
			m.report(m.ctrl.Cancel())
			return nil
		}
		if _, err := m.ctrl.Finish(context.Background()); err != nil {
			if errors.IsRetryable(err) {
				m.errMsg = "Could not save the workout. Press y to try again."
				return nil
			}
			m.report(err)
		}
	case key.Matches(msg, m.keys.Back):
		m.report(m.ctrl.BackToWorkout())
	}
	return nil
}

func (m *Model) handleWorkoutKeys(msg tea.KeyMsg) tea.Cmd {
	now := m.now()
	st := m.ctrl.State()
	m.message = ""

	if st.PRCelebration != nil {
		m.ctrl.Dispatch(workout.HidePRCelebration{})
	}

	if st.Numpad.Open {
		switch {
		case msg.Type == tea.KeyBackspace:
			m.ctrl.Dispatch(workout.NumpadDelete{})
		case key.Matches(msg, m.keys.Complete):
			m.ctrl.Dispatch(workout.NumpadSubmit{})
		case msg.Type == tea.KeyEsc:
			m.ctrl.Dispatch(workout.CloseNumpad{})
		case msg.Type == tea.KeyRunes:
			for _, r := range msg.Runes {
				m.ctrl.Dispatch(workout.NumpadInput{Digit: string(r)})
			}
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Prev):
		m.ctrl.Dispatch(workout.ChangeExercise{Index: st.CurrentExerciseIndex - 1})
	case key.Matches(msg, m.keys.Next):
		m.ctrl.Dispatch(workout.ChangeExercise{Index: st.CurrentExerciseIndex + 1})
	case key.Matches(msg, m.keys.Complete):
		m.ctrl.Dispatch(workout.CompleteSet{At: now})
	case key.Matches(msg, m.keys.WeightDown):
		m.ctrl.Dispatch(workout.AdjustSet{Field: workout.FieldWeight, Delta: -weightStep})
	case key.Matches(msg, m.keys.WeightUp):
		m.ctrl.Dispatch(workout.AdjustSet{Field: workout.FieldWeight, Delta: weightStep})
	case key.Matches(msg, m.keys.RepsDown):
		m.ctrl.Dispatch(workout.AdjustSet{Field: workout.FieldReps, Delta: -1})
	case key.Matches(msg, m.keys.RepsUp):
		m.ctrl.Dispatch(workout.AdjustSet{Field: workout.FieldReps, Delta: 1})
	case key.Matches(msg, m.keys.EditWeight):
		m.ctrl.Dispatch(workout.OpenNumpad{Target: workout.FieldWeight})
	case key.Matches(msg, m.keys.EditReps):
		m.ctrl.Dispatch(workout.OpenNumpad{Target: workout.FieldReps})
	case key.Matches(msg, m.keys.SkipRest):
		m.ctrl.Dispatch(workout.SkipRest{})
	case key.Matches(msg, m.keys.RestMore):
		m.ctrl.Dispatch(workout.AddRestTime{Delta: constants.RestStep, Now: now})
	case key.Matches(msg, m.keys.RestLess):
		m.ctrl.Dispatch(workout.AddRestTime{Delta: -constants.RestStep, Now: now})
	case key.Matches(msg, m.keys.Add):
		m.ctrl.Dispatch(workout.OpenSelector{})
	case key.Matches(msg, m.keys.Rename):
		if ex, ok := st.Current(); ok {
			return m.openNameForm(formRename, "Rename exercise", ex.Name)
		}
	case key.Matches(msg, m.keys.Delete):
		if raw, ok := st.CurrentRaw(); ok {
			m.ctrl.Dispatch(workout.RemoveExercise{Index: raw})
		}
	case key.Matches(msg, m.keys.AddSet):
		m.ctrl.Dispatch(workout.AddSet{})
	case key.Matches(msg, m.keys.Pause):
		if st.IsPaused {
			m.ctrl.Dispatch(workout.Resume{At: now})
		} else {
			m.ctrl.Dispatch(workout.Pause{At: now})
		}
	case key.Matches(msg, m.keys.Template):
		return m.openNameForm(formTemplate, "Template name", "")
	case key.Matches(msg, m.keys.Drawer):
		m.ctrl.Dispatch(workout.ToggleDrawer{Open: !st.IsDrawerOpen})
	case key.Matches(msg, m.keys.Finish):
		m.report(m.ctrl.RequestFinish())
	case key.Matches(msg, m.keys.Cancel):
		m.report(m.ctrl.RequestCancel())
	}
	return nil
}

// report shows err to the user and leaves success silent.
func (m *Model) report(err error) {
	if err == nil {
		m.errMsg = ""
		return
	}
	m.errMsg = errors.Format(err)
}
