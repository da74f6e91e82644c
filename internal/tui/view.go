package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/liftlit/internal/models"
	"github.com/julianstephens/liftlit/internal/session"
	"github.com/julianstephens/liftlit/internal/stats"
	"github.com/julianstephens/liftlit/internal/timer"
	"github.com/julianstephens/liftlit/internal/workout"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.ctrl.State()
	var content string
	switch {
	case m.form != nil:
		content = m.form.View()
	default:
		switch m.ctrl.Phase() {
		case session.PhaseWarmup:
			content = m.viewRoutine("Warm up", "Get loose before the first working set.", "[enter] done  [esc] skip")
		case session.PhaseCooldown:
			content = m.viewRoutine("Cool down", "Stretch out what you just trained.", "[enter] done  [b] back to workout")
		case session.PhaseConfirm:
			content = m.viewConfirm()
		case session.PhaseSaved:
			content = m.viewSummary()
		case session.PhaseCancelled:
			content = warningStyle.Render("Workout discarded.")
		default:
			content = m.viewWorkout(st)
		}
	}

	var status string
	if m.errMsg != "" {
		status = dangerStyle.Render(m.errMsg)
	} else if m.message != "" {
		status = mutedStyle.Render(m.message)
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(st),
		content,
		status,
		m.help.View(m),
	)
	ui = docStyle.Render(ui)
	if st.Settings.OLEDMode {
		ui = oledStyle.Width(m.width).Height(m.height).Render(ui)
	}
	return ui
}

func (m Model) viewHeader(st workout.State) string {
	clock := timer.FormatDuration(m.snap.Elapsed)
	if m.snap.Paused {
		clock += " (paused)"
	}
	progress := stats.Compute(st.Exercises)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(m.ctrl.Item().Title),
		mutedStyle.Render(fmt.Sprintf("  %s  %d/%d sets  %d%%", clock, progress.CompletedSets, progress.TotalSets, progress.ProgressPercent)),
	)
}

func (m Model) viewRoutine(title, body, keys string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		titleStyle.Render(title),
		body,
		"",
		mutedStyle.Render(keys),
	)
}

func (m Model) viewConfirm() string {
	question := "Finish and save this workout?"
	style := titleStyle
	if m.ctrl.Confirming() == session.ConfirmCancel {
		question = "Discard this workout? Nothing will be saved."
		style = dangerStyle
	}
	return lipgloss.Place(m.width, m.height-6,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			style.Render(question),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewWorkout(st workout.State) string {
	var parts []string
	if pr := st.PRCelebration; pr != nil {
		parts = append(parts, prStyle.Render(fmt.Sprintf("NEW PR  %s  %s x %d (1RM %s)",
			pr.ExerciseName, formatWeight(pr.MaxWeight), pr.MaxWeightReps, formatWeight(pr.OneRepMax))))
	}

	ex, ok := st.Current()
	if !ok {
		parts = append(parts, mutedStyle.Render("No exercises yet. Press a to add one."))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	card := []string{titleStyle.Render(ex.Name)}
	if meta := exerciseMeta(ex); meta != "" {
		card = append(card, mutedStyle.Render(meta))
	}
	card = append(card, "")
	ghost := m.ctrl.Ghost(ex.Name)
	active := ex.ActiveSetIndex()
	for i, set := range ex.Sets {
		card = append(card, renderSet(i, set, i == active, ghostFor(ghost, i)))
	}
	if pr := m.ctrl.PersonalRecord(ex.Name); pr != nil {
		card = append(card, "", mutedStyle.Render(fmt.Sprintf("PR %s x %d", formatWeight(pr.MaxWeight), pr.MaxWeightReps)))
	}
	parts = append(parts, cardStyle.Render(strings.Join(card, "\n")))

	if st.Numpad.Open {
		value := st.Numpad.Value
		if value == "" {
			value = "_"
		}
		parts = append(parts, activeSetStyle.Render(fmt.Sprintf("%s: %s", st.Numpad.Target, value)))
	}
	if rest := m.viewRest(); rest != "" {
		parts = append(parts, rest)
	}
	if st.IsDrawerOpen {
		parts = append(parts, m.viewDrawer(st))
	}
	nav := len(st.Navigable())
	parts = append(parts, mutedStyle.Render(fmt.Sprintf("exercise %d of %d", st.CurrentExerciseIndex+1, nav)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func exerciseMeta(ex models.Exercise) string {
	var meta []string
	if ex.MuscleGroup != "" {
		meta = append(meta, ex.MuscleGroup)
	}
	if ex.Tempo != "" {
		meta = append(meta, "tempo "+ex.Tempo)
	}
	if ex.TargetRestTime > 0 {
		meta = append(meta, "rest "+timer.FormatDuration(ex.TargetRestTime))
	}
	return strings.Join(meta, " · ")
}

func ghostFor(ghost []models.Set, i int) *models.Set {
	if i < len(ghost) {
		return &ghost[i]
	}
	return nil
}

func renderSet(i int, set models.Set, active bool, ghost *models.Set) string {
	line := fmt.Sprintf("%d. %s x %d", i+1, formatWeight(set.Weight), set.Reps)
	switch {
	case set.IsCompleted():
		line = doneSetStyle.Render("✓ " + line)
		if set.RPE > 0 {
			line += mutedStyle.Render(fmt.Sprintf("  @%d", set.RPE))
		}
		return line
	case active:
		line = activeSetStyle.Render("> " + line)
	default:
		line = mutedStyle.Render("  " + line)
	}
	if ghost != nil && set.Weight == 0 && set.Reps == 0 {
		line += ghostStyle.Render(fmt.Sprintf("  last %s x %d", formatWeight(ghost.Weight), ghost.Reps))
	}
	return line
}

func (m Model) viewRest() string {
	if !m.snap.RestActive {
		return ""
	}
	if m.snap.RestExpired {
		return expiredStyle.Render("Rest over. Go!  [s] dismiss")
	}
	const width = 30
	filled := int(m.snap.RestProgress * width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return restStyle.Render(fmt.Sprintf("Rest %s  %s", timer.FormatDuration(m.snap.RestLeft), bar))
}

func (m Model) viewDrawer(st workout.State) string {
	var rows []string
	for pos, ex := range st.NavigableExercises() {
		row := stats.ForExercise(ex)
		marker := "  "
		if pos == st.CurrentExerciseIndex {
			marker = "> "
		}
		rows = append(rows, fmt.Sprintf("%s%-24s %d/%d", marker, row.Name, row.CompletedSets, row.TotalSets))
	}
	return mutedStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) viewSummary() string {
	sum, ok := m.ctrl.Summary()
	if !ok {
		return ""
	}
	lines := []string{
		titleStyle.Render("Workout saved"),
		fmt.Sprintf("Duration  %s", timer.FormatDuration(sum.ElapsedSec)),
		fmt.Sprintf("Sets      %d", sum.Totals.CompletedSets),
		fmt.Sprintf("Volume    %s", formatWeight(sum.Totals.TotalVolume)),
		"",
	}
	for _, row := range sum.Exercises {
		lines = append(lines, fmt.Sprintf("%-24s %d sets  best %s x %d", row.Name, row.CompletedSets, formatWeight(row.BestWeight), row.BestReps))
	}
	for _, pr := range sum.Records {
		lines = append(lines, prStyle.Render(fmt.Sprintf("PR %s %s x %d", pr.ExerciseName, formatWeight(pr.MaxWeight), pr.MaxWeightReps)))
	}
	lines = append(lines, "", mutedStyle.Render("press any key to exit"))
	return strings.Join(lines, "\n")
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
