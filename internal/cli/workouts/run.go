package workouts

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/liftlit/internal/cli"
	"github.com/julianstephens/liftlit/internal/constants"
	"github.com/julianstephens/liftlit/internal/logger"
	"github.com/julianstephens/liftlit/internal/models"
	"github.com/julianstephens/liftlit/internal/notifier"
	"github.com/julianstephens/liftlit/internal/session"
	"github.com/julianstephens/liftlit/internal/timer"
	"github.com/julianstephens/liftlit/internal/tui"
)

const closeTimeout = 10 * time.Second

// newController wires a session to the store and, when enabled, the tray
// notifier. goal overrides the stored default for this workout only.
func newController(ctx *cli.Context, item models.WorkoutItem, seed []models.Exercise, goal models.GoalType) (*session.Controller, error) {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		logger.Warn("Failed to load settings, using defaults", "error", err)
		settings = models.DefaultSettings()
	}
	if goal != "" {
		settings.DefaultWorkoutGoal = goal
	}

	var alerter session.Alerter
	if ctx.Config == nil || ctx.Config.Notify.Enabled {
		alerter = notifier.New()
	}

	return session.New(session.Config{
		Store:     ctx.Store,
		Settings:  settings,
		Item:      item,
		Exercises: seed,
		Alerter:   alerter,
		OnSettingsChange: func(s models.Settings) {
			if err := ctx.Store.SaveSettings(s); err != nil {
				logger.Error("Failed to save settings from workout", "error", err)
			}
		},
	})
}

// runSession drives a workout in the TUI until it is saved, discarded or
// the user quits, then drains pending writes.
func runSession(ctx *cli.Context, item models.WorkoutItem, seed []models.Exercise, goal models.GoalType) error {
	ctrl, err := newController(ctx, item, seed, goal)
	if err != nil {
		return fmt.Errorf("failed to start workout: %w", err)
	}
	if ctrl.Resumed() {
		logger.Info("Resumed workout from checkpoint", "item", item.ID)
	}

	p := tea.NewProgram(tui.NewModel(ctrl), tea.WithAltScreen())
	_, runErr := p.Run()

	closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := ctrl.Close(closeCtx); err != nil {
		logger.Warn("Pending writes did not finish", "pending", ctrl.PendingWrites(), "error", err)
		fmt.Fprintf(os.Stderr, "Warning: some changes were not saved: %v\n", err)
	}
	if runErr != nil {
		return fmt.Errorf("TUI failed: %w", runErr)
	}

	switch ctrl.Phase() {
	case session.PhaseSaved:
		if sum, ok := ctrl.Summary(); ok {
			printSummary(sum)
		}
		ctx.PerformAutomaticBackup()
	case session.PhaseCancelled:
		fmt.Println("Workout discarded.")
	default:
		fmt.Printf("Workout left in progress. Resume with '%s workout resume'.\n", constants.AppName)
	}
	return nil
}

func printSummary(sum session.Summary) {
	fmt.Printf("✓ Workout saved (%s)\n", timer.FormatDuration(sum.ElapsedSec))
	if sum.Goal != "" {
		fmt.Printf("  Goal:   %s\n", sum.Goal)
	}
	fmt.Printf("  Sets:   %d\n", sum.Totals.CompletedSets)
	fmt.Printf("  Volume: %s\n", cli.FormatWeight(sum.Totals.TotalVolume))
	for _, row := range sum.Exercises {
		fmt.Printf("    %-24s %d sets, best %sx%d\n", row.Name, row.CompletedSets, cli.FormatWeight(row.BestWeight), row.BestReps)
	}
	for _, pr := range sum.Records {
		fmt.Printf("  🏆 New PR: %s %sx%d\n", pr.ExerciseName, cli.FormatWeight(pr.MaxWeight), pr.MaxWeightReps)
	}
}

// activeItems returns in-progress workout items, newest first.
func activeItems(ctx *cli.Context) ([]models.WorkoutItem, error) {
	items, err := ctx.Store.GetWorkoutItems()
	if err != nil {
		return nil, fmt.Errorf("failed to get workout items: %w", err)
	}
	var active []models.WorkoutItem
	for _, it := range items {
		if it.IsActiveWorkout {
			active = append(active, it)
		}
	}
	return active, nil
}
