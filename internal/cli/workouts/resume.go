package workouts

import (
	"errors"
	"fmt"

	"github.com/julianstephens/liftlit/internal/cli"
	"github.com/julianstephens/liftlit/internal/constants"
	"github.com/julianstephens/liftlit/internal/models"
	"github.com/julianstephens/liftlit/internal/storage"
)

type ResumeCmd struct {
	ID string `arg:"" optional:"" help:"Workout id. Defaults to the most recent workout in progress."`
}

func (c *ResumeCmd) Run(ctx *cli.Context) error {
	item, err := pickActive(ctx, c.ID)
	if err != nil {
		return err
	}
	return runSession(ctx, item, nil, "")
}

type DiscardCmd struct {
	ID string `arg:"" optional:"" help:"Workout id. Defaults to the most recent workout in progress."`
}

func (c *DiscardCmd) Run(ctx *cli.Context) error {
	item, err := pickActive(ctx, c.ID)
	if err != nil {
		return err
	}
	if err := discard(ctx, item); err != nil {
		return err
	}
	fmt.Printf("✓ Discarded workout %q\n", item.Title)
	return nil
}

func pickActive(ctx *cli.Context, id string) (models.WorkoutItem, error) {
	if id != "" {
		item, err := ctx.Store.GetWorkoutItem(id)
		if errors.Is(err, storage.ErrNotFound) {
			return models.WorkoutItem{}, fmt.Errorf("workout not found: %s", id)
		}
		if err != nil {
			return models.WorkoutItem{}, fmt.Errorf("failed to get workout: %w", err)
		}
		if !item.IsActiveWorkout {
			return models.WorkoutItem{}, fmt.Errorf("workout %q is not in progress", item.Title)
		}
		return item, nil
	}

	active, err := activeItems(ctx)
	if err != nil {
		return models.WorkoutItem{}, err
	}
	if len(active) == 0 {
		return models.WorkoutItem{}, fmt.Errorf("no workout in progress; start one with '%s workout start'", constants.AppName)
	}
	return active[0], nil
}

// discard ends an in-progress workout without saving a session.
func discard(ctx *cli.Context, item models.WorkoutItem) error {
	inactive := false
	if err := ctx.Store.UpdateWorkoutItem(item.ID, models.WorkoutItemUpdate{IsActiveWorkout: &inactive}); err != nil {
		return fmt.Errorf("failed to end workout %s: %w", item.ID, err)
	}
	if err := ctx.Store.ClearCheckpoint(item.ID); err != nil {
		return fmt.Errorf("failed to clear checkpoint for %s: %w", item.ID, err)
	}
	return nil
}

// OpenCmd resumes the workout in progress, or starts a blank one.
type OpenCmd struct{}

func (c *OpenCmd) Run(ctx *cli.Context) error {
	active, err := activeItems(ctx)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return runSession(ctx, active[0], nil, "")
	}
	return (&StartCmd{Title: "Workout"}).Run(ctx)
}
