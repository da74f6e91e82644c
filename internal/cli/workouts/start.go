package workouts

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/liftlit/internal/cli"
	"github.com/julianstephens/liftlit/internal/constants"
	"github.com/julianstephens/liftlit/internal/models"
)

type StartCmd struct {
	Template string `help:"Template id or name to seed the workout with." short:"t"`
	Title    string `help:"Title of the workout." default:"Workout"`
	Goal     string `help:"Goal for this workout (strength, hypertrophy, endurance, general). Skips the goal prompt."`
	Force    bool   `help:"Discard any workout still in progress and start fresh."`
}

func (c *StartCmd) Run(ctx *cli.Context) error {
	goal, err := cli.ParseGoal(c.Goal)
	if err != nil {
		return err
	}

	active, err := activeItems(ctx)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		if !c.Force {
			return fmt.Errorf("workout %q is still in progress; run '%s workout resume' or pass --force", active[0].Title, constants.AppName)
		}
		for _, item := range active {
			if err := discard(ctx, item); err != nil {
				return err
			}
		}
	}

	item := models.WorkoutItem{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(c.Title),
		CreatedAt: time.Now(),
	}
	if item.Title == "" {
		item.Title = "Workout"
	}

	var seed []models.Exercise
	if c.Template != "" {
		tmpl, err := cli.FindTemplate(ctx.Store, c.Template)
		if err != nil {
			return err
		}
		item.TemplateID = tmpl.ID
		if c.Title == "Workout" {
			item.Title = tmpl.Name
		}
		seed = tmpl.Exercises
	}

	if err := ctx.Store.AddWorkoutItem(item); err != nil {
		return fmt.Errorf("failed to create workout: %w", err)
	}

	return runSession(ctx, item, seed, goal)
}
