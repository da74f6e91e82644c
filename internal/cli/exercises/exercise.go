package exercises

import (
	"fmt"
	"strings"

	"github.com/julianstephens/liftlit/internal/cli"
	"github.com/julianstephens/liftlit/internal/models"
)

type ExerciseListCmd struct {
	ShowIDs bool `help:"Show exercise IDs." name:"show-ids"`
}

func (c *ExerciseListCmd) Run(ctx *cli.Context) error {
	list, err := ctx.Store.GetPersonalExercises()
	if err != nil {
		return fmt.Errorf("failed to get exercises: %w", err)
	}
	if len(list) == 0 {
		fmt.Println("No exercises in your library yet")
		return nil
	}

	fmt.Println("Exercises:")
	for _, pe := range list {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", pe.ID)
		}
		var meta []string
		if pe.MuscleGroup != "" {
			meta = append(meta, pe.MuscleGroup)
		}
		if pe.DefaultRestTime > 0 {
			meta = append(meta, fmt.Sprintf("rest %ds", pe.DefaultRestTime))
		}
		if pe.Tempo != "" {
			meta = append(meta, "tempo "+pe.Tempo)
		}
		metaStr := ""
		if len(meta) > 0 {
			metaStr = " - " + strings.Join(meta, ", ")
		}
		fmt.Printf("  %s%s%s (used %d times)\n", pe.Name, idStr, metaStr, pe.UseCount)
	}
	return nil
}

type ExerciseAddCmd struct {
	Name        string `arg:"" help:"Exercise name."`
	MuscleGroup string `help:"Primary muscle group." name:"muscle-group"`
	Rest        int    `help:"Default rest between sets in seconds."`
	Tempo       string `help:"Tempo notation, e.g. 3-1-1-0."`
	Tutorial    string `help:"How-to notes shown during a workout."`
}

func (c *ExerciseAddCmd) Run(ctx *cli.Context) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return fmt.Errorf("exercise name cannot be empty")
	}
	if c.Rest < 0 {
		return fmt.Errorf("rest cannot be negative")
	}
	if _, err := cli.FindExercise(ctx.Store, name); err == nil {
		return fmt.Errorf("exercise %q already exists", name)
	}

	pe, err := ctx.Store.CreatePersonalExercise(models.PersonalExercise{
		Name:            name,
		MuscleGroup:     strings.TrimSpace(c.MuscleGroup),
		DefaultRestTime: c.Rest,
		Tempo:           strings.TrimSpace(c.Tempo),
		TutorialText:    strings.TrimSpace(c.Tutorial),
	})
	if err != nil {
		return fmt.Errorf("failed to add exercise: %w", err)
	}
	fmt.Printf("✓ Added exercise: %s (ID: %s)\n", pe.Name, pe.ID)
	return nil
}

type ExerciseEditCmd struct {
	Exercise    string  `arg:"" help:"Exercise name or ID."`
	Name        *string `help:"New name."`
	MuscleGroup *string `help:"Primary muscle group." name:"muscle-group"`
	Rest        *int    `help:"Default rest between sets in seconds."`
	Tempo       *string `help:"Tempo notation."`
	Tutorial    *string `help:"How-to notes."`
}

func (c *ExerciseEditCmd) Run(ctx *cli.Context) error {
	pe, err := cli.FindExercise(ctx.Store, c.Exercise)
	if err != nil {
		return err
	}

	updated := false
	if c.Name != nil {
		name := strings.TrimSpace(*c.Name)
		if name == "" {
			return fmt.Errorf("exercise name cannot be empty")
		}
		pe.Name = name
		updated = true
	}
	if c.MuscleGroup != nil {
		pe.MuscleGroup = strings.TrimSpace(*c.MuscleGroup)
		updated = true
	}
	if c.Rest != nil {
		if *c.Rest < 0 {
			return fmt.Errorf("rest cannot be negative")
		}
		pe.DefaultRestTime = *c.Rest
		updated = true
	}
	if c.Tempo != nil {
		pe.Tempo = strings.TrimSpace(*c.Tempo)
		updated = true
	}
	if c.Tutorial != nil {
		pe.TutorialText = strings.TrimSpace(*c.Tutorial)
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified.")
		return nil
	}
	if err := ctx.Store.UpdatePersonalExercise(pe); err != nil {
		return fmt.Errorf("failed to update exercise: %w", err)
	}
	fmt.Printf("✓ Updated exercise: %s\n", pe.Name)
	return nil
}

type ExerciseDeleteCmd struct {
	Exercise string `arg:"" help:"Exercise name or ID."`
}

func (c *ExerciseDeleteCmd) Run(ctx *cli.Context) error {
	pe, err := cli.FindExercise(ctx.Store, c.Exercise)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeletePersonalExercise(pe.ID); err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}
	fmt.Printf("✓ Deleted exercise: %s\n", pe.Name)
	return nil
}
