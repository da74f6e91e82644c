package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/liftlit/internal/cli"
	"github.com/julianstephens/liftlit/internal/storage"
	"github.com/julianstephens/liftlit/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Remove duplicate templates, keeping the oldest of each name."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	result, err := validate(ctx.Store)
	if err != nil {
		return err
	}

	if !result.HasConflicts() {
		fmt.Println("✓ No conflicts detected.")
		return nil
	}
	fmt.Print(result.FormatReport())

	if !c.Fix {
		return errors.New("validation found conflicts")
	}

	templates, err := ctx.Store.GetWorkoutTemplates()
	if err != nil {
		return fmt.Errorf("failed to get templates: %w", err)
	}
	actions := validation.AutoFixDuplicateTemplates(result.Conflicts, templates, ctx.Store.DeleteWorkoutTemplate)
	if len(actions) == 0 {
		fmt.Println("\nNothing could be fixed automatically.")
		return errors.New("validation found conflicts")
	}
	fmt.Println("\nFixes applied:")
	for _, a := range actions {
		fmt.Printf("  - %s\n", a.Action)
	}

	remaining, err := validate(ctx.Store)
	if err != nil {
		return err
	}
	if remaining.HasConflicts() {
		fmt.Printf("\n%d conflict(s) need manual attention.\n", len(remaining.Conflicts))
		return errors.New("validation found conflicts")
	}
	return nil
}

func validate(store storage.Provider) (validation.ValidationResult, error) {
	templates, err := store.GetWorkoutTemplates()
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to read templates: %w", err)
	}
	sessions, err := store.GetWorkoutSessions(0)
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to read sessions: %w", err)
	}

	v := validation.New()
	result := v.ValidateTemplates(templates)
	result.Merge(v.ValidateSessions(sessions))
	return result, nil
}
