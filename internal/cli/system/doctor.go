package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/liftlit/internal/backup"
	"github.com/julianstephens/liftlit/internal/cli"
	"github.com/julianstephens/liftlit/internal/constants"
	"github.com/julianstephens/liftlit/internal/keyring"
	"github.com/julianstephens/liftlit/internal/notifier"
	"github.com/julianstephens/liftlit/internal/storage"
)

type DoctorCmd struct{}

type check struct {
	name    string
	warn    bool // failure is reported but does not fail the command
	needsDB bool
	run     func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Backups present", warn: true, run: checkBackupsPresent},
	{name: "Data validation", needsDB: true, run: checkValidation},
	{name: "Workout checkpoints", warn: true, needsDB: true, run: checkCheckpoints},
	{name: "Clock/timezone", run: func(*cli.Context) error { return checkClockTimezone() }},
	{name: "Tray app", warn: true, run: func(*cli.Context) error { return checkTray() }},
	{name: "OS keyring", warn: true, run: func(*cli.Context) error { return checkKeyring() }},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Some checks failed. Please review the errors above.")
		return errors.New("diagnostics failed")
	}
	fmt.Println("All critical checks passed.")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if ctx.Store == nil {
		return errors.New("no storage configured")
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil
	}
	status, err := m.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if status.Current == 0 {
		return errors.New("schema version is 0, database not initialized")
	}
	if status.Current > status.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", status.Current, status.Latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil
	}
	status, err := m.MigrationStatus()
	if err != nil {
		return err
	}
	if n := len(status.Pending); n > 0 {
		return fmt.Errorf("%d pending migration(s), run '%s migrate'", n, constants.AppName)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errors.New("backups are only taken for SQLite storage")
	}
	snaps, err := backup.New(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(snaps) == 0 {
		return fmt.Errorf("no backups found, run '%s backup create'", constants.AppName)
	}
	if age := time.Since(snaps[0].TakenAt); age > 7*24*time.Hour {
		return fmt.Errorf("latest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

// checkValidation runs the data validator over templates and sessions.
func checkValidation(ctx *cli.Context) error {
	result, err := validate(ctx.Store)
	if err != nil {
		return err
	}
	if !result.HasConflicts() {
		return nil
	}
	problems := make([]string, len(result.Conflicts))
	for i, c := range result.Conflicts {
		problems[i] = c.Description
	}
	return fmt.Errorf("%w\n     run '%s validate' for details", problemsError(problems), constants.AppName)
}

// checkCheckpoints reports in-progress workouts whose checkpoint is too old
// to be resumed.
func checkCheckpoints(ctx *cli.Context) error {
	items, err := ctx.Store.GetWorkoutItems()
	if err != nil {
		return fmt.Errorf("failed to read workouts: %w", err)
	}
	var problems []string
	for _, item := range items {
		if !item.IsActiveWorkout {
			continue
		}
		cp, err := ctx.Store.GetCheckpoint(item.ID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read checkpoint for %s: %w", item.ID, err)
		}
		if age := time.Since(cp.SavedAt); age > constants.CheckpointMaxAge {
			problems = append(problems, fmt.Sprintf("%q checkpoint is %s old, run '%s workout discard %s'",
				item.Title, age.Round(time.Minute), constants.AppName, item.ID))
		}
	}
	return problemsError(problems)
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock appears to be wrong: %s", now.Format(time.RFC3339))
	}
	if now.Location() == nil {
		return errors.New("timezone not configured")
	}
	return nil
}

func checkTray() error {
	pid, err := notifier.New().TrayStatus()
	if err != nil {
		return fmt.Errorf("alerts will not be delivered: %w", err)
	}
	fmt.Printf("   tray app running (pid %d)\n", pid)
	return nil
}

func checkKeyring() error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func problemsError(problems []string) error {
	switch len(problems) {
	case 0:
		return nil
	case 1:
		return errors.New(problems[0])
	}
	msg := fmt.Sprintf("%d problems found:", len(problems))
	for _, p := range problems {
		msg += "\n     - " + p
	}
	return errors.New(msg)
}
