package backups

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/liftlit/internal/backup"
	"github.com/julianstephens/liftlit/internal/cli"
	"github.com/julianstephens/liftlit/internal/constants"
)

var errSQLiteOnly = errors.New("backups are only supported for SQLite storage")

// confirm asks a yes/no question; swapped in tests.
var confirm = func(title, description string) (bool, error) {
	ok := false
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Restore").
		Negative("Cancel").
		Value(&ok).
		Run()
	return ok, err
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errSQLiteOnly
	}
	snap, err := backup.New(ctx.Store.GetConfigPath()).Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	fmt.Printf("✓ Backup created: %s\n", snap.Name())
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errSQLiteOnly
	}
	mgr := backup.New(ctx.Store.GetConfigPath())
	snaps, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(snaps) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(snaps), backup.Keep)
	for _, s := range snaps {
		fmt.Printf("  %s  %s  (%.1f KB)\n", s.TakenAt.Format("2006-01-02 15:04:05"), s.Name(), float64(s.Size)/1024.0)
	}
	fmt.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errSQLiteOnly
	}
	mgr := backup.New(ctx.Store.GetConfigPath())
	path, err := mgr.Resolve(c.BackupFile)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := confirm(
			fmt.Sprintf("Restore from %s?", path),
			fmt.Sprintf("This replaces your current database. Quit any running %s session first.\nA backup of the current database is taken before restoring.", constants.AppName),
		)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database connection: %v\n", err)
	}

	prior, err := mgr.Restore(path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Println("✓ Database restored successfully!")
	if prior.Path != "" {
		fmt.Printf("  Previous database saved as %s\n", prior.Name())
	}
	return nil
}
