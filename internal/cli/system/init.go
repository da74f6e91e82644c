package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/liftlit/internal/cli"
	"github.com/julianstephens/liftlit/internal/constants"
	"github.com/julianstephens/liftlit/internal/storage"
	"github.com/julianstephens/liftlit/internal/storage/postgres"
	"github.com/julianstephens/liftlit/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if !ctx.IsSQLite() {
			return fmt.Errorf("--force only supports SQLite storage")
		}
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := copyData(ctx.Store, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}
	return nil
}

// reset deletes the SQLite file and its WAL companions.
func (c *InitCmd) reset(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if abs, err := filepath.Abs(dbPath); err == nil {
		dbPath = abs
	}
	if c.Source != "" {
		if src, err := filepath.Abs(c.Source); err == nil && src == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	_, err := os.Stat(dbPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	for _, ext := range []string{"-wal", "-shm"} {
		if err := os.Remove(dbPath + ext); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete %s: %w", dbPath+ext, err)
		}
	}
	fmt.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

func openSource(source string) (storage.Provider, error) {
	if postgres.IsConnString(source) {
		if ok, err := postgres.ValidateConnString(source); !ok {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("source connection string contains embedded credentials; use environment variables or .pgpass instead")
			}
			return nil, err
		}
		return postgres.New(source), nil
	}
	return sqlite.NewStore(source), nil
}

// copyData copies every record from the source store into dst.
// Checkpoints are not copied since they only matter on the machine that
// wrote them.
func copyData(dst storage.Provider, source string) error {
	src, err := openSource(source)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	fmt.Println("  Copying settings...")
	settings, err := src.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := dst.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Copying exercise library...")
	library, err := src.GetPersonalExercises()
	if err != nil {
		return fmt.Errorf("failed to get exercises from source: %w", err)
	}
	for _, pe := range library {
		if _, err := dst.CreatePersonalExercise(pe); err != nil {
			return fmt.Errorf("failed to add exercise %s: %w", pe.Name, err)
		}
	}
	fmt.Printf("    Copied %d exercises\n", len(library))

	fmt.Println("  Copying templates...")
	templates, err := src.GetWorkoutTemplates()
	if err != nil {
		return fmt.Errorf("failed to get templates from source: %w", err)
	}
	for _, t := range templates {
		if err := dst.CreateWorkoutTemplate(t); err != nil {
			return fmt.Errorf("failed to add template %s: %w", t.Name, err)
		}
	}
	fmt.Printf("    Copied %d templates\n", len(templates))

	fmt.Println("  Copying workouts...")
	items, err := src.GetWorkoutItems()
	if err != nil {
		return fmt.Errorf("failed to get workouts from source: %w", err)
	}
	for _, item := range items {
		if err := dst.AddWorkoutItem(item); err != nil {
			return fmt.Errorf("failed to add workout %s: %w", item.ID, err)
		}
	}
	fmt.Printf("    Copied %d workouts\n", len(items))

	fmt.Println("  Copying sessions...")
	sessions, err := src.GetWorkoutSessions(0)
	if err != nil {
		return fmt.Errorf("failed to get sessions from source: %w", err)
	}
	for _, s := range sessions {
		if err := dst.SaveWorkoutSession(s); err != nil {
			return fmt.Errorf("failed to add session %s: %w", s.ID, err)
		}
	}
	fmt.Printf("    Copied %d sessions\n", len(sessions))

	return nil
}
