package system

import (
	"fmt"

	"github.com/julianstephens/liftlit/internal/backup"
	"github.com/julianstephens/liftlit/internal/cli"
	"github.com/julianstephens/liftlit/internal/migration"
)

// migrator is implemented by the SQL stores.
type migrator interface {
	Migrate(logFn func(string)) (int, error)
	MigrationStatus() (migration.Status, error)
}

type MigrateCmd struct {
	Status bool `help:"Only report pending migrations."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return fmt.Errorf("storage backend does not support migrations")
	}

	status, err := m.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	fmt.Printf("Schema version: %d (latest %d)\n", status.Current, status.Latest)

	if len(status.Pending) == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
		return nil
	}
	if c.Status {
		fmt.Printf("%d pending migration(s):\n", len(status.Pending))
		for _, p := range status.Pending {
			fmt.Printf("  %03d %s\n", p.Version, p.Name)
		}
		return nil
	}

	if ctx.IsSQLite() {
		snap, err := backup.New(ctx.Store.GetConfigPath()).Create()
		if err != nil {
			return fmt.Errorf("failed to back up before migrating: %w", err)
		}
		fmt.Printf("Backed up database to %s\n", snap.Path)
	}

	count, err := m.Migrate(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	return nil
}
