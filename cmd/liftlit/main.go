package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/liftlit/internal/cli"
	"github.com/julianstephens/liftlit/internal/cli/backups"
	"github.com/julianstephens/liftlit/internal/cli/exercises"
	"github.com/julianstephens/liftlit/internal/cli/settings"
	"github.com/julianstephens/liftlit/internal/cli/system"
	"github.com/julianstephens/liftlit/internal/cli/templates"
	"github.com/julianstephens/liftlit/internal/cli/workouts"
	"github.com/julianstephens/liftlit/internal/config"
	"github.com/julianstephens/liftlit/internal/constants"
	apperrors "github.com/julianstephens/liftlit/internal/errors"
	"github.com/julianstephens/liftlit/internal/keyring"
	"github.com/julianstephens/liftlit/internal/logger"
	"github.com/julianstephens/liftlit/internal/storage"
	"github.com/julianstephens/liftlit/internal/storage/postgres"
	"github.com/julianstephens/liftlit/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"string" default:"${config_file}"`
	EnvFile string `help:"Optional .env file with LIFTLIT_* overrides." name:"env-file" type:"string"`
	DB      string `help:"Database file path or PostgreSQL connection string, overriding the config file. Credentials must NOT be embedded in connection strings; use the OS keyring, PGPASSWORD or .pgpass instead." name:"db" type:"string"`
	Debug   bool   `help:"Log debug output to stderr."`

	Workout struct {
		Open    workouts.OpenCmd    `cmd:"" help:"Resume the workout in progress or start a new one." default:"1"`
		Start   workouts.StartCmd   `cmd:"" help:"Start a new workout."`
		Resume  workouts.ResumeCmd  `cmd:"" help:"Resume a workout in progress."`
		Discard workouts.DiscardCmd `cmd:"" help:"Discard a workout in progress without saving."`
		History workouts.HistoryCmd `cmd:"" help:"List saved workouts or show one."`
		PRs     workouts.PRsCmd     `cmd:"" name:"prs" help:"Show personal records."`
	} `cmd:"" help:"Run and review workouts." default:"1"`
	Exercise struct {
		List   exercises.ExerciseListCmd   `cmd:"" help:"List the exercise library." default:"1"`
		Add    exercises.ExerciseAddCmd    `cmd:"" help:"Add an exercise to the library."`
		Edit   exercises.ExerciseEditCmd   `cmd:"" help:"Edit a library exercise."`
		Delete exercises.ExerciseDeleteCmd `cmd:"" help:"Delete a library exercise."`
	} `cmd:"" help:"Manage the exercise library."`
	Template struct {
		List   templates.TemplateListCmd   `cmd:"" help:"List templates." default:"1"`
		Delete templates.TemplateDeleteCmd `cmd:"" help:"Delete a template."`
		Export templates.TemplateExportCmd `cmd:"" help:"Export a template as YAML."`
		Import templates.TemplateImportCmd `cmd:"" help:"Import a template from YAML."`
	} `cmd:"" help:"Manage workout templates."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Init     system.InitCmd     `cmd:"" help:"Initialize liftlit storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check templates and sessions for inconsistent data."`
	DebugCmd system.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability." default:"1"`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
	Notify system.NotifyCmd `cmd:"" hidden:"" help:"Send a test alert to the tray app."`
}

// noLoadCommands open the store themselves or never touch it.
var noLoadCommands = map[string]bool{
	"init":          true,
	"doctor":        true,
	"debug db-path": true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Workout logger with rest timers, templates and personal records"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)

	cfg, err := config.Load(CLI.Config, CLI.EnvFile)
	if err != nil {
		apperrors.Fatal(err)
	}
	applyFlags(cfg)

	if err := logger.Init(logger.Config{
		Debug:     cfg.Log.Debug,
		ConfigDir: cfg.ConfigDir(),
		LogDir:    cfg.Log.Dir,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	appCtx := &cli.Context{Config: cfg}
	command := commandPath(ctx)

	// The keyring commands must work before any connection string exists.
	if !strings.HasPrefix(command, "keyring") {
		store, err := openStore(cfg)
		if err != nil {
			apperrors.Fatal(err)
		}
		if !noLoadCommands[command] {
			if err := store.Load(); err != nil {
				apperrors.Fatal(err)
			}
		}
		appCtx.Store = store
	}

	err = ctx.Run(appCtx)
	if appCtx.Store != nil {
		if closeErr := appCtx.Store.Close(); closeErr != nil {
			logger.Warn("Failed to close database", "error", closeErr)
		}
	}
	if err != nil {
		apperrors.Fatal(err)
	}
}

// commandPath is the selected command without its positional arguments,
// e.g. "workout resume".
func commandPath(ctx *kong.Context) string {
	var words []string
	for _, w := range strings.Fields(ctx.Command()) {
		if !strings.HasPrefix(w, "<") {
			words = append(words, w)
		}
	}
	return strings.Join(words, " ")
}

func applyFlags(cfg *config.Config) {
	if CLI.Debug {
		cfg.Log.Debug = true
	}
	switch {
	case CLI.DB == "":
	case postgres.IsConnString(CLI.DB):
		cfg.Database.Driver = config.DriverPostgres
		cfg.Database.DSN = CLI.DB
	default:
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.Path = config.ExpandPath(CLI.DB)
	}
}

func openStore(cfg *config.Config) (storage.Provider, error) {
	if cfg.Database.Driver != config.DriverPostgres {
		return sqlite.NewStore(cfg.Database.Path), nil
	}

	connStr, err := keyring.ResolveConnectionString(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w\n       Set database.dsn, LIFTLIT_DB_DSN, or run '%s keyring set'", err, constants.AppName)
	}
	// The keyring may hold a password; a configured DSN must not.
	if cfg.Database.DSN != "" && postgres.HasEmbeddedCredentials(connStr) {
		return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are NOT allowed in config.\n" +
			"       Use the OS keyring, PGPASSWORD or a .pgpass file instead")
	}
	if _, err := postgres.ValidateConnString(connStr); err != nil && !postgres.HasEmbeddedCredentials(connStr) {
		return nil, err
	}
	return postgres.New(connStr), nil
}
