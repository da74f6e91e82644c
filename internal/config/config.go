package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/liftlit/internal/constants"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Notify   NotifyConfig   `yaml:"notify"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"` // sqlite file
	DSN    string `yaml:"dsn"`  // postgres, without credentials; empty uses the keyring
}

type LogConfig struct {
	Debug bool   `yaml:"debug"`
	Dir   string `yaml:"dir"`
}

type NotifyConfig struct {
	// Enabled gates rest-expiry alerts to the tray app on top of the
	// notifications setting.
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			Path:   constants.DefaultConfigPath,
		},
		Notify: NotifyConfig{Enabled: true},
	}
}

// Load reads config from an optional YAML file, loads an optional .env file,
// then applies environment variable overrides:
//
//	LIFTLIT_DB_DRIVER, LIFTLIT_DB_PATH, LIFTLIT_DB_DSN,
//	LIFTLIT_DEBUG, LIFTLIT_LOG_DIR, LIFTLIT_NOTIFY
//
// A missing file at either path is not an error.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(ExpandPath(path))
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if envFile != "" {
		if err := godotenv.Load(ExpandPath(envFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	cfg.Database.Path = ExpandPath(cfg.Database.Path)
	cfg.Log.Dir = ExpandPath(cfg.Log.Dir)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LIFTLIT_DB_DRIVER"); v != "" {
		cfg.Database.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("LIFTLIT_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("LIFTLIT_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("LIFTLIT_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Debug = b
		}
	}
	if v := os.Getenv("LIFTLIT_LOG_DIR"); v != "" {
		cfg.Log.Dir = v
	}
	if v := os.Getenv("LIFTLIT_NOTIFY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Notify.Enabled = b
		}
	}
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case DriverPostgres:
		// An empty DSN is resolved from the OS keyring.
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	return nil
}

// Target returns the string handed to the storage layer: the DSN for
// postgres, the file path otherwise.
func (c *Config) Target() string {
	if c.Database.Driver == DriverPostgres {
		return c.Database.DSN
	}
	return c.Database.Path
}

// ConfigDir is the directory holding the database file, used for logs and
// other per-user state.
func (c *Config) ConfigDir() string {
	if c.Database.Driver == DriverSQLite {
		return filepath.Dir(c.Database.Path)
	}
	return filepath.Dir(ExpandPath(constants.DefaultConfigPath))
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
