package constants

import "time"

const (
	AppName            = "liftlit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/liftlit/liftlit.db"
	DefaultConfigFile  = "~/.config/liftlit/config.yaml"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimestampFormat is how timestamps are persisted as text. Fixed width so
	// stored values sort chronologically.
	TimestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "liftlit-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.liftlit"
	TrayProcessPrefix      = "liftlit-tray"
)
