package constants

import "time"

const (
	// FallbackRestTimeSec is used when neither the exercise nor the settings carry a rest time
	FallbackRestTimeSec = 90

	// NumpadMaxLength bounds the numpad input buffer
	NumpadMaxLength = 7

	// CheckpointMaxAge is how old a recovery checkpoint may be and still be resumed
	CheckpointMaxAge = 12 * time.Hour

	// ProgressSyncInterval is how often the owning workout item is told about elapsed time
	ProgressSyncInterval = 30 * time.Second

	// HistoryLimit is how many recent sessions are kept for ghost values
	HistoryLimit = 200

	// SuggestionLimit bounds exercise-name suggestions
	SuggestionLimit = 8

	// RestStep is the increment used by the +/- rest buttons
	RestStep = 15 * time.Second

	// Writer retry policy for background persistence
	WriterMaxAttempts    = 5
	WriterInitialBackoff = 250 * time.Millisecond
	WriterMaxBackoff     = 8 * time.Second
)
