package storage

import (
	"errors"

	"github.com/julianstephens/liftlit/internal/models"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Exercise library
	GetPersonalExercises() ([]models.PersonalExercise, error)
	GetPersonalExerciseByName(name string) (models.PersonalExercise, error)
	// CreatePersonalExercise stores a new entry, assigning ID and CreatedAt
	// when they are empty, and returns what was stored.
	CreatePersonalExercise(models.PersonalExercise) (models.PersonalExercise, error)
	UpdatePersonalExercise(models.PersonalExercise) error
	DeletePersonalExercise(id string) error
	IncrementExerciseUse(id string) error

	// Sessions
	SaveWorkoutSession(models.WorkoutSession) error
	GetWorkoutSession(id string) (models.WorkoutSession, error)
	// GetWorkoutSessions returns the newest sessions first. limit <= 0 means all.
	GetWorkoutSessions(limit int) ([]models.WorkoutSession, error)

	// Templates
	CreateWorkoutTemplate(models.WorkoutTemplate) error
	GetWorkoutTemplate(id string) (models.WorkoutTemplate, error)
	GetWorkoutTemplates() ([]models.WorkoutTemplate, error)
	DeleteWorkoutTemplate(id string) error

	// Workout items
	AddWorkoutItem(models.WorkoutItem) error
	GetWorkoutItem(id string) (models.WorkoutItem, error)
	GetWorkoutItems() ([]models.WorkoutItem, error)
	UpdateWorkoutItem(id string, update models.WorkoutItemUpdate) error

	// Recovery checkpoints
	SaveCheckpoint(models.Checkpoint) error
	GetCheckpoint(itemID string) (models.Checkpoint, error)
	ClearCheckpoint(itemID string) error

	// Utils
	GetConfigPath() string
}
