package workout

import "github.com/julianstephens/liftlit/internal/models"

// Intent is a side effect requested by Reduce for the owner to execute.
type Intent interface {
	isIntent()
}

// Persist asks for the live state to be checkpointed.
type Persist struct{}

// CheckPR asks for a freshly completed set to be compared with the record.
type CheckPR struct {
	ExerciseName string
	Set          models.Set
}

// EnrichExercise asks for library metadata to be pulled onto an exercise
// whose name was just set.
type EnrichExercise struct {
	ExerciseID string
	Name       string
}

// RestAlert asks for the user to be told the rest is over.
type RestAlert struct {
	ExerciseName string
}

// SaveSettings asks the owning application to store new settings.
type SaveSettings struct {
	Settings models.Settings
}

func (Persist) isIntent()        {}
func (CheckPR) isIntent()        {}
func (EnrichExercise) isIntent() {}
func (RestAlert) isIntent()      {}
func (SaveSettings) isIntent()   {}
