package workout

import (
	"time"

	"github.com/julianstephens/liftlit/internal/models"
)

// Event is the input to Reduce. Events carry their own timestamps; the
// reducer never reads the wall clock.
type Event interface {
	isEvent()
}

// AddExercise appends an exercise. An empty Sets list gets one default set.
type AddExercise struct {
	Exercise models.Exercise
}

// RemoveExercise removes the exercise at a raw index into State.Exercises.
type RemoveExercise struct {
	Index int
}

// ReorderExercises reorders exercises by id. Unknown ids are ignored and
// exercises missing from Order keep their relative order at the end.
type ReorderExercises struct {
	Order []string
}

// RenameExercise sets the name of the exercise at a raw index.
type RenameExercise struct {
	Index int
	Name  string
}

// UpdateExerciseMeta merges non-nil metadata into the exercise at a raw index.
type UpdateExerciseMeta struct {
	Index          int
	MuscleGroup    *string
	Tempo          *string
	TargetRestTime *int
	TutorialText   *string
	Notes          *string
}

// ChangeExercise moves to a navigable index.
type ChangeExercise struct {
	Index int
}

// UpdateSet sets a field of the active set.
type UpdateSet struct {
	Field SetField
	Value float64
}

// AdjustSet adds Delta to a field of the active set, clamped at zero.
type AdjustSet struct {
	Field SetField
	Delta float64
}

// AddSet appends a pending set cloned from the last one.
type AddSet struct{}

// RemoveSet removes a pending set of the current exercise.
type RemoveSet struct {
	SetIndex int
}

// UpdateSetRPE sets the RPE of the active set. Zero clears it.
type UpdateSetRPE struct {
	Value int
}

// UpdateSetNotes sets the notes of the active set.
type UpdateSetNotes struct {
	Notes string
}

// CompleteSet stamps the active set. When SetIndex is set the event only
// applies if it still names the active set.
type CompleteSet struct {
	At       time.Time
	SetIndex *int
}

type OpenNumpad struct {
	Target SetField
}

type NumpadInput struct {
	Digit string
}

type NumpadDelete struct{}

type NumpadSubmit struct{}

type CloseNumpad struct{}

type SkipRest struct{}

// AddRestTime shifts the rest end time. The end never moves before Now.
type AddRestTime struct {
	Delta time.Duration
	Now   time.Time
}

// RestExpired signals that the rest countdown reached zero.
type RestExpired struct {
	At time.Time
}

type Pause struct {
	At time.Time
}

type Resume struct {
	At time.Time
}

type ToggleDrawer struct {
	Open bool
}

type ToggleSettings struct {
	Open bool
}

type OpenSelector struct{}

type CloseSelector struct{}

type OpenQuickForm struct{}

type CloseQuickForm struct{}

type SetModalState struct {
	Modal Modal
	Open  bool
}

// UpdateSettings merges into the settings echo and asks the owner to save.
type UpdateSettings struct {
	Patch models.SettingsPatch
}

type ShowPRCelebration struct {
	Record models.PersonalRecord
}

type HidePRCelebration struct{}

func (AddExercise) isEvent()        {}
func (RemoveExercise) isEvent()     {}
func (ReorderExercises) isEvent()   {}
func (RenameExercise) isEvent()     {}
func (UpdateExerciseMeta) isEvent() {}
func (ChangeExercise) isEvent()     {}
func (UpdateSet) isEvent()          {}
func (AdjustSet) isEvent()          {}
func (AddSet) isEvent()             {}
func (RemoveSet) isEvent()          {}
func (UpdateSetRPE) isEvent()       {}
func (UpdateSetNotes) isEvent()     {}
func (CompleteSet) isEvent()        {}
func (OpenNumpad) isEvent()         {}
func (NumpadInput) isEvent()        {}
func (NumpadDelete) isEvent()       {}
func (NumpadSubmit) isEvent()       {}
func (CloseNumpad) isEvent()        {}
func (SkipRest) isEvent()           {}
func (AddRestTime) isEvent()        {}
func (RestExpired) isEvent()        {}
func (Pause) isEvent()              {}
func (Resume) isEvent()             {}
func (ToggleDrawer) isEvent()       {}
func (ToggleSettings) isEvent()     {}
func (OpenSelector) isEvent()       {}
func (CloseSelector) isEvent()      {}
func (OpenQuickForm) isEvent()      {}
func (CloseQuickForm) isEvent()     {}
func (SetModalState) isEvent()      {}
func (UpdateSettings) isEvent()     {}
func (ShowPRCelebration) isEvent()  {}
func (HidePRCelebration) isEvent()  {}
