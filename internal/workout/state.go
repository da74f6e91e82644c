// Package workout holds the live session state and the pure reducer that is
// its only writer.
package workout

import (
	"time"

	"github.com/julianstephens/liftlit/internal/models"
)

// SetField names the editable numeric field of a set.
type SetField string

const (
	FieldWeight SetField = "weight"
	FieldReps   SetField = "reps"
)

// Valid reports whether f names an editable field.
func (f SetField) Valid() bool {
	return f == FieldWeight || f == FieldReps
}

// Modal identifies an overlay whose visibility the reducer tracks.
type Modal string

const (
	ModalGoal         Modal = "goal"
	ModalWarmup       Modal = "warmup"
	ModalCooldown     Modal = "cooldown"
	ModalConfirm      Modal = "confirm"
	ModalSummary      Modal = "summary"
	ModalHistory      Modal = "history"
	ModalSaveTemplate Modal = "save_template"
	ModalExerciseInfo Modal = "exercise_info"
)

var knownModals = map[Modal]bool{
	ModalGoal:         true,
	ModalWarmup:       true,
	ModalCooldown:     true,
	ModalConfirm:      true,
	ModalSummary:      true,
	ModalHistory:      true,
	ModalSaveTemplate: true,
	ModalExerciseInfo: true,
}

// RestTimer is the stored rest countdown. Expired latches once the end time
// passes and stays set until the rest is skipped, extended or replaced.
type RestTimer struct {
	Active   bool          `json:"active"`
	EndTime  time.Time     `json:"end_time"`
	Duration time.Duration `json:"duration"`
	Expired  bool          `json:"expired"`
}

// Numpad is the numeric entry buffer for the active set.
type Numpad struct {
	Open   bool     `json:"open"`
	Target SetField `json:"target,omitempty"`
	Value  string   `json:"value,omitempty"`
}

// State is the live session. CurrentExerciseIndex indexes the navigable
// (named) exercises, not Exercises, and is -1 when there are none.
type State struct {
	Exercises            []models.Exercise      `json:"exercises"`
	CurrentExerciseIndex int                    `json:"current_exercise_index"`
	StartTimestamp       time.Time              `json:"start_timestamp"`
	TotalPausedTime      time.Duration          `json:"total_paused_time"`
	IsPaused             bool                   `json:"is_paused"`
	PausedAt             *time.Time             `json:"paused_at,omitempty"`
	Rest                 RestTimer              `json:"rest"`
	Numpad               Numpad                 `json:"numpad"`
	IsDrawerOpen         bool                   `json:"is_drawer_open"`
	ShowSettings         bool                   `json:"show_settings"`
	ShowSelector         bool                   `json:"show_selector"`
	ShowQuickForm        bool                   `json:"show_quick_form"`
	Modals               map[Modal]bool         `json:"modals,omitempty"`
	PRCelebration        *models.PersonalRecord `json:"pr_celebration,omitempty"`
	Settings             models.Settings        `json:"settings"`
}

// NewState builds the state a workout starts with.
func NewState(settings models.Settings, start time.Time, exercises []models.Exercise) State {
	s := State{
		StartTimestamp:       start,
		CurrentExerciseIndex: -1,
		Settings:             settings,
	}
	for _, ex := range exercises {
		s.Exercises = append(s.Exercises, ex.Clone())
	}
	return anchor(s, "", 0)
}

// Clone returns a deep copy so a reducer step never aliases its input.
func (s State) Clone() State {
	out := s
	if s.Exercises != nil {
		out.Exercises = make([]models.Exercise, len(s.Exercises))
		for i, ex := range s.Exercises {
			out.Exercises[i] = ex.Clone()
		}
	}
	if s.PausedAt != nil {
		at := *s.PausedAt
		out.PausedAt = &at
	}
	if s.Modals != nil {
		out.Modals = make(map[Modal]bool, len(s.Modals))
		for k, v := range s.Modals {
			out.Modals[k] = v
		}
	}
	if s.PRCelebration != nil {
		pr := *s.PRCelebration
		out.PRCelebration = &pr
	}
	return out
}

// Navigable returns the raw indices of exercises that have a name.
func (s State) Navigable() []int {
	var idx []int
	for i, ex := range s.Exercises {
		if ex.HasName() {
			idx = append(idx, i)
		}
	}
	return idx
}

// NavigableExercises returns copies of the named exercises in order.
func (s State) NavigableExercises() []models.Exercise {
	var out []models.Exercise
	for _, i := range s.Navigable() {
		out = append(out, s.Exercises[i])
	}
	return out
}

// CurrentRaw returns the index into Exercises of the current exercise.
func (s State) CurrentRaw() (int, bool) {
	nav := s.Navigable()
	if s.CurrentExerciseIndex < 0 || s.CurrentExerciseIndex >= len(nav) {
		return -1, false
	}
	return nav[s.CurrentExerciseIndex], true
}

// Current returns the current exercise.
func (s State) Current() (models.Exercise, bool) {
	raw, ok := s.CurrentRaw()
	if !ok {
		return models.Exercise{}, false
	}
	return s.Exercises[raw], true
}

// IndexOf returns the raw index of the exercise with id.
func (s State) IndexOf(id string) int {
	for i, ex := range s.Exercises {
		if ex.ID == id {
			return i
		}
	}
	return -1
}

// ModalOpen reports whether m is visible.
func (s State) ModalOpen(m Modal) bool {
	return s.Modals[m]
}

// currentID is the identity the current position is re-resolved by after a
// structural change.
func (s State) currentID() string {
	ex, ok := s.Current()
	if !ok {
		return ""
	}
	return ex.ID
}

// anchor points CurrentExerciseIndex at id when it is still navigable, else at
// fallback clamped into the navigable range.
func anchor(s State, id string, fallback int) State {
	nav := s.Navigable()
	if len(nav) == 0 {
		s.CurrentExerciseIndex = -1
		return s
	}
	if id != "" {
		for pos, raw := range nav {
			if s.Exercises[raw].ID == id {
				s.CurrentExerciseIndex = pos
				return s
			}
		}
	}
	if fallback < 0 {
		fallback = 0
	}
	if fallback >= len(nav) {
		fallback = len(nav) - 1
	}
	s.CurrentExerciseIndex = fallback
	return s
}
