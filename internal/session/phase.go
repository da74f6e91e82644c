package session

import "github.com/julianstephens/liftlit/internal/workout"

// Phase is the macro stage of a workout.
type Phase int

const (
	PhaseGoalSelect Phase = iota
	PhaseWarmup
	PhaseExerciseLoop
	PhaseCooldown
	PhaseConfirm
	PhaseSaved
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseGoalSelect:
		return "goal_select"
	case PhaseWarmup:
		return "warmup"
	case PhaseExerciseLoop:
		return "exercise_loop"
	case PhaseCooldown:
		return "cooldown"
	case PhaseConfirm:
		return "confirm"
	case PhaseSaved:
		return "saved"
	case PhaseCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Terminal reports whether the workout is over.
func (p Phase) Terminal() bool {
	return p == PhaseSaved || p == PhaseCancelled
}

// modal is the modal the reducer state shows while in p, if any.
func (p Phase) modal() (workout.Modal, bool) {
	switch p {
	case PhaseGoalSelect:
		return workout.ModalGoal, true
	case PhaseWarmup:
		return workout.ModalWarmup, true
	case PhaseCooldown:
		return workout.ModalCooldown, true
	case PhaseConfirm:
		return workout.ModalConfirm, true
	case PhaseSaved:
		return workout.ModalSummary, true
	}
	return "", false
}

// ConfirmAction is what the confirm phase is asking the user to approve.
type ConfirmAction int

const (
	ConfirmFinish ConfirmAction = iota
	ConfirmCancel
)
