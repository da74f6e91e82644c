package session

import (
	"slices"

	"github.com/julianstephens/liftlit/internal/errors"
	"github.com/julianstephens/liftlit/internal/models"
	"github.com/julianstephens/liftlit/internal/workout"
)

// enter moves to p and mirrors it into the reducer's modal flags.
func (c *Controller) enter(p Phase) {
	if m, ok := c.phase.modal(); ok && c.state.ModalOpen(m) {
		c.apply(workout.SetModalState{Modal: m, Open: false})
	}
	c.phase = p
	if m, ok := p.modal(); ok {
		c.apply(workout.SetModalState{Modal: m, Open: true})
	}
	c.ensureSelector()
	c.checkpoint()
}

// afterGoal is where a workout goes once it has a goal. "ask" presents the
// warmup the same way "always" does; the warmup itself can be skipped.
func (c *Controller) afterGoal() Phase {
	if c.state.Settings.WarmupPreference == models.PreferenceNever {
		return PhaseExerciseLoop
	}
	return PhaseWarmup
}

func (c *Controller) illegal(op string) error {
	return errors.Wrapf(errors.ErrIllegalTransition, "%s during %s", op, c.phase)
}

// ChooseGoal sets the goal and moves on to warmup or the exercise loop.
func (c *Controller) ChooseGoal(goal models.GoalType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseGoalSelect {
		return c.illegal("choose goal")
	}
	if !slices.Contains(models.Goals, goal) {
		return errors.Wrapf(errors.ErrValidation, "unknown goal %q", goal)
	}
	c.goal = goal
	c.enter(c.afterGoal())
	return nil
}

// FinishWarmup ends the warmup, whether it was done or skipped.
func (c *Controller) FinishWarmup() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseWarmup {
		return c.illegal("finish warmup")
	}
	c.enter(PhaseExerciseLoop)
	return nil
}

// RequestFinish starts wrapping up: the cooldown unless it is turned off,
// then confirmation.
func (c *Controller) RequestFinish() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseExerciseLoop {
		return c.illegal("request finish")
	}
	c.confirm = ConfirmFinish
	if c.state.Settings.CooldownPreference == models.PreferenceNever {
		c.enter(PhaseConfirm)
	} else {
		c.enter(PhaseCooldown)
	}
	return nil
}

// FinishCooldown ends the cooldown, whether it was done or skipped.
func (c *Controller) FinishCooldown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseCooldown {
		return c.illegal("finish cooldown")
	}
	c.enter(PhaseConfirm)
	return nil
}

// RequestCancel asks the user to confirm throwing the workout away.
func (c *Controller) RequestCancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase.Terminal() || c.phase == PhaseConfirm {
		return c.illegal("request cancel")
	}
	c.confirm = ConfirmCancel
	c.enter(PhaseConfirm)
	return nil
}

// BackToWorkout leaves the cooldown or confirmation and returns to lifting.
func (c *Controller) BackToWorkout() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseConfirm && c.phase != PhaseCooldown {
		return c.illegal("return to workout")
	}
	if c.goal == "" {
		c.enter(PhaseGoalSelect)
		return nil
	}
	c.enter(PhaseExerciseLoop)
	return nil
}
