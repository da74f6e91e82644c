package session

import (
	"context"
	"time"

	"github.com/julianstephens/liftlit/internal/errors"
	"github.com/julianstephens/liftlit/internal/logger"
	"github.com/julianstephens/liftlit/internal/models"
	"github.com/julianstephens/liftlit/internal/stats"
	"github.com/julianstephens/liftlit/internal/workout"
)

// Summary is what the lifter sees after a saved workout.
type Summary struct {
	SessionID   string
	Goal        models.GoalType
	Start       time.Time
	End         time.Time
	ElapsedSec  int
	Totals      stats.Summary
	Exercises   []stats.ExerciseSummary
	Records     []models.PersonalRecord
}

// Finish saves the workout. Only completed sets are kept. If the save fails
// the live state is left untouched, the phase stays at confirm, and the
// returned error is retryable.
func (c *Controller) Finish(ctx context.Context) (Summary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseConfirm || c.confirm != ConfirmFinish {
		return Summary{}, c.illegal("finish")
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	end := c.now()
	sess := c.buildSession(end)
	if len(sess.Exercises) == 0 {
		return Summary{}, errors.Wrapf(errors.ErrValidation, "no completed sets to save")
	}

	if err := c.store.SaveWorkoutSession(sess); err != nil {
		logger.Error("Failed to save workout", "item", c.item.ID, "error", err)
		return Summary{}, errors.Wrap(errors.ErrPersistence, err)
	}

	elapsed := c.clock().Elapsed(end)
	inactive := false
	c.queueItemUpdate(models.WorkoutItemUpdate{
		IsActiveWorkout:    &inactive,
		WorkoutEndTime:     &end,
		WorkoutDurationSec: &elapsed,
	})
	c.clearCheckpoint()
	c.learnLibrary(sess.Exercises)

	summary := Summary{
		SessionID:   sess.ID,
		Goal:        sess.GoalType,
		Start:       sess.StartTime,
		End:         end,
		ElapsedSec:  elapsed,
		Totals:      stats.Compute(c.state.Exercises),
		Exercises:   stats.Breakdown(sess.Exercises),
		Records:     append([]models.PersonalRecord(nil), c.prsHit...),
	}
	c.summary = &summary
	c.history = append([]models.WorkoutSession{sess}, c.history...)

	c.enter(PhaseSaved)
	c.state = workout.NewState(c.state.Settings, time.Time{}, nil)
	logger.Info("Workout saved", "session", sess.ID, "sets", summary.Totals.CompletedSets)
	return summary, nil
}

// buildSession keeps named exercises that have at least one completed set,
// with only their completed sets.
func (c *Controller) buildSession(end time.Time) models.WorkoutSession {
	sess := models.WorkoutSession{
		ID:            c.newID(),
		WorkoutItemID: c.item.ID,
		StartTime:     c.state.StartTimestamp,
		EndTime:       &end,
		GoalType:      c.goal,
	}
	for _, ex := range c.state.NavigableExercises() {
		done := ex.CompletedSets()
		if len(done) == 0 {
			continue
		}
		ex = ex.Clone()
		ex.Sets = done
		sess.Exercises = append(sess.Exercises, ex)
	}
	return sess
}

// learnLibrary adds new exercise names to the personal library and bumps the
// use count of known ones.
func (c *Controller) learnLibrary(exercises []models.Exercise) {
	for _, ex := range exercises {
		key := models.NormalizeName(ex.Name)
		if pe, ok := c.library[key]; ok {
			id := pe.ID
			pe.UseCount++
			c.library[key] = pe
			c.writer.Enqueue("library:"+key, func() error {
				return c.store.IncrementExerciseUse(id)
			})
			continue
		}
		pe := models.PersonalExercise{
			ID:              c.newID(),
			Name:            ex.Name,
			MuscleGroup:     ex.MuscleGroup,
			DefaultRestTime: ex.TargetRestTime,
			Tempo:           ex.Tempo,
			TutorialText:    ex.TutorialText,
			UseCount:        1,
			CreatedAt:       c.now(),
		}
		c.library[key] = pe
		c.writer.Enqueue("library:"+key, func() error {
			_, err := c.store.CreatePersonalExercise(pe)
			return err
		})
	}
}

// Cancel discards the workout without saving it.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseConfirm {
		return c.illegal("cancel")
	}
	inactive := false
	c.queueItemUpdate(models.WorkoutItemUpdate{IsActiveWorkout: &inactive})
	c.clearCheckpoint()
	c.phase = PhaseCancelled
	c.state = workout.NewState(c.state.Settings, time.Time{}, nil)
	logger.Info("Workout cancelled", "item", c.item.ID)
	return nil
}

// Summary returns the summary of a saved workout.
func (c *Controller) Summary() (Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.summary == nil {
		return Summary{}, false
	}
	return *c.summary, true
}
