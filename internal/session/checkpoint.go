package session

import (
	"encoding/json"
	stderrors "errors"

	"github.com/julianstephens/liftlit/internal/constants"
	"github.com/julianstephens/liftlit/internal/logger"
	"github.com/julianstephens/liftlit/internal/models"
	"github.com/julianstephens/liftlit/internal/records"
	"github.com/julianstephens/liftlit/internal/storage"
	"github.com/julianstephens/liftlit/internal/workout"
)

const checkpointVersion = 1

// checkpointDoc is the recovery record written for a live workout.
type checkpointDoc struct {
	Version int             `json:"version"`
	Phase   Phase           `json:"phase"`
	Confirm ConfirmAction   `json:"confirm"`
	Goal    models.GoalType `json:"goal,omitempty"`
	State   workout.State   `json:"state"`
}

func (c *Controller) checkpointKey() string {
	return "checkpoint:" + c.item.ID
}

// checkpoint queues the current state for recovery. Newer checkpoints replace
// queued ones, so only the latest state is written.
func (c *Controller) checkpoint() {
	if c.phase.Terminal() {
		return
	}
	data, err := json.Marshal(checkpointDoc{
		Version: checkpointVersion,
		Phase:   c.phase,
		Confirm: c.confirm,
		Goal:    c.goal,
		State:   c.state,
	})
	if err != nil {
		logger.Warn("Failed to encode checkpoint", "item", c.item.ID, "error", err)
		return
	}
	cp := models.Checkpoint{ItemID: c.item.ID, Data: data, SavedAt: c.now()}
	c.writer.Enqueue(c.checkpointKey(), func() error {
		return c.store.SaveCheckpoint(cp)
	})
}

// clearCheckpoint replaces any queued checkpoint with its removal.
func (c *Controller) clearCheckpoint() {
	id := c.item.ID
	c.writer.Enqueue(c.checkpointKey(), func() error {
		err := c.store.ClearCheckpoint(id)
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	})
}

// resume restores a checkpoint younger than CheckpointMaxAge. Stale or
// unreadable checkpoints are discarded.
func (c *Controller) resume(settings models.Settings) bool {
	cp, err := c.store.GetCheckpoint(c.item.ID)
	if err != nil {
		if !stderrors.Is(err, storage.ErrNotFound) {
			logger.Warn("Checkpoint unavailable", "item", c.item.ID, "error", err)
		}
		return false
	}
	if age := c.now().Sub(cp.SavedAt); age > constants.CheckpointMaxAge {
		logger.Info("Discarding stale checkpoint", "item", c.item.ID, "age", age)
		c.clearCheckpoint()
		return false
	}

	var doc checkpointDoc
	if err := json.Unmarshal(cp.Data, &doc); err != nil || doc.Version != checkpointVersion {
		logger.Warn("Discarding unreadable checkpoint", "item", c.item.ID, "error", err)
		c.clearCheckpoint()
		return false
	}
	if doc.Phase.Terminal() {
		c.clearCheckpoint()
		return false
	}

	c.state = doc.State
	c.state.Settings = settings
	c.phase = doc.Phase
	c.confirm = doc.Confirm
	c.goal = doc.Goal
	c.resumed = true
	c.lastSync = c.now()
	c.replayRecords()
	c.ensureSelector()
	return true
}

// replayRecords folds the sets completed before the checkpoint into the
// records, so they count as this workout's PRs and are not celebrated again.
func (c *Controller) replayRecords() {
	for _, ex := range c.state.Exercises {
		if !ex.HasName() {
			continue
		}
		key := models.NormalizeName(ex.Name)
		for _, set := range ex.Sets {
			if !records.Qualifies(set) {
				continue
			}
			pr, ok := c.prs[key]
			if !ok {
				pr = models.PersonalRecord{ExerciseName: ex.Name}
			}
			if records.Apply(&pr, set, *set.CompletedAt) {
				c.notePR(key, pr)
			}
			c.prs[key] = pr
		}
	}
}
