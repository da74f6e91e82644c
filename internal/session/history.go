package session

import (
	"cmp"
	"slices"
	"strings"

	"github.com/julianstephens/liftlit/internal/constants"
	"github.com/julianstephens/liftlit/internal/errors"
	"github.com/julianstephens/liftlit/internal/logger"
	"github.com/julianstephens/liftlit/internal/models"
	"github.com/julianstephens/liftlit/internal/records"
)

// Ghost returns the completed sets of name from the most recent earlier
// session that has it, for showing as placeholders.
func (c *Controller) Ghost(name string) []models.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := models.NormalizeName(name)
	if key == "" {
		return nil
	}
	for _, sess := range c.history {
		for _, ex := range sess.Exercises {
			if models.NormalizeName(ex.Name) != key {
				continue
			}
			if done := ex.Clone().CompletedSets(); len(done) > 0 {
				return done
			}
		}
	}
	return nil
}

// Suggestions returns library entries whose name contains prefix, most used
// first. A library that failed to load yields no suggestions.
func (c *Controller) Suggestions(prefix string) []models.PersonalExercise {
	c.mu.Lock()
	defer c.mu.Unlock()
	needle := models.NormalizeName(prefix)
	var out []models.PersonalExercise
	for key, pe := range c.library {
		if strings.Contains(key, needle) {
			out = append(out, pe)
		}
	}
	slices.SortFunc(out, func(a, b models.PersonalExercise) int {
		if n := cmp.Compare(b.UseCount, a.UseCount); n != 0 {
			return n
		}
		// prefix matches beat substring matches at equal use
		ap, bp := strings.HasPrefix(models.NormalizeName(a.Name), needle), strings.HasPrefix(models.NormalizeName(b.Name), needle)
		if ap != bp {
			if ap {
				return -1
			}
			return 1
		}
		return cmp.Compare(models.NormalizeName(a.Name), models.NormalizeName(b.Name))
	})
	if len(out) > constants.SuggestionLimit {
		out = out[:constants.SuggestionLimit]
	}
	return out
}

// RefreshLibrary re-reads the personal library.
func (c *Controller) RefreshLibrary() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLibrary()
}

// PersonalRecord returns the record for name, including PRs set this workout.
func (c *Controller) PersonalRecord(name string) *models.PersonalRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return records.Lookup(c.prs, name)
}

// SessionRecords returns the records hit so far this workout.
func (c *Controller) SessionRecords() []models.PersonalRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.PersonalRecord(nil), c.prsHit...)
}

// SaveAsTemplate stores the named exercises as a reusable template with all
// sets reset to pending.
func (c *Controller) SaveAsTemplate(name string) (models.WorkoutTemplate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return models.WorkoutTemplate{}, errors.Wrapf(errors.ErrValidation, "template name cannot be empty")
	}
	tmpl := models.WorkoutTemplate{
		ID:        c.newID(),
		Name:      name,
		CreatedAt: c.now(),
	}
	for _, ex := range c.state.NavigableExercises() {
		ex = ex.Clone()
		ex.ID = c.newID()
		for i, set := range ex.Sets {
			ex.Sets[i] = set.Fresh()
		}
		tmpl.Exercises = append(tmpl.Exercises, ex)
	}
	if len(tmpl.Exercises) == 0 {
		return models.WorkoutTemplate{}, errors.Wrapf(errors.ErrValidation, "workout has no exercises to save")
	}

	if err := c.store.CreateWorkoutTemplate(tmpl); err != nil {
		logger.Error("Failed to save template", "name", name, "error", err)
		return models.WorkoutTemplate{}, errors.Wrap(errors.ErrPersistence, err)
	}
	logger.Info("Saved workout template", "id", tmpl.ID, "name", name)
	return tmpl, nil
}
