package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/liftlit/internal/backup"
	"github.com/julianstephens/liftlit/internal/config"
	"github.com/julianstephens/liftlit/internal/logger"
	"github.com/julianstephens/liftlit/internal/models"
	"github.com/julianstephens/liftlit/internal/storage"
)

type Context struct {
	Store  storage.Provider
	Config *config.Config
}

// IsSQLite reports whether the store is a local database file.
func (c *Context) IsSQLite() bool {
	return c.Config == nil || c.Config.Database.Driver == config.DriverSQLite
}

// PerformAutomaticBackup snapshots a SQLite database and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	if _, err := backup.New(c.Store.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// FormatWeight prints a weight without trailing zeros.
func FormatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// FormatSets renders completed sets as "100x5, 102.5x5".
func FormatSets(sets []models.Set) string {
	parts := make([]string, 0, len(sets))
	for _, s := range sets {
		p := fmt.Sprintf("%sx%d", FormatWeight(s.Weight), s.Reps)
		if s.RPE > 0 {
			p += fmt.Sprintf("@%d", s.RPE)
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, ", ")
}

// ParseGoal accepts a goal name case-insensitively. Empty means none.
func ParseGoal(s string) (models.GoalType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	for _, g := range models.Goals {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("invalid goal %q (expected one of %s)", s, joinGoals())
}

func joinGoals() string {
	names := make([]string, len(models.Goals))
	for i, g := range models.Goals {
		names[i] = string(g)
	}
	return strings.Join(names, ", ")
}

// FindTemplate looks a template up by id, then by case-insensitive name.
func FindTemplate(store storage.Provider, ref string) (models.WorkoutTemplate, error) {
	if t, err := store.GetWorkoutTemplate(ref); err == nil {
		return t, nil
	}
	templates, err := store.GetWorkoutTemplates()
	if err != nil {
		return models.WorkoutTemplate{}, fmt.Errorf("failed to get templates: %w", err)
	}
	key := models.NormalizeName(ref)
	for _, t := range templates {
		if models.NormalizeName(t.Name) == key {
			return t, nil
		}
	}
	return models.WorkoutTemplate{}, fmt.Errorf("template not found: %s", ref)
}

// FindExercise looks a library entry up by id, then by name.
func FindExercise(store storage.Provider, ref string) (models.PersonalExercise, error) {
	exercises, err := store.GetPersonalExercises()
	if err != nil {
		return models.PersonalExercise{}, fmt.Errorf("failed to get exercises: %w", err)
	}
	key := models.NormalizeName(ref)
	for _, pe := range exercises {
		if pe.ID == ref || models.NormalizeName(pe.Name) == key {
			return pe, nil
		}
	}
	return models.PersonalExercise{}, fmt.Errorf("exercise not found: %s", ref)
}
