package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/liftlit/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateTemplateName ConflictType = "duplicate_template_name"
	ConflictEmptyTemplate         ConflictType = "empty_template"
	ConflictMissingExerciseName   ConflictType = "missing_exercise_name"
	ConflictInvalidValue          ConflictType = "invalid_value"
	ConflictIncompleteSet         ConflictType = "incomplete_set"
	ConflictInvalidDateTime       ConflictType = "invalid_datetime"
)

// Conflict represents a problem found in stored workout data
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // template, session or exercise names involved
	IDs         []string // IDs of the records involved (for auto-fixing)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Merge appends the conflicts of other.
func (vr *ValidationResult) Merge(other ValidationResult) {
	vr.Conflicts = append(vr.Conflicts, other.Conflicts...)
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks stored templates and sessions for data the workout flow
// would never produce.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateTemplates reports duplicate names, empty templates and malformed
// planned sets.
func (v *Validator) ValidateTemplates(templates []models.WorkoutTemplate) ValidationResult {
	var result ValidationResult

	byName := make(map[string][]models.WorkoutTemplate)
	var order []string
	for _, t := range templates {
		key := models.NormalizeName(t.Name)
		if _, seen := byName[key]; !seen {
			order = append(order, key)
		}
		byName[key] = append(byName[key], t)
	}
	for _, key := range order {
		dupes := byName[key]
		if len(dupes) < 2 {
			continue
		}
		ids := make([]string, len(dupes))
		for i, t := range dupes {
			ids[i] = t.ID
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateTemplateName,
			Description: fmt.Sprintf("Duplicate template name: %q appears %d times", dupes[0].Name, len(dupes)),
			Items:       []string{dupes[0].Name},
			IDs:         ids,
		})
	}

	for _, t := range templates {
		if len(t.Exercises) == 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyTemplate,
				Description: fmt.Sprintf("Template %q has no exercises", t.Name),
				Items:       []string{t.Name},
				IDs:         []string{t.ID},
			})
		}
		for _, ex := range t.Exercises {
			result.Conflicts = append(result.Conflicts, exerciseConflicts(fmt.Sprintf("Template %q", t.Name), t.ID, ex)...)
		}
	}
	return result
}

// ValidateSessions reports sessions that hold pending sets, unnamed
// exercises, impossible values or a reversed time range.
func (v *Validator) ValidateSessions(sessions []models.WorkoutSession) ValidationResult {
	var result ValidationResult
	for _, s := range sessions {
		label := s.StartTime.Format("2006-01-02 15:04")
		if s.EndTime != nil && s.EndTime.Before(s.StartTime) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Session %s ends before it starts", label),
				IDs:         []string{s.ID},
			})
		}
		for _, ex := range s.Exercises {
			result.Conflicts = append(result.Conflicts, exerciseConflicts("Session "+label, s.ID, ex)...)
			for i, set := range ex.Sets {
				if !set.IsCompleted() {
					result.Conflicts = append(result.Conflicts, Conflict{
						Type:        ConflictIncompleteSet,
						Description: fmt.Sprintf("Session %s: %s set %d was never completed", label, ex.Name, i+1),
						Items:       []string{ex.Name},
						IDs:         []string{s.ID},
					})
				}
			}
		}
	}
	return result
}

// exerciseConflicts checks one exercise. owner labels the template or
// session it belongs to in descriptions.
func exerciseConflicts(owner, ownerID string, ex models.Exercise) []Conflict {
	var out []Conflict
	if !ex.HasName() {
		out = append(out, Conflict{
			Type:        ConflictMissingExerciseName,
			Description: fmt.Sprintf("%s has an unnamed exercise", owner),
			IDs:         []string{ownerID},
		})
	}
	invalid := func(what string) Conflict {
		return Conflict{
			Type:        ConflictInvalidValue,
			Description: fmt.Sprintf("%s: %s %s", owner, ex.Name, what),
			Items:       []string{ex.Name},
			IDs:         []string{ownerID},
		}
	}
	if ex.TargetRestTime < 0 {
		out = append(out, invalid("has a negative rest time"))
	}
	for i, set := range ex.Sets {
		switch {
		case set.Weight < 0 || set.Reps < 0:
			out = append(out, invalid(fmt.Sprintf("set %d has negative weight or reps", i+1)))
		case set.RPE < 0 || set.RPE > 10:
			out = append(out, invalid(fmt.Sprintf("set %d has RPE %d", i+1, set.RPE)))
		}
	}
	return out
}

// AutoFixDuplicateTemplates keeps the oldest template of each duplicate name
// and deletes the rest. Failed deletions are reported, not fatal.
func AutoFixDuplicateTemplates(conflicts []Conflict, templates []models.WorkoutTemplate, deleteFunc func(id string) error) []FixAction {
	actions := []FixAction{}

	byID := make(map[string]models.WorkoutTemplate, len(templates))
	for _, t := range templates {
		byID[t.ID] = t
	}

	for _, conflict := range conflicts {
		if conflict.Type != ConflictDuplicateTemplateName {
			continue
		}

		var dupes []models.WorkoutTemplate
		for _, id := range conflict.IDs {
			if t, ok := byID[id]; ok {
				dupes = append(dupes, t)
			}
		}
		if len(dupes) <= 1 {
			continue
		}

		// Oldest first, ID breaks ties so reruns pick the same survivor.
		sort.Slice(dupes, func(i, j int) bool {
			if !dupes[i].CreatedAt.Equal(dupes[j].CreatedAt) {
				return dupes[i].CreatedAt.Before(dupes[j].CreatedAt)
			}
			return dupes[i].ID < dupes[j].ID
		})

		keep := dupes[0]
		var deletedIDs, failedIDs []string
		for _, t := range dupes[1:] {
			if err := deleteFunc(t.ID); err != nil {
				failedIDs = append(failedIDs, t.ID)
				continue
			}
			deletedIDs = append(deletedIDs, t.ID)
		}

		switch {
		case len(deletedIDs) > 0:
			msg := fmt.Sprintf("Removed %d duplicate template(s) named %q (kept ID: %s, removed: %v)", len(deletedIDs), keep.Name, keep.ID, deletedIDs)
			if len(failedIDs) > 0 {
				msg += fmt.Sprintf(" (failed to remove: %v)", failedIDs)
			}
			actions = append(actions, FixAction{Action: msg, SourceConflict: conflict})
		case len(failedIDs) > 0:
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Failed to remove duplicates of %q: %v", keep.Name, failedIDs),
				SourceConflict: conflict,
			})
		}
	}

	return actions
}
