// Package records detects personal records from completed sets.
package records

import (
	"math"
	"time"

	"github.com/julianstephens/liftlit/internal/models"
)

// Calculate1RM estimates a one-rep max with the Epley formula.
func Calculate1RM(weight float64, reps int) float64 {
	if reps <= 0 {
		return 0
	}
	if reps == 1 {
		return weight
	}
	return math.Round(weight * (1 + float64(reps)/30))
}

// Qualifies reports whether a set can take part in PR tracking.
func Qualifies(set models.Set) bool {
	return set.IsCompleted() && set.Weight > 0 && set.Reps > 0
}

// beats applies the PR ordering: heavier wins, equal weight with more reps
// wins, otherwise a higher one-rep-max estimate wins.
func beats(weight float64, reps int, pr models.PersonalRecord) bool {
	if weight > pr.MaxWeight {
		return true
	}
	if weight == pr.MaxWeight && reps > pr.MaxWeightReps {
		return true
	}
	return Calculate1RM(weight, reps) > pr.OneRepMax
}

// IsNewPR reports whether set improves on current. A nil record means the
// exercise has no history, so any qualifying set is a PR.
func IsNewPR(set models.Set, current *models.PersonalRecord) bool {
	if set.Weight <= 0 || set.Reps <= 0 {
		return false
	}
	if current == nil {
		return true
	}
	return beats(set.Weight, set.Reps, *current)
}

// Apply folds a qualifying set into a record and reports whether the record
// improved. MaxReps and VolumePR track their own maxima regardless.
func Apply(pr *models.PersonalRecord, set models.Set, at time.Time) bool {
	if set.Reps > pr.MaxReps {
		pr.MaxReps = set.Reps
	}
	if v := set.Volume(); v > pr.VolumePR {
		pr.VolumePR = v
	}
	if !beats(set.Weight, set.Reps, *pr) {
		return false
	}
	pr.MaxWeight = set.Weight
	pr.MaxWeightReps = set.Reps
	pr.OneRepMax = Calculate1RM(set.Weight, set.Reps)
	pr.Date = at
	pr.SetData = set
	return true
}

// FromHistory scans every qualifying set across sessions and returns the
// current record per exercise, keyed by normalized name.
func FromHistory(sessions []models.WorkoutSession) map[string]models.PersonalRecord {
	prs := make(map[string]models.PersonalRecord)
	for _, s := range sessions {
		for _, ex := range s.Exercises {
			if !ex.HasName() {
				continue
			}
			key := models.NormalizeName(ex.Name)
			for _, set := range ex.Sets {
				if !Qualifies(set) {
					continue
				}
				pr, ok := prs[key]
				if !ok {
					pr = models.PersonalRecord{ExerciseName: ex.Name}
				}
				at := s.StartTime
				if set.CompletedAt != nil {
					at = *set.CompletedAt
				}
				Apply(&pr, set, at)
				prs[key] = pr
			}
		}
	}
	return prs
}

// Lookup finds the record for a display name.
func Lookup(prs map[string]models.PersonalRecord, name string) *models.PersonalRecord {
	pr, ok := prs[models.NormalizeName(name)]
	if !ok {
		return nil
	}
	return &pr
}
