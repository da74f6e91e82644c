// Package stats projects derived numbers from the live exercise list.
package stats

import (
	"math"

	"github.com/julianstephens/liftlit/internal/models"
)

// Summary is the aggregate progress over the navigable exercises.
type Summary struct {
	CompletedSets   int
	TotalSets       int
	TotalVolume     float64
	ProgressPercent int
}

// ExerciseSummary is one row of a per-exercise breakdown.
type ExerciseSummary struct {
	Name          string
	CompletedSets int
	TotalSets     int
	Volume        float64
	BestWeight    float64
	BestReps      int
}

// Compute sums sets across every named exercise. Nameless exercises are
// excluded, matching what the user can navigate to.
func Compute(exercises []models.Exercise) Summary {
	var s Summary
	for _, ex := range exercises {
		if !ex.HasName() {
			continue
		}
		row := ForExercise(ex)
		s.CompletedSets += row.CompletedSets
		s.TotalSets += row.TotalSets
		s.TotalVolume += row.Volume
	}
	s.ProgressPercent = Percent(s.CompletedSets, s.TotalSets)
	return s
}

// ForExercise summarizes a single exercise. Only completed sets add volume.
func ForExercise(ex models.Exercise) ExerciseSummary {
	row := ExerciseSummary{Name: ex.Name, TotalSets: len(ex.Sets)}
	for _, set := range ex.Sets {
		if !set.IsCompleted() {
			continue
		}
		row.CompletedSets++
		row.Volume += set.Volume()
		if set.Weight > row.BestWeight || (set.Weight == row.BestWeight && set.Reps > row.BestReps) {
			row.BestWeight = set.Weight
			row.BestReps = set.Reps
		}
	}
	return row
}

// Breakdown returns a row per named exercise in list order.
func Breakdown(exercises []models.Exercise) []ExerciseSummary {
	var rows []ExerciseSummary
	for _, ex := range exercises {
		if ex.HasName() {
			rows = append(rows, ForExercise(ex))
		}
	}
	return rows
}

// Percent rounds done/total to a whole percentage, 0 when total is 0.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) * 100 / float64(total)))
}
