package models

import "time"

// PersonalRecord is the best set known for an exercise name.
type PersonalRecord struct {
	ExerciseName  string    `json:"exercise_name"`
	MaxWeight     float64   `json:"max_weight"`
	MaxReps       int       `json:"max_reps"`
	MaxWeightReps int       `json:"max_weight_reps"` // reps achieved at MaxWeight
	OneRepMax     float64   `json:"one_rep_max"`     // Epley estimate
	VolumePR      float64   `json:"volume_pr"`       // best single-set weight x reps
	Date          time.Time `json:"date"`
	SetData       Set       `json:"set_data"`
}
