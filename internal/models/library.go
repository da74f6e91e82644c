package models

import "time"

// PersonalExercise is an entry in the user's exercise library.
type PersonalExercise struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	MuscleGroup     string    `json:"muscle_group,omitempty"`
	DefaultRestTime int       `json:"default_rest_time,omitempty"` // seconds
	Tempo           string    `json:"tempo,omitempty"`
	TutorialText    string    `json:"tutorial_text,omitempty"`
	UseCount        int       `json:"use_count"`
	CreatedAt       time.Time `json:"created_at"`
}
