package models

import "time"

// WorkoutTemplate is a reusable list of exercises with planned (pending) sets.
type WorkoutTemplate struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Exercises []Exercise `json:"exercises" yaml:"exercises"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
}
