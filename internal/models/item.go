package models

import "time"

// WorkoutItem is the task in the surrounding app that owns a workout.
type WorkoutItem struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	TemplateID         string     `json:"template_id,omitempty"`
	IsActiveWorkout    bool       `json:"is_active_workout"`
	WorkoutStartTime   *time.Time `json:"workout_start_time,omitempty"`
	WorkoutEndTime     *time.Time `json:"workout_end_time,omitempty"`
	WorkoutDurationSec int        `json:"workout_duration_sec"`
	CreatedAt          time.Time  `json:"created_at"`
}

// WorkoutItemUpdate is a partial update; nil fields are left untouched.
type WorkoutItemUpdate struct {
	IsActiveWorkout    *bool
	WorkoutStartTime   *time.Time
	WorkoutEndTime     *time.Time
	WorkoutDurationSec *int
}

// Apply merges the non-nil fields of u into item.
func (u WorkoutItemUpdate) Apply(item WorkoutItem) WorkoutItem {
	if u.IsActiveWorkout != nil {
		item.IsActiveWorkout = *u.IsActiveWorkout
	}
	if u.WorkoutStartTime != nil {
		item.WorkoutStartTime = u.WorkoutStartTime
	}
	if u.WorkoutEndTime != nil {
		item.WorkoutEndTime = u.WorkoutEndTime
	}
	if u.WorkoutDurationSec != nil {
		item.WorkoutDurationSec = *u.WorkoutDurationSec
	}
	return item
}
