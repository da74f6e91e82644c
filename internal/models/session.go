package models

import "time"

// Goal types a workout can be started with.
type GoalType string

const (
	GoalStrength    GoalType = "strength"
	GoalHypertrophy GoalType = "hypertrophy"
	GoalEndurance   GoalType = "endurance"
	GoalGeneral     GoalType = "general"
)

// Goals lists the selectable goals in display order.
var Goals = []GoalType{GoalStrength, GoalHypertrophy, GoalEndurance, GoalGeneral}

// WorkoutSession is the persisted record of a finished workout. Only completed
// sets are retained, and a session is never mutated after it is saved.
type WorkoutSession struct {
	ID            string     `json:"id"`
	WorkoutItemID string     `json:"workout_item_id"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	GoalType      GoalType   `json:"goal_type,omitempty"`
	Exercises     []Exercise `json:"exercises"`
}

// Duration is the wall-clock span of the session, zero when unfinished.
func (s WorkoutSession) Duration() time.Duration {
	if s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}
