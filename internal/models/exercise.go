package models

import (
	"strings"
	"time"
)

// Set is one performed (or planned) set of an exercise.
// A set is pending until CompletedAt is stamped; completion is one-way.
type Set struct {
	Reps        int        `json:"reps" yaml:"reps"`
	Weight      float64    `json:"weight" yaml:"weight"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"-"`
	RPE         int        `json:"rpe,omitempty" yaml:"rpe,omitempty"`             // 1..10, 0 when unset
	Notes       string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	RestTime    int        `json:"rest_time,omitempty" yaml:"rest_time,omitempty"` // seconds rested after this set
}

// IsCompleted reports whether the set has been stamped complete.
func (s Set) IsCompleted() bool {
	return s.CompletedAt != nil
}

// Volume is weight times reps.
func (s Set) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// Fresh returns a pending copy carrying only weight and reps.
func (s Set) Fresh() Set {
	return Set{Reps: s.Reps, Weight: s.Weight}
}

type Exercise struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	MuscleGroup    string `json:"muscle_group,omitempty" yaml:"muscle_group,omitempty"`
	TargetRestTime int    `json:"target_rest_time" yaml:"target_rest_time"` // seconds
	Tempo          string `json:"tempo,omitempty" yaml:"tempo,omitempty"`
	Notes          string `json:"notes,omitempty" yaml:"notes,omitempty"`
	TutorialText   string `json:"tutorial_text,omitempty" yaml:"tutorial_text,omitempty"`
	Sets           []Set  `json:"sets" yaml:"sets"`
}

// HasName reports whether the exercise has a non-blank name.
// Nameless exercises never take part in navigation.
func (e Exercise) HasName() bool {
	return strings.TrimSpace(e.Name) != ""
}

// Clone returns a deep copy of the exercise.
func (e Exercise) Clone() Exercise {
	out := e
	if e.Sets != nil {
		out.Sets = make([]Set, len(e.Sets))
		for i, s := range e.Sets {
			if s.CompletedAt != nil {
				at := *s.CompletedAt
				s.CompletedAt = &at
			}
			out.Sets[i] = s
		}
	}
	return out
}

// CompletedSets returns only the sets that carry a completion timestamp.
func (e Exercise) CompletedSets() []Set {
	var out []Set
	for _, s := range e.Sets {
		if s.IsCompleted() {
			out = append(out, s)
		}
	}
	return out
}

// ActiveSetIndex returns the index of the first set without a completion
// timestamp, or -1 if every set is complete.
func (e Exercise) ActiveSetIndex() int {
	for i, s := range e.Sets {
		if !s.IsCompleted() {
			return i
		}
	}
	return -1
}

// NormalizeName folds a name for case-insensitive matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
