package models

import (
	"testing"
	"time"
)

func TestExerciseHasName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"empty", "", false},
		{"whitespace", "  \t ", false},
		{"named", "Squat", true},
		{"padded", "  Row ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Exercise{Name: tt.in}).HasName(); got != tt.want {
				t.Errorf("HasName(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestExerciseCloneIsDeep(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	orig := Exercise{ID: "e1", Name: "Bench", Sets: []Set{{Reps: 5, Weight: 100, CompletedAt: &at}}}

	cp := orig.Clone()
	cp.Sets[0].Reps = 8
	*cp.Sets[0].CompletedAt = at.Add(time.Hour)

	if orig.Sets[0].Reps != 5 {
		t.Errorf("clone shares set slice: reps = %d", orig.Sets[0].Reps)
	}
	if !orig.Sets[0].CompletedAt.Equal(at) {
		t.Errorf("clone shares completion timestamp: %v", orig.Sets[0].CompletedAt)
	}
}

func TestActiveSetIndex(t *testing.T) {
	at := time.Now()
	ex := Exercise{Sets: []Set{{CompletedAt: &at}, {}, {}}}
	if got := ex.ActiveSetIndex(); got != 1 {
		t.Errorf("ActiveSetIndex() = %d, want 1", got)
	}

	ex.Sets = []Set{{CompletedAt: &at}}
	if got := ex.ActiveSetIndex(); got != -1 {
		t.Errorf("ActiveSetIndex() = %d, want -1", got)
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("  Bench   PRESS "); got != "bench press" {
		t.Errorf("NormalizeName() = %q", got)
	}
}

func TestWorkoutItemUpdateApply(t *testing.T) {
	end := time.Now()
	inactive := false
	dur := 3600

	item := WorkoutItem{ID: "i1", IsActiveWorkout: true}
	got := WorkoutItemUpdate{IsActiveWorkout: &inactive, WorkoutEndTime: &end, WorkoutDurationSec: &dur}.Apply(item)

	if got.IsActiveWorkout {
		t.Error("IsActiveWorkout should be false")
	}
	if got.WorkoutEndTime == nil || !got.WorkoutEndTime.Equal(end) {
		t.Errorf("WorkoutEndTime = %v, want %v", got.WorkoutEndTime, end)
	}
	if got.WorkoutDurationSec != 3600 {
		t.Errorf("WorkoutDurationSec = %d, want 3600", got.WorkoutDurationSec)
	}
}
