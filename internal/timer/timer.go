// Package timer holds the clock math for a running workout. Everything here is
// a pure re-read of wall-clock time against stored timestamps, so a missed
// tick never accumulates drift and a restarted process resumes at the same
// elapsed time.
package timer

import (
	"fmt"
	"time"
)

// Workout is the persisted clock state of a session.
type Workout struct {
	Start       time.Time
	TotalPaused time.Duration
	PausedAt    *time.Time // set while paused
}

// Elapsed returns whole seconds of unpaused time since Start.
func (w Workout) Elapsed(now time.Time) int {
	if w.Start.IsZero() {
		return 0
	}
	span := now.Sub(w.Start) - w.TotalPaused
	if w.PausedAt != nil {
		span -= now.Sub(*w.PausedAt)
	}
	if span < 0 {
		return 0
	}
	return int(span / time.Second)
}

// ElapsedSeconds is the functional form of Workout.Elapsed.
func ElapsedSeconds(start time.Time, totalPaused time.Duration, pausedAt *time.Time, now time.Time) int {
	return Workout{Start: start, TotalPaused: totalPaused, PausedAt: pausedAt}.Elapsed(now)
}

// RestRemaining returns the time left until end, floored at zero.
func RestRemaining(end, now time.Time) time.Duration {
	left := end.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// RestSecondsLeft rounds the remaining rest up to whole seconds so the
// countdown shows 1 until the moment it expires.
func RestSecondsLeft(end, now time.Time) int {
	left := RestRemaining(end, now)
	secs := int(left / time.Second)
	if left%time.Second != 0 {
		secs++
	}
	return secs
}

// FormatDuration renders seconds as H:MM:SS when at least an hour, else M:SS.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
