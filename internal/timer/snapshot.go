package timer

import "time"

// Rest is the stored state of the rest countdown.
type Rest struct {
	Active   bool
	End      time.Time
	Duration time.Duration
}

// Snapshot is the tick-derived view of a running workout. It lives apart from
// the reducer state and is only joined with it at render time.
type Snapshot struct {
	At          time.Time
	Elapsed     int
	Paused      bool
	RestActive  bool
	RestLeft    int
	RestExpired bool
	// RestProgress runs from 0 (just started) to 1 (expired).
	RestProgress float64
}

// Compute derives a Snapshot from stored clock state.
func Compute(w Workout, r Rest, now time.Time) Snapshot {
	snap := Snapshot{
		At:      now,
		Elapsed: w.Elapsed(now),
		Paused:  w.PausedAt != nil,
	}
	if !r.Active {
		return snap
	}
	snap.RestActive = true
	snap.RestLeft = RestSecondsLeft(r.End, now)
	snap.RestExpired = !now.Before(r.End)
	if r.Duration > 0 {
		done := 1 - float64(RestRemaining(r.End, now))/float64(r.Duration)
		if done < 0 {
			done = 0
		}
		if done > 1 {
			done = 1
		}
		snap.RestProgress = done
	}
	return snap
}
