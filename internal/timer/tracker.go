// Package timer tracks a running Pomodoro timer against its state's limit.
package timer

import "time"

// Tracker measures elapsed time from a recorded start. The zero value is a
// stopped tracker.
type Tracker struct {
	start   time.Time
	taskID  string
	running bool
	fired   bool
}

// Restore returns a tracker already running since start, as recovered from a
// persisted record.
func Restore(start time.Time, taskID string) Tracker {
	var t Tracker
	t.Start(start, taskID)
	return t
}

func (t *Tracker) Start(at time.Time, taskID string) {
	t.start = at
	t.taskID = taskID
	t.running = true
	t.fired = false
}

func (t *Tracker) Stop() {
	*t = Tracker{}
}

func (t Tracker) Running() bool        { return t.running }
func (t Tracker) TaskID() string       { return t.taskID }
func (t Tracker) StartedAt() time.Time { return t.start }

// Elapsed is zero when stopped and never negative.
func (t Tracker) Elapsed(now time.Time) time.Duration {
	if !t.running {
		return 0
	}
	if d := now.Sub(t.start); d > 0 {
		return d
	}
	return 0
}

// Remaining is clamped at zero.
func (t Tracker) Remaining(now time.Time, limit time.Duration) time.Duration {
	if !t.running {
		return limit
	}
	if r := limit - t.Elapsed(now); r > 0 {
		return r
	}
	return 0
}

// Expired reports whether a running timer has reached limit.
func (t Tracker) Expired(now time.Time, limit time.Duration) bool {
	return t.running && t.Elapsed(now) >= limit
}

// CheckExpired is Expired that reports true at most once per started timer.
func (t *Tracker) CheckExpired(now time.Time, limit time.Duration) bool {
	if t.fired || !t.Expired(now, limit) {
		return false
	}
	t.fired = true
	return true
}

// Progress is the elapsed fraction of limit in [0, 1].
func (t Tracker) Progress(now time.Time, limit time.Duration) float64 {
	if limit <= 0 || !t.running {
		return 0
	}
	p := float64(t.Elapsed(now)) / float64(limit)
	if p > 1 {
		return 1
	}
	return p
}
