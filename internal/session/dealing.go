package session

import "time"

// Dealing is the persisted record of a running timer. A zero Dealing means
// no timer was running.
type Dealing struct {
	TaskID *string    `json:"id"`
	Start  *time.Time `json:"date"`
	State  *State     `json:"state"`
}

func NewDealing(taskID string, start time.Time, state State) Dealing {
	return Dealing{TaskID: &taskID, Start: &start, State: &state}
}

// Active reports whether the record describes a started timer.
func (d Dealing) Active() bool {
	return d.Start != nil
}
