// Package session models the Pomodoro cycle: four work units separated by
// short breaks and closed by a lunch break.
package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Kind int

const (
	Work Kind = iota
	Break
	Lunch
)

var kindNames = map[Kind]string{
	Work:  "WORK",
	Break: "BREAK",
	Lunch: "LUNCH",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// CyclesBeforeLunch is the work count that leads into lunch instead of a break.
const CyclesBeforeLunch = 4

// Time units. A state's limit is a fixed number of units.
const (
	UnitProduction = time.Minute
	UnitFast       = time.Second
)

var limitUnits = map[Kind]int{
	Work:  25,
	Break: 5,
	Lunch: 30,
}

// State is a position in the cycle. Count is the 1-based work counter.
type State struct {
	Kind  Kind
	Count int
}

func Initial() State {
	return State{Kind: Work, Count: 1}
}

// Next advances one step: Work(4)→Lunch(4), Work(n)→Break(n),
// Break(n)→Work(n+1), Lunch→Work(1).
func (s State) Next() State {
	switch s.Kind {
	case Work:
		if s.Count == CyclesBeforeLunch {
			return State{Kind: Lunch, Count: s.Count}
		}
		return State{Kind: Break, Count: s.Count}
	case Break:
		return State{Kind: Work, Count: s.Count + 1}
	default:
		return Initial()
	}
}

// Prev is the inverse of Next.
func (s State) Prev() State {
	switch s.Kind {
	case Work:
		if s.Count == 1 {
			return State{Kind: Lunch, Count: CyclesBeforeLunch}
		}
		return State{Kind: Break, Count: s.Count - 1}
	case Break:
		return State{Kind: Work, Count: s.Count}
	default:
		return State{Kind: Work, Count: CyclesBeforeLunch}
	}
}

// Limit is the state's duration for the given time unit.
func (s State) Limit(unit time.Duration) time.Duration {
	return time.Duration(limitUnits[s.Kind]) * unit
}

// Name is the display name, e.g. "WORK_2", "BREAK", "LUNCH".
func (s State) Name() string {
	if s.Kind == Work {
		return fmt.Sprintf("WORK_%d", s.Count)
	}
	return s.Kind.String()
}

func (s State) String() string {
	return fmt.Sprintf("%s(%d)", s.Kind, s.Count)
}

// MarshalJSON writes the externally tagged form {"WORK":2}.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]int{s.Kind.String(): s.Count})
}

func (s *State) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode state: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("decode state: want exactly one variant, got %d", len(raw))
	}
	for name, count := range raw {
		kind, err := ParseKind(name)
		if err != nil {
			return err
		}
		*s = State{Kind: kind, Count: count}
	}
	return nil
}

func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown state %q", name)
}

// Encode returns the compact text form used by the SQL stores, e.g. "WORK:2".
func (s State) Encode() string {
	return fmt.Sprintf("%s:%d", s.Kind, s.Count)
}

func Decode(text string) (State, error) {
	name, num, ok := strings.Cut(text, ":")
	if !ok {
		return State{}, fmt.Errorf("decode state %q: missing count", text)
	}
	count, err := strconv.Atoi(num)
	if err != nil {
		return State{}, fmt.Errorf("decode state %q: %w", text, err)
	}
	kind, err := ParseKind(name)
	if err != nil {
		return State{}, err
	}
	return State{Kind: kind, Count: count}, nil
}
