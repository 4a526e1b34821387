// Package schedule maps instrument dates onto lattice steps.
package schedule

import (
	"fmt"
	"time"

	"github.com/meenmo/hwtree/lattice"
	"github.com/meenmo/hwtree/utils"
)

// Point is a schedule entry: a lattice step and, when known, the calendar date it came from.
type Point struct {
	Date time.Time
	Step int
}

// Schedule is a strictly increasing list of lattice steps.
type Schedule []Point

// FromSteps builds an undated schedule.
func FromSteps(steps ...int) Schedule {
	s := make(Schedule, len(steps))
	for i, step := range steps {
		s[i] = Point{Step: step}
	}
	return s
}

// Validate reports ErrScheduleMismatch for an empty schedule, negative steps or steps that are
// not strictly increasing.
func (s Schedule) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("empty schedule: %w", lattice.ErrScheduleMismatch)
	}
	for i, p := range s {
		if p.Step < 0 {
			return fmt.Errorf("negative step %d at position %d: %w", p.Step, i, lattice.ErrScheduleMismatch)
		}
		if i > 0 && p.Step <= s[i-1].Step {
			return fmt.Errorf("step %d at position %d does not follow %d: %w", p.Step, i, s[i-1].Step, lattice.ErrScheduleMismatch)
		}
	}
	return nil
}

// CheckHorizon reports ErrScheduleMismatch when a step lies beyond n.
func (s Schedule) CheckHorizon(n int) error {
	if len(s) > 0 && s.Last().Step > n {
		return fmt.Errorf("step %d beyond lattice horizon %d: %w", s.Last().Step, n, lattice.ErrScheduleMismatch)
	}
	return nil
}

// Steps returns the lattice steps in order.
func (s Schedule) Steps() []int {
	out := make([]int, len(s))
	for i, p := range s {
		out[i] = p.Step
	}
	return out
}

// Last is the final point. It panics on an empty schedule.
func (s Schedule) Last() Point {
	return s[len(s)-1]
}

// Index returns the position of step, or -1.
func (s Schedule) Index(step int) int {
	for i, p := range s {
		if p.Step == step {
			return i
		}
		if p.Step > step {
			break
		}
	}
	return -1
}

// Contains reports whether step is in the schedule.
func (s Schedule) Contains(step int) bool {
	return s.Index(step) >= 0
}

// Before returns the last point strictly before step and whether there is one.
func (s Schedule) Before(step int) (Point, bool) {
	var prev Point
	found := false
	for _, p := range s {
		if p.Step >= step {
			break
		}
		prev, found = p, true
	}
	return prev, found
}

// Dated reports whether every point carries a date.
func (s Schedule) Dated() bool {
	for _, p := range s {
		if p.Date.IsZero() {
			return false
		}
	}
	return len(s) > 0
}

func (s Schedule) String() string {
	out := "["
	for i, p := range s {
		if i > 0 {
			out += " "
		}
		if p.Date.IsZero() {
			out += fmt.Sprintf("%d", p.Step)
		} else {
			out += fmt.Sprintf("%d@%s", p.Step, p.Date.Format(utils.DateLayout))
		}
	}
	return out + "]"
}
