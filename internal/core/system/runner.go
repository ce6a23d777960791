package system

import (
	"slices"
	"time"
)

// Runner drives registered systems once per frame in phase order. Systems
// that share a phase run in the order they were registered.
type Runner struct {
	systems []System
}

func NewRunner() *Runner {
	return &Runner{systems: make([]System, 0, 4)}
}

// Register inserts s after every system whose phase is not later than its own.
func (r *Runner) Register(s System) {
	i, _ := slices.BinarySearchFunc(r.systems, s.Phase()+1, func(e System, p Phase) int {
		return int(e.Phase()) - int(p)
	})
	r.systems = slices.Insert(r.systems, i, s)
}

// Len returns the number of registered systems.
func (r *Runner) Len() int { return len(r.systems) }

// Tick runs one frame of dt through every system.
func (r *Runner) Tick(dt time.Duration) {
	for _, s := range r.systems {
		s.Update(dt)
	}
}
