package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseTimeline Phase = iota // 0: advance clock, fire second buckets
	PhaseActors                // 1: buffs + per-actor logic
	PhaseResolve               // 2: drain death notifications, terminal checks
)

func (p Phase) String() string {
	switch p {
	case PhaseTimeline:
		return "timeline"
	case PhaseActors:
		return "actors"
	case PhaseResolve:
		return "resolve"
	}
	return "unknown"
}

// System is the interface every per-frame system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
