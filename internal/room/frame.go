package room

import (
	"fmt"
	"time"

	"github.com/mpsoul/arena/internal/core/event"
	coresys "github.com/mpsoul/arena/internal/core/system"
	"github.com/mpsoul/arena/internal/world"
	"go.uber.org/zap"
)

// Advance runs one frame of dt. Nothing happens unless the battle is
// running and the pause flag is clear.
func (r *Room) Advance(dt time.Duration) {
	if r.state != StateRunning || r.paused || dt < 0 {
		return
	}
	r.runner.Tick(dt)
}

// timelineSystem advances the stage clock and fires due waves.
type timelineSystem struct{ r *Room }

func (timelineSystem) Phase() coresys.Phase { return coresys.PhaseTimeline }

func (s timelineSystem) Update(dt time.Duration) { s.r.tickLevel(dt) }

// actorSystem ticks every live registered actor.
type actorSystem struct{ r *Room }

func (actorSystem) Phase() coresys.Phase { return coresys.PhaseActors }

func (s actorSystem) Update(dt time.Duration) {
	if s.r.state == StateRunning {
		s.r.tickActors(dt)
	}
}

// resolveSystem applies deaths reported during the actor pass and checks
// for a player that died without reporting it.
type resolveSystem struct{ r *Room }

func (resolveSystem) Phase() coresys.Phase { return coresys.PhaseResolve }

func (s resolveSystem) Update(time.Duration) {
	r := s.r
	r.bus.Drain()
	if r.state == StateRunning && r.player != nil && r.player.IsDead() {
		r.OnPlayerDead()
	}
}

// tickLevel processes every whole second between the last processed one and
// the current clock exactly once, in increasing order.
func (r *Room) tickLevel(dt time.Duration) {
	if r.stage == nil {
		return
	}
	r.currentTime += dt
	second := int(r.currentTime / time.Second)
	for s := r.lastSecond + 1; s <= second; s++ {
		if s > r.stage.Duration {
			if r.playerAlive() {
				r.finish(true)
			}
			return
		}
		r.onSecond(s)
		r.lastSecond = s
		if r.state != StateRunning {
			return
		}
		if s >= r.stage.Duration && r.playerAlive() {
			r.finish(true)
			return
		}
	}
}

func (r *Room) onSecond(s int) {
	waves := r.timeline.Bucket(s)
	if len(waves) > 0 {
		r.log.Debug("second reached", zap.Int("second", s), zap.Int("waves", len(waves)))
	}
	for _, w := range waves {
		r.spawnWave(w)
	}
	event.Emit(r.bus, event.SecondReached{Second: s})
}

func (r *Room) playerAlive() bool {
	return r.player != nil && !r.player.IsDead()
}

// tickActors walks the registry from the back so an actor can unregister
// itself mid-tick without disturbing the ones not yet visited.
func (r *Room) tickActors(dt time.Duration) {
	r.traversing = true
	defer func() { r.traversing = false }()

	for i := r.registry.Len() - 1; i >= 0; i-- {
		if r.state != StateRunning {
			return
		}
		if i >= r.registry.Len() {
			continue
		}
		a := r.registry.At(i)
		if _, gone := r.leaving[a]; gone || a.IsDead() {
			continue
		}
		if err := tickActor(a, dt); err != nil {
			r.log.Error("actor tick failed", zap.String("actor", a.ID()), zap.Error(err))
		}
	}
}

func tickActor(a world.Actor, dt time.Duration) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	a.AdvanceBuffs(dt)
	return a.AdvanceActor(dt)
}
