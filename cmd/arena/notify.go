package main

import (
	"time"

	"github.com/mpsoul/arena/internal/persist"
	"github.com/mpsoul/arena/internal/room"
	"github.com/mpsoul/arena/internal/world"
	"go.uber.org/zap"
)

// recorder holds the finished battle until run flushes it to the result
// store on exit. A SIGHUP restart only reaches a battle that is still running,
// so at most one entry is pending.
type recorder struct {
	log     *zap.Logger
	alive   int
	pending []persist.BattleResult
}

func (r *recorder) OnBattleFinished(res room.Result) {
	r.pending = append(r.pending, persist.BattleResult{
		RunID:      res.RunID,
		StageID:    res.StageID,
		Win:        res.Win,
		Elapsed:    res.Elapsed,
		Spawned:    res.Stats.Spawned,
		Killed:     res.Stats.Killed,
		Dropped:    res.Stats.Dropped,
		FinishedAt: time.Now().UTC(),
	})
}

func (r *recorder) OnEnemyCountChanged(delta int) {
	r.alive += delta
	r.log.Debug("enemy count", zap.Int("delta", delta), zap.Int("alive", r.alive))
}

func (r *recorder) drain() []persist.BattleResult {
	out := r.pending
	r.pending = nil
	return out
}

// overheadHUD is the headless stand-in for an actor's health bar.
type overheadHUD struct {
	target world.Actor
	label  string
}

func (h *overheadHUD) Bind(a world.Actor) { h.target = a }
func (h *overheadHUD) SetLabel(label string) { h.label = label }
func (h *overheadHUD) Unbind() { h.target, h.label = nil, "" }
