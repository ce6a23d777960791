package room

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the battle lifecycle. Pausing is tracked separately so the
// cascade can be driven without a lifecycle change (TogglePause).
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StatePaused
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// StartBattle arms the stage clock. Only legal from NotStarted with a stage
// loaded.
func (r *Room) StartBattle() {
	if r.stage == nil {
		r.log.Warn("start battle ignored: no stage initialized", zap.Int("stage", r.stageID))
		return
	}
	if r.state != StateNotStarted {
		r.log.Warn("start battle ignored", zap.Stringer("state", r.state))
		return
	}
	r.state = StateRunning
	if r.paused {
		r.setPaused(false)
	}
	r.beginTimeCounting()
	r.log.Info("battle started",
		zap.Int("stage", r.stageID),
		zap.Int("duration_s", r.stage.Duration),
		zap.Stringer("run", r.runID))
}

// PauseBattle freezes a running battle and everything in it.
func (r *Room) PauseBattle() {
	if r.state != StateRunning {
		r.log.Warn("pause ignored", zap.Stringer("state", r.state))
		return
	}
	r.state = StatePaused
	r.setPaused(true)
	r.log.Info("battle paused", zap.Duration("at", r.currentTime))
}

// ResumeBattle continues a paused battle.
func (r *Room) ResumeBattle() {
	if r.state != StatePaused {
		r.log.Warn("resume ignored", zap.Stringer("state", r.state))
		return
	}
	r.state = StateRunning
	r.setPaused(false)
	r.log.Info("battle resumed", zap.Duration("at", r.currentTime))
}

// TogglePause flips the pause cascade without touching the lifecycle state.
// While the flag is set Advance does nothing.
func (r *Room) TogglePause() {
	r.setPaused(!r.paused)
}

// EndLevel finishes a running battle and announces the result.
func (r *Room) EndLevel(win bool) {
	if r.state != StateRunning {
		r.log.Warn("end level ignored", zap.Stringer("state", r.state), zap.Bool("win", win))
		return
	}
	r.finish(win)
}

// OnPlayerDead ends a running battle as a loss. Later calls are ignored.
func (r *Room) OnPlayerDead() {
	if r.state != StateRunning {
		r.log.Debug("player death ignored", zap.Stringer("state", r.state))
		return
	}
	r.log.Info("player died", zap.Duration("at", r.currentTime))
	r.finish(false)
}

func (r *Room) finish(win bool) {
	r.state = StateFinished
	r.setPaused(true)
	res := Result{
		RunID:   r.runID,
		StageID: r.stageID,
		Win:     win,
		Elapsed: r.currentTime,
		Stats:   r.stats,
	}
	r.log.Info("battle finished",
		zap.Bool("win", win),
		zap.Duration("elapsed", res.Elapsed),
		zap.Int("spawned", res.Stats.Spawned),
		zap.Int("killed", res.Stats.Killed),
		zap.Stringer("run", res.RunID))
	r.notifier.OnBattleFinished(res)
}

// setPaused applies p to every NPC, projectile and actor hurt timer.
func (r *Room) setPaused(p bool) {
	r.paused = p
	for _, n := range r.registry.Npcs() {
		n.SetPaused(p)
	}
	r.projectiles.SetPausedAll(p)
	for _, a := range r.registry.Actors() {
		a.SetHurtPaused(p)
	}
	r.log.Debug("pause cascade", zap.Bool("paused", p), zap.Int("actors", r.registry.Len()))
}

func (r *Room) beginTimeCounting() {
	r.currentTime = 0
	r.lastSecond = -1
	r.stats = Stats{}
	r.runID = uuid.New()
}
