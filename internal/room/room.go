// Package room runs one single-player battle: the stage timeline, NPC
// spawning and retirement, the pause cascade, and the per-frame tick that
// drives every registered actor.
//
// A Room is owned by one goroutine. Advance is the only per-frame entry
// point; every other method is expected to be called from the same
// goroutine between frames or from inside actor callbacks.
package room

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mpsoul/arena/internal/core/event"
	coresys "github.com/mpsoul/arena/internal/core/system"
	"github.com/mpsoul/arena/internal/data"
	"github.com/mpsoul/arena/internal/geom"
	"github.com/mpsoul/arena/internal/spawn"
	"github.com/mpsoul/arena/internal/world"
	"go.uber.org/zap"
)

// ErrStageNotFound is returned when the catalog has no entry for a stage id.
var ErrStageNotFound = errors.New("stage not found")

// Catalog is the immutable config snapshot the room reads stages and NPC
// definitions from.
type Catalog interface {
	Stage(stageID int) (*data.StageInfo, bool)
	NpcPrefab(npcID int) (string, bool)
	NpcAttributes(npcID int) (data.NpcAttributes, bool)
}

// NpcPool supplies NPC instances by spawn key.
type NpcPool interface {
	Preload(key string, npcID int, prefab string, count int)
	Acquire(key string, pos geom.Vec3) (world.NPC, bool)
	Release(key string, npc world.NPC)
}

// Notifier receives battle-level announcements for the presentation layer.
type Notifier interface {
	OnBattleFinished(res Result)
	OnEnemyCountChanged(delta int)
}

// Stats are per-run counters reported with the result.
type Stats struct {
	Spawned int
	Killed  int
	Dropped int // spawns lost to pool exhaustion or instantiation failure
}

// Result describes a finished battle.
type Result struct {
	RunID   uuid.UUID
	StageID int
	Win     bool
	Elapsed time.Duration
	Stats   Stats
}

// Config holds tunables that do not come from the stage catalog.
type Config struct {
	EnemyPoolKey   string // base for per-npc pool keys
	FallbackPrefab string // prefab for npc ids without one; empty disables
	Seed           int64  // spawn jitter seed; 0 picks a time-based seed
}

// Deps are the collaborators a room talks to. Catalog is required; Pool and
// Instantiate are alternatives (Instantiate is used when Pool is nil).
type Deps struct {
	Catalog     Catalog
	Player      world.Player
	Pool        NpcPool
	Instantiate func(prefab string) (world.NPC, error)
	HUDs        world.HUDSource
	Notifier    Notifier
	Log         *zap.Logger
}

// Room is the battle session controller.
type Room struct {
	catalog     Catalog
	player      world.Player
	pool        NpcPool
	instantiate func(prefab string) (world.NPC, error)
	notifier    Notifier
	log         *zap.Logger

	registry    *world.Registry
	projectiles *world.Projectiles
	resolver    *spawn.Resolver
	bus         *event.Bus
	runner      *coresys.Runner

	stageID  int
	stage    *data.StageInfo
	timeline *spawn.Timeline

	state       State
	paused      bool
	currentTime time.Duration
	lastSecond  int
	traversing  bool
	leaving     map[world.Actor]struct{}

	aliveEnemies int
	npcCounter   int
	stats        Stats
	runID        uuid.UUID
	playerSpawn  geom.Transform
}

// New creates a room in the NotStarted state. Call InitializeStage before StartBattle.
func New(cfg Config, deps Deps) *Room {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := &Room{
		catalog:     deps.Catalog,
		player:      deps.Player,
		pool:        deps.Pool,
		instantiate: deps.Instantiate,
		notifier:    notifier,
		log:         log,
		registry:    world.NewRegistry(deps.HUDs, log),
		projectiles: world.NewProjectiles(),
		resolver:    spawn.NewResolver(deps.Catalog, cfg.EnemyPoolKey, cfg.FallbackPrefab, rand.New(rand.NewSource(seed))),
		bus:         event.NewBus(),
		runner:      coresys.NewRunner(),
		timeline:    spawn.BuildTimeline(nil),
		lastSecond:  -1,
		leaving:     make(map[world.Actor]struct{}),
	}
	event.Subscribe(r.bus, func(e event.EnemyDied) { r.handleEnemyDead(e.Npc) })
	event.Subscribe(r.bus, func(e event.ActorUnregistered) {
		delete(r.leaving, e.Actor)
		r.registry.Unregister(e.Actor)
	})
	r.runner.Register(timelineSystem{r})
	r.runner.Register(actorSystem{r})
	r.runner.Register(resolveSystem{r})
	return r
}

// OnSecondTick registers fn to be told about every processed second. Calls
// are delivered at the end of the frame that processed the second.
func (r *Room) OnSecondTick(fn func(second int)) {
	event.Subscribe(r.bus, func(e event.SecondReached) { fn(e.Second) })
}

func (r *Room) State() State { return r.state }
func (r *Room) IsPaused() bool { return r.paused }
func (r *Room) CurrentTime() time.Duration { return r.currentTime }
func (r *Room) LastProcessedSecond() int { return r.lastSecond }
func (r *Room) AliveEnemyCount() int { return r.aliveEnemies }
func (r *Room) Stats() Stats { return r.stats }
func (r *Room) StageID() int { return r.stageID }
func (r *Room) IsLevelRunning() bool { return r.state == StateRunning }
func (r *Room) IsLevelOver() bool { return r.state == StateFinished }
func (r *Room) Player() world.Player { return r.player }
func (r *Room) Actors() []world.Actor { return r.registry.Actors() }
func (r *Room) Npcs() []world.NPC { return r.registry.Npcs() }
func (r *Room) Projectiles() int { return r.projectiles.Len() }

// HUD returns the HUD bound to a, if any.
func (r *Room) HUD(a world.Actor) (world.HUD, bool) { return r.registry.HUD(a) }

// StageDuration returns the configured stage length, or 0 before InitializeStage.
func (r *Room) StageDuration() time.Duration {
	if r.stage == nil {
		return 0
	}
	return time.Duration(r.stage.Duration) * time.Second
}

// Timeline returns the wave table built for the current stage.
func (r *Room) Timeline() *spawn.Timeline { return r.timeline }

// PoolKey returns the spawn key used for npcID.
func (r *Room) PoolKey(npcID int) string { return r.resolver.PoolKey(npcID) }

// RegisterActor adds a to the tick list and binds a HUD. Already registered
// actors are ignored.
func (r *Room) RegisterActor(a world.Actor) {
	if r.registry.Register(a) && r.paused {
		a.SetHurtPaused(true)
	}
}

// UnregisterActor removes a from the tick list and releases its HUD. Safe to
// call for actors that were never registered. During the actor pass the
// removal waits until the pass is over and a is not ticked again.
func (r *Room) UnregisterActor(a world.Actor) {
	if a == nil {
		return
	}
	if r.traversing {
		if _, queued := r.leaving[a]; !queued && r.registry.Contains(a) {
			r.leaving[a] = struct{}{}
			event.Emit(r.bus, event.ActorUnregistered{Actor: a})
		}
		return
	}
	r.registry.Unregister(a)
}

// AddProjectile tracks p so it freezes with the world and is cleared on restart.
func (r *Room) AddProjectile(p world.Projectile) { r.projectiles.Add(p) }

// RemoveProjectile stops tracking p.
func (r *Room) RemoveProjectile(p world.Projectile) { r.projectiles.Remove(p) }

type nopNotifier struct{}

func (nopNotifier) OnBattleFinished(Result) {}
func (nopNotifier) OnEnemyCountChanged(int) {}
