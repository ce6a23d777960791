package world

import (
	"time"

	"github.com/mpsoul/arena/internal/data"
	"github.com/mpsoul/arena/internal/geom"
)

// Actor is a combatant ticked by the room. Implementations are owned by the
// behavior layer; the room keeps a non-owning reference.
type Actor interface {
	ID() string
	IsDead() bool
	Position() geom.Vec3
	AdvanceBuffs(dt time.Duration)
	AdvanceActor(dt time.Duration) error
	SetHurtPaused(paused bool)
}

// Buff is a timed movement modifier. A buff with the same name replaces the
// one already applied.
type Buff struct {
	Name      string
	Remaining time.Duration
	SpeedMul  float64
}

// Buffable actors accept buffs from outside their own logic.
type Buffable interface {
	AddBuff(b Buff)
}

// Player is the single local combatant.
type Player interface {
	Actor
	Transform() geom.Transform
	SetTransform(t geom.Transform)
	// ResetForRestart restores health, buffs, and movement state.
	ResetForRestart()
	Attach(h Host)
}

// NPC is a pooled, room-spawned combatant.
type NPC interface {
	Actor
	SetPaused(paused bool)
	SetMovementEnabled(enabled bool)
	SetUniqueID(id string)
	ApplyAttributes(attrs data.NpcAttributes)
	SetPoolKey(key string)
	PoolKey() string
	SetPosition(p geom.Vec3)
	Attach(h Host)
}

// HUD is a pooled overhead display bound to one actor.
type HUD interface {
	Bind(a Actor)
	SetLabel(label string)
	Unbind()
}

// Projectile is an in-flight shot that must freeze with the world.
type Projectile interface {
	SetPaused(paused bool)
	// Recycle returns the projectile to wherever it came from.
	Recycle()
}

// Host is the callback surface actors use to announce state changes to the
// room that spawned them.
type Host interface {
	OnEnemyDead(npc NPC)
	OnPlayerDead()
	Player() Player
}
