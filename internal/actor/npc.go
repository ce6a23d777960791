package actor

import (
	"time"

	"github.com/mpsoul/arena/internal/data"
	"github.com/mpsoul/arena/internal/geom"
	"github.com/mpsoul/arena/internal/scripting"
	"github.com/mpsoul/arena/internal/world"
)

// Brain decides what an NPC does each tick. *scripting.Engine satisfies it.
type Brain interface {
	NpcThink(ctx scripting.NpcContext) scripting.NpcDecision
	NpcDamage(npcID, base int) int
}

// Npc is a pooled enemy that chases and hits the host's player.
type Npc struct {
	combatant
	npcID   int
	uid     string
	prefab  string
	poolKey string
	attrs   data.NpcAttributes
	paused  bool
	canMove bool
	host    world.Host
	brain   Brain
}

// NewNpc creates an NPC instance for prefab. brain may be nil.
func NewNpc(npcID int, prefab string, brain Brain) *Npc {
	n := &Npc{npcID: npcID, prefab: prefab, brain: brain, canMove: true}
	n.ApplyAttributes(data.DefaultNpcAttributes())
	return n
}

func (n *Npc) ID() string { return n.uid }
func (n *Npc) NpcID() int { return n.npcID }
func (n *Npc) Prefab() string { return n.prefab }
func (n *Npc) SetUniqueID(id string) { n.uid = id }
func (n *Npc) SetPoolKey(key string) { n.poolKey = key }
func (n *Npc) PoolKey() string { return n.poolKey }
func (n *Npc) SetPosition(p geom.Vec3) { n.pos = p }
func (n *Npc) SetPaused(p bool) { n.paused = p }
func (n *Npc) Paused() bool { return n.paused }
func (n *Npc) SetMovementEnabled(v bool) { n.canMove = v }
func (n *Npc) Attach(h world.Host) { n.host = h }
func (n *Npc) Attributes() data.NpcAttributes { return n.attrs }

// ApplyAttributes installs attrs and restores full health. Pooled instances
// come back through here on every spawn.
func (n *Npc) ApplyAttributes(attrs data.NpcAttributes) {
	n.attrs = attrs
	n.reset(attrs.MaxHP)
}

// TakeDamage hits the NPC and reports a death to the host once.
func (n *Npc) TakeDamage(amount int, _ world.Actor) bool {
	if !n.damage(amount) {
		return false
	}
	if n.host != nil {
		n.host.OnEnemyDead(n)
	}
	return true
}

// AdvanceActor thinks, moves and attacks for one frame.
func (n *Npc) AdvanceActor(dt time.Duration) error {
	if n.dead || n.paused {
		return nil
	}
	n.advanceTimers(dt)
	if n.host == nil {
		return nil
	}
	p := n.host.Player()
	if p == nil || p.IsDead() {
		return nil
	}

	target := p.Position()
	dist := target.Sub(n.pos).PlanarLen()
	ctx := scripting.NpcContext{
		NpcID:       n.npcID,
		UID:         n.uid,
		HP:          n.hp,
		MaxHP:       n.maxHP,
		X:           n.pos.X,
		Z:           n.pos.Z,
		TargetX:     target.X,
		TargetZ:     target.Z,
		TargetDist:  dist,
		AttackRange: n.attrs.AttackRange + reach,
		SearchRange: n.attrs.SearchRange,
		MoveSpeed:   n.attrs.MoveSpeed,
		CanAttack:   n.cooldown == 0,
		CanMove:     n.canMove,
	}
	var d scripting.NpcDecision
	if n.brain != nil {
		d = n.brain.NpcThink(ctx)
	} else {
		d = scripting.DefaultDecision(ctx)
	}

	if d.Attack && n.cooldown == 0 && dist <= n.attrs.AttackRange+reach {
		dmg := n.attrs.AttackDamage
		if n.brain != nil {
			dmg = n.brain.NpcDamage(n.npcID, dmg)
		}
		if t, ok := p.(Damageable); ok {
			t.TakeDamage(dmg, n)
		}
		n.cooldown = time.Duration(n.attrs.AttackInterval * float64(time.Second))
	}
	if n.canMove {
		limit := 0.0
		if dist > n.attrs.AttackRange {
			limit = dist - n.attrs.AttackRange
		}
		n.step(geom.Vec3{X: d.MoveX, Z: d.MoveZ}, n.attrs.MoveSpeed, dt, limit)
	}
	return nil
}
