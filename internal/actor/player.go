package actor

import (
	"time"

	"github.com/mpsoul/arena/internal/geom"
	"github.com/mpsoul/arena/internal/world"
)

// PlayerStats are the player's combat numbers.
type PlayerStats struct {
	MaxHP          int
	AttackDamage   int
	AttackInterval time.Duration
	AttackRange    float64
	MoveSpeed      float64
}

func DefaultPlayerStats() PlayerStats {
	return PlayerStats{
		MaxHP:          200,
		AttackDamage:   15,
		AttackInterval: 600 * time.Millisecond,
		AttackRange:    1.8,
		MoveSpeed:      4.5,
	}
}

// Player auto-battles: it walks to the nearest live enemy and hits it
// whenever its attack is off cooldown.
type Player struct {
	combatant
	id      string
	yaw     float64
	stats   PlayerStats
	host    world.Host
	targets func() []world.NPC
}

// NewPlayer creates a player at spawn. targets lists the enemies it may
// attack; nil makes it passive.
func NewPlayer(id string, stats PlayerStats, spawn geom.Transform, targets func() []world.NPC) *Player {
	p := &Player{id: id, stats: stats, targets: targets}
	p.SetTransform(spawn)
	p.reset(stats.MaxHP)
	return p
}

func (p *Player) ID() string { return p.id }
func (p *Player) Attach(h world.Host) { p.host = h }

func (p *Player) Transform() geom.Transform {
	return geom.Transform{Position: p.pos, Yaw: p.yaw}
}

func (p *Player) SetTransform(t geom.Transform) {
	p.pos = t.Position
	p.yaw = t.Yaw
}

// ResetForRestart restores health, buffs and cooldowns.
func (p *Player) ResetForRestart() {
	p.reset(p.stats.MaxHP)
}

// TakeDamage hits the player and reports death to the host once.
func (p *Player) TakeDamage(amount int, _ world.Actor) bool {
	if !p.damage(amount) {
		return false
	}
	if p.host != nil {
		p.host.OnPlayerDead()
	}
	return true
}

func (p *Player) AdvanceActor(dt time.Duration) error {
	if p.dead {
		return nil
	}
	p.advanceTimers(dt)
	if p.targets == nil {
		return nil
	}

	target, dist := p.nearest()
	if target == nil {
		return nil
	}
	if dist > p.stats.AttackRange+reach {
		p.step(target.Position().Sub(p.pos), p.stats.MoveSpeed, dt, dist-p.stats.AttackRange)
		return nil
	}
	if p.cooldown == 0 {
		if t, ok := target.(Damageable); ok {
			t.TakeDamage(p.stats.AttackDamage, p)
		}
		p.cooldown = p.stats.AttackInterval
	}
	return nil
}

func (p *Player) nearest() (world.NPC, float64) {
	var best world.NPC
	bestDist := 0.0
	for _, n := range p.targets() {
		if n.IsDead() {
			continue
		}
		d := n.Position().Sub(p.pos).PlanarLen()
		if best == nil || d < bestDist {
			best, bestDist = n, d
		}
	}
	return best, bestDist
}
