// Package actor holds the reference combatants the headless binary fights
// with: one auto-battling player and script-driven NPCs.
package actor

import (
	"time"

	"github.com/mpsoul/arena/internal/geom"
	"github.com/mpsoul/arena/internal/world"
)

// HurtFlash is how long an actor shows its hurt state after a hit.
const HurtFlash = 200 * time.Millisecond

// reach absorbs float error when an actor stops exactly at its attack range.
const reach = 1e-6

// Damageable is anything that can be hit.
type Damageable interface {
	TakeDamage(amount int, src world.Actor) bool
}

type Buff = world.Buff

// combatant is the health, hurt-flash and buff bookkeeping shared by
// players and NPCs.
type combatant struct {
	pos        geom.Vec3
	hp, maxHP  int
	dead       bool
	hurt       time.Duration
	hurtPaused bool
	buffs      []Buff
	cooldown   time.Duration
}

func (c *combatant) IsDead() bool { return c.dead }
func (c *combatant) Position() geom.Vec3 { return c.pos }
func (c *combatant) HP() int { return c.hp }
func (c *combatant) MaxHP() int { return c.maxHP }
func (c *combatant) Hurt() time.Duration { return c.hurt }
func (c *combatant) SetHurtPaused(p bool) { c.hurtPaused = p }
func (c *combatant) HurtPaused() bool { return c.hurtPaused }
func (c *combatant) Buffs() []Buff { return c.buffs }

// AddBuff applies b, replacing a buff with the same name.
func (c *combatant) AddBuff(b Buff) {
	for i := range c.buffs {
		if c.buffs[i].Name == b.Name {
			c.buffs[i] = b
			return
		}
	}
	c.buffs = append(c.buffs, b)
}

// AdvanceBuffs counts buff timers down and drops the expired ones.
func (c *combatant) AdvanceBuffs(dt time.Duration) {
	kept := c.buffs[:0]
	for _, b := range c.buffs {
		b.Remaining -= dt
		if b.Remaining > 0 {
			kept = append(kept, b)
		}
	}
	c.buffs = kept
}

func (c *combatant) speedMul() float64 {
	m := 1.0
	for _, b := range c.buffs {
		if b.SpeedMul > 0 {
			m *= b.SpeedMul
		}
	}
	return m
}

// advanceTimers runs the hurt flash and attack cooldown. The flash holds
// while hurt-paused.
func (c *combatant) advanceTimers(dt time.Duration) {
	if !c.hurtPaused && c.hurt > 0 {
		c.hurt = max(0, c.hurt-dt)
	}
	if c.cooldown > 0 {
		c.cooldown = max(0, c.cooldown-dt)
	}
}

// damage applies amount and reports whether this hit was the killing blow.
func (c *combatant) damage(amount int) bool {
	if c.dead || amount <= 0 {
		return false
	}
	c.hp -= amount
	c.hurt = HurtFlash
	if c.hp <= 0 {
		c.hp = 0
		c.dead = true
		return true
	}
	return false
}

func (c *combatant) reset(maxHP int) {
	c.maxHP = maxHP
	c.hp = maxHP
	c.dead = false
	c.hurt = 0
	c.cooldown = 0
	c.buffs = nil
}

// step moves toward dir by speed*dt, without overshooting limit when limit > 0.
func (c *combatant) step(dir geom.Vec3, speed float64, dt time.Duration, limit float64) {
	l := dir.PlanarLen()
	if l == 0 || speed <= 0 {
		return
	}
	dist := speed * c.speedMul() * dt.Seconds()
	if limit > 0 && dist > limit {
		dist = limit
	}
	dir.Y = 0
	c.pos = c.pos.Add(dir.Scale(dist / l))
}
