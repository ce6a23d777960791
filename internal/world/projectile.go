package world

import "slices"

// Projectiles tracks every in-flight projectile so the pause cascade and
// restart can reach them without a global list.
type Projectiles struct {
	live   []Projectile
	paused bool
}

func NewProjectiles() *Projectiles {
	return &Projectiles{live: make([]Projectile, 0, 64)}
}

// Add tracks p. A projectile fired while the world is paused starts paused.
func (ps *Projectiles) Add(p Projectile) {
	if p == nil || slices.Contains(ps.live, p) {
		return
	}
	ps.live = append(ps.live, p)
	if ps.paused {
		p.SetPaused(true)
	}
}

// Remove stops tracking p (it expired or hit something).
func (ps *Projectiles) Remove(p Projectile) {
	if i := slices.Index(ps.live, p); i >= 0 {
		ps.live = slices.Delete(ps.live, i, i+1)
	}
}

func (ps *Projectiles) Len() int { return len(ps.live) }

// SetPausedAll forwards the pause signal to every live projectile.
func (ps *Projectiles) SetPausedAll(paused bool) {
	ps.paused = paused
	for _, p := range ps.live {
		p.SetPaused(paused)
	}
}

// Clear recycles and forgets all live projectiles.
func (ps *Projectiles) Clear() {
	live := ps.live
	ps.live = make([]Projectile, 0, cap(live))
	for _, p := range live {
		p.Recycle()
	}
}
