package room

import (
	"fmt"

	"github.com/mpsoul/arena/internal/core/event"
	"github.com/mpsoul/arena/internal/data"
	"github.com/mpsoul/arena/internal/geom"
	"github.com/mpsoul/arena/internal/spawn"
	"github.com/mpsoul/arena/internal/world"
	"go.uber.org/zap"
)

func (r *Room) spawnWave(w data.WaveDirective) {
	prefab, ok := r.resolver.Prefab(w.NpcID)
	if !ok {
		r.log.Warn("wave skipped: no prefab", zap.Int("npc", w.NpcID), zap.Int("time", w.Time))
		return
	}
	key := r.resolver.PoolKey(w.NpcID)
	attrs := r.attributes(w.NpcID)
	base := spawn.BasePosition(w, r.stage.SpawnPoints)
	for i := 0; i < w.Count; i++ {
		pos := r.resolver.Position(base, w, i, r.stage.SpawnPoints)
		r.spawnOne(w.NpcID, prefab, key, attrs, pos, true)
	}
}

// SpawnEnemies places count NPCs of npcID around the player, or across the
// stage spawn points when the player stands at the origin. It is the debug
// spawn path and works in any state.
func (r *Room) SpawnEnemies(npcID, count int, disableMovement bool) []world.NPC {
	prefab, ok := r.resolver.Prefab(npcID)
	if !ok {
		r.log.Warn("spawn skipped: no prefab", zap.Int("npc", npcID))
		return nil
	}
	key := r.resolver.PoolKey(npcID)
	if r.pool != nil {
		r.pool.Preload(key, npcID, prefab, 0)
	}
	attrs := r.attributes(npcID)
	var origin geom.Vec3
	if r.player != nil {
		origin = r.player.Position()
	}
	var points []geom.Vec3
	if r.stage != nil {
		points = r.stage.SpawnPoints
	}
	w := data.WaveDirective{NpcID: npcID, Count: count, SpawnPointIndex: -1}
	out := make([]world.NPC, 0, max(0, count))
	for i := 0; i < count; i++ {
		pos := r.resolver.Position(origin, w, i, points)
		if npc := r.spawnOne(npcID, prefab, key, attrs, pos, !disableMovement); npc != nil {
			out = append(out, npc)
		}
	}
	return out
}

// BuffPlayer applies b to the player. It reports false when the player
// cannot take buffs.
func (r *Room) BuffPlayer(b world.Buff) bool {
	target, ok := r.player.(world.Buffable)
	if !ok {
		r.log.Warn("buff ignored: player takes no buffs", zap.String("buff", b.Name))
		return false
	}
	target.AddBuff(b)
	r.log.Debug("player buffed", zap.String("buff", b.Name), zap.Duration("for", b.Remaining))
	return true
}

// BuffAllNpcs applies b to every living NPC and returns how many took it.
func (r *Room) BuffAllNpcs(b world.Buff) int {
	n := 0
	for _, npc := range r.registry.Npcs() {
		target, ok := npc.(world.Buffable)
		if !ok || npc.IsDead() {
			continue
		}
		target.AddBuff(b)
		n++
	}
	r.log.Debug("npcs buffed", zap.String("buff", b.Name), zap.Int("count", n))
	return n
}

// ResetPlayer restores the player's health, buffs and timers in place
// without touching the clock or the NPCs.
func (r *Room) ResetPlayer() {
	if r.player == nil {
		return
	}
	r.player.ResetForRestart()
	r.log.Debug("player reset")
}

func (r *Room) attributes(npcID int) data.NpcAttributes {
	if attrs, ok := r.catalog.NpcAttributes(npcID); ok {
		return attrs
	}
	return data.DefaultNpcAttributes()
}

func (r *Room) spawnOne(npcID int, prefab, key string, attrs data.NpcAttributes, pos geom.Vec3, canMove bool) world.NPC {
	var npc world.NPC
	switch {
	case r.pool != nil:
		npc, _ = r.pool.Acquire(key, pos)
	case r.instantiate != nil:
		n, err := r.instantiate(prefab)
		if err != nil {
			r.log.Warn("instantiate failed", zap.String("prefab", prefab), zap.Error(err))
		}
		npc = n
	}
	if npc == nil {
		r.stats.Dropped++
		r.log.Warn("failed to spawn enemy", zap.Int("npc", npcID), zap.String("key", key))
		return nil
	}

	r.npcCounter++
	npc.SetUniqueID(fmt.Sprintf("NPC-%d", r.npcCounter))
	npc.SetPoolKey(key)
	npc.ApplyAttributes(attrs)
	npc.SetPosition(pos)
	npc.SetMovementEnabled(canMove)
	npc.Attach(r)

	r.OnEnemySpawned(npc)
	r.registry.Register(npc)
	r.registry.AddNpc(npc)
	if r.paused {
		npc.SetPaused(true)
		npc.SetHurtPaused(true)
	}
	return npc
}

// OnEnemySpawned counts a newly placed NPC.
func (r *Room) OnEnemySpawned(world.NPC) {
	r.stats.Spawned++
	r.setAlive(r.aliveEnemies + 1)
}

// OnEnemyDead retires npc. While actors are being ticked the removal is
// queued and applied once the actor pass is over. Reports for NPCs that are
// already retired are ignored.
func (r *Room) OnEnemyDead(npc world.NPC) {
	if npc == nil {
		return
	}
	if r.traversing {
		event.Emit(r.bus, event.EnemyDied{Npc: npc})
		return
	}
	r.handleEnemyDead(npc)
}

func (r *Room) handleEnemyDead(npc world.NPC) {
	if !r.registry.HasNpc(npc) {
		r.log.Debug("enemy death ignored: not spawned", zap.String("npc", npc.ID()))
		return
	}
	r.stats.Killed++
	r.setAlive(max(0, r.aliveEnemies-1))
	r.despawn(npc)
	r.log.Debug("enemy died", zap.String("npc", npc.ID()), zap.Int("alive", r.aliveEnemies))
}

func (r *Room) despawn(npc world.NPC) {
	r.registry.Unregister(npc)
	r.registry.RemoveNpc(npc)
	key := npc.PoolKey()
	if key == "" {
		key = r.resolver.BaseKey()
	}
	if r.pool != nil {
		r.pool.Release(key, npc)
	}
}

func (r *Room) despawnAll() {
	for _, n := range r.registry.Npcs() {
		r.despawn(n)
	}
}

func (r *Room) setAlive(n int) {
	delta := n - r.aliveEnemies
	r.aliveEnemies = n
	if delta != 0 {
		r.notifier.OnEnemyCountChanged(delta)
	}
}
