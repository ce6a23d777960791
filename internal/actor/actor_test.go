package actor

import (
	"testing"
	"time"

	"github.com/mpsoul/arena/internal/data"
	"github.com/mpsoul/arena/internal/geom"
	"github.com/mpsoul/arena/internal/scripting"
	"github.com/mpsoul/arena/internal/world"
)

type host struct {
	player      world.Player
	enemyDeaths []world.NPC
	playerDeads int
}

func (h *host) OnEnemyDead(n world.NPC) { h.enemyDeaths = append(h.enemyDeaths, n) }
func (h *host) OnPlayerDead()           { h.playerDeads++ }
func (h *host) Player() world.Player    { return h.player }

type scriptedBrain struct {
	decision scripting.NpcDecision
	seen     scripting.NpcContext
}

func (b *scriptedBrain) NpcThink(ctx scripting.NpcContext) scripting.NpcDecision {
	b.seen = ctx
	return b.decision
}

func (b *scriptedBrain) NpcDamage(_, base int) int { return base + 1 }

var (
	_ world.Player = (*Player)(nil)
	_ world.NPC    = (*Npc)(nil)
)

func TestNpcChasesAndHitsPlayer(t *testing.T) {
	p := NewPlayer("hero", DefaultPlayerStats(), geom.Transform{}, nil)
	h := &host{player: p}
	p.Attach(h)

	n := NewNpc(7, "Slime", nil)
	n.Attach(h)
	n.SetPosition(geom.Vec3{X: 5})

	_ = n.AdvanceActor(time.Second)
	want := 5 - n.Attributes().MoveSpeed
	if got := n.Position().X; got != want {
		t.Fatalf("x = %v, want %v", got, want)
	}

	n.SetPosition(geom.Vec3{X: 1})
	_ = n.AdvanceActor(10 * time.Millisecond)
	if p.HP() != p.MaxHP()-n.Attributes().AttackDamage {
		t.Fatalf("player hp = %d", p.HP())
	}
	if n.Position().X != 1 {
		t.Fatal("npc inside attack range should not move")
	}

	hp := p.HP()
	_ = n.AdvanceActor(10 * time.Millisecond)
	if p.HP() != hp {
		t.Fatal("attack should respect the cooldown")
	}
}

func TestNpcStopsAtAttackRange(t *testing.T) {
	p := NewPlayer("hero", DefaultPlayerStats(), geom.Transform{}, nil)
	h := &host{player: p}
	n := NewNpc(7, "Slime", nil)
	n.Attach(h)
	n.SetPosition(geom.Vec3{Z: 2})
	_ = n.AdvanceActor(time.Second)
	if got := n.Position().Z; got != n.Attributes().AttackRange {
		t.Fatalf("z = %v, want %v", got, n.Attributes().AttackRange)
	}
}

func TestNpcUsesBrain(t *testing.T) {
	p := NewPlayer("hero", DefaultPlayerStats(), geom.Transform{}, nil)
	h := &host{player: p}
	b := &scriptedBrain{decision: scripting.NpcDecision{Attack: true}}
	n := NewNpc(9, "Orc", b)
	n.Attach(h)
	n.SetUniqueID("NPC-3")
	n.SetPosition(geom.Vec3{X: 1})

	_ = n.AdvanceActor(10 * time.Millisecond)
	if b.seen.UID != "NPC-3" || b.seen.NpcID != 9 || !b.seen.CanAttack {
		t.Fatalf("context = %+v", b.seen)
	}
	if p.HP() != p.MaxHP()-n.Attributes().AttackDamage-1 {
		t.Fatal("brain damage hook should apply")
	}
}

func TestNpcDeathReportsOnce(t *testing.T) {
	h := &host{}
	n := NewNpc(7, "Slime", nil)
	n.Attach(h)
	n.ApplyAttributes(data.NpcAttributes{MaxHP: 10})

	if n.TakeDamage(4, nil) || n.Hurt() != HurtFlash {
		t.Fatal("non-lethal hit should flash and not kill")
	}
	if !n.TakeDamage(20, nil) || !n.IsDead() {
		t.Fatal("lethal hit should kill")
	}
	n.TakeDamage(5, nil)
	if len(h.enemyDeaths) != 1 {
		t.Fatalf("deaths reported = %d, want 1", len(h.enemyDeaths))
	}

	n.ApplyAttributes(data.NpcAttributes{MaxHP: 12})
	if n.IsDead() || n.HP() != 12 {
		t.Fatal("re-applying attributes should revive a pooled npc")
	}
}

func TestHurtFlashHoldsWhileHurtPaused(t *testing.T) {
	n := NewNpc(7, "Slime", nil)
	n.TakeDamage(1, nil)
	n.SetHurtPaused(true)
	_ = n.AdvanceActor(100 * time.Millisecond)
	if n.Hurt() != HurtFlash {
		t.Fatal("hurt timer must not advance while hurt-paused")
	}
	n.SetHurtPaused(false)
	_ = n.AdvanceActor(50 * time.Millisecond)
	if n.Hurt() != HurtFlash-50*time.Millisecond {
		t.Fatalf("hurt = %v", n.Hurt())
	}
}

func TestBuffsExpireAndScaleSpeed(t *testing.T) {
	p := NewPlayer("hero", DefaultPlayerStats(), geom.Transform{}, nil)
	p.AddBuff(Buff{Name: "haste", Remaining: time.Second, SpeedMul: 2})
	p.AddBuff(Buff{Name: "slow", Remaining: 300 * time.Millisecond, SpeedMul: 0.5})
	p.AddBuff(Buff{Name: "haste", Remaining: 2 * time.Second, SpeedMul: 2})
	if len(p.Buffs()) != 2 || p.speedMul() != 1 {
		t.Fatalf("buffs = %+v", p.Buffs())
	}
	p.AdvanceBuffs(500 * time.Millisecond)
	if len(p.Buffs()) != 1 || p.speedMul() != 2 {
		t.Fatalf("after 500ms buffs = %+v", p.Buffs())
	}
	p.AdvanceBuffs(2 * time.Second)
	if len(p.Buffs()) != 0 {
		t.Fatal("all buffs should expire")
	}
}

func TestPlayerAutoBattles(t *testing.T) {
	n := NewNpc(7, "Slime", nil)
	n.ApplyAttributes(data.NpcAttributes{MaxHP: 15})
	n.SetPosition(geom.Vec3{X: 10})
	far := NewNpc(7, "Slime", nil)
	far.SetPosition(geom.Vec3{X: 50})

	p := NewPlayer("hero", DefaultPlayerStats(), geom.Transform{}, func() []world.NPC {
		return []world.NPC{far, n}
	})
	h := &host{player: p}
	n.Attach(h)
	p.Attach(h)

	for i := 0; i < 10 && !n.IsDead(); i++ {
		_ = p.AdvanceActor(time.Second)
	}
	if !n.IsDead() || len(h.enemyDeaths) != 1 || h.enemyDeaths[0] != world.NPC(n) {
		t.Fatal("player should walk up to and kill the nearest npc")
	}
	if far.HP() != far.MaxHP() {
		t.Fatal("the far npc should be untouched")
	}
}

func TestPlayerDeathAndRestart(t *testing.T) {
	spawn := geom.Transform{Position: geom.Vec3{X: 2}, Yaw: 45}
	p := NewPlayer("hero", PlayerStats{MaxHP: 10}, spawn, nil)
	h := &host{player: p}
	p.Attach(h)
	p.AddBuff(Buff{Name: "haste", Remaining: time.Minute, SpeedMul: 2})

	p.TakeDamage(10, nil)
	p.TakeDamage(10, nil)
	if !p.IsDead() || h.playerDeads != 1 {
		t.Fatalf("dead=%v reports=%d", p.IsDead(), h.playerDeads)
	}

	p.SetTransform(geom.Transform{Position: geom.Vec3{X: 30}})
	p.ResetForRestart()
	if p.IsDead() || p.HP() != 10 || len(p.Buffs()) != 0 {
		t.Fatal("reset should restore health and clear buffs")
	}
	if p.Transform().Position.X != 30 {
		t.Fatal("reset must not move the player; the room restores the transform")
	}
}
