package pool

import (
	"errors"
	"testing"
	"time"

	"github.com/mpsoul/arena/internal/data"
	"github.com/mpsoul/arena/internal/geom"
	"github.com/mpsoul/arena/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type npc struct {
	npcID  int
	prefab string
	pos    geom.Vec3
	paused bool
}

func (n *npc) ID() string { return n.prefab }
func (n *npc) IsDead() bool { return false }
func (n *npc) Position() geom.Vec3 { return n.pos }
func (n *npc) AdvanceBuffs(time.Duration) {}
func (n *npc) AdvanceActor(time.Duration) error { return nil }
func (n *npc) SetHurtPaused(bool) {}
func (n *npc) SetPaused(p bool) { n.paused = p }
func (n *npc) SetMovementEnabled(bool) {}
func (n *npc) SetUniqueID(string) {}
func (n *npc) ApplyAttributes(data.NpcAttributes) {}
func (n *npc) SetPoolKey(string) {}
func (n *npc) PoolKey() string { return "" }
func (n *npc) SetPosition(p geom.Vec3) { n.pos = p }
func (n *npc) Attach(world.Host) {}

type hud struct{ label string }

func (h *hud) Bind(world.Actor) {}
func (h *hud) SetLabel(l string) { h.label = l }
func (h *hud) Unbind() {}

func TestNpcPoolAcquireRelease(t *testing.T) {
	made := 0
	np := NewNpcPool(func(npcID int, prefab string) (world.NPC, error) {
		made++
		return &npc{npcID: npcID, prefab: prefab}, nil
	}, zap.NewNop())

	np.Preload("Enemy_Dummy_7", 7, "Slime", 2)
	np.Preload("Enemy_Dummy_7", 7, "Slime", 5)
	if made != 2 || np.Free("Enemy_Dummy_7") != 2 {
		t.Fatalf("made=%d free=%d, want 2/2", made, np.Free("Enemy_Dummy_7"))
	}

	got, ok := np.Acquire("Enemy_Dummy_7", geom.Vec3{X: 3})
	if !ok || got.Position() != (geom.Vec3{X: 3}) {
		t.Fatal("Acquire should place the instance")
	}
	if got.(*npc).npcID != 7 {
		t.Fatalf("npc id = %d, want 7", got.(*npc).npcID)
	}
	got.SetPaused(true)
	np.Release("Enemy_Dummy_7", got)
	if got.(*npc).paused {
		t.Fatal("Release should clear the pause flag")
	}
	if np.InUse("Enemy_Dummy_7") != 0 || np.Free("Enemy_Dummy_7") != 2 {
		t.Fatal("released npc should be idle again")
	}
	np.Release("Enemy_Dummy_7", nil)
}

func TestNpcPoolPreloadFailureWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	np := NewNpcPool(func(int, string) (world.NPC, error) { return nil, errors.New("no asset") }, zap.New(core))
	np.Preload("k", 3, "Missing", 1)
	if logs.FilterMessage("npc pool preload failed").Len() != 1 {
		t.Fatal("preload failure should be logged")
	}
	if _, ok := np.Acquire("k", geom.Vec3{}); ok {
		t.Fatal("Acquire should fail when the factory fails")
	}
}

func TestHUDPool(t *testing.T) {
	hp, err := NewHUDPool("", func() world.HUD { return &hud{} }, 2, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	a, _ := hp.Acquire()
	b, _ := hp.Acquire()
	c, ok := hp.Acquire()
	if !ok || c == nil || hp.InUse() != 3 {
		t.Fatal("pool should grow past the preload")
	}
	hp.Release(a)
	hp.Release(a)
	hp.Release(nil)
	if hp.InUse() != 2 || hp.Free() != 1 {
		t.Fatalf("in use=%d free=%d, want 2/1", hp.InUse(), hp.Free())
	}
	_ = b
}
