package pool

import (
	"github.com/mpsoul/arena/internal/geom"
	"github.com/mpsoul/arena/internal/world"
	"go.uber.org/zap"
)

// HUDKey is the pool key for overhead HUD instances.
const HUDKey = "UI_PlayerHUD"

// NpcFactory instantiates an NPC of npcID from its prefab.
type NpcFactory func(npcID int, prefab string) (world.NPC, error)

// NpcPool pools NPC instances per spawn key.
type NpcPool struct {
	p       *Pool[world.NPC]
	factory NpcFactory
	log     *zap.Logger
}

func NewNpcPool(factory NpcFactory, log *zap.Logger) *NpcPool {
	return &NpcPool{p: New[world.NPC](log), factory: factory, log: log}
}

// Preload registers key to build npcID instances from prefab and warms
// count of them. Preloading a registered key does nothing.
func (np *NpcPool) Preload(key string, npcID int, prefab string, count int) {
	err := np.p.Init(key, func() (world.NPC, error) { return np.factory(npcID, prefab) }, count)
	if err != nil {
		np.log.Warn("npc pool preload failed",
			zap.String("key", key),
			zap.Int("npc", npcID),
			zap.String("prefab", prefab),
			zap.Error(err))
	}
}

// Acquire takes an NPC for key and places it at pos.
func (np *NpcPool) Acquire(key string, pos geom.Vec3) (world.NPC, bool) {
	npc, ok := np.p.Get(key)
	if !ok || npc == nil {
		return nil, false
	}
	npc.SetPosition(pos)
	return npc, true
}

func (np *NpcPool) Release(key string, npc world.NPC) {
	if npc == nil {
		return
	}
	npc.SetPaused(false)
	np.p.Put(key, npc)
}

// InUse returns the number of NPCs of key currently spawned.
func (np *NpcPool) InUse(key string) int { return np.p.InUse(key) }

// Free returns the number of idle NPCs for key.
func (np *NpcPool) Free(key string) int { return np.p.Free(key) }

// HUDPool pools overhead HUDs under a single key.
type HUDPool struct {
	p   *Pool[world.HUD]
	key string
}

// NewHUDPool creates a HUD pool warmed with preload instances from newFn.
// An empty key uses HUDKey.
func NewHUDPool(key string, newFn func() world.HUD, preload int, log *zap.Logger) (*HUDPool, error) {
	if key == "" {
		key = HUDKey
	}
	p := New[world.HUD](log)
	if err := p.Init(key, func() (world.HUD, error) { return newFn(), nil }, preload); err != nil {
		return nil, err
	}
	return &HUDPool{p: p, key: key}, nil
}

func (hp *HUDPool) Acquire() (world.HUD, bool) { return hp.p.Get(hp.key) }

func (hp *HUDPool) Release(h world.HUD) {
	if h != nil {
		hp.p.Put(hp.key, h)
	}
}

// InUse returns the number of HUDs currently bound.
func (hp *HUDPool) InUse() int { return hp.p.InUse(hp.key) }

// Free returns the number of idle HUDs.
func (hp *HUDPool) Free() int { return hp.p.Free(hp.key) }
