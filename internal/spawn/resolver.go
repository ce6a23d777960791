package spawn

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/mpsoul/arena/internal/data"
	"github.com/mpsoul/arena/internal/geom"
)

// Jitter radius bounds keep spawned units from stacking exactly on the
// target point without moving them noticeably away from it.
const (
	JitterMinRadius = 0.5
	JitterMaxRadius = 1.0
)

// PrefabSource looks up the prefab configured for an npc id.
type PrefabSource interface {
	NpcPrefab(npcID int) (string, bool)
}

// PoolKey derives the pool key for npcID. Pure: the same inputs always give
// the same key.
func PoolKey(base string, npcID int) string {
	if base == "" {
		return "Enemy_" + strconv.Itoa(npcID)
	}
	return base + "_" + strconv.Itoa(npcID)
}

// Resolver turns wave directives into concrete prefab / pool key / position
// triples. Lookups are cached per npc id for the lifetime of the resolver.
type Resolver struct {
	baseKey        string
	fallbackPrefab string
	src            PrefabSource
	rng            *rand.Rand

	keys    map[int]string
	prefabs map[int]string
}

// NewResolver creates a resolver. fallbackPrefab is used for npc ids the
// source has no prefab for; empty disables the fallback.
func NewResolver(src PrefabSource, baseKey, fallbackPrefab string, rng *rand.Rand) *Resolver {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Resolver{
		baseKey:        baseKey,
		fallbackPrefab: fallbackPrefab,
		src:            src,
		rng:            rng,
		keys:           make(map[int]string),
		prefabs:        make(map[int]string),
	}
}

// BaseKey is the key used for instances whose own key was never set.
func (r *Resolver) BaseKey() string {
	if r.baseKey == "" {
		return "Enemy_Dummy"
	}
	return r.baseKey
}

// PoolKey returns the cached key for npcID, minting it on first use.
func (r *Resolver) PoolKey(npcID int) string {
	if k, ok := r.keys[npcID]; ok {
		return k
	}
	k := PoolKey(r.baseKey, npcID)
	r.keys[npcID] = k
	return k
}

// Prefab resolves the prefab for npcID, falling back to the configured
// fallback prefab. ok is false when neither exists.
func (r *Resolver) Prefab(npcID int) (prefab string, ok bool) {
	if p, cached := r.prefabs[npcID]; cached {
		return p, true
	}
	if r.src != nil {
		if p, found := r.src.NpcPrefab(npcID); found {
			r.prefabs[npcID] = p
			return p, true
		}
	}
	if r.fallbackPrefab == "" {
		return "", false
	}
	r.prefabs[npcID] = r.fallbackPrefab
	return r.fallbackPrefab, true
}

// BasePosition picks the anchor for a directive: its explicit position when
// set, otherwise the configured spawn point. Zero means "unresolved".
func BasePosition(w data.WaveDirective, points []geom.Vec3) geom.Vec3 {
	if !w.Position.IsZero() {
		return w.Position
	}
	if w.SpawnPointIndex >= 0 && w.SpawnPointIndex < len(points) {
		return points[w.SpawnPointIndex]
	}
	return geom.Vec3{}
}

// Position returns the spawn position for the iteration-th unit of w around
// base. An unresolved base cycles through the available spawn points.
func (r *Resolver) Position(base geom.Vec3, w data.WaveDirective, iteration int, points []geom.Vec3) geom.Vec3 {
	pos := base
	if pos.IsZero() {
		pos = fallbackPosition(w, iteration, points)
	}
	return pos.Add(r.Jitter())
}

func fallbackPosition(w data.WaveDirective, iteration int, points []geom.Vec3) geom.Vec3 {
	if w.SpawnPointIndex >= 0 && w.SpawnPointIndex < len(points) {
		return points[w.SpawnPointIndex]
	}
	if len(points) > 0 {
		return points[iteration%len(points)]
	}
	return geom.Vec3{}
}

// Jitter returns a planar offset with radius in [0.5, 1.0] and uniform angle.
func (r *Resolver) Jitter() geom.Vec3 {
	radius := JitterMinRadius + r.rng.Float64()*(JitterMaxRadius-JitterMinRadius)
	angle := r.rng.Float64() * 2 * math.Pi
	return geom.Vec3{X: math.Cos(angle) * radius, Z: math.Sin(angle) * radius}
}
