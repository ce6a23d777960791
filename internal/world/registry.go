package world

import (
	"slices"

	"go.uber.org/zap"
)

// HUDSource hands out and takes back HUD instances.
type HUDSource interface {
	Acquire() (HUD, bool)
	Release(h HUD)
}

// Registry is the ordered set of live actors, the actor→HUD binding table,
// and the NPC subset used by the pause cascade and mass despawn.
// Accessed only from the game loop goroutine, so there are no locks.
type Registry struct {
	actors []Actor
	huds   map[Actor]HUD
	npcs   []NPC
	src    HUDSource
	log    *zap.Logger
}

func NewRegistry(src HUDSource, log *zap.Logger) *Registry {
	return &Registry{
		actors: make([]Actor, 0, 32),
		huds:   make(map[Actor]HUD, 32),
		npcs:   make([]NPC, 0, 32),
		src:    src,
		log:    log,
	}
}

// Register appends a and binds a HUD to it. Registering a nil or already
// present actor is a no-op.
func (r *Registry) Register(a Actor) bool {
	if a == nil || r.Contains(a) {
		return false
	}
	r.actors = append(r.actors, a)
	r.attachHUD(a)
	return true
}

// Unregister removes a and returns its HUD to the source. Unknown actors are ignored.
func (r *Registry) Unregister(a Actor) bool {
	if a == nil {
		return false
	}
	removed := false
	if i := slices.Index(r.actors, a); i >= 0 {
		r.actors = slices.Delete(r.actors, i, i+1)
		removed = true
	}
	r.releaseHUD(a)
	return removed
}

func (r *Registry) Contains(a Actor) bool {
	return slices.Contains(r.actors, a)
}

func (r *Registry) Len() int { return len(r.actors) }

// At returns the actor at registration index i.
func (r *Registry) At(i int) Actor { return r.actors[i] }

// Actors returns a snapshot of the registry in registration order.
func (r *Registry) Actors() []Actor {
	return slices.Clone(r.actors)
}

// HUD returns the HUD bound to a, if any.
func (r *Registry) HUD(a Actor) (HUD, bool) {
	h, ok := r.huds[a]
	return h, ok
}

// HUDCount returns the number of live HUD bindings.
func (r *Registry) HUDCount() int { return len(r.huds) }

// AddNpc tracks n in the NPC subset. Duplicates are ignored.
func (r *Registry) AddNpc(n NPC) bool {
	if n == nil || slices.Contains(r.npcs, n) {
		return false
	}
	r.npcs = append(r.npcs, n)
	return true
}

func (r *Registry) RemoveNpc(n NPC) bool {
	i := slices.Index(r.npcs, n)
	if i < 0 {
		return false
	}
	r.npcs = slices.Delete(r.npcs, i, i+1)
	return true
}

func (r *Registry) HasNpc(n NPC) bool { return slices.Contains(r.npcs, n) }

func (r *Registry) NpcCount() int { return len(r.npcs) }

// Npcs returns a snapshot of the NPC subset.
func (r *Registry) Npcs() []NPC {
	return slices.Clone(r.npcs)
}

// Clear empties the actor list and NPC subset and releases every HUD.
func (r *Registry) Clear() {
	for a := range r.huds {
		r.releaseHUD(a)
	}
	r.actors = r.actors[:0]
	r.npcs = r.npcs[:0]
}

func (r *Registry) attachHUD(a Actor) {
	if _, ok := r.huds[a]; ok || r.src == nil {
		return
	}
	h, ok := r.src.Acquire()
	if !ok || h == nil {
		r.log.Warn("HUD unavailable", zap.String("actor", a.ID()))
		return
	}
	h.Bind(a)
	// NPCs show their display id; the player's bar is unlabeled.
	if _, isNpc := a.(NPC); isNpc {
		h.SetLabel(a.ID())
	} else {
		h.SetLabel("")
	}
	r.huds[a] = h
}

func (r *Registry) releaseHUD(a Actor) {
	h, ok := r.huds[a]
	if !ok {
		return
	}
	delete(r.huds, a)
	h.Unbind()
	r.src.Release(h)
}
