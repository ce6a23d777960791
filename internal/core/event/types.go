package event

import "github.com/mpsoul/arena/internal/world"

// EnemyDied is raised when an NPC reports its death while actors are being ticked.
type EnemyDied struct {
	Npc world.NPC
}

// ActorUnregistered is raised when an actor is unregistered while actors
// are being ticked.
type ActorUnregistered struct {
	Actor world.Actor
}

// SecondReached is raised for every stage second the timeline processes.
type SecondReached struct {
	Second int
}
