package model

import (
	"github.com/okian/dropforge/internal/domain/item"
)

// DropCandidate is an item a strategy proposes for a death, with the
// probability it actually drops.
type DropCandidate struct {
	Item        *item.Item
	Probability float64
}

// DamageCause is the last damage an entity took.
type DamageCause struct {
	Cause     string
	Cancelled bool
}

// Entity is the creature that died.
type Entity struct {
	ID              string
	Type            string
	Player          bool
	World           string
	LastDamageCause *DamageCause
}

// Player is a killer and broadcast recipient.
type Player struct {
	Name string
}

// DeathEvent is one creature death. Drops is the event's mutable drop list
// and is updated in place by the dispatcher.
type DeathEvent struct {
	ID     string
	Entity *Entity
	Killer *Player
	Drops  []*item.Item
}

// AddDrop appends an item to the event's drop list.
func (e *DeathEvent) AddDrop(it *item.Item) {
	e.Drops = append(e.Drops, it)
}

// LanguageSettings holds the message templates shown to players.
type LanguageSettings struct {
	// BroadcastMessage supports %receiver% and %item% placeholders.
	BroadcastMessage string
}
