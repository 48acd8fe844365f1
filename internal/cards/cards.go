package cards

import (
	"math/rand"
	"time"
)

// Kind classifies what a card does when played
type Kind string

const (
	KindMinion Kind = "minion"
	KindEquip  Kind = "equip"
	KindEffect Kind = "effect"
	KindTrap   Kind = "trap"
)

// Definition is the static description of a card. The table is compiled
// in, so lookups never need invalidation.
type Definition struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Kind         Kind   `json:"kind"`
	Cost         int    `json:"cost"`
	Attack       int    `json:"attack"`
	HP           int    `json:"hp"`
	UseCount     int    `json:"use_count"`     // swings before an equip breaks
	DirectAttack bool   `json:"direct_attack"` // may hit the hero past minions
}

// Lookup returns the definition for a card id
func Lookup(id string) (Definition, bool) {
	def, ok := table[id]
	return def, ok
}

// Shuffle returns a uniformly shuffled copy of the given cards.
// The input slice is never mutated.
func Shuffle(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Draw takes up to n cards off the top of the deck. A short deck yields
// fewer cards, never an error.
func Draw(deck []string, n int) (hand []string, rest []string) {
	if n > len(deck) {
		n = len(deck)
	}
	if n < 0 {
		n = 0
	}
	hand = append([]string(nil), deck[:n]...)
	rest = append([]string(nil), deck[n:]...)
	return hand, rest
}
