package cards

import (
	"sort"
	"testing"
)

func TestShuffleIsPermutation(t *testing.T) {
	full := make([]string, 0, 52)
	for id := range table {
		full = append(full, id)
	}
	// pad with repeats up to 52 to match a physical deck size
	for len(full) < 52 {
		full = append(full, "goblin_scout")
	}

	for _, deck := range [][]string{{}, {"militia"}, full} {
		got := Shuffle(deck)
		if len(got) != len(deck) {
			t.Fatalf("shuffle changed length: got %d want %d", len(got), len(deck))
		}

		want := append([]string(nil), deck...)
		have := append([]string(nil), got...)
		sort.Strings(want)
		sort.Strings(have)
		for i := range want {
			if want[i] != have[i] {
				t.Fatalf("shuffle is not a permutation at %d: got %s want %s", i, have[i], want[i])
			}
		}
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	deck := []string{"militia", "stone_golem", "fire_drake", "war_axe", "spike_pit"}
	orig := append([]string(nil), deck...)

	Shuffle(deck)

	for i := range orig {
		if deck[i] != orig[i] {
			t.Fatalf("input mutated at %d: got %s want %s", i, deck[i], orig[i])
		}
	}
}

func TestDrawShortDeck(t *testing.T) {
	deck := []string{"militia", "stone_golem"}

	hand, rest := Draw(deck, 5)
	if len(hand) != 2 {
		t.Errorf("expected 2 cards from short deck, got %d", len(hand))
	}
	if len(rest) != 0 {
		t.Errorf("expected empty remainder, got %d", len(rest))
	}

	hand, rest = Draw(nil, 3)
	if len(hand) != 0 || len(rest) != 0 {
		t.Errorf("drawing from empty deck should yield nothing, got %d/%d", len(hand), len(rest))
	}
}

func TestDrawPreservesOrder(t *testing.T) {
	deck := []string{"a1", "b2", "c3", "d4"}
	hand, rest := Draw(deck, 2)

	if hand[0] != "a1" || hand[1] != "b2" {
		t.Errorf("hand order wrong: %v", hand)
	}
	if rest[0] != "c3" || rest[1] != "d4" {
		t.Errorf("rest order wrong: %v", rest)
	}
}

func TestStarterDeckResolves(t *testing.T) {
	for _, id := range StarterDeck() {
		if _, ok := Lookup(id); !ok {
			t.Errorf("starter deck references unknown card %q", id)
		}
	}
}
