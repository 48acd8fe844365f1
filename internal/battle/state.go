package battle

import (
	"errors"
	"fmt"

	"github.com/playarena/backend/internal/cards"
)

// SideID names one of the two sides of a match
type SideID string

const (
	SideHost  SideID = "host"
	SideGuest SideID = "guest"
)

// Opposite returns the other side
func (s SideID) Opposite() SideID {
	if s == SideHost {
		return SideGuest
	}
	return SideHost
}

// Phase is the step within a turn
type Phase string

const (
	PhaseSacrifice Phase = "sacrifice"
	PhasePlay      Phase = "play"
	PhaseAttack    Phase = "attack"
)

// Board limits
const (
	FrontCap    = 5
	BackCap     = 5
	HandCap     = 9
	OpeningHand = 4
	HeroStartHP = 30
	MinDeckSize = 10
)

var ErrBadDeck = errors.New("deck contains unknown cards or is too small")

// Hero is the player avatar; the match ends when its HP reaches zero.
type Hero struct {
	CurrentHP int `json:"current_hp"`
	MaxHP     int `json:"max_hp"`
	Energy    int `json:"energy"`
}

// Minion is a card instance on the front row
type Minion struct {
	CardID       string `json:"card_id"`
	Attack       int    `json:"attack"`
	CurrentHP    int    `json:"current_hp"`
	CanAttack    bool   `json:"can_attack"`
	DirectAttack bool   `json:"direct_attack"`
}

// BackCard is an equipment, effect or trap instance on the back row
type BackCard struct {
	CardID          string     `json:"card_id"`
	Kind            cards.Kind `json:"kind"`
	Attack          int        `json:"attack"`
	CurrentUseCount int        `json:"current_use_count"`
}

// Side holds everything one player owns in a match
type Side struct {
	Hero            *Hero      `json:"hero"`
	Deck            []string   `json:"deck"`
	Hand            []string   `json:"hand"`
	FieldFront      []Minion   `json:"field_front"`
	FieldBack       []BackCard `json:"field_back"`
	SacrificePoints int        `json:"sacrifice_points"`
	SacrificeMax    int        `json:"sacrifice_max"`
	Graveyard       int        `json:"graveyard"`
	HeroAttacked    bool       `json:"hero_attacked"`
}

// AttackReport describes the most recent attack for presentation only
type AttackReport struct {
	Attacker      SideID `json:"attacker"`
	AttackerIndex int    `json:"attacker_index"`
	TargetSide    SideID `json:"target_side"`
	TargetIndex   int    `json:"target_index"`
	Damage        int    `json:"damage"`
	TargetDied    bool   `json:"target_died"`
}

// State is the full battle state. It is advanced exclusively by Reduce and
// never mutated in place once GameOver is set.
type State struct {
	Host       Side          `json:"host"`
	Guest      Side          `json:"guest"`
	Turn       SideID        `json:"turn"`
	Phase      Phase         `json:"phase"`
	GameOver   *SideID       `json:"game_over,omitempty"` // winning side
	LastAttack *AttackReport `json:"last_attack,omitempty"`
}

// NewState builds the initial state once both decks are committed: shuffles,
// draws opening hands, host moves first.
func NewState(hostDeck, guestDeck []string) (State, error) {
	host, err := newSide(hostDeck)
	if err != nil {
		return State{}, fmt.Errorf("host side: %w", err)
	}
	guest, err := newSide(guestDeck)
	if err != nil {
		return State{}, fmt.Errorf("guest side: %w", err)
	}

	return State{
		Host:  host,
		Guest: guest,
		Turn:  SideHost,
		Phase: PhaseSacrifice,
	}, nil
}

func newSide(deck []string) (Side, error) {
	if len(deck) < MinDeckSize {
		return Side{}, ErrBadDeck
	}
	for _, id := range deck {
		if _, ok := cards.Lookup(id); !ok {
			return Side{}, fmt.Errorf("%w: %q", ErrBadDeck, id)
		}
	}

	shuffled := cards.Shuffle(deck)
	hand, rest := cards.Draw(shuffled, OpeningHand)

	return Side{
		Hero: &Hero{CurrentHP: HeroStartHP, MaxHP: HeroStartHP},
		Deck: rest,
		Hand: hand,
	}, nil
}

func (s Side) clone() Side {
	if s.Hero != nil {
		h := *s.Hero
		s.Hero = &h
	}
	s.Deck = append([]string(nil), s.Deck...)
	s.Hand = append([]string(nil), s.Hand...)
	s.FieldFront = append([]Minion(nil), s.FieldFront...)
	s.FieldBack = append([]BackCard(nil), s.FieldBack...)
	return s
}

func (s State) clone() State {
	s.Host = s.Host.clone()
	s.Guest = s.Guest.clone()
	if s.GameOver != nil {
		v := *s.GameOver
		s.GameOver = &v
	}
	if s.LastAttack != nil {
		v := *s.LastAttack
		s.LastAttack = &v
	}
	return s
}

func (s *State) side(id SideID) *Side {
	if id == SideHost {
		return &s.Host
	}
	return &s.Guest
}
