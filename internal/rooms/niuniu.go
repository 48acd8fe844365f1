package rooms

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// NiuniuGame deals five poker cards to each seat, reveals them one at a
// time for the clients' dealing animation, and scores the hands by niu
// ranking once both players have acknowledged the reveal.
type NiuniuGame struct{}

const niuniuHandSize = 5

type niuniuRound struct {
	Hands    [2][]string  `json:"hands"`
	Revealed int          `json:"revealed"` // total cards face-up, 0..10
	Acks     map[int]bool `json:"acks"`     // seat index -> reveal acknowledged
	Scores   [2]int       `json:"scores,omitempty"`
	Winner   *int         `json:"winner,omitempty"`
}

func (NiuniuGame) Type() GameType       { return GameNiuniu }
func (NiuniuGame) RequiredPlayers() int { return 2 }
func (NiuniuGame) MaxPlayers() int      { return 2 }
func (NiuniuGame) StartStatus() Status  { return StatusDealing }

// pokerDeck builds the 52-card deck as suit letter + rank strings ("H3",
// "SK", "D10")
func pokerDeck() []string {
	suits := []string{"S", "H", "C", "D"}
	ranks := []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
	deck := make([]string, 0, 52)
	for _, s := range suits {
		for _, r := range ranks {
			deck = append(deck, s+r)
		}
	}
	return deck
}

func (NiuniuGame) InitRound(r *Room) error {
	deck := pokerDeck()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	round := niuniuRound{
		Hands: [2][]string{
			deck[:niuniuHandSize],
			deck[niuniuHandSize : 2*niuniuHandSize],
		},
		Acks: map[int]bool{},
	}
	data, err := json.Marshal(round)
	if err != nil {
		return err
	}
	r.Round = data
	return nil
}

func (NiuniuGame) Apply(r *Room, actor string, action json.RawMessage) error {
	seat := r.SeatIndex(actor)

	var env actionEnvelope
	if err := json.Unmarshal(action, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}

	var round niuniuRound
	if err := json.Unmarshal(r.Round, &round); err != nil {
		return fmt.Errorf("corrupt round state: %w", err)
	}

	switch env.Type {
	case "ADVANCE_DEAL":
		if r.Status != StatusDealing {
			return fmt.Errorf("%w: not dealing", ErrRejected)
		}
		round.Revealed++
		if round.Revealed >= 2*niuniuHandSize {
			round.Revealed = 2 * niuniuHandSize
			r.Status = StatusReveal
		}

	case "ACK_REVEAL":
		if r.Status != StatusReveal {
			return fmt.Errorf("%w: not in reveal", ErrRejected)
		}
		if round.Acks[seat] {
			return ErrRejected
		}
		round.Acks[seat] = true
		if len(round.Acks) == 2 {
			round.Scores[0] = niuScore(round.Hands[0])
			round.Scores[1] = niuScore(round.Hands[1])
			winner := 0
			if niuniuBeats(round.Hands[1], round.Hands[0]) {
				winner = 1
			}
			round.Winner = &winner
			r.Status = StatusEnded
		}

	default:
		return fmt.Errorf("%w: unknown action %q", ErrRejected, env.Type)
	}

	data, err := json.Marshal(round)
	if err != nil {
		return err
	}
	r.Round = data
	return nil
}

func (NiuniuGame) Winners(r *Room) []string {
	var round niuniuRound
	if err := json.Unmarshal(r.Round, &round); err != nil || round.Winner == nil {
		return nil
	}
	if *round.Winner >= len(r.Players) {
		return nil
	}
	return []string{r.Players[*round.Winner].Account}
}

// niuRankValue maps a card's rank to its counting value (face cards 10)
// and its comparison order (A low, K high).
func niuRankValue(card string) (count, order int) {
	rank := strings.TrimLeft(card, "SHCD")
	switch rank {
	case "A":
		return 1, 1
	case "J":
		return 10, 11
	case "Q":
		return 10, 12
	case "K":
		return 10, 13
	case "10":
		return 10, 10
	default:
		v := int(rank[0] - '0')
		return v, v
	}
}

// suitOrder ranks suits spades high, diamonds low
func suitOrder(card string) int {
	switch card[0] {
	case 'S':
		return 4
	case 'H':
		return 3
	case 'C':
		return 2
	default:
		return 1
	}
}

// niuScore returns the hand's niu value: 10 (niu niu) down to 1, or 0
// when no three cards sum to a multiple of ten.
func niuScore(hand []string) int {
	if len(hand) != niuniuHandSize {
		return 0
	}
	counts := make([]int, niuniuHandSize)
	total := 0
	for i, c := range hand {
		counts[i], _ = niuRankValue(c)
		total += counts[i]
	}
	for i := 0; i < niuniuHandSize; i++ {
		for j := i + 1; j < niuniuHandSize; j++ {
			for k := j + 1; k < niuniuHandSize; k++ {
				if (counts[i]+counts[j]+counts[k])%10 == 0 {
					niu := (total - counts[i] - counts[j] - counts[k]) % 10
					if niu == 0 {
						return 10
					}
					return niu
				}
			}
		}
	}
	return 0
}

// niuniuBeats compares two hands: higher niu wins, equal niu falls back
// to the single highest card by rank then suit.
func niuniuBeats(a, b []string) bool {
	sa, sb := niuScore(a), niuScore(b)
	if sa != sb {
		return sa > sb
	}
	ra, ua := highCard(a)
	rb, ub := highCard(b)
	if ra != rb {
		return ra > rb
	}
	return ua > ub
}

func highCard(hand []string) (order, suit int) {
	for _, c := range hand {
		_, o := niuRankValue(c)
		s := suitOrder(c)
		if o > order || (o == order && s > suit) {
			order, suit = o, s
		}
	}
	return order, suit
}
