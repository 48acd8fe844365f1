package rooms

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// UndercoverGame is the social deduction word game. Every seat gets the
// civilian word except one who gets the near-miss undercover word. Play
// alternates speaking and voting sub-phases; each vote eliminates the
// majority target. Civilians win by voting the undercover out, the
// undercover wins by surviving to the final two.
type UndercoverGame struct {
	// Seats is the player count that starts the match, defaults to 4
	Seats int
}

// wordPairs is the built-in civilian/undercover vocabulary
var wordPairs = [][2]string{
	{"coffee", "tea"},
	{"piano", "guitar"},
	{"ocean", "lake"},
	{"novel", "comic"},
	{"soccer", "rugby"},
	{"winter", "autumn"},
	{"castle", "palace"},
	{"bicycle", "scooter"},
}

const (
	subPhaseSpeaking = "speaking"
	subPhaseVoting   = "voting"
)

type undercoverRound struct {
	Words           map[int]string   `json:"words"` // seat index -> assigned word
	UndercoverIndex int              `json:"undercover_index"`
	Alive           []bool           `json:"alive"`
	SubPhase        string           `json:"sub_phase"`
	Speaker         int              `json:"speaker"` // seat whose turn it is to describe
	Descriptions    []undercoverClue `json:"descriptions"`
	Votes           map[int]int      `json:"votes"` // voter seat -> target seat
	Eliminated      []int            `json:"eliminated"`
	WinnerSide      string           `json:"winner_side,omitempty"` // "civilians" | "undercover"
}

type undercoverClue struct {
	Seat int    `json:"seat"`
	Text string `json:"text"`
}

func (g UndercoverGame) seats() int {
	if g.Seats >= 2 {
		return g.Seats
	}
	return 4
}

func (g UndercoverGame) Type() GameType       { return GameUndercover }
func (g UndercoverGame) RequiredPlayers() int { return g.seats() }
func (g UndercoverGame) MaxPlayers() int      { return 8 }
func (UndercoverGame) StartStatus() Status    { return StatusPlaying }

func (g UndercoverGame) InitRound(r *Room) error {
	n := len(r.Players)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	pair := wordPairs[rng.Intn(len(wordPairs))]
	spy := rng.Intn(n)

	round := undercoverRound{
		Words:           make(map[int]string, n),
		UndercoverIndex: spy,
		Alive:           make([]bool, n),
		SubPhase:        subPhaseSpeaking,
		Votes:           map[int]int{},
	}
	for i := 0; i < n; i++ {
		round.Alive[i] = true
		if i == spy {
			round.Words[i] = pair[1]
		} else {
			round.Words[i] = pair[0]
		}
	}
	data, err := json.Marshal(round)
	if err != nil {
		return err
	}
	r.Round = data
	return nil
}

func (g UndercoverGame) Apply(r *Room, actor string, action json.RawMessage) error {
	seat := r.SeatIndex(actor)

	var env actionEnvelope
	if err := json.Unmarshal(action, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}

	var round undercoverRound
	if err := json.Unmarshal(r.Round, &round); err != nil {
		return fmt.Errorf("corrupt round state: %w", err)
	}
	if round.WinnerSide != "" {
		return ErrRoomEnded
	}
	if !round.Alive[seat] {
		return fmt.Errorf("%w: eliminated players cannot act", ErrRejected)
	}

	switch env.Type {
	case "SPEAK":
		if round.SubPhase != subPhaseSpeaking {
			return fmt.Errorf("%w: not in speaking phase", ErrRejected)
		}
		if seat != round.Speaker {
			return fmt.Errorf("%w: not your turn to speak", ErrRejected)
		}
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(env.Data, &payload); err != nil || strings.TrimSpace(payload.Text) == "" {
			return fmt.Errorf("%w: empty description", ErrRejected)
		}
		round.Descriptions = append(round.Descriptions, undercoverClue{Seat: seat, Text: payload.Text})
		round.Speaker = nextAlive(round.Alive, seat)
		if round.Speaker <= seat && allSpokeThisRound(&round) {
			round.SubPhase = subPhaseVoting
			round.Votes = map[int]int{}
		}

	case "VOTE":
		if round.SubPhase != subPhaseVoting {
			return fmt.Errorf("%w: not in voting phase", ErrRejected)
		}
		if _, dup := round.Votes[seat]; dup {
			return ErrRejected
		}
		var payload struct {
			Target int `json:"target"`
		}
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return fmt.Errorf("%w: bad vote", ErrRejected)
		}
		if payload.Target < 0 || payload.Target >= len(round.Alive) || !round.Alive[payload.Target] {
			return fmt.Errorf("%w: vote target not in play", ErrRejected)
		}
		round.Votes[seat] = payload.Target
		if len(round.Votes) == aliveCount(round.Alive) {
			g.closeVote(&round)
		}

	default:
		return fmt.Errorf("%w: unknown action %q", ErrRejected, env.Type)
	}

	data, err := json.Marshal(round)
	if err != nil {
		return err
	}
	r.Round = data
	if round.WinnerSide != "" {
		r.Status = StatusEnded
	}
	return nil
}

// closeVote tallies the completed vote. A strict plurality eliminates its
// target; a tie eliminates nobody. Either way the survivors return to the
// speaking phase unless a side has won.
func (g UndercoverGame) closeVote(round *undercoverRound) {
	tally := map[int]int{}
	for _, target := range round.Votes {
		tally[target]++
	}
	top, topVotes, tied := -1, 0, false
	for target, n := range tally {
		switch {
		case n > topVotes:
			top, topVotes, tied = target, n, false
		case n == topVotes:
			tied = true
		}
	}

	if top >= 0 && !tied {
		round.Alive[top] = false
		round.Eliminated = append(round.Eliminated, top)
		if top == round.UndercoverIndex {
			round.WinnerSide = "civilians"
			return
		}
		if aliveCount(round.Alive) <= 2 {
			round.WinnerSide = "undercover"
			return
		}
	}

	round.SubPhase = subPhaseSpeaking
	round.Votes = map[int]int{}
	round.Descriptions = nil
	round.Speaker = nextAlive(round.Alive, -1)
}

// allSpokeThisRound reports whether every living seat has a description in
// the current speaking round
func allSpokeThisRound(round *undercoverRound) bool {
	spoke := map[int]bool{}
	for _, d := range round.Descriptions {
		spoke[d.Seat] = true
	}
	for i, alive := range round.Alive {
		if alive && !spoke[i] {
			return false
		}
	}
	return true
}

func aliveCount(alive []bool) int {
	n := 0
	for _, a := range alive {
		if a {
			n++
		}
	}
	return n
}

// nextAlive returns the first living seat strictly after from, wrapping
// around
func nextAlive(alive []bool, from int) int {
	n := len(alive)
	for i := 1; i <= n; i++ {
		idx := (from + i + n) % n
		if idx >= 0 && alive[idx] {
			return idx
		}
	}
	return 0
}

func (g UndercoverGame) Winners(r *Room) []string {
	var round undercoverRound
	if err := json.Unmarshal(r.Round, &round); err != nil || round.WinnerSide == "" {
		return nil
	}
	if round.WinnerSide == "undercover" {
		return []string{r.Players[round.UndercoverIndex].Account}
	}
	winners := make([]string, 0, len(r.Players)-1)
	for i, p := range r.Players {
		if i != round.UndercoverIndex {
			winners = append(winners, p.Account)
		}
	}
	return winners
}
