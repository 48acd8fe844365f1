package rooms

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"
)

// PasswordGame is ultimate password. A secret number is drawn from
// [1,100]; players take turns guessing inside the open interval, each
// wrong guess narrows it, and whoever names the secret loses the pot to
// everyone else.
type PasswordGame struct {
	// Seats is the player count that starts the match, defaults to 2
	Seats int
}

type passwordRound struct {
	Secret  int             `json:"secret"`
	Low     int             `json:"low"`  // exclusive lower bound
	High    int             `json:"high"` // exclusive upper bound
	Turn    int             `json:"turn"` // seat index to guess next
	Guesses []passwordGuess `json:"guesses"`
	Loser   *int            `json:"loser,omitempty"`
}

type passwordGuess struct {
	Seat  int `json:"seat"`
	Value int `json:"value"`
}

func (g PasswordGame) seats() int {
	if g.Seats >= 2 {
		return g.Seats
	}
	return 2
}

func (g PasswordGame) Type() GameType       { return GamePassword }
func (g PasswordGame) RequiredPlayers() int { return g.seats() }
func (g PasswordGame) MaxPlayers() int      { return 4 }
func (PasswordGame) StartStatus() Status    { return StatusPlaying }

func (PasswordGame) InitRound(r *Room) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	round := passwordRound{
		Secret: rng.Intn(100) + 1,
		Low:    0,
		High:   101,
	}
	data, err := json.Marshal(round)
	if err != nil {
		return err
	}
	r.Round = data
	return nil
}

func (PasswordGame) Apply(r *Room, actor string, action json.RawMessage) error {
	seat := r.SeatIndex(actor)

	var env actionEnvelope
	if err := json.Unmarshal(action, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}
	if env.Type != "GUESS" {
		return fmt.Errorf("%w: unknown action %q", ErrRejected, env.Type)
	}
	var payload struct {
		Value int `json:"value"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return fmt.Errorf("%w: bad guess", ErrRejected)
	}

	var round passwordRound
	if err := json.Unmarshal(r.Round, &round); err != nil {
		return fmt.Errorf("corrupt round state: %w", err)
	}
	if round.Loser != nil {
		return ErrRoomEnded
	}
	if seat != round.Turn {
		return fmt.Errorf("%w: not your turn", ErrRejected)
	}
	if payload.Value <= round.Low || payload.Value >= round.High {
		return fmt.Errorf("%w: guess %d outside (%d,%d)", ErrRejected, payload.Value, round.Low, round.High)
	}

	round.Guesses = append(round.Guesses, passwordGuess{Seat: seat, Value: payload.Value})
	switch {
	case payload.Value == round.Secret:
		loser := seat
		round.Loser = &loser
		r.Status = StatusEnded
	case payload.Value < round.Secret:
		round.Low = payload.Value
	default:
		round.High = payload.Value
	}
	round.Turn = (round.Turn + 1) % len(r.Players)

	data, err := json.Marshal(round)
	if err != nil {
		return err
	}
	r.Round = data
	return nil
}

func (PasswordGame) Winners(r *Room) []string {
	var round passwordRound
	if err := json.Unmarshal(r.Round, &round); err != nil || round.Loser == nil {
		return nil
	}
	winners := make([]string, 0, len(r.Players)-1)
	for i, p := range r.Players {
		if i != *round.Loser {
			winners = append(winners, p.Account)
		}
	}
	return winners
}
