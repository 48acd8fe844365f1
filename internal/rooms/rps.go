package rooms

import (
	"encoding/json"
	"fmt"
)

// RPSGame is best-of-N rock paper scissors. Both seats submit a move for
// the current round; once both are in the round resolves, a tie scores
// nobody, and the first seat to the majority of rounds takes the room.
type RPSGame struct {
	// BestOf is the maximum number of rounds, defaults to 3
	BestOf int
}

type rpsRound struct {
	Round   int            `json:"round"`
	Target  int            `json:"target"` // rounds needed to win
	Scores  [2]int         `json:"scores"`
	Moves   map[int]string `json:"moves"` // seat index -> submitted move
	Winner  *int           `json:"winner,omitempty"`
	History []rpsResult    `json:"history"`
}

type rpsResult struct {
	Round       int       `json:"round"`
	Moves       [2]string `json:"moves"`
	WinnerIndex *int      `json:"winner_index"` // nil on tie
}

func (g RPSGame) bestOf() int {
	if g.BestOf > 0 {
		return g.BestOf
	}
	return 3
}

func (RPSGame) Type() GameType       { return GameRPS }
func (RPSGame) RequiredPlayers() int { return 2 }
func (RPSGame) MaxPlayers() int      { return 2 }
func (RPSGame) StartStatus() Status  { return StatusPlaying }

func (g RPSGame) InitRound(r *Room) error {
	round := rpsRound{
		Round:  1,
		Target: g.bestOf()/2 + 1,
		Moves:  map[int]string{},
	}
	data, err := json.Marshal(round)
	if err != nil {
		return err
	}
	r.Round = data
	return nil
}

func validRPSMove(m string) bool {
	return m == "rock" || m == "paper" || m == "scissors"
}

// rpsBeats reports whether move a beats move b
func rpsBeats(a, b string) bool {
	return (a == "rock" && b == "scissors") ||
		(a == "paper" && b == "rock") ||
		(a == "scissors" && b == "paper")
}

func (g RPSGame) Apply(r *Room, actor string, action json.RawMessage) error {
	seat := r.SeatIndex(actor)

	var env actionEnvelope
	if err := json.Unmarshal(action, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}
	if env.Type != "MOVE" {
		return fmt.Errorf("%w: unknown action %q", ErrRejected, env.Type)
	}
	var payload struct {
		Move string `json:"move"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil || !validRPSMove(payload.Move) {
		return fmt.Errorf("%w: bad move", ErrRejected)
	}

	var round rpsRound
	if err := json.Unmarshal(r.Round, &round); err != nil {
		return fmt.Errorf("corrupt round state: %w", err)
	}
	if round.Winner != nil {
		return ErrRoomEnded
	}
	if _, dup := round.Moves[seat]; dup {
		// Moves lock in; resubmission is a no-op dispatch
		return ErrRejected
	}

	round.Moves[seat] = payload.Move
	if len(round.Moves) == 2 {
		resolveRound(&round)
	}

	data, err := json.Marshal(round)
	if err != nil {
		return err
	}
	r.Round = data
	if round.Winner != nil {
		r.Status = StatusEnded
	}
	return nil
}

// resolveRound scores the completed round and clears the moves. A tie
// leaves the scores alone but still advances the round counter.
func resolveRound(round *rpsRound) {
	a, b := round.Moves[0], round.Moves[1]

	result := rpsResult{Round: round.Round, Moves: [2]string{a, b}}
	switch {
	case rpsBeats(a, b):
		idx := 0
		result.WinnerIndex = &idx
		round.Scores[0]++
	case rpsBeats(b, a):
		idx := 1
		result.WinnerIndex = &idx
		round.Scores[1]++
	}
	round.History = append(round.History, result)
	round.Round++
	round.Moves = map[int]string{}

	for i := range round.Scores {
		if round.Scores[i] >= round.Target {
			winner := i
			round.Winner = &winner
			return
		}
	}
}

func (RPSGame) Winners(r *Room) []string {
	var round rpsRound
	if err := json.Unmarshal(r.Round, &round); err != nil || round.Winner == nil {
		return nil
	}
	if *round.Winner >= len(r.Players) {
		return nil
	}
	return []string{r.Players[*round.Winner].Account}
}
