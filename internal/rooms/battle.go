package rooms

import (
	"encoding/json"
	"fmt"

	"github.com/playarena/backend/internal/battle"
)

// BattleGame runs the two-player card battle. Seat 0 (the host) plays the
// host side, seat 1 the guest side; the round blob is the full battle
// state.
type BattleGame struct{}

func (BattleGame) Type() GameType       { return GameBattle }
func (BattleGame) RequiredPlayers() int { return 2 }
func (BattleGame) MaxPlayers() int      { return 2 }
func (BattleGame) StartStatus() Status  { return StatusPlaying }

func (BattleGame) InitRound(r *Room) error {
	if len(r.Players) != 2 {
		return fmt.Errorf("battle needs exactly 2 players, got %d", len(r.Players))
	}
	state, err := battle.NewState(r.Players[0].Deck, r.Players[1].Deck)
	if err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	r.Round = data
	return nil
}

func battleSideFor(r *Room, actor string) (battle.SideID, error) {
	switch r.SeatIndex(actor) {
	case 0:
		return battle.SideHost, nil
	case 1:
		return battle.SideGuest, nil
	default:
		return "", ErrNotSeated
	}
}

func (BattleGame) Apply(r *Room, actor string, action json.RawMessage) error {
	side, err := battleSideFor(r, actor)
	if err != nil {
		return err
	}

	act, err := battle.ParseAction(action)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}
	if battle.ActorSide(act) != side {
		return fmt.Errorf("%w: action claims the opponent's side", ErrRejected)
	}

	var state battle.State
	if err := json.Unmarshal(r.Round, &state); err != nil {
		return fmt.Errorf("corrupt round state: %w", err)
	}

	next := battle.Reduce(state, act)
	if battle.Equal(next, state) {
		return ErrRejected
	}

	data, err := json.Marshal(next)
	if err != nil {
		return err
	}
	r.Round = data
	if next.GameOver != nil {
		r.Status = StatusEnded
	}
	return nil
}

func (BattleGame) Winners(r *Room) []string {
	var state battle.State
	if err := json.Unmarshal(r.Round, &state); err != nil || state.GameOver == nil {
		return nil
	}
	idx := 0
	if *state.GameOver == battle.SideGuest {
		idx = 1
	}
	if idx >= len(r.Players) {
		return nil
	}
	return []string{r.Players[idx].Account}
}
