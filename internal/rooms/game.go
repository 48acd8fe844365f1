package rooms

import (
	"encoding/json"
	"errors"
)

// Dispatch errors shared by every game
var (
	ErrRejected     = errors.New("action rejected")
	ErrNotSeated    = errors.New("account is not seated in this room")
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomEnded    = errors.New("room has ended")
	ErrRoomBusy     = errors.New("room is not accepting players")
	ErrRoomFull     = errors.New("room is full")
	ErrSelfJoin     = errors.New("host cannot join their own room")
)

// Game defines one minigame's lifecycle rules. The store drives every game
// through this interface; the game owns only its embedded round state.
type Game interface {
	Type() GameType
	// RequiredPlayers is the seat count that starts the match
	RequiredPlayers() int
	MaxPlayers() int
	// StartStatus is the status entered when the last seat fills
	StartStatus() Status
	// InitRound computes the initial round state. An error rolls the
	// triggering join back to waiting.
	InitRound(r *Room) error
	// Apply advances the round for one action from actor. It mutates r
	// (Round, Status) or returns ErrRejected/an explanatory error and
	// leaves r untouched.
	Apply(r *Room, actor string, action json.RawMessage) error
	// Winners lists the accounts to pay once r has ended
	Winners(r *Room) []string
}

// actionEnvelope is the generic tagged wire form shared by the simpler games
type actionEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}
