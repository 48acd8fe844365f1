package rooms

import (
	"encoding/json"
	"time"
)

// GameType names one of the minigame room collections
type GameType string

const (
	GameBattle     GameType = "battle"
	GameRPS        GameType = "rps"
	GameNiuniu     GameType = "niuniu"
	GameUndercover GameType = "undercover"
	GamePassword   GameType = "password"
)

// Status is the room lifecycle state
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusPlaying Status = "playing"
	StatusDealing Status = "dealing"
	StatusReveal  Status = "reveal"
	StatusEnded   Status = "ended"
)

// Seat is one player slot. Seat order is turn order.
type Seat struct {
	Account     string   `json:"account"`
	DisplayName string   `json:"display_name"`
	Deck        []string `json:"deck,omitempty"` // battle only
}

// Room is one match instance shared by its players through the backing
// store. Once Status is ended the record is immutable except for the
// one-time Distributed flip.
type Room struct {
	ID          string          `json:"id"`
	ShortCode   string          `json:"short_code"`
	GameType    GameType        `json:"game_type"`
	Host        string          `json:"host"`
	Players     []Seat          `json:"players"`
	Status      Status          `json:"status"`
	BetAmount   int             `json:"bet_amount"`
	Pool        int             `json:"pool"`
	Distributed bool            `json:"distributed"`
	Round       json.RawMessage `json:"round,omitempty"` // game-specific state
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Record interface for the sync layer's merge
func (r Room) RecordID() string       { return r.ID }
func (r Room) CreatedTime() time.Time { return r.CreatedAt }
func (r Room) UpdatedTime() time.Time { return r.UpdatedAt }

// Seated reports whether account holds a seat
func (r *Room) Seated(account string) bool {
	return r.SeatIndex(account) >= 0
}

// SeatIndex returns the seat position for account, -1 when absent
func (r *Room) SeatIndex(account string) int {
	for i, p := range r.Players {
		if p.Account == account {
			return i
		}
	}
	return -1
}

func (r Room) clone() Room {
	r.Players = append([]Seat(nil), r.Players...)
	r.Round = append(json.RawMessage(nil), r.Round...)
	return r
}
