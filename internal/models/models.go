package models

import (
	"database/sql"
	"time"
)

// Player is one wallet-holding account. Account is the login identifier
// (normalized phone number) and the key the ledger locks on.
type Player struct {
	ID          int          `db:"id" json:"id"`
	Account     string       `db:"account" json:"account"`
	DisplayName string       `db:"display_name" json:"display_name"`
	PinHash     string       `db:"pin_hash" json:"-"`
	Balance     int          `db:"balance" json:"balance"`
	IsActive    bool         `db:"is_active" json:"is_active"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
	LastActive  sql.NullTime `db:"last_active" json:"last_active,omitempty"`
}

// Transaction is one append-only ledger row. Reference carries the room id
// for bets, refunds and prizes; prize rows double as the settlement
// idempotency record.
type Transaction struct {
	ID        int       `db:"id" json:"id"`
	Account   string    `db:"account" json:"account"`
	Kind      string    `db:"kind" json:"kind"`
	Amount    int       `db:"amount" json:"amount"`
	Reference string    `db:"reference" json:"reference,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
