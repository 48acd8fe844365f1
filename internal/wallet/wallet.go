package wallet

import (
	"context"
	"errors"
	"time"
)

// Transaction kinds in the append-only log
const (
	KindBet    = "BET"
	KindPrize  = "PRIZE"
	KindRefund = "REFUND"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUnknownAccount      = errors.New("unknown account")
)

// Entry is one row of the append-only transaction log
type Entry struct {
	ID        int       `db:"id" json:"id"`
	Account   string    `db:"account" json:"account"`
	Kind      string    `db:"kind" json:"kind"`
	Amount    int       `db:"amount" json:"amount"`
	Reference string    `db:"reference" json:"reference"` // room id for bets and prizes
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Credit is one leg of a payout
type Credit struct {
	Account string
	Amount  int
}

// Ledger tracks balances and the transaction log. Settlement relies on the
// log being append-only: a payout is recorded in the same operation that
// credits it, so a second settlement attempt for the same room finds the
// earlier record and backs off.
type Ledger interface {
	Balance(ctx context.Context, account string) (int, error)
	Debit(ctx context.Context, account string, amount int, kind, reference string) error
	Credit(ctx context.Context, account string, amount int, kind, reference string) error
	// HasPayout reports whether a prize for the room was already paid
	HasPayout(ctx context.Context, roomID string) (bool, error)
	// PayOut atomically credits all winners and records the payout log rows
	PayOut(ctx context.Context, roomID string, credits []Credit) error
}
