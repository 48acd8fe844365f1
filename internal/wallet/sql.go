package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

// SQLLedger keeps balances in the players table and the transaction log in
// the transactions table. Balance changes row-lock the player before
// updating so racing settlements and bets serialize at the database.
type SQLLedger struct {
	db *sqlx.DB
}

func NewSQLLedger(db *sqlx.DB) *SQLLedger {
	return &SQLLedger{db: db}
}

func (l *SQLLedger) Balance(ctx context.Context, account string) (int, error) {
	var balance int
	err := l.db.GetContext(ctx, &balance, `SELECT balance FROM players WHERE account=$1`, account)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUnknownAccount
	}
	return balance, err
}

func (l *SQLLedger) Debit(ctx context.Context, account string, amount int, kind, reference string) error {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := adjust(ctx, tx, account, -amount, kind, reference); err != nil {
		return err
	}
	return tx.Commit()
}

func (l *SQLLedger) Credit(ctx context.Context, account string, amount int, kind, reference string) error {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := adjust(ctx, tx, account, amount, kind, reference); err != nil {
		return err
	}
	return tx.Commit()
}

func (l *SQLLedger) HasPayout(ctx context.Context, roomID string) (bool, error) {
	var cnt int
	if err := l.db.GetContext(ctx, &cnt,
		`SELECT COUNT(*) FROM transactions WHERE reference=$1 AND kind=$2`, roomID, KindPrize); err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (l *SQLLedger) PayOut(ctx context.Context, roomID string, credits []Credit) error {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Re-check inside the transaction: two settlers can both pass the
	// caller's lookup, only one may insert the payout rows.
	var cnt int
	if err := tx.GetContext(ctx, &cnt,
		`SELECT COUNT(*) FROM transactions WHERE reference=$1 AND kind=$2`, roomID, KindPrize); err != nil {
		return err
	}
	if cnt > 0 {
		log.Printf("[WALLET] payout already recorded for room %s, skipping", roomID)
		return nil
	}

	for _, c := range credits {
		if err := adjust(ctx, tx, c.Account, c.Amount, KindPrize, roomID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("[WALLET] payout recorded for room %s (%d winners)", roomID, len(credits))
	return nil
}

// adjust row-locks the player, applies the delta and appends the log row
func adjust(ctx context.Context, tx *sqlx.Tx, account string, delta int, kind, reference string) error {
	var balance int
	err := tx.GetContext(ctx, &balance,
		`SELECT balance FROM players WHERE account=$1 FOR UPDATE`, account)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, account)
	}
	if err != nil {
		return err
	}

	next := balance + delta
	if next < 0 {
		return fmt.Errorf("%w: account %s has %d, needs %d", ErrInsufficientBalance, account, balance, -delta)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE players SET balance=$1, updated_at=NOW() WHERE account=$2`, next, account); err != nil {
		return err
	}

	amount := delta
	if amount < 0 {
		amount = -amount
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (account, kind, amount, reference, created_at) VALUES ($1,$2,$3,$4,NOW())`,
		account, kind, amount, reference); err != nil {
		return err
	}
	return nil
}
