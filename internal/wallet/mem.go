package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemLedger is the mock-mode ledger used when no database is configured,
// and by tests. Same semantics as SQLLedger, held in memory.
type MemLedger struct {
	mu       sync.Mutex
	balances map[string]int
	entries  []Entry
	nextID   int
}

func NewMemLedger() *MemLedger {
	return &MemLedger{balances: make(map[string]int)}
}

// SetBalance seeds an account (tests and demo mode)
func (l *MemLedger) SetBalance(account string, balance int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] = balance
}

func (l *MemLedger) Balance(ctx context.Context, account string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	balance, ok := l.balances[account]
	if !ok {
		return 0, ErrUnknownAccount
	}
	return balance, nil
}

func (l *MemLedger) Debit(ctx context.Context, account string, amount int, kind, reference string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.adjustLocked(account, -amount, kind, reference)
}

func (l *MemLedger) Credit(ctx context.Context, account string, amount int, kind, reference string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.adjustLocked(account, amount, kind, reference)
}

func (l *MemLedger) HasPayout(ctx context.Context, roomID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasPayoutLocked(roomID), nil
}

func (l *MemLedger) PayOut(ctx context.Context, roomID string, credits []Credit) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.hasPayoutLocked(roomID) {
		return nil
	}
	for _, c := range credits {
		if err := l.adjustLocked(c.Account, c.Amount, KindPrize, roomID); err != nil {
			return err
		}
	}
	return nil
}

// Entries returns a copy of the transaction log (tests)
func (l *MemLedger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

func (l *MemLedger) hasPayoutLocked(roomID string) bool {
	for _, e := range l.entries {
		if e.Reference == roomID && e.Kind == KindPrize {
			return true
		}
	}
	return false
}

func (l *MemLedger) adjustLocked(account string, delta int, kind, reference string) error {
	balance, ok := l.balances[account]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, account)
	}
	next := balance + delta
	if next < 0 {
		return fmt.Errorf("%w: account %s has %d, needs %d", ErrInsufficientBalance, account, balance, -delta)
	}
	l.balances[account] = next

	amount := delta
	if amount < 0 {
		amount = -amount
	}
	l.nextID++
	l.entries = append(l.entries, Entry{
		ID:        l.nextID,
		Account:   account,
		Kind:      kind,
		Amount:    amount,
		Reference: reference,
		CreatedAt: time.Now(),
	})
	return nil
}
