package settlement

import (
	"context"
	"errors"
	"log"

	"github.com/playarena/backend/internal/wallet"
)

var ErrNoWinners = errors.New("no winners to pay")

// Split divides pool evenly across n winners, handing the integer remainder
// one unit at a time to the first winners. The shares always sum back to
// pool exactly.
func Split(pool, n int) []int {
	if n <= 0 {
		return nil
	}
	shares := make([]int, n)
	each := pool / n
	rem := pool % n
	for i := range shares {
		shares[i] = each
		if i < rem {
			shares[i]++
		}
	}
	return shares
}

// DistributePrize credits the room's pool to its winners at most once.
// The transaction log is consulted by room id before any balance moves:
// retries, duplicate effect runs and racing tabs all land on the recorded
// payout and return without paying again. It reports whether this call
// (or an earlier one) settled the room.
func DistributePrize(ctx context.Context, ledger wallet.Ledger, roomID string, pool int, winners []string) (alreadyPaid bool, err error) {
	if len(winners) == 0 {
		return false, ErrNoWinners
	}

	paid, err := ledger.HasPayout(ctx, roomID)
	if err != nil {
		return false, err
	}
	if paid {
		log.Printf("[SETTLE] room %s already settled, skipping", roomID)
		return true, nil
	}

	shares := Split(pool, len(winners))
	credits := make([]wallet.Credit, len(winners))
	for i, account := range winners {
		credits[i] = wallet.Credit{Account: account, Amount: shares[i]}
	}

	if err := ledger.PayOut(ctx, roomID, credits); err != nil {
		return false, err
	}
	log.Printf("[SETTLE] room %s settled: pool=%d winners=%d", roomID, pool, len(winners))
	return false, nil
}
