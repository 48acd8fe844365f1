package settlement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playarena/backend/internal/wallet"
)

func TestSplitConservesPool(t *testing.T) {
	cases := []struct {
		pool, n int
		want    []int
	}{
		{10, 2, []int{5, 5}},
		{10, 3, []int{4, 3, 3}},
		{7, 4, []int{2, 2, 2, 1}},
		{3, 5, []int{1, 1, 1, 0, 0}},
		{0, 2, []int{0, 0}},
	}
	for _, tc := range cases {
		got := Split(tc.pool, tc.n)
		assert.Equal(t, tc.want, got, "pool=%d n=%d", tc.pool, tc.n)

		sum := 0
		for _, s := range got {
			sum += s
		}
		assert.Equal(t, tc.pool, sum, "shares must sum to the pool")
	}
}

func TestDistributePrizeExactlyOnce(t *testing.T) {
	ctx := context.Background()
	ledger := wallet.NewMemLedger()
	ledger.SetBalance("alice", 0)
	ledger.SetBalance("bob", 0)

	already, err := DistributePrize(ctx, ledger, "room-1", 11, []string{"alice", "bob"})
	require.NoError(t, err)
	assert.False(t, already)

	a, _ := ledger.Balance(ctx, "alice")
	b, _ := ledger.Balance(ctx, "bob")
	assert.Equal(t, 6, a, "first winner takes the remainder unit")
	assert.Equal(t, 5, b)

	// Second dispatch for the same room is a no-op
	already, err = DistributePrize(ctx, ledger, "room-1", 11, []string{"alice", "bob"})
	require.NoError(t, err)
	assert.True(t, already)

	a, _ = ledger.Balance(ctx, "alice")
	b, _ = ledger.Balance(ctx, "bob")
	assert.Equal(t, 6, a)
	assert.Equal(t, 5, b)
}

func TestDistributePrizeDifferentRoomsIndependent(t *testing.T) {
	ctx := context.Background()
	ledger := wallet.NewMemLedger()
	ledger.SetBalance("alice", 0)

	_, err := DistributePrize(ctx, ledger, "room-1", 4, []string{"alice"})
	require.NoError(t, err)
	_, err = DistributePrize(ctx, ledger, "room-2", 6, []string{"alice"})
	require.NoError(t, err)

	a, _ := ledger.Balance(ctx, "alice")
	assert.Equal(t, 10, a)
}

func TestDistributePrizeNoWinners(t *testing.T) {
	_, err := DistributePrize(context.Background(), wallet.NewMemLedger(), "room-1", 10, nil)
	assert.ErrorIs(t, err, ErrNoWinners)
}
