package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defi-portfolio-lab/internal/domain"
	"defi-portfolio-lab/internal/storage"
	"defi-portfolio-lab/internal/storage/postgres"
)

func testSnapshot(user string, block int64, takenAt time.Time) *storage.PortfolioSnapshot {
	pending := decimal.NewFromInt(6000)
	pl := decimal.NewFromInt(12090)
	return &storage.PortfolioSnapshot{
		User:    user,
		Block:   block,
		TakenAt: takenAt,
		Report: domain.PortfolioReport{
			User:  user,
			Block: block,
			Totals: domain.PortfolioTotals{
				InvestedUSD:     decimal.NewFromInt(15000),
				WithdrawnUSD:    decimal.NewFromInt(1000),
				HarvestedUSD:    decimal.NewFromInt(90),
				PendingUSD:      &pending,
				CurrentValueUSD: decimal.NewFromInt(20000),
				ProfitLossUSD:   &pl,
				Positions:       1,
			},
			Positions: []domain.PositionReport{{
				PoolID:        "3",
				PairID:        "0xpair",
				Token0Symbol:  "WAVAX",
				Token1Symbol:  "USDC",
				LPAmount:      decimal.NewFromInt(1000),
				Share:         decimal.RequireFromString("0.5"),
				ValueUSD:      decimal.NewFromInt(20000),
				PendingReward: decimal.NewFromInt(3000),
			}},
		},
	}
}

func TestPortfolioSnapshotStore_InsertAndGetLatest(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewPortfolioSnapshotStore(pool)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, testSnapshot("0xuser", 100000, base)))
	require.NoError(t, store.Insert(ctx, testSnapshot("0xuser", 100400, base.Add(time.Hour))))

	latest, err := store.GetLatest(ctx, "0xuser")
	require.NoError(t, err)

	assert.Equal(t, "0xuser", latest.User)
	assert.Equal(t, int64(100400), latest.Block)
	assert.True(t, latest.Report.Totals.InvestedUSD.Equal(decimal.NewFromInt(15000)))
	require.NotNil(t, latest.Report.Totals.ProfitLossUSD)
	assert.True(t, latest.Report.Totals.ProfitLossUSD.Equal(decimal.NewFromInt(12090)))
	require.Len(t, latest.Report.Positions, 1)
	assert.True(t, latest.Report.Positions[0].Share.Equal(decimal.RequireFromString("0.5")))
}

func TestPortfolioSnapshotStore_GetLatestNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewPortfolioSnapshotStore(pool)

	_, err := store.GetLatest(context.Background(), "0xnobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPortfolioSnapshotStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewPortfolioSnapshotStore(pool)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, testSnapshot("0xuser", 100000, base)))

	err := store.Insert(ctx, testSnapshot("0xuser", 100000, base.Add(time.Minute)))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Same block, different user is a distinct key.
	require.NoError(t, store.Insert(ctx, testSnapshot("0xother", 100000, base)))
}

func TestPortfolioSnapshotStore_UnpricedTotals(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewPortfolioSnapshotStore(pool)
	ctx := context.Background()

	snap := testSnapshot("0xuser", 100000, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	snap.Report.Totals.PendingUSD = nil
	snap.Report.Totals.ProfitLossUSD = nil
	require.NoError(t, store.Insert(ctx, snap))

	latest, err := store.GetLatest(ctx, "0xuser")
	require.NoError(t, err)
	assert.Nil(t, latest.Report.Totals.PendingUSD)
	assert.Nil(t, latest.Report.Totals.ProfitLossUSD)
}

func TestPortfolioSnapshotStore_GetByUser(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewPortfolioSnapshotStore(pool)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, block := range []int64{100000, 100200, 100400} {
		snap := testSnapshot("0xuser", block, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, store.Insert(ctx, snap))
	}
	require.NoError(t, store.Insert(ctx, testSnapshot("0xother", 100000, base)))

	result, err := store.GetByUser(ctx, "0xuser", base, base.Add(time.Hour))
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, int64(100000), result[0].Block)
	assert.Equal(t, int64(100200), result[1].Block)
}
