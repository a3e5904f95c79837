// Package storage defines the persistence interfaces for yield history and
// portfolio snapshots, with in-memory, PostgreSQL, and ClickHouse
// implementations in subpackages.
package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"defi-portfolio-lab/internal/domain"
)

// PoolYieldRecord is one observation of a pool's yield metrics, flattened
// for columnar storage. Nil pointer fields persist as NULL and mean the
// metric was unavailable at observation time, not zero.
type PoolYieldRecord struct {
	PoolID       string
	PairID       string
	Token0Symbol string
	Token1Symbol string

	Block      int64
	ObservedAt time.Time

	PoolWeight     decimal.Decimal
	RewardPerBlock decimal.Decimal
	StakedBalance  decimal.Decimal

	TVLUSD            *decimal.Decimal
	RewardPerDay      *decimal.Decimal
	ROIPerYear        *decimal.Decimal
	RewardPerThousand *decimal.Decimal
}

// NewPoolYieldRecord flattens an enriched pool row into its persisted form.
func NewPoolYieldRecord(row domain.PoolYield, block int64, observedAt time.Time) *PoolYieldRecord {
	rec := &PoolYieldRecord{
		PoolID:            row.PoolID,
		PairID:            row.PairID,
		Token0Symbol:      row.Token0Symbol,
		Token1Symbol:      row.Token1Symbol,
		Block:             block,
		ObservedAt:        observedAt,
		PoolWeight:        row.PoolWeight,
		RewardPerBlock:    row.RewardPerBlock,
		StakedBalance:     row.StakedBalance,
		TVLUSD:            row.TVLUSD,
		RewardPerThousand: row.RewardPerThousand,
	}
	if row.Rewards != nil {
		perDay := row.Rewards.RewardPerDay
		rec.RewardPerDay = &perDay
	}
	if row.ROI != nil {
		perYear := row.ROI.PerYear
		rec.ROIPerYear = &perYear
	}
	return rec
}

// PortfolioSnapshot is one user's computed portfolio report at a block.
type PortfolioSnapshot struct {
	User    string
	Block   int64
	TakenAt time.Time
	Report  domain.PortfolioReport
}

// PoolYieldHistoryStore provides access to pool_yield_history storage.
type PoolYieldHistoryStore interface {
	// InsertBulk appends one refresh cycle's observations. Fails the entire
	// batch on a duplicate (pool_id, block).
	InsertBulk(ctx context.Context, records []*PoolYieldRecord) error

	// GetByPoolID retrieves all observations for a pool, ordered by block ASC.
	GetByPoolID(ctx context.Context, poolID string) ([]*PoolYieldRecord, error)

	// GetByTimeRange retrieves observations for a pool within [start, end]
	// (inclusive), ordered by block ASC.
	GetByTimeRange(ctx context.Context, poolID string, start, end time.Time) ([]*PoolYieldRecord, error)
}

// PortfolioSnapshotStore provides access to portfolio_snapshots storage.
type PortfolioSnapshotStore interface {
	// Insert adds one snapshot. Returns ErrDuplicateKey if (user, block) exists.
	Insert(ctx context.Context, snap *PortfolioSnapshot) error

	// GetLatest retrieves the user's most recent snapshot by block.
	// Returns ErrNotFound if the user has none.
	GetLatest(ctx context.Context, user string) (*PortfolioSnapshot, error)

	// GetByUser retrieves the user's snapshots taken within [start, end]
	// (inclusive), ordered by block ASC.
	GetByUser(ctx context.Context, user string, start, end time.Time) ([]*PortfolioSnapshot, error)
}
