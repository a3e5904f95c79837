package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/shopspring/decimal"

	"defi-portfolio-lab/internal/observability"
	"defi-portfolio-lab/internal/storage"
)

// PoolYieldHistoryStore implements storage.PoolYieldHistoryStore using
// ClickHouse.
type PoolYieldHistoryStore struct {
	conn *Conn
}

// NewPoolYieldHistoryStore creates a new PoolYieldHistoryStore.
func NewPoolYieldHistoryStore(conn *Conn) *PoolYieldHistoryStore {
	return &PoolYieldHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PoolYieldHistoryStore = (*PoolYieldHistoryStore)(nil)

const yieldColumns = `
	pool_id, pair_id, token0_symbol, token1_symbol, block, observed_at,
	pool_weight, reward_per_block, staked_balance,
	tvl_usd, reward_per_day, roi_per_year, reward_per_thousand
`

// InsertBulk appends one refresh cycle's observations. MergeTree does not
// enforce uniqueness, so duplicates against existing rows are checked
// explicitly before the batch is sent.
func (s *PoolYieldHistoryStore) InsertBulk(ctx context.Context, records []*storage.PoolYieldRecord) error {
	if len(records) == 0 {
		return nil
	}

	type key struct {
		poolID string
		block  int64
	}
	seen := make(map[key]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.PoolID == "" {
			return storage.ErrInvalidInput
		}
		k := key{r.PoolID, r.Block}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, r := range records {
		exists, err := s.exists(ctx, r.PoolID, r.Block)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO pool_yield_history ("+yieldColumns+")")
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		err = batch.Append(
			r.PoolID, r.PairID, r.Token0Symbol, r.Token1Symbol,
			uint64(r.Block), r.ObservedAt,
			r.PoolWeight, r.RewardPerBlock, r.StakedBalance,
			r.TVLUSD, r.RewardPerDay, r.ROIPerYear, r.RewardPerThousand,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	start := time.Now()
	err = batch.Send()
	observability.RecordDBQuery("clickhouse", "insert_yield_history", time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByPoolID retrieves all observations for a pool, ordered by block ASC.
func (s *PoolYieldHistoryStore) GetByPoolID(ctx context.Context, poolID string) ([]*storage.PoolYieldRecord, error) {
	query := `
		SELECT ` + yieldColumns + `
		FROM pool_yield_history
		WHERE pool_id = ?
		ORDER BY block ASC
	`

	start := time.Now()
	rows, err := s.conn.Query(ctx, query, poolID)
	observability.RecordDBQuery("clickhouse", "get_yield_by_pool", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("query by pool id: %w", err)
	}
	defer rows.Close()

	return scanYieldRecords(rows)
}

// GetByTimeRange retrieves observations for a pool within [start, end].
func (s *PoolYieldHistoryStore) GetByTimeRange(ctx context.Context, poolID string, start, end time.Time) ([]*storage.PoolYieldRecord, error) {
	query := `
		SELECT ` + yieldColumns + `
		FROM pool_yield_history
		WHERE pool_id = ? AND observed_at >= ? AND observed_at <= ?
		ORDER BY block ASC
	`

	queryStart := time.Now()
	rows, err := s.conn.Query(ctx, query, poolID, start, end)
	observability.RecordDBQuery("clickhouse", "get_yield_by_time_range", time.Since(queryStart).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanYieldRecords(rows)
}

func (s *PoolYieldHistoryStore) exists(ctx context.Context, poolID string, block int64) (bool, error) {
	query := `SELECT count(*) FROM pool_yield_history WHERE pool_id = ? AND block = ?`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, poolID, uint64(block)).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanYieldRecords(rows driver.Rows) ([]*storage.PoolYieldRecord, error) {
	var records []*storage.PoolYieldRecord

	for rows.Next() {
		var r storage.PoolYieldRecord
		var block uint64
		var tvl, perDay, roiYear, perThousand *decimal.Decimal

		err := rows.Scan(
			&r.PoolID, &r.PairID, &r.Token0Symbol, &r.Token1Symbol,
			&block, &r.ObservedAt,
			&r.PoolWeight, &r.RewardPerBlock, &r.StakedBalance,
			&tvl, &perDay, &roiYear, &perThousand,
		)
		if err != nil {
			return nil, fmt.Errorf("scan yield history row: %w", err)
		}

		r.Block = int64(block)
		r.TVLUSD = tvl
		r.RewardPerDay = perDay
		r.ROIPerYear = roiYear
		r.RewardPerThousand = perThousand
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate yield history rows: %w", err)
	}
	return records, nil
}
