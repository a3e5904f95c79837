package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"defi-portfolio-lab/internal/observability"
	"defi-portfolio-lab/internal/storage"
)

// PortfolioSnapshotStore implements storage.PortfolioSnapshotStore using
// PostgreSQL. The full report is kept as JSONB next to the indexed totals,
// so historical snapshots survive report-shape additions.
type PortfolioSnapshotStore struct {
	pool *Pool
}

// NewPortfolioSnapshotStore creates a new PortfolioSnapshotStore.
func NewPortfolioSnapshotStore(pool *Pool) *PortfolioSnapshotStore {
	return &PortfolioSnapshotStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PortfolioSnapshotStore = (*PortfolioSnapshotStore)(nil)

// Insert adds one snapshot. Returns ErrDuplicateKey if (user, block) exists.
func (s *PortfolioSnapshotStore) Insert(ctx context.Context, snap *storage.PortfolioSnapshot) error {
	if snap == nil || snap.User == "" {
		return storage.ErrInvalidInput
	}

	report, err := json.Marshal(snap.Report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	query := `
		INSERT INTO portfolio_snapshots (
			user_address, block, taken_at,
			invested_usd, withdrawn_usd, harvested_usd, pending_usd,
			current_value_usd, profit_loss_usd, positions, excluded, report
		) VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7::numeric,
			$8::numeric, $9::numeric, $10, $11, $12)
	`

	totals := snap.Report.Totals
	start := time.Now()
	_, err = s.pool.Exec(ctx, query,
		snap.User,
		snap.Block,
		snap.TakenAt,
		totals.InvestedUSD.String(),
		totals.WithdrawnUSD.String(),
		totals.HarvestedUSD.String(),
		decimalText(totals.PendingUSD),
		totals.CurrentValueUSD.String(),
		decimalText(totals.ProfitLossUSD),
		totals.Positions,
		snap.Report.Excluded,
		report,
	)
	// Duplicates are an expected append-only outcome, not a query error.
	metricErr := err
	if isDuplicateKeyError(err) {
		metricErr = nil
	}
	observability.RecordDBQuery("postgres", "insert_snapshot", time.Since(start).Seconds(), metricErr)

	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert portfolio snapshot: %w", err)
	}
	return nil
}

// GetLatest retrieves the user's most recent snapshot by block.
func (s *PortfolioSnapshotStore) GetLatest(ctx context.Context, user string) (*storage.PortfolioSnapshot, error) {
	query := `
		SELECT user_address, block, taken_at, report
		FROM portfolio_snapshots
		WHERE user_address = $1
		ORDER BY block DESC
		LIMIT 1
	`

	start := time.Now()
	snap, err := scanSnapshot(s.pool.QueryRow(ctx, query, user))
	metricErr := err
	if isNotFoundError(err) {
		metricErr = nil
	}
	observability.RecordDBQuery("postgres", "get_latest_snapshot", time.Since(start).Seconds(), metricErr)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}
	return snap, nil
}

// GetByUser retrieves the user's snapshots taken within [start, end].
func (s *PortfolioSnapshotStore) GetByUser(ctx context.Context, user string, start, end time.Time) ([]*storage.PortfolioSnapshot, error) {
	query := `
		SELECT user_address, block, taken_at, report
		FROM portfolio_snapshots
		WHERE user_address = $1 AND taken_at >= $2 AND taken_at <= $3
		ORDER BY block ASC
	`

	queryStart := time.Now()
	rows, err := s.pool.Query(ctx, query, user, start, end)
	observability.RecordDBQuery("postgres", "get_snapshots_by_user", time.Since(queryStart).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("get snapshots by user: %w", err)
	}
	defer rows.Close()

	var result []*storage.PortfolioSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		result = append(result, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*storage.PortfolioSnapshot, error) {
	var snap storage.PortfolioSnapshot
	var report []byte
	if err := row.Scan(&snap.User, &snap.Block, &snap.TakenAt, &report); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(report, &snap.Report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &snap, nil
}

// decimalText renders an optional decimal for a nullable numeric column.
func decimalText(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
