package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"defi-portfolio-lab/internal/storage"
)

func yieldRecord(poolID string, block int64, observedAt time.Time) *storage.PoolYieldRecord {
	tvl := decimal.NewFromInt(20000)
	return &storage.PoolYieldRecord{
		PoolID:         poolID,
		PairID:         "0xpair",
		Token0Symbol:   "WAVAX",
		Token1Symbol:   "USDC",
		Block:          block,
		ObservedAt:     observedAt,
		PoolWeight:     decimal.RequireFromString("0.1"),
		RewardPerBlock: decimal.RequireFromString("0.1"),
		StakedBalance:  decimal.NewFromInt(1000),
		TVLUSD:         &tvl,
	}
}

func TestPoolYieldHistoryStore_InsertBulkAndGet(t *testing.T) {
	store := NewPoolYieldHistoryStore()
	ctx := context.Background()
	base := time.Unix(1700000000, 0).UTC()

	records := []*storage.PoolYieldRecord{
		yieldRecord("3", 100200, base.Add(time.Hour)),
		yieldRecord("3", 100000, base),
		yieldRecord("7", 100000, base),
	}
	if err := store.InsertBulk(ctx, records); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByPoolID(ctx, "3")
	if err != nil {
		t.Fatalf("GetByPoolID failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(result))
	}
	if result[0].Block != 100000 || result[1].Block != 100200 {
		t.Errorf("Expected block ASC order, got %d, %d", result[0].Block, result[1].Block)
	}
	if result[0].TVLUSD == nil || !result[0].TVLUSD.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("TVL = %v, want 20000", result[0].TVLUSD)
	}
}

func TestPoolYieldHistoryStore_DuplicateKey(t *testing.T) {
	store := NewPoolYieldHistoryStore()
	ctx := context.Background()
	base := time.Unix(1700000000, 0).UTC()

	if err := store.InsertBulk(ctx, []*storage.PoolYieldRecord{yieldRecord("3", 100000, base)}); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, []*storage.PoolYieldRecord{yieldRecord("3", 100000, base)})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestPoolYieldHistoryStore_IntraBatchDuplicate(t *testing.T) {
	store := NewPoolYieldHistoryStore()
	ctx := context.Background()
	base := time.Unix(1700000000, 0).UTC()

	err := store.InsertBulk(ctx, []*storage.PoolYieldRecord{
		yieldRecord("3", 100000, base),
		yieldRecord("3", 100000, base),
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// Failed batch must not be partially applied.
	result, err := store.GetByPoolID(ctx, "3")
	if err != nil {
		t.Fatalf("GetByPoolID failed: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("Expected 0 records after failed batch, got %d", len(result))
	}
}

func TestPoolYieldHistoryStore_GetByTimeRange(t *testing.T) {
	store := NewPoolYieldHistoryStore()
	ctx := context.Background()
	base := time.Unix(1700000000, 0).UTC()

	records := []*storage.PoolYieldRecord{
		yieldRecord("3", 100000, base),
		yieldRecord("3", 100200, base.Add(time.Hour)),
		yieldRecord("3", 100400, base.Add(2*time.Hour)),
	}
	if err := store.InsertBulk(ctx, records); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByTimeRange(ctx, "3", base, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("Expected 2 records in range, got %d", len(result))
	}
}

func TestPoolYieldHistoryStore_InvalidInput(t *testing.T) {
	store := NewPoolYieldHistoryStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*storage.PoolYieldRecord{{PoolID: ""}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
