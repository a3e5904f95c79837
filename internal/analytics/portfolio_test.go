package analytics

import (
	"testing"

	"github.com/shopspring/decimal"

	"defi-portfolio-lab/internal/domain"
)

func testPosition() domain.PoolPosition {
	return domain.PoolPosition{
		PoolID:             "3",
		PairID:             "0xfarmpair",
		AllocPoint:         dec("100"),
		AccRewardPerShare:  dec("5000000000000"),          // 5e12
		Amount:             dec("1000000000000000000000"), // 1000 LP
		RewardDebt:         dec("2000000000000000000000"), // 2e21
		EntryUSD:           dec("15000"),
		ExitUSD:            dec("1000"),
		RewardHarvested:    dec("50"),
		RewardHarvestedUSD: dec("90"),
	}
}

func userSnapshot() *domain.Snapshot {
	pair := testPair()
	pair.ID = "0xfarmpair"
	pair.TotalSupply = dec("2000")
	pair.ReserveUSD = dec("40000")
	return &domain.Snapshot{
		Pairs:     map[string]domain.Pair{"0xfarmpair": pair},
		Positions: []domain.PoolPosition{testPosition()},
		Prices:    domain.PriceBundle{ReferencePriceUSD: decPtr("20"), RewardDerivedRatio: decPtr("0.1")},
		Timing:    domain.ChainTiming{AverageBlockTime: dec("2"), LatestBlock: 100000},
	}
}

func TestBuildReport(t *testing.T) {
	report := BuildReport("0xuser", userSnapshot())

	if report.User != "0xuser" {
		t.Errorf("user = %s", report.User)
	}
	if report.Block != 100000 {
		t.Errorf("block = %d, want 100000", report.Block)
	}
	if len(report.Positions) != 1 {
		t.Fatalf("positions = %d, want 1", len(report.Positions))
	}

	pos := report.Positions[0]
	if !pos.LPAmount.Equal(dec("1000")) {
		t.Errorf("lp amount = %s, want 1000", pos.LPAmount)
	}
	if !pos.Share.Equal(dec("0.5")) {
		t.Errorf("share = %s, want 0.5", pos.Share)
	}
	if !pos.Token0Amount.Equal(dec("200")) || !pos.Token1Amount.Equal(dec("2500")) {
		t.Errorf("reserves = %s/%s, want 200/2500", pos.Token0Amount, pos.Token1Amount)
	}
	if !pos.ValueUSD.Equal(dec("20000")) {
		t.Errorf("value = %s, want 20000", pos.ValueUSD)
	}

	// (1e21 * 5e12)/1e12 - 2e21 = 3e21 base units = 3000 tokens at $2.
	if !pos.PendingReward.Equal(dec("3000")) {
		t.Errorf("pending = %s, want 3000", pos.PendingReward)
	}
	if pos.PendingRewardUSD == nil || !pos.PendingRewardUSD.Equal(dec("6000")) {
		t.Errorf("pending usd = %v, want 6000", pos.PendingRewardUSD)
	}

	// 20000 + 1000 + 90 + 6000 - 15000.
	if pos.ProfitLossUSD == nil || !pos.ProfitLossUSD.Equal(dec("12090")) {
		t.Errorf("position p&l = %v, want 12090", pos.ProfitLossUSD)
	}

	totals := report.Totals
	if totals.Positions != 1 {
		t.Errorf("included = %d, want 1", totals.Positions)
	}
	if !totals.InvestedUSD.Equal(dec("15000")) || !totals.WithdrawnUSD.Equal(dec("1000")) {
		t.Errorf("ledgers = %s/%s", totals.InvestedUSD, totals.WithdrawnUSD)
	}
	if !totals.CurrentValueUSD.Equal(dec("20000")) {
		t.Errorf("value = %s, want 20000", totals.CurrentValueUSD)
	}
	if totals.PendingUSD == nil || !totals.PendingUSD.Equal(dec("6000")) {
		t.Errorf("pending = %v, want 6000", totals.PendingUSD)
	}
	if totals.ProfitLossUSD == nil || !totals.ProfitLossUSD.Equal(dec("12090")) {
		t.Errorf("p&l = %v, want 12090", totals.ProfitLossUSD)
	}
}

func TestBuildReport_MissingPairExcluded(t *testing.T) {
	snap := userSnapshot()
	orphan := testPosition()
	orphan.PoolID = "7"
	orphan.PairID = "0xunknown"
	snap.Positions = append(snap.Positions, orphan)

	report := BuildReport("0xuser", snap)

	if report.Excluded != 1 {
		t.Errorf("excluded = %d, want 1", report.Excluded)
	}
	if len(report.Positions) != 1 {
		t.Fatalf("positions = %d, want 1", len(report.Positions))
	}
	// The orphan contributes nothing, not zeros.
	if !report.Totals.InvestedUSD.Equal(dec("15000")) {
		t.Errorf("invested = %s, want 15000", report.Totals.InvestedUSD)
	}
	if report.Totals.ProfitLossUSD == nil || !report.Totals.ProfitLossUSD.Equal(dec("12090")) {
		t.Errorf("p&l = %v, want 12090", report.Totals.ProfitLossUSD)
	}
}

func TestBuildReport_ZeroSupplyPairExcluded(t *testing.T) {
	snap := userSnapshot()
	pair := snap.Pairs["0xfarmpair"]
	pair.TotalSupply = decimal.Zero
	snap.Pairs["0xfarmpair"] = pair

	report := BuildReport("0xuser", snap)

	if report.Excluded != 1 {
		t.Errorf("excluded = %d, want 1", report.Excluded)
	}
	if len(report.Positions) != 0 {
		t.Errorf("positions = %d, want 0", len(report.Positions))
	}
	if report.Totals.Positions != 0 {
		t.Errorf("included = %d, want 0", report.Totals.Positions)
	}
}

func TestBuildReport_NoRewardPrice(t *testing.T) {
	snap := userSnapshot()
	snap.Prices.ReferencePriceUSD = nil

	report := BuildReport("0xuser", snap)

	pos := report.Positions[0]
	if !pos.PendingReward.Equal(dec("3000")) {
		t.Errorf("pending = %s, want 3000", pos.PendingReward)
	}
	if pos.PendingRewardUSD != nil || pos.ProfitLossUSD != nil {
		t.Error("priced fields available without a reward price")
	}

	totals := report.Totals
	if totals.PendingUSD != nil || totals.ProfitLossUSD != nil {
		t.Error("priced totals available without a reward price")
	}
	if !totals.InvestedUSD.Equal(dec("15000")) || !totals.CurrentValueUSD.Equal(dec("20000")) {
		t.Errorf("ledger totals = %s/%s", totals.InvestedUSD, totals.CurrentValueUSD)
	}
}

func TestBuildReport_Bar(t *testing.T) {
	snap := userSnapshot()
	snap.Bar = &domain.BarPosition{
		ShareBalance:   dec("100"),
		Staked:         dec("100"),
		StakedUSD:      dec("150"),
		Harvested:      dec("10"),
		HarvestedUSD:   dec("30"),
		UpdatedAtBlock: 99000,
		Bar:            domain.Bar{Staked: dec("1100"), TotalSupply: dec("1000")},
	}

	report := BuildReport("0xuser", snap)

	if report.Bar == nil {
		t.Fatal("bar report missing")
	}
	if report.Bar.Pending == nil || !report.Bar.Pending.Equal(dec("110")) {
		t.Errorf("bar pending = %v, want 110", report.Bar.Pending)
	}
	if report.Bar.PendingUSD == nil || !report.Bar.PendingUSD.Equal(dec("220")) {
		t.Errorf("bar pending usd = %v, want 220", report.Bar.PendingUSD)
	}
	if report.Bar.DailyROITokens == nil {
		t.Error("bar daily roi missing with timing available")
	}
}

func TestBuildReport_NoPositions(t *testing.T) {
	snap := userSnapshot()
	snap.Positions = nil

	report := BuildReport("0xuser", snap)

	if len(report.Positions) != 0 || report.Excluded != 0 {
		t.Errorf("positions = %d excluded = %d", len(report.Positions), report.Excluded)
	}
	if !report.Totals.InvestedUSD.IsZero() {
		t.Errorf("invested = %s, want 0", report.Totals.InvestedUSD)
	}
	if report.Totals.PendingUSD == nil || !report.Totals.PendingUSD.IsZero() {
		t.Errorf("pending = %v, want 0", report.Totals.PendingUSD)
	}
}
