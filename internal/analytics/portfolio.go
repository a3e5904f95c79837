package analytics

import (
	"github.com/shopspring/decimal"

	"defi-portfolio-lab/internal/domain"
	"defi-portfolio-lab/internal/engine"
)

// BuildReport computes the per-user portfolio view from one snapshot.
//
// Positions whose pair is missing from the snapshot, or whose pair has no
// supply, are excluded from both the breakdown and the totals fold and
// counted in Excluded. Zero-filling them would fabricate a total loss for
// what is usually an indexer lag, so their flows never enter the fold.
//
// When the reward token is unpriced the ledger-derived totals are still
// computed; pending and profit/loss come back nil.
func BuildReport(user string, snap *domain.Snapshot) domain.PortfolioReport {
	report := domain.PortfolioReport{
		User:      user,
		Positions: make([]domain.PositionReport, 0, len(snap.Positions)),
		Block:     snap.Timing.LatestBlock,
	}

	priceUSD, priceErr := engine.RewardPriceUSD(snap.Prices)
	priced := priceErr == nil

	flows := make([]engine.PositionFlow, 0, len(snap.Positions))

	for _, pos := range snap.Positions {
		pair, ok := snap.Pairs[pos.PairID]
		if !ok {
			report.Excluded++
			continue
		}

		row, flow, err := buildPosition(pos, pair)
		if err != nil {
			report.Excluded++
			continue
		}

		if priced {
			pendingUSD := row.PendingReward.Mul(priceUSD)
			row.PendingRewardUSD = &pendingUSD
			flow.PendingUSD = pendingUSD

			profitLoss := flow.ValueUSD.
				Add(flow.ExitUSD).
				Add(flow.HarvestedUSD).
				Add(pendingUSD).
				Sub(flow.EntryUSD)
			row.ProfitLossUSD = &profitLoss
		}

		report.Positions = append(report.Positions, *row)
		flows = append(flows, flow)
	}

	if priced {
		report.Totals = engine.Aggregate(flows)
	} else {
		report.Totals = engine.AggregateLedgers(flows)
	}

	if snap.Bar != nil {
		var barPrice *decimal.Decimal
		if priced {
			barPrice = &priceUSD
		}
		bar := engine.BarReportFor(*snap.Bar, barPrice, snap.Timing)
		report.Bar = &bar
	}

	return report
}

// buildPosition computes the price-independent view of one position and its
// cash-flow summary for the fold.
func buildPosition(pos domain.PoolPosition, pair domain.Pair) (*domain.PositionReport, engine.PositionFlow, error) {
	amount, err := engine.Normalize(pos.Amount, domain.LPTokenDecimals)
	if err != nil {
		return nil, engine.PositionFlow{}, err
	}

	share, err := engine.Share(amount, pair.TotalSupply)
	if err != nil {
		return nil, engine.PositionFlow{}, err
	}
	breakdown := engine.BreakdownShare(pair, share)

	pending, err := engine.PendingReward(pos.Amount, pos.AccRewardPerShare, pos.RewardDebt, domain.LPTokenDecimals)
	if err != nil {
		return nil, engine.PositionFlow{}, err
	}

	row := &domain.PositionReport{
		PoolID:       pos.PoolID,
		PairID:       pair.ID,
		Token0Symbol: pair.Token0.Symbol,
		Token1Symbol: pair.Token1.Symbol,

		LPAmount:     amount,
		Share:        breakdown.Share,
		Token0Amount: breakdown.Token0Amount,
		Token1Amount: breakdown.Token1Amount,
		ValueUSD:     breakdown.ValueUSD,

		PendingReward: pending,

		EntryUSD:     pos.EntryUSD,
		ExitUSD:      pos.ExitUSD,
		Harvested:    pos.RewardHarvested,
		HarvestedUSD: pos.RewardHarvestedUSD,
	}

	flow := engine.PositionFlow{
		EntryUSD:     pos.EntryUSD,
		ExitUSD:      pos.ExitUSD,
		HarvestedUSD: pos.RewardHarvestedUSD,
		ValueUSD:     breakdown.ValueUSD,
	}

	return row, flow, nil
}
