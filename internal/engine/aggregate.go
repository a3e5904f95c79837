package engine

import (
	"github.com/shopspring/decimal"

	"defi-portfolio-lab/internal/domain"
)

// PositionFlow is the cash-flow summary of one position fed to the
// portfolio fold. Callers build one per position that has all required
// references resolved; positions with missing references are excluded
// before the fold, never zero-filled.
type PositionFlow struct {
	EntryUSD     decimal.Decimal // cumulative deposits
	ExitUSD      decimal.Decimal // cumulative withdrawals
	HarvestedUSD decimal.Decimal // cumulative harvests at harvest-time value
	PendingUSD   decimal.Decimal // unclaimed rewards at current prices
	ValueUSD     decimal.Decimal // current position value
}

// Aggregate folds position flows into portfolio totals. Decimal addition is
// exact, so the result is independent of position order. Every flow passed
// in must have its pending value resolved; callers without a reward price
// use AggregateLedgers instead.
//
//	profitLoss = currentValue + withdrawn + harvested + pending - invested
func Aggregate(flows []PositionFlow) domain.PortfolioTotals {
	totals := AggregateLedgers(flows)
	pending := decimal.Zero
	for _, f := range flows {
		pending = pending.Add(f.PendingUSD)
	}
	profitLoss := totals.CurrentValueUSD.
		Add(totals.WithdrawnUSD).
		Add(totals.HarvestedUSD).
		Add(pending).
		Sub(totals.InvestedUSD)
	totals.PendingUSD = &pending
	totals.ProfitLossUSD = &profitLoss
	return totals
}

// AggregateLedgers folds only the ledger-derived totals, leaving the
// price-dependent pending and profit/loss fields unavailable.
func AggregateLedgers(flows []PositionFlow) domain.PortfolioTotals {
	totals := domain.PortfolioTotals{Positions: len(flows)}
	for _, f := range flows {
		totals.InvestedUSD = totals.InvestedUSD.Add(f.EntryUSD)
		totals.WithdrawnUSD = totals.WithdrawnUSD.Add(f.ExitUSD)
		totals.HarvestedUSD = totals.HarvestedUSD.Add(f.HarvestedUSD)
		totals.CurrentValueUSD = totals.CurrentValueUSD.Add(f.ValueUSD)
	}
	return totals
}
