package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"defi-portfolio-lab/internal/domain"
)

var (
	secondsPerDay   = decimal.NewFromInt(86400)
	daysPerYearFull = decimal.NewFromInt(365)
)

// BarPending converts a vault share balance into the underlying reward
// tokens it currently redeems for:
//
//	pending = shareBalance * vaultStaked / vaultTotalSupply
//
// An empty vault (zero total supply) leaves the conversion undefined.
func BarPending(pos domain.BarPosition) (decimal.Decimal, error) {
	if pos.Bar.TotalSupply.IsNegative() || pos.ShareBalance.IsNegative() {
		return decimal.Zero, fmt.Errorf("bar pending: negative input: %w", ErrMalformedInput)
	}
	if pos.Bar.TotalSupply.IsZero() {
		return decimal.Zero, ErrNoSupply
	}
	return pos.ShareBalance.Mul(pos.Bar.Staked).Div(pos.Bar.TotalSupply), nil
}

// BarReturnTokens computes the position's all-time return in reward tokens:
// what the shares redeem for now minus the net tokens the user put in
// (deposits less harvests, plus transfers in, minus transfers out).
func BarReturnTokens(pos domain.BarPosition, pending decimal.Decimal) decimal.Decimal {
	netIn := pos.Staked.Sub(pos.Harvested).Add(pos.TokensIn).Sub(pos.TokensOut)
	return pending.Sub(netIn)
}

// BarReturnUSD computes the all-time return in fiat terms from the USD
// ledgers and the pending value.
func BarReturnUSD(pos domain.BarPosition, pendingUSD decimal.Decimal) decimal.Decimal {
	netIn := pos.StakedUSD.Sub(pos.HarvestedUSD).Add(pos.USDIn).Sub(pos.USDOut)
	return pendingUSD.Sub(netIn)
}

// BarDailyReturn periodizes an all-time token return into a per-day rate
// using the block distance since the position last changed and the observed
// block time. The latest block being unknown, the position being updated at
// or after it, or a non-positive block time all leave the rate undefined.
func BarDailyReturn(returnTokens decimal.Decimal, updatedAtBlock, latestBlock int64, averageBlockTime decimal.Decimal) (decimal.Decimal, error) {
	if !averageBlockTime.IsPositive() {
		return decimal.Zero, fmt.Errorf("bar daily return: block time %s: %w", averageBlockTime, ErrMalformedInput)
	}
	if latestBlock <= 0 || updatedAtBlock <= 0 || latestBlock <= updatedAtBlock {
		return decimal.Zero, ErrNoTiming
	}
	blockDiff := decimal.NewFromInt(latestBlock - updatedAtBlock)
	blocksPerDay := secondsPerDay.Div(averageBlockTime)
	return returnTokens.Div(blockDiff).Mul(blocksPerDay), nil
}

// BarReportFor computes the full vault view for one position. Price may be nil
// when the reward token is unpriced; USD fields are then left unavailable.
func BarReportFor(pos domain.BarPosition, rewardPriceUSD *decimal.Decimal, timing domain.ChainTiming) domain.BarReport {
	report := domain.BarReport{
		ShareBalance: pos.ShareBalance,
		Staked:       pos.Staked,
		StakedUSD:    pos.StakedUSD,
		Harvested:    pos.Harvested,
		HarvestedUSD: pos.HarvestedUSD,
	}

	pending, err := BarPending(pos)
	if err != nil {
		return report
	}
	report.Pending = &pending

	if rewardPriceUSD != nil {
		pendingUSD := pending.Mul(*rewardPriceUSD)
		report.PendingUSD = &pendingUSD

		returnUSD := BarReturnUSD(pos, pendingUSD)
		report.ReturnUSD = &returnUSD
	}

	returnTokens := BarReturnTokens(pos, pending)
	report.ReturnTokens = &returnTokens

	daily, err := BarDailyReturn(returnTokens, pos.UpdatedAtBlock, timing.LatestBlock, timing.AverageBlockTime)
	if err != nil {
		return report
	}
	monthly := daily.Mul(daysPerMonth)
	yearly := daily.Mul(daysPerYearFull)
	report.DailyROITokens = &daily
	report.MonthlyROITokens = &monthly
	report.YearlyROITokens = &yearly

	return report
}
