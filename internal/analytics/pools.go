// Package analytics orchestrates the valuation engine over snapshots for
// the two dashboard views: the pool listing and the per-user portfolio.
// It owns reference joining, policy filtering, and data-quality tallies;
// all arithmetic lives in the engine.
package analytics

import (
	"errors"

	"defi-portfolio-lab/internal/domain"
	"defi-portfolio-lab/internal/engine"
)

// PoolsResult is the enriched pool listing plus its data-quality tallies.
type PoolsResult struct {
	Rows []domain.PoolYield

	// MissingPairs counts pools skipped because the exchange subgraph has
	// no pair for them yet, keyed by pair id. Common for freshly added
	// pools; recorded instead of silently dropped.
	MissingPairs map[string]int

	// Malformed counts pools rejected for contract violations (negative
	// amounts, zero total allocation).
	Malformed int
}

// EnrichPools computes the pool-listing view from one snapshot. Pools are
// filtered by policy, joined with their pairs, and enriched with weight,
// TVL, yield and ROI projections. Rows degrade per-metric: a missing
// reward price withholds ROI but not token-denominated rewards, a
// zero-supply pair withholds TVL but not emission schedules.
func EnrichPools(snap *domain.Snapshot, policy domain.PoolFilterPolicy) PoolsResult {
	result := PoolsResult{
		Rows:         make([]domain.PoolYield, 0, len(snap.Pools)),
		MissingPairs: make(map[string]int),
	}

	priceUSD, priceErr := engine.RewardPriceUSD(snap.Prices)

	for _, pool := range snap.Pools {
		if !policy.Allows(pool) {
			continue
		}

		pair, ok := snap.Pairs[pool.PairID]
		if !ok {
			result.MissingPairs[pool.PairID]++
			continue
		}

		row, err := enrichPool(pool, pair, snap.Timing)
		if err != nil {
			result.Malformed++
			continue
		}

		if priceErr == nil && row.Rewards != nil && row.TVLUSD != nil {
			if roi, err := engine.ProjectROI(*row.Rewards, priceUSD, *row.TVLUSD); err == nil {
				row.ROI = &roi
			}
		}

		result.Rows = append(result.Rows, *row)
	}

	return result
}

// enrichPool computes the price-independent metrics for a single pool.
func enrichPool(pool domain.Pool, pair domain.Pair, timing domain.ChainTiming) (*domain.PoolYield, error) {
	if !pool.Owner.TotalAllocPoint.IsPositive() {
		return nil, engine.ErrMalformedInput
	}
	weight := pool.AllocPoint.Div(pool.Owner.TotalAllocPoint)

	farmRewardPerBlock, err := engine.Normalize(pool.Owner.RewardPerBlock, domain.LPTokenDecimals)
	if err != nil {
		return nil, err
	}
	rewardPerBlock := weight.Mul(farmRewardPerBlock)

	stakedBalance, err := engine.Normalize(pool.Balance, domain.LPTokenDecimals)
	if err != nil {
		return nil, err
	}

	row := &domain.PoolYield{
		PoolID:         pool.ID,
		PairID:         pair.ID,
		Token0Symbol:   pair.Token0.Symbol,
		Token1Symbol:   pair.Token1.Symbol,
		PoolWeight:     weight,
		RewardPerBlock: rewardPerBlock,
		StakedBalance:  stakedBalance,
	}

	if sched, err := engine.ProjectYield(rewardPerBlock, timing.AverageBlockTime); err == nil {
		row.Rewards = &sched
	}

	share, err := engine.Share(stakedBalance, pair.TotalSupply)
	switch {
	case err == nil:
		tvl := pair.ReserveUSD.Mul(share)
		row.TVLUSD = &tvl
		if perThousand, err := engine.RewardPerThousand(rewardPerBlock, tvl); err == nil {
			row.RewardPerThousand = &perThousand
		}
	case errors.Is(err, engine.ErrNoSupply):
		// TVL and the ratios stay unavailable; emissions are still real.
	default:
		return nil, err
	}

	return row, nil
}
