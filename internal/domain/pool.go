package domain

import "github.com/shopspring/decimal"

// Scaling constants for masterchef accounting fields.
const (
	// LPTokenDecimals is the fixed-point precision of LP and reward tokens.
	LPTokenDecimals = 18

	// AccRewardPrecision is the fixed-point scale of the reward-per-share
	// accumulator (1e12 in the masterchef contract).
	AccRewardPrecision = 12
)

// Farm is the masterchef configuration owning a set of pools.
type Farm struct {
	ID              string          // masterchef contract address
	TotalAllocPoint decimal.Decimal // sum of allocation points across pools
	RewardPerBlock  decimal.Decimal // reward emission per block, base units (1e18)
}

// Pool is a yield-farming pool wrapping one Pair.
type Pool struct {
	ID                string          // pool id within the masterchef
	PairID            string          // address of the staked pair
	AllocPoint        decimal.Decimal // integer emission weight
	AccRewardPerShare decimal.Decimal // cumulative reward per share, scaled by 1e12
	Balance           decimal.Decimal // total LP tokens staked, base units (1e18)
	Owner             Farm            // owning masterchef config
}

// PoolPosition is a user's position in a Pool, including the cumulative
// entry/exit/harvest ledgers the indexer maintains.
type PoolPosition struct {
	PoolID             string          // pool id
	PairID             string          // staked pair address
	AllocPoint         decimal.Decimal // pool emission weight at snapshot time
	AccRewardPerShare  decimal.Decimal // pool accumulator, scaled by 1e12
	Amount             decimal.Decimal // staked LP tokens, base units (1e18)
	RewardDebt         decimal.Decimal // accumulator checkpoint at last deposit/harvest, base units
	EntryUSD           decimal.Decimal // cumulative fiat value deposited
	ExitUSD            decimal.Decimal // cumulative fiat value withdrawn
	RewardHarvested    decimal.Decimal // cumulative reward tokens harvested
	RewardHarvestedUSD decimal.Decimal // fiat value of harvests at harvest time
}
