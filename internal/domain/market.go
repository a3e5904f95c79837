package domain

import "github.com/shopspring/decimal"

// PriceBundle carries the reference-currency fiat price and the reward
// token's derived ratio against it. Either field may be absent when the
// indexer has not priced the token yet; nil means unknown, which is distinct
// from a zero price.
type PriceBundle struct {
	ReferencePriceUSD  *decimal.Decimal // native currency price in USD
	RewardDerivedRatio *decimal.Decimal // reward token price in native currency
}

// ChainTiming is the block-timing snapshot used for yield projections.
type ChainTiming struct {
	AverageBlockTime decimal.Decimal // seconds per block
	LatestBlock      int64           // latest known block number, 0 if unknown
}

// Snapshot is the complete set of immutable inputs for one computation.
// Pairs is keyed by pair address. User-scoped fields (Positions, Bar) are
// nil or empty for the pool-listing view.
type Snapshot struct {
	Pools     []Pool
	Pairs     map[string]Pair
	Positions []PoolPosition
	Bar       *BarPosition
	Prices    PriceBundle
	Timing    ChainTiming
}
