package domain

import "github.com/shopspring/decimal"

// YieldSchedule is a per-block reward rate projected over calendar periods.
// All values are normalized reward-token amounts.
type YieldSchedule struct {
	RewardPerBlock decimal.Decimal `json:"rewardPerBlock"`
	RewardPerHour  decimal.Decimal `json:"rewardPerHour"`
	RewardPerDay   decimal.Decimal `json:"rewardPerDay"`
	RewardPerMonth decimal.Decimal `json:"rewardPerMonth"`
	RewardPerYear  decimal.Decimal `json:"rewardPerYear"`
}

// ROISchedule is a YieldSchedule expressed as a rate of return on the
// position's current fiat value.
type ROISchedule struct {
	PerBlock decimal.Decimal `json:"roiPerBlock"`
	PerHour  decimal.Decimal `json:"roiPerHour"`
	PerDay   decimal.Decimal `json:"roiPerDay"`
	PerMonth decimal.Decimal `json:"roiPerMonth"`
	PerYear  decimal.Decimal `json:"roiPerYear"`
}

// PoolYield is one row of the pool-listing view: a Pool joined with its
// Pair and enriched with yield metrics. Nil pointer fields are unavailable
// (missing price or zero-supply pair), never zero.
type PoolYield struct {
	PoolID       string `json:"poolId"`
	PairID       string `json:"pairId"`
	Token0Symbol string `json:"token0Symbol"`
	Token1Symbol string `json:"token1Symbol"`

	PoolWeight     decimal.Decimal `json:"poolWeight"`     // allocPoint / totalAllocPoint
	RewardPerBlock decimal.Decimal `json:"rewardPerBlock"` // reward tokens emitted to this pool per block
	StakedBalance  decimal.Decimal `json:"stakedBalance"`  // LP tokens staked in the farm

	TVLUSD            *decimal.Decimal `json:"tvlUsd"`            // fiat value of StakedBalance
	Rewards           *YieldSchedule   `json:"rewards"`           // requires block timing
	ROI               *ROISchedule     `json:"roi"`               // requires timing, TVL, and reward price
	RewardPerThousand *decimal.Decimal `json:"rewardPerThousand"` // tokens per block per $1000 staked
}

// PositionReport is the computed view of one farming position.
type PositionReport struct {
	PoolID       string `json:"poolId"`
	PairID       string `json:"pairId"`
	Token0Symbol string `json:"token0Symbol"`
	Token1Symbol string `json:"token1Symbol"`

	LPAmount     decimal.Decimal `json:"lpAmount"`     // staked LP tokens, normalized
	Share        decimal.Decimal `json:"share"`        // fraction of the pair's supply
	Token0Amount decimal.Decimal `json:"token0Amount"` // share of reserve0
	Token1Amount decimal.Decimal `json:"token1Amount"` // share of reserve1
	ValueUSD     decimal.Decimal `json:"valueUsd"`     // share of reserveUSD

	PendingReward    decimal.Decimal  `json:"pendingReward"`
	PendingRewardUSD *decimal.Decimal `json:"pendingRewardUsd"` // nil without a reward price

	EntryUSD     decimal.Decimal `json:"entryUsd"`
	ExitUSD      decimal.Decimal `json:"exitUsd"`
	Harvested    decimal.Decimal `json:"harvested"`
	HarvestedUSD decimal.Decimal `json:"harvestedUsd"`

	ProfitLossUSD *decimal.Decimal `json:"profitLossUsd"` // nil without a reward price
}

// BarReport is the computed view of a staking-vault position.
type BarReport struct {
	ShareBalance decimal.Decimal `json:"shareBalance"`
	Staked       decimal.Decimal `json:"staked"`
	StakedUSD    decimal.Decimal `json:"stakedUsd"`
	Harvested    decimal.Decimal `json:"harvested"`
	HarvestedUSD decimal.Decimal `json:"harvestedUsd"`

	Pending    *decimal.Decimal `json:"pending"`    // nil when the vault has no supply
	PendingUSD *decimal.Decimal `json:"pendingUsd"` // nil without pending or a reward price

	// All-time return from the in/out/harvest ledgers.
	ReturnTokens *decimal.Decimal `json:"returnTokens"`
	ReturnUSD    *decimal.Decimal `json:"returnUsd"`

	// Periodized return in reward tokens, derived from the block delta
	// since the last position update. Nil when timing data is missing.
	DailyROITokens   *decimal.Decimal `json:"dailyRoiTokens"`
	MonthlyROITokens *decimal.Decimal `json:"monthlyRoiTokens"`
	YearlyROITokens  *decimal.Decimal `json:"yearlyRoiTokens"`
}

// PortfolioTotals is the cash-flow style aggregate over a user's included
// positions. PendingUSD and ProfitLossUSD require a reward price and are
// nil when the token is unpriced; the ledger-derived totals stay available.
type PortfolioTotals struct {
	InvestedUSD     decimal.Decimal  `json:"investedUsd"`
	WithdrawnUSD    decimal.Decimal  `json:"withdrawnUsd"`
	HarvestedUSD    decimal.Decimal  `json:"harvestedUsd"`
	PendingUSD      *decimal.Decimal `json:"pendingUsd"`
	CurrentValueUSD decimal.Decimal  `json:"currentValueUsd"`
	ProfitLossUSD   *decimal.Decimal `json:"profitLossUsd"`
	Positions       int              `json:"positions"` // positions included in the fold
}

// PortfolioReport is the per-user aggregate view.
type PortfolioReport struct {
	User      string           `json:"user"`
	Totals    PortfolioTotals  `json:"totals"`
	Positions []PositionReport `json:"positionBreakdown"`
	Bar       *BarReport       `json:"bar"`               // nil when the user has no vault position
	Excluded  int              `json:"excludedPositions"` // positions dropped for missing references
	Block     int64            `json:"block"`             // latest block at snapshot time
}
