package domain

import "github.com/shopspring/decimal"

// Bar is the single-asset staking vault snapshot. Both fields arrive
// normalized to token units from the bar subgraph.
type Bar struct {
	Staked      decimal.Decimal // reward tokens held by the vault
	TotalSupply decimal.Decimal // vault share tokens in circulation
}

// BarPosition is a user's staking-vault position with its cumulative
// transfer and harvest ledgers. All amounts are normalized token units.
type BarPosition struct {
	ShareBalance   decimal.Decimal // vault share tokens held
	Staked         decimal.Decimal // reward tokens deposited over time
	StakedUSD      decimal.Decimal // fiat value of deposits at deposit time
	Harvested      decimal.Decimal // reward tokens withdrawn over time
	HarvestedUSD   decimal.Decimal // fiat value of withdrawals at withdrawal time
	TokensIn       decimal.Decimal // reward tokens transferred in
	TokensOut      decimal.Decimal // reward tokens transferred out
	USDIn          decimal.Decimal // fiat value of inbound transfers
	USDOut         decimal.Decimal // fiat value of outbound transfers
	UpdatedAtBlock int64           // block number of the last position update
	Bar            Bar             // vault totals for share-to-underlying conversion
}
