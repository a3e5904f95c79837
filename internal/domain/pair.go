package domain

import "github.com/shopspring/decimal"

// Token is a constituent token of a trading pair.
type Token struct {
	ID     string // token contract address (0x-prefixed, lowercase)
	Symbol string // display symbol, e.g. "WAVAX"
}

// Pair is a liquidity pool's trading-pair snapshot from the exchange subgraph.
// Reserve and supply fields arrive already normalized to token units.
// Invariant: ReserveUSD / TotalSupply is the fiat value of one LP token.
type Pair struct {
	ID          string          // pair contract address
	Token0      Token           // first constituent token
	Token1      Token           // second constituent token
	Reserve0    decimal.Decimal // token0 reserves
	Reserve1    decimal.Decimal // token1 reserves
	TotalSupply decimal.Decimal // LP token supply
	ReserveUSD  decimal.Decimal // fiat value of all reserves
}
