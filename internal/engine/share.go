package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"defi-portfolio-lab/internal/domain"
)

// Share computes a user's fractional ownership of a pair from their LP
// token balance and the pair's total supply. A zero supply leaves the share
// undefined (ErrNoSupply); callers must exclude the position rather than
// treat the share as zero.
func Share(userLiquidity, totalSupply decimal.Decimal) (decimal.Decimal, error) {
	if totalSupply.IsNegative() || userLiquidity.IsNegative() {
		return decimal.Zero, fmt.Errorf("share: negative input: %w", ErrMalformedInput)
	}
	if totalSupply.IsZero() {
		return decimal.Zero, ErrNoSupply
	}
	return userLiquidity.Div(totalSupply), nil
}

// ShareBreakdown is a share applied to a pair's reserves.
type ShareBreakdown struct {
	Share        decimal.Decimal
	Token0Amount decimal.Decimal
	Token1Amount decimal.Decimal
	ValueUSD     decimal.Decimal
}

// BreakdownShare resolves the token amounts and fiat value a share of the
// given pair represents.
func BreakdownShare(pair domain.Pair, share decimal.Decimal) ShareBreakdown {
	return ShareBreakdown{
		Share:        share,
		Token0Amount: pair.Reserve0.Mul(share),
		Token1Amount: pair.Reserve1.Mul(share),
		ValueUSD:     pair.ReserveUSD.Mul(share),
	}
}
