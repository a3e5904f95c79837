package engine

import (
	"github.com/shopspring/decimal"

	"defi-portfolio-lab/internal/domain"
)

// RewardPriceUSD derives the reward token's fiat price from the reference
// currency price and the indexer-supplied derived ratio. Either input being
// absent yields ErrNoPrice; a present zero is a valid price (a worthless
// token) and passes through.
func RewardPriceUSD(bundle domain.PriceBundle) (decimal.Decimal, error) {
	if bundle.ReferencePriceUSD == nil || bundle.RewardDerivedRatio == nil {
		return decimal.Zero, ErrNoPrice
	}
	return bundle.ReferencePriceUSD.Mul(*bundle.RewardDerivedRatio), nil
}
