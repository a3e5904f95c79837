package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Normalize converts a raw base-unit balance into a token quantity by
// dividing by 10^decimals. The division is exact (a decimal exponent
// shift). Negative amounts and negative decimal counts are contract
// violations.
func Normalize(raw decimal.Decimal, decimals int32) (decimal.Decimal, error) {
	if decimals < 0 {
		return decimal.Zero, fmt.Errorf("normalize: decimals %d: %w", decimals, ErrMalformedInput)
	}
	if raw.IsNegative() {
		return decimal.Zero, fmt.Errorf("normalize: negative amount %s: %w", raw, ErrMalformedInput)
	}
	return raw.Shift(-decimals), nil
}
