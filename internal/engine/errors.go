// Package engine is the pure valuation and yield core. Every function is a
// deterministic transformation of snapshot inputs; nothing here fetches,
// caches, or mutates shared state. Expected data gaps (a pool the exchange
// subgraph has not indexed, a token without a price) surface as sentinel
// errors so callers can exclude the affected entity instead of propagating
// poisoned numbers.
package engine

import "errors"

// Sentinel errors. The first four are expected data gaps; ErrMalformedInput
// is a contract violation and fatal for the single entity that produced it.
var (
	// ErrNoSupply is returned when a pair or vault has zero total supply,
	// leaving shares undefined.
	ErrNoSupply = errors.New("total supply is zero")

	// ErrNoPrice is returned when a required price input is absent. A zero
	// price is valid and does not produce this error.
	ErrNoPrice = errors.New("price unavailable")

	// ErrNoValue is returned when a ratio would divide by a zero or absent
	// position value.
	ErrNoValue = errors.New("position has no fiat value")

	// ErrNoTiming is returned when block-timing inputs are missing or the
	// observed block delta is not positive.
	ErrNoTiming = errors.New("block timing unavailable")

	// ErrMalformedInput is returned for inputs that violate the data
	// contract: negative supplies or amounts, negative decimal counts,
	// non-positive block times.
	ErrMalformedInput = errors.New("malformed input")
)
