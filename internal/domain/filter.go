package domain

import "github.com/shopspring/decimal"

// PoolFilterPolicy decides which pools participate in analytics. The
// excluded-id set and minimum allocation are explicit configuration rather
// than compile-time constants.
type PoolFilterPolicy struct {
	ExcludedPoolIDs map[string]bool
	MinAllocPoint   decimal.Decimal // pools must have AllocPoint strictly greater to pass
}

// DefaultPoolFilterPolicy excludes nothing except retired pools
// (allocPoint 0).
func DefaultPoolFilterPolicy() PoolFilterPolicy {
	return PoolFilterPolicy{
		ExcludedPoolIDs: map[string]bool{},
		MinAllocPoint:   decimal.Zero,
	}
}

// Allows reports whether a pool passes the policy.
func (p PoolFilterPolicy) Allows(pool Pool) bool {
	if p.ExcludedPoolIDs[pool.ID] {
		return false
	}
	return pool.AllocPoint.GreaterThan(p.MinAllocPoint)
}
