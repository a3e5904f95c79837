package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"defi-portfolio-lab/internal/domain"
)

// PendingReward computes the unclaimed reward for a staked position using
// the masterchef accumulator model:
//
//	pending = (amount * accRewardPerShare) / 1e12 - rewardDebt
//
// normalized by the reward token's decimals. All three inputs are raw base
// units as reported by the indexer.
//
// Precondition (guaranteed by the masterchef contract, not checkable here):
// rewardDebt was recaptured at the user's last amount-changing interaction.
// The result is negative only when that precondition is broken upstream or
// when amount is zero with a stale debt, in which case it equals the
// negated normalized debt.
func PendingReward(amount, accRewardPerShare, rewardDebt decimal.Decimal, rewardDecimals int32) (decimal.Decimal, error) {
	if rewardDecimals < 0 {
		return decimal.Zero, fmt.Errorf("pending reward: decimals %d: %w", rewardDecimals, ErrMalformedInput)
	}
	if amount.IsNegative() || accRewardPerShare.IsNegative() {
		return decimal.Zero, fmt.Errorf("pending reward: negative input: %w", ErrMalformedInput)
	}
	accrued := amount.Mul(accRewardPerShare).Shift(-domain.AccRewardPrecision)
	return accrued.Sub(rewardDebt).Shift(-rewardDecimals), nil
}
