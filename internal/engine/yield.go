package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"defi-portfolio-lab/internal/domain"
)

// Calendar multipliers for yield projection. These are deliberate
// approximations (30-day month, no compounding) preserved for output
// parity with the historical dashboard figures.
var (
	hoursPerDay    = decimal.NewFromInt(24)
	daysPerMonth   = decimal.NewFromInt(30)
	monthsPerYear  = decimal.NewFromInt(12)
	secondsPerHour = decimal.NewFromInt(3600)
	thousandUSD    = decimal.NewFromInt(1000)
)

// ProjectYield converts a per-block reward rate into per-hour/day/month/year
// projections using the observed average block time in seconds.
func ProjectYield(rewardPerBlock, averageBlockTime decimal.Decimal) (domain.YieldSchedule, error) {
	if !averageBlockTime.IsPositive() {
		return domain.YieldSchedule{}, fmt.Errorf("project yield: block time %s: %w", averageBlockTime, ErrMalformedInput)
	}
	blocksPerHour := secondsPerHour.Div(averageBlockTime)
	perHour := rewardPerBlock.Mul(blocksPerHour)
	perDay := perHour.Mul(hoursPerDay)
	perMonth := perDay.Mul(daysPerMonth)
	return domain.YieldSchedule{
		RewardPerBlock: rewardPerBlock,
		RewardPerHour:  perHour,
		RewardPerDay:   perDay,
		RewardPerMonth: perMonth,
		RewardPerYear:  perMonth.Mul(monthsPerYear),
	}, nil
}

// ProjectROI expresses a yield schedule as a rate of return on the
// position's current fiat value. A zero or negative value leaves ROI
// undefined (ErrNoValue); callers surface the row as unavailable.
func ProjectROI(rewards domain.YieldSchedule, rewardPriceUSD, positionValueUSD decimal.Decimal) (domain.ROISchedule, error) {
	if !positionValueUSD.IsPositive() {
		return domain.ROISchedule{}, ErrNoValue
	}
	rate := func(reward decimal.Decimal) decimal.Decimal {
		return reward.Mul(rewardPriceUSD).Div(positionValueUSD)
	}
	return domain.ROISchedule{
		PerBlock: rate(rewards.RewardPerBlock),
		PerHour:  rate(rewards.RewardPerHour),
		PerDay:   rate(rewards.RewardPerDay),
		PerMonth: rate(rewards.RewardPerMonth),
		PerYear:  rate(rewards.RewardPerYear),
	}, nil
}

// RewardPerThousand computes reward tokens emitted per block for every
// $1000 of staked value.
func RewardPerThousand(rewardPerBlock, positionValueUSD decimal.Decimal) (decimal.Decimal, error) {
	if !positionValueUSD.IsPositive() {
		return decimal.Zero, ErrNoValue
	}
	return thousandUSD.Div(positionValueUSD).Mul(rewardPerBlock), nil
}
