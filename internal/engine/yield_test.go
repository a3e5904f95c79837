package engine

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestProjectYield_TwoSecondBlocks(t *testing.T) {
	sched, err := ProjectYield(dec("0.1"), dec("2"))
	if err != nil {
		t.Fatalf("ProjectYield failed: %v", err)
	}
	// blocksPerHour = 3600/2 = 1800
	if !sched.RewardPerHour.Equal(dec("180")) {
		t.Errorf("perHour: expected 180, got %s", sched.RewardPerHour)
	}
	if !sched.RewardPerDay.Equal(dec("4320")) {
		t.Errorf("perDay: expected 4320, got %s", sched.RewardPerDay)
	}
	if !sched.RewardPerMonth.Equal(dec("129600")) {
		t.Errorf("perMonth: expected 129600, got %s", sched.RewardPerMonth)
	}
	if !sched.RewardPerYear.Equal(dec("1555200")) {
		t.Errorf("perYear: expected 1555200, got %s", sched.RewardPerYear)
	}
}

func TestProjectYield_FixedMultipliers(t *testing.T) {
	// rewardPerYear = rewardPerBlock * (3600/abt) * 24 * 30 * 12 for any
	// positive block time.
	for _, abt := range []string{"0.5", "1", "2", "3", "12.5"} {
		sched, err := ProjectYield(dec("7"), dec(abt))
		if err != nil {
			t.Fatalf("ProjectYield(abt=%s) failed: %v", abt, err)
		}
		want := dec("7").Mul(dec("3600").Div(dec(abt))).Mul(dec("24")).Mul(dec("30")).Mul(dec("12"))
		if !sched.RewardPerYear.Equal(want) {
			t.Errorf("abt=%s: perYear %s, want %s", abt, sched.RewardPerYear, want)
		}
		if !sched.RewardPerMonth.Mul(dec("12")).Equal(sched.RewardPerYear) {
			t.Errorf("abt=%s: year is not 12 months", abt)
		}
		if !sched.RewardPerDay.Mul(dec("30")).Equal(sched.RewardPerMonth) {
			t.Errorf("abt=%s: month is not 30 days", abt)
		}
		if !sched.RewardPerHour.Mul(dec("24")).Equal(sched.RewardPerDay) {
			t.Errorf("abt=%s: day is not 24 hours", abt)
		}
	}
}

func TestProjectYield_BadBlockTime(t *testing.T) {
	for _, abt := range []string{"0", "-2"} {
		if _, err := ProjectYield(dec("1"), dec(abt)); !errors.Is(err, ErrMalformedInput) {
			t.Errorf("abt=%s: expected ErrMalformedInput, got %v", abt, err)
		}
	}
}

func TestProjectROI_Basic(t *testing.T) {
	sched, err := ProjectYield(dec("0.1"), dec("2"))
	if err != nil {
		t.Fatalf("ProjectYield failed: %v", err)
	}
	roi, err := ProjectROI(sched, dec("2"), dec("20000"))
	if err != nil {
		t.Fatalf("ProjectROI failed: %v", err)
	}
	// perBlock = 0.1 * 2 / 20000 = 0.00001
	if !roi.PerBlock.Equal(dec("0.00001")) {
		t.Errorf("perBlock: expected 0.00001, got %s", roi.PerBlock)
	}
	// perYear = 1555200 * 2 / 20000 = 155.52
	if !roi.PerYear.Equal(dec("155.52")) {
		t.Errorf("perYear: expected 155.52, got %s", roi.PerYear)
	}
}

func TestProjectROI_ZeroValueUndefined(t *testing.T) {
	sched, err := ProjectYield(dec("0.1"), dec("2"))
	if err != nil {
		t.Fatalf("ProjectYield failed: %v", err)
	}
	if _, err := ProjectROI(sched, dec("2"), decimal.Zero); !errors.Is(err, ErrNoValue) {
		t.Errorf("expected ErrNoValue, got %v", err)
	}
}

func TestRewardPerThousand(t *testing.T) {
	got, err := RewardPerThousand(dec("0.1"), dec("20000"))
	if err != nil {
		t.Fatalf("RewardPerThousand failed: %v", err)
	}
	// 1000/20000 * 0.1 = 0.005 tokens per block per $1000
	if !got.Equal(dec("0.005")) {
		t.Errorf("expected 0.005, got %s", got)
	}

	if _, err := RewardPerThousand(dec("0.1"), decimal.Zero); !errors.Is(err, ErrNoValue) {
		t.Errorf("expected ErrNoValue for zero value, got %v", err)
	}
}
