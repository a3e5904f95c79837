package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RenderPortfolioMarkdown renders a portfolio report as a Markdown string.
func RenderPortfolioMarkdown(a *PortfolioArtifacts) string {
	r := &a.Report
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Portfolio Report: %s\n\n", r.User))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", a.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Block: %d | Positions: %d | Excluded: %d\n\n", r.Block, r.Totals.Positions, r.Excluded))

	sb.WriteString("## Totals\n\n")
	sb.WriteString("| Metric | USD |\n")
	sb.WriteString("|--------|-----|\n")
	sb.WriteString(fmt.Sprintf("| Invested | %s |\n", r.Totals.InvestedUSD))
	sb.WriteString(fmt.Sprintf("| Withdrawn | %s |\n", r.Totals.WithdrawnUSD))
	sb.WriteString(fmt.Sprintf("| Harvested | %s |\n", r.Totals.HarvestedUSD))
	sb.WriteString(fmt.Sprintf("| Pending Rewards | %s |\n", fmtOpt(r.Totals.PendingUSD)))
	sb.WriteString(fmt.Sprintf("| Current Value | %s |\n", r.Totals.CurrentValueUSD))
	sb.WriteString(fmt.Sprintf("| Profit/Loss | %s |\n", fmtOpt(r.Totals.ProfitLossUSD)))
	sb.WriteString("\n")

	sb.WriteString("## Positions\n\n")
	if len(r.Positions) > 0 {
		sb.WriteString("| Pool | Pair | LP | Share | Value USD | Pending | Pending USD | P&L USD |\n")
		sb.WriteString("|------|------|----|-------|-----------|---------|-------------|--------|\n")
		for _, p := range r.Positions {
			sb.WriteString(fmt.Sprintf("| %s | %s-%s | %s | %s | %s | %s | %s | %s |\n",
				p.PoolID, p.Token0Symbol, p.Token1Symbol,
				p.LPAmount, p.Share, p.ValueUSD,
				p.PendingReward, fmtOpt(p.PendingRewardUSD), fmtOpt(p.ProfitLossUSD)))
		}
	} else {
		sb.WriteString("No farming positions.\n")
	}
	sb.WriteString("\n")

	if r.Bar != nil {
		sb.WriteString("## Staking Vault\n\n")
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Shares | %s |\n", r.Bar.ShareBalance))
		sb.WriteString(fmt.Sprintf("| Staked | %s |\n", r.Bar.Staked))
		sb.WriteString(fmt.Sprintf("| Staked USD | %s |\n", r.Bar.StakedUSD))
		sb.WriteString(fmt.Sprintf("| Harvested USD | %s |\n", r.Bar.HarvestedUSD))
		sb.WriteString(fmt.Sprintf("| Pending | %s |\n", fmtOpt(r.Bar.Pending)))
		sb.WriteString(fmt.Sprintf("| Pending USD | %s |\n", fmtOpt(r.Bar.PendingUSD)))
		sb.WriteString(fmt.Sprintf("| All-Time Return | %s |\n", fmtOpt(r.Bar.ReturnTokens)))
		sb.WriteString(fmt.Sprintf("| Daily ROI (tokens) | %s |\n", fmtOpt(r.Bar.DailyROITokens)))
		sb.WriteString(fmt.Sprintf("| Yearly ROI (tokens) | %s |\n", fmtOpt(r.Bar.YearlyROITokens)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderPoolsMarkdown renders the enriched pool listing as a Markdown string.
func RenderPoolsMarkdown(a *PoolsArtifacts) string {
	var sb strings.Builder

	sb.WriteString("# Pool Listing\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", a.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Block: %d | Pools: %d\n\n", a.Block, len(a.Result.Rows)))

	if len(a.Result.Rows) > 0 {
		sb.WriteString("| Pool | Pair | Weight | Reward/Block | Staked | TVL USD | Reward/Day | ROI/Year | Reward/$1000 |\n")
		sb.WriteString("|------|------|--------|--------------|--------|---------|------------|----------|-------------|\n")
		for _, row := range a.Result.Rows {
			var rewardPerDay, roiPerYear *decimal.Decimal
			if row.Rewards != nil {
				rewardPerDay = &row.Rewards.RewardPerDay
			}
			if row.ROI != nil {
				roiPerYear = &row.ROI.PerYear
			}
			sb.WriteString(fmt.Sprintf("| %s | %s-%s | %s | %s | %s | %s | %s | %s | %s |\n",
				row.PoolID, row.Token0Symbol, row.Token1Symbol,
				row.PoolWeight, row.RewardPerBlock, row.StakedBalance,
				fmtOpt(row.TVLUSD), fmtOpt(rewardPerDay), fmtOpt(roiPerYear), fmtOpt(row.RewardPerThousand)))
		}
	} else {
		sb.WriteString("No pools matched the listing policy.\n")
	}
	sb.WriteString("\n")

	if len(a.Result.MissingPairs) > 0 {
		sb.WriteString("## Missing Pairs\n\n")
		sb.WriteString("| Pair | Pools Affected |\n")
		sb.WriteString("|------|----------------|\n")
		pairIDs := make([]string, 0, len(a.Result.MissingPairs))
		for pairID := range a.Result.MissingPairs {
			pairIDs = append(pairIDs, pairID)
		}
		sort.Strings(pairIDs)
		for _, pairID := range pairIDs {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", pairID, a.Result.MissingPairs[pairID]))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// fmtOpt renders an unavailable metric as n/a, never as zero.
func fmtOpt(d *decimal.Decimal) string {
	if d == nil {
		return "n/a"
	}
	return d.String()
}
