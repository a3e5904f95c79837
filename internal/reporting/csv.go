package reporting

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"defi-portfolio-lab/internal/domain"
)

// RenderPoolsCSV renders the enriched pool listing as a CSV string.
// Unavailable metrics render as empty cells.
func RenderPoolsCSV(rows []domain.PoolYield) string {
	var sb strings.Builder

	sb.WriteString("pool_id,pair_id,token0_symbol,token1_symbol,pool_weight,reward_per_block,staked_balance,")
	sb.WriteString("tvl_usd,reward_per_day,roi_per_year,reward_per_thousand\n")

	for _, row := range rows {
		var rewardPerDay, roiPerYear *decimal.Decimal
		if row.Rewards != nil {
			rewardPerDay = &row.Rewards.RewardPerDay
		}
		if row.ROI != nil {
			roiPerYear = &row.ROI.PerYear
		}
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s\n",
			row.PoolID,
			row.PairID,
			row.Token0Symbol,
			row.Token1Symbol,
			row.PoolWeight,
			row.RewardPerBlock,
			row.StakedBalance,
			csvOpt(row.TVLUSD),
			csvOpt(rewardPerDay),
			csvOpt(roiPerYear),
			csvOpt(row.RewardPerThousand),
		))
	}

	return sb.String()
}

func csvOpt(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
