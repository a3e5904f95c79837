package subgraph

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"defi-portfolio-lab/internal/domain"
)

// MasterchefClient queries the farm subgraph for pools and user positions.
type MasterchefClient struct {
	client *Client
}

// NewMasterchefClient creates a masterchef subgraph client.
func NewMasterchefClient(client *Client) *MasterchefClient {
	return &MasterchefClient{client: client}
}

type farmDTO struct {
	ID              string          `json:"id"`
	TotalAllocPoint decimal.Decimal `json:"totalAllocPoint"`
	JoePerBlock     decimal.Decimal `json:"joePerBlock"`
}

type poolDTO struct {
	ID             string          `json:"id"`
	Pair           string          `json:"pair"`
	AllocPoint     decimal.Decimal `json:"allocPoint"`
	Balance        decimal.Decimal `json:"balance"`
	AccJoePerShare decimal.Decimal `json:"accJoePerShare"`
	Owner          farmDTO         `json:"owner"`
}

func (p poolDTO) toDomain() domain.Pool {
	return domain.Pool{
		ID:                p.ID,
		PairID:            p.Pair,
		AllocPoint:        p.AllocPoint,
		AccRewardPerShare: p.AccJoePerShare,
		Balance:           p.Balance,
		Owner: domain.Farm{
			ID:              p.Owner.ID,
			TotalAllocPoint: p.Owner.TotalAllocPoint,
			RewardPerBlock:  p.Owner.JoePerBlock,
		},
	}
}

type poolUserDTO struct {
	ID              string          `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	RewardDebt      decimal.Decimal `json:"rewardDebt"`
	EntryUSD        decimal.Decimal `json:"entryUSD"`
	ExitUSD         decimal.Decimal `json:"exitUSD"`
	JoeHarvested    decimal.Decimal `json:"joeHarvested"`
	JoeHarvestedUSD decimal.Decimal `json:"joeHarvestedUSD"`
	Pool            *struct {
		ID             string          `json:"id"`
		Pair           string          `json:"pair"`
		AllocPoint     decimal.Decimal `json:"allocPoint"`
		AccJoePerShare decimal.Decimal `json:"accJoePerShare"`
	} `json:"pool"`
}

// Pools retrieves all farming pools with their owning farm config.
func (m *MasterchefClient) Pools(ctx context.Context) ([]domain.Pool, error) {
	var resp struct {
		Pools []poolDTO `json:"pools"`
	}
	vars := map[string]any{"first": defaultPageSize}
	if err := m.client.Query(ctx, poolsQuery, vars, &resp); err != nil {
		return nil, fmt.Errorf("fetch pools: %w", err)
	}

	pools := make([]domain.Pool, 0, len(resp.Pools))
	for _, p := range resp.Pools {
		pools = append(pools, p.toDomain())
	}
	return pools, nil
}

// PoolPositions retrieves a user's farming positions. Records the indexer
// returns without a pool reference are dropped here; they carry no pair to
// value against.
func (m *MasterchefClient) PoolPositions(ctx context.Context, address string) ([]domain.PoolPosition, error) {
	var resp struct {
		Users []poolUserDTO `json:"users"`
	}
	vars := map[string]any{"address": address, "first": defaultPageSize}
	if err := m.client.Query(ctx, poolUsersQuery, vars, &resp); err != nil {
		return nil, fmt.Errorf("fetch pool positions: %w", err)
	}

	positions := make([]domain.PoolPosition, 0, len(resp.Users))
	for _, u := range resp.Users {
		if u.Pool == nil {
			continue
		}
		positions = append(positions, domain.PoolPosition{
			PoolID:             u.Pool.ID,
			PairID:             u.Pool.Pair,
			AllocPoint:         u.Pool.AllocPoint,
			AccRewardPerShare:  u.Pool.AccJoePerShare,
			Amount:             u.Amount,
			RewardDebt:         u.RewardDebt,
			EntryUSD:           u.EntryUSD,
			ExitUSD:            u.ExitUSD,
			RewardHarvested:    u.JoeHarvested,
			RewardHarvestedUSD: u.JoeHarvestedUSD,
		})
	}
	return positions, nil
}
