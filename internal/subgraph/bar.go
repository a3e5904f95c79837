package subgraph

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"defi-portfolio-lab/internal/domain"
)

// BarClient queries the staking-vault subgraph for user positions.
type BarClient struct {
	client *Client
}

// NewBarClient creates a bar subgraph client.
func NewBarClient(client *Client) *BarClient {
	return &BarClient{client: client}
}

type barUserDTO struct {
	ID              string          `json:"id"`
	XJoe            decimal.Decimal `json:"xJoe"`
	JoeStaked       decimal.Decimal `json:"joeStaked"`
	JoeStakedUSD    decimal.Decimal `json:"joeStakedUSD"`
	JoeHarvested    decimal.Decimal `json:"joeHarvested"`
	JoeHarvestedUSD decimal.Decimal `json:"joeHarvestedUSD"`
	JoeIn           decimal.Decimal `json:"joeIn"`
	JoeOut          decimal.Decimal `json:"joeOut"`
	USDIn           decimal.Decimal `json:"usdIn"`
	USDOut          decimal.Decimal `json:"usdOut"`
	UpdatedAt       decimal.Decimal `json:"updatedAt"`
	Bar             *struct {
		JoeStaked   decimal.Decimal `json:"joeStaked"`
		TotalSupply decimal.Decimal `json:"totalSupply"`
	} `json:"bar"`
}

// Position retrieves a user's vault position. Returns (nil, nil) when the
// address has never interacted with the vault; that absence is an expected
// state, not an error.
func (b *BarClient) Position(ctx context.Context, address string) (*domain.BarPosition, error) {
	var resp struct {
		User *barUserDTO `json:"user"`
	}
	vars := map[string]any{"id": address}
	if err := b.client.Query(ctx, barUserQuery, vars, &resp); err != nil {
		return nil, fmt.Errorf("fetch bar position: %w", err)
	}
	if resp.User == nil || resp.User.Bar == nil {
		return nil, nil
	}

	u := resp.User
	return &domain.BarPosition{
		ShareBalance:   u.XJoe,
		Staked:         u.JoeStaked,
		StakedUSD:      u.JoeStakedUSD,
		Harvested:      u.JoeHarvested,
		HarvestedUSD:   u.JoeHarvestedUSD,
		TokensIn:       u.JoeIn,
		TokensOut:      u.JoeOut,
		USDIn:          u.USDIn,
		USDOut:         u.USDOut,
		UpdatedAtBlock: u.UpdatedAt.IntPart(),
		Bar: domain.Bar{
			Staked:      u.Bar.JoeStaked,
			TotalSupply: u.Bar.TotalSupply,
		},
	}, nil
}
