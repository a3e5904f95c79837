package subgraph

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"defi-portfolio-lab/internal/domain"
)

// defaultPageSize caps list queries; subgraphs reject larger pages.
const defaultPageSize = 1000

// ExchangeClient queries the exchange (AMM) subgraph for pairs, the price
// bundle, and token derived prices.
type ExchangeClient struct {
	client *Client
}

// NewExchangeClient creates an exchange subgraph client.
func NewExchangeClient(client *Client) *ExchangeClient {
	return &ExchangeClient{client: client}
}

type tokenDTO struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
}

type pairDTO struct {
	ID          string          `json:"id"`
	Token0      tokenDTO        `json:"token0"`
	Token1      tokenDTO        `json:"token1"`
	Reserve0    decimal.Decimal `json:"reserve0"`
	Reserve1    decimal.Decimal `json:"reserve1"`
	TotalSupply decimal.Decimal `json:"totalSupply"`
	ReserveUSD  decimal.Decimal `json:"reserveUSD"`
}

func (p pairDTO) toDomain() domain.Pair {
	return domain.Pair{
		ID:          p.ID,
		Token0:      domain.Token{ID: p.Token0.ID, Symbol: p.Token0.Symbol},
		Token1:      domain.Token{ID: p.Token1.ID, Symbol: p.Token1.Symbol},
		Reserve0:    p.Reserve0,
		Reserve1:    p.Reserve1,
		TotalSupply: p.TotalSupply,
		ReserveUSD:  p.ReserveUSD,
	}
}

// Pairs retrieves the pair subset for the given ids, keyed by pair address.
// Ids the indexer does not know are simply absent from the result; callers
// treat them as missing references.
func (e *ExchangeClient) Pairs(ctx context.Context, ids []string) (map[string]domain.Pair, error) {
	var resp struct {
		Pairs []pairDTO `json:"pairs"`
	}
	vars := map[string]any{"ids": ids, "first": defaultPageSize}
	if err := e.client.Query(ctx, pairSubsetQuery, vars, &resp); err != nil {
		return nil, fmt.Errorf("fetch pairs: %w", err)
	}

	pairs := make(map[string]domain.Pair, len(resp.Pairs))
	for _, p := range resp.Pairs {
		pairs[p.ID] = p.toDomain()
	}
	return pairs, nil
}

// AllPairs retrieves the top pairs by reserve value, keyed by pair address.
func (e *ExchangeClient) AllPairs(ctx context.Context) (map[string]domain.Pair, error) {
	var resp struct {
		Pairs []pairDTO `json:"pairs"`
	}
	vars := map[string]any{"first": defaultPageSize}
	if err := e.client.Query(ctx, pairsQuery, vars, &resp); err != nil {
		return nil, fmt.Errorf("fetch all pairs: %w", err)
	}

	pairs := make(map[string]domain.Pair, len(resp.Pairs))
	for _, p := range resp.Pairs {
		pairs[p.ID] = p.toDomain()
	}
	return pairs, nil
}

// PriceBundle retrieves the native currency price and the reward token's
// derived ratio. Fields the indexer has not populated stay nil; a nil is
// "unknown", which downstream code keeps distinct from a zero price.
func (e *ExchangeClient) PriceBundle(ctx context.Context, rewardTokenID string) (domain.PriceBundle, error) {
	var bundleResp struct {
		Bundles []struct {
			AvaxPrice *decimal.Decimal `json:"avaxPrice"`
		} `json:"bundles"`
	}
	if err := e.client.Query(ctx, bundleQuery, nil, &bundleResp); err != nil {
		return domain.PriceBundle{}, fmt.Errorf("fetch price bundle: %w", err)
	}

	var tokenResp struct {
		Token *struct {
			DerivedAVAX *decimal.Decimal `json:"derivedAVAX"`
		} `json:"token"`
	}
	vars := map[string]any{"id": rewardTokenID}
	if err := e.client.Query(ctx, tokenQuery, vars, &tokenResp); err != nil {
		return domain.PriceBundle{}, fmt.Errorf("fetch reward token: %w", err)
	}

	bundle := domain.PriceBundle{}
	if len(bundleResp.Bundles) > 0 {
		bundle.ReferencePriceUSD = bundleResp.Bundles[0].AvaxPrice
	}
	if tokenResp.Token != nil {
		bundle.RewardDerivedRatio = tokenResp.Token.DerivedAVAX
	}
	return bundle, nil
}
