package subgraph

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"defi-portfolio-lab/internal/domain"
)

// blockTimeWindow is how far back the average block time is sampled.
const blockTimeWindow = time.Hour

// BlocksClient queries the blocks subgraph for chain timing.
type BlocksClient struct {
	client *Client
	now    func() time.Time // injectable for tests
}

// NewBlocksClient creates a blocks subgraph client.
func NewBlocksClient(client *Client) *BlocksClient {
	return &BlocksClient{client: client, now: time.Now}
}

type blockDTO struct {
	Number    decimal.Decimal `json:"number"`
	Timestamp decimal.Decimal `json:"timestamp"`
}

// Timing retrieves the latest block number and the average block time over
// the sampling window. A window with fewer than two blocks leaves the
// average at zero; callers treat that as missing timing data.
func (b *BlocksClient) Timing(ctx context.Context) (domain.ChainTiming, error) {
	var latestResp struct {
		Blocks []blockDTO `json:"blocks"`
	}
	if err := b.client.Query(ctx, latestBlockQuery, nil, &latestResp); err != nil {
		return domain.ChainTiming{}, fmt.Errorf("fetch latest block: %w", err)
	}

	timing := domain.ChainTiming{}
	if len(latestResp.Blocks) > 0 {
		timing.LatestBlock = latestResp.Blocks[0].Number.IntPart()
	}

	start := b.now().Add(-blockTimeWindow).Unix()
	var recentResp struct {
		Blocks []blockDTO `json:"blocks"`
	}
	vars := map[string]any{"start": start, "first": defaultPageSize}
	if err := b.client.Query(ctx, recentBlocksQuery, vars, &recentResp); err != nil {
		return domain.ChainTiming{}, fmt.Errorf("fetch recent blocks: %w", err)
	}

	timing.AverageBlockTime = averageBlockTime(recentResp.Blocks)
	return timing, nil
}

// averageBlockTime computes mean seconds per block from a descending list
// of block timestamps: total elapsed time over block count.
func averageBlockTime(blocks []blockDTO) decimal.Decimal {
	if len(blocks) < 2 {
		return decimal.Zero
	}
	newest := blocks[0]
	oldest := blocks[len(blocks)-1]
	elapsed := newest.Timestamp.Sub(oldest.Timestamp)
	span := newest.Number.Sub(oldest.Number)
	if !span.IsPositive() || !elapsed.IsPositive() {
		return decimal.Zero
	}
	return elapsed.Div(span)
}
