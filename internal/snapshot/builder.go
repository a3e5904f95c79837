// Package snapshot assembles the immutable input sets the analytics run
// over. A builder fans out to the subgraph sources concurrently and joins
// the results into one domain.Snapshot; a cache keeps recent snapshots to
// shield the subgraphs from request-path traffic.
package snapshot

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"defi-portfolio-lab/internal/domain"
)

// ExchangeSource provides pair reference data and token pricing.
type ExchangeSource interface {
	Pairs(ctx context.Context, ids []string) (map[string]domain.Pair, error)
	PriceBundle(ctx context.Context, rewardTokenID string) (domain.PriceBundle, error)
}

// MasterchefSource provides farm pools and per-user positions.
type MasterchefSource interface {
	Pools(ctx context.Context) ([]domain.Pool, error)
	PoolPositions(ctx context.Context, address string) ([]domain.PoolPosition, error)
}

// BarSource provides staking-vault positions.
type BarSource interface {
	Position(ctx context.Context, address string) (*domain.BarPosition, error)
}

// BlocksSource provides chain timing.
type BlocksSource interface {
	Timing(ctx context.Context) (domain.ChainTiming, error)
}

// Sources bundles the four upstream dependencies of a Builder.
type Sources struct {
	Exchange   ExchangeSource
	Masterchef MasterchefSource
	Bar        BarSource
	Blocks     BlocksSource
}

// Builder fetches and joins snapshots.
type Builder struct {
	sources       Sources
	rewardTokenID string
	log           *logrus.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger. Defaults to the standard logrus logger.
func WithLogger(log *logrus.Logger) BuilderOption {
	return func(b *Builder) { b.log = log }
}

// NewBuilder creates a Builder. rewardTokenID is the exchange-subgraph
// address of the reward token, used for price resolution.
func NewBuilder(sources Sources, rewardTokenID string, opts ...BuilderOption) *Builder {
	b := &Builder{
		sources:       sources,
		rewardTokenID: rewardTokenID,
		log:           logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Pools builds the snapshot for the pool-listing view: all farm pools,
// their pairs, the reward price, and chain timing.
func (b *Builder) Pools(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{}

	errCh := make(chan error, 3)
	go func() {
		pools, err := b.sources.Masterchef.Pools(ctx)
		if err != nil {
			errCh <- fmt.Errorf("fetch pools: %w", err)
			return
		}
		snap.Pools = pools
		errCh <- nil
	}()
	go func() {
		errCh <- b.fetchPrices(ctx, snap)
	}()
	go func() {
		errCh <- b.fetchTiming(ctx, snap)
	}()
	if err := drain(errCh, 3); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(snap.Pools))
	for _, pool := range snap.Pools {
		ids = append(ids, pool.PairID)
	}
	if err := b.fetchPairs(ctx, snap, ids); err != nil {
		return nil, err
	}

	b.log.WithFields(logrus.Fields{
		"pools": len(snap.Pools),
		"pairs": len(snap.Pairs),
		"block": snap.Timing.LatestBlock,
	}).Debug("built pool snapshot")
	return snap, nil
}

// User builds the snapshot for one user's portfolio view: their farm
// positions and vault position, the pairs those reference, the reward
// price, and chain timing.
func (b *Builder) User(ctx context.Context, address string) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{}

	errCh := make(chan error, 4)
	go func() {
		positions, err := b.sources.Masterchef.PoolPositions(ctx, address)
		if err != nil {
			errCh <- fmt.Errorf("fetch positions for %s: %w", address, err)
			return
		}
		snap.Positions = positions
		errCh <- nil
	}()
	go func() {
		bar, err := b.sources.Bar.Position(ctx, address)
		if err != nil {
			errCh <- fmt.Errorf("fetch vault position for %s: %w", address, err)
			return
		}
		snap.Bar = bar
		errCh <- nil
	}()
	go func() {
		errCh <- b.fetchPrices(ctx, snap)
	}()
	go func() {
		errCh <- b.fetchTiming(ctx, snap)
	}()
	if err := drain(errCh, 4); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(snap.Positions))
	for _, pos := range snap.Positions {
		ids = append(ids, pos.PairID)
	}
	if err := b.fetchPairs(ctx, snap, ids); err != nil {
		return nil, err
	}

	b.log.WithFields(logrus.Fields{
		"user":      address,
		"positions": len(snap.Positions),
		"vault":     snap.Bar != nil,
	}).Debug("built user snapshot")
	return snap, nil
}

func (b *Builder) fetchPrices(ctx context.Context, snap *domain.Snapshot) error {
	prices, err := b.sources.Exchange.PriceBundle(ctx, b.rewardTokenID)
	if err != nil {
		return fmt.Errorf("fetch prices: %w", err)
	}
	snap.Prices = prices
	return nil
}

func (b *Builder) fetchTiming(ctx context.Context, snap *domain.Snapshot) error {
	timing, err := b.sources.Blocks.Timing(ctx)
	if err != nil {
		return fmt.Errorf("fetch timing: %w", err)
	}
	snap.Timing = timing
	return nil
}

func (b *Builder) fetchPairs(ctx context.Context, snap *domain.Snapshot, ids []string) error {
	if len(ids) == 0 {
		snap.Pairs = map[string]domain.Pair{}
		return nil
	}
	pairs, err := b.sources.Exchange.Pairs(ctx, ids)
	if err != nil {
		return fmt.Errorf("fetch pairs: %w", err)
	}
	snap.Pairs = pairs
	return nil
}

// drain collects n results and returns the first error, after all
// goroutines have finished writing into the snapshot.
func drain(errCh <-chan error, n int) error {
	var first error
	for i := 0; i < n; i++ {
		if err := <-errCh; err != nil && first == nil {
			first = err
		}
	}
	return first
}
