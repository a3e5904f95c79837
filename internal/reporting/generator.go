// Package reporting produces one-shot portfolio and pool-listing reports
// in Markdown, CSV, and JSON form.
package reporting

import (
	"context"
	"fmt"
	"time"

	"defi-portfolio-lab/internal/analytics"
	"defi-portfolio-lab/internal/domain"
	"defi-portfolio-lab/internal/snapshot"
)

// Generator builds report artifacts from live snapshot data.
type Generator struct {
	builder *snapshot.Builder
	policy  domain.PoolFilterPolicy
	now     func() time.Time // injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(builder *snapshot.Builder, policy domain.PoolFilterPolicy) *Generator {
	return &Generator{
		builder: builder,
		policy:  policy,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// GeneratePortfolio builds a fresh snapshot for user and computes their report.
func (g *Generator) GeneratePortfolio(ctx context.Context, user string) (*PortfolioArtifacts, error) {
	snap, err := g.builder.User(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("build user snapshot: %w", err)
	}

	return &PortfolioArtifacts{
		GeneratedAt: g.now(),
		Report:      analytics.BuildReport(user, snap),
	}, nil
}

// GeneratePools builds a fresh pool snapshot and enriches the listing.
func (g *Generator) GeneratePools(ctx context.Context) (*PoolsArtifacts, error) {
	snap, err := g.builder.Pools(ctx)
	if err != nil {
		return nil, fmt.Errorf("build pool snapshot: %w", err)
	}

	return &PoolsArtifacts{
		GeneratedAt: g.now(),
		Block:       snap.Timing.LatestBlock,
		Result:      analytics.EnrichPools(snap, g.policy),
	}, nil
}
