package reporting

import (
	"time"

	"defi-portfolio-lab/internal/analytics"
	"defi-portfolio-lab/internal/domain"
)

// PortfolioArtifacts is a portfolio report stamped with generation metadata.
type PortfolioArtifacts struct {
	GeneratedAt time.Time              `json:"generatedAt"`
	Report      domain.PortfolioReport `json:"report"`
}

// PoolsArtifacts is an enriched pool listing stamped with generation metadata.
type PoolsArtifacts struct {
	GeneratedAt time.Time             `json:"generatedAt"`
	Block       int64                 `json:"block"`
	Result      analytics.PoolsResult `json:"result"`
}
