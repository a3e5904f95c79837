// Command report generates a one-shot portfolio or pool-listing report
// from live subgraph data, without running the API server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"defi-portfolio-lab/internal/domain"
	"defi-portfolio-lab/internal/reporting"
	"defi-portfolio-lab/internal/snapshot"
	"defi-portfolio-lab/internal/subgraph"
)

const (
	defaultExchangeEndpoint   = "https://api.thegraph.com/subgraphs/name/traderjoe-xyz/exchange"
	defaultMasterchefEndpoint = "https://api.thegraph.com/subgraphs/name/traderjoe-xyz/masterchefv2"
	defaultBarEndpoint        = "https://api.thegraph.com/subgraphs/name/traderjoe-xyz/bar"
	defaultBlocksEndpoint     = "https://api.thegraph.com/subgraphs/name/dasconnor/avalanche-blocks"
	defaultRewardToken        = "0x6e84a6216ea6dacc71ee8e6b0a5b7322eebc0fdd"
)

func main() {
	exchangeEndpoint := flag.String("exchange-endpoint", defaultExchangeEndpoint, "Exchange subgraph endpoint")
	masterchefEndpoint := flag.String("masterchef-endpoint", defaultMasterchefEndpoint, "Masterchef subgraph endpoint")
	barEndpoint := flag.String("bar-endpoint", defaultBarEndpoint, "Staking bar subgraph endpoint")
	blocksEndpoint := flag.String("blocks-endpoint", defaultBlocksEndpoint, "Blocks subgraph endpoint")
	rewardToken := flag.String("reward-token", defaultRewardToken, "Reward token address in the exchange subgraph")
	user := flag.String("user", "", "User address to report on (pool listing when empty)")
	format := flag.String("format", "markdown", "Output format: markdown, json, or csv (pool listing only)")
	outputDir := flag.String("output-dir", "", "Output directory for generated files (stdout when empty)")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall timeout for subgraph queries")
	flag.Parse()

	if *format != "markdown" && *format != "json" && *format != "csv" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", *format)
		os.Exit(1)
	}
	if *format == "csv" && *user != "" {
		fmt.Fprintln(os.Stderr, "Error: csv output is only available for the pool listing")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	builder := snapshot.NewBuilder(snapshot.Sources{
		Exchange:   subgraph.NewExchangeClient(subgraph.NewClient(*exchangeEndpoint)),
		Masterchef: subgraph.NewMasterchefClient(subgraph.NewClient(*masterchefEndpoint)),
		Bar:        subgraph.NewBarClient(subgraph.NewClient(*barEndpoint)),
		Blocks:     subgraph.NewBlocksClient(subgraph.NewClient(*blocksEndpoint)),
	}, *rewardToken)
	generator := reporting.NewGenerator(builder, domain.DefaultPoolFilterPolicy())

	var err error
	if *user != "" {
		err = portfolioReport(ctx, generator, strings.ToLower(*user), *format, *outputDir)
	} else {
		err = poolsReport(ctx, generator, *format, *outputDir)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func portfolioReport(ctx context.Context, g *reporting.Generator, user, format, outputDir string) error {
	artifacts, err := g.GeneratePortfolio(ctx, user)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return writeOutput(outputDir, "PORTFOLIO_"+user+".json", renderJSON(artifacts))
	default:
		return writeOutput(outputDir, "PORTFOLIO_"+user+".md", reporting.RenderPortfolioMarkdown(artifacts))
	}
}

func poolsReport(ctx context.Context, g *reporting.Generator, format, outputDir string) error {
	artifacts, err := g.GeneratePools(ctx)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return writeOutput(outputDir, "POOLS.json", renderJSON(artifacts))
	case "csv":
		return writeOutput(outputDir, "POOLS.csv", reporting.RenderPoolsCSV(artifacts.Result.Rows))
	default:
		return writeOutput(outputDir, "POOLS.md", reporting.RenderPoolsMarkdown(artifacts))
	}
}

func renderJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode report: %v\n", err)
		os.Exit(1)
	}
	return string(data) + "\n"
}

// writeOutput writes content to outputDir/name, or stdout when no
// directory is configured.
func writeOutput(outputDir, name, content string) error {
	if outputDir == "" {
		fmt.Print(content)
		return nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outputDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("Report written to %s\n", path)
	return nil
}
