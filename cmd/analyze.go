package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/tokenflowlabs/tokenflow/internal/analysis"
	"github.com/tokenflowlabs/tokenflow/internal/config"
	"github.com/tokenflowlabs/tokenflow/internal/report"
	"github.com/tokenflowlabs/tokenflow/internal/transfer"
)

// runAnalyze reads the persisted transfer CSV, aggregates it, and renders
// the HTML report.
func runAnalyze(ctx context.Context, args []string) error {
	configPath := argValue(args, "config", "config.yaml")
	csvPath := argValue(args, "csv", "transfers.csv")
	outPath := argValue(args, "out", "flows.html")
	ignorePath := argValue(args, "ignore-file", "")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	transfers, err := readTransfers(ctx, csvPath)
	if err != nil {
		return err
	}

	ignoreList, err := readIgnoreList(ignorePath)
	if err != nil {
		return err
	}

	flows := analysis.ClassifyTransfers(ctx, transfers, cfg.Wallet, cfg.USDPrices(), ignoreList)
	if len(flows) == 0 {
		slog.InfoContext(ctx, "No flows to analyze; skipping report")

		return nil
	}

	stats := analysis.Summarize(flows)
	nets := analysis.NetFlows(flows)

	for _, line := range report.FormatSummary(stats, nets) {
		slog.InfoContext(ctx, line)
	}

	flowReport := &report.Report{
		Wallet:            cfg.Wallet,
		TimeSeries:        analysis.BuildTimeSeries(flows),
		FlowStats:         stats,
		NetFlows:          nets,
		TopCounterparties: analysis.TopCounterparties(flows, cfg.TopCounterparties),
		SankeyFlows:       analysis.SankeyFlows(flows, cfg.MinSankeyUSD),
	}

	file, err := os.Create(outPath) //nolint:gosec
	if err != nil {
		return fmt.Errorf("failed to create report file '%s': %w", outPath, err)
	}
	defer func() { _ = file.Close() }()

	if err := report.Render(file, flowReport); err != nil {
		return err
	}

	slog.InfoContext(ctx, fmt.Sprintf("Wrote report for %d flows to '%s'", len(flows), outPath))

	return nil
}

func readTransfers(ctx context.Context, csvPath string) ([]transfer.Transfer, error) {
	file, err := os.Open(csvPath) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	transfers, err := transfer.ReadCSV(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transfers from CSV: %w", err)
	}

	return transfers, nil
}

func readIgnoreList(ignorePath string) (*transfer.IgnoreList, error) {
	if ignorePath == "" {
		return nil, nil
	}

	file, err := os.Open(ignorePath) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open ignore list file: %w", err)
	}
	defer func() { _ = file.Close() }()

	ignoreList, err := transfer.FromYAML(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ignore list: %w", err)
	}

	return ignoreList, nil
}
