package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/tokenflowlabs/tokenflow/internal/config"
	"github.com/tokenflowlabs/tokenflow/internal/etherscan"
	"github.com/tokenflowlabs/tokenflow/internal/fetcher"
	tfio "github.com/tokenflowlabs/tokenflow/internal/io"
	"github.com/tokenflowlabs/tokenflow/internal/transfer"
)

// runFetch pulls the transfer history of every configured token and writes
// it to the output CSV.
func runFetch(ctx context.Context, args []string) error {
	configPath := argValue(args, "config", "config.yaml")
	outPath := argValue(args, "out", "transfers.csv")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	confirmed, err := confirmOverwrite(outPath)
	if err != nil {
		return err
	}
	if !confirmed {
		slog.InfoContext(ctx, "Fetch canceled; output file left untouched")

		return nil
	}

	slog.InfoContext(
		ctx,
		fmt.Sprintf(
			"Fetching transfers of %d tokens for wallet '%s'",
			len(cfg.Tokens),
			cfg.Wallet,
		),
	)

	client := etherscan.NewHTTPClient(http.DefaultClient, cfg.APIURL, cfg.APIKey)
	transferFetcher := fetcher.New(client, cfg.PageSize, cfg.RateInterval(), cfg.MaxRetries)

	transfers := transferFetcher.FetchAllTransfers(ctx, cfg.Wallet, cfg.Tokens)

	file, err := os.Create(outPath) //nolint:gosec
	if err != nil {
		return fmt.Errorf("failed to create output file '%s': %w", outPath, err)
	}
	defer func() { _ = file.Close() }()

	if err := transfer.WriteCSV(file, transfers); err != nil {
		return fmt.Errorf("failed to write transfers to '%s': %w", outPath, err)
	}

	slog.InfoContext(ctx, fmt.Sprintf("Wrote %d transfers to '%s'", len(transfers), outPath))

	return nil
}

// confirmOverwrite asks before clobbering an existing output file.
func confirmOverwrite(path string) (bool, error) {
	exists, err := tfio.FileExists(path)
	if err != nil {
		return false, err
	}
	if !exists {
		return true, nil
	}

	selector := promptui.Select{
		Label: fmt.Sprintf("File '%s' already exists; overwrite it", path),
		Items: []string{"Overwrite", "Cancel"},
	}

	selIdx, _, err := selector.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return false, nil
		}

		return false, fmt.Errorf("overwrite prompt failed: %w", err)
	}

	return selIdx == 0, nil
}
