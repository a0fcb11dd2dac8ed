package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/tokenflowlabs/tokenflow/internal/config"
	"github.com/tokenflowlabs/tokenflow/internal/etherscan"
	"github.com/tokenflowlabs/tokenflow/internal/retry"
	"github.com/tokenflowlabs/tokenflow/internal/transfer"
)

// Fetcher pulls the complete token transfer history of a wallet, one token
// at a time, one page at a time. Fetching is deliberately sequential; the
// API key carries a per-key rate limit.
type Fetcher struct {
	client       etherscan.Client
	pageSize     int
	rateInterval time.Duration
	retryPolicy  retry.Policy
}

// New returns a Fetcher using the given client. maxRetries bounds the
// attempts for a single page request; rateInterval is the pause between
// page requests.
func New(client etherscan.Client, pageSize int, rateInterval time.Duration, maxRetries int) *Fetcher {
	return &Fetcher{
		client:       client,
		pageSize:     pageSize,
		rateInterval: rateInterval,
		retryPolicy: retry.Policy{
			MaxAttempts: maxRetries,
			BaseDelay:   500 * time.Millisecond,
			MaxDelay:    10 * time.Second,
			Jitter:      100 * time.Millisecond,
			Retryable:   isRetryableFetchError,
		},
	}
}

// isRetryableFetchError retries rate-limit rejections and transport
// failures; anything else (bad key, malformed payload) fails fast.
func isRetryableFetchError(err error) bool {
	if errors.Is(err, etherscan.ErrRateLimited) {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// FetchAllTransfers fetches the transfer history of every configured token
// for the given wallet. A token whose fetch fails is logged and skipped so
// the remaining tokens still complete.
func (f *Fetcher) FetchAllTransfers(
	ctx context.Context,
	walletAddress string,
	tokens []config.Token,
) []transfer.Transfer {
	var all []transfer.Transfer
	for _, token := range tokens {
		slog.InfoContext(ctx, fmt.Sprintf("Fetching %s transfers...", token.Symbol))

		transfers, err := f.FetchTokenTransfers(ctx, walletAddress, token.Symbol, token.Contract)
		if err != nil {
			slog.ErrorContext(
				ctx,
				fmt.Sprintf("Failed to fetch %s transfers; skipping token", token.Symbol),
				"error",
				err,
			)

			continue
		}

		slog.InfoContext(ctx, fmt.Sprintf("Fetched %d %s transfers", len(transfers), token.Symbol))
		all = append(all, transfers...)
	}

	return all
}

// FetchTokenTransfers fetches the complete transfer history for a single
// token, paging through the API until a page comes back short or empty.
// The API returns pages in ascending chronological order, so concatenation
// preserves that order.
func (f *Fetcher) FetchTokenTransfers(
	ctx context.Context,
	walletAddress string,
	tokenSymbol string,
	contractAddress string,
) ([]transfer.Transfer, error) {
	var all []transfer.Transfer

	for page := 1; ; page++ {
		var pageTransfers []etherscan.TokenTransfer
		err := retry.Do(ctx, f.retryPolicy, func(ctx context.Context) error {
			var pageErr error
			pageTransfers, pageErr = f.client.GetTokenTransfers(
				ctx,
				walletAddress,
				contractAddress,
				page,
				f.pageSize,
			)

			return pageErr
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d of %s transfers: %w", page, tokenSymbol, err)
		}

		if len(pageTransfers) == 0 {
			break
		}

		for i := range pageTransfers {
			all = append(all, toTransfer(&pageTransfers[i], tokenSymbol))
		}

		if len(pageTransfers) < f.pageSize {
			break
		}

		if err := f.pause(ctx); err != nil {
			return nil, err
		}
	}

	if !chronological(all) {
		slog.WarnContext(
			ctx,
			fmt.Sprintf("Transfers for %s are not in ascending timestamp order", tokenSymbol),
		)
	}

	return all, nil
}

// pause waits out the rate interval between page requests.
func (f *Fetcher) pause(ctx context.Context) error {
	if f.rateInterval <= 0 {
		return nil
	}

	timer := time.NewTimer(f.rateInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// toTransfer converts an API record to a persisted transfer record. The
// configured symbol is the fallback when the API omits one.
func toTransfer(apiTransfer *etherscan.TokenTransfer, tokenSymbol string) transfer.Transfer {
	symbol := apiTransfer.TokenSymbol
	if symbol == "" {
		symbol = tokenSymbol
	}

	return transfer.Transfer{
		TokenSymbol:     symbol,
		ContractAddress: apiTransfer.ContractAddress,
		FromAddress:     apiTransfer.FromAddress,
		ToAddress:       apiTransfer.ToAddress,
		Amount:          apiTransfer.Amount,
		TokenDecimals:   apiTransfer.TokenDecimals,
		ExecutionTime:   apiTransfer.TransferTime,
		TransactionHash: apiTransfer.TransactionHash,
	}
}

func chronological(transfers []transfer.Transfer) bool {
	for i := 1; i < len(transfers); i++ {
		if transfers[i].ExecutionTime.Before(transfers[i-1].ExecutionTime) {
			return false
		}
	}

	return true
}
