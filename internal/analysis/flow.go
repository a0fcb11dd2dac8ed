package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tokenflowlabs/tokenflow/internal/transfer"
)

// Flow is one transfer classified relative to the tracked wallet, with
// amounts converted to float64 token units for aggregation.
type Flow struct {
	Timestamp       time.Time
	TransactionHash string
	FromAddress     string
	ToAddress       string
	Token           string
	Amount          float64 // token units
	USDValue        float64
	Direction       transfer.Direction
	Counterparty    string
}

// ClassifyTransfers converts raw transfer records into flow rows relative
// to the tracked wallet. Skipped and not counted:
//   - records with a nil amount or empty token identifier
//   - records where the wallet is on neither side
//   - records on the ignore list (may be nil)
//
// USD values come from the given per-symbol price table; a token without a
// configured price aggregates at zero USD.
func ClassifyTransfers(
	ctx context.Context,
	transfers []transfer.Transfer,
	walletAddress string,
	usdPrices map[string]float64,
	ignoreList *transfer.IgnoreList,
) []Flow {
	flows := make([]Flow, 0, len(transfers))

	for i := range transfers {
		xfr := &transfers[i]

		if xfr.Amount == nil || xfr.TokenSymbol == "" {
			slog.DebugContext(
				ctx,
				fmt.Sprintf(
					"Skipping transfer '%s': missing amount or token identifier",
					xfr.TransactionHash,
				),
			)

			continue
		}

		if ignoreList != nil && ignoreList.Contains(xfr.TransactionHash) {
			slog.DebugContext(
				ctx,
				fmt.Sprintf("Skipping transfer '%s': on the ignore list", xfr.TransactionHash),
			)

			continue
		}

		direction, counterparty, ok := transfer.Resolve(xfr, walletAddress)
		if !ok {
			// Not related to the wallet; skip
			continue
		}

		amount := xfr.AmountTokens()

		flows = append(flows, Flow{
			Timestamp:       xfr.ExecutionTime,
			TransactionHash: xfr.TransactionHash,
			FromAddress:     xfr.FromAddress,
			ToAddress:       xfr.ToAddress,
			Token:           xfr.TokenSymbol,
			Amount:          amount,
			USDValue:        amount * usdPrices[xfr.TokenSymbol],
			Direction:       direction,
			Counterparty:    counterparty,
		})
	}

	return flows
}
