package analysis

import (
	"math"
	"sort"

	"github.com/tokenflowlabs/tokenflow/internal/transfer"
)

// SankeyFlow is one aggregated edge between a counterparty node and the
// wallet node for a token, in USD terms.
type SankeyFlow struct {
	Source string
	Target string
	USD    float64
}

// walletNodeSuffix labels the tracked wallet's node per token.
const walletNodeSuffix = "wallet"

// SankeyFlows aggregates flows into per-token edges between shortened
// counterparty addresses and the wallet node, dropping individual flows
// below minUSD. The result is ordered by source then target.
func SankeyFlows(flows []Flow, minUSD float64) []SankeyFlow {
	type edge struct {
		source string
		target string
	}

	aggregated := make(map[edge]float64)
	for _, flow := range flows {
		if math.Abs(flow.USDValue) < minUSD {
			continue
		}

		walletNode := flow.Token + " " + walletNodeSuffix

		var e edge
		if flow.Direction == transfer.DirectionInflow {
			e = edge{
				source: flow.Token + " " + ShortenAddress(flow.FromAddress),
				target: walletNode,
			}
		} else {
			e = edge{
				source: walletNode,
				target: flow.Token + " " + ShortenAddress(flow.ToAddress),
			}
		}

		aggregated[e] += flow.USDValue
	}

	sankeyFlows := make([]SankeyFlow, 0, len(aggregated))
	for e, usd := range aggregated {
		sankeyFlows = append(sankeyFlows, SankeyFlow{
			Source: e.source,
			Target: e.target,
			USD:    round2(usd),
		})
	}

	sort.Slice(sankeyFlows, func(i, j int) bool {
		if sankeyFlows[i].Source != sankeyFlows[j].Source {
			return sankeyFlows[i].Source < sankeyFlows[j].Source
		}
		return sankeyFlows[i].Target < sankeyFlows[j].Target
	})

	return sankeyFlows
}

// ShortenAddress abbreviates a hex address to its first six and last four
// characters. Addresses at most twelve characters long are left as-is.
func ShortenAddress(address string) string {
	if len(address) <= 12 { //nolint:mnd
		return address
	}

	return address[:6] + "..." + address[len(address)-4:]
}
