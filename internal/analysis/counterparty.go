package analysis

import (
	"sort"
	"strings"

	"github.com/tokenflowlabs/tokenflow/internal/transfer"
)

// CounterpartyStats aggregates the flow totals for one counterparty
// address across all tokens, in USD terms.
type CounterpartyStats struct {
	Address    string
	Transfers  int
	InflowUSD  float64
	OutflowUSD float64
	NetUSD     float64 // InflowUSD - OutflowUSD
	GrossUSD   float64 // InflowUSD + OutflowUSD
}

// Counterparties aggregates flows per counterparty, ordered by gross USD
// volume descending. Addresses are normalized to lower case so checksummed
// and plain spellings aggregate together.
func Counterparties(flows []Flow) []CounterpartyStats {
	byAddress := make(map[string]*CounterpartyStats)
	for _, flow := range flows {
		address := strings.ToLower(flow.Counterparty)

		stats, found := byAddress[address]
		if !found {
			stats = &CounterpartyStats{Address: address}
			byAddress[address] = stats
		}

		stats.Transfers++
		if flow.Direction == transfer.DirectionInflow {
			stats.InflowUSD += flow.USDValue
		} else {
			stats.OutflowUSD += flow.USDValue
		}
	}

	all := make([]CounterpartyStats, 0, len(byAddress))
	for _, stats := range byAddress {
		stats.NetUSD = stats.InflowUSD - stats.OutflowUSD
		stats.GrossUSD = stats.InflowUSD + stats.OutflowUSD
		all = append(all, *stats)
	}

	// address as tie breaker keeps the ordering deterministic
	sort.Slice(all, func(i, j int) bool {
		if all[i].GrossUSD != all[j].GrossUSD {
			return all[i].GrossUSD > all[j].GrossUSD
		}
		return all[i].Address < all[j].Address
	})

	return all
}

// TopCounterparties returns the n counterparties with the largest gross
// USD volume.
func TopCounterparties(flows []Flow, n int) []CounterpartyStats {
	all := Counterparties(flows)
	if n <= 0 || n >= len(all) {
		return all
	}

	return all[:n]
}
