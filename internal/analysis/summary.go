package analysis

import (
	"math"
	"sort"

	"github.com/tokenflowlabs/tokenflow/internal/transfer"
)

// FlowStats holds the aggregate statistics for one (token, direction)
// group, in token units and in USD terms. All values are rounded to two
// decimal places.
type FlowStats struct {
	Token     string
	Direction transfer.Direction

	Count  int
	Sum    float64
	Mean   float64
	Median float64
	Std    float64

	USDSum    float64
	USDMean   float64
	USDMedian float64
	USDStd    float64
}

// NetFlow is a token's inflow minus its outflow.
type NetFlow struct {
	Token  string
	Tokens float64
	USD    float64
}

// Summarize groups flows by (token, direction) and computes the
// count/sum/mean/median/std aggregates. The result is ordered by token,
// inflow before outflow.
func Summarize(flows []Flow) []FlowStats {
	type groupKey struct {
		token     string
		direction transfer.Direction
	}

	grouped := make(map[groupKey][]Flow)
	for _, flow := range flows {
		key := groupKey{token: flow.Token, direction: flow.Direction}
		grouped[key] = append(grouped[key], flow)
	}

	stats := make([]FlowStats, 0, len(grouped))
	for key, group := range grouped {
		amounts := make([]float64, 0, len(group))
		usdValues := make([]float64, 0, len(group))
		for _, flow := range group {
			amounts = append(amounts, flow.Amount)
			usdValues = append(usdValues, flow.USDValue)
		}

		stats = append(stats, FlowStats{
			Token:     key.token,
			Direction: key.direction,
			Count:     len(group),
			Sum:       round2(sum(amounts)),
			Mean:      round2(mean(amounts)),
			Median:    round2(median(amounts)),
			Std:       round2(std(amounts)),
			USDSum:    round2(sum(usdValues)),
			USDMean:   round2(mean(usdValues)),
			USDMedian: round2(median(usdValues)),
			USDStd:    round2(std(usdValues)),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Token != stats[j].Token {
			return stats[i].Token < stats[j].Token
		}
		return stats[i].Direction < stats[j].Direction
	})

	return stats
}

// NetFlows computes each token's inflow minus outflow, ordered by token.
func NetFlows(flows []Flow) []NetFlow {
	tokenAmounts := make(map[string]float64)
	tokenUSD := make(map[string]float64)
	for _, flow := range flows {
		sign := 1.0
		if flow.Direction == transfer.DirectionOutflow {
			sign = -1.0
		}
		tokenAmounts[flow.Token] += sign * flow.Amount
		tokenUSD[flow.Token] += sign * flow.USDValue
	}

	nets := make([]NetFlow, 0, len(tokenAmounts))
	for token := range tokenAmounts {
		nets = append(nets, NetFlow{
			Token:  token,
			Tokens: round2(tokenAmounts[token]),
			USD:    round2(tokenUSD[token]),
		})
	}

	sort.Slice(nets, func(i, j int) bool { return nets[i].Token < nets[j].Token })

	return nets
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2 //nolint:mnd
}

// std is the sample standard deviation. Groups of fewer than two flows
// report zero.
func std(values []float64) float64 {
	if len(values) < 2 { //nolint:mnd
		return 0
	}

	m := mean(values)
	var sumSquares float64
	for _, v := range values {
		diff := v - m
		sumSquares += diff * diff
	}

	return math.Sqrt(sumSquares / float64(len(values)-1))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100 //nolint:mnd
}
