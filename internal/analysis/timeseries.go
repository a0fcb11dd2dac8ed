package analysis

import (
	"sort"
	"time"

	"github.com/tokenflowlabs/tokenflow/internal/transfer"
)

// TimeSeries is the day-by-day USD flow of every token over a shared
// ascending day axis. Days between the first and last flow with no
// activity are present with zero values so token lines stay aligned.
type TimeSeries struct {
	Days   []time.Time
	Tokens []TokenSeries
}

// TokenSeries is one token's per-day net USD flow, aligned with the
// enclosing TimeSeries' Days, plus its running cumulative net.
type TokenSeries struct {
	Token         string
	NetUSD        []float64
	CumulativeUSD []float64
}

// BuildTimeSeries buckets flows into calendar days (UTC).
func BuildTimeSeries(flows []Flow) *TimeSeries {
	if len(flows) == 0 {
		return &TimeSeries{}
	}

	type dayKey struct {
		token string
		day   time.Time
	}

	netByTokenDay := make(map[dayKey]float64)
	tokens := make(map[string]bool)

	firstDay := truncateToDay(flows[0].Timestamp)
	lastDay := firstDay
	for _, flow := range flows {
		day := truncateToDay(flow.Timestamp)
		if day.Before(firstDay) {
			firstDay = day
		}
		if day.After(lastDay) {
			lastDay = day
		}

		net := flow.USDValue
		if flow.Direction == transfer.DirectionOutflow {
			net = -net
		}
		netByTokenDay[dayKey{token: flow.Token, day: day}] += net
		tokens[flow.Token] = true
	}

	var days []time.Time
	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}

	tokenNames := make([]string, 0, len(tokens))
	for token := range tokens {
		tokenNames = append(tokenNames, token)
	}
	sort.Strings(tokenNames)

	series := &TimeSeries{Days: days}
	for _, token := range tokenNames {
		tokenSeries := TokenSeries{
			Token:         token,
			NetUSD:        make([]float64, len(days)),
			CumulativeUSD: make([]float64, len(days)),
		}

		var cumulative float64
		for i, day := range days {
			net := netByTokenDay[dayKey{token: token, day: day}]
			cumulative += net
			tokenSeries.NetUSD[i] = round2(net)
			tokenSeries.CumulativeUSD[i] = round2(cumulative)
		}

		series.Tokens = append(series.Tokens, tokenSeries)
	}

	return series
}

func truncateToDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
