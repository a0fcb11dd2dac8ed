package report

import (
	"fmt"

	"github.com/tokenflowlabs/tokenflow/internal/analysis"
)

// FormatSummary renders the flow statistics and net flows as aligned text
// lines suitable for logging, one string per line.
func FormatSummary(stats []analysis.FlowStats, nets []analysis.NetFlow) []string {
	lines := make([]string, 0, len(stats)+len(nets)+2) //nolint:mnd

	lines = append(lines, fmt.Sprintf(
		"%-8s %-8s %8s %14s %14s %14s %14s %14s",
		"Token", "Flow", "Count", "Sum", "Mean", "Median", "Std", "USD Sum",
	))
	for _, stat := range stats {
		lines = append(lines, fmt.Sprintf(
			"%-8s %-8s %8d %14.2f %14.2f %14.2f %14.2f %14.2f",
			stat.Token,
			stat.Direction,
			stat.Count,
			stat.Sum,
			stat.Mean,
			stat.Median,
			stat.Std,
			stat.USDSum,
		))
	}

	lines = append(lines, fmt.Sprintf("%-8s %14s %14s", "Token", "Net Flow", "Net Flow (USD)"))
	for _, net := range nets {
		lines = append(lines, fmt.Sprintf("%-8s %14.2f %14.2f", net.Token, net.Tokens, net.USD))
	}

	return lines
}
