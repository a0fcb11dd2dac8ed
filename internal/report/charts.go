package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/tokenflowlabs/tokenflow/internal/analysis"
	"github.com/tokenflowlabs/tokenflow/internal/transfer"
)

// Report carries everything rendered onto the HTML page.
type Report struct {
	Wallet            string
	TimeSeries        *analysis.TimeSeries
	FlowStats         []analysis.FlowStats
	NetFlows          []analysis.NetFlow
	TopCounterparties []analysis.CounterpartyStats
	SankeyFlows       []analysis.SankeyFlow
}

const (
	chartWidth  = "1100px"
	chartHeight = "500px"
)

// Render writes the report as a single self-contained HTML page. All chart
// inputs are pre-sorted, and chart IDs are fixed, so rendering the same
// report twice produces identical output.
func Render(w io.Writer, report *Report) error {
	page := components.NewPage()
	page.PageTitle = "Token flow analysis"

	page.AddCharts(
		cumulativeNetLine(report.TimeSeries, report.Wallet),
		tokenFlowBar(report.FlowStats),
		netFlowBar(report.NetFlows),
		counterpartyBar(report.TopCounterparties),
		flowSankey(report.SankeyFlows),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render report page: %w", err)
	}

	return nil
}

// cumulativeNetLine plots each token's running net USD flow over the
// shared day axis.
func cumulativeNetLine(series *analysis.TimeSeries, wallet string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: "cumulative-net-flow",
			Width:   chartWidth,
			Height:  chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Cumulative net flow (USD)",
			Subtitle: "Wallet " + wallet,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	dayLabels := make([]string, 0, len(series.Days))
	for _, day := range series.Days {
		dayLabels = append(dayLabels, day.Format("2006-01-02"))
	}
	line.SetXAxis(dayLabels)

	for _, tokenSeries := range series.Tokens {
		data := make([]opts.LineData, 0, len(tokenSeries.CumulativeUSD))
		for _, value := range tokenSeries.CumulativeUSD {
			data = append(data, opts.LineData{Value: value})
		}
		line.AddSeries(tokenSeries.Token, data)
	}

	return line
}

// tokenFlowBar compares total inflow against total outflow per token, in
// USD terms.
func tokenFlowBar(stats []analysis.FlowStats) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: "token-flow-totals",
			Width:   chartWidth,
			Height:  chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: "Inflow vs outflow per token (USD)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	// stats is ordered by token; collect the token axis preserving order
	var tokens []string
	seen := make(map[string]bool)
	inflowByToken := make(map[string]float64)
	outflowByToken := make(map[string]float64)
	for _, stat := range stats {
		if !seen[stat.Token] {
			seen[stat.Token] = true
			tokens = append(tokens, stat.Token)
		}
		if stat.Direction == transfer.DirectionInflow {
			inflowByToken[stat.Token] = stat.USDSum
		} else {
			outflowByToken[stat.Token] = stat.USDSum
		}
	}

	inflows := make([]opts.BarData, 0, len(tokens))
	outflows := make([]opts.BarData, 0, len(tokens))
	for _, token := range tokens {
		inflows = append(inflows, opts.BarData{Value: inflowByToken[token]})
		outflows = append(outflows, opts.BarData{Value: outflowByToken[token]})
	}

	bar.SetXAxis(tokens)
	bar.AddSeries("inflow", inflows)
	bar.AddSeries("outflow", outflows)

	return bar
}

// netFlowBar shows each token's inflow minus outflow.
func netFlowBar(nets []analysis.NetFlow) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: "net-flow-per-token",
			Width:   chartWidth,
			Height:  chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: "Net flow per token (USD)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	tokens := make([]string, 0, len(nets))
	values := make([]opts.BarData, 0, len(nets))
	for _, net := range nets {
		tokens = append(tokens, net.Token)
		values = append(values, opts.BarData{Value: net.USD})
	}

	bar.SetXAxis(tokens)
	bar.AddSeries("net flow", values)

	return bar
}

// counterpartyBar shows inflow and outflow volume for the top
// counterparties, largest gross volume first.
func counterpartyBar(counterparties []analysis.CounterpartyStats) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: "top-counterparties",
			Width:   chartWidth,
			Height:  chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: "Top counterparties (USD)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Rotate: 45}}),
	)

	labels := make([]string, 0, len(counterparties))
	inflows := make([]opts.BarData, 0, len(counterparties))
	outflows := make([]opts.BarData, 0, len(counterparties))
	for _, counterparty := range counterparties {
		labels = append(labels, analysis.ShortenAddress(counterparty.Address))
		inflows = append(inflows, opts.BarData{Value: counterparty.InflowUSD})
		outflows = append(outflows, opts.BarData{Value: counterparty.OutflowUSD})
	}

	bar.SetXAxis(labels)
	bar.AddSeries("inflow", inflows)
	bar.AddSeries("outflow", outflows)

	return bar
}

// flowSankey draws the aggregated flow edges between counterparty nodes
// and the wallet node.
func flowSankey(sankeyFlows []analysis.SankeyFlow) *charts.Sankey {
	sankey := charts.NewSankey()
	sankey.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: "token-flow-sankey",
			Width:   chartWidth,
			Height:  "800px",
		}),
		charts.WithTitleOpts(opts.Title{Title: "Token flow analysis (USD values)"}),
	)

	seenNodes := make(map[string]bool)
	var nodes []opts.SankeyNode
	links := make([]opts.SankeyLink, 0, len(sankeyFlows))
	for _, flow := range sankeyFlows {
		for _, name := range []string{flow.Source, flow.Target} {
			if !seenNodes[name] {
				seenNodes[name] = true
				nodes = append(nodes, opts.SankeyNode{Name: name})
			}
		}

		links = append(links, opts.SankeyLink{
			Source: flow.Source,
			Target: flow.Target,
			Value:  float32(flow.USD),
		})
	}

	sankey.AddSeries("flows", nodes, links, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}))

	return sankey
}
