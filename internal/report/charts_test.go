package report_test

import (
	"bytes"
	"time"

	"github.com/tokenflowlabs/tokenflow/internal/analysis"
	"github.com/tokenflowlabs/tokenflow/internal/report"
	"github.com/tokenflowlabs/tokenflow/internal/transfer"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func sampleReport() *report.Report {
	return &report.Report{
		Wallet: "0x9134fc7112b478e97eE6F0E6A7bf81EcAfef19ED",
		TimeSeries: &analysis.TimeSeries{
			Days: []time.Time{
				time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC),
				time.Date(2025, 12, 11, 0, 0, 0, 0, time.UTC),
			},
			Tokens: []analysis.TokenSeries{
				{Token: "CRV", NetUSD: []float64{100, -40}, CumulativeUSD: []float64{100, 60}},
			},
		},
		FlowStats: []analysis.FlowStats{
			{Token: "CRV", Direction: transfer.DirectionInflow, Count: 1, USDSum: 100},
			{Token: "CRV", Direction: transfer.DirectionOutflow, Count: 1, USDSum: 40},
		},
		NetFlows: []analysis.NetFlow{
			{Token: "CRV", Tokens: 60, USD: 60},
		},
		TopCounterparties: []analysis.CounterpartyStats{
			{Address: "0x1111111111111111111111111111111111111111", InflowUSD: 100, OutflowUSD: 40, NetUSD: 60, GrossUSD: 140},
		},
		SankeyFlows: []analysis.SankeyFlow{
			{Source: "CRV 0x1111...1111", Target: "CRV wallet", USD: 100},
			{Source: "CRV wallet", Target: "CRV 0x1111...1111", USD: 40},
		},
	}
}

var _ = Describe("Render", func() {
	It("renders every chart onto one HTML page", func() {
		var buf bytes.Buffer
		Expect(report.Render(&buf, sampleReport())).To(Succeed())

		html := buf.String()
		Expect(html).To(ContainSubstring("Cumulative net flow (USD)"))
		Expect(html).To(ContainSubstring("Inflow vs outflow per token (USD)"))
		Expect(html).To(ContainSubstring("Net flow per token (USD)"))
		Expect(html).To(ContainSubstring("Top counterparties (USD)"))
		Expect(html).To(ContainSubstring("Token flow analysis (USD values)"))
		Expect(html).To(ContainSubstring("CRV wallet"))
	})

	It("is idempotent for the same report", func() {
		var first, second bytes.Buffer
		Expect(report.Render(&first, sampleReport())).To(Succeed())
		Expect(report.Render(&second, sampleReport())).To(Succeed())
		Expect(first.String()).To(Equal(second.String()))
	})
})
