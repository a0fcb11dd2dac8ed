package analysis_test

import (
	"github.com/tokenflowlabs/tokenflow/internal/analysis"
	"github.com/tokenflowlabs/tokenflow/internal/transfer"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SankeyFlows", func() {
	const sender = "0x1111111111111111111111111111111111111111"
	const receiver = "0x2222222222222222222222222222222222222222"

	It("aggregates inflows toward and outflows away from the wallet node", func() {
		flows := []analysis.Flow{
			{Token: "CRV", USDValue: 500, Direction: transfer.DirectionInflow, FromAddress: sender},
			{Token: "CRV", USDValue: 300, Direction: transfer.DirectionInflow, FromAddress: sender},
			{Token: "CRV", USDValue: 200, Direction: transfer.DirectionOutflow, ToAddress: receiver},
		}

		sankeyFlows := analysis.SankeyFlows(flows, 100)
		Expect(sankeyFlows).To(HaveLen(2))

		Expect(sankeyFlows[0].Source).To(Equal("CRV 0x1111...1111"))
		Expect(sankeyFlows[0].Target).To(Equal("CRV wallet"))
		Expect(sankeyFlows[0].USD).To(Equal(800.0))

		Expect(sankeyFlows[1].Source).To(Equal("CRV wallet"))
		Expect(sankeyFlows[1].Target).To(Equal("CRV 0x2222...2222"))
		Expect(sankeyFlows[1].USD).To(Equal(200.0))
	})

	It("drops individual flows below the USD threshold", func() {
		flows := []analysis.Flow{
			{Token: "CRV", USDValue: 99, Direction: transfer.DirectionInflow, FromAddress: sender},
			{Token: "CRV", USDValue: 101, Direction: transfer.DirectionInflow, FromAddress: sender},
		}

		sankeyFlows := analysis.SankeyFlows(flows, 100)
		Expect(sankeyFlows).To(HaveLen(1))
		Expect(sankeyFlows[0].USD).To(Equal(101.0))
	})

	It("produces a deterministic ordering", func() {
		flows := []analysis.Flow{
			{Token: "USDC", USDValue: 200, Direction: transfer.DirectionOutflow, ToAddress: receiver},
			{Token: "CRV", USDValue: 500, Direction: transfer.DirectionInflow, FromAddress: sender},
		}

		first := analysis.SankeyFlows(flows, 100)
		second := analysis.SankeyFlows(flows, 100)
		Expect(first).To(Equal(second))
	})
})

var _ = Describe("ShortenAddress", func() {
	It("abbreviates long addresses", func() {
		Expect(analysis.ShortenAddress("0x9134fc7112b478e97eE6F0E6A7bf81EcAfef19ED")).
			To(Equal("0x9134...19ED"))
	})

	It("leaves short strings untouched", func() {
		Expect(analysis.ShortenAddress("0xwallet")).To(Equal("0xwallet"))
	})
})
