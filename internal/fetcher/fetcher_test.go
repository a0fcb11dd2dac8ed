package fetcher_test

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/tokenflowlabs/tokenflow/internal/config"
	"github.com/tokenflowlabs/tokenflow/internal/etherscan"
	"github.com/tokenflowlabs/tokenflow/internal/fetcher"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeClient serves canned pages per contract address and can fail a set
// number of times before succeeding.
type fakeClient struct {
	pages         map[string][][]etherscan.TokenTransfer
	failuresLeft  int
	failureError  error
	requestedPage []int
}

func (c *fakeClient) GetTokenTransfers(
	_ context.Context,
	_ string,
	contractAddress string,
	page int,
	_ int,
) ([]etherscan.TokenTransfer, error) {
	c.requestedPage = append(c.requestedPage, page)

	if c.failuresLeft > 0 {
		c.failuresLeft--
		return nil, c.failureError
	}

	tokenPages := c.pages[contractAddress]
	if page > len(tokenPages) {
		return nil, nil
	}

	return tokenPages[page-1], nil
}

func apiTransfer(hash string, unixSeconds int64) etherscan.TokenTransfer {
	return etherscan.TokenTransfer{
		TransactionHash: hash,
		FromAddress:     "0x1111111111111111111111111111111111111111",
		ToAddress:       "0x2222222222222222222222222222222222222222",
		Amount:          big.NewInt(1000000),
		TokenSymbol:     "CRV",
		TokenDecimals:   6,
		ContractAddress: "0xc0ffee",
		TransferTime:    time.Unix(unixSeconds, 0).UTC(),
	}
}

var _ = Describe("FetchTokenTransfers", func() {
	const wallet = "0x2222222222222222222222222222222222222222"
	const contract = "0xc0ffee"

	// page size 2 keeps the paging arithmetic visible in the fixtures
	newFetcher := func(client etherscan.Client) *fetcher.Fetcher {
		return fetcher.New(client, 2, 0, 3)
	}

	It("concatenates pages preserving chronological order", func() {
		client := &fakeClient{
			pages: map[string][][]etherscan.TokenTransfer{
				contract: {
					{apiTransfer("0xa", 100), apiTransfer("0xb", 200)},
					{apiTransfer("0xc", 300), apiTransfer("0xd", 400)},
					{apiTransfer("0xe", 500)},
				},
			},
		}

		transfers, err := newFetcher(client).FetchTokenTransfers(context.Background(), wallet, "CRV", contract)
		Expect(err).ToNot(HaveOccurred())
		Expect(transfers).To(HaveLen(5))

		hashes := make([]string, 0, len(transfers))
		for _, xfr := range transfers {
			hashes = append(hashes, xfr.TransactionHash)
		}
		Expect(hashes).To(Equal([]string{"0xa", "0xb", "0xc", "0xd", "0xe"}))

		for i := 1; i < len(transfers); i++ {
			Expect(transfers[i].ExecutionTime.Before(transfers[i-1].ExecutionTime)).To(BeFalse())
		}
	})

	It("stops after a short page without requesting another", func() {
		client := &fakeClient{
			pages: map[string][][]etherscan.TokenTransfer{
				contract: {
					{apiTransfer("0xa", 100)},
				},
			},
		}

		transfers, err := newFetcher(client).FetchTokenTransfers(context.Background(), wallet, "CRV", contract)
		Expect(err).ToNot(HaveOccurred())
		Expect(transfers).To(HaveLen(1))
		Expect(client.requestedPage).To(Equal([]int{1}))
	})

	It("returns no transfers for an empty history", func() {
		client := &fakeClient{pages: map[string][][]etherscan.TokenTransfer{}}

		transfers, err := newFetcher(client).FetchTokenTransfers(context.Background(), wallet, "CRV", contract)
		Expect(err).ToNot(HaveOccurred())
		Expect(transfers).To(BeEmpty())
	})

	It("retries rate-limited pages and then succeeds", func() {
		client := &fakeClient{
			pages: map[string][][]etherscan.TokenTransfer{
				contract: {
					{apiTransfer("0xa", 100)},
				},
			},
			failuresLeft: 2,
			failureError: etherscan.ErrRateLimited,
		}

		transfers, err := newFetcher(client).FetchTokenTransfers(context.Background(), wallet, "CRV", contract)
		Expect(err).ToNot(HaveOccurred())
		Expect(transfers).To(HaveLen(1))
		Expect(client.requestedPage).To(HaveLen(3))
	})

	It("fails fast on a non-retryable error", func() {
		client := &fakeClient{
			failuresLeft: 3,
			failureError: errors.New("invalid API key"),
		}

		_, err := newFetcher(client).FetchTokenTransfers(context.Background(), wallet, "CRV", contract)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("invalid API key"))
		Expect(client.requestedPage).To(HaveLen(1))
	})

	It("gives up after exhausting retries", func() {
		client := &fakeClient{
			failuresLeft: 10,
			failureError: etherscan.ErrRateLimited,
		}

		_, err := newFetcher(client).FetchTokenTransfers(context.Background(), wallet, "CRV", contract)
		Expect(err).To(MatchError(etherscan.ErrRateLimited))
		Expect(client.requestedPage).To(HaveLen(3))
	})

	It("falls back to the configured symbol when the API omits one", func() {
		unlabeled := apiTransfer("0xa", 100)
		unlabeled.TokenSymbol = ""
		client := &fakeClient{
			pages: map[string][][]etherscan.TokenTransfer{
				contract: {{unlabeled}},
			},
		}

		transfers, err := newFetcher(client).FetchTokenTransfers(context.Background(), wallet, "CRV", contract)
		Expect(err).ToNot(HaveOccurred())
		Expect(transfers[0].TokenSymbol).To(Equal("CRV"))
	})
})

var _ = Describe("FetchAllTransfers", func() {
	const wallet = "0x2222222222222222222222222222222222222222"

	It("skips a failing token and continues with the rest", func() {
		good := apiTransfer("0xgood", 100)
		good.ContractAddress = "0xgood-contract"
		client := &multiTokenClient{
			transfersByContract: map[string][]etherscan.TokenTransfer{
				"0xgood-contract": {good},
			},
			failingContracts: map[string]error{
				"0xbad-contract": errors.New("invalid contract"),
			},
		}

		tokens := []config.Token{
			{Symbol: "BAD", Contract: "0xbad-contract"},
			{Symbol: "GOOD", Contract: "0xgood-contract"},
		}

		transfers := fetcher.New(client, 10, 0, 1).FetchAllTransfers(context.Background(), wallet, tokens)
		Expect(transfers).To(HaveLen(1))
		Expect(transfers[0].TransactionHash).To(Equal("0xgood"))
	})
})

type multiTokenClient struct {
	transfersByContract map[string][]etherscan.TokenTransfer
	failingContracts    map[string]error
}

func (c *multiTokenClient) GetTokenTransfers(
	_ context.Context,
	_ string,
	contractAddress string,
	page int,
	_ int,
) ([]etherscan.TokenTransfer, error) {
	if err, failing := c.failingContracts[contractAddress]; failing {
		return nil, err
	}

	if page > 1 {
		return nil, nil
	}

	return c.transfersByContract[contractAddress], nil
}

var _ = Describe("retry pacing", func() {
	It("does not stall the first page on an empty rate interval", func() {
		client := &fakeClient{pages: map[string][][]etherscan.TokenTransfer{}}
		start := time.Now()
		_, err := fetcher.New(client, 2, 0, 1).FetchTokenTransfers(context.Background(), "0x1", "CRV", "0xc0ffee")
		Expect(err).ToNot(HaveOccurred())
		Expect(time.Since(start)).To(BeNumerically("<", time.Second))
	})
})

var _ = DescribeTable("page request sequencing",
	func(pageCount int, expectedRequests []int) {
		pages := make([][]etherscan.TokenTransfer, 0, pageCount)
		for i := range pageCount {
			pages = append(pages, []etherscan.TokenTransfer{
				apiTransfer(fmt.Sprintf("0x%d-a", i), int64(100*i)),
				apiTransfer(fmt.Sprintf("0x%d-b", i), int64(100*i+50)),
			})
		}
		client := &fakeClient{pages: map[string][][]etherscan.TokenTransfer{"0xc0ffee": pages}}

		_, err := fetcher.New(client, 2, 0, 1).FetchTokenTransfers(context.Background(), "0x1", "CRV", "0xc0ffee")
		Expect(err).ToNot(HaveOccurred())
		Expect(client.requestedPage).To(Equal(expectedRequests))
	},
	Entry("no pages", 0, []int{1}),
	Entry("one full page", 1, []int{1, 2}),
	Entry("three full pages", 3, []int{1, 2, 3, 4}),
)
