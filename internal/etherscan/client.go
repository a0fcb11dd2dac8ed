package etherscan

import "context"

// Client defines the interface for querying an Etherscan-compatible block
// explorer API. An individual client instance is bound to a particular
// chain's API endpoint.
type Client interface {
	// GetTokenTransfers retrieves one page of ERC-20 token transfers for the
	// given account address and token contract address, in ascending
	// chronological order. The page index is one-based; the offset is the
	// number of transfers per page.
	GetTokenTransfers(ctx context.Context, accountAddress string, contractAddress string, page int, offset int) ([]TokenTransfer, error)
}
