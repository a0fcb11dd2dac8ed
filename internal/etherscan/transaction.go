package etherscan

import (
	"math/big"
	"time"
)

// TokenTransfer represents one ERC-20 token transfer returned by the
// account tokentx API.
type TokenTransfer struct {
	TransactionHash string    // the hash of the transaction, expressed as a hex-encoded string
	FromAddress     string    // the address that sent the token, encoded in hex
	ToAddress       string    // the address that received the token, encoded in hex
	Amount          *big.Int  // the amount transferred, in the token's base unit
	TokenSymbol     string    // the symbol of the transferred token, e.g., "CRV"
	TokenDecimals   int       // the number of decimals the token uses
	ContractAddress string    // the token's contract address, encoded in hex
	TransferTime    time.Time // the time the transfer occurred
}
