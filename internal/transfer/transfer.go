package transfer

import (
	"math/big"
	"time"
)

// Transfer represents a transfer of tokens from one address to another.
type Transfer struct {
	TokenSymbol     string    // the symbol of the transferred token, e.g., "CRV"
	ContractAddress string    // the token's contract address, encoded in hex
	FromAddress     string    // the address that sent the token, encoded in hex
	ToAddress       string    // the address that received the token, encoded in hex
	Amount          *big.Int  // the amount of tokens transferred, in the token's base unit
	TokenDecimals   int       // the number of decimals the token uses
	ExecutionTime   time.Time // the time the transaction was executed
	TransactionHash string    // the hash of the transaction, encoded in hex
}

// FormatAmount renders the base-unit amount as a human-readable decimal
// string using the record's token decimals.
func (t *Transfer) FormatAmount() string {
	if t.Amount == nil {
		return "0"
	}
	amount := new(big.Float).SetInt(t.Amount)
	denom := new(big.Float).SetFloat64(1)
	for range t.TokenDecimals {
		denom.Mul(denom, big.NewFloat(10)) //nolint:mnd
	}
	amount.Quo(amount, denom)
	s := amount.Text('f', t.TokenDecimals)
	// Trim trailing zeros and dot if needed
	for len(s) > 1 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 1 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}

	return s
}

// AmountTokens returns the amount in whole token units as a float64, for
// aggregation. Precision loss beyond float64 is acceptable for charting.
func (t *Transfer) AmountTokens() float64 {
	if t.Amount == nil {
		return 0
	}

	amount := new(big.Float).SetInt(t.Amount)
	denom := new(big.Float).SetFloat64(1)
	for range t.TokenDecimals {
		denom.Mul(denom, big.NewFloat(10)) //nolint:mnd
	}
	amount.Quo(amount, denom)

	tokens, _ := amount.Float64()

	return tokens
}
