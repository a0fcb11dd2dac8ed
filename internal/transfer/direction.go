package transfer

import "strings"

// Direction labels a transfer relative to the tracked wallet.
type Direction string

const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
)

// Resolve determines the direction of the transfer relative to the given
// wallet address, along with the counterparty on the other side. ok is
// false when the wallet appears on neither side of the transfer. A self
// transfer resolves as an inflow.
func Resolve(t *Transfer, walletAddress string) (direction Direction, counterparty string, ok bool) {
	switch {
	case strings.EqualFold(t.ToAddress, walletAddress):
		return DirectionInflow, t.FromAddress, true
	case strings.EqualFold(t.FromAddress, walletAddress):
		return DirectionOutflow, t.ToAddress, true
	default:
		return "", "", false
	}
}
