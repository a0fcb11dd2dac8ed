package big

import (
	"fmt"
	"math/big"
	"strings"
)

const (
	base10 = 10
)

// BigIntFromString converts a base-10 string to a *big.Int.
func BigIntFromString(s string) (*big.Int, error) {
	// allow common thousands separators (commas, underscores and spaces)
	sanitized := strings.ReplaceAll(s, ",", "")
	sanitized = strings.ReplaceAll(sanitized, "_", "")
	sanitized = strings.ReplaceAll(sanitized, " ", "")

	bigInt, isValid := new(big.Int).SetString(sanitized, base10)
	if !isValid {
		return nil, fmt.Errorf("invalid integer string: %s", s)
	}

	return bigInt, nil
}

// BigIntFromDecimalString converts a human-readable token amount such as
// "101.5" into the token's base units (amount * 10^decimals).
// The fractional part must not be more precise than the token supports.
func BigIntFromDecimalString(s string, decimals int) (*big.Int, error) {
	wholeString := s
	fracString := ""
	if strings.Contains(s, ".") {
		parts := strings.SplitN(s, ".", 2) //nolint:mnd
		wholeString = parts[0]
		// Trim off any trailing zeroes to avoid over-expanding
		fracString = strings.TrimRight(parts[1], "0")
	}

	wholeTokens, err := BigIntFromString(wholeString)
	if err != nil {
		return nil, fmt.Errorf("parse whole token amount %q: %w", wholeString, err)
	}

	totalAmount := new(big.Int)

	// Expand the whole tokens out to base units
	if wholeTokens.Sign() > 0 {
		scale := new(big.Int).Exp(big.NewInt(base10), big.NewInt(int64(decimals)), nil)
		totalAmount.Mul(wholeTokens, scale)
	}

	if fracString != "" {
		exponent := decimals - len(fracString)
		if exponent < 0 {
			return nil, fmt.Errorf(
				"fractional token amount %q has more decimal places than the token supports (%d)",
				s,
				decimals,
			)
		}

		fracTokens, err := BigIntFromString(fracString)
		if err != nil {
			return nil, fmt.Errorf("parse fractional token amount %q: %w", fracString, err)
		}

		fracBaseUnits := new(big.Int).Mul(
			fracTokens,
			new(big.Int).Exp(big.NewInt(base10), big.NewInt(int64(exponent)), nil),
		)
		totalAmount.Add(totalAmount, fracBaseUnits)
	}

	return totalAmount, nil
}
