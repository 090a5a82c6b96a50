// Package lamports converts between decimal SOL amount strings and the
// lamport values the escrow program stores.
package lamports

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	Decimals       = 9
	LamportsPerSol = 1_000_000_000

	// 10 whole digits keeps sol*LamportsPerSol+fraction below the uint64
	// ceiling, and is still far above total supply.
	maxWholeDigits = 10
)

// FromString converts a decimal string representation of a SOL amount to
// lamports. Precision beyond 9 decimal places is truncated.
//
// An error is returned if the value is not a well formed non-negative
// decimal, or is too large to represent.
func FromString(val string) (uint64, error) {
	parts := strings.Split(val, ".")
	if len(parts) > 2 {
		return 0, errors.New("invalid amount")
	}

	if len(parts[0]) > maxWholeDigits {
		return 0, errors.New("value cannot be represented")
	}

	sol, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, errors.New("invalid amount")
	}

	var fraction uint64
	if len(parts) == 2 && len(parts[1]) > 0 {
		digits := parts[1]
		if len(digits) > Decimals {
			digits = digits[:Decimals]
		}
		if len(digits) < Decimals {
			digits = digits + strings.Repeat("0", Decimals-len(digits))
		}

		fraction, err = strconv.ParseUint(digits, 10, 64)
		if err != nil {
			return 0, errors.New("invalid decimal component")
		}
	}

	return sol*LamportsPerSol + fraction, nil
}

// ToString converts a lamport amount to the decimal string representation
// of SOL.
func ToString(amount uint64) string {
	return fmt.Sprintf("%d.%09d", amount/LamportsPerSol, amount%LamportsPerSol)
}
