// Package amounts computes the exact integer amounts moved by lock and
// stake flows. All amounts are non-negative integers carried as decimal
// strings; arithmetic is big-integer only and every subtraction clamps at
// zero.
package amounts

import (
	"math/big"

	"decred.org/dcrwallet/v2/errors"
	"github.com/gov-power/govpower/libgov/utils"
)

// TokenKind identifies the asset class a user selected to gain voting
// power with.
type TokenKind int32

const (
	// Native is the chain's base token.
	Native TokenKind = iota
	// LiquidStakingToken is a yield-bearing token representing already
	// staked native tokens.
	LiquidStakingToken
	// LockupAccount selects balance already held inside the user's lockup
	// contract.
	LockupAccount
)

func (k TokenKind) String() string {
	switch k {
	case Native:
		return "native"
	case LiquidStakingToken:
		return "liquid_staking_token"
	case LockupAccount:
		return "lockup_account"
	default:
		return "unknown"
	}
}

var zero = new(big.Int)

// ParseAmount parses a non-negative decimal string into a big integer.
func ParseAmount(amount string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(amount, 10)
	if !ok || n.Sign() < 0 {
		return nil, errors.E(utils.ErrInvalidAmount)
	}
	return n, nil
}

// ResolveTransferAmount returns the amount to move from the main account
// into the lockup contract for the desired amount of the given kind.
//
// For the native token any balance already liquid inside the lockup is
// netted out, so funds are never moved twice. A liquid staking token is
// always transferred in full; its pricing is not denominated in the native
// token, so no liquid-balance credit applies on that path.
func ResolveTransferAmount(desired string, kind TokenKind, liquidLockupBalance string) (string, error) {
	desiredAmt, err := ParseAmount(desired)
	if err != nil {
		return "", err
	}

	if kind != Native {
		return desiredAmt.String(), nil
	}

	liquid, err := ParseAmount(liquidLockupBalance)
	if err != nil {
		return "", err
	}

	transfer := new(big.Int).Sub(desiredAmt, liquid)
	if transfer.Sign() < 0 {
		transfer.Set(zero)
	}
	return transfer.String(), nil
}

// ResolveLockAmount returns the amount of liquid lockup balance to convert
// into voting power. The target is the desired amount for the native token,
// or the voting-power equivalent of the desired amount for a liquid staking
// token; the result never exceeds what is actually liquid in the lockup.
//
// Locking min(target, liquid) handles a residual balance auto-locked by a
// prior operation without under-locking or double-counting it.
func ResolveLockAmount(desired string, kind TokenKind, votingEquivalent string, liquidLockupBalance string) (string, error) {
	target, err := ParseAmount(desired)
	if err != nil {
		return "", err
	}

	if kind == LiquidStakingToken {
		target, err = ParseAmount(votingEquivalent)
		if err != nil {
			return "", err
		}
	}

	liquid, err := ParseAmount(liquidLockupBalance)
	if err != nil {
		return "", err
	}

	if target.Cmp(liquid) > 0 {
		return liquid.String(), nil
	}
	return target.String(), nil
}

// Cmp compares two decimal amount strings as big integers.
func Cmp(a, b string) (int, error) {
	x, err := ParseAmount(a)
	if err != nil {
		return 0, err
	}
	y, err := ParseAmount(b)
	if err != nil {
		return 0, err
	}
	return x.Cmp(y), nil
}

// IsZero reports whether the decimal amount string is zero. Malformed or
// empty strings are treated as zero so callers reading optional on-chain
// figures do not need a pre-parse step.
func IsZero(amount string) bool {
	if amount == "" {
		return true
	}
	n, ok := new(big.Int).SetString(amount, 10)
	return !ok || n.Sign() == 0
}

// Sum adds decimal amount strings, ignoring malformed entries.
func Sum(values ...string) string {
	total := new(big.Int)
	for _, v := range values {
		n, ok := new(big.Int).SetString(v, 10)
		if !ok || n.Sign() < 0 {
			continue
		}
		total.Add(total, n)
	}
	return total.String()
}
