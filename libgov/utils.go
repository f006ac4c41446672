package libgov

import (
	"math/big"
)

var nsPerSec = big.NewInt(1_000_000_000)

// nsToUnix converts a decimal nanosecond-count string, as reported by the
// ledger, to unix seconds. Malformed values map to 0.
func nsToUnix(ns string) int64 {
	n, ok := new(big.Int).SetString(ns, 10)
	if !ok {
		return 0
	}
	return n.Div(n, nsPerSec).Int64()
}
