// Package chain defines the narrow surfaces through which the governance
// core reaches the ledger: a change-method caller that goes through the
// user's wallet for signing, and a read-only state query client. Both are
// fallible network boundaries and every method takes a context.
package chain

import "context"

// MethodNativeTransfer is the reserved method name understood by Caller
// implementations as a plain balance transfer of the attached deposit to
// the target account, with no function call.
const MethodNativeTransfer = ""

// CallOpts carries the optional attached deposit and gas allowance for a
// change-method call. Amounts are decimal strings in the token's smallest
// unit.
type CallOpts struct {
	Deposit string
	Gas     uint64
}

// CallResult is the outcome of a successfully executed change-method call.
type CallResult struct {
	TxHash string
	Logs   []string
	Raw    []byte
}

// Caller executes a signed change-method call against a contract account.
// A returned error may be a network failure, a wallet rejection or an
// on-chain execution failure; callers treat all three identically.
type Caller interface {
	Call(ctx context.Context, accountID, method string, args []byte, opts CallOpts) (*CallResult, error)
}

// StateQuery reads the governance-relevant account state. Implementations
// must not cache: the executor re-queries liquid balance immediately before
// every amount-bearing step.
type StateQuery interface {
	// LockupDeployed reports whether the account's lockup contract exists.
	LockupDeployed(ctx context.Context, accountID string) (bool, error)

	// LiquidBalance returns the liquid (not yet locked) balance currently
	// held inside the account's lockup contract.
	LiquidBalance(ctx context.Context, lockupID string) (string, error)

	// SelectedPool returns the staking pool currently selected by the
	// lockup contract, or "" when none is selected.
	SelectedPool(ctx context.Context, lockupID string) (string, error)

	// PoolDeposit returns the balance the lockup contract has deposited
	// in the given staking pool.
	PoolDeposit(ctx context.Context, lockupID, poolID string) (string, error)

	// VotingPowerEquivalent converts an amount of the given token into its
	// native-token voting-power equivalent, using floor semantics.
	VotingPowerEquivalent(ctx context.Context, tokenID, amount string) (string, error)
}
