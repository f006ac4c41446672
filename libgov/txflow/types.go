// Package txflow plans and executes the ordered sequence of chain calls
// needed to lock or stake tokens. Planning is a pure function of a state
// snapshot; execution is strictly sequential with resumable retry, because
// every completed step is an irreversible on-chain effect.
package txflow

import (
	"github.com/gov-power/govpower/libgov/amounts"
)

// Action identifies the user operation a plan is built for.
type Action int32

const (
	// ActionLock converts tokens into voting-power-bearing balance inside
	// the user's lockup contract.
	ActionLock Action = iota
	// ActionStake delegates lockup balance to a staking pool.
	ActionStake
)

func (a Action) String() string {
	switch a {
	case ActionLock:
		return "lock"
	case ActionStake:
		return "stake"
	default:
		return "unknown"
	}
}

// TokenSelection is the asset the user chose to move. It is immutable once
// a plan has been built from it.
type TokenSelection struct {
	Kind amounts.TokenKind
	// AccountID is the token contract for a liquid staking token and is
	// empty for the native token.
	AccountID string
	// Balance is the spendable balance of the selection at the time it
	// was made, as a decimal string.
	Balance string
}

// Intent is the user action a plan is built for, plus the explicit amount
// entered.
type Intent struct {
	Action    Action
	Selection TokenSelection
	// PoolID is the staking pool to delegate to. For a liquid staking
	// token lock it is the pool paired with the token.
	PoolID string
	// Amount is the amount entered by the user, as a decimal string.
	Amount string
}

// AccountState is a snapshot of the on-chain facts planning depends on.
// It is read once, immediately before BuildPlan; execution-time amounts are
// re-queried separately.
type AccountState struct {
	// LockupDeployed reports whether the account's lockup contract exists.
	LockupDeployed bool
	// SelectedPool is the staking pool currently selected by the lockup
	// contract, or "" when none is selected.
	SelectedPool string
	// SelectedPoolDeposit is the balance currently deposited in
	// SelectedPool, as a decimal string.
	SelectedPoolDeposit string
}

// StepTag is one of the closed set of plan steps. Tags carry no arguments;
// amounts and targets are resolved at execution time because on-chain state
// can change between planning and execution.
type StepTag int32

const (
	// StepDeployLockup deploys the account's lockup contract.
	StepDeployLockup StepTag = iota
	// StepTransferNative moves native tokens into the lockup contract.
	StepTransferNative
	// StepTransferToken moves a liquid staking token into the lockup
	// contract.
	StepTransferToken
	// StepSelectStakingPool selects the staking pool the lockup contract
	// delegates to.
	StepSelectStakingPool
	// StepRefreshStakingPoolBalance re-reads the lockup's deposit in the
	// selected pool so the protocol credits it as locked.
	StepRefreshStakingPoolBalance
	// StepLockNative converts liquid lockup balance into voting power.
	StepLockNative
	// StepDepositAndStake delegates lockup balance to the selected pool.
	StepDepositAndStake
)

func (s StepTag) String() string {
	switch s {
	case StepDeployLockup:
		return "deploy_lockup"
	case StepTransferNative:
		return "transfer_native"
	case StepTransferToken:
		return "transfer_token"
	case StepSelectStakingPool:
		return "select_staking_pool"
	case StepRefreshStakingPoolBalance:
		return "refresh_staking_pool_balance"
	case StepLockNative:
		return "lock_near"
	case StepDepositAndStake:
		return "deposit_and_stake"
	default:
		return "unknown"
	}
}

// Plan is an ordered, immutable sequence of steps built once per user
// action. Steps that create a prerequisite always precede steps that depend
// on it, and already-satisfied prerequisites are omitted rather than
// included as no-ops.
type Plan struct {
	Intent Intent
	Steps  []StepTag
}

// Status is the executor's state machine position.
type Status int32

const (
	StatusIdle Status = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Progress is the executor's step-level progress for one plan run. It is
// discarded after success or when the user abandons the flow. On failure
// CurrentStepIndex is preserved so retry resumes at the failed step.
type Progress struct {
	CurrentStepIndex int
	Status           Status
	LastError        error
}
