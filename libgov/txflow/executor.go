package txflow

import (
	"context"
	"encoding/json"
	"sync"

	"decred.org/dcrwallet/v2/errors"
	"github.com/gov-power/govpower/libgov/amounts"
	"github.com/gov-power/govpower/libgov/chain"
	"github.com/gov-power/govpower/libgov/utils"
)

const (
	// defaultGasPerStep is attached to every change-method call unless the
	// embedder overrides it.
	defaultGasPerStep uint64 = 150_000_000_000_000

	// lockupStorageDeposit covers the storage cost of a newly deployed
	// lockup contract.
	lockupStorageDeposit = "3000000000000000000000000"

	// oneYocto is the attached-deposit convention required by token
	// contracts for transfer calls.
	oneYocto = "1"
)

// ExecutorConfig wires an executor to the external collaborators and the
// accounts a plan runs against.
type ExecutorConfig struct {
	Caller chain.Caller
	Query  chain.StateQuery

	// OwnerID is the signing account, LockupID its lockup contract and
	// FactoryID the protocol account handling lockup deployment.
	OwnerID   string
	LockupID  string
	FactoryID string

	// GasPerStep overrides the default gas allowance when nonzero.
	GasPerStep uint64
}

// Executor drives one plan run against the chain, strictly sequentially.
// It owns the Progress for the lifetime of the run; a failed run is
// resumable at the failed step via RetryFrom and is never restarted from
// the beginning, since earlier steps already took effect on chain.
type Executor struct {
	plan *Plan
	cfg  ExecutorConfig

	mu       sync.Mutex
	progress Progress
}

// NewExecutor prepares an executor for a single plan run.
func NewExecutor(plan *Plan, cfg ExecutorConfig) (*Executor, error) {
	if plan == nil || len(plan.Steps) == 0 {
		return nil, errors.E(utils.ErrInvalid)
	}
	if cfg.Caller == nil || cfg.Query == nil {
		return nil, utils.ErrNilChainCaller
	}
	if cfg.GasPerStep == 0 {
		cfg.GasPerStep = defaultGasPerStep
	}

	return &Executor{
		plan: plan,
		cfg:  cfg,
		progress: Progress{
			Status: StatusIdle,
		},
	}, nil
}

// Progress returns a copy of the current execution progress.
func (e *Executor) Progress() Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progress
}

// Run executes the plan from the first step. A plan runs through Run at
// most once: completed steps are irreversible on-chain effects, so a
// failed run can only be resumed through RetryFrom, never restarted from
// the beginning, and a succeeded or failed executor rejects a fresh Run.
func (e *Executor) Run(ctx context.Context) error {
	e.mu.Lock()
	switch e.progress.Status {
	case StatusIdle:
	case StatusRunning:
		e.mu.Unlock()
		return errors.E(utils.ErrExecutorBusy)
	default:
		e.mu.Unlock()
		return errors.E(utils.ErrInvalid)
	}
	e.progress = Progress{CurrentStepIndex: 0, Status: StatusRunning}
	e.mu.Unlock()

	return e.runFrom(ctx, 0)
}

// RetryFrom resumes a failed run at stepIndex, which must be the recorded
// failure index: steps before it already produced on-chain effects and are
// never re-executed, and steps from it on have not run yet and may not be
// skipped.
func (e *Executor) RetryFrom(ctx context.Context, stepIndex int) error {
	e.mu.Lock()
	if e.progress.Status != StatusFailed {
		e.mu.Unlock()
		return errors.E(utils.ErrInvalid)
	}
	if stepIndex != e.progress.CurrentStepIndex {
		e.mu.Unlock()
		return errors.E(utils.ErrIndexOutOfRange)
	}
	e.progress.Status = StatusRunning
	e.progress.LastError = nil
	e.mu.Unlock()

	return e.runFrom(ctx, stepIndex)
}

func (e *Executor) runFrom(ctx context.Context, start int) error {
	for i := start; i < len(e.plan.Steps); i++ {
		step := e.plan.Steps[i]

		e.mu.Lock()
		e.progress.CurrentStepIndex = i
		e.mu.Unlock()

		log.Infof("executing step %d/%d: %s", i+1, len(e.plan.Steps), step)
		if err := e.executeStep(ctx, step); err != nil {
			failure := errors.Errorf("%s: %v", utils.ErrStepExecutionFailed, err)

			e.mu.Lock()
			e.progress.Status = StatusFailed
			e.progress.LastError = failure
			e.mu.Unlock()

			log.Errorf("step %d (%s) failed: %v", i, step, err)
			return failure
		}

		// The index advances only once the step's call has fully
		// resolved.
		e.mu.Lock()
		e.progress.CurrentStepIndex = i + 1
		e.mu.Unlock()
	}

	e.mu.Lock()
	e.progress.Status = StatusSucceeded
	e.mu.Unlock()

	log.Infof("plan for %s completed", e.plan.Intent.Action)
	return nil
}

// executeStep maps a step tag to its chain call and awaits it to
// completion. Amount-bearing steps re-query the lockup's liquid balance
// immediately before resolving their amount, since it can have changed
// since the plan was built.
func (e *Executor) executeStep(ctx context.Context, step StepTag) error {
	intent := e.plan.Intent

	switch step {
	case StepDeployLockup:
		args := struct {
			OwnerAccountID string `json:"owner_account_id"`
		}{OwnerAccountID: e.cfg.OwnerID}
		return e.call(ctx, e.cfg.FactoryID, "deploy_lockup", args, lockupStorageDeposit)

	case StepTransferNative:
		liquid, err := e.cfg.Query.LiquidBalance(ctx, e.cfg.LockupID)
		if err != nil {
			return err
		}
		amount, err := amounts.ResolveTransferAmount(intent.Amount, amounts.Native, liquid)
		if err != nil {
			return err
		}
		if amounts.IsZero(amount) {
			// The lockup already holds everything being locked.
			log.Debugf("skipping native transfer, %s already liquid in lockup", liquid)
			return nil
		}
		return e.call(ctx, e.cfg.LockupID, chain.MethodNativeTransfer, nil, amount)

	case StepTransferToken:
		amount, err := amounts.ResolveTransferAmount(intent.Amount, amounts.LiquidStakingToken, "0")
		if err != nil {
			return err
		}
		args := struct {
			ReceiverID string `json:"receiver_id"`
			Amount     string `json:"amount"`
			Msg        string `json:"msg"`
		}{ReceiverID: e.cfg.LockupID, Amount: amount, Msg: ""}
		return e.call(ctx, intent.Selection.AccountID, "ft_transfer_call", args, oneYocto)

	case StepSelectStakingPool:
		args := struct {
			StakingPoolAccountID string `json:"staking_pool_account_id"`
		}{StakingPoolAccountID: intent.PoolID}
		return e.call(ctx, e.cfg.LockupID, "select_staking_pool", args, "")

	case StepRefreshStakingPoolBalance:
		return e.call(ctx, e.cfg.LockupID, "refresh_staking_pool_balance", nil, "")

	case StepLockNative:
		liquid, err := e.cfg.Query.LiquidBalance(ctx, e.cfg.LockupID)
		if err != nil {
			return err
		}
		equivalent := intent.Amount
		if intent.Selection.Kind == amounts.LiquidStakingToken {
			equivalent, err = e.cfg.Query.VotingPowerEquivalent(ctx, intent.Selection.AccountID, intent.Amount)
			if err != nil {
				return err
			}
		}
		amount, err := amounts.ResolveLockAmount(intent.Amount, intent.Selection.Kind, equivalent, liquid)
		if err != nil {
			return err
		}
		if amounts.IsZero(amount) {
			log.Debugf("skipping lock, nothing liquid in lockup")
			return nil
		}
		args := struct {
			Amount string `json:"amount"`
		}{Amount: amount}
		return e.call(ctx, e.cfg.LockupID, "lock_near", args, "")

	case StepDepositAndStake:
		args := struct {
			Amount string `json:"amount"`
		}{Amount: intent.Amount}
		return e.call(ctx, e.cfg.LockupID, "deposit_and_stake", args, "")

	default:
		return errors.E(utils.ErrInvalid)
	}
}

func (e *Executor) call(ctx context.Context, accountID, method string, args interface{}, deposit string) error {
	var rawArgs []byte
	if args != nil {
		var err error
		rawArgs, err = json.Marshal(args)
		if err != nil {
			return err
		}
	}

	result, err := e.cfg.Caller.Call(ctx, accountID, method, rawArgs, chain.CallOpts{
		Deposit: deposit,
		Gas:     e.cfg.GasPerStep,
	})
	if err != nil {
		return err
	}

	log.Debugf("%s on %s confirmed in tx %s", method, accountID, result.TxHash)
	return nil
}
