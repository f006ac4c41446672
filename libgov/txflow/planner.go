package txflow

import (
	"decred.org/dcrwallet/v2/errors"
	"github.com/gov-power/govpower/libgov/amounts"
	"github.com/gov-power/govpower/libgov/utils"
)

// BuildPlan derives the minimal ordered step sequence for the given intent
// against the supplied state snapshot. It is a pure function: no chain
// calls are made and planning errors surface before any on-chain effect
// can occur.
func BuildPlan(intent Intent, state AccountState) (*Plan, error) {
	switch intent.Action {
	case ActionLock:
		return buildLockPlan(intent, state)
	case ActionStake:
		return buildStakePlan(intent, state)
	default:
		return nil, errors.E(utils.ErrInvalidIntent)
	}
}

func buildLockPlan(intent Intent, state AccountState) (*Plan, error) {
	if intent.Amount == "" || amounts.IsZero(intent.Amount) {
		return nil, errors.E(utils.ErrInvalidIntent)
	}

	var steps []StepTag
	if !state.LockupDeployed {
		steps = append(steps, StepDeployLockup)
	}

	switch intent.Selection.Kind {
	case amounts.Native:
		steps = append(steps, StepTransferNative, StepLockNative)

	case amounts.LiquidStakingToken:
		if intent.Selection.AccountID == "" || intent.PoolID == "" {
			return nil, errors.E(utils.ErrInvalidIntent)
		}

		steps = append(steps, StepTransferToken)
		selectPool, err := needsPoolSelection(intent.PoolID, state)
		if err != nil {
			return nil, err
		}
		if selectPool {
			steps = append(steps, StepSelectStakingPool)
		}
		// The protocol locks the delegated balance itself once it is
		// refreshed, so this path ends here without a lock step.
		steps = append(steps, StepRefreshStakingPoolBalance)

	case amounts.LockupAccount:
		// Funds are already inside the lockup contract; only the lock
		// call is needed.
		steps = append(steps, StepLockNative)

	default:
		return nil, errors.E(utils.ErrInvalidIntent)
	}

	log.Debugf("built lock plan with %d step(s) for %s selection", len(steps), intent.Selection.Kind)
	return &Plan{Intent: intent, Steps: steps}, nil
}

func buildStakePlan(intent Intent, state AccountState) (*Plan, error) {
	if intent.PoolID == "" {
		return nil, errors.E(utils.ErrInvalidIntent)
	}
	if intent.Amount == "" || amounts.IsZero(intent.Amount) {
		return nil, errors.E(utils.ErrInvalidIntent)
	}

	var steps []StepTag
	selectPool, err := needsPoolSelection(intent.PoolID, state)
	if err != nil {
		return nil, err
	}
	if selectPool {
		steps = append(steps, StepSelectStakingPool)
	}
	steps = append(steps, StepDepositAndStake)

	log.Debugf("built stake plan with %d step(s) for pool %s", len(steps), intent.PoolID)
	return &Plan{Intent: intent, Steps: steps}, nil
}

// needsPoolSelection reports whether a select_staking_pool step is
// required to end up delegating to the desired pool. The protocol permits
// only one active pool at a time: switching away from a pool that still
// holds a deposit is a planning error, not a step.
func needsPoolSelection(desiredPool string, state AccountState) (bool, error) {
	if state.SelectedPool == "" {
		return true, nil
	}
	if state.SelectedPool == desiredPool {
		return false, nil
	}
	if !amounts.IsZero(state.SelectedPoolDeposit) {
		log.Warnf("pool %s still holds a deposit of %s", state.SelectedPool, state.SelectedPoolDeposit)
		return false, errors.E(utils.ErrUnsupportedAssetConflict)
	}
	return true, nil
}
