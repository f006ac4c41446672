package utils

import (
	"decred.org/dcrwallet/v2/errors"
	"github.com/asdine/storm"
)

const (
	// Error Codes
	ErrInsufficientBalance        = "insufficient_balance"
	ErrInvalid                    = "invalid"
	ErrInvalidAmount              = "invalid_amount"
	ErrInvalidIntent              = "invalid_intent"
	ErrUnsupportedAssetConflict   = "unsupported_asset_conflict"
	ErrStepExecutionFailed        = "step_execution_failed"
	ErrExecutorBusy               = "executor_busy"
	ErrExist                      = "exists"
	ErrNotExist                   = "not_exists"
	ErrNotConnected               = "not_connected"
	ErrUnavailable                = "unavailable"
	ErrContextCanceled            = "context_canceled"
	ErrGovernanceDatabaseInUse    = "governance_db_in_use"
	ErrListenerAlreadyExist       = "listener_already_exist"
	ErrLoggerAlreadyRegistered    = "logger_already_registered"
	ErrLogRotatorAlreadyInit      = "log_rotator_already_initialized"
	ErrSyncAlreadyInProgress      = "sync_already_in_progress"
	ErrInvalidVoteChoice          = "err_invalid_vote_choice"
	ErrIndexOutOfRange            = "err_index_out_of_range"
	ErrAccountNotRegistered       = "err_account_not_registered"
	ErrStakingPoolNotSelected     = "err_staking_pool_not_selected"
)

var (
	ErrInvalidNet     = errors.New("invalid network type found")
	ErrTokenUnknown   = errors.New("unknown token kind found")
	ErrNilChainCaller = errors.New("chain caller is not initialized")
)

// todo, should update this method to translate more error kinds.
func TranslateError(err error) error {
	if err, ok := err.(*errors.Error); ok {
		switch err.Kind {
		case errors.InsufficientBalance:
			return errors.New(ErrInsufficientBalance)
		case errors.NotExist, storm.ErrNotFound:
			return errors.New(ErrNotExist)
		case errors.Invalid:
			return errors.New(ErrInvalid)
		}
	}
	return err
}
