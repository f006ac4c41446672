package proposal

import (
	"decred.org/dcrwallet/v2/errors"
	"github.com/asdine/storm"
)

const (
	ErrSyncAlreadyInProgress = "sync_already_in_progress"
	ErrNotExist              = "not_exists"
	ErrInvalid               = "invalid"
	ErrListenerAlreadyExist  = "listener_already_exist"
	ErrInvalidVoteChoice     = "err_invalid_vote_choice"
)

func translateError(err error) error {
	if err, ok := err.(*errors.Error); ok {
		switch err.Kind {
		case errors.NotExist, storm.ErrNotFound:
			return errors.New(ErrNotExist)
		case errors.Invalid:
			return errors.New(ErrInvalid)
		}
	}
	return err
}
