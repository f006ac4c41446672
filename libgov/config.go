package libgov

import "github.com/gov-power/govpower/libgov/utils"

const (
	logFileName = "libgov.log"
	govDbName   = "governance.db"

	Mainnet = utils.Mainnet
	Testnet = utils.Testnet

	userConfigBucketName = "user_config"

	// govpower config keys

	LogLevelConfigKey = "log_level"

	ProposalNotificationConfigKey = "proposal_notification"

	KnownPoolsConfigKey   = "known_staking_pools"
	LastUsedPoolConfigKey = "last_used_staking_pool"

	LastLockAmountConfigKey  = "last_lock_amount"
	LastStakeAmountConfigKey = "last_stake_amount"
)
