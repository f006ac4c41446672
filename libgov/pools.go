package libgov

import (
	"context"

	"decred.org/dcrwallet/v2/errors"
	"github.com/gov-power/govpower/libgov/chain"
	"golang.org/x/sync/errgroup"
)

// poolDbData is the saved staking pool registry kept in user config.
type poolDbData struct {
	SavedPools   []string
	LastUsedPool string
}

// KnownPools returns the cached list of known staking pools. The list may
// be updated by calling ReloadPoolList. This method is safe for concurrent
// access.
func (mgr *GovernanceManager) KnownPools() []*chain.PoolInfo {
	mgr.poolMu.RLock()
	defer mgr.poolMu.RUnlock()
	return mgr.pools
}

// SavePool marks a staking pool as known after validating it on chain, and
// will be subsequently included as part of known pools.
func (mgr *GovernanceManager) SavePool(ctx context.Context, poolID string) error {
	// check if pool already exists
	poolDbData := mgr.getPoolDBData()
	for _, savedPool := range poolDbData.SavedPools {
		if savedPool == poolID {
			return errors.Errorf("duplicate pool %s", poolID)
		}
	}

	// validate the pool contract answers the staking pool interface
	info, err := mgr.chainClient.PoolInfo(ctx, poolID)
	if err != nil {
		return err
	}

	poolDbData.SavedPools = append(poolDbData.SavedPools, poolID)
	mgr.updatePoolDBData(poolDbData)

	mgr.poolMu.Lock()
	mgr.pools = append(mgr.pools, info)
	mgr.poolMu.Unlock()

	return nil
}

// LastUsedPool returns the pool last used for staking, as saved by the
// SaveLastUsedPool() method.
func (mgr *GovernanceManager) LastUsedPool() string {
	return mgr.getPoolDBData().LastUsedPool
}

// SaveLastUsedPool saves the pool last used for staking.
func (mgr *GovernanceManager) SaveLastUsedPool(poolID string) {
	poolDbData := mgr.getPoolDBData()
	poolDbData.LastUsedPool = poolID
	mgr.updatePoolDBData(poolDbData)
}

func (mgr *GovernanceManager) getPoolDBData() *poolDbData {
	poolDbData := new(poolDbData)
	mgr.ReadUserConfigValue(KnownPoolsConfigKey, poolDbData)
	return poolDbData
}

func (mgr *GovernanceManager) updatePoolDBData(data *poolDbData) {
	mgr.SaveUserConfigValue(KnownPoolsConfigKey, data)
}

// ReloadPoolList reloads the info of every saved staking pool.
// This method makes multiple network calls; should be called in a goroutine
// to prevent blocking the caller's thread.
func (mgr *GovernanceManager) ReloadPoolList(ctx context.Context) {
	log.Debugf("Reloading list of known staking pools")
	defer log.Debugf("Reloaded list of known staking pools")

	poolDbData := mgr.getPoolDBData()

	infos := make([]*chain.PoolInfo, len(poolDbData.SavedPools))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, poolID := range poolDbData.SavedPools {
		i, poolID := i, poolID
		g.Go(func() error {
			info, err := mgr.chainClient.PoolInfo(gctx, poolID)
			if err != nil {
				// User saved this pool. Log an error message.
				log.Errorf("get pool info error for %s: %v", poolID, err)
				return nil
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return // context canceled, abort
	}

	loaded := make([]*chain.PoolInfo, 0, len(infos))
	for _, info := range infos {
		if info != nil {
			loaded = append(loaded, info)
		}
	}

	mgr.poolMu.Lock()
	mgr.pools = loaded
	mgr.poolMu.Unlock()
}
