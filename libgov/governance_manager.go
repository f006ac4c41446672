package libgov

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
	"time"

	"decred.org/dcrwallet/v2/errors"
	"github.com/asdine/storm"
	bolt "go.etcd.io/bbolt"

	"github.com/gov-power/govpower/libgov/chain"
	"github.com/gov-power/govpower/libgov/proposal"
	"github.com/gov-power/govpower/libgov/txflow"
	"github.com/gov-power/govpower/libgov/utils"
)

// InitParams carries everything needed to bring up a GovernanceManager.
type InitParams struct {
	RootDir string
	Net     string
	RPCURL  string

	// AccountID is the user's account; FactoryID the protocol account that
	// deploys lockup contracts; VotingID the governance contract the
	// proposals live on.
	AccountID string
	FactoryID string
	VotingID  string
}

// GovernanceManager ties the governance core together: the local database,
// the read-only chain client, the proposals store and the lock/stake flow
// builders. Change-method calls go through a wallet-provided Caller set by
// the embedder; the manager never holds keys.
type GovernanceManager struct {
	rootDir string
	netType utils.NetworkType
	db      *storm.DB

	chainClient *chain.Client
	caller      chain.Caller

	accountID string
	lockupID  string
	factoryID string
	votingID  string

	Proposals *proposal.Proposals

	poolMu sync.RWMutex
	pools  []*chain.PoolInfo

	shuttingDown chan bool
	cancelFuncs  []context.CancelFunc
}

// NewGovernanceManager opens the governance database and prepares the
// manager for the given network and accounts.
func NewGovernanceManager(params InitParams) (*GovernanceManager, error) {
	errors.Separator = ":: "

	netType := utils.ToNetworkType(params.Net)
	if netType == utils.Unknown {
		return nil, utils.ErrInvalidNet
	}
	if params.AccountID == "" {
		return nil, errors.E(utils.ErrInvalid)
	}

	rootDir := filepath.Join(params.RootDir, params.Net)
	if err := os.MkdirAll(rootDir, os.ModePerm); err != nil {
		return nil, errors.Errorf("failed to create rootDir: %v", err)
	}

	if err := initLogRotator(filepath.Join(rootDir, logFileName)); err != nil {
		return nil, errors.Errorf("failed to init logRotator: %v", err.Error())
	}

	govDB, err := storm.Open(filepath.Join(rootDir, govDbName),
		storm.BoltOptions(0600, &bolt.Options{Timeout: 5 * time.Second}))
	if err != nil {
		log.Errorf("Error opening governance database: %s", err.Error())
		if err == bolt.ErrTimeout {
			// timeout error occurs if storm fails to acquire a lock on the database file
			return nil, errors.E(utils.ErrGovernanceDatabaseInUse)
		}
		return nil, errors.Errorf("error opening governance database: %s", err.Error())
	}

	proposals, err := proposal.New(params.VotingID, govDB)
	if err != nil {
		return nil, err
	}

	mgr := &GovernanceManager{
		rootDir: rootDir,
		netType: netType,
		db:      govDB,

		chainClient: chain.NewClient(params.RPCURL),

		accountID: params.AccountID,
		lockupID:  DeriveLockupID(params.AccountID, params.FactoryID),
		factoryID: params.FactoryID,
		votingID:  params.VotingID,

		Proposals: proposals,

		shuttingDown: make(chan bool),
	}

	log.Infof("governance manager ready for %s on %s", params.AccountID, netType.Display())
	return mgr, nil
}

// DeriveLockupID derives the deterministic lockup contract account for an
// owner account: a truncated hex digest subaccount of the lockup factory.
func DeriveLockupID(accountID, factoryID string) string {
	digest := sha256.Sum256([]byte(accountID))
	return hex.EncodeToString(digest[:])[:40] + "." + factoryID
}

// SetWalletCaller wires the wallet-backed change-method caller in. Flows
// cannot be executed until this is set.
func (mgr *GovernanceManager) SetWalletCaller(caller chain.Caller) {
	mgr.caller = caller
}

// ChainClient exposes the read-only state query client.
func (mgr *GovernanceManager) ChainClient() *chain.Client {
	return mgr.chainClient
}

// LockupID returns the account's derived lockup contract id.
func (mgr *GovernanceManager) LockupID() string {
	return mgr.lockupID
}

// NetType returns the network the manager operates against.
func (mgr *GovernanceManager) NetType() utils.NetworkType {
	return mgr.netType
}

// AccountState reads the planning snapshot: lockup existence, the
// currently selected staking pool and its deposit.
func (mgr *GovernanceManager) AccountState(ctx context.Context) (txflow.AccountState, error) {
	var state txflow.AccountState

	deployed, err := mgr.chainClient.LockupDeployed(ctx, mgr.lockupID)
	if err != nil {
		return state, err
	}
	state.LockupDeployed = deployed

	if !deployed {
		return state, nil
	}

	pool, err := mgr.chainClient.SelectedPool(ctx, mgr.lockupID)
	if err != nil {
		return state, err
	}
	state.SelectedPool = pool

	if pool != "" {
		deposit, err := mgr.chainClient.PoolDeposit(ctx, mgr.lockupID, pool)
		if err != nil {
			return state, err
		}
		state.SelectedPoolDeposit = deposit
	}

	return state, nil
}

// NewFlow snapshots the on-chain state, plans the intent against it and
// returns an executor ready to run. Planning errors surface here, before
// any chain call is made.
func (mgr *GovernanceManager) NewFlow(ctx context.Context, intent txflow.Intent) (*txflow.Executor, error) {
	if mgr.caller == nil {
		return nil, errors.E(utils.ErrNotConnected)
	}

	state, err := mgr.AccountState(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := txflow.BuildPlan(intent, state)
	if err != nil {
		return nil, utils.TranslateError(err)
	}

	return txflow.NewExecutor(plan, txflow.ExecutorConfig{
		Caller:    mgr.caller,
		Query:     mgr.chainClient,
		OwnerID:   mgr.accountID,
		LockupID:  mgr.lockupID,
		FactoryID: mgr.factoryID,
	})
}

// SyncProposals fetches and indexes all proposals from the governance
// contract.
func (mgr *GovernanceManager) SyncProposals(ctx context.Context) error {
	return mgr.Proposals.Sync(ctx, &proposalSource{
		client:   mgr.chainClient,
		votingID: mgr.votingID,
	})
}

// SyncProposalsInBackground starts a proposal sync on a context that is
// canceled when the manager shuts down.
func (mgr *GovernanceManager) SyncProposalsInBackground() {
	ctx := mgr.contextWithShutdownCancel()
	go func() {
		if err := mgr.SyncProposals(ctx); err != nil {
			log.Errorf("background proposal sync error: %v", err)
		}
	}()
}

// CastVote submits a vote on a proposal through the wallet caller.
func (mgr *GovernanceManager) CastVote(ctx context.Context, proposalID uint64, choice proposal.VoteChoice) error {
	if mgr.caller == nil {
		return errors.E(utils.ErrNotConnected)
	}
	return mgr.Proposals.CastVote(ctx, mgr.caller, proposalID, choice)
}

// Shutdown cancels background work and closes the governance database and
// the log rotator. It is idempotent.
func (mgr *GovernanceManager) Shutdown() {
	select {
	case <-mgr.shuttingDown:
		return
	default:
		close(mgr.shuttingDown)
	}

	log.Info("Shutting down governance manager")

	for _, cancel := range mgr.cancelFuncs {
		cancel()
	}

	if mgr.db != nil {
		if err := mgr.db.Close(); err != nil {
			log.Errorf("db closed with error: %v", err)
		} else {
			log.Info("db closed successfully")
		}
	}

	if logRotator != nil {
		log.Info("Shutting down log rotator")
		logRotator.Close()
		log.Info("Shutdown log rotator successfully")
	}
}

// contextWithShutdownCancel creates a context whose cancel function is
// retained and invoked on Shutdown.
func (mgr *GovernanceManager) contextWithShutdownCancel() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	mgr.cancelFuncs = append(mgr.cancelFuncs, cancel)
	return ctx
}

// proposalSource adapts the chain client to the proposals sync source.
type proposalSource struct {
	client   *chain.Client
	votingID string
}

// rawProposal is the proposal wire shape returned by the governance
// contract's view methods.
type rawProposal struct {
	ID             uint64           `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	ProposerID     string           `json:"proposer_id"`
	Status         string           `json:"status"`
	CreationTimeNs string           `json:"creation_time_ns"`
	VotingStartNs  string           `json:"voting_start_time_ns"`
	VotingDuration string           `json:"voting_duration_ns"`
	Votes          proposal.Tallies `json:"votes"`
}

func (s *proposalSource) ProposalCount(ctx context.Context) (uint64, error) {
	var count uint64
	err := s.client.ViewFunction(ctx, s.votingID, "get_num_proposals", struct{}{}, &count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *proposalSource) Proposals(ctx context.Context, fromID uint64, limit uint64) ([]proposal.Record, error) {
	args := struct {
		FromIndex uint64 `json:"from_index"`
		Limit     uint64 `json:"limit"`
	}{FromIndex: fromID, Limit: limit}

	var raw []rawProposal
	err := s.client.ViewFunction(ctx, s.votingID, "get_proposals", &args, &raw)
	if err != nil {
		return nil, err
	}

	records := make([]proposal.Record, 0, len(raw))
	for i := range raw {
		records = append(records, proposal.Record{
			ProposalID:     raw[i].ID,
			Title:          raw[i].Title,
			Description:    raw[i].Description,
			ProposerID:     raw[i].ProposerID,
			Status:         raw[i].Status,
			CreatedAt:      nsToUnix(raw[i].CreationTimeNs),
			VotingStartAt:  nsToUnix(raw[i].VotingStartNs),
			VotingDuration: nsToUnix(raw[i].VotingDuration),
			Tallies:        raw[i].Votes,
		})
	}
	return records, nil
}
