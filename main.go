package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gov-power/govpower/libgov"
	"github.com/gov-power/govpower/libgov/amounts"
	"github.com/gov-power/govpower/libgov/proposal"
	"github.com/gov-power/govpower/libgov/txflow"
	"github.com/gov-power/govpower/logger"
)

var (
	// Version is the application version. It is set using the -ldflags
	Version = "0.2.0"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, args, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.ShowVersion {
		fmt.Printf("govpower version %s\n", Version)
		return nil
	}

	// Register the main subsystem logger before the manager initializes
	// the log rotator.
	initLogging()

	mgr, err := libgov.NewGovernanceManager(libgov.InitParams{
		RootDir:   cfg.AppDataDir,
		Net:       cfg.Network,
		RPCURL:    cfg.RPCURL,
		AccountID: cfg.AccountID,
		FactoryID: cfg.FactoryID,
		VotingID:  cfg.VotingID,
	})
	if err != nil {
		return err
	}
	defer mgr.Shutdown()

	logger.New(libgov.SubsystemLoggers())
	logger.SetLogLevels(cfg.DebugLevel)

	log.Infof("govpower %s starting on %s", Version, cfg.Network)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	command := "overview"
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "overview":
		return showOverview(mgr)
	case "proposals":
		return listProposals(ctx, mgr)
	case "pools":
		if len(args) >= 3 && args[1] == "add" {
			if err := mgr.SavePool(ctx, args[2]); err != nil {
				return err
			}
			fmt.Printf("Saved pool %s\n", args[2])
			return nil
		}
		return listPools(ctx, mgr)
	case "plan":
		return showPlan(ctx, mgr, cfg, args[1:])
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func showOverview(mgr *libgov.GovernanceManager) error {
	overview, err := mgr.Proposals.Overview()
	if err != nil {
		return err
	}

	fmt.Printf("Proposals: %d total, %d draft, %d active, %d approved, %d rejected\n",
		overview.All, overview.Draft, overview.Active, overview.Approved, overview.Rejected)

	if ts := mgr.Proposals.GetLastSyncedTimestamp(); ts > 0 {
		fmt.Printf("Last synced: %s\n", time.Unix(ts, 0).Format(time.RFC1123))
	} else {
		fmt.Println("Never synced; run `govpower proposals`")
	}
	return nil
}

func listProposals(ctx context.Context, mgr *libgov.GovernanceManager) error {
	if err := mgr.SyncProposals(ctx); err != nil {
		return err
	}

	records, err := mgr.Proposals.GetProposalsRaw(proposal.ProposalCategoryAll, 0, 0, true)
	if err != nil {
		return err
	}

	for i := range records {
		r := &records[i]
		md, _ := r.Metadata()
		fmt.Printf("#%d  %-40s  %-10s  policy=%s quorum=%s\n",
			r.ProposalID, r.Title, r.DisplayStatus(), md.Type, md.Quorum)
	}
	return nil
}

func listPools(ctx context.Context, mgr *libgov.GovernanceManager) error {
	mgr.ReloadPoolList(ctx)

	pools := mgr.KnownPools()
	if len(pools) == 0 {
		fmt.Println("No known staking pools; add one to the registry first")
		return nil
	}
	for _, pool := range pools {
		fmt.Printf("%-40s  owner=%s  fee=%d/%d  staked=%s\n",
			pool.PoolID, pool.OwnerID, pool.FeeNumerator, pool.FeeDenominator, pool.TotalStaked)
	}
	return nil
}

// showPlan previews the step sequence of a lock or stake flow against the
// live account state, without executing anything.
func showPlan(ctx context.Context, mgr *libgov.GovernanceManager, cfg *config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: plan lock <amount> | plan stake <amount> <pool>")
	}

	intent := txflow.Intent{Amount: args[1]}
	switch args[0] {
	case "lock":
		intent.Action = txflow.ActionLock
		intent.Selection = txflow.TokenSelection{Kind: amounts.Native}
	case "stake":
		if len(args) < 3 {
			return fmt.Errorf("usage: plan stake <amount> <pool>")
		}
		intent.Action = txflow.ActionStake
		intent.PoolID = args[2]
	default:
		return fmt.Errorf("unknown plan action %q", args[0])
	}

	state, err := mgr.AccountState(ctx)
	if err != nil {
		return err
	}

	plan, err := txflow.BuildPlan(intent, state)
	if err != nil {
		return err
	}

	fmt.Printf("Plan for %s of %s (%s, lockup %s):\n",
		intent.Action, intent.Amount, cfg.AccountID, mgr.LockupID())
	for i, step := range plan.Steps {
		fmt.Printf("  %d. %s\n", i+1, step)
	}
	return nil
}
