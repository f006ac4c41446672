package txflow

import (
	"context"
	"math/big"
	"sync"

	"decred.org/dcrwallet/v2/errors"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gov-power/govpower/libgov/amounts"
	"github.com/gov-power/govpower/libgov/chain"
)

type recordedCall struct {
	accountID string
	method    string
	args      string
	deposit   string
}

// fakeChain implements both chain.Caller and chain.StateQuery against an
// in-memory liquid balance. A native transfer credits the lockup's liquid
// balance, so amount-bearing steps observe the effect of earlier steps the
// way they would on chain.
type fakeChain struct {
	mu            sync.Mutex
	calls         []recordedCall
	liquid        string
	liquidQueries int
	equivalent    string
	failMethod    string
	block         chan struct{}
}

func (f *fakeChain) Call(_ context.Context, accountID, method string, args []byte, opts chain.CallOpts) (*chain.CallResult, error) {
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failMethod != "" && method == f.failMethod {
		return nil, errors.New("simulated chain failure")
	}

	f.calls = append(f.calls, recordedCall{
		accountID: accountID,
		method:    method,
		args:      string(args),
		deposit:   opts.Deposit,
	})

	if method == chain.MethodNativeTransfer {
		f.liquid = amounts.Sum(f.liquid, opts.Deposit)
	}
	return &chain.CallResult{TxHash: "faketx"}, nil
}

func (f *fakeChain) LockupDeployed(context.Context, string) (bool, error) {
	return true, nil
}

func (f *fakeChain) LiquidBalance(context.Context, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.liquidQueries++
	return f.liquid, nil
}

func (f *fakeChain) SelectedPool(context.Context, string) (string, error) {
	return "", nil
}

func (f *fakeChain) PoolDeposit(context.Context, string, string) (string, error) {
	return "0", nil
}

func (f *fakeChain) VotingPowerEquivalent(_ context.Context, _ string, amount string) (string, error) {
	if f.equivalent != "" {
		return f.equivalent, nil
	}
	return amount, nil
}

func (f *fakeChain) methodCalls(method string) []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedCall
	for _, c := range f.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

var _ = Describe("Executor", func() {
	var fc *fakeChain

	config := func() ExecutorConfig {
		return ExecutorConfig{
			Caller:    fc,
			Query:     fc,
			OwnerID:   "alice.test",
			LockupID:  "abc123.lockup.test",
			FactoryID: "lockup.test",
		}
	}

	newExecutor := func(intent Intent, state AccountState) *Executor {
		plan, err := BuildPlan(intent, state)
		Expect(err).To(BeNil())
		exec, err := NewExecutor(plan, config())
		Expect(err).To(BeNil())
		return exec
	}

	lockNative := func(amount string) Intent {
		return Intent{
			Action:    ActionLock,
			Selection: TokenSelection{Kind: amounts.Native},
			Amount:    amount,
		}
	}

	BeforeEach(func() {
		fc = &fakeChain{liquid: "0"}
	})

	Describe("Run", func() {
		It("executes a native lock end to end", func() {
			exec := newExecutor(lockNative("500"), AccountState{LockupDeployed: true})

			Expect(exec.Run(context.Background())).To(BeNil())

			progress := exec.Progress()
			Expect(progress.Status).To(Equal(StatusSucceeded))
			Expect(progress.CurrentStepIndex).To(Equal(2))

			By("transferring the full amount since nothing was liquid")
			transfers := fc.methodCalls(chain.MethodNativeTransfer)
			Expect(transfers).To(HaveLen(1))
			Expect(transfers[0].accountID).To(Equal("abc123.lockup.test"))
			Expect(transfers[0].deposit).To(Equal("500"))

			By("locking the amount the transfer made liquid")
			locks := fc.methodCalls("lock_near")
			Expect(locks).To(HaveLen(1))
			Expect(locks[0].args).To(ContainSubstring(`"amount":"500"`))
			Expect(locks[0].deposit).To(Equal(""))
		})

		It("re-queries the liquid balance before every amount-bearing step", func() {
			exec := newExecutor(lockNative("500"), AccountState{LockupDeployed: true})
			Expect(exec.Run(context.Background())).To(BeNil())
			Expect(fc.liquidQueries).To(Equal(2))
		})

		It("nets out balance that is already liquid and skips a zero transfer", func() {
			fc.liquid = "500"
			exec := newExecutor(lockNative("500"), AccountState{LockupDeployed: true})

			Expect(exec.Run(context.Background())).To(BeNil())

			Expect(fc.methodCalls(chain.MethodNativeTransfer)).To(BeEmpty())
			locks := fc.methodCalls("lock_near")
			Expect(locks).To(HaveLen(1))
			Expect(locks[0].args).To(ContainSubstring(`"amount":"500"`))
		})

		It("deploys the lockup on the factory with the storage deposit", func() {
			exec := newExecutor(lockNative("500"), AccountState{})
			Expect(exec.Run(context.Background())).To(BeNil())

			deploys := fc.methodCalls("deploy_lockup")
			Expect(deploys).To(HaveLen(1))
			Expect(deploys[0].accountID).To(Equal("lockup.test"))
			Expect(deploys[0].args).To(ContainSubstring(`"owner_account_id":"alice.test"`))

			deposit, ok := new(big.Int).SetString(deploys[0].deposit, 10)
			Expect(ok).To(BeTrue())
			Expect(deposit.Sign()).To(Equal(1))
		})

		It("runs a liquid staking token lock through transfer, select and refresh", func() {
			intent := Intent{
				Action:    ActionLock,
				Selection: TokenSelection{Kind: amounts.LiquidStakingToken, AccountID: "lst.token"},
				PoolID:    "pool.one",
				Amount:    "500",
			}
			exec := newExecutor(intent, AccountState{LockupDeployed: true})
			Expect(exec.Run(context.Background())).To(BeNil())

			transfers := fc.methodCalls("ft_transfer_call")
			Expect(transfers).To(HaveLen(1))
			Expect(transfers[0].accountID).To(Equal("lst.token"))
			Expect(transfers[0].deposit).To(Equal("1"))
			Expect(transfers[0].args).To(ContainSubstring(`"receiver_id":"abc123.lockup.test"`))
			Expect(transfers[0].args).To(ContainSubstring(`"amount":"500"`))

			Expect(fc.methodCalls("select_staking_pool")).To(HaveLen(1))
			Expect(fc.methodCalls("refresh_staking_pool_balance")).To(HaveLen(1))
			Expect(fc.methodCalls("lock_near")).To(BeEmpty())
		})

		It("runs a stake flow against the lockup contract", func() {
			intent := Intent{
				Action:    ActionStake,
				Selection: TokenSelection{Kind: amounts.Native},
				PoolID:    "pool.one",
				Amount:    "250",
			}
			exec := newExecutor(intent, AccountState{LockupDeployed: true})
			Expect(exec.Run(context.Background())).To(BeNil())

			selects := fc.methodCalls("select_staking_pool")
			Expect(selects).To(HaveLen(1))
			Expect(selects[0].accountID).To(Equal("abc123.lockup.test"))
			Expect(selects[0].args).To(ContainSubstring(`"staking_pool_account_id":"pool.one"`))

			stakes := fc.methodCalls("deposit_and_stake")
			Expect(stakes).To(HaveLen(1))
			Expect(stakes[0].args).To(ContainSubstring(`"amount":"250"`))
		})

		It("rejects a second Run while one is in flight", func() {
			fc.block = make(chan struct{})
			exec := newExecutor(lockNative("500"), AccountState{LockupDeployed: true})

			done := make(chan error, 1)
			go func() { done <- exec.Run(context.Background()) }()

			Eventually(func() Status {
				return exec.Progress().Status
			}).Should(Equal(StatusRunning))

			Expect(exec.Run(context.Background())).ToNot(BeNil())

			close(fc.block)
			Expect(<-done).To(BeNil())
		})

		It("refuses a fresh Run after a failure", func() {
			fc.failMethod = "refresh_staking_pool_balance"
			intent := Intent{
				Action:    ActionLock,
				Selection: TokenSelection{Kind: amounts.LiquidStakingToken, AccountID: "lst.token"},
				PoolID:    "pool.one",
				Amount:    "500",
			}
			exec := newExecutor(intent, AccountState{LockupDeployed: true})

			Expect(exec.Run(context.Background())).ToNot(BeNil())
			Expect(exec.Progress().Status).To(Equal(StatusFailed))

			fc.mu.Lock()
			fc.failMethod = ""
			fc.mu.Unlock()

			By("rejecting a restart that would move funds a second time")
			Expect(exec.Run(context.Background())).ToNot(BeNil())
			Expect(fc.methodCalls("ft_transfer_call")).To(HaveLen(1))
			Expect(fc.methodCalls("select_staking_pool")).To(HaveLen(1))
		})
	})

	Describe("RetryFrom", func() {
		It("resumes at the failed step without repeating completed steps", func() {
			fc.failMethod = "lock_near"
			exec := newExecutor(lockNative("500"), AccountState{LockupDeployed: true})

			err := exec.Run(context.Background())
			Expect(err).ToNot(BeNil())

			progress := exec.Progress()
			Expect(progress.Status).To(Equal(StatusFailed))
			Expect(progress.CurrentStepIndex).To(Equal(1))
			Expect(progress.LastError).ToNot(BeNil())

			By("retrying only the failed step once the failure clears")
			fc.mu.Lock()
			fc.failMethod = ""
			fc.mu.Unlock()

			Expect(exec.RetryFrom(context.Background(), 1)).To(BeNil())
			Expect(exec.Progress().Status).To(Equal(StatusSucceeded))

			Expect(fc.methodCalls(chain.MethodNativeTransfer)).To(HaveLen(1))
			Expect(fc.methodCalls("lock_near")).To(HaveLen(1))
		})

		It("refuses to re-run steps that already took effect", func() {
			fc.failMethod = "lock_near"
			exec := newExecutor(lockNative("500"), AccountState{LockupDeployed: true})
			Expect(exec.Run(context.Background())).ToNot(BeNil())

			Expect(exec.RetryFrom(context.Background(), 0)).ToNot(BeNil())
		})

		It("rejects a retry that would skip past the failed step", func() {
			fc.failMethod = "select_staking_pool"
			intent := Intent{
				Action:    ActionLock,
				Selection: TokenSelection{Kind: amounts.LiquidStakingToken, AccountID: "lst.token"},
				PoolID:    "pool.one",
				Amount:    "500",
			}
			exec := newExecutor(intent, AccountState{LockupDeployed: true})
			Expect(exec.Run(context.Background())).ToNot(BeNil())
			Expect(exec.Progress().CurrentStepIndex).To(Equal(1))

			Expect(exec.RetryFrom(context.Background(), 2)).ToNot(BeNil())
			Expect(exec.Progress().Status).To(Equal(StatusFailed))
			Expect(fc.methodCalls("refresh_staking_pool_balance")).To(BeEmpty())
		})

		It("rejects an index past the end of the plan", func() {
			fc.failMethod = "lock_near"
			exec := newExecutor(lockNative("500"), AccountState{LockupDeployed: true})
			Expect(exec.Run(context.Background())).ToNot(BeNil())

			Expect(exec.RetryFrom(context.Background(), 7)).ToNot(BeNil())
		})

		It("is only valid from the failed state", func() {
			exec := newExecutor(lockNative("500"), AccountState{LockupDeployed: true})
			Expect(exec.RetryFrom(context.Background(), 0)).ToNot(BeNil())

			Expect(exec.Run(context.Background())).To(BeNil())
			Expect(exec.RetryFrom(context.Background(), 0)).ToNot(BeNil())
		})
	})

	Describe("NewExecutor", func() {
		It("rejects an empty plan and missing collaborators", func() {
			_, err := NewExecutor(nil, config())
			Expect(err).ToNot(BeNil())

			plan, err := BuildPlan(lockNative("500"), AccountState{LockupDeployed: true})
			Expect(err).To(BeNil())

			cfg := config()
			cfg.Caller = nil
			_, err = NewExecutor(plan, cfg)
			Expect(err).ToNot(BeNil())
		})
	})
})
