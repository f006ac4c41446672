package txflow

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gov-power/govpower/libgov/amounts"
)

var _ = Describe("BuildPlan", func() {
	nativeIntent := func(amount string) Intent {
		return Intent{
			Action:    ActionLock,
			Selection: TokenSelection{Kind: amounts.Native},
			Amount:    amount,
		}
	}

	lstIntent := func(amount string) Intent {
		return Intent{
			Action:    ActionLock,
			Selection: TokenSelection{Kind: amounts.LiquidStakingToken, AccountID: "lst.token"},
			PoolID:    "pool.one",
			Amount:    amount,
		}
	}

	Describe("locking the native token", func() {
		Context("when no lockup contract is deployed yet", func() {
			It("deploys the lockup before any other step", func() {
				plan, err := BuildPlan(nativeIntent("500"), AccountState{LockupDeployed: false})
				Expect(err).To(BeNil())
				Expect(plan.Steps).To(Equal([]StepTag{
					StepDeployLockup, StepTransferNative, StepLockNative,
				}))
			})
		})

		Context("when the lockup contract already exists", func() {
			It("omits the deploy step instead of planning a no-op", func() {
				plan, err := BuildPlan(nativeIntent("500"), AccountState{LockupDeployed: true})
				Expect(err).To(BeNil())
				Expect(plan.Steps).To(Equal([]StepTag{
					StepTransferNative, StepLockNative,
				}))
			})
		})

		It("orders the transfer strictly before the lock", func() {
			plan, err := BuildPlan(nativeIntent("500"), AccountState{})
			Expect(err).To(BeNil())

			transferAt, lockAt := -1, -1
			for i, s := range plan.Steps {
				switch s {
				case StepTransferNative:
					transferAt = i
				case StepLockNative:
					lockAt = i
				}
			}
			Expect(transferAt).To(BeNumerically(">=", 0))
			Expect(lockAt).To(BeNumerically(">", transferAt))
		})

		It("rejects a zero or missing amount", func() {
			for _, amount := range []string{"", "0"} {
				_, err := BuildPlan(nativeIntent(amount), AccountState{LockupDeployed: true})
				Expect(err).ToNot(BeNil())
			}
		})
	})

	Describe("locking a liquid staking token", func() {
		It("transfers, selects the paired pool and refreshes, with no lock step", func() {
			plan, err := BuildPlan(lstIntent("500"), AccountState{LockupDeployed: true})
			Expect(err).To(BeNil())
			Expect(plan.Steps).To(Equal([]StepTag{
				StepTransferToken, StepSelectStakingPool, StepRefreshStakingPoolBalance,
			}))
		})

		It("skips pool selection when the paired pool is already selected", func() {
			plan, err := BuildPlan(lstIntent("500"), AccountState{
				LockupDeployed: true,
				SelectedPool:   "pool.one",
			})
			Expect(err).To(BeNil())
			Expect(plan.Steps).To(Equal([]StepTag{
				StepTransferToken, StepRefreshStakingPoolBalance,
			}))
		})

		It("switches pools only when the previous pool holds no deposit", func() {
			plan, err := BuildPlan(lstIntent("500"), AccountState{
				LockupDeployed:      true,
				SelectedPool:        "pool.other",
				SelectedPoolDeposit: "0",
			})
			Expect(err).To(BeNil())
			Expect(plan.Steps).To(ContainElement(StepSelectStakingPool))
		})

		It("fails when a different pool still holds a deposit", func() {
			_, err := BuildPlan(lstIntent("500"), AccountState{
				LockupDeployed:      true,
				SelectedPool:        "pool.other",
				SelectedPoolDeposit: "250",
			})
			Expect(err).ToNot(BeNil())
		})

		It("requires the token contract and the paired pool", func() {
			intent := lstIntent("500")
			intent.Selection.AccountID = ""
			_, err := BuildPlan(intent, AccountState{LockupDeployed: true})
			Expect(err).ToNot(BeNil())

			intent = lstIntent("500")
			intent.PoolID = ""
			_, err = BuildPlan(intent, AccountState{LockupDeployed: true})
			Expect(err).ToNot(BeNil())
		})
	})

	Describe("locking balance already inside the lockup", func() {
		It("plans only the lock call", func() {
			intent := Intent{
				Action:    ActionLock,
				Selection: TokenSelection{Kind: amounts.LockupAccount},
				Amount:    "500",
			}
			plan, err := BuildPlan(intent, AccountState{LockupDeployed: true})
			Expect(err).To(BeNil())
			Expect(plan.Steps).To(Equal([]StepTag{StepLockNative}))
		})
	})

	Describe("staking", func() {
		stakeIntent := func(pool string) Intent {
			return Intent{
				Action:    ActionStake,
				Selection: TokenSelection{Kind: amounts.Native},
				PoolID:    pool,
				Amount:    "500",
			}
		}

		It("selects the pool before delegating when none is selected", func() {
			plan, err := BuildPlan(stakeIntent("pool.one"), AccountState{LockupDeployed: true})
			Expect(err).To(BeNil())
			Expect(plan.Steps).To(Equal([]StepTag{
				StepSelectStakingPool, StepDepositAndStake,
			}))
		})

		It("delegates directly when the pool is already selected", func() {
			plan, err := BuildPlan(stakeIntent("pool.one"), AccountState{
				LockupDeployed: true,
				SelectedPool:   "pool.one",
			})
			Expect(err).To(BeNil())
			Expect(plan.Steps).To(Equal([]StepTag{StepDepositAndStake}))
		})

		It("requires a pool", func() {
			_, err := BuildPlan(stakeIntent(""), AccountState{LockupDeployed: true})
			Expect(err).ToNot(BeNil())
		})
	})

	It("rejects an unknown action", func() {
		_, err := BuildPlan(Intent{Action: Action(99), Amount: "1"}, AccountState{})
		Expect(err).ToNot(BeNil())
	})
})
