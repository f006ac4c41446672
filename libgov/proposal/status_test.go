package proposal

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func tallies(forPower, againstPower, abstainPower string) Tallies {
	return Tallies{
		For:     VoteTally{TotalVotingPower: forPower},
		Against: VoteTally{TotalVotingPower: againstPower},
		Abstain: VoteTally{TotalVotingPower: abstainPower},
	}
}

var _ = Describe("Status engine", func() {
	Describe("IsQuorumFulfilled", func() {
		It("counts abstain power toward participation", func() {
			Expect(IsQuorumFulfilled("300", tallies("100", "100", "100"))).To(BeTrue())
			Expect(IsQuorumFulfilled("301", tallies("100", "100", "100"))).To(BeFalse())
		})

		It("treats a zero, negative or malformed quorum as always met", func() {
			for _, quorum := range []string{"0", "-1", "", "junk"} {
				Expect(IsQuorumFulfilled(quorum, tallies("0", "0", "0"))).To(BeTrue())
			}
		})

		It("skips malformed tallies instead of failing", func() {
			Expect(IsQuorumFulfilled("100", tallies("junk", "100", ""))).To(BeTrue())
			Expect(IsQuorumFulfilled("101", tallies("junk", "100", ""))).To(BeFalse())
		})
	})

	Describe("ComputeDisplayStatus", func() {
		It("maps every pre-finish status to Active", func() {
			for _, raw := range []string{StatusCreated, StatusApproved, StatusVoting} {
				Expect(ComputeDisplayStatus(raw, tallies("0", "0", "0"), "0")).To(Equal(DisplayActive))
			}
		})

		Context("for a finished vote", func() {
			It("succeeds when quorum is met and for strictly exceeds against", func() {
				status := ComputeDisplayStatus(StatusFinished, tallies("200", "100", "0"), "300")
				Expect(status).To(Equal(DisplaySucceeded))
			})

			It("is defeated on a tie even when quorum is met", func() {
				status := ComputeDisplayStatus(StatusFinished, tallies("150", "150", "0"), "0")
				Expect(status).To(Equal(DisplayDefeated))
			})

			It("is defeated when participation misses quorum despite a majority", func() {
				status := ComputeDisplayStatus(StatusFinished, tallies("200", "0", "0"), "500")
				Expect(status).To(Equal(DisplayDefeated))
			})

			It("lets abstain power tip a proposal over quorum", func() {
				status := ComputeDisplayStatus(StatusFinished, tallies("200", "0", "300"), "500")
				Expect(status).To(Equal(DisplaySucceeded))
			})

			It("is defeated when the for tally is unreadable", func() {
				status := ComputeDisplayStatus(StatusFinished, tallies("junk", "0", "0"), "0")
				Expect(status).To(Equal(DisplayDefeated))
			})
		})

		It("passes unknown raw statuses through unchanged", func() {
			Expect(ComputeDisplayStatus("Vetoed", tallies("9", "0", "0"), "0")).To(Equal("Vetoed"))
		})
	})
})
