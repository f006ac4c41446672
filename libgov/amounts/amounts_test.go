package amounts

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Amounts", func() {
	Describe("ParseAmount", func() {
		It("accepts non-negative decimal strings", func() {
			n, err := ParseAmount("0")
			Expect(err).To(BeNil())
			Expect(n.String()).To(Equal("0"))

			n, err = ParseAmount("3000000000000000000000000")
			Expect(err).To(BeNil())
			Expect(n.String()).To(Equal("3000000000000000000000000"))
		})

		It("rejects negative and malformed strings", func() {
			for _, bad := range []string{"-1", "", "12.5", "1e24", "ten", "0x10"} {
				_, err := ParseAmount(bad)
				Expect(err).ToNot(BeNil())
			}
		})
	})

	Describe("ResolveTransferAmount", func() {
		Context("with the native token", func() {
			It("nets out balance already liquid in the lockup", func() {
				transfer, err := ResolveTransferAmount("500", Native, "120")
				Expect(err).To(BeNil())
				Expect(transfer).To(Equal("380"))
			})

			It("transfers nothing when the lockup already holds enough", func() {
				transfer, err := ResolveTransferAmount("500", Native, "500")
				Expect(err).To(BeNil())
				Expect(transfer).To(Equal("0"))

				transfer, err = ResolveTransferAmount("500", Native, "900")
				Expect(err).To(BeNil())
				Expect(transfer).To(Equal("0"))
			})
		})

		Context("with a liquid staking token", func() {
			It("always transfers the full desired amount", func() {
				transfer, err := ResolveTransferAmount("500", LiquidStakingToken, "10000")
				Expect(err).To(BeNil())
				Expect(transfer).To(Equal("500"))
			})
		})

		It("fails on malformed inputs", func() {
			_, err := ResolveTransferAmount("abc", Native, "0")
			Expect(err).ToNot(BeNil())

			_, err = ResolveTransferAmount("500", Native, "-3")
			Expect(err).ToNot(BeNil())
		})
	})

	Describe("ResolveLockAmount", func() {
		It("locks the desired native amount when it is liquid", func() {
			lock, err := ResolveLockAmount("500", Native, "", "800")
			Expect(err).To(BeNil())
			Expect(lock).To(Equal("500"))
		})

		It("never locks more than the liquid lockup balance", func() {
			lock, err := ResolveLockAmount("500", Native, "", "320")
			Expect(err).To(BeNil())
			Expect(lock).To(Equal("320"))
		})

		It("uses the voting-power equivalent for a liquid staking token", func() {
			lock, err := ResolveLockAmount("500", LiquidStakingToken, "615", "1000")
			Expect(err).To(BeNil())
			Expect(lock).To(Equal("615"))

			By("still clamping the equivalent to the liquid balance")
			lock, err = ResolveLockAmount("500", LiquidStakingToken, "615", "600")
			Expect(err).To(BeNil())
			Expect(lock).To(Equal("600"))
		})

		It("fails when the equivalent for a liquid staking token is malformed", func() {
			_, err := ResolveLockAmount("500", LiquidStakingToken, "", "1000")
			Expect(err).ToNot(BeNil())
		})
	})

	Describe("Cmp", func() {
		It("compares amounts numerically rather than lexically", func() {
			c, err := Cmp("9", "10")
			Expect(err).To(BeNil())
			Expect(c).To(Equal(-1))

			c, err = Cmp("10", "10")
			Expect(err).To(BeNil())
			Expect(c).To(Equal(0))
		})
	})

	Describe("IsZero", func() {
		It("treats empty and malformed strings as zero", func() {
			Expect(IsZero("")).To(BeTrue())
			Expect(IsZero("junk")).To(BeTrue())
			Expect(IsZero("0")).To(BeTrue())
			Expect(IsZero("1")).To(BeFalse())
		})
	})

	Describe("Sum", func() {
		It("adds amounts and skips malformed entries", func() {
			Expect(Sum("100", "", "23", "-4")).To(Equal("123"))
		})
	})
})
