package libgov

import (
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Libgov helpers", func() {
	Describe("DeriveLockupID", func() {
		It("derives a deterministic subaccount of the factory", func() {
			one := DeriveLockupID("alice.test", "lockup.test")
			two := DeriveLockupID("alice.test", "lockup.test")
			Expect(one).To(Equal(two))
			Expect(strings.HasSuffix(one, ".lockup.test")).To(BeTrue())

			prefix := strings.TrimSuffix(one, ".lockup.test")
			Expect(prefix).To(HaveLen(40))
		})

		It("derives distinct lockups for distinct owners", func() {
			Expect(DeriveLockupID("alice.test", "lockup.test")).
				ToNot(Equal(DeriveLockupID("bob.test", "lockup.test")))
		})
	})

	Describe("nsToUnix", func() {
		It("converts ledger nanosecond strings to unix seconds", func() {
			Expect(nsToUnix("1756339200000000000")).To(Equal(int64(1756339200)))
			Expect(nsToUnix("999999999")).To(Equal(int64(0)))
		})

		It("maps malformed values to zero", func() {
			Expect(nsToUnix("")).To(Equal(int64(0)))
			Expect(nsToUnix("later")).To(Equal(int64(0)))
		})
	})
})
