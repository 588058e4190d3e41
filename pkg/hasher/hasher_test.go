package hasher_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/omniverolabs/omnivero/pkg/hasher"
)

var _ = Describe("Fingerprint", func() {
	It("is deterministic across repeated calls", func() {
		content := []byte("Invoice #42, pay $100")
		Expect(hasher.Fingerprint(content)).To(Equal(hasher.Fingerprint(content)))
	})

	It("produces a 64-character hex digest", func() {
		digest := hasher.Fingerprint([]byte("hello"))
		Expect(digest).To(HaveLen(64))
		Expect(digest).To(MatchRegexp("^[0-9a-f]+$"))
	})

	It("differs for different content", func() {
		Expect(hasher.Fingerprint([]byte("a"))).NotTo(Equal(hasher.Fingerprint([]byte("b"))))
	})

	It("matches the known SHA-256 of the empty input", func() {
		Expect(hasher.Fingerprint(nil)).To(Equal("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"))
	})

	It("fingerprints strings identically to their byte form", func() {
		Expect(hasher.FingerprintString("content")).To(Equal(hasher.Fingerprint([]byte("content"))))
	})
})
