package dbpath

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ResolveSQLitePath", func() {
	var (
		origHome   string
		origXDG    string
		origOmniDB string
		origOmniSQ string
		origCwd    string
	)

	BeforeEach(func() {
		origHome = os.Getenv("HOME")
		origXDG = os.Getenv("XDG_DATA_HOME")
		origOmniDB = os.Getenv("OMNIVERO_DB")
		origOmniSQ = os.Getenv("OMNIVERO_SQLITE")
		var err error
		origCwd, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.Setenv("HOME", origHome)).To(Succeed())
		Expect(os.Setenv("XDG_DATA_HOME", origXDG)).To(Succeed())
		Expect(os.Setenv("OMNIVERO_DB", origOmniDB)).To(Succeed())
		Expect(os.Setenv("OMNIVERO_SQLITE", origOmniSQ)).To(Succeed())
		Expect(os.Chdir(origCwd)).To(Succeed())
	})

	It("prefers an explicit override over everything", func() {
		Expect(os.Setenv("OMNIVERO_SQLITE", "/tmp/env.db")).To(Succeed())

		path, err := ResolveSQLitePath("/tmp/explicit.db")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/explicit.db"))
	})

	It("prefers OMNIVERO_SQLITE when set", func() {
		Expect(os.Setenv("OMNIVERO_SQLITE", "/tmp/custom.db")).To(Succeed())
		Expect(os.Setenv("OMNIVERO_DB", "")).To(Succeed())

		path, err := ResolveSQLitePath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/custom.db"))
	})

	It("falls back to OMNIVERO_DB", func() {
		Expect(os.Setenv("OMNIVERO_SQLITE", "")).To(Succeed())
		Expect(os.Setenv("OMNIVERO_DB", "/tmp/other.db")).To(Succeed())

		path, err := ResolveSQLitePath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/other.db"))
	})

	It("resolves ~/.omnivero/omnivero.db when present", func() {
		homeDir, err := os.MkdirTemp("", "omnivero-home-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(homeDir)
		})

		tmpDir, err := os.MkdirTemp("", "omnivero-cwd-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(tmpDir)
		})

		Expect(os.Setenv("HOME", homeDir)).To(Succeed())
		Expect(os.Setenv("XDG_DATA_HOME", "")).To(Succeed())
		Expect(os.Setenv("OMNIVERO_DB", "")).To(Succeed())
		Expect(os.Setenv("OMNIVERO_SQLITE", "")).To(Succeed())
		Expect(os.Chdir(tmpDir)).To(Succeed())

		dbPath := filepath.Join(homeDir, ".omnivero", "omnivero.db")
		Expect(os.MkdirAll(filepath.Dir(dbPath), 0o755)).To(Succeed())
		Expect(os.WriteFile(dbPath, []byte("test"), 0o644)).To(Succeed())

		path, err := ResolveSQLitePath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(dbPath))
	})

	It("errors when nothing can be found", func() {
		homeDir, err := os.MkdirTemp("", "omnivero-home-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(homeDir)
		})

		tmpDir, err := os.MkdirTemp("", "omnivero-cwd-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(tmpDir)
		})

		Expect(os.Setenv("HOME", homeDir)).To(Succeed())
		Expect(os.Setenv("XDG_DATA_HOME", "")).To(Succeed())
		Expect(os.Setenv("OMNIVERO_DB", "")).To(Succeed())
		Expect(os.Setenv("OMNIVERO_SQLITE", "")).To(Succeed())
		Expect(os.Chdir(tmpDir)).To(Succeed())

		_, err = ResolveSQLitePath("")
		Expect(err).To(HaveOccurred())
	})
})
