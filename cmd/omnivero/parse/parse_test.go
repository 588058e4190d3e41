package parsecmder_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	parsecmder "github.com/omniverolabs/omnivero/cmd/omnivero/parse"
	archivesqlite "github.com/omniverolabs/omnivero/pkg/archive/sqlite"
	"github.com/omniverolabs/omnivero/pkg/config"
	"github.com/omniverolabs/omnivero/pkg/instrument"
)

var _ = Describe("NewParseCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := parsecmder.NewParseCmd()
		Expect(cmd.Use).To(Equal("parse [file]"))
	})

	It("accepts at most one argument", func() {
		cmd := parsecmder.NewParseCmd()
		Expect(cmd.Args(cmd, []string{"a.pdf", "b.pdf"})).To(HaveOccurred())
		Expect(cmd.Args(cmd, []string{"a.pdf"})).To(Succeed())
	})
})

var _ = Describe("Parse command execution", func() {
	var (
		tmpDir  string
		origDir string
		dbPath  string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "omnivero-parse-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		dbPath = filepath.Join(tmpDir, "omnivero.db")
		writeConfig(tmpDir, dbPath)
	})

	AfterEach(func() {
		err := os.Chdir(origDir)
		Expect(err).NotTo(HaveOccurred())
		os.RemoveAll(tmpDir)
	})

	runParse := func(args ...string) (string, error) {
		cmd := parsecmder.NewParseCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		err := cmd.Execute()
		return out.String(), err
	}

	It("requires a file or --text", func() {
		_, err := runParse("--accept-disclaimer", "--stub")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("nothing to analyze"))
	})

	It("refuses to run before the disclaimer is accepted", func() {
		_, err := runParse("--stub", "--text", "NOTICE")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("disclaimer"))
	})

	It("rejects unsupported file types", func() {
		path := filepath.Join(tmpDir, "notes.txt")
		Expect(os.WriteFile(path, []byte("hello"), 0o600)).To(Succeed())

		_, err := runParse("--accept-disclaimer", "--stub", path)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unsupported file type"))
	})

	It("analyzes raw text and archives the result", func() {
		out, err := runParse("--accept-disclaimer", "--stub", "--text", "NOTICE OF COLLECTION")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("MOCK CORP INC."))
		Expect(out).To(ContainSubstring("LOW"))

		archived := listArchive(dbPath)
		Expect(archived).To(HaveLen(1))
		Expect(archived[0].RawText).To(Equal("NOTICE OF COLLECTION"))
		Expect(archived[0].Extraction.Creditor).To(Equal("MOCK CORP INC."))
	})

	It("analyzes a document file", func() {
		path := filepath.Join(tmpDir, "notice.pdf")
		Expect(os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o600)).To(Succeed())

		_, err := runParse("--accept-disclaimer", "--stub", path)
		Expect(err).NotTo(HaveOccurred())

		archived := listArchive(dbPath)
		Expect(archived).To(HaveLen(1))
		Expect(archived[0].FileData).NotTo(BeNil())
		Expect(archived[0].FileData.MimeType).To(Equal("application/pdf"))
		Expect(archived[0].FileData.Name).To(Equal("notice.pdf"))
	})
})

func writeConfig(baseDir, dbPath string) {
	omniDir := filepath.Join(baseDir, ".omnivero")
	ExpectWithOffset(1, os.MkdirAll(omniDir, 0o755)).To(Succeed())

	cfg := &config.Config{Version: config.CurrentV}
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.SQLitePath = dbPath
	cfg.Memory.Provider = "sqlite"
	cfg.Memory.Enabled = true

	var buf bytes.Buffer
	ExpectWithOffset(1, toml.NewEncoder(&buf).Encode(cfg)).To(Succeed())
	ExpectWithOffset(1, os.WriteFile(filepath.Join(omniDir, "config.toml"), buf.Bytes(), 0o600)).To(Succeed())
}

func listArchive(dbPath string) []*instrument.Instrument {
	driver, err := archivesqlite.NewDriver(dbPath)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	defer driver.Close()

	instruments, err := driver.List(context.Background())
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return instruments
}
