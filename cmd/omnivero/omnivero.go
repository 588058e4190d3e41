// Package omniverocmder
package omniverocmder

import (
	"github.com/spf13/cobra"

	archivecmder "github.com/omniverolabs/omnivero/cmd/omnivero/archive"
	backfillcmder "github.com/omniverolabs/omnivero/cmd/omnivero/backfill"
	configcmder "github.com/omniverolabs/omnivero/cmd/omnivero/config"
	identitycmder "github.com/omniverolabs/omnivero/cmd/omnivero/identity"
	initcmder "github.com/omniverolabs/omnivero/cmd/omnivero/init"
	memorycmder "github.com/omniverolabs/omnivero/cmd/omnivero/memory"
	parsecmder "github.com/omniverolabs/omnivero/cmd/omnivero/parse"
	servecmder "github.com/omniverolabs/omnivero/cmd/omnivero/serve"
	trustcmder "github.com/omniverolabs/omnivero/cmd/omnivero/trust"
	versioncmder "github.com/omniverolabs/omnivero/cmd/version"
)

const omniveroLongDesc string = `OmniVero analyzes commercial instruments and drafts trust documents.

Submit documents for analysis:
  omnivero parse notice.pdf         Analyze a document file
  omnivero parse --text "..."       Analyze pasted text

Work with the results:
  omnivero archive list             Browse the analysis archive
  omnivero memory commit ...        Curate the persistent memory layer
  omnivero trust draft ...          Draft a deed of trust
  omnivero serve                    Run the HTTP API and MCP server`

const omniveroShortDesc string = "OmniVero - Commercial Instrument Analysis"

func NewOmniveroCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "omnivero",
		Short: omniveroShortDesc,
		Long:  omniveroLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .omnivero directory location")

	// Add subcommands
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(parsecmder.NewParseCmd())
	cmd.AddCommand(archivecmder.NewArchiveCmd())
	cmd.AddCommand(memorycmder.NewMemoryCmd())
	cmd.AddCommand(identitycmder.NewIdentityCmd())
	cmd.AddCommand(trustcmder.NewTrustCmd())
	cmd.AddCommand(backfillcmder.NewBackfillCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
