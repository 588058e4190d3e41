// Package trustcmder provides the trust command group for drafting deed
// documents from trust definitions.
package trustcmder

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omniverolabs/omnivero/cmd/omnivero/wiring"
	"github.com/omniverolabs/omnivero/pkg/cliui"
	"github.com/omniverolabs/omnivero/pkg/dotdir"
	"github.com/omniverolabs/omnivero/pkg/trust"
)

const trustLongDesc string = `Draft trust deed documents.

A trust definition is a TOML file naming the title, grantor, series,
trustees, beneficiaries, and corpus assets. The draft subcommand turns it
into a complete deed in markdown, with a rationale for each key clause.

Examples:
  omnivero trust draft --file mytrust.toml
  omnivero trust draft --file mytrust.toml --out deed.md
  omnivero trust draft --file mytrust.toml --stub`

func NewTrustCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trust",
		Short: "Draft trust deed documents",
		Long:  trustLongDesc,
	}

	cmd.AddCommand(newDraftCmd())

	return cmd
}

func newDraftCmd() *cobra.Command {
	var (
		file             string
		outPath          string
		stub             bool
		raw              bool
		acceptDisclaimer bool
	)

	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Draft a deed from a trust definition file",
		Long: `Draft a deed from a trust definition file.

When the definition omits a grantor, the stored persona's trade name is
used. The deed renders to the terminal unless --out writes it to a file;
--raw skips terminal styling. The first run requires accepting the
drafting disclaimer.

Examples:
  omnivero trust draft --file mytrust.toml
  omnivero trust draft --file mytrust.toml --out deed.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return fmt.Errorf("a trust definition file is required: pass --file")
			}

			configDir, _ := cmd.Flags().GetString("config-dir")

			ddm := dotdir.NewManager()
			if acceptDisclaimer {
				if err := ddm.AcceptDisclaimer(configDir); err != nil {
					return fmt.Errorf("recording disclaimer acceptance: %w", err)
				}
			}
			accepted, err := ddm.DisclaimerAccepted(configDir)
			if err != nil {
				return fmt.Errorf("checking disclaimer: %w", err)
			}
			if !accepted {
				return fmt.Errorf("the drafting disclaimer has not been accepted; re-run with --accept-disclaimer")
			}

			t, err := trust.LoadFile(file)
			if err != nil {
				return err
			}

			if t.Grantor == "" {
				persona, err := ddm.LoadPersona(configDir)
				if err == nil && persona != nil {
					t.Grantor = persona.TradeNameAllCaps
				}
			}
			if t.Title == "" || t.Grantor == "" {
				return fmt.Errorf("the trust definition needs a title and a grantor")
			}

			cfg, err := wiring.LoadConfig(configDir)
			if err != nil {
				return err
			}

			drafter, err := wiring.NewDrafter(cfg, stub)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var clause *trust.GeneratedClause
			err = cliui.Step(out, fmt.Sprintf("Drafting %s", t.Title), func() error {
				var derr error
				clause, derr = drafter.Draft(cmd.Context(), t)
				return derr
			})
			if err != nil {
				return fmt.Errorf("drafting failed: %w", err)
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(clause.Markdown), 0o600); err != nil {
					return fmt.Errorf("writing deed: %w", err)
				}
				fmt.Fprintf(out, "%s Deed written to %s\n", cliui.SuccessMark, outPath)
			} else if raw {
				fmt.Fprintln(out, clause.Markdown)
			} else {
				rendered, err := cliui.RenderMarkdown(clause.Markdown)
				if err != nil {
					rendered = clause.Markdown
				}
				fmt.Fprintln(out, rendered)
			}

			renderRationales(cmd, clause.Rationales)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Trust definition TOML file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the deed markdown to a file instead of the terminal")
	cmd.Flags().BoolVar(&stub, "stub", false, "Use the canned offline engine instead of a live call")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print plain markdown without terminal styling")
	cmd.Flags().BoolVar(&acceptDisclaimer, "accept-disclaimer", false, "Accept the drafting disclaimer")

	return cmd
}

func renderRationales(cmd *cobra.Command, rationales []trust.Rationale) {
	if len(rationales) == 0 {
		return
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s\n", cliui.KeyStyle.Render("Clause rationales"))
	for _, r := range rationales {
		fmt.Fprintf(out, "  [%s] %s\n", r.RiskLevel, r.Summary)
		for _, c := range r.Citations {
			fmt.Fprintf(out, "        %s\n", cliui.DimStyle.Render(c))
		}
	}
}
