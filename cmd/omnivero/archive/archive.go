// Package archivecmder provides the archive command group for inspecting
// and curating the append-only instrument archive.
package archivecmder

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/omniverolabs/omnivero/cmd/omnivero/wiring"
	"github.com/omniverolabs/omnivero/pkg/archive"
	"github.com/omniverolabs/omnivero/pkg/cliui"
	"github.com/omniverolabs/omnivero/pkg/instrument"
	"github.com/omniverolabs/omnivero/pkg/utils"
)

const archiveLongDesc string = `Inspect and curate the instrument archive.

Every analyzed instrument is appended to the archive with its extraction
and content fingerprint. Records are listed newest first.

Examples:
  omnivero archive list
  omnivero archive query --search "capital one" --risk High
  omnivero archive get <id>
  omnivero archive clear --confirm`

func NewArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect and curate the instrument archive",
		Long:  archiveLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newClearCmd())

	return cmd
}

func newDriver(cmd *cobra.Command) (archive.Driver, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	cfg, err := wiring.LoadConfig(configDir)
	if err != nil {
		return nil, err
	}

	driver, err := wiring.NewArchiveDriver(cmd.Context(), cfg, "", configDir)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	return driver, nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived instruments, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			driver, err := newDriver(cmd)
			if err != nil {
				return err
			}
			defer driver.Close()

			instruments, err := driver.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing archive: %w", err)
			}

			renderList(cmd.OutOrStdout(), instruments)
			return nil
		},
	}
}

func newQueryCmd() *cobra.Command {
	var (
		search string
		risk   string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter the archive by text and risk level",
		Long: `Filter the archive.

The --search term matches creditor names and executive summaries, case
insensitively. The --risk filter keeps one classification; "All" keeps
everything. Both filters combine.

Examples:
  omnivero archive query --search "capital one"
  omnivero archive query --risk Critical
  omnivero archive query --search dispute --risk High`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if risk != instrument.RiskFilterAll && !instrument.Risk(risk).Valid() {
				return fmt.Errorf("invalid risk filter %q (must be All, None, Low, High, or Critical)", risk)
			}

			driver, err := newDriver(cmd)
			if err != nil {
				return err
			}
			defer driver.Close()

			instruments, err := driver.Query(cmd.Context(), search, risk)
			if err != nil {
				return fmt.Errorf("querying archive: %w", err)
			}

			renderList(cmd.OutOrStdout(), instruments)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive term matched against creditor and summary")
	cmd.Flags().StringVarP(&risk, "risk", "r", instrument.RiskFilterAll, "Risk filter: All, None, Low, High, or Critical")

	return cmd
}

func newGetCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one archived instrument",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, err := newDriver(cmd)
			if err != nil {
				return err
			}
			defer driver.Close()

			inst, err := driver.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(inst)
			}

			renderDetail(out, inst)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full record as JSON")

	return cmd
}

func newClearCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every archived instrument",
		Long: `Delete every archived instrument.

This is destructive and irreversible, so it requires the --confirm flag.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return fmt.Errorf("clearing the archive is irreversible; pass --confirm to proceed")
			}

			driver, err := newDriver(cmd)
			if err != nil {
				return err
			}
			defer driver.Close()

			if err := driver.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clearing archive: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Archive cleared\n", cliui.SuccessMark)
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the irreversible clear")

	return cmd
}

func renderList(out io.Writer, instruments []*instrument.Instrument) {
	if len(instruments) == 0 {
		fmt.Fprintln(out, "The archive is empty.")
		return
	}

	for _, inst := range instruments {
		risk := instrument.RiskNone
		creditor := ""
		summary := ""
		if inst.Extraction != nil {
			risk = inst.Extraction.ViolationRisk
			creditor = inst.Extraction.Creditor
			summary = inst.Extraction.ExecutiveSummary
		}
		if creditor == "" {
			creditor = "(unknown creditor)"
		}

		fmt.Fprintf(out, "%s  %s  %s\n",
			cliui.RiskBadge(risk),
			cliui.ValueStyle.Render(creditor),
			cliui.DimStyle.Render(inst.ID),
		)
		if summary != "" {
			fmt.Fprintf(out, "      %s\n", utils.Preview(summary, 120))
		}
	}
}

func renderDetail(out io.Writer, inst *instrument.Instrument) {
	ext := inst.Extraction
	if ext == nil {
		ext = &instrument.Extraction{ViolationRisk: instrument.RiskNone}
	}

	fmt.Fprintf(out, "\n  %s  %s\n", cliui.RiskBadge(ext.ViolationRisk), cliui.DimStyle.Render(inst.ID))
	fmt.Fprintf(out, "  %s %s\n", cliui.KeyStyle.Render("Archived:"), inst.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(out, "  %s %s\n", cliui.KeyStyle.Render("Fingerprint:"), cliui.DimStyle.Render(inst.Hash))

	if ext.Creditor != "" {
		fmt.Fprintf(out, "  %s %s\n", cliui.KeyStyle.Render("Creditor:"), ext.Creditor)
	}
	if ext.AccountNumber != "" {
		fmt.Fprintf(out, "  %s %s\n", cliui.KeyStyle.Render("Account:"), ext.AccountNumber)
	}
	if ext.Amount != nil {
		fmt.Fprintf(out, "  %s %.2f\n", cliui.KeyStyle.Render("Amount:"), *ext.Amount)
	}
	if ext.ExecutiveSummary != "" {
		fmt.Fprintf(out, "\n  %s\n", ext.ExecutiveSummary)
	}
	if ext.StrategicAction != "" {
		fmt.Fprintf(out, "\n  %s %s\n", cliui.KeyStyle.Render("Action:"), ext.StrategicAction)
	}
	fmt.Fprintln(out)
}
