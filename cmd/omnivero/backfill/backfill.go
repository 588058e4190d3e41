// Package backfillcmder provides the backfill command: re-run extraction
// for archived instruments that have none.
package backfillcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omniverolabs/omnivero/cmd/omnivero/wiring"
	"github.com/omniverolabs/omnivero/pkg/cliui"
	"github.com/omniverolabs/omnivero/pkg/extract"
	"github.com/omniverolabs/omnivero/pkg/logger"
)

const backfillLongDesc string = `Re-run extraction for archived instruments that have none.

Instruments can land in the archive without an extraction after an engine
failure or a raw import. Backfill scans the archive, analyzes the pending
records with bounded concurrency, and rewrites them in place. Records
that already carry an extraction are untouched.

Examples:
  omnivero backfill
  omnivero backfill --stub`

func NewBackfillCmd() *cobra.Command {
	var stub bool

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Re-run extraction for records missing one",
		Long:  backfillLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			cfg, err := wiring.LoadConfig(configDir)
			if err != nil {
				return err
			}

			driver, err := wiring.NewArchiveDriver(cmd.Context(), cfg, "", configDir)
			if err != nil {
				return fmt.Errorf("opening archive: %w", err)
			}
			defer driver.Close()

			updatable, ok := driver.(extract.UpdatableArchive)
			if !ok {
				return fmt.Errorf("the %s archive driver does not support in-place updates", cfg.Storage.Driver)
			}

			extractor, err := wiring.NewExtractor(cfg, stub)
			if err != nil {
				return err
			}

			worker := extract.NewWorker(extractor, updatable, logger.Nop())

			out := cmd.OutOrStdout()
			err = cliui.Step(out, "Backfilling archive", func() error {
				worker.Run(cmd.Context())
				return cmd.Context().Err()
			})
			if err != nil {
				return err
			}

			done, total := worker.Progress()
			if total == 0 {
				fmt.Fprintln(out, "Nothing to backfill: every record already has an extraction.")
				return nil
			}

			fmt.Fprintf(out, "%s Backfilled %d of %d pending records\n", cliui.SuccessMark, done, total)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stub, "stub", false, "Use the canned offline engine instead of a live call")

	return cmd
}
