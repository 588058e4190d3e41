// Package parsecmder provides the parse command: analyze a commercial
// instrument from a file or pasted text and archive the result.
package parsecmder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/omniverolabs/omnivero/cmd/omnivero/wiring"
	"github.com/omniverolabs/omnivero/pkg/cliui"
	"github.com/omniverolabs/omnivero/pkg/dotdir"
	"github.com/omniverolabs/omnivero/pkg/extract"
	"github.com/omniverolabs/omnivero/pkg/instrument"
	"github.com/omniverolabs/omnivero/pkg/logger"
)

const parseLongDesc string = `Analyze a commercial instrument.

The submission is either a document file (PDF, PNG, JPEG, or WEBP) or raw
text passed with --text. Stored memory is replayed into the analysis as
grounding context, and the resulting instrument is appended to the archive.

The first run requires accepting the analysis disclaimer, either
interactively via omnivero init --accept-disclaimer or with the
--accept-disclaimer flag here.

Examples:
  omnivero parse notice.pdf
  omnivero parse --text "NOTICE OF COLLECTION ..."
  omnivero parse scan.png --stub`

// extToMime maps accepted file extensions to their MIME types.
var extToMime = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

func NewParseCmd() *cobra.Command {
	var (
		text             string
		stub             bool
		acceptDisclaimer bool
	)

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Analyze a commercial instrument",
		Long:  parseLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && text == "" {
				return fmt.Errorf("nothing to analyze: pass a file or --text")
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
				return fmt.Errorf("the analysis disclaimer has not been accepted; re-run with --accept-disclaimer")
			}

			sub := extract.Submission{RawText: text}
			if len(args) == 1 {
				file, err := readSubmissionFile(args[0])
				if err != nil {
					return err
				}
				sub.File = file
			}

			cfg, err := wiring.LoadConfig(configDir)
			if err != nil {
				return err
			}

			archiver, err := wiring.NewArchiveDriver(cmd.Context(), cfg, "", configDir)
			if err != nil {
				return fmt.Errorf("opening archive: %w", err)
			}
			defer archiver.Close()

			engrams, err := wiring.NewEngramStore(cfg, "", configDir)
			if err != nil {
				return fmt.Errorf("opening memory store: %w", err)
			}
			if engrams != nil {
				defer engrams.Close()
			}

			extractor, err := wiring.NewExtractor(cfg, stub)
			if err != nil {
				return err
			}

			pipeline := extract.NewPipeline(extractor, engrams, archiver, logger.Nop())

			out := cmd.OutOrStdout()
			var inst *instrument.Instrument
			err = cliui.Step(out, "Analyzing instrument", func() error {
				var perr error
				inst, perr = pipeline.Process(cmd.Context(), sub)
				return perr
			})
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			renderInstrument(cmd, inst)
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Raw instrument text to analyze instead of a file")
	cmd.Flags().BoolVar(&stub, "stub", false, "Use the canned offline engine instead of a live call")
	cmd.Flags().BoolVar(&acceptDisclaimer, "accept-disclaimer", false, "Accept the analysis disclaimer")

	return cmd
}

// readSubmissionFile loads a document file and resolves its MIME type
// from the extension.
func readSubmissionFile(path string) (*instrument.FileData, error) {
	mimeType, ok := extToMime[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("unsupported file type %q (accepted: pdf, png, jpg, jpeg, webp)", filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &instrument.FileData{
		MimeType: mimeType,
		Data:     data,
		Name:     filepath.Base(path),
	}, nil
}

func renderInstrument(cmd *cobra.Command, inst *instrument.Instrument) {
	out := cmd.OutOrStdout()
	ext := inst.Extraction

	fmt.Fprintf(out, "\n  %s  %s\n\n", cliui.RiskBadge(ext.ViolationRisk), cliui.DimStyle.Render(inst.ID))

	printField(out, "Creditor", ext.Creditor)
	printField(out, "Account", ext.AccountNumber)
	if ext.Amount != nil {
		printField(out, "Amount", fmt.Sprintf("%.2f", *ext.Amount))
	}
	printField(out, "Date", ext.Date)
	printField(out, "Summary", ext.ExecutiveSummary)
	printField(out, "Action", ext.StrategicAction)

	if len(ext.IdentifiedEntities) > 0 {
		fmt.Fprintf(out, "  %s\n", cliui.KeyStyle.Render("Entities"))
		for _, e := range ext.IdentifiedEntities {
			fmt.Fprintf(out, "    - %s\n", e)
		}
	}
	if len(ext.RiskFactors) > 0 {
		fmt.Fprintf(out, "  %s\n", cliui.KeyStyle.Render("Risk factors"))
		for _, f := range ext.RiskFactors {
			fmt.Fprintf(out, "    - %s\n", f)
		}
	}
	fmt.Fprintln(out)
}

func printField(out io.Writer, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(out, "  %s %s\n", cliui.KeyStyle.Render(key+":"), cliui.ValueStyle.Render(value))
}
