// Package initcmder provides the init command for initializing a local
// .omnivero directory with a default configuration and sovereign persona.
package initcmder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/omniverolabs/omnivero/pkg/cliui"
	"github.com/omniverolabs/omnivero/pkg/config"
	"github.com/omniverolabs/omnivero/pkg/dotdir"
	"github.com/omniverolabs/omnivero/pkg/identity"
)

const dirName = ".omnivero"

const initLongDesc string = `Initialize a new .omnivero/ directory in the current working directory.

Creates a local .omnivero/ directory that takes precedence over the default
~/.omnivero/ directory for the archive database, configuration, persona,
and disclaimer state. Writes a config.toml with default values when none
exists.

When --given-name and --family-name are provided, a sovereign persona is
created along with an ECDSA P-256 key pair for document signing.

The analysis engine produces sovereign-theory legal commentary, not legal
advice. The disclaimer must be accepted before parsing documents; pass
--accept-disclaimer here or on the first parse.

Examples:
  omnivero init
  omnivero init --accept-disclaimer
  omnivero init --given-name John --family-name Doe --state California`

const initShortDesc string = "Initialize a local .omnivero/ directory"

type initCommander struct {
	givenName        string
	familyName       string
	domicileState    string
	acceptDisclaimer bool
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVar(&cmder.givenName, "given-name", "", "Given name for the sovereign persona")
	cmd.Flags().StringVar(&cmder.familyName, "family-name", "", "Family name for the sovereign persona")
	cmd.Flags().StringVar(&cmder.domicileState, "state", "", "Domicile state for the persona")
	cmd.Flags().BoolVar(&cmder.acceptDisclaimer, "accept-disclaimer", false, "Accept the analysis disclaimer")

	return cmd
}

func (c *initCommander) run(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		fmt.Fprintf(out, "Already initialized: %s\n", dir)
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating .omnivero directory: %w", err)
		}
		fmt.Fprintf(out, "Initialized .omnivero directory: %s\n", dir)
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.toml")); errors.Is(err, os.ErrNotExist) {
		if err := cfger.SaveConfig(config.NewDefaultConfig()); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(out, "%s Wrote default config.toml\n", cliui.SuccessMark)
	}

	ddm := dotdir.NewManager()

	if c.acceptDisclaimer {
		if err := ddm.AcceptDisclaimer(dir); err != nil {
			return fmt.Errorf("accepting disclaimer: %w", err)
		}
		fmt.Fprintf(out, "%s Disclaimer accepted\n", cliui.SuccessMark)
	}

	if c.givenName == "" && c.familyName == "" {
		return nil
	}
	if c.givenName == "" || c.familyName == "" {
		return fmt.Errorf("both --given-name and --family-name are required to create a persona")
	}

	if existing, err := ddm.LoadPersona(dir); err != nil {
		return fmt.Errorf("checking persona: %w", err)
	} else if existing != nil {
		fmt.Fprintf(out, "Persona already exists: %s\n", existing.DisplayName())
		return nil
	}

	kp, err := identity.GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}
	if err := ddm.SaveKeyPair(kp, dir); err != nil {
		return fmt.Errorf("saving key pair: %w", err)
	}

	tradeName := strings.ToUpper(c.givenName + " " + c.familyName)
	persona := identity.NewPersona(c.givenName, c.familyName, tradeName, c.domicileState, kp.ID)
	if err := ddm.SavePersona(persona, dir); err != nil {
		return fmt.Errorf("saving persona: %w", err)
	}

	fmt.Fprintf(out, "%s Created persona %s (%s)\n",
		cliui.SuccessMark,
		persona.DisplayName(),
		cliui.DimStyle.Render(identity.AlgorithmECDSAP256),
	)

	return nil
}
