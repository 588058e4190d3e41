// Package identitycmder provides the identity command group for viewing
// and resetting the stored persona and its keypair.
package identitycmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omniverolabs/omnivero/pkg/cliui"
	"github.com/omniverolabs/omnivero/pkg/dotdir"
)

const identityLongDesc string = `View and reset the stored identity.

The persona (given name, family name, trade name, domicile state) and its
ECDSA P-256 keypair are created by omnivero init and stored in the
.omnivero directory. Drafting uses the trade name as the default grantor.

Examples:
  omnivero identity show
  omnivero identity reset --confirm`

func NewIdentityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "View and reset the stored identity",
		Long:  identityLongDesc,
	}

	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newResetCmd())

	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored persona and public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			ddm := dotdir.NewManager()

			persona, err := ddm.LoadPersona(configDir)
			if err != nil {
				return fmt.Errorf("loading persona: %w", err)
			}

			out := cmd.OutOrStdout()
			if persona == nil {
				fmt.Fprintln(out, "No persona stored. Create one with: omnivero init --given-name <name> --family-name <name>")
				return nil
			}

			fmt.Fprintf(out, "%s %s\n", cliui.KeyStyle.Render("Name:"), persona.DisplayName())
			fmt.Fprintf(out, "%s %s\n", cliui.KeyStyle.Render("Trade name:"), persona.TradeNameAllCaps)
			if persona.DomicileState != "" {
				fmt.Fprintf(out, "%s %s\n", cliui.KeyStyle.Render("Domicile:"), persona.DomicileState)
			}

			kp, err := ddm.LoadKeyPair(configDir)
			if err != nil {
				return fmt.Errorf("loading keypair: %w", err)
			}
			if kp != nil {
				fmt.Fprintf(out, "%s %s (%s)\n", cliui.KeyStyle.Render("Keypair:"), cliui.DimStyle.Render(kp.ID), kp.Algorithm)
				fmt.Fprintf(out, "\n%s\n", kp.PublicKeyPEM)
			}

			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored persona and keypair",
		Long: `Delete the stored persona and keypair.

The private key is not recoverable afterwards, so this requires the
--confirm flag.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return fmt.Errorf("resetting the identity discards the private key; pass --confirm to proceed")
			}

			configDir, _ := cmd.Flags().GetString("config-dir")
			if err := dotdir.NewManager().ClearPersona(configDir); err != nil {
				return fmt.Errorf("clearing identity: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Identity cleared\n", cliui.SuccessMark)
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the irreversible reset")

	return cmd
}
