// Package memorycmder provides the memory command group for curating the
// persistent engram layer that grounds every analysis.
package memorycmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omniverolabs/omnivero/cmd/omnivero/wiring"
	"github.com/omniverolabs/omnivero/pkg/cliui"
	"github.com/omniverolabs/omnivero/pkg/engram"
)

const memoryLongDesc string = `Manage the persistent memory layer.

Engrams are short fact, entity, and statute notes that are replayed into
every future analysis as contextual grounding. Committing a value that is
already stored is a silent no-op.

Examples:
  omnivero memory commit Entity "JOHN DOE"
  omnivero memory commit Statute "FDCPA 15 USC 1692g"
  omnivero memory list
  omnivero memory remove <id>
  omnivero memory purge --confirm`

const memoryShortDesc string = "Manage the persistent memory layer"

func NewMemoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: memoryShortDesc,
		Long:  memoryLongDesc,
	}

	cmd.AddCommand(newCommitCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newPurgeCmd())

	return cmd
}

// newStore builds the configured engram store for a command run.
func newStore(cmd *cobra.Command) (engram.Store, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	cfg, err := wiring.LoadConfig(configDir)
	if err != nil {
		return nil, err
	}

	store, err := wiring.NewEngramStore(cfg, "", configDir)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("the memory layer is disabled; enable it with: omnivero config set memory.enabled true")
	}

	return store, nil
}

func newCommitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commit <type> <value>",
		Short: "Commit a fact, entity, or statute to memory",
		Long: `Commit a node to the memory layer.

The type must be one of Entity, Statute, or Fact. Values are deduplicated:
committing an already-stored value reports it without creating a duplicate.

Examples:
  omnivero memory commit Entity "JOHN DOE"
  omnivero memory commit Fact "Account was disputed in writing on 2023-10-27"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ := engram.Type(args[0])
			if !typ.Valid() {
				return fmt.Errorf("invalid type %q (must be Entity, Statute, or Fact)", args[0])
			}

			store, err := newStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			node, ok, err := store.Commit(cmd.Context(), typ, args[1])
			if err != nil {
				return fmt.Errorf("committing engram: %w", err)
			}

			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintf(out, "Already stored: %s\n", args[1])
				return nil
			}

			fmt.Fprintf(out, "%s Committed %s %s\n",
				cliui.SuccessMark,
				cliui.KeyStyle.Render(string(node.Type)),
				cliui.ValueStyle.Render(node.Value),
			)
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored engrams grouped by type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := newStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			nodes, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing memory: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(nodes) == 0 {
				fmt.Fprintln(out, "Memory is empty.")
				return nil
			}

			grouped := engram.GroupByType(nodes)
			for _, typ := range []engram.Type{engram.TypeEntity, engram.TypeStatute, engram.TypeFact} {
				group := grouped[typ]
				if len(group) == 0 {
					continue
				}
				fmt.Fprintf(out, "\n%s\n", cliui.KeyStyle.Render(string(typ)))
				for _, n := range group {
					fmt.Fprintf(out, "  %s  %s\n", cliui.DimStyle.Render(n.ID), n.Value)
				}
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove one engram by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Remove(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("removing engram: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %s\n", cliui.SuccessMark, args[0])
			return nil
		},
	}
}

func newPurgeCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every stored engram",
		Long: `Delete every stored engram.

This is destructive and irreversible, so it requires the --confirm flag.

Examples:
  omnivero memory purge --confirm`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return fmt.Errorf("purging memory is irreversible; pass --confirm to proceed")
			}

			store, err := newStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.PurgeAll(cmd.Context()); err != nil {
				return fmt.Errorf("purging memory: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Memory purged\n", cliui.SuccessMark)
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the irreversible purge")

	return cmd
}
