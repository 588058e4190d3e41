// Package configcmder provides the config command for managing persistent
// omnivero configuration stored in the .omnivero/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent omnivero configuration.

Configuration is stored as config.toml in the .omnivero/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  storage.driver, storage.sqlite_path, storage.postgres_target,
  api.listen,
  engine.provider, engine.model, engine.base_url,
  drafting.provider, drafting.model, drafting.base_url,
  vector_store.provider, vector_store.target,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  memory.provider, memory.enabled

Use subcommands to get, set, or list configuration values:
  omnivero config set <key> <value>    Set a configuration value
  omnivero config get <key>            Get a configuration value
  omnivero config list                 List all configuration values

Examples:
  omnivero config set engine.provider anthropic
  omnivero config set embedding.model nomic-embed-text
  omnivero config get engine.provider
  omnivero config list`

const configShortDesc string = "Manage persistent omnivero configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
