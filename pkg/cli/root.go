// Package cli wires the refcheck commands: validate, entities, and watch.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the refcheck root command.
func NewRootCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refcheck",
		Short: "Validate entity, device, and area references in Home Assistant configs",
		Long: `refcheck checks Home Assistant YAML configuration against the entity,
device, and area registries stored under .storage, so broken references are
caught before a reload instead of at 3am when the automation fires.

Checked per file:
  - entity ids in entity_id/entity_ids/entities keys and in template
    expressions (states(), is_state(), state_attr(), states.x.y)
  - opaque entity registry ids used in entity positions
  - device ids, area ids, and service calls
  - blueprint input contracts in automations`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("settings", "s", "", "Settings file (default: ./refcheck.yaml if present)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewEntitiesCommand())
	cmd.AddCommand(NewWatchCommand())

	return cmd
}
