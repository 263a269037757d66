package cli

import (
	"github.com/spf13/cobra"

	"github.com/homecfg/refcheck/pkg/logger"
	"github.com/homecfg/refcheck/pkg/registry"
)

var entitiesLog = logger.New("cli:entities_command")

// NewEntitiesCommand creates the entities command.
func NewEntitiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "entities [config-dir]",
		Short: "Summarize registered entities by domain",
		Long: `Read the entity registry of a config directory and print per-domain
counts of enabled and disabled entities with a few example ids.

Examples:
  refcheck entities                 # Summarize ./config
  refcheck entities /srv/ha/config  # Summarize a specific directory`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir := "config"
			if len(args) == 1 {
				configDir = args[0]
			}

			store := registry.NewStore(configDir)
			entities, err := store.Entities()
			if err != nil {
				return err
			}
			entitiesLog.Printf("summarizing %d entities in %s", len(entities), configDir)

			printEntitySummary(cmd.OutOrStdout(), configDir, registry.SummarizeByDomain(entities))
			return nil
		},
	}
}
