package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcanaland/umadeck/internal/collection"
	"github.com/arcanaland/umadeck/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the data directory, config file and an empty collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if err := os.MkdirAll(appConfig.DataDir, 0755); err != nil {
			return fmt.Errorf("error creating data directory: %w", err)
		}
		fmt.Fprintln(out, "Data directory initialized at:", appConfig.DataDir)

		configPath := pathOr(cfgFile, config.GetConfigFilePath())
		fmt.Fprintln(out, "Config file initialized at:", configPath)

		collectionPath := appConfig.CollectionPath()
		created, err := collection.Create(collectionPath)
		if err != nil {
			return fmt.Errorf("error creating collection: %w", err)
		}
		if created {
			fmt.Fprintln(out, "Created empty collection at:", collectionPath)
		} else {
			fmt.Fprintln(out, "Collection already exists at:", collectionPath)
		}
		fmt.Fprintln(out, "Run 'umadeck update' to download the tierlist.")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
}
