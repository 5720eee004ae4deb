package cmd

import (
	"bytes"
	"fmt"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/arcanaland/umadeck/internal/enrich"
	"github.com/arcanaland/umadeck/internal/fetch"
	"github.com/arcanaland/umadeck/internal/jsonfile"
	"github.com/arcanaland/umadeck/internal/logging"
)

var (
	updateOutput string
	updateStdout bool
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the local tierlist from the internet",
	Long: `Update downloads the latest precomputed tierlist from the configured URL,
saves it locally and re-enriches your cards with it.

With --stdout the downloaded JSON is printed instead of saved.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		f := fetch.New(fetch.Options{
			URL:     appConfig.TierlistURL,
			Timeout: appConfig.FetchTimeout(),
			Retries: appConfig.FetchRetries,
		})
		body, err := f.Fetch(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch data: %w", err)
		}

		parsed := json.RawMessage(body)

		if updateStdout {
			var buf bytes.Buffer
			if err := json.Indent(&buf, parsed, "", "  "); err != nil {
				return err
			}
			buf.WriteByte('\n')
			_, err := out.Write(buf.Bytes())
			return err
		}

		path := pathOr(updateOutput, appConfig.TierlistPath())
		if err := jsonfile.Save(path, parsed, true); err != nil {
			return fmt.Errorf("could not write file %s: %w", path, err)
		}
		fmt.Fprintf(out, "Saved updated tierlist to %s\n", path)

		fmt.Fprintln(out, "Re-enriching cards with the updated tierlist...")
		err = runEnrich(out, enrich.Options{
			Input:    appConfig.CollectionPath(),
			Tierlist: path,
			Output:   appConfig.EnrichedPath(),
			Pretty:   true,
		})
		if err != nil {
			logging.Warn().Err(err).Msg("failed to re-enrich cards")
			return nil
		}
		color.New(color.FgGreen).Fprintln(out, "Update complete: cards re-enriched.")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVarP(&updateOutput, "output", "o", "", "where to save the tierlist (default from config)")
	updateCmd.Flags().BoolVar(&updateStdout, "stdout", false, "print the fetched JSON instead of saving it")
}
