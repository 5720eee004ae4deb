package cmd

import (
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/umadeck/internal/enrich"
)

var (
	enrichInput    string
	enrichTierlist string
	enrichOutput   string
	enrichStdout   bool
	enrichForce    bool
	enrichPretty   bool
)

// enrichCmd represents the enrich command
var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Add tierlist scores and tiers to your card collection",
	Long: `Enrich joins your collection with the precomputed tierlist and writes the
enriched cards, with the score and tier for each card's limit break.

The output records a hash of both inputs. When neither input changed since the
last run, nothing is written unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := enrich.Options{
			Input:    pathOr(enrichInput, appConfig.CollectionPath()),
			Tierlist: pathOr(enrichTierlist, appConfig.TierlistPath()),
			Output:   pathOr(enrichOutput, appConfig.EnrichedPath()),
			Force:    enrichForce,
			Pretty:   enrichPretty,
		}
		msgOut := cmd.OutOrStdout()
		if enrichStdout {
			// Keep stdout parseable when the JSON goes there.
			opts.Stdout = cmd.OutOrStdout()
			msgOut = cmd.ErrOrStderr()
		}
		return runEnrich(msgOut, opts)
	},
}

// runEnrich runs the enrichment and reports the outcome on out.
func runEnrich(out io.Writer, opts enrich.Options) error {
	status, err := enrich.Run(opts)
	if err != nil {
		return err
	}
	switch status {
	case enrich.UpToDate:
		color.New(color.FgYellow).Fprintln(out, "Enriched data is already up to date. Use --force to re-enrich.")
	default:
		color.New(color.FgGreen).Fprintf(out, "Successfully enriched cards and saved to %s\n", opts.Output)
	}
	return nil
}

func init() {
	RootCmd.AddCommand(enrichCmd)

	enrichCmd.Flags().StringVarP(&enrichInput, "input", "i", "", "collection file (default from config)")
	enrichCmd.Flags().StringVarP(&enrichTierlist, "tierlist", "t", "", "tierlist file (default from config)")
	enrichCmd.Flags().StringVarP(&enrichOutput, "output", "o", "", "enriched output file (default from config)")
	enrichCmd.Flags().BoolVar(&enrichStdout, "stdout", false, "also print the enriched JSON to stdout")
	enrichCmd.Flags().BoolVarP(&enrichForce, "force", "f", false, "re-enrich even if the inputs are unchanged")
	enrichCmd.Flags().BoolVar(&enrichPretty, "pretty", false, "indent the output JSON")
}
