package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arcanaland/umadeck/internal/enrich"
	"github.com/arcanaland/umadeck/internal/report"
)

var (
	visualizeInput  string
	visualizeOutput string
	visualizeStdout bool
	visualizeRender bool
)

// visualizeCmd represents the visualize command
var visualizeCmd = &cobra.Command{
	Use:   "visualize",
	Short: "Generate a Markdown overview of your enriched cards",
	Long: `Visualize writes a Markdown report of your enriched collection: one table per
card type sorted by score, followed by a table of every card.

With --stdout the report is printed instead, and only written to a file when
--output is given explicitly. --render formats the printed report for the
terminal.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		cards, err := enrich.Load(pathOr(visualizeInput, appConfig.EnrichedPath()))
		if err != nil {
			return err
		}
		markdown := report.Markdown(cards)

		if !visualizeStdout || cmd.Flags().Changed("output") {
			path := pathOr(visualizeOutput, appConfig.VisualizationPath())
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("error creating output directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
				return fmt.Errorf("failed to write output file %s: %w", path, err)
			}
			fmt.Fprintf(out, "Visualization written to %s\n", path)
		}

		if visualizeStdout {
			if visualizeRender {
				rendered, err := report.Render(markdown, terminalWidth())
				if err != nil {
					return err
				}
				fmt.Fprint(out, rendered)
				return nil
			}
			fmt.Fprintln(out, markdown)
		}
		return nil
	},
}

// terminalWidth returns the width of stdout, or 80 when it is not a terminal.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func init() {
	RootCmd.AddCommand(visualizeCmd)

	visualizeCmd.Flags().StringVarP(&visualizeInput, "input", "i", "", "enriched cards file (default from config)")
	visualizeCmd.Flags().StringVarP(&visualizeOutput, "output", "o", "", "Markdown output file (default from config)")
	visualizeCmd.Flags().BoolVar(&visualizeStdout, "stdout", false, "print the report to stdout")
	visualizeCmd.Flags().BoolVar(&visualizeRender, "render", false, "render the printed report for the terminal")
}
