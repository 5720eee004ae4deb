package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/umadeck/internal/validator"
)

// ErrValidationFailed is returned when validation finds errors.
var ErrValidationFailed = errors.New("validation failed")

var (
	validateInput    string
	validateTierlist string
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the collection and tierlist files",
	Long: `Validate checks that your collection and the tierlist are well formed.
It reports records with missing or out-of-range fields as errors, and
duplicate cards, unknown tiers and owned cards missing from the tierlist as
warnings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		collectionPath := pathOr(validateInput, appConfig.CollectionPath())
		tierlistPath := pathOr(validateTierlist, appConfig.TierlistPath())

		v := validator.NewValidator(collectionPath, tierlistPath)
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		fmt.Fprintln(out, "Validation Results:")
		fmt.Fprintln(out, "-------------------")

		if results.Valid() {
			color.New(color.FgGreen).Fprintf(out, "✅ Files are valid:\n  %s\n  %s\n", collectionPath, tierlistPath)
		} else {
			color.New(color.FgRed).Fprintf(out, "❌ Found %d validation errors:\n", len(results.Errors))
			for i, err := range results.Errors {
				fmt.Fprintf(out, "%d. %s\n", i+1, err)
			}
		}

		if len(results.Warnings) > 0 {
			color.New(color.FgYellow).Fprintln(out, "\nWarnings:")
			for i, warn := range results.Warnings {
				fmt.Fprintf(out, "%d. %s\n", i+1, warn)
			}
		}

		if !results.Valid() {
			return ErrValidationFailed
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "collection file (default from config)")
	validateCmd.Flags().StringVarP(&validateTierlist, "tierlist", "t", "", "tierlist file (default from config)")
}
