package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/umadeck/internal/card"
	"github.com/arcanaland/umadeck/internal/collection"
)

var addInput string

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add NAME TYPE RARITY",
	Short: "Add a new card to your collection or increase its limit break",
	Long: `Add appends a card to your collection with limit break 0, or increases the
limit break of a card you already own. Cards at max limit break are left alone.

TYPE is one of spd, sta, pow, gut, wit, fri (or 0-5).
RARITY is one of R, SR, SSR (or 1-3).

Examples:
  umadeck add "Kitasan Black" spd SSR
  umadeck add "Super Creek" 1 3`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := card.ParseType(args[1])
		if err != nil {
			return err
		}
		rarity, err := card.ParseRarity(args[2])
		if err != nil {
			return err
		}

		path := pathOr(addInput, appConfig.CollectionPath())
		c, err := collection.Load(path)
		if err != nil {
			return err
		}

		res, err := c.Add(card.Key{Name: args[0], Type: typ, Rarity: rarity})
		if err != nil {
			return err
		}
		if res.Action != collection.AlreadyMax {
			if err := c.Save(path); err != nil {
				return fmt.Errorf("error saving collection: %w", err)
			}
		}

		msg := color.New(color.FgGreen)
		if res.Action == collection.AlreadyMax {
			msg = color.New(color.FgYellow)
		}
		msg.Fprintln(cmd.OutOrStdout(), res.Message())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addInput, "input", "i", "", "collection file (default from config)")
}
