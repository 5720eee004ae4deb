package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/umadeck/internal/card"
	"github.com/arcanaland/umadeck/internal/enrich"
	"github.com/arcanaland/umadeck/internal/logging"
	"github.com/arcanaland/umadeck/internal/recommend"
	"github.com/arcanaland/umadeck/internal/tierlist"
)

var (
	recommendInput     string
	recommendTierlist  string
	recommendBest      bool
	recommendNoSupport bool
	recommendByType    [card.NumTypes]int
)

var typeFlags = [card.NumTypes]string{"speed", "stamina", "power", "guts", "wit", "friend"}

// recommendCmd represents the recommend command
var recommendCmd = &cobra.Command{
	Use:   "recommend [speed stamina power guts wit [friend]]",
	Short: "Recommend the best cards for a deck",
	Long: `Recommend builds a 6-card deck from your enriched collection.

Give the number of cards wanted per type either as positional arguments in the
order speed stamina power guts wit [friend], or with the named flags. When
fewer than 6 cards are requested, the best card to borrow as a support card is
searched in the tierlist and the remaining slots are filled with your best
cards. --best ignores types and takes the top cards overall.

Examples:
  umadeck recommend 2 1 1 1 1
  umadeck recommend --speed 2 --stamina 1 --power 2 --wit 1
  umadeck recommend --best`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		var counts recommend.Counts
		if !recommendBest {
			var err error
			counts, err = countsFromCommand(cmd, args)
			if err != nil {
				return err
			}
			if err := counts.Validate(); err != nil {
				return fmt.Errorf("%w\nexamples:\n  umadeck recommend 2 1 1 1 1\n  umadeck recommend --speed 2 --stamina 1 --power 2 --wit 1\n  umadeck recommend --best", err)
			}
		}

		owned, err := enrich.Load(pathOr(recommendInput, appConfig.EnrichedPath()))
		if err != nil {
			return err
		}

		var tl *tierlist.Tierlist
		if !recommendNoSupport && (recommendBest || counts.Total() < recommend.DeckSize) {
			tl, err = tierlist.Load(pathOr(recommendTierlist, appConfig.TierlistPath()))
			if err != nil {
				logging.Warn().Err(err).Msg("could not find support card")
				tl = nil
			}
		}

		title := "RECOMMENDED DECK"
		var deck recommend.Deck
		if recommendBest {
			title = "RECOMMENDED DECK (BEST CARDS)"
			deck = recommend.Best(owned, tl, !recommendNoSupport)
		} else {
			deck, err = recommend.Recommend(owned, tl, recommend.Options{Counts: counts, Support: !recommendNoSupport})
			if err != nil {
				return err
			}
		}

		if s := deck.Support; s != nil {
			fmt.Fprintf(out, "Found best support card to borrow: %s (%s) (Tier: %s, Score: %d)\n\n", s.Name, s.Type, s.Tier, s.Score)
		}
		if deck.Filled > 0 {
			fmt.Fprintf(out, "Filled %d remaining slot(s) with best available cards\n\n", deck.Filled)
		}
		if n := deck.Size(); n < recommend.DeckSize {
			logging.Warn().Int("found", n).Msgf("only found %d cards total, could not fill all %d slots", n, recommend.DeckSize)
		}

		printDeck(out, title, deck)
		return nil
	},
}

// countsFromCommand reads counts from positional arguments, or from the named
// type flags when there are none.
func countsFromCommand(cmd *cobra.Command, args []string) (recommend.Counts, error) {
	if len(args) > 0 {
		return recommend.ParseCounts(args)
	}
	var counts recommend.Counts
	for t, name := range typeFlags {
		if cmd.Flags().Changed(name) {
			counts[t] = recommendByType[t]
		}
	}
	return counts, nil
}

// formatCard renders one deck line.
func formatCard(c card.EnrichedCard) string {
	parts := []string{
		fmt.Sprintf("%s (%s)", c.Name, c.Type),
		fmt.Sprintf("Score: %d", c.ScoreOrZero()),
	}
	if c.Tier != "" {
		parts = append(parts, "Tier: "+colorTier(c.Tier))
	}
	parts = append(parts, "LB: "+c.LB.String(), "Rarity: "+c.Rarity.String())
	return strings.Join(parts, " | ")
}

func formatSupport(s recommend.Candidate) string {
	parts := []string{
		fmt.Sprintf("%s (%s)", s.Name, s.Type),
		fmt.Sprintf("Score: %d", s.Score),
	}
	if s.Tier != "" {
		parts = append(parts, "Tier: "+colorTier(s.Tier))
	}
	parts = append(parts, color.New(color.FgYellow, color.Bold).Sprint("⭐ SUPPORT CARD"))
	return strings.Join(parts, " | ")
}

func printDeck(out io.Writer, title string, deck recommend.Deck) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFD479"))
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#555555")).
		Padding(0, 1)

	var lines []string
	lines = append(lines, titleStyle.Render(title), "")
	if deck.Support != nil {
		lines = append(lines, formatSupport(*deck.Support), "")
	}
	if len(deck.Cards) == 0 {
		lines = append(lines, "No cards from your collection match the criteria.")
	}
	for _, c := range deck.Cards {
		lines = append(lines, formatCard(c))
	}
	lines = append(lines, "",
		fmt.Sprintf("Total cards: %d", deck.Size()),
		fmt.Sprintf("Combined score: %d", deck.TotalScore()),
	)

	fmt.Fprintln(out, frame.Render(strings.Join(lines, "\n")))
}

func init() {
	RootCmd.AddCommand(recommendCmd)

	for t, name := range typeFlags {
		recommendCmd.Flags().IntVar(&recommendByType[t], name, 0, fmt.Sprintf("number of %s cards to include", card.Type(t)))
	}
	recommendCmd.Flags().BoolVar(&recommendBest, "best", false, "show the best 6 cards available regardless of type")
	recommendCmd.Flags().BoolVar(&recommendNoSupport, "no-support", false, "only use cards from your collection")
	recommendCmd.Flags().StringVarP(&recommendInput, "input", "i", "", "enriched cards file (default from config)")
	recommendCmd.Flags().StringVarP(&recommendTierlist, "tierlist", "t", "", "tierlist file (default from config)")
}
