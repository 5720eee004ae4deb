package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/arcanaland/umadeck/internal/card"
	"github.com/arcanaland/umadeck/internal/collection"
	"github.com/arcanaland/umadeck/internal/jsonfile"
	"github.com/arcanaland/umadeck/internal/tierlist"
)

var (
	showType     string
	showRarity   string
	showInput    string
	showTierlist string
)

var showCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Display a card's score and tier at every limit break",
	Long: `Show looks up a card in the tierlist and prints its score and tier for each
limit break level. If you own the card, your current limit break is highlighted.

Use --type and --rarity to pick one card when several share a name.

Examples:
  umadeck show "Kitasan Black"
  umadeck show "Super Creek" --type sta --rarity SSR`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		var typ *card.Type
		if showType != "" {
			t, err := card.ParseType(showType)
			if err != nil {
				return err
			}
			typ = &t
		}
		var rarity *card.Rarity
		if showRarity != "" {
			r, err := card.ParseRarity(showRarity)
			if err != nil {
				return err
			}
			rarity = &r
		}

		tl, err := tierlist.Load(pathOr(showTierlist, appConfig.TierlistPath()))
		if err != nil {
			return fmt.Errorf("error loading tierlist: %w", err)
		}
		entries := tl.Find(name, typ, rarity)
		if len(entries) == 0 {
			return fmt.Errorf("card not found in tierlist: %s", name)
		}

		coll, err := collection.Load(pathOr(showInput, appConfig.CollectionPath()))
		if err != nil && !errors.Is(err, jsonfile.ErrNotFound) {
			return err
		}

		width := terminalWidth()
		for _, e := range entries {
			owned := -1
			if coll != nil {
				if _, uc, ok := coll.Find(e.TierlistCard.Key()); ok {
					if lb, valid := uc.LB.Level(); valid {
						owned = lb
					}
				}
			}
			displayCard(cmd.OutOrStdout(), e, owned, width)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVar(&showType, "type", "", "card type: spd, sta, pow, gut, wit, fri (or 0-5)")
	showCmd.Flags().StringVar(&showRarity, "rarity", "", "card rarity: R, SR, SSR (or 1-3)")
	showCmd.Flags().StringVarP(&showInput, "input", "i", "", "collection file (default from config)")
	showCmd.Flags().StringVarP(&showTierlist, "tierlist", "t", "", "tierlist file (default from config)")
}

// ansiColorString formats a character with truecolor foreground and
// background codes
func ansiColorString(char rune, fg, bg colorful.Color) string {
	r1, g1, b1 := fg.RGB255()
	r2, g2, b2 := bg.RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c\x1b[0m",
		r1, g1, b1, r2, g2, b2, char)
}

// colorTier paints a tier label in its gradient colour
func colorTier(tier string) string {
	if colorize.NoColor {
		return tier
	}
	r, g, b := card.TierColor(tier).RGB255()
	return fmt.Sprintf("\x1b[1;38;2;%d;%d;%dm%s\x1b[0m", r, g, b, tier)
}

// tierBadge draws a block in the tier's colour with the tier in the middle
func tierBadge(tier string) []string {
	const badgeWidth = 10

	label := tier
	if label == "" {
		label = "?"
	}
	if colorize.NoColor {
		return []string{fmt.Sprintf("[ %-3s]", label)}
	}

	c := card.TierColor(tier)
	dark := c.BlendHcl(colorful.Color{}, 0.35).Clamped()
	textColor := colorful.Color{R: 1, G: 1, B: 1}

	var top, mid, bottom strings.Builder
	pad := (badgeWidth - len(label)) / 2
	for x := 0; x < badgeWidth; x++ {
		top.WriteString(ansiColorString('▄', c, colorful.Color{}))
		bottom.WriteString(ansiColorString('▀', dark, colorful.Color{}))
		ch := ' '
		if x >= pad && x < pad+len(label) {
			ch = rune(label[x-pad])
		}
		mid.WriteString(ansiColorString(ch, textColor, c))
	}
	return []string{top.String(), mid.String(), bottom.String()}
}

// bestTier is the tier shown on the badge: the owned limit break's tier, or
// the highest level's when the card is not owned.
func bestTier(e tierlist.Entry, owned int) string {
	if len(e.Tiers) == 0 {
		return ""
	}
	if owned >= 0 && owned < len(e.Tiers) {
		return e.Tiers[owned]
	}
	return e.Tiers[len(e.Tiers)-1]
}

// wrapText wraps text to a specified width
func wrapText(text string, width int) []string {
	if width < 10 {
		width = 40
	}

	var result []string
	var currentLine string
	words := strings.Fields(text)

	if len(words) == 0 {
		return []string{""}
	}

	for _, word := range words {
		if len(currentLine) == 0 {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			result = append(result, currentLine)
			currentLine = word
		}
	}

	if currentLine != "" {
		result = append(result, currentLine)
	}

	return result
}

// displayCard prints the tier badge on the left and card details on the right
func displayCard(out io.Writer, e tierlist.Entry, owned, width int) {
	badge := tierBadge(bestTier(e, owned))
	badgeWidth := 0
	for _, line := range badge {
		badgeWidth = max(badgeWidth, len([]rune(stripAnsi(line))))
	}

	spacing := 4
	infoStartCol := badgeWidth + spacing
	infoWidth := width - infoStartCol - 2
	if infoWidth < 20 {
		infoWidth = 20
	}

	label := colorize.CyanString
	value := colorize.HiWhiteString

	var infoLines []string
	for i, line := range wrapText(e.Name, infoWidth-8) {
		prefix := "        "
		if i == 0 {
			prefix = label("Card:   ")
		}
		infoLines = append(infoLines, prefix+value("%s", line))
	}
	infoLines = append(infoLines, label("Type:   ")+value("%s", e.Type))
	infoLines = append(infoLines, label("Rarity: ")+value("%s", e.Rarity))
	infoLines = append(infoLines, label("ID:     ")+value("%d", e.CardID()))
	if owned >= 0 {
		infoLines = append(infoLines, label("Owned:  ")+value("LB %s", card.NewLimitBreak(owned)))
	} else {
		infoLines = append(infoLines, label("Owned:  ")+colorize.HiBlackString("not owned"))
	}

	infoLines = append(infoLines, "")
	levels := max(len(e.Scores), len(e.Tiers))
	if levels == 0 {
		infoLines = append(infoLines, colorize.HiBlackString("No scores in the tierlist."))
	}
	for lb := 0; lb < levels; lb++ {
		score, tier := "-", "?"
		if lb < len(e.Scores) {
			score = fmt.Sprint(e.Scores[lb])
		}
		if lb < len(e.Tiers) {
			tier = e.Tiers[lb]
		}
		line := fmt.Sprintf("%-4s Score: %5s  Tier: %s", card.NewLimitBreak(lb).String(), score, colorTier(tier))
		if lb == owned {
			line = colorize.New(colorize.Bold).Sprint("▶ "+line) + colorize.YellowString("  (owned)")
		} else {
			line = "  " + line
		}
		infoLines = append(infoLines, line)
	}

	fmt.Fprintln(out)
	maxLines := max(len(badge), len(infoLines))
	for i := 0; i < maxLines; i++ {
		fmt.Fprint(out, "  ")
		if i < len(badge) {
			fmt.Fprint(out, badge[i])
			visibleWidth := len([]rune(stripAnsi(badge[i])))
			fmt.Fprint(out, strings.Repeat(" ", infoStartCol-visibleWidth))
		} else {
			fmt.Fprint(out, strings.Repeat(" ", infoStartCol))
		}
		if i < len(infoLines) {
			fmt.Fprint(out, infoLines[i])
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out)
}

// stripAnsi removes ANSI escape sequences from a string
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, c := range s {
		if inEscape {
			if c == 'm' {
				inEscape = false
			}
		} else if c == '\033' {
			inEscape = true
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}
