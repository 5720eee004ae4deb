// Package report renders an enriched collection as Markdown.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arcanaland/umadeck/internal/card"
)

// Title is the first line of every report.
const Title = "# Uma Musume Card Collection"

// Markdown groups cards by type, each table sorted by score, and ends with a
// table of all cards by score.
func Markdown(cards []card.EnrichedCard) string {
	byType := make(map[card.Type][]card.EnrichedCard)
	for _, c := range cards {
		byType[c.Type] = append(byType[c.Type], c)
	}

	types := make([]card.Type, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	var b strings.Builder
	b.WriteString(Title)
	b.WriteString("\n")

	for _, t := range types {
		group := sortedByScore(byType[t])
		fmt.Fprintf(&b, "\n## %s\n\n", sectionName(t))
		b.WriteString("| Tier | Score | Name | LB | Rarity |\n")
		b.WriteString("|------|-------|------|----:|-------:|\n")
		for _, c := range group {
			fmt.Fprintf(&b, "| %s | %d | %s | %s | %s |\n", tierCell(c), c.ScoreOrZero(), escape(c.Name), c.LB, c.Rarity)
		}
	}

	b.WriteString("\n## All Cards (by Score)\n\n")
	b.WriteString("| Tier | Score | Name | Type | LB | Rarity |\n")
	b.WriteString("|------|-------|------|------|----:|-------:|\n")
	for _, c := range sortedByScore(cards) {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n", tierCell(c), c.ScoreOrZero(), escape(c.Name), c.Type, c.LB, c.Rarity)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func sectionName(t card.Type) string {
	if t.Valid() {
		return t.String()
	}
	return fmt.Sprintf("Unknown Type %d", int(t))
}

func sortedByScore(cards []card.EnrichedCard) []card.EnrichedCard {
	out := append([]card.EnrichedCard(nil), cards...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScoreOrZero() > out[j].ScoreOrZero()
	})
	return out
}

func tierCell(c card.EnrichedCard) string {
	if c.Tier == "" {
		return "?"
	}
	return c.Tier
}

// escape keeps card names from breaking table cells.
func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
