// Package enrich joins the user's collection with the tierlist.
//
// Cards are matched on (name, type, rarity). A matched card takes the
// tierlist id, and the score and tier found at its limit break level. The
// source collection is never modified; the result is written to a separate
// file stamped with the hashes of both inputs.
package enrich

import (
	"github.com/goccy/go-json"

	"github.com/arcanaland/umadeck/internal/card"
	"github.com/arcanaland/umadeck/internal/logging"
)

// Enrich returns one enriched card per collection record that matches the
// index. Records without a match are dropped; records whose key fields are
// malformed are passed through unchanged.
func Enrich(records []json.RawMessage, index map[card.Key]card.TierlistCard) []card.EnrichedCard {
	out := make([]card.EnrichedCard, 0, len(records))

	for i, raw := range records {
		var uc card.UserCard
		if err := json.Unmarshal(raw, &uc); err != nil {
			logging.Warn().Int("index", i).Err(err).Msg("skipping enrichment for card with invalid key fields")
			out = append(out, card.Passthrough(raw))
			continue
		}

		tc, ok := index[uc.Key()]
		if !ok {
			logging.Warn().
				Str("name", uc.Name).
				Int("type", int(uc.Type)).
				Int("rarity", int(uc.Rarity)).
				Msg("no tierlist match for card; skipping")
			continue
		}

		out = append(out, enrichOne(uc, tc))
	}
	return out
}

func enrichOne(uc card.UserCard, tc card.TierlistCard) card.EnrichedCard {
	ec := card.FromUser(uc)
	if tc.ID != nil {
		id := *tc.ID
		ec.ID = &id
	}

	lb, ok := uc.LB.Level()
	if !ok {
		logging.Warn().Str("name", uc.Name).Msg("lb is not an integer; skipping score/tier")
		return ec
	}
	if tc.Scores == nil || tc.Tiers == nil {
		logging.Warn().Str("name", uc.Name).Msg("missing or invalid scores/tiers; skipping score/tier")
		return ec
	}
	if lb < 0 || lb >= len(tc.Scores) || lb >= len(tc.Tiers) {
		logging.Warn().
			Str("name", uc.Name).
			Int("lb", lb).
			Int("scores_len", len(tc.Scores)).
			Int("tiers_len", len(tc.Tiers)).
			Msg("lb index out of range; skipping score/tier")
		return ec
	}

	score := tc.Scores[lb]
	ec.Score = &score
	ec.Tier = tc.Tiers[lb]
	return ec
}
