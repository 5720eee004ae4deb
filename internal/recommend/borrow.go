package recommend

import (
	"sort"

	"github.com/arcanaland/umadeck/internal/card"
	"github.com/arcanaland/umadeck/internal/tierlist"
)

// Candidate is a tierlist card that can be borrowed as the support card.
// Score is the card's best score and Tier its tier at the last limit break.
type Candidate struct {
	ID    int
	Name  string
	Type  card.Type
	Score int
	Tier  string
}

// beats orders candidates by tier value, then score.
func (c Candidate) beats(o Candidate) bool {
	cv, ov := card.TierValue(c.Tier), card.TierValue(o.Tier)
	return cv > ov || (cv == ov && c.Score > o.Score)
}

// BorrowCandidates returns the best borrowable card of each type: tierlist
// entries the user does not already own at MLB, compared by tier then score.
func BorrowCandidates(tl *tierlist.Tierlist, owned []card.EnrichedCard) map[card.Type]Candidate {
	mlb := make(map[int]bool)
	for _, c := range owned {
		if c.ID != nil && c.LB.IsMax() {
			mlb[*c.ID] = true
		}
	}

	best := make(map[card.Type]Candidate)
	if tl == nil {
		return best
	}
	for _, e := range tl.Entries {
		id := e.CardID()
		if mlb[id] {
			continue
		}
		if len(e.Scores) == 0 || len(e.Tiers) == 0 {
			continue
		}

		cand := Candidate{
			ID:    id,
			Name:  e.Name,
			Type:  e.Type,
			Score: maxInt(e.Scores),
			Tier:  e.Tiers[len(e.Tiers)-1],
		}
		if cur, ok := best[cand.Type]; !ok || cand.beats(cur) {
			best[cand.Type] = cand
		}
	}
	return best
}

// BestCandidate picks the strongest candidate across all types.
func BestCandidate(cands map[card.Type]Candidate) (Candidate, bool) {
	var best Candidate
	found := false
	for _, cand := range orderedCandidates(cands) {
		if !found || cand.beats(best) {
			best, found = cand, true
		}
	}
	return best, found
}

// orderedCandidates returns the candidates in type order.
func orderedCandidates(cands map[card.Type]Candidate) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

func maxInt(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
