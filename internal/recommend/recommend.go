// Package recommend builds a six-card deck from an enriched collection.
//
// Owned cards are picked greedily per type by score. When fewer than six
// cards are requested, the best borrowable tierlist card of every type is
// tried as a support card and the substitution giving the highest total tier
// value (then total score) wins. Remaining slots are backfilled with the best
// scored owned cards.
package recommend

import (
	"sort"

	"github.com/arcanaland/umadeck/internal/card"
	"github.com/arcanaland/umadeck/internal/tierlist"
)

// Deck is a recommendation: an optional borrowed support card and the owned
// cards picked around it.
type Deck struct {
	Support *Candidate
	Cards   []card.EnrichedCard
	// Filled counts owned cards added by backfill when no support card is
	// used.
	Filled int
}

// Size returns the number of cards in the deck, support included.
func (d Deck) Size() int {
	n := len(d.Cards)
	if d.Support != nil {
		n++
	}
	return n
}

// TotalScore sums the scores of every card in the deck.
func (d Deck) TotalScore() int {
	total := 0
	if d.Support != nil {
		total += d.Support.Score
	}
	for _, c := range d.Cards {
		total += c.ScoreOrZero()
	}
	return total
}

// TierValue sums the tier values of every card in the deck.
func (d Deck) TierValue() int {
	total := 0
	if d.Support != nil {
		total += card.TierValue(d.Support.Tier)
	}
	for _, c := range d.Cards {
		total += card.TierValue(c.Tier)
	}
	return total
}

// Options configures Recommend.
type Options struct {
	Counts Counts
	// Support enables the borrowed support card search.
	Support bool
}

// Recommend builds a deck honouring opts.Counts. tl may be nil when no
// tierlist is available, in which case no support card is used.
func Recommend(owned []card.EnrichedCard, tl *tierlist.Tierlist, opts Options) (Deck, error) {
	if err := opts.Counts.Validate(); err != nil {
		return Deck{}, err
	}

	if opts.Support && tl != nil && opts.Counts.Total() < DeckSize {
		if deck, ok := bestSubstitution(owned, tl, opts.Counts); ok {
			return deck, nil
		}
	}

	p := newPicker(owned, nil)
	p.byType(opts.Counts)
	filled := p.backfill(DeckSize)
	return Deck{Cards: p.cards(), Filled: filled}, nil
}

// bestSubstitution tries every borrowable candidate in the slot of its type
// and keeps the deck with the highest tier value, then score.
func bestSubstitution(owned []card.EnrichedCard, tl *tierlist.Tierlist, counts Counts) (Deck, bool) {
	var best Deck
	found := false

	for _, cand := range orderedCandidates(BorrowCandidates(tl, owned)) {
		sim := counts
		if cand.Type.Valid() && sim[cand.Type] > 0 {
			sim[cand.Type]--
		}

		id := cand.ID
		p := newPicker(owned, &id)
		p.byType(sim)
		p.backfill(DeckSize - 1)

		c := cand
		deck := Deck{Support: &c, Cards: p.cards()}
		if !found || better(deck, best) {
			best, found = deck, true
		}
	}
	return best, found
}

func better(a, b Deck) bool {
	av, bv := a.TierValue(), b.TierValue()
	return av > bv || (av == bv && a.TotalScore() > b.TotalScore())
}

// Best returns the strongest support card (when support is set) plus the
// top scored owned cards regardless of type.
func Best(owned []card.EnrichedCard, tl *tierlist.Tierlist, support bool) Deck {
	var deck Deck
	var exclude *int
	if support && tl != nil {
		if cand, ok := BestCandidate(BorrowCandidates(tl, owned)); ok {
			deck.Support = &cand
			exclude = &cand.ID
		}
	}

	p := newPicker(owned, exclude)
	want := DeckSize
	if deck.Support != nil {
		want--
	}
	p.backfill(want)
	deck.Cards = p.cards()
	return deck
}

// picker selects owned cards, never taking the same card or card id twice.
type picker struct {
	owned    []card.EnrichedCard
	exclude  *int
	picked   []int
	takenIdx map[int]bool
	takenID  map[int]bool
}

func newPicker(owned []card.EnrichedCard, exclude *int) *picker {
	return &picker{
		owned:    owned,
		exclude:  exclude,
		takenIdx: make(map[int]bool),
		takenID:  make(map[int]bool),
	}
}

func (p *picker) available(i int) bool {
	if p.takenIdx[i] {
		return false
	}
	c := p.owned[i]
	if c.ID == nil {
		return true
	}
	if p.exclude != nil && *c.ID == *p.exclude {
		return false
	}
	return !p.takenID[*c.ID]
}

func (p *picker) take(i int) {
	p.picked = append(p.picked, i)
	p.takenIdx[i] = true
	if id := p.owned[i].ID; id != nil {
		p.takenID[*id] = true
	}
}

// byScore returns the indices of available owned cards matching keep, best
// score first. Ties keep collection order.
func (p *picker) byScore(keep func(card.EnrichedCard) bool) []int {
	var idx []int
	for i, c := range p.owned {
		if keep(c) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return p.owned[idx[a]].ScoreOrZero() > p.owned[idx[b]].ScoreOrZero()
	})
	return idx
}

// byType takes up to counts[t] of the best owned cards of each type t.
func (p *picker) byType(counts Counts) {
	for t, want := range counts {
		typ := card.Type(t)
		for _, i := range p.byScore(func(c card.EnrichedCard) bool { return c.Type == typ }) {
			if want == 0 {
				break
			}
			if !p.available(i) {
				continue
			}
			p.take(i)
			want--
		}
	}
}

// backfill adds the best remaining scored cards until size cards are picked
// and returns how many it added.
func (p *picker) backfill(size int) int {
	added := 0
	for _, i := range p.byScore(card.EnrichedCard.HasScore) {
		if len(p.picked) >= size {
			break
		}
		if !p.available(i) {
			continue
		}
		p.take(i)
		added++
	}
	return added
}

func (p *picker) cards() []card.EnrichedCard {
	out := make([]card.EnrichedCard, len(p.picked))
	for n, i := range p.picked {
		out[n] = p.owned[i]
	}
	return out
}
