// Package tierlist loads the precomputed tierlist and indexes it by card key.
package tierlist

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/arcanaland/umadeck/internal/card"
	"github.com/arcanaland/umadeck/internal/jsonfile"
	"github.com/arcanaland/umadeck/internal/logging"
)

var (
	// ErrNotObject is returned when the tierlist file is not a JSON object.
	ErrNotObject = errors.New("expected JSON object")
	// ErrNoCards is returned when the tierlist has no "cards" object.
	ErrNoCards = errors.New("tierlist JSON missing 'cards' object")
)

// Entry is one tierlist card together with the key it was stored under.
type Entry struct {
	Key string
	card.TierlistCard
}

// CardID returns the entry's id, falling back to a numeric map key, then 0.
func (e Entry) CardID() int {
	if e.ID != nil {
		return *e.ID
	}
	if n, err := strconv.Atoi(e.Key); err == nil {
		return n
	}
	return 0
}

// Tierlist holds the well-formed entries of a tierlist file in key order.
type Tierlist struct {
	Entries []Entry
}

// Load reads the tierlist at path.
func Load(path string) (*Tierlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", jsonfile.ErrNotFound, path)
		}
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes tierlist data. name is only used in error messages.
func Parse(name string, data []byte) (*Tierlist, error) {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("failed to parse JSON from %s", name)
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w in %s", ErrNotObject, name)
	}

	var top struct {
		Cards json.RawMessage `json:"cards"`
	}
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return nil, fmt.Errorf("failed to parse JSON from %s: %w", name, err)
	}
	cards := bytes.TrimSpace(top.Cards)
	if len(cards) == 0 || cards[0] != '{' {
		return nil, fmt.Errorf("%w in %s", ErrNoCards, name)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(cards, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse cards in %s: %w", name, err)
	}

	t := &Tierlist{Entries: make([]Entry, 0, len(raw))}
	for _, k := range SortedKeys(raw) {
		tc, err := decodeCard(raw[k])
		if err != nil {
			logging.Debug().Str("key", k).Err(err).Msg("skipping malformed tierlist entry")
			continue
		}
		t.Entries = append(t.Entries, Entry{Key: k, TierlistCard: tc})
	}
	return t, nil
}

// SortedKeys orders numeric keys numerically, followed by the rest
// lexicographically.
func SortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

type entryFields struct {
	ID     json.RawMessage `json:"id"`
	Name   *string         `json:"name"`
	Type   *int            `json:"type"`
	Rarity *int            `json:"rarity"`
	Scores json.RawMessage `json:"scores"`
	Tiers  json.RawMessage `json:"tiers"`
}

// decodeCard requires name, type and rarity. id, scores and tiers are left
// unset when missing or of the wrong shape.
func decodeCard(raw json.RawMessage) (card.TierlistCard, error) {
	var f entryFields
	if err := json.Unmarshal(raw, &f); err != nil {
		return card.TierlistCard{}, err
	}
	if f.Name == nil || f.Type == nil || f.Rarity == nil {
		return card.TierlistCard{}, card.ErrMissingField
	}

	tc := card.TierlistCard{
		Name:   *f.Name,
		Type:   card.Type(*f.Type),
		Rarity: card.Rarity(*f.Rarity),
	}
	var id int
	if len(f.ID) > 0 && json.Unmarshal(f.ID, &id) == nil {
		tc.ID = &id
	}
	var scores []int
	if len(f.Scores) > 0 && json.Unmarshal(f.Scores, &scores) == nil && scores != nil {
		tc.Scores = scores
	}
	var tiers []string
	if len(f.Tiers) > 0 && json.Unmarshal(f.Tiers, &tiers) == nil && tiers != nil {
		tc.Tiers = tiers
	}
	return tc, nil
}

// Index maps each card key to its first entry. Later duplicates are logged and
// ignored.
func (t *Tierlist) Index() map[card.Key]card.TierlistCard {
	index := make(map[card.Key]card.TierlistCard, len(t.Entries))
	for _, e := range t.Entries {
		k := e.TierlistCard.Key()
		if _, dup := index[k]; dup {
			logging.Warn().
				Str("name", k.Name).
				Int("type", int(k.Type)).
				Int("rarity", int(k.Rarity)).
				Msg("duplicate tierlist entry; ignoring later one")
			continue
		}
		index[k] = e.TierlistCard
	}
	return index
}

// Find returns the entries named name, optionally narrowed by type and rarity.
func (t *Tierlist) Find(name string, typ *card.Type, rarity *card.Rarity) []Entry {
	var out []Entry
	for _, e := range t.Entries {
		if e.Name != name {
			continue
		}
		if typ != nil && e.Type != *typ {
			continue
		}
		if rarity != nil && e.Rarity != *rarity {
			continue
		}
		out = append(out, e)
	}
	return out
}
