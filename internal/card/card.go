package card

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// MaxLimitBreak is the fully upgraded (MLB) limit break level.
const MaxLimitBreak = 4

// ErrMissingField is returned when a card record lacks one of its key fields.
var ErrMissingField = errors.New("missing required field")

// Type is the training category a support card belongs to.
type Type int

const (
	Speed Type = iota
	Stamina
	Power
	Guts
	Wit
	Friend
)

// NumTypes is the number of card types.
const NumTypes = 6

var typeNames = [NumTypes]string{"Speed", "Stamina", "Power", "Guts", "Wit", "Friend"}

var typeAbbrevs = map[string]Type{
	"spd": Speed,
	"sta": Stamina,
	"pow": Power,
	"gut": Guts,
	"wit": Wit,
	"fri": Friend,
}

// Valid reports whether t is one of the six known types.
func (t Type) Valid() bool {
	return t >= Speed && t <= Friend
}

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type %d", int(t))
}

// ParseType accepts spd/sta/pow/gut/wit/fri (any case) or a digit 0-5.
func ParseType(s string) (Type, error) {
	if t, ok := typeAbbrevs[strings.ToLower(s)]; ok {
		return t, nil
	}
	if n, err := strconv.Atoi(s); err == nil && Type(n).Valid() {
		return Type(n), nil
	}
	return 0, fmt.Errorf("invalid type %q: use spd, sta, pow, gut, wit, fri, or 0-5", s)
}

// Rarity is R, SR or SSR.
type Rarity int

const (
	R   Rarity = 1
	SR  Rarity = 2
	SSR Rarity = 3
)

// Valid reports whether r is R, SR or SSR.
func (r Rarity) Valid() bool {
	return r >= R && r <= SSR
}

func (r Rarity) String() string {
	switch r {
	case R:
		return "R"
	case SR:
		return "SR"
	case SSR:
		return "SSR"
	default:
		return strconv.Itoa(int(r))
	}
}

// ParseRarity accepts R/SR/SSR (any case) or a digit 1-3.
func ParseRarity(s string) (Rarity, error) {
	switch strings.ToUpper(s) {
	case "R", "1":
		return R, nil
	case "SR", "2":
		return SR, nil
	case "SSR", "3":
		return SSR, nil
	}
	return 0, fmt.Errorf("invalid rarity %q: use R, SR, SSR, or 1, 2, 3", s)
}

// Key identifies a card across the collection and the tierlist.
type Key struct {
	Name   string
	Type   Type
	Rarity Rarity
}

func (k Key) String() string {
	return fmt.Sprintf("(name=%q, type=%d, rarity=%d)", k.Name, int(k.Type), int(k.Rarity))
}

// LimitBreak is a card's limit break level. A stored value that is not a JSON
// integer is kept verbatim so it survives a rewrite, but has no level.
type LimitBreak struct {
	level int
	ok    bool
	raw   json.RawMessage
}

// NewLimitBreak returns a valid limit break at level n.
func NewLimitBreak(n int) LimitBreak {
	return LimitBreak{level: n, ok: true}
}

// Level returns the level and whether it is a usable integer.
func (lb LimitBreak) Level() (int, bool) {
	return lb.level, lb.ok
}

// IsMax reports whether the card is at MLB.
func (lb LimitBreak) IsMax() bool {
	return lb.ok && lb.level >= MaxLimitBreak
}

func (lb LimitBreak) String() string {
	switch {
	case !lb.ok:
		if lb.raw != nil {
			return string(lb.raw)
		}
		return "?"
	case lb.level == MaxLimitBreak:
		return "MLB"
	default:
		return strconv.Itoa(lb.level)
	}
}

func (lb LimitBreak) MarshalJSON() ([]byte, error) {
	if lb.ok {
		return []byte(strconv.Itoa(lb.level)), nil
	}
	if lb.raw != nil {
		return lb.raw, nil
	}
	return []byte("null"), nil
}

func (lb *LimitBreak) UnmarshalJSON(data []byte) error {
	*lb = LimitBreak{}
	if string(data) == "null" {
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		lb.raw = append(json.RawMessage(nil), data...)
		return nil
	}
	lb.level, lb.ok = n, true
	return nil
}

// UserCard is one entry of the user's collection file.
type UserCard struct {
	Name   string     `json:"name"`
	Type   Type       `json:"type"`
	Rarity Rarity     `json:"rarity"`
	LB     LimitBreak `json:"lb"`
}

// Key returns the card's identity key.
func (c UserCard) Key() Key {
	return Key{Name: c.Name, Type: c.Type, Rarity: c.Rarity}
}

type userCardFields struct {
	Name   *string    `json:"name"`
	Type   *int       `json:"type"`
	Rarity *int       `json:"rarity"`
	LB     LimitBreak `json:"lb"`
}

// UnmarshalJSON requires name, type and rarity to be present with the right
// JSON types. The limit break is decoded leniently.
func (c *UserCard) UnmarshalJSON(data []byte) error {
	var f userCardFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	switch {
	case f.Name == nil:
		return fmt.Errorf("%w: name", ErrMissingField)
	case f.Type == nil:
		return fmt.Errorf("%w: type", ErrMissingField)
	case f.Rarity == nil:
		return fmt.Errorf("%w: rarity", ErrMissingField)
	}
	*c = UserCard{Name: *f.Name, Type: Type(*f.Type), Rarity: Rarity(*f.Rarity), LB: f.LB}
	return nil
}

// TierlistCard is a reference entry from the precomputed tierlist. Scores and
// Tiers are indexed by limit break level.
type TierlistCard struct {
	ID     *int     `json:"id,omitempty"`
	Name   string   `json:"name"`
	Type   Type     `json:"type"`
	Rarity Rarity   `json:"rarity"`
	Scores []int    `json:"scores,omitempty"`
	Tiers  []string `json:"tiers,omitempty"`
}

// Key returns the entry's identity key.
func (c TierlistCard) Key() Key {
	return Key{Name: c.Name, Type: c.Type, Rarity: c.Rarity}
}

// EnrichedCard is a UserCard with the id, score and tier found for it in the
// tierlist. A record whose key fields could not be decoded is carried as raw
// JSON and written back unchanged.
type EnrichedCard struct {
	Name   string     `json:"name"`
	Type   Type       `json:"type"`
	Rarity Rarity     `json:"rarity"`
	LB     LimitBreak `json:"lb"`
	ID     *int       `json:"id,omitempty"`
	Score  *int       `json:"score,omitempty"`
	Tier   string     `json:"tier,omitempty"`

	raw json.RawMessage
}

// FromUser starts an enriched card from a collection entry.
func FromUser(c UserCard) EnrichedCard {
	return EnrichedCard{Name: c.Name, Type: c.Type, Rarity: c.Rarity, LB: c.LB}
}

// Passthrough wraps a record that could not be decoded.
func Passthrough(raw json.RawMessage) EnrichedCard {
	return EnrichedCard{raw: append(json.RawMessage(nil), raw...)}
}

// IsPassthrough reports whether the card only carries an undecodable record.
func (c EnrichedCard) IsPassthrough() bool {
	return c.raw != nil
}

// Key returns the card's identity key.
func (c EnrichedCard) Key() Key {
	return Key{Name: c.Name, Type: c.Type, Rarity: c.Rarity}
}

// HasScore reports whether enrichment assigned a score.
func (c EnrichedCard) HasScore() bool {
	return c.Score != nil
}

// ScoreOrZero returns the score, or 0 when the card has none.
func (c EnrichedCard) ScoreOrZero() int {
	if c.Score == nil {
		return 0
	}
	return *c.Score
}

type enrichedAlias EnrichedCard

func (c EnrichedCard) MarshalJSON() ([]byte, error) {
	if c.raw != nil {
		return c.raw, nil
	}
	return json.Marshal(enrichedAlias(c))
}

type enrichedExtras struct {
	ID    *int   `json:"id"`
	Score *int   `json:"score"`
	Tier  string `json:"tier"`
}

func (c *EnrichedCard) UnmarshalJSON(data []byte) error {
	var u UserCard
	if err := json.Unmarshal(data, &u); err != nil {
		return err
	}
	var x enrichedExtras
	if err := json.Unmarshal(data, &x); err != nil {
		return err
	}
	*c = FromUser(u)
	c.ID, c.Score, c.Tier = x.ID, x.Score, x.Tier
	return nil
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}
