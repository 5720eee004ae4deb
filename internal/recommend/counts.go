package recommend

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/arcanaland/umadeck/internal/card"
)

// DeckSize is the number of cards in a deck, support card included.
const DeckSize = 6

// ErrUsage marks invalid count input.
var ErrUsage = errors.New("invalid card counts")

// Counts is the number of cards wanted per type, indexed by card.Type.
type Counts [card.NumTypes]int

// Total returns the sum of all counts.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Validate checks that counts are non-negative and add up to 1..DeckSize.
func (c Counts) Validate() error {
	for t, n := range c {
		if n < 0 {
			return fmt.Errorf("%w: negative count %d for %s", ErrUsage, n, card.Type(t))
		}
	}
	total := c.Total()
	if total == 0 {
		return fmt.Errorf("%w: you must specify at least one card type", ErrUsage)
	}
	if total > DeckSize {
		return fmt.Errorf("%w: total card count (%d) exceeds %d", ErrUsage, total, DeckSize)
	}
	return nil
}

// ParseCounts reads positional counts in type order: speed stamina power guts
// wit [friend]. Missing trailing counts are zero.
func ParseCounts(args []string) (Counts, error) {
	var c Counts
	if len(args) > card.NumTypes {
		return c, fmt.Errorf("%w: too many positional arguments (max %d: speed stamina power guts wit friend)", ErrUsage, card.NumTypes)
	}
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return c, fmt.Errorf("%w: count %q is not an integer", ErrUsage, a)
		}
		c[i] = n
	}
	return c, nil
}
