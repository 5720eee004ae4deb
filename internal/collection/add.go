package collection

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/arcanaland/umadeck/internal/card"
)

// Action describes what Add did.
type Action int

const (
	Added Action = iota
	Increased
	AlreadyMax
)

// AddResult reports the outcome of Add.
type AddResult struct {
	Action Action
	Card   card.UserCard
	// From is the limit break before the change.
	From int
}

// Message is the user-facing summary of the result.
func (r AddResult) Message() string {
	switch r.Action {
	case AlreadyMax:
		return fmt.Sprintf("Card '%s' is already at max limit break (lb=%d), ignoring", r.Card.Name, card.MaxLimitBreak)
	case Increased:
		to, _ := r.Card.LB.Level()
		return fmt.Sprintf("Increased lb for '%s' from %d to %d", r.Card.Name, r.From, to)
	default:
		return fmt.Sprintf("Added new card '%s' with lb=0", r.Card.Name)
	}
}

// Add appends the card with lb 0, or raises the limit break of the owned
// copy by one. A card already at MLB is left unchanged.
func (c *Collection) Add(key card.Key) (AddResult, error) {
	idx, uc, ok := c.Find(key)
	if !ok {
		uc = card.UserCard{Name: key.Name, Type: key.Type, Rarity: key.Rarity, LB: card.NewLimitBreak(0)}
		raw, err := json.Marshal(uc)
		if err != nil {
			return AddResult{}, err
		}
		c.records = append(c.records, raw)
		return AddResult{Action: Added, Card: uc}, nil
	}

	from, valid := uc.LB.Level()
	if !valid {
		return AddResult{}, fmt.Errorf("card '%s' has a non-integer lb %s", uc.Name, uc.LB)
	}
	if from >= card.MaxLimitBreak {
		return AddResult{Action: AlreadyMax, Card: uc, From: from}, nil
	}

	updated, err := setLB(c.records[idx], from+1)
	if err != nil {
		return AddResult{}, err
	}
	c.records[idx] = updated
	uc.LB = card.NewLimitBreak(from + 1)
	return AddResult{Action: Increased, Card: uc, From: from}, nil
}

// setLB replaces the lb field of a record, keeping its other fields.
func setLB(raw json.RawMessage, lb int) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	v, err := json.Marshal(lb)
	if err != nil {
		return nil, err
	}
	fields["lb"] = v
	return json.Marshal(fields)
}
