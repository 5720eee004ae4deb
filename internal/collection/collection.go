// Package collection reads and updates the user's card collection file.
//
// Records are kept as raw JSON so that entries the tool does not touch are
// written back exactly as they were read.
package collection

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/arcanaland/umadeck/internal/card"
	"github.com/arcanaland/umadeck/internal/jsonfile"
	"github.com/arcanaland/umadeck/internal/logging"
)

// ErrNotArray is returned when a collection file is not a JSON array.
var ErrNotArray = errors.New("expected JSON array")

// Collection is the ordered list of records in a collection file.
type Collection struct {
	records []json.RawMessage
}

// New returns a collection holding the given cards.
func New(cards ...card.UserCard) (*Collection, error) {
	c := &Collection{}
	for _, uc := range cards {
		raw, err := json.Marshal(uc)
		if err != nil {
			return nil, err
		}
		c.records = append(c.records, raw)
	}
	return c, nil
}

// Load reads the collection at path.
func Load(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", jsonfile.ErrNotFound, path)
		}
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes collection data. name is only used in error messages.
func Parse(name string, data []byte) (*Collection, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("failed to parse JSON from %s", name)
		}
		return nil, fmt.Errorf("%w in %s", ErrNotArray, name)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("failed to parse JSON from %s: %w", name, err)
	}
	return &Collection{records: records}, nil
}

// Create writes an empty collection to path unless a file already exists.
// It reports whether a file was written.
func Create(path string) (bool, error) {
	if jsonfile.Exists(path) {
		return false, nil
	}
	if err := jsonfile.Save(path, []json.RawMessage{}, true); err != nil {
		return false, err
	}
	return true, nil
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.records)
}

// Records returns the raw records in file order.
func (c *Collection) Records() []json.RawMessage {
	return c.records
}

// Cards decodes every record, logging and skipping the ones that are
// malformed.
func (c *Collection) Cards() []card.UserCard {
	cards := make([]card.UserCard, 0, len(c.records))
	for i, raw := range c.records {
		var uc card.UserCard
		if err := json.Unmarshal(raw, &uc); err != nil {
			logging.Warn().Int("index", i).Err(err).Msg("skipping malformed card record")
			continue
		}
		cards = append(cards, uc)
	}
	return cards
}

// Find returns the index and decoded card matching key.
func (c *Collection) Find(key card.Key) (int, card.UserCard, bool) {
	for i, raw := range c.records {
		var uc card.UserCard
		if err := json.Unmarshal(raw, &uc); err != nil {
			continue
		}
		if uc.Key() == key {
			return i, uc, true
		}
	}
	return -1, card.UserCard{}, false
}

// Save writes the collection to path, pretty-printed.
func (c *Collection) Save(path string) error {
	records := c.records
	if records == nil {
		records = []json.RawMessage{}
	}
	return jsonfile.Save(path, records, true)
}
