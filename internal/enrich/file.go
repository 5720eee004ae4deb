package enrich

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/arcanaland/umadeck/internal/card"
	"github.com/arcanaland/umadeck/internal/collection"
	"github.com/arcanaland/umadeck/internal/jsonfile"
	"github.com/arcanaland/umadeck/internal/logging"
	"github.com/arcanaland/umadeck/internal/tierlist"
)

// ErrBadShape is returned when an enriched file is neither an array nor an
// object with a "cards" array.
var ErrBadShape = errors.New("expected a JSON array or object with 'cards'")

// Metadata fingerprints the inputs an enriched file was built from.
type Metadata struct {
	InputHash    string `json:"input_hash"`
	TierlistHash string `json:"tierlist_hash"`
}

// Output is the layout of the enriched file.
type Output struct {
	Metadata Metadata            `json:"metadata"`
	Cards    []card.EnrichedCard `json:"cards"`
}

// Options configures Run.
type Options struct {
	Input    string
	Tierlist string
	Output   string
	Force    bool
	Pretty   bool
	// Stdout, when set, also receives the enriched JSON.
	Stdout io.Writer
}

// Status reports what Run did.
type Status int

const (
	Written Status = iota
	UpToDate
)

// Run enriches the collection at opts.Input and writes opts.Output, unless
// the output already records the current hashes of both inputs.
func Run(opts Options) (Status, error) {
	meta := Metadata{
		InputHash:    jsonfile.Hash(opts.Input),
		TierlistHash: jsonfile.Hash(opts.Tierlist),
	}

	if !opts.Force && upToDate(opts.Output, meta) {
		return UpToDate, nil
	}

	coll, err := collection.Load(opts.Input)
	if err != nil {
		return Written, err
	}
	tl, err := tierlist.Load(opts.Tierlist)
	if err != nil {
		return Written, err
	}

	out := Output{
		Metadata: meta,
		Cards:    Enrich(coll.Records(), tl.Index()),
	}

	if err := jsonfile.Save(opts.Output, out, opts.Pretty); err != nil {
		return Written, fmt.Errorf("failed to write output file %s: %w", opts.Output, err)
	}

	if opts.Stdout != nil {
		if err := jsonfile.Encode(opts.Stdout, out, opts.Pretty); err != nil {
			return Written, err
		}
		if !opts.Pretty {
			fmt.Fprintln(opts.Stdout)
		}
	}
	return Written, nil
}

// upToDate reports whether the file at path carries meta. Any problem reading
// it counts as stale.
func upToDate(path string, meta Metadata) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var existing struct {
		Metadata *Metadata `json:"metadata"`
	}
	if err := json.Unmarshal(data, &existing); err != nil || existing.Metadata == nil {
		logging.Debug().Str("path", path).Msg("existing enriched file unreadable; re-enriching")
		return false
	}
	return *existing.Metadata == meta
}

// Load reads an enriched file in either the {metadata, cards} layout or as a
// bare array. Malformed records are logged and skipped.
func Load(path string) ([]card.EnrichedCard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", jsonfile.ErrNotFound, path)
		}
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("failed to parse JSON from %s", path)
	}

	var records []json.RawMessage
	trimmed := bytes.TrimSpace(data)
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("failed to parse JSON from %s: %w", path, err)
		}
	case '{':
		var wrapped struct {
			Cards []json.RawMessage `json:"cards"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil || wrapped.Cards == nil {
			return nil, fmt.Errorf("%w in %s", ErrBadShape, path)
		}
		records = wrapped.Cards
	default:
		return nil, fmt.Errorf("%w in %s", ErrBadShape, path)
	}

	cards := make([]card.EnrichedCard, 0, len(records))
	for i, raw := range records {
		var ec card.EnrichedCard
		if err := json.Unmarshal(raw, &ec); err != nil {
			logging.Warn().Int("index", i).Err(err).Msg("skipping malformed enriched card")
			continue
		}
		cards = append(cards, ec)
	}
	return cards, nil
}
