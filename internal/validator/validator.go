package validator

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/arcanaland/umadeck/internal/card"
	"github.com/arcanaland/umadeck/internal/tierlist"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether no errors were found.
func (r ValidationResults) Valid() bool {
	return len(r.Errors) == 0
}

type Validator struct {
	CollectionPath string
	TierlistPath   string
	Results        ValidationResults

	validate *validator.Validate
	owned    []ownedCard
	listed   map[card.Key]bool
}

type ownedCard struct {
	index int
	key   card.Key
}

type collectionRecord struct {
	Name   *string `json:"name" validate:"required,min=1"`
	Type   *int    `json:"type" validate:"required,min=0,max=5"`
	Rarity *int    `json:"rarity" validate:"required,min=1,max=3"`
	LB     *int    `json:"lb" validate:"required,min=0,max=4"`
}

type tierlistRecord struct {
	ID     *int     `json:"id" validate:"omitempty,min=0"`
	Name   *string  `json:"name" validate:"required,min=1"`
	Type   *int     `json:"type" validate:"required,min=0,max=5"`
	Rarity *int     `json:"rarity" validate:"required,min=1,max=3"`
	Scores []int    `json:"scores" validate:"required,min=1"`
	Tiers  []string `json:"tiers" validate:"required,min=1"`
}

// NewValidator checks the given files. Either path may be empty to skip
// that file.
func NewValidator(collectionPath, tierlistPath string) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{
		CollectionPath: collectionPath,
		TierlistPath:   tierlistPath,
		Results:        ValidationResults{},
		validate:       v,
	}
}

func (v *Validator) Validate() (ValidationResults, error) {
	if v.CollectionPath == "" && v.TierlistPath == "" {
		return v.Results, errors.New("nothing to validate")
	}

	if v.CollectionPath != "" {
		v.validateCollection()
	}
	if v.TierlistPath != "" {
		v.validateTierlist()
	}
	v.validateCoverage()

	return v.Results, nil
}

func (v *Validator) errorf(format string, args ...any) {
	v.Results.Errors = append(v.Results.Errors, fmt.Sprintf(format, args...))
}

func (v *Validator) warnf(format string, args ...any) {
	v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf(format, args...))
}

func (v *Validator) readJSON(label, path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			v.errorf("%s file not found: %s", label, path)
		} else {
			v.errorf("cannot read %s file %s: %v", label, path, err)
		}
		return nil, false
	}
	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		v.errorf("%s file %s is not valid JSON", label, path)
		return nil, false
	}
	return data, true
}

// validateCollection checks that the collection is an array of well-formed
// cards.
func (v *Validator) validateCollection() {
	data, ok := v.readJSON("collection", v.CollectionPath)
	if !ok {
		return
	}
	if data[0] != '[' {
		v.errorf("collection file %s must contain a JSON array", v.CollectionPath)
		return
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		v.errorf("collection file %s: %v", v.CollectionPath, err)
		return
	}

	seen := make(map[card.Key]int)
	for i, raw := range records {
		n := i + 1
		var rec collectionRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			v.errorf("collection record %d: invalid field types: %v", n, err)
			continue
		}
		if !v.checkStruct(fmt.Sprintf("collection record %d", n), rec) {
			continue
		}

		key := card.Key{Name: *rec.Name, Type: card.Type(*rec.Type), Rarity: card.Rarity(*rec.Rarity)}
		if first, dup := seen[key]; dup {
			v.warnf("collection record %d duplicates record %d (%s)", n, first, key)
			continue
		}
		seen[key] = n
		v.owned = append(v.owned, ownedCard{index: n, key: key})
	}
}

// validateTierlist checks the tierlist shape and every entry in it.
func (v *Validator) validateTierlist() {
	data, ok := v.readJSON("tierlist", v.TierlistPath)
	if !ok {
		return
	}
	if data[0] != '{' {
		v.errorf("tierlist file %s must contain a JSON object", v.TierlistPath)
		return
	}

	var top struct {
		Cards json.RawMessage `json:"cards"`
	}
	if err := json.Unmarshal(data, &top); err != nil {
		v.errorf("tierlist file %s: %v", v.TierlistPath, err)
		return
	}
	cards := bytes.TrimSpace(top.Cards)
	if len(cards) == 0 || cards[0] != '{' {
		v.errorf("tierlist file %s is missing the 'cards' object", v.TierlistPath)
		return
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(cards, &entries); err != nil {
		v.errorf("tierlist file %s: %v", v.TierlistPath, err)
		return
	}

	v.listed = make(map[card.Key]bool, len(entries))
	firstKey := make(map[card.Key]string)
	for _, k := range tierlist.SortedKeys(entries) {
		label := fmt.Sprintf("tierlist entry %q", k)
		var rec tierlistRecord
		if err := json.Unmarshal(entries[k], &rec); err != nil {
			v.errorf("%s: invalid field types: %v", label, err)
			continue
		}
		if !v.checkStruct(label, rec) {
			continue
		}

		if len(rec.Scores) != len(rec.Tiers) {
			v.errorf("%s: has %d scores but %d tiers", label, len(rec.Scores), len(rec.Tiers))
		}
		for i, t := range rec.Tiers {
			if !card.KnownTier(t) {
				v.warnf("%s: unknown tier %q at lb %d", label, t, i)
			}
		}

		key := card.Key{Name: *rec.Name, Type: card.Type(*rec.Type), Rarity: card.Rarity(*rec.Rarity)}
		if first, dup := firstKey[key]; dup {
			v.warnf("%s duplicates entry %q (%s); only the first is used", label, first, key)
			continue
		}
		firstKey[key] = k
		v.listed[key] = true
	}
}

// validateCoverage warns about owned cards that enrichment cannot match.
func (v *Validator) validateCoverage() {
	if v.listed == nil {
		return
	}
	for _, o := range v.owned {
		if !v.listed[o.key] {
			v.warnf("collection record %d (%s) has no tierlist entry", o.index, o.key)
		}
	}
}

// checkStruct runs the tag rules on rec and records one error per failed
// field.
func (v *Validator) checkStruct(label string, rec any) bool {
	err := v.validate.Struct(rec)
	if err == nil {
		return true
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		v.errorf("%s: %v", label, err)
		return false
	}
	for _, fe := range fieldErrs {
		v.errorf("%s: %s", label, describe(fe))
	}
	return false
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not be empty", fe.Field())
		}
		return fmt.Sprintf("%s must be at least %s (got %v)", fe.Field(), fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s (got %v)", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %q check", fe.Field(), fe.Tag())
	}
}
