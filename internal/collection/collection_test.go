package collection

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/umadeck/internal/card"
	"github.com/arcanaland/umadeck/internal/jsonfile"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "my_cards.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func key(name string, typ card.Type, rarity card.Rarity) card.Key {
	return card.Key{Name: name, Type: typ, Rarity: rarity}
}

func TestAddNewCard(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	res, err := c.Add(key("Kitasan Black", card.Speed, card.SSR))
	require.NoError(t, err)
	assert.Equal(t, Added, res.Action)
	assert.Equal(t, "Added new card 'Kitasan Black' with lb=0", res.Message())
	assert.Equal(t, 1, c.Len())

	_, uc, ok := c.Find(key("Kitasan Black", card.Speed, card.SSR))
	require.True(t, ok)
	lvl, _ := uc.LB.Level()
	assert.Equal(t, 0, lvl)
}

func TestAddIncrementsLimitBreak(t *testing.T) {
	c, err := New(card.UserCard{Name: "Super Creek", Type: card.Stamina, Rarity: card.SSR, LB: card.NewLimitBreak(2)})
	require.NoError(t, err)

	res, err := c.Add(key("Super Creek", card.Stamina, card.SSR))
	require.NoError(t, err)
	assert.Equal(t, Increased, res.Action)
	assert.Equal(t, "Increased lb for 'Super Creek' from 2 to 3", res.Message())

	_, uc, _ := c.Find(key("Super Creek", card.Stamina, card.SSR))
	lvl, _ := uc.LB.Level()
	assert.Equal(t, 3, lvl)
	assert.Equal(t, 1, c.Len())
}

func TestAddAtMaxIsNoOp(t *testing.T) {
	for _, lb := range []int{4, 5} {
		c, err := New(card.UserCard{Name: "Fine Motion", Type: card.Wit, Rarity: card.SSR, LB: card.NewLimitBreak(lb)})
		require.NoError(t, err)
		before := append([]json.RawMessage(nil), c.Records()...)

		res, err := c.Add(key("Fine Motion", card.Wit, card.SSR))
		require.NoError(t, err)
		assert.Equal(t, AlreadyMax, res.Action)
		assert.Contains(t, res.Message(), "already at max")

		if diff := cmp.Diff(before, c.Records()); diff != "" {
			t.Errorf("records changed (-want +got):\n%s", diff)
		}
	}
}

func TestAddDistinguishesKey(t *testing.T) {
	c, err := New(card.UserCard{Name: "Tazuna", Type: card.Friend, Rarity: card.SR, LB: card.NewLimitBreak(1)})
	require.NoError(t, err)

	res, err := c.Add(key("Tazuna", card.Friend, card.SSR))
	require.NoError(t, err)
	assert.Equal(t, Added, res.Action)
	assert.Equal(t, 2, c.Len())
}

func TestAddRejectsNonIntegerLB(t *testing.T) {
	c, err := Parse("test", []byte(`[{"name":"A","type":0,"rarity":3,"lb":"x"}]`))
	require.NoError(t, err)
	_, err = c.Add(key("A", card.Speed, card.SSR))
	assert.Error(t, err)
}

func TestAddKeepsOtherFields(t *testing.T) {
	c, err := Parse("test", []byte(`[{"name":"A","type":0,"rarity":3,"lb":1,"note":"event"}]`))
	require.NoError(t, err)
	_, err = c.Add(key("A", card.Speed, card.SSR))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(c.Records()[0], &got))
	assert.Equal(t, "event", got["note"])
	assert.EqualValues(t, 2, got["lb"])
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := writeFile(t, `[{"name":"A","type":0,"rarity":3,"lb":1},{"bogus":true}]`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Len(t, c.Cards(), 1)

	_, err = c.Add(key("B", card.Power, card.SR))
	require.NoError(t, err)
	require.NoError(t, c.Save(path))

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Len())
	cards := again.Cards()
	require.Len(t, cards, 2)
	assert.Equal(t, "B", cards[1].Name)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.Is(err, jsonfile.ErrNotFound))

	_, err = Load(writeFile(t, `{"cards":[]}`))
	assert.True(t, errors.Is(err, ErrNotArray))

	_, err = Load(writeFile(t, `[1,`))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotArray))
}

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "my_cards.json")
	created, err := Create(path)
	require.NoError(t, err)
	assert.True(t, created)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())

	created, err = Create(path)
	require.NoError(t, err)
	assert.False(t, created)
}
