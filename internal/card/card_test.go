package card

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	for in, want := range map[string]Type{"spd": Speed, "STA": Stamina, "pow": Power, "Gut": Guts, "wit": Wit, "fri": Friend, "0": Speed, "5": Friend} {
		got, err := ParseType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"6", "-1", "speed", ""} {
		_, err := ParseType(in)
		assert.Error(t, err, in)
	}
}

func TestParseRarity(t *testing.T) {
	for in, want := range map[string]Rarity{"r": R, "SR": SR, "ssr": SSR, "1": R, "2": SR, "3": SSR} {
		got, err := ParseRarity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"0", "4", "UR"} {
		_, err := ParseRarity(in)
		assert.Error(t, err, in)
	}
}

func TestTypeAndRarityString(t *testing.T) {
	assert.Equal(t, "Wit", Wit.String())
	assert.Equal(t, "Type 9", Type(9).String())
	assert.Equal(t, "SSR", SSR.String())
	assert.Equal(t, "7", Rarity(7).String())
}

func TestLimitBreakJSON(t *testing.T) {
	var c UserCard
	require.NoError(t, json.Unmarshal([]byte(`{"name":"A","type":0,"rarity":3,"lb":4}`), &c))
	lvl, ok := c.LB.Level()
	assert.True(t, ok)
	assert.Equal(t, 4, lvl)
	assert.True(t, c.LB.IsMax())
	assert.Equal(t, "MLB", c.LB.String())

	require.NoError(t, json.Unmarshal([]byte(`{"name":"A","type":0,"rarity":3,"lb":"two"}`), &c))
	_, ok = c.LB.Level()
	assert.False(t, ok)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"A","type":0,"rarity":3,"lb":"two"}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"name":"A","type":0,"rarity":3,"lb":1.5}`), &c))
	_, ok = c.LB.Level()
	assert.False(t, ok)
}

func TestUserCardRequiresKeyFields(t *testing.T) {
	var c UserCard
	err := json.Unmarshal([]byte(`{"type":0,"rarity":3,"lb":0}`), &c)
	assert.True(t, errors.Is(err, ErrMissingField), "got %v", err)

	err = json.Unmarshal([]byte(`{"name":"A","type":"spd","rarity":3}`), &c)
	assert.Error(t, err)
}

func TestEnrichedCardRoundTrip(t *testing.T) {
	c := FromUser(UserCard{Name: "Fine Motion", Type: Wit, Rarity: SSR, LB: NewLimitBreak(2)})
	c.ID = IntPtr(30010)
	c.Score = IntPtr(88)
	c.Tier = "S"

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Fine Motion","type":4,"rarity":3,"lb":2,"id":30010,"score":88,"tier":"S"}`, string(out))

	var back EnrichedCard
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, c.Key(), back.Key())
	assert.Equal(t, 88, back.ScoreOrZero())
	assert.Equal(t, 30010, *back.ID)
}

func TestEnrichedCardWithoutScoreOmitsFields(t *testing.T) {
	c := FromUser(UserCard{Name: "X", Type: Speed, Rarity: SR, LB: NewLimitBreak(0)})
	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"X","type":0,"rarity":2,"lb":0}`, string(out))
	assert.False(t, c.HasScore())
	assert.Equal(t, 0, c.ScoreOrZero())
}

func TestPassthroughKeepsRecord(t *testing.T) {
	raw := json.RawMessage(`{"name":5,"type":"x"}`)
	c := Passthrough(raw)
	assert.True(t, c.IsPassthrough())
	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(out))
}

func TestTierValue(t *testing.T) {
	assert.Equal(t, 13, TierValue("S+"))
	assert.Equal(t, 12, TierValue("S"))
	assert.Equal(t, 1, TierValue("F"))
	assert.Equal(t, 0, TierValue(""))
	assert.Equal(t, 0, TierValue("Z"))
	assert.True(t, KnownTier("B+"))
	assert.False(t, KnownTier("b+"))
}

func TestTierColorGradient(t *testing.T) {
	best := TierColor("S+")
	worst := TierColor("F")
	assert.Greater(t, best.G, best.R)
	assert.Greater(t, worst.R, worst.G)
	assert.Equal(t, tierUnknown, TierColor("?"))
}
