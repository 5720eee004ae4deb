package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/umadeck/internal/recommend"
)

const tierlistFixture = `{"cards": {
  "1": {"id": 1, "name": "Kitasan Black", "type": 0, "rarity": 3, "scores": [50, 60, 70, 80, 90], "tiers": ["B", "A", "A+", "S", "S+"]},
  "2": {"id": 2, "name": "Super Creek", "type": 1, "rarity": 3, "scores": [40, 45, 50, 55, 60], "tiers": ["C", "B", "B+", "A", "A+"]},
  "3": {"id": 3, "name": "Fine Motion", "type": 4, "rarity": 3, "scores": [30, 35, 40, 45, 99], "tiers": ["C", "C+", "B", "B+", "S+"]}
}}`

const collectionFixture = `[
  {"name": "Kitasan Black", "type": 0, "rarity": 3, "lb": 2},
  {"name": "Super Creek", "type": 1, "rarity": 3, "lb": 4}
]`

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCLI executes the root command and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(RootCmd)
	var stdout, stderr bytes.Buffer
	RootCmd.SetOut(&stdout)
	RootCmd.SetErr(&stderr)
	RootCmd.SetArgs(append([]string{"--no-color"}, args...))
	err := RootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// setupHome points XDG at temp dirs and returns the data directory.
func setupHome(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	dataDir := filepath.Join(base, "data", "umadeck")
	require.NoError(t, os.MkdirAll(dataDir, 0755))
	return dataDir
}

func writeData(t *testing.T, dataDir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "my_cards.json"), []byte(collectionFixture), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "precomputed-tierlist.json"), []byte(tierlistFixture), 0644))
}

func TestInitCommand(t *testing.T) {
	dataDir := setupHome(t)

	out, _, err := runCLI(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created empty collection at: "+filepath.Join(dataDir, "my_cards.json"))

	data, err := os.ReadFile(filepath.Join(dataDir, "my_cards.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	out, _, err = runCLI(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Collection already exists")
}

func TestAddCommand(t *testing.T) {
	setupHome(t)
	_, _, err := runCLI(t, "init")
	require.NoError(t, err)

	out, _, err := runCLI(t, "add", "Kitasan Black", "spd", "SSR")
	require.NoError(t, err)
	assert.Contains(t, out, "Added new card 'Kitasan Black' with lb=0")

	out, _, err = runCLI(t, "add", "Kitasan Black", "0", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Increased lb for 'Kitasan Black' from 0 to 1")

	_, _, err = runCLI(t, "add", "Kitasan Black", "fast", "SSR")
	assert.Error(t, err)
}

func TestAddCommandAtMax(t *testing.T) {
	dataDir := setupHome(t)
	writeData(t, dataDir)

	out, _, err := runCLI(t, "add", "Super Creek", "sta", "SSR")
	require.NoError(t, err)
	assert.Contains(t, out, "already at max limit break")

	data, err := os.ReadFile(filepath.Join(dataDir, "my_cards.json"))
	require.NoError(t, err)
	assert.Equal(t, collectionFixture, string(data))
}

func TestEnrichCommand(t *testing.T) {
	dataDir := setupHome(t)
	writeData(t, dataDir)

	out, _, err := runCLI(t, "enrich")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully enriched cards")
	assert.FileExists(t, filepath.Join(dataDir, "my_cards_enriched.json"))

	out, _, err = runCLI(t, "enrich")
	require.NoError(t, err)
	assert.Contains(t, out, "already up to date")

	out, stderr, err := runCLI(t, "enrich", "--force", "--stdout")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `{"metadata":`), out)
	assert.Contains(t, stderr, "Successfully enriched cards")
}

func TestVisualizeCommand(t *testing.T) {
	dataDir := setupHome(t)
	writeData(t, dataDir)
	_, _, err := runCLI(t, "enrich")
	require.NoError(t, err)

	report := filepath.Join(dataDir, "my_cards_visualization.md")

	out, _, err := runCLI(t, "visualize", "--stdout")
	require.NoError(t, err)
	assert.Contains(t, out, "# Uma Musume Card Collection")
	assert.Contains(t, out, "| A+ | 70 | Kitasan Black | 2 | SSR |")
	assert.NoFileExists(t, report)

	out, _, err = runCLI(t, "visualize")
	require.NoError(t, err)
	assert.Contains(t, out, "Visualization written to "+report)
	assert.FileExists(t, report)

	custom := filepath.Join(t.TempDir(), "out.md")
	out, _, err = runCLI(t, "visualize", "--stdout", "--output", custom)
	require.NoError(t, err)
	assert.Contains(t, out, "Visualization written to "+custom)
	assert.Contains(t, out, "## All Cards (by Score)")
}

func TestRecommendCommand(t *testing.T) {
	dataDir := setupHome(t)
	writeData(t, dataDir)
	_, _, err := runCLI(t, "enrich")
	require.NoError(t, err)

	out, stderr, err := runCLI(t, "recommend", "1", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Found best support card to borrow: Fine Motion (Wit) (Tier: S+, Score: 99)")
	assert.Contains(t, out, "Kitasan Black (Speed) | Score: 70 | Tier: A+ | LB: 2 | Rarity: SSR")
	assert.Contains(t, out, "Super Creek (Stamina) | Score: 60 | Tier: A+ | LB: MLB | Rarity: SSR")
	assert.Contains(t, out, "SUPPORT CARD")
	assert.Contains(t, out, "Total cards: 3")
	assert.Contains(t, out, "Combined score: 229")
	assert.Contains(t, stderr, "only found 3 cards total")

	out, _, err = runCLI(t, "recommend", "--speed", "1", "--no-support")
	require.NoError(t, err)
	assert.NotContains(t, out, "SUPPORT CARD")
	assert.Contains(t, out, "Filled 1 remaining slot(s)")
	assert.Contains(t, out, "Combined score: 130")

	out, _, err = runCLI(t, "recommend", "--best")
	require.NoError(t, err)
	assert.Contains(t, out, "RECOMMENDED DECK (BEST CARDS)")
	assert.Contains(t, out, "Fine Motion")
}

func TestRecommendCommandUsage(t *testing.T) {
	dataDir := setupHome(t)
	writeData(t, dataDir)

	_, _, err := runCLI(t, "recommend")
	assert.True(t, errors.Is(err, recommend.ErrUsage))

	_, _, err = runCLI(t, "recommend", "4", "3")
	assert.True(t, errors.Is(err, recommend.ErrUsage))

	_, _, err = runCLI(t, "recommend", "1", "1", "1", "1", "1", "1", "1")
	assert.True(t, errors.Is(err, recommend.ErrUsage))
}

func TestUpdateCommand(t *testing.T) {
	dataDir := setupHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "my_cards.json"), []byte(collectionFixture), 0644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(tierlistFixture))
	}))
	defer srv.Close()

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	cfg := fmt.Sprintf("data_dir = %q\ntierlist_url = %q\nfetch_retries = 0\n", dataDir, srv.URL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	out, _, err := runCLI(t, "--config", cfgPath, "update")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved updated tierlist to "+filepath.Join(dataDir, "precomputed-tierlist.json"))
	assert.Contains(t, out, "Update complete: cards re-enriched.")
	assert.FileExists(t, filepath.Join(dataDir, "my_cards_enriched.json"))

	out, _, err = runCLI(t, "--config", cfgPath, "update", "--stdout")
	require.NoError(t, err)
	assert.Contains(t, out, `"Kitasan Black"`)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestUpdateCommandFailure(t *testing.T) {
	dataDir := setupHome(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	cfg := fmt.Sprintf("data_dir = %q\ntierlist_url = %q\nfetch_retries = 0\n", dataDir, srv.URL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	_, _, err := runCLI(t, "--config", cfgPath, "update")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch data")
	assert.NoFileExists(t, filepath.Join(dataDir, "precomputed-tierlist.json"))
}

func TestValidateCommand(t *testing.T) {
	dataDir := setupHome(t)
	writeData(t, dataDir)

	out, _, err := runCLI(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Validation Results:")
	assert.Contains(t, out, "Files are valid")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"name": "X", "type": 0, "rarity": 3, "lb": 9}]`), 0644))
	out, _, err = runCLI(t, "validate", "--input", bad)
	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.Contains(t, out, "1. collection record 1: lb must be at most 4")
	assert.Contains(t, out, "Warnings:")
}

func TestShowCommand(t *testing.T) {
	dataDir := setupHome(t)
	writeData(t, dataDir)

	out, _, err := runCLI(t, "show", "Kitasan Black")
	require.NoError(t, err)
	assert.Contains(t, out, "Kitasan Black")
	assert.Contains(t, out, "Speed")
	assert.Contains(t, out, "LB 2")
	assert.Contains(t, out, "(owned)")
	assert.Contains(t, out, "MLB")

	out, _, err = runCLI(t, "show", "Fine Motion", "--type", "wit")
	require.NoError(t, err)
	assert.Contains(t, out, "not owned")

	_, _, err = runCLI(t, "show", "Fine Motion", "--type", "spd")
	assert.Error(t, err)
}

func TestStripAnsi(t *testing.T) {
	assert.Equal(t, "S+", stripAnsi("\x1b[1;38;2;10;20;30mS+\x1b[0m"))
	assert.Equal(t, "plain", stripAnsi("plain"))
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{"one two", "three"}, wrapText("one two three", 10))
	assert.Equal(t, []string{""}, wrapText("   ", 10))
}
