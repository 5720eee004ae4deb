package jsonfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	in := map[string]any{"name": "Süper <Creek>", "lb": 2}

	require.NoError(t, Save(path, in, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(data, []byte("}\n")))
	assert.Contains(t, string(data), "Süper <Creek>")
	assert.Contains(t, string(data), "\n  \"")

	var out map[string]any
	require.NoError(t, Load(path, &out))
	assert.Equal(t, "Süper <Creek>", out["name"])
}

func TestCompactEncodingHasNoNewline(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []int{1, 2}, false))
	assert.Equal(t, "[1,2]", buf.String())
}

func TestLoadMissingFile(t *testing.T) {
	var v any
	err := Load(filepath.Join(t.TempDir(), "nope.json"), &v)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	var v any
	err := Load(path, &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON")
}

func TestHash(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.json")
	assert.Equal(t, "", Hash(path))

	require.NoError(t, os.WriteFile(path, []byte("abc"), 0644))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", Hash(path))
	assert.True(t, Exists(path))
	assert.False(t, Exists(filepath.Join(dir, "b.json")))
}
