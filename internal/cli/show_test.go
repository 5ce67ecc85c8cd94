package cli

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShow_PrintsText(t *testing.T) {
	opts := testOptions(t)
	seedDocument(t, opts, "notes", "alpha\nbeta")

	out, err := runCommand(t, NewShowCommand(opts), "notes")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "show_text", []byte(out))
}

func TestShow_NotFound(t *testing.T) {
	opts := testOptions(t)

	_, err := runCommand(t, NewShowCommand(opts), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document not found: ghost")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestShow_JSON(t *testing.T) {
	opts := testOptions(t)
	opts.Format = "json"
	seedDocument(t, opts, "notes", "alpha\nbeta")

	out, err := runCommand(t, NewShowCommand(opts), "notes")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)

	// Restoring a snapshot bumps the version past the stored one.
	assert.Equal(t, float64(1), data["version"])
	lines, ok := data["lines"].([]interface{})
	require.True(t, ok)
	require.Len(t, lines, 2)
	first, ok := lines[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "alpha", first["content"])
	assert.NotEmpty(t, first["id"])
}

func TestShow_StorageUnavailable(t *testing.T) {
	opts := testOptions(t)
	opts.StorageDir = unusableStorageDir(t)

	_, err := runCommand(t, NewShowCommand(opts), "notes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage unavailable")
}
