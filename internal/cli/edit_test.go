package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kern/internal/engine"
)

// storedText loads the saved snapshot for id and returns its body.
func storedText(t *testing.T, opts *RootOptions, id string) string {
	t.Helper()
	st := openTestStore(t, opts)
	blob, err := st.LoadDocument(id)
	require.NoError(t, err)
	require.NotNil(t, blob)
	eng := engine.New("")
	require.NoError(t, eng.LoadSnapshot(blob))
	return eng.Text()
}

func TestEdit_InsertsAndSaves(t *testing.T) {
	opts := testOptions(t)
	seedDocument(t, opts, "notes", "hello")

	out, err := runCommand(t, NewEditCommand(opts),
		"notes", "--line", "0", "--col", "5", "--insert", " world")
	require.NoError(t, err)
	assert.Equal(t, "Edited notes (version 2)\n", out)

	assert.Equal(t, "hello world", storedText(t, opts, "notes"))
}

func TestEdit_DeletesBackward(t *testing.T) {
	opts := testOptions(t)
	seedDocument(t, opts, "notes", "hello!")

	_, err := runCommand(t, NewEditCommand(opts),
		"notes", "--line", "0", "--col", "6", "--delete", "1")
	require.NoError(t, err)

	assert.Equal(t, "hello", storedText(t, opts, "notes"))
}

func TestEdit_EscapedNewlineSplitsLines(t *testing.T) {
	opts := testOptions(t)
	seedDocument(t, opts, "notes", "hello")

	_, err := runCommand(t, NewEditCommand(opts),
		"notes", "--line", "0", "--col", "5", "--insert", `!\nmore`)
	require.NoError(t, err)

	assert.Equal(t, "hello!\nmore", storedText(t, opts, "notes"))
}

func TestEdit_RejectedOutOfRange(t *testing.T) {
	opts := testOptions(t)
	seedDocument(t, opts, "notes", "hello")

	_, err := runCommand(t, NewEditCommand(opts),
		"notes", "--line", "7", "--insert", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "edit rejected")
	assert.Contains(t, err.Error(), "out of range")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	// The rejected edit must not reach the stored snapshot.
	assert.Equal(t, "hello", storedText(t, opts, "notes"))
}

func TestEdit_RequiresInsertOrDelete(t *testing.T) {
	opts := testOptions(t)

	_, err := runCommand(t, NewEditCommand(opts), "notes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to do")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEdit_NegativeDelete(t *testing.T) {
	opts := testOptions(t)

	_, err := runCommand(t, NewEditCommand(opts), "notes", "--delete", "-2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEdit_NotFound(t *testing.T) {
	opts := testOptions(t)

	_, err := runCommand(t, NewEditCommand(opts), "ghost", "--insert", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document not found: ghost")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEdit_JSON(t *testing.T) {
	opts := testOptions(t)
	opts.Format = "json"
	seedDocument(t, opts, "notes", "hello")

	out, err := runCommand(t, NewEditCommand(opts),
		"notes", "--line", "0", "--col", "0", "--insert", ">")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "notes", data["id"])
	assert.Equal(t, float64(2), data["version"])
}
