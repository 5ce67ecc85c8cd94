package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelete_RemovesDocumentAndDeltas(t *testing.T) {
	opts := testOptions(t)
	seedDocument(t, opts, "notes", "hello")
	st := openTestStore(t, opts)
	require.NoError(t, st.AppendUpdates("notes", []byte("delta")))

	out, err := runCommand(t, NewDeleteCommand(opts), "notes")
	require.NoError(t, err)
	assert.Equal(t, "Deleted document notes\n", out)

	ids, err := st.ListDocuments()
	require.NoError(t, err)
	assert.Empty(t, ids)
	names, err := st.ListUpdates("notes")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDelete_MissingIDIsNotAnError(t *testing.T) {
	opts := testOptions(t)

	out, err := runCommand(t, NewDeleteCommand(opts), "ghost")
	require.NoError(t, err)
	assert.Equal(t, "Deleted document ghost\n", out)
}

func TestDelete_JSON(t *testing.T) {
	opts := testOptions(t)
	opts.Format = "json"
	seedDocument(t, opts, "notes", "hello")

	out, err := runCommand(t, NewDeleteCommand(opts), "notes")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "notes", data["id"])
}
