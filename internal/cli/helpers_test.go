package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kern/internal/engine"
	"github.com/roach88/kern/internal/store"
)

// testOptions returns root options pointed at a scratch storage root and a
// config path that does not exist, so the user's real config never leaks
// into a test.
func testOptions(t *testing.T) *RootOptions {
	t.Helper()
	dir := t.TempDir()
	return &RootOptions{
		Format:     "text",
		StorageDir: filepath.Join(dir, "store"),
		ConfigPath: filepath.Join(dir, "missing.yaml"),
	}
}

// unusableStorageDir returns a path whose parent is a regular file, so the
// store can never create its layout there.
func unusableStorageDir(t *testing.T) string {
	t.Helper()
	occupied := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(occupied, []byte("x"), 0o644))
	return filepath.Join(occupied, "store")
}

// runCommand executes a constructed command and returns captured output.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// seedDocument stores a snapshot for id whose body is the given text.
func seedDocument(t *testing.T, opts *RootOptions, id, body string) {
	t.Helper()
	eng := engine.New(body)
	blob, err := eng.Snapshot()
	require.NoError(t, err)
	st := store.New(opts.StorageDir)
	require.True(t, st.Init())
	require.NoError(t, st.SaveSnapshot(id, blob))
}

// openTestStore opens the options' storage root for assertions.
func openTestStore(t *testing.T, opts *RootOptions) *store.Store {
	t.Helper()
	st := store.New(opts.StorageDir)
	require.True(t, st.Init())
	return st
}

// decodeResponse unmarshals a JSON CLIResponse from command output.
func decodeResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	return resp
}
