package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runSessionScript runs a session on id feeding script as stdin.
func runSessionScript(t *testing.T, opts *RootOptions, id, script string) (string, error) {
	t.Helper()
	cmd := NewSessionCommand(opts)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(script))
	cmd.SetArgs([]string{id})
	err := cmd.Execute()
	return buf.String(), err
}

func TestSession_ScriptedTranscript(t *testing.T) {
	opts := testOptions(t)
	script := "set hello\\nworld\n" +
		"view\n" +
		"insert 1 5 !\n" +
		"view\n" +
		"save\n" +
		"quit\n"

	out, err := runSessionScript(t, opts, "scratch", script)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "session_transcript", []byte(out))
}

func TestSession_SavesOnEOF(t *testing.T) {
	opts := testOptions(t)

	out, err := runSessionScript(t, opts, "scratch", "set body\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Session ended.")

	st := openTestStore(t, opts)
	ids, err := st.ListDocuments()
	require.NoError(t, err)
	assert.Equal(t, []string{"scratch"}, ids)
}

func TestSession_UnknownCommand(t *testing.T) {
	opts := testOptions(t)

	out, err := runSessionScript(t, opts, "scratch", "bogus\nquit\n")
	require.NoError(t, err)
	assert.Contains(t, out, `unknown command "bogus"`)
}

func TestSession_RejectedEditReportsError(t *testing.T) {
	opts := testOptions(t)

	out, err := runSessionScript(t, opts, "scratch", "insert 9 0 x\nquit\n")
	require.NoError(t, err)
	assert.Contains(t, out, "error:")
	assert.Contains(t, out, "out of range")
}

func TestSession_FlushThenQuit(t *testing.T) {
	opts := testOptions(t)

	out, err := runSessionScript(t, opts, "scratch", "set draft\nflush\nquit\n")
	require.NoError(t, err)
	assert.Contains(t, out, "flushed")

	// The final save snapshots the document and retires the flushed record.
	st := openTestStore(t, opts)
	ids, err := st.ListDocuments()
	require.NoError(t, err)
	assert.Equal(t, []string{"scratch"}, ids)
	names, err := st.ListUpdates("scratch")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSession_MemoryOnly(t *testing.T) {
	opts := testOptions(t)
	opts.StorageDir = unusableStorageDir(t)

	out, err := runSessionScript(t, opts, "scratch", "set body\nview\nquit\n")
	require.NoError(t, err)
	assert.Contains(t, out, "storage unavailable, changes stay in memory")
	assert.Contains(t, out, "version 1")
}
