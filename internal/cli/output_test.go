package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	err := f.Success(map[string]string{"id": "notes"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "notes", data["id"])
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	err := f.Error(ErrCodeStorage, "save failed", "disk full")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeStorage, resp.Error.Code)
	assert.Equal(t, "save failed", resp.Error.Message)
	assert.Equal(t, "disk full", resp.Error.Details)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	err := f.Error(ErrCodeNotFound, "document not found: ghost", nil)
	require.NoError(t, err)

	assert.Equal(t, "Error [E004]: document not found: ghost\n", buf.String())
}

func TestOutputFormatter_TextErrorVerboseDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	err := f.Error(ErrCodeEngine, "edit rejected", "line 9 out of range")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Error [E003]: edit rejected")
	assert.Contains(t, buf.String(), "Details: line 9 out of range")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	quiet := &OutputFormatter{Format: "text", Writer: out, ErrWriter: errOut}
	quiet.VerboseLog("restored %s", "notes")
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())

	verbose := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}
	verbose.VerboseLog("restored %s", "notes")
	assert.Empty(t, out.String(), "verbose output must not corrupt the JSON stream")
	assert.Equal(t, "restored notes\n", errOut.String())
}

func TestExitError_MessageAndUnwrap(t *testing.T) {
	base := errors.New("disk full")
	err := WrapExitError(ExitFailure, "failed to save document", base)

	assert.Equal(t, "failed to save document: disk full", err.Error())
	assert.ErrorIs(t, err, base)

	bare := NewExitError(ExitCommandError, "nothing to do")
	assert.Equal(t, "nothing to do", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain failure")))

	wrapped := fmt.Errorf("while editing: %w", NewExitError(ExitCommandError, "unknown document"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
}
