package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kern/internal/doc"
)

// sampleResult builds a result as a two-step scenario would leave it.
func sampleResult() *Result {
	r := NewResult()
	r.AddStep("set", "", "v1")
	r.AddStep("load", "other", "v2")
	r.FinalView = doc.View{
		Lines: []doc.Line{
			{ID: "1", Content: "hello"},
			{ID: "2", Content: "world"},
		},
		Version: 2,
	}
	r.StorageAvailable = true
	r.Documents = []string{"notes"}
	r.DeltaCount = 2
	r.LastError = "line 9 out of range (document has 2 lines)"
	return r
}

func TestAssertFinalText(t *testing.T) {
	r := sampleResult()

	assert.NoError(t, assertFinalText(r, Assertion{Type: AssertFinalText, Text: "hello\nworld"}))

	err := assertFinalText(r, Assertion{Type: AssertFinalText, Text: "goodbye"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"goodbye"`)
	assert.Contains(t, err.Error(), `"hello\nworld"`)
}

func TestAssertVersion(t *testing.T) {
	r := sampleResult()

	assert.NoError(t, assertVersion(r, Assertion{Type: AssertVersion, Count: 2}))

	err := assertVersion(r, Assertion{Type: AssertVersion, Count: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version 5")
	assert.Contains(t, err.Error(), "version 2")
}

func TestAssertLineCount(t *testing.T) {
	r := sampleResult()

	assert.NoError(t, assertLineCount(r, Assertion{Type: AssertLineCount, Count: 2}))
	assert.Error(t, assertLineCount(r, Assertion{Type: AssertLineCount, Count: 3}))
}

func TestAssertDocuments(t *testing.T) {
	r := sampleResult()

	assert.NoError(t, assertDocuments(r, Assertion{Type: AssertDocuments, Documents: []string{"notes"}}))
	assert.Error(t, assertDocuments(r, Assertion{Type: AssertDocuments, Documents: []string{"notes", "other"}}))

	// Nil expectation matches an empty store.
	r.Documents = []string{}
	assert.NoError(t, assertDocuments(r, Assertion{Type: AssertDocuments}))
}

func TestAssertDocuments_StorageUnavailable(t *testing.T) {
	r := sampleResult()
	r.StorageAvailable = false

	err := assertDocuments(r, Assertion{Type: AssertDocuments, Documents: []string{"notes"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage unavailable")
}

func TestAssertDeltaCount(t *testing.T) {
	r := sampleResult()

	assert.NoError(t, assertDeltaCount(r, Assertion{Type: AssertDeltaCount, Count: 2}))

	err := assertDeltaCount(r, Assertion{Type: AssertDeltaCount, Count: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0 delta records")
	assert.Contains(t, err.Error(), "2 delta records")

	r.StorageAvailable = false
	err = assertDeltaCount(r, Assertion{Type: AssertDeltaCount, Count: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage unavailable")
}

func TestAssertLastError(t *testing.T) {
	r := sampleResult()

	assert.NoError(t, assertLastError(r, Assertion{Type: AssertLastError, Text: "out of range"}))
	assert.Error(t, assertLastError(r, Assertion{Type: AssertLastError, Text: "disk full"}))

	r.LastError = ""
	err := assertLastError(r, Assertion{Type: AssertLastError, Text: "out of range"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `""`)
}

func TestEvaluateAssertions(t *testing.T) {
	r := sampleResult()

	errs := EvaluateAssertions(r, []Assertion{
		{Type: AssertFinalText, Text: "hello\nworld"},
		{Type: AssertVersion, Count: 2},
	})
	assert.Empty(t, errs)

	errs = EvaluateAssertions(r, []Assertion{
		{Type: AssertFinalText, Text: "wrong"},
		{Type: AssertVersion, Count: 2},
		{Type: "bogus"},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "assertion 0")
	assert.Contains(t, errs[1], `unknown assertion type "bogus"`)
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertFinalText,
		Expected: `"goodbye"`,
		Actual:   `"hello"`,
		Steps: []StepTrace{
			{Op: "set", Outcome: "v1"},
			{Op: "load", Target: "other", Outcome: "v2"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: final_text")
	assert.Contains(t, msg, `Expected: "goodbye"`)
	assert.Contains(t, msg, `Actual: "hello"`)
	assert.Contains(t, msg, "[1] set -> v1")
	assert.Contains(t, msg, "[2] load other -> v2")
}
