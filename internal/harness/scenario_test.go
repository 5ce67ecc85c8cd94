package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes scenario YAML to a temp file and returns its path.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: edit_flow
description: "Edits land in the view"
document: notes
placeholder: "Start here"
steps:
  - set: "hello"
  - edit: { line: 0, col: 5, insert: "!" }
  - save: true
  - flush: true
  - load: other
assertions:
  - type: final_text
    text: "hello!"
  - type: version
    count: 2
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "edit_flow", scenario.Name)
	assert.Equal(t, "Edits land in the view", scenario.Description)
	assert.Equal(t, "notes", scenario.Document)
	assert.Equal(t, "Start here", scenario.Placeholder)
	require.Len(t, scenario.Steps, 5)
	require.NotNil(t, scenario.Steps[0].Set)
	assert.Equal(t, "hello", *scenario.Steps[0].Set)
	require.NotNil(t, scenario.Steps[1].Edit)
	assert.Equal(t, 5, scenario.Steps[1].Edit.Col)
	assert.True(t, scenario.Steps[2].Save)
	assert.True(t, scenario.Steps[3].Flush)
	assert.Equal(t, "other", scenario.Steps[4].Load)
	require.Len(t, scenario.Assertions, 2)
	assert.Equal(t, AssertFinalText, scenario.Assertions[0].Type)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "Unknown field is rejected"
stepz:
  - set: "hello"
assertions:
  - type: version
    count: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_MissingName(t *testing.T) {
	path := writeScenario(t, `
description: "Missing name"
steps:
  - set: "hello"
assertions:
  - type: version
    count: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestLoadScenario_MissingDescription(t *testing.T) {
	path := writeScenario(t, `
name: no_description
steps:
  - set: "hello"
assertions:
  - type: version
    count: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description is required")
}

func TestLoadScenario_EmptySteps(t *testing.T) {
	path := writeScenario(t, `
name: no_steps
description: "Steps are required"
assertions:
  - type: version
    count: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps list is required")
}

func TestLoadScenario_EmptyAssertions(t *testing.T) {
	path := writeScenario(t, `
name: no_assertions
description: "Assertions are required"
steps:
  - set: "hello"
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assertions list is required")
}

func TestLoadScenario_BadStorageMode(t *testing.T) {
	path := writeScenario(t, `
name: bad_storage
description: "Storage mode is validated"
storage: flaky
steps:
  - set: "hello"
assertions:
  - type: version
    count: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage must be")
}

func TestLoadScenario_StepWithNoOperation(t *testing.T) {
	path := writeScenario(t, `
name: empty_step
description: "A step must name an operation"
steps:
  - save: false
assertions:
  - type: version
    count: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps[0]")
	assert.Contains(t, err.Error(), "is required")
}

func TestLoadScenario_StepWithTwoOperations(t *testing.T) {
	path := writeScenario(t, `
name: double_step
description: "A step carries exactly one operation"
steps:
  - set: "hello"
    save: true
assertions:
  - type: version
    count: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one operation")
}

func TestLoadScenario_EmptyEdit(t *testing.T) {
	path := writeScenario(t, `
name: empty_edit
description: "An edit needs an insert or a delete"
steps:
  - edit: { line: 0, col: 0 }
assertions:
  - type: version
    count: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert or delete is required")
}

func TestLoadScenario_NegativeDelete(t *testing.T) {
	path := writeScenario(t, `
name: negative_delete
description: "Delete counts are non-negative"
steps:
  - edit: { line: 0, col: 0, delete: -3 }
assertions:
  - type: version
    count: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete must be non-negative")
}

func TestLoadScenario_UnknownAssertionType(t *testing.T) {
	path := writeScenario(t, `
name: bad_assertion
description: "Assertion types are validated"
steps:
  - set: "hello"
assertions:
  - type: trace_contains
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown assertion type "trace_contains"`)
}

func TestLoadScenario_FinalTextRequiresText(t *testing.T) {
	path := writeScenario(t, `
name: text_required
description: "final_text needs a text field"
steps:
  - set: "hello"
assertions:
  - type: final_text
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text is required for final_text")
}

func TestLoadScenario_LineCountRequiresPositiveCount(t *testing.T) {
	path := writeScenario(t, `
name: count_required
description: "line_count needs a positive count"
steps:
  - set: "hello"
assertions:
  - type: line_count
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count must be positive for line_count")
}
