package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines an acceptance test scenario.
// Scenarios drive a fresh editor stack through a sequence of steps and
// assert on the resulting view and storage state.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are keyed on it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Document is the id the stack starts on. Empty means the default id.
	Document string `yaml:"document,omitempty"`

	// Placeholder overrides the body seeded into fresh documents.
	Placeholder string `yaml:"placeholder,omitempty"`

	// Storage selects the storage mode: "available" (the default) runs on a
	// scratch directory, "unavailable" forces the memory-only degradation.
	Storage string `yaml:"storage,omitempty"`

	// Steps contains the editing steps to execute in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final view and storage state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one editing step. Exactly one field must be set.
type Step struct {
	// Set replaces the whole document body.
	Set *string `yaml:"set,omitempty"`

	// Edit applies a single point edit.
	Edit *EditStep `yaml:"edit,omitempty"`

	// Save snapshots the current document now.
	Save bool `yaml:"save,omitempty"`

	// Flush appends buffered delta blobs to the store now.
	Flush bool `yaml:"flush,omitempty"`

	// Load switches to the named document, saving the current one first.
	Load string `yaml:"load,omitempty"`
}

// EditStep addresses one edit. Line and Col address the pre-edit view;
// Delete removes characters backward before Insert is applied.
type EditStep struct {
	Line   int    `yaml:"line"`
	Col    int    `yaml:"col"`
	Insert string `yaml:"insert,omitempty"`
	Delete int    `yaml:"delete,omitempty"`
}

// Assertion validates one aspect of the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "final_text": the final view body equals Text
	// - "version": the final view version equals Count
	// - "line_count": the final view has exactly Count lines
	// - "documents": the store holds exactly these document ids
	// - "delta_count": the current document has exactly Count delta records
	// - "last_error": the last recorded engine error contains Text
	Type string `yaml:"type"`

	// Text is the expected text (used by final_text, last_error).
	Text string `yaml:"text,omitempty"`

	// Count is the expected number (used by version, line_count, delta_count).
	Count int `yaml:"count,omitempty"`

	// Documents is the expected sorted id list (used by documents).
	Documents []string `yaml:"documents,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalText  = "final_text"
	AssertVersion    = "version"
	AssertLineCount  = "line_count"
	AssertDocuments  = "documents"
	AssertDeltaCount = "delta_count"
	AssertLastError  = "last_error"
)

// Storage mode constants.
const (
	StorageAvailable   = "available"
	StorageUnavailable = "unavailable"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "step:" vs "steps:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch s.Storage {
	case "", StorageAvailable, StorageUnavailable:
	default:
		return fmt.Errorf("storage must be %q or %q, got %q", StorageAvailable, StorageUnavailable, s.Storage)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep checks that a step names exactly one operation.
func validateStep(index int, s *Step) error {
	ops := 0
	if s.Set != nil {
		ops++
	}
	if s.Edit != nil {
		ops++
	}
	if s.Save {
		ops++
	}
	if s.Flush {
		ops++
	}
	if s.Load != "" {
		ops++
	}

	if ops == 0 {
		return fmt.Errorf("steps[%d]: one of set, edit, save, flush, load is required", index)
	}
	if ops > 1 {
		return fmt.Errorf("steps[%d]: exactly one operation per step", index)
	}

	if s.Edit != nil {
		if s.Edit.Insert == "" && s.Edit.Delete == 0 {
			return fmt.Errorf("steps[%d].edit: insert or delete is required", index)
		}
		if s.Edit.Delete < 0 {
			return fmt.Errorf("steps[%d].edit: delete must be non-negative", index)
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertFinalText:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for final_text", index)
		}
	case AssertVersion:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for version", index)
		}
	case AssertLineCount:
		if a.Count < 1 {
			return fmt.Errorf("assertions[%d]: count must be positive for line_count", index)
		}
	case AssertDocuments:
		// An empty documents list is a valid expectation.
	case AssertDeltaCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for delta_count", index)
		}
	case AssertLastError:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for last_error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
