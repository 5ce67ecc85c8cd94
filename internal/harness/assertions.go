package harness

import (
	"fmt"
	"reflect"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string      // Assertion type for categorization
	Expected string      // Human-readable expected outcome
	Actual   string      // Human-readable actual outcome
	Steps    []StepTrace // Full step trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nSteps:\n")
	for i, step := range e.Steps {
		if step.Target != "" {
			fmt.Fprintf(&buf, "  [%d] %s %s -> %s\n", i+1, step.Op, step.Target, step.Outcome)
			continue
		}
		fmt.Fprintf(&buf, "  [%d] %s -> %s\n", i+1, step.Op, step.Outcome)
	}

	return buf.String()
}

// assertFinalText checks the final view body.
func assertFinalText(result *Result, assertion Assertion) error {
	actual := result.FinalView.Text()
	if actual == assertion.Text {
		return nil
	}
	return &AssertionError{
		Type:     AssertFinalText,
		Expected: fmt.Sprintf("%q", assertion.Text),
		Actual:   fmt.Sprintf("%q", actual),
		Steps:    result.Steps,
	}
}

// assertVersion checks the final view version.
func assertVersion(result *Result, assertion Assertion) error {
	if result.FinalView.Version == uint64(assertion.Count) {
		return nil
	}
	return &AssertionError{
		Type:     AssertVersion,
		Expected: fmt.Sprintf("version %d", assertion.Count),
		Actual:   fmt.Sprintf("version %d", result.FinalView.Version),
		Steps:    result.Steps,
	}
}

// assertLineCount checks the number of lines in the final view.
func assertLineCount(result *Result, assertion Assertion) error {
	if len(result.FinalView.Lines) == assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertLineCount,
		Expected: fmt.Sprintf("%d lines", assertion.Count),
		Actual:   fmt.Sprintf("%d lines", len(result.FinalView.Lines)),
		Steps:    result.Steps,
	}
}

// assertDocuments checks the exact sorted set of stored document ids.
func assertDocuments(result *Result, assertion Assertion) error {
	if !result.StorageAvailable {
		return &AssertionError{
			Type:     AssertDocuments,
			Expected: fmt.Sprintf("stored documents %v", assertion.Documents),
			Actual:   "storage unavailable in this scenario",
			Steps:    result.Steps,
		}
	}

	expected := assertion.Documents
	if expected == nil {
		expected = []string{}
	}
	actual := result.Documents
	if actual == nil {
		actual = []string{}
	}
	if reflect.DeepEqual(actual, expected) {
		return nil
	}
	return &AssertionError{
		Type:     AssertDocuments,
		Expected: fmt.Sprintf("%v", expected),
		Actual:   fmt.Sprintf("%v", actual),
		Steps:    result.Steps,
	}
}

// assertDeltaCount checks the number of delta records the current document
// owns.
func assertDeltaCount(result *Result, assertion Assertion) error {
	if !result.StorageAvailable {
		return &AssertionError{
			Type:     AssertDeltaCount,
			Expected: fmt.Sprintf("%d delta records", assertion.Count),
			Actual:   "storage unavailable in this scenario",
			Steps:    result.Steps,
		}
	}

	if result.DeltaCount == assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertDeltaCount,
		Expected: fmt.Sprintf("%d delta records", assertion.Count),
		Actual:   fmt.Sprintf("%d delta records", result.DeltaCount),
		Steps:    result.Steps,
	}
}

// assertLastError checks the recorded error message (substring match).
func assertLastError(result *Result, assertion Assertion) error {
	if strings.Contains(result.LastError, assertion.Text) && result.LastError != "" {
		return nil
	}
	return &AssertionError{
		Type:     AssertLastError,
		Expected: fmt.Sprintf("error containing %q", assertion.Text),
		Actual:   fmt.Sprintf("%q", result.LastError),
		Steps:    result.Steps,
	}
}

// EvaluateAssertions runs every assertion against the result and returns
// the failure messages. An empty slice means all assertions held.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error
		switch assertion.Type {
		case AssertFinalText:
			err = assertFinalText(result, assertion)
		case AssertVersion:
			err = assertVersion(result, assertion)
		case AssertLineCount:
			err = assertLineCount(result, assertion)
		case AssertDocuments:
			err = assertDocuments(result, assertion)
		case AssertDeltaCount:
			err = assertDeltaCount(result, assertion)
		case AssertLastError:
			err = assertLastError(result, assertion)
		default:
			err = fmt.Errorf("unknown assertion type %q", assertion.Type)
		}

		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}

	return errs
}
