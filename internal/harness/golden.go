package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot captures a scenario execution for golden comparison.
// Only deterministic facts appear here: delta record names carry UUIDv7
// suffixes, so the snapshot keeps counts and never names.
type TraceSnapshot struct {
	ScenarioName string      `json:"scenario_name"`
	Steps        []StepTrace `json:"steps"`
	FinalText    string      `json:"final_text"`
	Version      uint64      `json:"version"`
	Documents    []string    `json:"documents,omitempty"`
	DeltaCount   int         `json:"delta_count"`
}

// RunWithGolden executes a scenario and compares the trace against a golden
// file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the trace doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	AssertGolden(t, scenario.Name, result)
	return nil
}

// AssertGolden compares the given result against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Steps:        result.Steps,
		FinalText:    result.FinalView.Text(),
		Version:      result.FinalView.Version,
		Documents:    result.Documents,
		DeltaCount:   result.DeltaCount,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal trace snapshot: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
}
