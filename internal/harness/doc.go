// Package harness provides acceptance testing for the editor stack.
//
// The harness brings up a fresh stack per scenario (engine bridge, file
// store, coordinator), executes a sequence of editing steps, and validates
// the resulting view and storage state.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	document: notes            # optional, starting document id
//	placeholder: "Start here"  # optional, body seeded into fresh documents
//	storage: available         # optional, "available" or "unavailable"
//	steps:
//	  - set: "hello\nworld"
//	  - edit: { line: 1, col: 5, insert: "!" }
//	  - save: true
//	  - flush: true
//	  - load: other
//	assertions:
//	  - type: final_text
//	    text: "hello\nworld!"
//	  - type: documents
//	    documents: [notes, other]
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - final_text: Verifies the final view body
//   - version: Verifies the final view version counter
//   - line_count: Verifies the number of lines in the final view
//   - documents: Verifies the exact sorted set of stored document ids
//   - delta_count: Verifies the number of delta records the current document owns
//   - last_error: Verifies the last recorded engine error contains a substring
//
// # Deterministic Testing
//
// Every scenario runs on a scratch storage directory with a deterministic
// clock (testutil.DeterministicClock) behind the coordinator, so the step
// trace is identical across runs and suitable for golden file comparison.
// Delta record names carry UUIDv7 suffixes and never appear in snapshots;
// only their counts do.
//
// # Usage
//
// Load and run a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/edit_then_save.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
