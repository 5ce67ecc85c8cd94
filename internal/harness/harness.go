package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/roach88/kern/internal/bridge"
	"github.com/roach88/kern/internal/coordinator"
	"github.com/roach88/kern/internal/doc"
	"github.com/roach88/kern/internal/store"
	"github.com/roach88/kern/internal/testutil"
)

// scenarioEpoch is the deterministic clock start for every scenario run.
var scenarioEpoch = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

// Run executes a scenario against a fresh editor stack and returns the
// result.
//
// Each scenario runs on its own scratch storage directory for isolation,
// with a deterministic clock driving the coordinator's cadence decisions.
// Storage "unavailable" scenarios run on a root the store can never
// initialize, exercising the memory-only degradation.
//
// Execution flow:
// 1. Build the stack: bridge client, store, coordinator
// 2. Initialize the engine and restore the starting document
// 3. Execute steps in order, recording one trace entry each
// 4. Collect the final view and storage state
// 5. Evaluate assertions into the result
func Run(scenario *Scenario) (*Result, error) {
	root, cleanup, err := scenarioRoot(scenario.Storage)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	bopts := []bridge.Option{bridge.WithLogger(quiet)}
	if scenario.Placeholder != "" {
		bopts = append(bopts, bridge.WithBody(scenario.Placeholder))
	}
	client := bridge.NewClient(bopts...)
	defer client.Terminate()

	copts := []coordinator.Option{
		coordinator.WithClock(testutil.NewDeterministicClock(scenarioEpoch)),
		coordinator.WithLogger(quiet),
	}
	if scenario.Document != "" {
		copts = append(copts, coordinator.WithDocumentID(scenario.Document))
	}
	if scenario.Placeholder != "" {
		copts = append(copts, coordinator.WithPlaceholderBody(scenario.Placeholder))
	}

	st := store.New(root)
	coord := coordinator.New(client, st, copts...)

	ctx := context.Background()
	if err := coord.InitStore(ctx); err != nil {
		return nil, fmt.Errorf("failed to start editor stack: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := executeStep(ctx, coord, i, step, result); err != nil {
			return nil, err
		}
	}

	collectFinalState(coord, st, result)

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// scenarioRoot returns the storage root for a scenario run and a cleanup
// function. Unavailable mode hands back a path under a regular file, which
// the store cannot turn into its directory layout.
func scenarioRoot(storage string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "kern-harness-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create scenario root: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	if storage == StorageUnavailable {
		occupied := filepath.Join(dir, "occupied")
		if err := os.WriteFile(occupied, []byte{}, 0o644); err != nil {
			cleanup()
			return "", nil, fmt.Errorf("failed to occupy scenario root: %w", err)
		}
		return filepath.Join(occupied, "store"), cleanup, nil
	}

	return filepath.Join(dir, "store"), cleanup, nil
}

// executeStep runs one step and records its outcome in the result.
//
// Rejected edits do not abort the run: the coordinator swallows them and the
// trace records "rejected", so scenarios can assert on the recorded error.
// A failing load aborts the run since the stack's state is undefined after it.
func executeStep(ctx context.Context, coord *coordinator.Coordinator, index int, step Step, result *Result) error {
	switch {
	case step.Set != nil:
		before := coord.View().Version
		coord.SetDocumentText(ctx, *step.Set)
		result.AddStep("set", "", versionOutcome(coord, before))

	case step.Edit != nil:
		before := coord.View().Version
		coord.ApplyEdit(ctx, doc.EditDelta{
			Line:   step.Edit.Line,
			Col:    step.Edit.Col,
			Insert: step.Edit.Insert,
			Delete: step.Edit.Delete,
		})
		result.AddStep("edit", "", versionOutcome(coord, before))

	case step.Save:
		if err := coord.SaveDocument(ctx); err != nil {
			result.AddStep("save", "", "failed")
			return nil
		}
		result.AddStep("save", "", "ok")

	case step.Flush:
		coord.Flush(ctx)
		result.AddStep("flush", "", "ok")

	case step.Load != "":
		if err := coord.LoadDocument(ctx, step.Load); err != nil {
			return fmt.Errorf("step %d: load %s: %w", index, step.Load, err)
		}
		result.AddStep("load", step.Load, fmt.Sprintf("v%d", coord.View().Version))

	default:
		// validateScenario rules this out for loaded scenarios.
		return fmt.Errorf("step %d: no operation", index)
	}

	return nil
}

// versionOutcome reports how a mutation step ended: the new version when the
// view moved, "rejected" when it did not.
func versionOutcome(coord *coordinator.Coordinator, before uint64) string {
	version := coord.View().Version
	if version == before {
		return "rejected"
	}
	return fmt.Sprintf("v%d", version)
}

// collectFinalState captures the view and storage facts assertions run on.
func collectFinalState(coord *coordinator.Coordinator, st *store.Store, result *Result) {
	result.FinalView = coord.View()
	if err := coord.LastError(); err != nil {
		result.LastError = err.Error()
	}

	result.StorageAvailable = coord.StorageAvailable()
	if !result.StorageAvailable {
		return
	}

	result.Documents = coord.ListDocuments()
	names, err := st.ListUpdates(coord.CurrentDocumentID())
	if err != nil {
		result.AddError(fmt.Sprintf("failed to list delta records: %v", err))
		return
	}
	result.DeltaCount = len(names)
}
