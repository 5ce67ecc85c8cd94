package harness

import "github.com/roach88/kern/internal/doc"

// StepTrace records the outcome of one executed step.
type StepTrace struct {
	// Op is the step operation name ("set", "edit", "save", "flush", "load").
	Op string `json:"op"`

	// Target is the document id for load steps.
	Target string `json:"target,omitempty"`

	// Outcome is "v<N>" when the view moved to version N, "rejected" when
	// the engine refused the step, "ok" for save and flush.
	Outcome string `json:"outcome"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if every assertion holds.
	Pass bool `json:"pass"`

	// Steps contains one trace entry per executed step, in order.
	Steps []StepTrace `json:"steps"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// FinalView is the view published after the last step.
	FinalView doc.View `json:"final_view"`

	// StorageAvailable reports whether the scenario ran with working storage.
	StorageAvailable bool `json:"storage_available"`

	// Documents lists the stored document ids at the end, sorted.
	// Nil when storage was unavailable.
	Documents []string `json:"documents,omitempty"`

	// DeltaCount is the number of delta records the current document owns
	// at the end. Zero when storage was unavailable.
	DeltaCount int `json:"delta_count"`

	// LastError is the coordinator's last recorded engine or storage error,
	// empty if none was recorded.
	LastError string `json:"last_error,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepTrace{},
		Errors: []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStep appends one step outcome to the trace.
func (r *Result) AddStep(op, target, outcome string) {
	r.Steps = append(r.Steps, StepTrace{Op: op, Target: target, Outcome: outcome})
}
