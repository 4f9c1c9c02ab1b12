package document

import "github.com/layered-lang/layered/compiler/diag"

// StepKind tags the workflow step variants
type StepKind int

const (
	StepCall StepKind = iota
	StepLoop
	StepParallel
	StepBranch
	StepWait
)

// String returns the string representation of the step kind
func (k StepKind) String() string {
	switch k {
	case StepCall:
		return "call"
	case StepLoop:
		return "loop"
	case StepParallel:
		return "parallel"
	case StepBranch:
		return "branch"
	case StepWait:
		return "wait"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for StepKind
func (k StepKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// Workflow is a named, ordered step sequence
type Workflow struct {
	Name     string        `json:"name"`
	Steps    []*Step       `json:"steps"`
	Location diag.Location `json:"-"`
}

// Step is the recursive workflow step variant. Exactly one of the
// detail fields matching Kind is populated.
type Step struct {
	Kind     StepKind      `json:"kind"`
	Call     *CallStep     `json:"call,omitempty"`
	Loop     *LoopStep     `json:"loop,omitempty"`
	Parallel *ParallelStep `json:"parallel,omitempty"`
	Branch   *BranchStep   `json:"branch,omitempty"`
	Wait     *WaitStep     `json:"wait,omitempty"`
	Location diag.Location `json:"-"`
}

// RetryPolicy is call step retry configuration, carried as data only
type RetryPolicy struct {
	MaxAttempts int    `json:"max_attempts,omitempty"`
	Backoff     string `json:"backoff,omitempty"`
}

// Handler is the target of on_error/on_timeout: either an operation
// name or a nested step sequence.
type Handler struct {
	Operation *Ref    `json:"operation,omitempty"`
	Steps     []*Step `json:"steps,omitempty"`
}

// CallStep invokes a logic operation
type CallStep struct {
	Operation *Ref         `json:"operation"`
	Condition string       `json:"condition,omitempty"`
	Retry     *RetryPolicy `json:"retry,omitempty"`
	OnError   *Handler     `json:"on_error,omitempty"`
	OnTimeout *Handler     `json:"on_timeout,omitempty"`
}

// LoopStep iterates a body over a collection or while a condition
// holds
type LoopStep struct {
	Over          string  `json:"over,omitempty"`
	While         string  `json:"while,omitempty"`
	Body          []*Step `json:"body"`
	MaxIterations int     `json:"max_iterations,omitempty"`
	Timeout       string  `json:"timeout,omitempty"`
}

// ParallelStep runs its body steps concurrently (as modeled data; the
// validator executes nothing)
type ParallelStep struct {
	Body []*Step `json:"body"`
}

// BranchCase is one (condition, body) arm; the first true condition
// wins.
type BranchCase struct {
	Condition string  `json:"condition"`
	Body      []*Step `json:"body"`
}

// BranchStep selects the first arm whose condition holds
type BranchStep struct {
	Cases []BranchCase `json:"cases"`
}

// WaitStep pauses for a duration or until a condition
type WaitStep struct {
	For     string `json:"for"`
	Timeout string `json:"timeout,omitempty"`
}

// WalkSteps applies fn to every step in the sequence, depth first,
// including handler bodies.
func WalkSteps(steps []*Step, fn func(*Step)) {
	for _, s := range steps {
		if s == nil {
			continue
		}
		fn(s)
		switch s.Kind {
		case StepCall:
			if s.Call != nil {
				if s.Call.OnError != nil {
					WalkSteps(s.Call.OnError.Steps, fn)
				}
				if s.Call.OnTimeout != nil {
					WalkSteps(s.Call.OnTimeout.Steps, fn)
				}
			}
		case StepLoop:
			if s.Loop != nil {
				WalkSteps(s.Loop.Body, fn)
			}
		case StepParallel:
			if s.Parallel != nil {
				WalkSteps(s.Parallel.Body, fn)
			}
		case StepBranch:
			if s.Branch != nil {
				for _, c := range s.Branch.Cases {
					WalkSteps(c.Body, fn)
				}
			}
		}
	}
}
