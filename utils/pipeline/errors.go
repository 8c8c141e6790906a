package pipeline

import (
	"fmt"
	"strings"
)

// Stage names carried by StageError
const (
	StageSelect    = "select"
	StageArchitect = "architect"
	StageModules   = "modules"
	StageAssemble  = "assemble"
	StageFinalize  = "finalize"
	StageComplete  = "complete"
)

// StageError is the single typed failure a run can produce. It carries the
// stage name, a truncated slice of the offending raw text, and whether the
// failure is truncation-shaped, so callers can surface the message verbatim.
type StageError struct {
	Stage string
	// Module names the specific module spec being generated, when applicable
	Module string
	// ModulesCompleted counts modules that had already finished before the
	// failure; their output is diagnostic context, not a usable result
	ModulesCompleted int
	// Snippet is a short prefix of the raw model response for diagnosis
	Snippet   string
	Truncated bool
	Err       error
}

func (e *StageError) Error() string {
	var b strings.Builder
	switch {
	case e.Module != "":
		fmt.Fprintf(&b, "%s stage failed on module %q: %v", e.Stage, e.Module, e.Err)
		if e.ModulesCompleted > 0 {
			fmt.Fprintf(&b, " (%d module(s) completed before the failure)", e.ModulesCompleted)
		}
	default:
		fmt.Fprintf(&b, "%s stage failed: %v", e.Stage, e.Err)
	}

	if e.Truncated {
		b.WriteString("; the model response was cut off by its output limit - reduce the number of integrations or split the request into multiple workflows")
	}
	if e.Snippet != "" {
		fmt.Fprintf(&b, " [response begins: %s]", e.Snippet)
	}
	return b.String()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// snippet returns a short prefix of raw model output for error context
func snippet(raw string) string {
	const limit = 200
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, "\n", " ")
	if len(raw) > limit {
		return raw[:limit] + "..."
	}
	return raw
}
