package pipeline

import "github.com/flowsmith/flowsmith/utils/workflow"

// Request is the caller-supplied input to one generation run
type Request struct {
	Description string `json:"description"`
	// Type optionally tags the kind of automation wanted (e.g. "sync",
	// "notification"); folded into example selection
	Type string `json:"type,omitempty"`
	// Integrations optionally hints at services the workflow must touch
	Integrations []string `json:"integrations,omitempty"`
}

// ModuleSpec is one element of a blueprint's module list. Pure data, never
// mutated after blueprint creation.
type ModuleSpec struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	NodeCount    int      `json:"nodeCount"`
	Integrations []string `json:"integrations"`
	DependsOn    []string `json:"dependsOn,omitempty"`
}

// Blueprint is the architectural plan produced before any graph nodes are
// generated. Immutable once produced; modules are generated against a frozen
// blueprint.
type Blueprint struct {
	Title               string       `json:"title"`
	Description         string       `json:"description"`
	Modules             []ModuleSpec `json:"modules"`
	DataFlow            string       `json:"dataFlow"`
	ErrorHandling       string       `json:"errorHandling"`
	EstimatedTotalNodes int          `json:"estimatedTotalNodes"`
}

// GeneratedModule pairs a module spec with its realized graph fragment
type GeneratedModule struct {
	Spec         ModuleSpec     `json:"spec"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	NodeCount    int            `json:"nodeCount"`
	Integrations []string       `json:"integrations"`
	Workflow     workflow.Graph `json:"workflow"`
}

// Result is the complete output of one successful generation run
type Result struct {
	Blueprint         *Blueprint        `json:"blueprint"`
	Modules           []GeneratedModule `json:"modules"`
	FinalWorkflow     *workflow.Graph   `json:"finalWorkflow"`
	SetupInstructions string            `json:"setupInstructions"`
	// CreditsUsed is derived billing metadata; nothing is charged here
	CreditsUsed int `json:"creditsUsed"`
}
