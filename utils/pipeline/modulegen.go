package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flowsmith/flowsmith/utils/catalog"
	"github.com/flowsmith/flowsmith/utils/config"
	"github.com/flowsmith/flowsmith/utils/jsonrepair"
	"github.com/flowsmith/flowsmith/utils/workflow"
)

// moduleResponse is the JSON shape the module prompt asks for
type moduleResponse struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	NodeCount    int            `json:"nodeCount"`
	Integrations []string       `json:"integrations"`
	Workflow     workflow.Graph `json:"workflow"`
}

// runModuleGenerator realizes one module spec against the frozen blueprint.
// Examples are re-selected from the module's own integration list, so each
// module is grounded by the references most relevant to it rather than a
// blueprint-wide set.
func (p *Pipeline) runModuleGenerator(ctx context.Context, bp *Blueprint, spec ModuleSpec, completed int) (*GeneratedModule, error) {
	fail := func(raw string, truncated bool, err error) (*GeneratedModule, error) {
		return nil, &StageError{
			Stage:            StageModules,
			Module:           spec.Name,
			ModulesCompleted: completed,
			Snippet:          snippet(raw),
			Truncated:        truncated,
			Err:              err,
		}
	}

	query := strings.Join(spec.Integrations, " ") + " " + spec.Description
	examples := catalog.Select(query, p.opts.ModuleExamples)
	config.DebugLog("[Pipeline] Module %q grounded by %d examples", spec.Name, len(examples))

	prompt := buildModulePrompt(bp, spec, examples)
	resp, err := p.callModel(ctx, StageModules, moduleSystemPrompt, prompt, moduleMaxTokens, moduleTemperature)
	if err != nil {
		return fail("", false, err)
	}

	candidate, _, err := jsonrepair.Extract(resp.Text, jsonrepair.ExtractOptions{})
	if err != nil {
		return fail(resp.Text, false, err)
	}

	res := jsonrepair.Repair(candidate)
	if !res.Success {
		return fail(resp.Text, res.Truncated, fmt.Errorf("%s", res.Err))
	}

	var mr moduleResponse
	if err := json.Unmarshal([]byte(res.Repaired), &mr); err != nil {
		return fail(res.Repaired, res.Truncated, fmt.Errorf("module payload has an unusable shape: %w", err))
	}
	if len(mr.Workflow.Nodes) == 0 {
		// Some models return the graph at the top level instead of nesting it.
		var g workflow.Graph
		if err := json.Unmarshal([]byte(res.Repaired), &g); err == nil && len(g.Nodes) > 0 {
			mr.Workflow = g
		}
	}

	if mr.Name == "" {
		mr.Name = spec.Name
	}
	if mr.Description == "" {
		mr.Description = spec.Description
	}
	if mr.NodeCount == 0 {
		mr.NodeCount = len(mr.Workflow.Nodes)
	}
	if len(mr.Integrations) == 0 {
		mr.Integrations = spec.Integrations
	}
	if mr.Workflow.Name == "" {
		mr.Workflow.Name = mr.Name
	}
	if mr.Workflow.Connections == nil && len(mr.Workflow.Nodes) == 1 {
		// A single-node fragment legitimately has nothing to connect.
		mr.Workflow.Connections = map[string][]workflow.Connection{}
	}

	if err := workflow.Validate(&mr.Workflow); err != nil {
		return fail(res.Repaired, res.Truncated, fmt.Errorf("generated module failed validation: %w", err))
	}

	return &GeneratedModule{
		Spec:         spec,
		Name:         mr.Name,
		Description:  mr.Description,
		NodeCount:    mr.NodeCount,
		Integrations: mr.Integrations,
		Workflow:     mr.Workflow,
	}, nil
}
