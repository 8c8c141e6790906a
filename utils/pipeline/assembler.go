package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/flowsmith/flowsmith/utils/config"
	"github.com/flowsmith/flowsmith/utils/jsonrepair"
	"github.com/flowsmith/flowsmith/utils/workflow"
)

// runAssembler merges the generated modules into the final workflow graph.
// This call carries the largest payload, so it gets the widest extraction
// fallback; a truncation-shaped failure here must tell the user to reduce
// scope rather than surface a generic parse error.
func (p *Pipeline) runAssembler(ctx context.Context, bp *Blueprint, modules []GeneratedModule) (*workflow.Graph, error) {
	fail := func(raw string, truncated bool, err error) (*workflow.Graph, error) {
		return nil, &StageError{
			Stage:            StageAssemble,
			ModulesCompleted: len(modules),
			Snippet:          snippet(raw),
			Truncated:        truncated,
			Err:              err,
		}
	}

	prompt := buildAssemblerPrompt(bp, modules)
	resp, err := p.callModel(ctx, StageAssemble, assemblerSystemPrompt, prompt, assemblerMaxTokens, assemblerTemperature)
	if err != nil {
		return fail("", false, err)
	}

	candidate, _, err := jsonrepair.Extract(resp.Text, jsonrepair.ExtractOptions{GreedyBraces: true})
	if err != nil {
		return fail(resp.Text, false, err)
	}

	res := jsonrepair.Repair(candidate)
	if !res.Success {
		return fail(resp.Text, res.Truncated, fmt.Errorf("%s", res.Err))
	}

	var g workflow.Graph
	if err := json.Unmarshal([]byte(res.Repaired), &g); err != nil {
		return fail(res.Repaired, res.Truncated, fmt.Errorf("assembled workflow has an unusable shape: %w", err))
	}

	if g.Name == "" {
		g.Name = bp.Title
	}
	normalizeNodeIDs(&g)

	if err := workflow.Validate(&g); err != nil {
		return fail(res.Repaired, res.Truncated, fmt.Errorf("assembled workflow failed validation: %w", err))
	}

	config.DebugLog("[Pipeline] Assembled workflow %q: %d nodes (repair strategy: %s)", g.Name, len(g.Nodes), res.Strategy)
	return &g, nil
}

// normalizeNodeIDs replaces ids that are not UUID-shaped, or that collide,
// with fresh UUIDs. Connections key on node names, so rewriting ids never
// breaks the connection map.
func normalizeNodeIDs(g *workflow.Graph) {
	seen := make(map[string]bool, len(g.Nodes))
	for i := range g.Nodes {
		id := g.Nodes[i].ID
		if _, err := uuid.Parse(id); err != nil || seen[id] {
			fresh := uuid.NewString()
			config.DebugLog("[Pipeline] Replacing node id %q with %s", id, fresh)
			g.Nodes[i].ID = fresh
			id = fresh
		}
		seen[id] = true
	}
}
