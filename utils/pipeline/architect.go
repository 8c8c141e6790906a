package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flowsmith/flowsmith/utils/catalog"
	"github.com/flowsmith/flowsmith/utils/config"
	"github.com/flowsmith/flowsmith/utils/jsonrepair"
	"github.com/flowsmith/flowsmith/utils/models"
)

// Per-stage call budgets. The assembly call carries the largest payload so it
// gets the largest output budget of the three stages.
const (
	architectMaxTokens   = 4000
	architectTemperature = 0.7
	moduleMaxTokens      = 6000
	moduleTemperature    = 0.5
	assemblerMaxTokens   = 8000
	assemblerTemperature = 0.3
)

// callModel invokes the provider with stage-specific budgets, logging a
// truncation warning before any repair is attempted when the model reports it
// ran out of output tokens.
func (p *Pipeline) callModel(ctx context.Context, stage, system, prompt string, maxTokens int, temperature float64) (*models.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := p.provider.SendPrompt(ctx, p.opts.Model, prompt, models.CallOptions{
		SystemPrompt: system,
		MaxTokens:    maxTokens,
		Temperature:  temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	if resp.Truncated {
		config.VerboseLog("[Pipeline] %s response hit the output token limit; attempting repair of a truncated payload", stage)
	}
	return resp, nil
}

// runArchitect turns the request into a frozen blueprint. Extraction or
// repair failure here aborts the run; there is nothing to retry against.
func (p *Pipeline) runArchitect(ctx context.Context, req Request, examples []catalog.Example) (*Blueprint, error) {
	prompt := buildArchitectPrompt(req, p.opts.MaxModules, examples)

	resp, err := p.callModel(ctx, StageArchitect, architectSystemPrompt, prompt, architectMaxTokens, architectTemperature)
	if err != nil {
		return nil, &StageError{Stage: StageArchitect, Err: err}
	}

	candidate, _, err := jsonrepair.Extract(resp.Text, jsonrepair.ExtractOptions{
		AnchorKeys: []string{"modules"},
	})
	if err != nil {
		return nil, &StageError{Stage: StageArchitect, Snippet: snippet(resp.Text), Err: err}
	}

	res := jsonrepair.Repair(candidate)
	if !res.Success {
		return nil, &StageError{
			Stage:     StageArchitect,
			Snippet:   snippet(resp.Text),
			Truncated: res.Truncated,
			Err:       fmt.Errorf("%s", res.Err),
		}
	}

	var bp Blueprint
	if err := json.Unmarshal([]byte(res.Repaired), &bp); err != nil {
		return nil, &StageError{Stage: StageArchitect, Snippet: snippet(res.Repaired), Truncated: res.Truncated, Err: fmt.Errorf("blueprint has an unusable shape: %w", err)}
	}

	if len(bp.Modules) == 0 {
		// A salvaged-but-empty blueprint usually means the module list was in
		// the part of the payload that got cut off.
		return nil, &StageError{Stage: StageArchitect, Snippet: snippet(res.Repaired), Truncated: res.Truncated, Err: fmt.Errorf("blueprint contains no modules")}
	}
	if p.opts.MaxModules > 0 && len(bp.Modules) > p.opts.MaxModules {
		config.DebugLog("[Pipeline] Blueprint proposed %d modules; keeping the first %d", len(bp.Modules), p.opts.MaxModules)
		bp.Modules = bp.Modules[:p.opts.MaxModules]
	}
	if bp.Title == "" {
		bp.Title = "Generated Workflow"
	}
	if bp.EstimatedTotalNodes <= 0 {
		for _, m := range bp.Modules {
			bp.EstimatedTotalNodes += m.NodeCount
		}
	}

	config.DebugLog("[Pipeline] Blueprint %q: %d modules, ~%d nodes (repair strategy: %s)",
		bp.Title, len(bp.Modules), bp.EstimatedTotalNodes, res.Strategy)
	return &bp, nil
}
