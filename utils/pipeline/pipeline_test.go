package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/flowsmith/flowsmith/utils/models"
	"github.com/flowsmith/flowsmith/utils/workflow"
)

func newTestPipeline(provider models.Provider, limiter Limiter) *Pipeline {
	return New(provider, Options{
		Model:      "gpt-4o",
		MaxModules: 1,
		Limiter:    limiter,
	})
}

func TestRunSingleModule(t *testing.T) {
	provider := &mockProvider{
		responses: []models.Response{
			{Text: architectResponse},
			{Text: moduleResponseText},
			{Text: assemblerResponse},
		},
	}
	limiter := &countingLimiter{}
	p := newTestPipeline(provider, limiter)
	rec := &progressRecorder{}

	req := Request{Description: "Sync new Shopify orders into HubSpot and notify Slack"}
	result, err := p.Run(context.Background(), req, rec)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := len(result.Blueprint.Modules); got != 1 {
		t.Errorf("expected 1 module in blueprint, got %d", got)
	}
	if provider.calls != 3 {
		t.Errorf("expected exactly 3 model calls (architect, module, assembler), got %d", provider.calls)
	}
	if limiter.waits != 0 {
		t.Errorf("single-module run should never pace, got %d waits", limiter.waits)
	}

	if len(result.Modules) != 1 {
		t.Fatalf("expected 1 generated module, got %d", len(result.Modules))
	}
	if result.Modules[0].Name != "Order Sync" {
		t.Errorf("module name = %q, want %q", result.Modules[0].Name, "Order Sync")
	}

	if result.FinalWorkflow == nil {
		t.Fatal("final workflow is nil")
	}
	if err := workflow.Validate(result.FinalWorkflow); err != nil {
		t.Errorf("final workflow does not validate: %v", err)
	}
	if got := len(result.FinalWorkflow.Nodes); got != 3 {
		t.Errorf("final workflow has %d nodes, want 3", got)
	}

	// estimatedTotalNodes is 12, so ceil(12/5)=3 clamps up to the floor
	if result.CreditsUsed != 12 {
		t.Errorf("CreditsUsed = %d, want 12", result.CreditsUsed)
	}

	if result.SetupInstructions == "" {
		t.Error("setup instructions are empty")
	}
	for _, want := range []string{"shopify", "hubspot", "slack"} {
		if !strings.Contains(strings.ToLower(result.SetupInstructions), want) {
			t.Errorf("setup instructions missing integration %q", want)
		}
	}
}

func TestRunProgressSequence(t *testing.T) {
	provider := &mockProvider{
		responses: []models.Response{
			{Text: architectResponse},
			{Text: moduleResponseText},
			{Text: assemblerResponse},
		},
	}
	p := newTestPipeline(provider, NopLimiter{})
	rec := &progressRecorder{}

	req := Request{Description: "Sync new Shopify orders into HubSpot and notify Slack"}
	if _, err := p.Run(context.Background(), req, rec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(rec.updates) == 0 {
		t.Fatal("no progress updates emitted")
	}
	if rec.updates[0].Percent != 0 {
		t.Errorf("first update percent = %d, want 0", rec.updates[0].Percent)
	}
	last := rec.updates[len(rec.updates)-1]
	if last.Percent != 100 || last.Type != ProgressComplete {
		t.Errorf("last update = %+v, want percent 100 and type complete", last)
	}

	prev := -1
	for _, u := range rec.updates {
		if u.Type == ProgressError {
			t.Fatalf("unexpected error update: %v", u.Error)
		}
		if u.Percent < prev {
			t.Errorf("progress went backwards: %d after %d", u.Percent, prev)
		}
		prev = u.Percent
	}
}

const threeModuleArchitect = "```json\n" + `{
  "title": "Order Operations",
  "description": "Three stage order handling",
  "modules": [
    {"name": "Intake", "description": "Receive orders", "nodeCount": 4, "integrations": ["shopify"]},
    {"name": "Enrichment", "description": "Enrich records", "nodeCount": 5, "integrations": ["hubspot"]},
    {"name": "Notification", "description": "Notify the team", "nodeCount": 3, "integrations": ["slack"]}
  ],
  "dataFlow": "Intake feeds enrichment feeds notification",
  "errorHandling": "Dead letter to Slack",
  "estimatedTotalNodes": 12
}` + "\n```"

func TestRunAllOrNothing(t *testing.T) {
	// Module 2 of 3 returns prose with no JSON payload at all.
	provider := &mockProvider{
		responses: []models.Response{
			{Text: threeModuleArchitect},
			{Text: moduleResponseText},
			{Text: "I am unable to produce that module."},
		},
	}
	limiter := &countingLimiter{}
	p := New(provider, Options{Model: "gpt-4o", Limiter: limiter})
	rec := &progressRecorder{}

	result, err := p.Run(context.Background(), Request{Description: "order intake enrichment and notification"}, rec)
	if result != nil {
		t.Fatal("failed run must not return a partial result")
	}
	if err == nil {
		t.Fatal("expected an error")
	}

	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("error is %T, want *StageError", err)
	}
	if se.Stage != StageModules {
		t.Errorf("Stage = %q, want %q", se.Stage, StageModules)
	}
	if se.Module != "Enrichment" {
		t.Errorf("Module = %q, want %q", se.Module, "Enrichment")
	}
	if se.ModulesCompleted != 1 {
		t.Errorf("ModulesCompleted = %d, want 1", se.ModulesCompleted)
	}

	if limiter.waits != 1 {
		t.Errorf("expected one pacing wait before module 2, got %d", limiter.waits)
	}

	last := rec.updates[len(rec.updates)-1]
	if last.Type != ProgressError {
		t.Errorf("last progress update type = %q, want error", last.Type)
	}
}

func TestRunTruncatedArchitectResponse(t *testing.T) {
	// Cut off before the first module finished, so the salvaged blueprint has
	// an empty module list.
	provider := &mockProvider{
		responses: []models.Response{
			{Text: `{"title": "Order Pipeline", "modules": [{"name`, Truncated: true},
		},
	}
	p := newTestPipeline(provider, NopLimiter{})

	_, err := p.Run(context.Background(), Request{Description: "Sync new Shopify orders into HubSpot and notify Slack"}, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("error is %T, want *StageError", err)
	}
	if !se.Truncated {
		t.Error("Truncated flag not set on truncation failure")
	}
	if !strings.Contains(err.Error(), "split the request into multiple workflows") {
		t.Errorf("truncation error missing guidance: %v", err)
	}
}

func TestRunEmptyRequest(t *testing.T) {
	p := newTestPipeline(&mockProvider{}, NopLimiter{})
	_, err := p.Run(context.Background(), Request{Description: "   "}, nil)
	if err == nil {
		t.Fatal("expected an error for an empty description")
	}
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageSelect {
		t.Errorf("expected select-stage error, got %v", err)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &mockProvider{}
	p := newTestPipeline(provider, NopLimiter{})
	_, err := p.Run(ctx, Request{Description: "notify slack on new orders"}, nil)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error does not unwrap to context.Canceled: %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("cancelled run made %d model calls, want 0", provider.calls)
	}
}
