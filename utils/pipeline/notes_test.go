package pipeline

import (
	"strings"
	"testing"

	"github.com/flowsmith/flowsmith/utils/workflow"
)

func TestBuildSetupInstructions(t *testing.T) {
	bp := &Blueprint{
		Title:         "Order Pipeline",
		Description:   "Moves orders from storefront to CRM",
		DataFlow:      "Storefront to CRM to chat",
		ErrorHandling: "Failures go to a dead-letter channel",
	}
	modules := []GeneratedModule{
		{
			Name:         "Intake",
			Description:  "Receives orders",
			Integrations: []string{"Shopify", "slack"},
			Workflow: workflow.Graph{Nodes: []workflow.Node{
				{ID: "a", Name: "A", Type: "t", Position: []float64{0, 0}},
				{ID: "b", Name: "B", Type: "t", Position: []float64{0, 0}},
			}},
		},
		{
			Name:         "Notify",
			Integrations: []string{"Slack", "HubSpot"},
			Workflow: workflow.Graph{Nodes: []workflow.Node{
				{ID: "c", Name: "C", Type: "t", Position: []float64{0, 0}},
			}},
		},
	}

	notes := buildSetupInstructions(bp, modules)

	for _, want := range []string{
		"# Setup Guide: Order Pipeline",
		"## Required Integrations",
		"## Module Breakdown",
		"1. **Intake** (2 nodes)",
		"2. **Notify** (1 nodes)",
		"## Data Flow",
		"## Error Handling",
		"## Activation Steps",
	} {
		if !strings.Contains(notes, want) {
			t.Errorf("setup instructions missing %q", want)
		}
	}

	// Duplicate integrations collapse case-insensitively; one Slack entry.
	if got := strings.Count(strings.ToLower(notes), "- slack"); got != 1 {
		t.Errorf("expected exactly one slack integration bullet, got %d", got)
	}
}

func TestCollectIntegrationsSortedAndDeduped(t *testing.T) {
	modules := []GeneratedModule{
		{Integrations: []string{"slack", "shopify", ""}},
		{Integrations: []string{"Slack", "hubspot"}},
	}
	got := collectIntegrations(modules)
	want := []string{"hubspot", "shopify", "slack"}
	if len(got) != len(want) {
		t.Fatalf("collectIntegrations returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("collectIntegrations[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
