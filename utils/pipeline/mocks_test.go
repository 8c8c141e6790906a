package pipeline

import (
	"context"
	"fmt"

	"github.com/flowsmith/flowsmith/utils/models"
)

// mockProvider implements models.Provider with scripted responses, one per
// call, in order
type mockProvider struct {
	responses []models.Response
	errs      []error
	calls     int
	prompts   []string
	systems   []string
}

func (m *mockProvider) Name() string              { return "mock" }
func (m *mockProvider) SupportsModel(string) bool { return true }
func (m *mockProvider) Configure(string) error    { return nil }
func (m *mockProvider) SetVerbose(bool)           {}

func (m *mockProvider) SendPrompt(ctx context.Context, modelName, prompt string, opts models.CallOptions) (*models.Response, error) {
	idx := m.calls
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.systems = append(m.systems, opts.SystemPrompt)

	if idx < len(m.errs) && m.errs[idx] != nil {
		return nil, m.errs[idx]
	}
	if idx >= len(m.responses) {
		return nil, fmt.Errorf("mock provider exhausted after %d calls", len(m.responses))
	}
	resp := m.responses[idx]
	return &resp, nil
}

// countingLimiter records how many times the pipeline paced a call
type countingLimiter struct {
	waits int
}

func (c *countingLimiter) Wait(ctx context.Context) error {
	c.waits++
	return ctx.Err()
}

// progressRecorder captures every update for assertion
type progressRecorder struct {
	updates []ProgressUpdate
}

func (r *progressRecorder) WriteProgress(update ProgressUpdate) error {
	r.updates = append(r.updates, update)
	return nil
}

const architectResponse = "Here is the architecture:\n```json\n" + `{
  "title": "Shopify to HubSpot Sync",
  "description": "Syncs new Shopify orders into HubSpot and notifies Slack",
  "modules": [
    {
      "name": "Order Sync",
      "description": "Capture Shopify orders, upsert HubSpot records, notify Slack",
      "nodeCount": 6,
      "integrations": ["shopify", "hubspot", "slack"],
      "dependsOn": []
    }
  ],
  "dataFlow": "Orders flow from Shopify into HubSpot, then to Slack",
  "errorHandling": "Failures are posted to a Slack channel",
  "estimatedTotalNodes": 12
}` + "\n```"

const moduleResponseText = `The module is ready: {
  "name": "Order Sync",
  "description": "Capture Shopify orders, upsert HubSpot records, notify Slack",
  "nodeCount": 3,
  "integrations": ["shopify", "hubspot", "slack"],
  "workflow": {
    "name": "Order Sync",
    "nodes": [
      {"id": "n1", "name": "New Order", "type": "n8n-nodes-base.shopifyTrigger", "typeVersion": 1, "position": [250, 300]},
      {"id": "n2", "name": "Upsert Contact", "type": "n8n-nodes-base.hubspot", "typeVersion": 1, "position": [450, 300]},
      {"id": "n3", "name": "Notify Slack", "type": "n8n-nodes-base.slack", "typeVersion": 1, "position": [650, 300]}
    ],
    "connections": {
      "New Order": [{"node": "Upsert Contact", "type": "main", "index": 0}],
      "Upsert Contact": [{"node": "Notify Slack", "type": "main", "index": 0}]
    }
  }
}`

const assemblerResponse = "```json\n" + `{
  "name": "Shopify to HubSpot Sync",
  "nodes": [
    {"id": "n1", "name": "New Order", "type": "n8n-nodes-base.shopifyTrigger", "typeVersion": 1, "position": [250, 300]},
    {"id": "n2", "name": "Upsert Contact", "type": "n8n-nodes-base.hubspot", "typeVersion": 1, "position": [450, 300]},
    {"id": "n3", "name": "Notify Slack", "type": "n8n-nodes-base.slack", "typeVersion": 1, "position": [650, 300]}
  ],
  "connections": {
    "New Order": [{"node": "Upsert Contact", "type": "main", "index": 0}],
    "Upsert Contact": [{"node": "Notify Slack", "type": "main", "index": 0}]
  },
  "settings": {}
}` + "\n```"
