package catalog

import (
	"encoding/json"

	"github.com/flowsmith/flowsmith/utils/workflow"
)

// Complexity tiers a reference example by the size and branching of its graph
type Complexity string

const (
	Simple  Complexity = "simple"
	Medium  Complexity = "medium"
	Complex Complexity = "complex"
)

// Example is an immutable catalog entry: a proven workflow graph plus the
// metadata the selector scores against. Entries are loaded once at process
// start and never mutated.
type Example struct {
	Name        string
	Description string
	Keywords    []string
	Category    string
	Complexity  Complexity
	NodeCount   int
	Workflow    workflow.Graph
}

// Preview renders the example's graph as indented JSON, truncated to limit
// characters, for embedding in a prompt.
func (e *Example) Preview(limit int) string {
	data, err := json.MarshalIndent(e.Workflow, "", "  ")
	if err != nil {
		return ""
	}
	if limit > 0 && len(data) > limit {
		return string(data[:limit]) + "\n... (truncated)"
	}
	return string(data)
}

// Examples returns the built-in reference catalog in its canonical order.
// Callers must treat the returned entries as read-only.
func Examples() []Example {
	return builtinCatalog
}

func node(id, name, typ string, x, y float64, params map[string]interface{}) workflow.Node {
	return workflow.Node{
		ID:          id,
		Name:        name,
		Type:        typ,
		TypeVersion: 1,
		Position:    []float64{x, y},
		Parameters:  params,
	}
}

func conn(target string) []workflow.Connection {
	return []workflow.Connection{{Node: target, Type: "main", Index: 0}}
}

var builtinCatalog = []Example{
	{
		Name:        "Shopify Order to CRM Sync",
		Description: "Captures new Shopify orders, enriches the customer record, and upserts a contact and deal into HubSpot",
		Keywords:    []string{"shopify", "hubspot", "orders", "crm", "sync", "ecommerce"},
		Category:    "sales",
		Complexity:  Medium,
		NodeCount:   5,
		Workflow: workflow.Graph{
			Name: "Shopify Order to CRM Sync",
			Nodes: []workflow.Node{
				node("9f1c2ab4-3c15-4f0e-9f51-0a9b1d2c3e41", "New Order Trigger", "n8n-nodes-base.shopifyTrigger", 250, 300,
					map[string]interface{}{"topic": "orders/create"}),
				node("b2d4e6f8-1a2b-4c3d-8e5f-6a7b8c9d0e12", "Enrich Customer", "n8n-nodes-base.set", 450, 300,
					map[string]interface{}{"keepOnlySet": false}),
				node("c3e5f7a9-2b3c-4d5e-9f6a-7b8c9d0e1f23", "Upsert Contact", "n8n-nodes-base.hubspot", 650, 200,
					map[string]interface{}{"resource": "contact", "operation": "upsert"}),
				node("d4f6a8b0-3c4d-4e5f-a06b-8c9d0e1f2a34", "Create Deal", "n8n-nodes-base.hubspot", 650, 400,
					map[string]interface{}{"resource": "deal", "operation": "create"}),
				node("e5a7b9c1-4d5e-4f60-b17c-9d0e1f2a3b45", "Log Result", "n8n-nodes-base.noOp", 850, 300, nil),
			},
			Connections: map[string][]workflow.Connection{
				"New Order Trigger": conn("Enrich Customer"),
				"Enrich Customer": {
					{Node: "Upsert Contact", Type: "main", Index: 0},
					{Node: "Create Deal", Type: "main", Index: 0},
				},
				"Upsert Contact": conn("Log Result"),
				"Create Deal":    conn("Log Result"),
			},
		},
	},
	{
		Name:        "Slack Alert Router",
		Description: "Receives webhook events, classifies severity, and notifies the right Slack channel with a formatted message",
		Keywords:    []string{"slack", "webhook", "notification", "alert", "routing"},
		Category:    "operations",
		Complexity:  Simple,
		NodeCount:   4,
		Workflow: workflow.Graph{
			Name: "Slack Alert Router",
			Nodes: []workflow.Node{
				node("11a2b3c4-d5e6-4f70-8a9b-0c1d2e3f4a51", "Incoming Event", "n8n-nodes-base.webhook", 250, 300,
					map[string]interface{}{"path": "alerts", "httpMethod": "POST"}),
				node("22b3c4d5-e6f7-4a80-9b0c-1d2e3f4a5b62", "Classify Severity", "n8n-nodes-base.switch", 450, 300,
					map[string]interface{}{"dataPropertyName": "severity"}),
				node("33c4d5e6-f7a8-4b90-a01d-2e3f4a5b6c73", "Notify Oncall", "n8n-nodes-base.slack", 650, 200,
					map[string]interface{}{"channel": "#oncall"}),
				node("44d5e6f7-a8b9-4ca0-b12e-3f4a5b6c7d84", "Notify Team", "n8n-nodes-base.slack", 650, 400,
					map[string]interface{}{"channel": "#alerts"}),
			},
			Connections: map[string][]workflow.Connection{
				"Incoming Event": conn("Classify Severity"),
				"Classify Severity": {
					{Node: "Notify Oncall", Type: "main", Index: 0},
					{Node: "Notify Team", Type: "main", Index: 0},
				},
			},
		},
	},
	{
		Name:        "Email Drip Campaign",
		Description: "Schedules a multi-step email sequence through Mailchimp with engagement checks between sends",
		Keywords:    []string{"email", "mailchimp", "marketing", "campaign", "schedule", "drip"},
		Category:    "marketing",
		Complexity:  Medium,
		NodeCount:   5,
		Workflow: workflow.Graph{
			Name: "Email Drip Campaign",
			Nodes: []workflow.Node{
				node("55e6f7a8-b9c0-4db1-8230-4a5b6c7d8e95", "Daily Schedule", "n8n-nodes-base.cron", 250, 300,
					map[string]interface{}{"triggerTimes": map[string]interface{}{"hour": 9}}),
				node("66f7a8b9-c0d1-4ec2-9341-5b6c7d8e9fa6", "Fetch Audience", "n8n-nodes-base.mailchimp", 450, 300,
					map[string]interface{}{"resource": "member", "operation": "getAll"}),
				node("77a8b9c0-d1e2-4fd3-a452-6c7d8e9f0ab7", "Check Engagement", "n8n-nodes-base.if", 650, 300,
					map[string]interface{}{"conditions": map[string]interface{}{"number": []interface{}{}}}),
				node("88b9c0d1-e2f3-40e4-b563-7d8e9f0a1bc8", "Send Next Email", "n8n-nodes-base.mailchimp", 850, 200,
					map[string]interface{}{"resource": "campaign", "operation": "send"}),
				node("99c0d1e2-f3a4-41f5-8674-8e9f0a1b2cd9", "Mark Dormant", "n8n-nodes-base.set", 850, 400, nil),
			},
			Connections: map[string][]workflow.Connection{
				"Daily Schedule":   conn("Fetch Audience"),
				"Fetch Audience":   conn("Check Engagement"),
				"Check Engagement": {{Node: "Send Next Email", Type: "main", Index: 0}, {Node: "Mark Dormant", Type: "main", Index: 0}},
			},
		},
	},
	{
		Name:        "Invoice Processing Pipeline",
		Description: "Watches a Google Drive folder for invoices, extracts totals, posts entries to QuickBooks, and files exceptions for review",
		Keywords:    []string{"invoice", "quickbooks", "google drive", "finance", "accounting", "approval"},
		Category:    "finance",
		Complexity:  Complex,
		NodeCount:   8,
		Workflow: workflow.Graph{
			Name: "Invoice Processing Pipeline",
			Nodes: []workflow.Node{
				node("aa0d1e2f-3a4b-42a6-9785-9f0a1b2c3dea", "New Invoice File", "n8n-nodes-base.googleDriveTrigger", 250, 300,
					map[string]interface{}{"event": "fileCreated"}),
				node("bb1e2f3a-4b5c-43b7-a896-0a1b2c3d4efb", "Download File", "n8n-nodes-base.googleDrive", 450, 300,
					map[string]interface{}{"operation": "download"}),
				node("cc2f3a4b-5c6d-44c8-b9a7-1b2c3d4e5f0c", "Extract Fields", "n8n-nodes-base.extractFromFile", 650, 300, nil),
				node("dd3a4b5c-6d7e-45d9-8ab8-2c3d4e5f6a1d", "Validate Totals", "n8n-nodes-base.if", 850, 300,
					map[string]interface{}{"combineOperation": "all"}),
				node("ee4b5c6d-7e8f-46ea-9bc9-3d4e5f6a7b2e", "Post to QuickBooks", "n8n-nodes-base.quickbooks", 1050, 200,
					map[string]interface{}{"resource": "invoice", "operation": "create"}),
				node("ff5c6d7e-8f90-47fb-acda-4e5f6a7b8c3f", "Queue for Review", "n8n-nodes-base.airtable", 1050, 400,
					map[string]interface{}{"operation": "append"}),
				node("0a6d7e8f-90a1-480c-bdeb-5f6a7b8c9d40", "Notify Finance", "n8n-nodes-base.slack", 1250, 400,
					map[string]interface{}{"channel": "#finance"}),
				node("1b7e8f90-a1b2-491d-8efc-6a7b8c9d0e51", "Archive File", "n8n-nodes-base.googleDrive", 1250, 200,
					map[string]interface{}{"operation": "move"}),
			},
			Connections: map[string][]workflow.Connection{
				"New Invoice File":   conn("Download File"),
				"Download File":      conn("Extract Fields"),
				"Extract Fields":     conn("Validate Totals"),
				"Validate Totals":    {{Node: "Post to QuickBooks", Type: "main", Index: 0}, {Node: "Queue for Review", Type: "main", Index: 0}},
				"Post to QuickBooks": conn("Archive File"),
				"Queue for Review":   conn("Notify Finance"),
			},
		},
	},
	{
		Name:        "Support Ticket Triage",
		Description: "Routes new Zendesk tickets by sentiment and urgency, escalating to Jira and notifying Slack for priority cases",
		Keywords:    []string{"zendesk", "jira", "slack", "support", "ticket", "triage", "escalation"},
		Category:    "support",
		Complexity:  Complex,
		NodeCount:   7,
		Workflow: workflow.Graph{
			Name: "Support Ticket Triage",
			Nodes: []workflow.Node{
				node("2c8f90a1-b2c3-4a2e-9f0d-7b8c9d0e1f62", "New Ticket", "n8n-nodes-base.zendeskTrigger", 250, 300, nil),
				node("3d90a1b2-c3d4-4b3f-a01e-8c9d0e1f2a73", "Score Urgency", "n8n-nodes-base.code", 450, 300,
					map[string]interface{}{"language": "javaScript"}),
				node("4ea1b2c3-d4e5-4c40-b12f-9d0e1f2a3b84", "Priority Branch", "n8n-nodes-base.if", 650, 300, nil),
				node("5fb2c3d4-e5f6-4d51-8230-0e1f2a3b4c95", "Escalate to Jira", "n8n-nodes-base.jira", 850, 200,
					map[string]interface{}{"operation": "create"}),
				node("60c3d4e5-f6a7-4e62-9341-1f2a3b4c5da6", "Page Oncall", "n8n-nodes-base.slack", 1050, 200,
					map[string]interface{}{"channel": "#support-escalations"}),
				node("71d4e5f6-a7b8-4f73-a452-2a3b4c5d6eb7", "Auto Reply", "n8n-nodes-base.zendesk", 850, 400,
					map[string]interface{}{"operation": "update"}),
				node("82e5f6a7-b8c9-4084-b563-3b4c5d6e7fc8", "Tag Ticket", "n8n-nodes-base.zendesk", 1050, 400,
					map[string]interface{}{"operation": "update"}),
			},
			Connections: map[string][]workflow.Connection{
				"New Ticket":       conn("Score Urgency"),
				"Score Urgency":    conn("Priority Branch"),
				"Priority Branch":  {{Node: "Escalate to Jira", Type: "main", Index: 0}, {Node: "Auto Reply", Type: "main", Index: 0}},
				"Escalate to Jira": conn("Page Oncall"),
				"Auto Reply":       conn("Tag Ticket"),
			},
		},
	},
	{
		Name:        "Lead Capture to Sheet",
		Description: "Appends form submissions from a webhook to a Google Sheets spreadsheet and sends a confirmation email",
		Keywords:    []string{"webhook", "google sheets", "form", "lead", "email"},
		Category:    "marketing",
		Complexity:  Simple,
		NodeCount:   3,
		Workflow: workflow.Graph{
			Name: "Lead Capture to Sheet",
			Nodes: []workflow.Node{
				node("93f6a7b8-c9d0-4195-8674-4c5d6e7f8ad9", "Form Webhook", "n8n-nodes-base.webhook", 250, 300,
					map[string]interface{}{"path": "lead-capture"}),
				node("a407b8c9-d0e1-42a6-9785-5d6e7f8a9bea", "Append Row", "n8n-nodes-base.googleSheets", 450, 300,
					map[string]interface{}{"operation": "append"}),
				node("b518c9d0-e1f2-43b7-a896-6e7f8a9b0cfb", "Send Confirmation", "n8n-nodes-base.emailSend", 650, 300, nil),
			},
			Connections: map[string][]workflow.Connection{
				"Form Webhook": conn("Append Row"),
				"Append Row":   conn("Send Confirmation"),
			},
		},
	},
	{
		Name:        "Deployment Status Reporter",
		Description: "Listens for GitHub deployment events, updates a status page, and posts release notes to Slack and Discord",
		Keywords:    []string{"github", "slack", "discord", "deployment", "devops", "release"},
		Category:    "devops",
		Complexity:  Medium,
		NodeCount:   5,
		Workflow: workflow.Graph{
			Name: "Deployment Status Reporter",
			Nodes: []workflow.Node{
				node("c629d0e1-f2a3-44c8-b9a7-7f8a9b0c1d0c", "Deployment Event", "n8n-nodes-base.githubTrigger", 250, 300,
					map[string]interface{}{"events": []interface{}{"deployment_status"}}),
				node("d73ae1f2-a3b4-45d9-8ab8-8a9b0c1d2e1d", "Format Notes", "n8n-nodes-base.set", 450, 300, nil),
				node("e84bf2a3-b4c5-46ea-9bc9-9b0c1d2e3f2e", "Update Status Page", "n8n-nodes-base.httpRequest", 650, 300,
					map[string]interface{}{"method": "POST"}),
				node("f95ca3b4-c5d6-47fb-acda-0c1d2e3f4a3f", "Post to Slack", "n8n-nodes-base.slack", 850, 200, nil),
				node("0a6db4c5-d6e7-480c-bdeb-1d2e3f4a5b40", "Post to Discord", "n8n-nodes-base.discord", 850, 400, nil),
			},
			Connections: map[string][]workflow.Connection{
				"Deployment Event":   conn("Format Notes"),
				"Format Notes":       conn("Update Status Page"),
				"Update Status Page": {{Node: "Post to Slack", Type: "main", Index: 0}, {Node: "Post to Discord", Type: "main", Index: 0}},
			},
		},
	},
}
