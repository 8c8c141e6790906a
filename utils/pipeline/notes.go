package pipeline

import (
	"fmt"
	"sort"
	"strings"
)

// buildSetupInstructions derives a plain-markdown activation guide from the
// blueprint and the generated modules. Purely derived text; nothing
// downstream re-parses it.
func buildSetupInstructions(bp *Blueprint, modules []GeneratedModule) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Setup Guide: %s\n\n", bp.Title)
	if bp.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", bp.Description)
	}

	integrations := collectIntegrations(modules)
	if len(integrations) > 0 {
		b.WriteString("## Required Integrations\n\n")
		b.WriteString("Create credentials for each of these services before activating the workflow:\n\n")
		for _, name := range integrations {
			fmt.Fprintf(&b, "- %s\n", name)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Module Breakdown\n\n")
	for i, m := range modules {
		fmt.Fprintf(&b, "%d. **%s** (%d nodes)", i+1, m.Name, len(m.Workflow.Nodes))
		if m.Description != "" {
			fmt.Fprintf(&b, " - %s", m.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if bp.DataFlow != "" {
		fmt.Fprintf(&b, "## Data Flow\n\n%s\n\n", bp.DataFlow)
	}
	if bp.ErrorHandling != "" {
		fmt.Fprintf(&b, "## Error Handling\n\n%s\n\n", bp.ErrorHandling)
	}

	b.WriteString(`## Activation Steps

1. Import the workflow JSON into your automation platform.
2. Attach credentials to every integration node listed above.
3. Review node parameters; generated values are starting points, not final configuration.
4. Run the workflow once manually and confirm each branch behaves as expected.
5. Enable the trigger node to activate the workflow.
`)

	return b.String()
}

func collectIntegrations(modules []GeneratedModule) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range modules {
		for _, integration := range m.Integrations {
			key := strings.ToLower(strings.TrimSpace(integration))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			names = append(names, strings.TrimSpace(integration))
		}
	}
	sort.Strings(names)
	return names
}
