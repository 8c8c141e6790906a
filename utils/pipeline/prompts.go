package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flowsmith/flowsmith/utils/catalog"
)

// examplePreviewChars bounds how much of each reference graph is embedded in
// a prompt, so grounding examples never crowd out the instruction itself
const examplePreviewChars = 1500

const architectSystemPrompt = `You are a senior automation architect. You decompose large automation
requirements into independent modules that can each be generated separately
and then assembled into one workflow. Respond with a single JSON object and
nothing else.`

const moduleSystemPrompt = `You are an automation workflow builder. You generate one self-contained
workflow module as a JSON object with a "workflow" containing "nodes" and
"connections". Respond with a single JSON object and nothing else.`

const assemblerSystemPrompt = `You are an automation workflow assembler. You merge independently generated
workflow modules into one coherent workflow graph, preserving every node and
adding the cross-module connections the data flow requires. Respond with a
single JSON object and nothing else.`

func buildArchitectPrompt(req Request, maxModules int, examples []catalog.Example) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Design the architecture for this automation:\n\n%s\n", req.Description)
	if req.Type != "" {
		fmt.Fprintf(&b, "\nWorkflow type: %s\n", req.Type)
	}
	if len(req.Integrations) > 0 {
		fmt.Fprintf(&b, "\nRequired integrations: %s\n", strings.Join(req.Integrations, ", "))
	}
	if maxModules > 0 {
		fmt.Fprintf(&b, "\nUse at most %d module(s).\n", maxModules)
	}

	writeExampleSection(&b, examples)

	b.WriteString(`
Respond with JSON in exactly this shape:
{
  "title": "...",
  "description": "...",
  "modules": [
    {"name": "...", "description": "...", "nodeCount": 5, "integrations": ["..."], "dependsOn": []}
  ],
  "dataFlow": "how data moves between modules",
  "errorHandling": "how failures are handled",
  "estimatedTotalNodes": 12
}`)
	return b.String()
}

func buildModulePrompt(bp *Blueprint, spec ModuleSpec, examples []catalog.Example) string {
	var b strings.Builder

	bpJSON, _ := json.MarshalIndent(bp, "", "  ")
	fmt.Fprintf(&b, "Overall workflow blueprint:\n%s\n", bpJSON)
	fmt.Fprintf(&b, "\nGenerate the module %q:\n%s\n", spec.Name, spec.Description)
	fmt.Fprintf(&b, "\nTarget node count: %d\n", spec.NodeCount)
	if len(spec.Integrations) > 0 {
		fmt.Fprintf(&b, "Integrations: %s\n", strings.Join(spec.Integrations, ", "))
	}
	if len(spec.DependsOn) > 0 {
		fmt.Fprintf(&b, "This module consumes output from: %s\n", strings.Join(spec.DependsOn, ", "))
	}

	writeExampleSection(&b, examples)

	b.WriteString(`
Respond with JSON in exactly this shape:
{
  "name": "...",
  "description": "...",
  "nodeCount": 5,
  "integrations": ["..."],
  "workflow": {
    "name": "...",
    "nodes": [{"id": "...", "name": "...", "type": "...", "typeVersion": 1, "position": [250, 300], "parameters": {}}],
    "connections": {"Source Node": [{"node": "Target Node", "type": "main", "index": 0}]}
  }
}
Every node name must be unique. Every connection must reference a node that exists in this module.`)
	return b.String()
}

func buildAssemblerPrompt(bp *Blueprint, modules []GeneratedModule) string {
	var b strings.Builder

	bpJSON, _ := json.MarshalIndent(bp, "", "  ")
	fmt.Fprintf(&b, "Blueprint:\n%s\n", bpJSON)

	b.WriteString("\nGenerated modules, in order:\n")
	for i, m := range modules {
		wfJSON, _ := json.MarshalIndent(m.Workflow, "", "  ")
		fmt.Fprintf(&b, "\n--- Module %d: %s ---\n%s\n", i+1, m.Name, wfJSON)
	}

	b.WriteString(`
Merge all modules into one final workflow. Keep every node, rename nodes only
when names collide across modules, and add the cross-module connections the
blueprint's data flow describes.

Respond with JSON in exactly this shape:
{
  "name": "...",
  "nodes": [...all nodes from all modules...],
  "connections": {...all connections, including the new cross-module ones...},
  "settings": {}
}`)
	return b.String()
}

func writeExampleSection(b *strings.Builder, examples []catalog.Example) {
	if len(examples) == 0 {
		return
	}
	b.WriteString("\nReference examples of well-formed workflows:\n")
	for _, e := range examples {
		fmt.Fprintf(b, "\n### %s (%s, %d nodes)\n%s\n%s\n",
			e.Name, e.Complexity, e.NodeCount, e.Description, e.Preview(examplePreviewChars))
	}
}
