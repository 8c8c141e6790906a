package workflow

import (
	"fmt"
	"strings"

	"github.com/flowsmith/flowsmith/utils/config"
)

// triggerTypeHints are substrings that mark a node type as an entry point
var triggerTypeHints = []string{"trigger", "webhook", "cron", "schedule"}

// Validate checks a graph against the minimal structural contract required
// for it to be a usable automation workflow. It returns an error on the first
// violation. Semantic correctness of node parameters is not checked here.
func Validate(g *Graph) error {
	if g == nil {
		return fmt.Errorf("workflow is nil")
	}

	if len(g.Nodes) == 0 {
		return fmt.Errorf("workflow has no nodes")
	}

	if g.Connections == nil {
		return fmt.Errorf("workflow is missing a connections map")
	}

	for i, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node %d (%q) is missing an id", i, n.Name)
		}
		if n.Name == "" {
			return fmt.Errorf("node %d is missing a name", i)
		}
		if n.Type == "" {
			return fmt.Errorf("node %q is missing a type", n.Name)
		}
		if len(n.Position) != 2 {
			return fmt.Errorf("node %q must have a 2-element position, got %d elements", n.Name, len(n.Position))
		}
	}

	if dup := duplicateNodeName(g); dup != "" {
		return fmt.Errorf("node name %q is used more than once", dup)
	}

	// Advisory checks: reported, never fatal.
	if !hasTriggerNode(g) {
		config.VerboseLog("Workflow %q has no trigger node; it will need to be started manually", g.Name)
	}
	if dangling := g.DanglingConnections(); len(dangling) > 0 {
		config.VerboseLog("Workflow %q references unknown nodes in connections: %s", g.Name, strings.Join(dangling, ", "))
	}

	return nil
}

func duplicateNodeName(g *Graph) string {
	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if seen[n.Name] {
			return n.Name
		}
		seen[n.Name] = true
	}
	return ""
}

func hasTriggerNode(g *Graph) bool {
	for _, n := range g.Nodes {
		lower := strings.ToLower(n.Type)
		for _, hint := range triggerTypeHints {
			if strings.Contains(lower, hint) {
				return true
			}
		}
	}
	return false
}
