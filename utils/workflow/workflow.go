package workflow

// Graph is an automation workflow: typed nodes plus a directed connection map.
// It is the common shape produced by every generation stage and by the final
// assembly step.
type Graph struct {
	Name        string                  `json:"name"`
	Nodes       []Node                  `json:"nodes"`
	Connections map[string][]Connection `json:"connections"`
	Settings    map[string]interface{}  `json:"settings,omitempty"`
	Meta        map[string]interface{}  `json:"meta,omitempty"`
}

// Node is a single step in a workflow graph. Type is opaque to this
// subsystem; Parameters are passed through untouched.
type Node struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Type        string                 `json:"type"`
	TypeVersion int                    `json:"typeVersion"`
	Position    []float64              `json:"position"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

// Connection points from a source node (the map key in Graph.Connections) to
// a target node's input slot.
type Connection struct {
	Node  string `json:"node"`
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// NodeByName returns the node with the given display name, or nil
func (g *Graph) NodeByName(name string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].Name == name {
			return &g.Nodes[i]
		}
	}
	return nil
}

// NodeNames returns the display names of all nodes in graph order
func (g *Graph) NodeNames() []string {
	names := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		names[i] = n.Name
	}
	return names
}

// DanglingConnections returns the names of connection targets that do not
// exist as nodes in the graph. Violations are reported by the validator, not
// silently fixed.
func (g *Graph) DanglingConnections() []string {
	known := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		known[n.Name] = true
	}

	var dangling []string
	seen := make(map[string]bool)
	for source, conns := range g.Connections {
		if !known[source] && !seen[source] {
			dangling = append(dangling, source)
			seen[source] = true
		}
		for _, c := range conns {
			if !known[c.Node] && !seen[c.Node] {
				dangling = append(dangling, c.Node)
				seen[c.Node] = true
			}
		}
	}
	return dangling
}
