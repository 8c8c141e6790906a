package workflow

import (
	"strings"
	"testing"
)

func twoNodeGraph() *Graph {
	return &Graph{
		Name: "test",
		Nodes: []Node{
			{
				ID:          "7a9e1f04-0f1d-4a6b-9c3e-2b8d5f6a7c90",
				Name:        "Webhook",
				Type:        "n8n-nodes-base.webhook",
				TypeVersion: 1,
				Position:    []float64{250, 300},
			},
			{
				ID:          "8b0f2a15-1a2e-4b7c-8d4f-3c9e6a7b8d01",
				Name:        "Send Message",
				Type:        "n8n-nodes-base.slack",
				TypeVersion: 1,
				Position:    []float64{450, 300},
			},
		},
		Connections: map[string][]Connection{
			"Webhook": {{Node: "Send Message", Type: "main", Index: 0}},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Graph)
		nilIn   bool
		wantErr string
	}{
		{
			name:   "well-formed two-node graph passes",
			mutate: func(g *Graph) {},
		},
		{
			name:    "nil graph",
			nilIn:   true,
			wantErr: "nil",
		},
		{
			name:    "empty nodes list",
			mutate:  func(g *Graph) { g.Nodes = []Node{} },
			wantErr: "no nodes",
		},
		{
			name:    "missing connections map",
			mutate:  func(g *Graph) { g.Connections = nil },
			wantErr: "connections",
		},
		{
			name:    "node missing id",
			mutate:  func(g *Graph) { g.Nodes[0].ID = "" },
			wantErr: "missing an id",
		},
		{
			name:    "node missing name",
			mutate:  func(g *Graph) { g.Nodes[1].Name = "" },
			wantErr: "missing a name",
		},
		{
			name:    "node missing type",
			mutate:  func(g *Graph) { g.Nodes[0].Type = "" },
			wantErr: "missing a type",
		},
		{
			name:    "node missing position",
			mutate:  func(g *Graph) { g.Nodes[0].Position = nil },
			wantErr: "position",
		},
		{
			name:    "position with wrong arity",
			mutate:  func(g *Graph) { g.Nodes[0].Position = []float64{1, 2, 3} },
			wantErr: "position",
		},
		{
			name:    "duplicate node names",
			mutate:  func(g *Graph) { g.Nodes[1].Name = g.Nodes[0].Name },
			wantErr: "more than once",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g *Graph
			if !tt.nilIn {
				g = twoNodeGraph()
				tt.mutate(g)
			}
			err := Validate(g)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() returned nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

// A connection to an unknown node is reported, not fatal.
func TestValidateDanglingConnectionIsAdvisory(t *testing.T) {
	g := twoNodeGraph()
	g.Connections["Webhook"] = append(g.Connections["Webhook"], Connection{Node: "Ghost", Type: "main", Index: 0})

	if err := Validate(g); err != nil {
		t.Fatalf("Validate() error: %v, want dangling connection to be advisory", err)
	}

	dangling := g.DanglingConnections()
	if len(dangling) != 1 || dangling[0] != "Ghost" {
		t.Errorf("DanglingConnections() = %v, want [Ghost]", dangling)
	}
}

func TestNodeByName(t *testing.T) {
	g := twoNodeGraph()
	if n := g.NodeByName("Webhook"); n == nil || n.Type != "n8n-nodes-base.webhook" {
		t.Errorf("NodeByName(Webhook) = %v", n)
	}
	if n := g.NodeByName("Missing"); n != nil {
		t.Errorf("NodeByName(Missing) = %v, want nil", n)
	}
}
