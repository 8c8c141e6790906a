package jsonrepair

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRepairDirectParse(t *testing.T) {
	res := Repair(`{"name":"x","nodes":[],"connections":{}}`)
	if !res.Success {
		t.Fatalf("Repair() failed on valid JSON: %s", res.Err)
	}
	if res.Strategy != StrategyDirect {
		t.Errorf("Strategy = %q, want %q", res.Strategy, StrategyDirect)
	}
}

// Re-repairing already-repaired output must succeed via direct parse.
func TestRepairIdempotent(t *testing.T) {
	inputs := []string{
		`{"a":1,}`,
		`{"name":"x","nodes":[{"id":"1"`,
		`{"a":[1,2,],}`,
	}
	for _, input := range inputs {
		first := Repair(input)
		if !first.Success {
			t.Fatalf("Repair(%q) failed: %s", input, first.Err)
		}
		second := Repair(first.Repaired)
		if !second.Success {
			t.Fatalf("Repair of repaired output %q failed: %s", first.Repaired, second.Err)
		}
		if second.Strategy != StrategyDirect {
			t.Errorf("re-repair of %q used strategy %q, want %q", input, second.Strategy, StrategyDirect)
		}
	}
}

// A trailing comma with otherwise balanced brackets must be fixed by the
// trailing-comma strategy, never a later one.
func TestRepairStrategyOrdering(t *testing.T) {
	res := Repair(`{"a":1,"b":[1,2],}`)
	if !res.Success {
		t.Fatalf("Repair() failed: %s", res.Err)
	}
	if res.Strategy != StrategyTrailingComma {
		t.Errorf("Strategy = %q, want %q", res.Strategy, StrategyTrailingComma)
	}
}

func TestRepairBracketBalance(t *testing.T) {
	res := Repair(`{"name":"x","nodes":[{"id":"1"`)
	if !res.Success {
		t.Fatalf("Repair() failed: %s", res.Err)
	}
	if res.Strategy != StrategyBracketBalance {
		t.Errorf("Strategy = %q, want %q", res.Strategy, StrategyBracketBalance)
	}
	if !res.Truncated {
		t.Error("Truncated = false, want true for cut-off input")
	}

	// The recovered object must not contain anything absent from the input.
	obj, ok := res.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Data is %T, want map", res.Data)
	}
	if obj["name"] != "x" {
		t.Errorf("name = %v, want x", obj["name"])
	}
	nodes, ok := obj["nodes"].([]interface{})
	if !ok || len(nodes) > 1 {
		t.Fatalf("nodes = %v, want at most the one truncated entry", obj["nodes"])
	}
	if len(nodes) == 1 {
		node := nodes[0].(map[string]interface{})
		if len(node) > 1 || node["id"] != "1" {
			t.Errorf("recovered node %v fabricates data", node)
		}
	}
}

// Brackets inside string values must not confuse the balance scanner.
func TestRepairEscapeAware(t *testing.T) {
	res := Repair(`{"expr":"if { x } then [y]","nodes":[{"id":"1"`)
	if !res.Success {
		t.Fatalf("Repair() failed: %s", res.Err)
	}
	obj := res.Data.(map[string]interface{})
	if obj["expr"] != "if { x } then [y]" {
		t.Errorf("expr = %v; string content was mangled", obj["expr"])
	}
}

func TestRepairUnterminatedString(t *testing.T) {
	res := Repair(`{"name":"cut off mid valu`)
	if !res.Success {
		t.Fatalf("Repair() failed: %s", res.Err)
	}
	if _, ok := res.Data.(map[string]interface{}); !ok {
		t.Fatalf("Data is %T, want map", res.Data)
	}
}

func TestRepairTruncationSalvage(t *testing.T) {
	// A dangling key forces the balancer to give up; salvage must cut back
	// to the last complete element.
	res := Repair(`{"name":"x","nodes":[{"id":"1","name":"a"},{"id":"2","name":`)
	if !res.Success {
		t.Fatalf("Repair() failed: %s", res.Err)
	}
	if res.Strategy != StrategyTruncationSalvage {
		t.Errorf("Strategy = %q, want %q", res.Strategy, StrategyTruncationSalvage)
	}

	obj := res.Data.(map[string]interface{})
	nodes := obj["nodes"].([]interface{})
	if len(nodes) == 0 || len(nodes) > 2 {
		t.Fatalf("salvage kept %d nodes, want 1 or 2", len(nodes))
	}
	first := nodes[0].(map[string]interface{})
	if first["id"] != "1" || first["name"] != "a" {
		t.Errorf("first node = %v, want it intact", first)
	}
	if len(nodes) == 2 {
		// The tail node may survive in partial form, but only with values
		// actually present in the input.
		second := nodes[1].(map[string]interface{})
		if second["id"] != "2" || len(second) > 1 {
			t.Errorf("salvaged tail node = %v fabricates data", second)
		}
	}
}

func TestRepairFailureClassification(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantTruncated bool
	}{
		{
			name:          "unbalanced tail is truncation-shaped",
			input:         `{"a":{"b":{"c":`,
			wantTruncated: true,
		},
		{
			name:          "plain garbage is malformed",
			input:         `not even close to json`,
			wantTruncated: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Repair(tt.input)
			if res.Success {
				// Some truncation-shaped inputs are legitimately repairable;
				// only the classification of failures is under test here.
				if !tt.wantTruncated {
					t.Fatalf("Repair(%q) unexpectedly succeeded via %s", tt.input, res.Strategy)
				}
				return
			}
			if res.Truncated != tt.wantTruncated {
				t.Errorf("Truncated = %v, want %v (err: %s)", res.Truncated, tt.wantTruncated, res.Err)
			}
			if tt.wantTruncated && !strings.Contains(res.Err, "truncated") {
				t.Errorf("truncation-shaped failure message %q should say so", res.Err)
			}
		})
	}
}

func TestRepairPreservesValidPayload(t *testing.T) {
	const valid = `{"name":"wf","nodes":[{"id":"a","name":"A","type":"t","position":[1,2]}],"connections":{"A":[]}}`
	res := Repair(valid)
	if !res.Success || res.Strategy != StrategyDirect {
		t.Fatalf("Repair() = %+v, want direct success", res)
	}

	var want, got interface{}
	json.Unmarshal([]byte(valid), &want)
	json.Unmarshal([]byte(res.Repaired), &got)
	if !deepEqualJSON(want, got) {
		t.Error("direct parse modified the payload")
	}
}

func deepEqualJSON(a, b interface{}) bool {
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	return string(aj) == string(bj)
}
