package catalog

import (
	"sort"
	"strings"

	"github.com/flowsmith/flowsmith/utils/config"
)

// vocabulary is the fixed set of integration names and workflow-type nouns
// matched against request text. Matching is case-insensitive substring.
var vocabulary = []string{
	// integrations
	"shopify", "hubspot", "slack", "mailchimp", "zendesk", "jira", "github",
	"discord", "quickbooks", "airtable", "salesforce", "stripe", "gmail",
	"google sheets", "google drive", "notion", "trello", "twilio", "webhook",
	// workflow-type nouns
	"order", "invoice", "email", "crm", "sync", "notification", "alert",
	"campaign", "lead", "ticket", "support", "deployment", "schedule",
	"approval", "report", "escalation", "form",
}

// ExtractKeywords returns the vocabulary terms present in the request text,
// in vocabulary order.
func ExtractKeywords(requestText string) []string {
	lower := strings.ToLower(requestText)
	var found []string
	for _, term := range vocabulary {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}
	return found
}

type scoredExample struct {
	example Example
	score   int
	// position in the catalog, for stable tie-breaking
	order int
}

// Select scores every catalog entry against the request text and returns the
// top maxCount entries, best first; ties keep catalog order. When nothing
// selected carries the complex tier, the lowest-ranked selection is swapped
// for the best unused complex entry so large requests are always grounded by
// at least one substantial example. The swap never touches the top entry, so
// the best match always survives. Pure function: repeated calls return the
// same ordered list.
func Select(requestText string, maxCount int) []Example {
	if maxCount <= 0 {
		return nil
	}

	keywords := ExtractKeywords(requestText)
	config.DebugLog("[Selector] Extracted keywords from request: %v", keywords)

	entries := Examples()
	if len(keywords) == 0 {
		// Nothing to score against; fall back to the first complex entry so
		// the caller still has a substantial example to ground on.
		for _, e := range entries {
			if e.Complexity == Complex {
				config.DebugLog("[Selector] No keyword matches; falling back to complex example %q", e.Name)
				return []Example{e}
			}
		}
		return nil
	}

	scored := make([]scoredExample, 0, len(entries))
	for i, e := range entries {
		scored = append(scored, scoredExample{example: e, score: scoreExample(e, keywords), order: i})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	n := maxCount
	if n > len(scored) {
		n = len(scored)
	}
	selected := make([]scoredExample, n)
	copy(selected, scored[:n])

	if len(selected) > 1 {
		ensureComplexExample(&selected, scored)
	}

	result := make([]Example, len(selected))
	for i, s := range selected {
		config.DebugLog("[Selector] Selected %q (score %d, %s)", s.example.Name, s.score, s.example.Complexity)
		result[i] = s.example
	}
	return result
}

func scoreExample(e Example, keywords []string) int {
	score := 0
	descLower := strings.ToLower(e.Description)
	categoryLower := strings.ToLower(e.Category)

	for _, kw := range keywords {
		for _, ekw := range e.Keywords {
			if strings.EqualFold(kw, ekw) {
				score += 10
				break
			}
		}
		if strings.Contains(descLower, kw) {
			score += 5
		}
		if strings.Contains(categoryLower, kw) {
			score += 2
		}
	}
	return score
}

// ensureComplexExample swaps the lowest-ranked selection for the
// highest-scoring unused complex entry when no complex example made the cut.
func ensureComplexExample(selected *[]scoredExample, scored []scoredExample) {
	for _, s := range *selected {
		if s.example.Complexity == Complex {
			return
		}
	}

	chosen := make(map[int]bool, len(*selected))
	for _, s := range *selected {
		chosen[s.order] = true
	}

	for _, s := range scored {
		if s.example.Complexity == Complex && !chosen[s.order] {
			config.DebugLog("[Selector] Swapping in complex example %q for diversity", s.example.Name)
			(*selected)[len(*selected)-1] = s
			return
		}
	}
}
