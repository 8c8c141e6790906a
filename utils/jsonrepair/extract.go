package jsonrepair

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/flowsmith/flowsmith/utils/config"
)

// ExtractOptions controls which extraction strategies are attempted
type ExtractOptions struct {
	// AnchorKeys must all be present in the candidate region for the anchored
	// scan to fire. Defaults to "nodes" and "connections" when empty.
	AnchorKeys []string
	// GreedyBraces enables the widest fallback: capture from the first "{" to
	// the last "}" anywhere in the text, tolerating an incomplete tail. Only
	// the assembly stage opts into this.
	GreedyBraces bool
}

var (
	fencedJSONRe = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	fencedAnyRe  = regexp.MustCompile("(?s)```\\w*\\s*(.*?)```")
)

// extractStrategy tries to isolate a JSON candidate from raw model output.
// Returns the candidate and true on success.
type extractStrategy struct {
	name string
	fn   func(text string, opts ExtractOptions) (string, bool)
}

// Strategies are tried in order; first success wins. New heuristics are
// appended here rather than threaded through conditionals.
var extractStrategies = []extractStrategy{
	{"fenced-json", extractFencedJSON},
	{"fenced-any", extractFencedAny},
	{"anchored-scan", extractAnchored},
	{"greedy-braces", extractGreedy},
}

// Extract locates the JSON payload embedded in raw model output. It returns
// the candidate string and the name of the strategy that found it. Failure to
// find any candidate is terminal for the calling stage and is not retried.
func Extract(text string, opts ExtractOptions) (string, string, error) {
	if len(opts.AnchorKeys) == 0 {
		opts.AnchorKeys = []string{"nodes", "connections"}
	}

	for _, s := range extractStrategies {
		if candidate, ok := s.fn(text, opts); ok {
			config.DebugLog("[Extract] Strategy %s isolated a %d-character candidate", s.name, len(candidate))
			return candidate, s.name, nil
		}
	}

	return "", "", fmt.Errorf("no JSON object found in model response")
}

func extractFencedJSON(text string, _ ExtractOptions) (string, bool) {
	m := fencedJSONRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	candidate := strings.TrimSpace(m[1])
	return candidate, candidate != ""
}

func extractFencedAny(text string, _ ExtractOptions) (string, bool) {
	m := fencedAnyRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	candidate := strings.TrimSpace(m[1])
	return candidate, strings.HasPrefix(candidate, "{")
}

// extractAnchored scans from the first "{" when the remaining text carries
// every anchor key, so prose before or after the object is discarded.
func extractAnchored(text string, opts ExtractOptions) (string, bool) {
	start := strings.Index(text, "{")
	if start < 0 {
		return "", false
	}

	tail := text[start:]
	for _, key := range opts.AnchorKeys {
		if !strings.Contains(tail, `"`+key+`"`) {
			return "", false
		}
	}

	if end := strings.LastIndex(tail, "}"); end >= 0 {
		return tail[:end+1], true
	}
	// The closing brace never arrived; hand the truncated tail to repair.
	return tail, true
}

func extractGreedy(text string, opts ExtractOptions) (string, bool) {
	if !opts.GreedyBraces {
		return "", false
	}
	start := strings.Index(text, "{")
	if start < 0 {
		return "", false
	}
	tail := text[start:]
	if end := strings.LastIndex(tail, "}"); end >= 0 {
		return tail[:end+1], true
	}
	return tail, true
}
