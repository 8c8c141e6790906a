package jsonrepair

import (
	"encoding/json"
	"strings"

	"github.com/flowsmith/flowsmith/utils/config"
)

// Repair strategy names, reported in Result.Strategy for diagnostics
const (
	StrategyDirect            = "direct-parse"
	StrategyTrailingComma     = "trailing-comma"
	StrategyBracketBalance    = "bracket-balance"
	StrategyTruncationSalvage = "truncation-salvage"
)

// Result is the outcome of a repair attempt. It is consumed immediately by
// the calling stage and never persisted.
type Result struct {
	Success bool
	// Data is the parsed value when Success is true
	Data interface{}
	// Repaired is the JSON text that parsed successfully
	Repaired string
	// Strategy names the repair path that fired; a diagnostic signal, not a
	// correctness guarantee
	Strategy string
	// Truncated marks a truncation-shaped input: unmatched open brackets or
	// an unterminated string at end of text
	Truncated bool
	// Err is a human-readable failure reason when Success is false
	Err string
}

type repairStrategy struct {
	name string
	fn   func(string) (string, bool)
}

// repairStrategies are applied in order, stopping at first success. Earlier
// strategies are cheaper and less destructive than later ones.
var repairStrategies = []repairStrategy{
	{StrategyDirect, func(s string) (string, bool) { return s, true }},
	{StrategyTrailingComma, stripTrailingCommas},
	{StrategyBracketBalance, balanceBrackets},
	{StrategyTruncationSalvage, salvageTruncated},
}

// Repair recovers a syntactically valid object from near-valid JSON text.
// Recovered data has not been validated; callers must still run it through
// the structural validator before trusting it.
func Repair(raw string) Result {
	raw = strings.TrimSpace(raw)
	truncated := looksTruncated(raw)

	for _, s := range repairStrategies {
		candidate, ok := s.fn(raw)
		if !ok {
			continue
		}
		var data interface{}
		if err := json.Unmarshal([]byte(candidate), &data); err != nil {
			config.DebugLog("[Repair] Strategy %s did not produce parseable JSON: %v", s.name, err)
			continue
		}
		if s.name != StrategyDirect {
			config.DebugLog("[Repair] Recovered JSON via %s strategy", s.name)
		}
		return Result{
			Success:   true,
			Data:      data,
			Repaired:  candidate,
			Strategy:  s.name,
			Truncated: truncated,
		}
	}

	reason := "response is not valid JSON and could not be repaired"
	if truncated {
		reason = "response appears to be truncated mid-object, likely because the model hit its output token limit"
	}
	return Result{Truncated: truncated, Err: reason}
}

// scan walks the text with string and escape state tracked, so brackets that
// appear inside quoted values are never miscounted. It returns the stack of
// unmatched open brackets and whether the text ends inside a string.
func scan(s string) (open []byte, inString bool) {
	var escaped bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			open = append(open, c)
		case '}':
			if len(open) > 0 && open[len(open)-1] == '{' {
				open = open[:len(open)-1]
			}
		case ']':
			if len(open) > 0 && open[len(open)-1] == '[' {
				open = open[:len(open)-1]
			}
		}
	}
	return open, inString
}

func looksTruncated(s string) bool {
	open, inString := scan(s)
	return len(open) > 0 || inString
}

// stripTrailingCommas removes commas that immediately precede a closing
// bracket or brace, outside of string values.
func stripTrailingCommas(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))

	var inString, escaped bool
	changed := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			b.WriteByte(c)
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			// Drop the comma when the next non-whitespace char closes a scope.
			j := i + 1
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				changed = true
				continue
			}
		}
		b.WriteByte(c)
	}

	return b.String(), changed
}

// balanceBrackets appends the closers missing from text that was cut off
// mid-object, in reverse nesting order. An unterminated string is closed
// first. This recovers output truncated by a token budget without touching
// any content already present.
func balanceBrackets(s string) (string, bool) {
	open, inString := scan(s)
	if len(open) == 0 && !inString {
		return "", false
	}

	repaired := s
	if inString {
		repaired += `"`
	}

	repaired = strings.TrimRight(repaired, " \t\r\n")
	trimmed := strings.TrimSuffix(repaired, ",")
	if trimmed != repaired {
		repaired = trimmed
	}
	if strings.HasSuffix(repaired, ":") {
		// A key with no value cannot be closed without inventing data.
		return "", false
	}

	for i := len(open) - 1; i >= 0; i-- {
		if open[i] == '{' {
			repaired += "}"
		} else {
			repaired += "]"
		}
	}
	return repaired, true
}

// salvageTruncated walks backward from the end of the text to the last
// complete element boundary, truncates there, and closes the remaining open
// brackets. The tail of the payload is sacrificed to save the rest; nothing
// is ever fabricated.
func salvageTruncated(s string) (string, bool) {
	cuts := elementBoundaries(s)
	// Trying every boundary on a large payload is wasted work; the useful cut
	// is always near the end.
	const maxAttempts = 64

	attempts := 0
	for i := len(cuts) - 1; i >= 0 && attempts < maxAttempts; i-- {
		attempts++
		prefix := strings.TrimRight(s[:cuts[i]], " \t\r\n")
		prefix = strings.TrimSuffix(prefix, ",")
		if prefix == "" || strings.HasSuffix(prefix, ":") {
			continue
		}

		open, inString := scan(prefix)
		if inString {
			continue
		}
		for j := len(open) - 1; j >= 0; j-- {
			if open[j] == '{' {
				prefix += "}"
			} else {
				prefix += "]"
			}
		}

		var data interface{}
		if err := json.Unmarshal([]byte(prefix), &data); err == nil {
			return prefix, true
		}
	}
	return "", false
}

// elementBoundaries returns positions where the text can be cut without
// splitting a string or an element: just after a closing bracket, or just
// before a separating comma.
func elementBoundaries(s string) []int {
	var cuts []int
	var inString, escaped bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '}', ']':
			cuts = append(cuts, i+1)
		case ',':
			cuts = append(cuts, i)
		}
	}
	return cuts
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
