package plan

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// Ingest normalizes a raw EXPLAIN-shaped value into a canonical QueryPlan.
//
// The input is typically the decoded EXPLAIN (FORMAT JSON) document: a
// one-element array wrapping an object with a "Plan" tree, or that object
// directly. Key spelling is tolerated in both EXPLAIN form ("Node Type")
// and normalized form ("nodeType"). Anything uninterpretable degrades to a
// QueryPlan with an "Unknown" root rather than an error.
func Ingest(raw any) QueryPlan {
	entry := firstEntry(raw)
	if len(entry) == 0 {
		return Degenerate()
	}

	m := normalizeKeys(entry)

	// A bare node tree without the top-level wrapper is accepted as-is.
	if _, ok := m["plan"]; !ok {
		if _, ok := m["nodeType"]; ok {
			return QueryPlan{Plan: ingestNode(m)}
		}
		return Degenerate()
	}

	qp := QueryPlan{
		ExecutionTime: asFloat(m["executionTime"]),
		PlanningTime:  asFloat(m["planningTime"]),
		Query:         asString(m["query"]),
	}

	if ts, ok := m["triggers"].([]any); ok {
		qp.Triggers = ts
	}
	for _, w := range asSlice(m["warnings"]) {
		if s := asString(w); s != "" {
			qp.Warnings = append(qp.Warnings, s)
		}
	}

	if planMap, ok := m["plan"].(map[string]any); ok {
		qp.Plan = ingestNode(normalizeKeys(planMap))
	} else {
		qp.Plan = PlanNode{NodeType: "Unknown"}
	}

	return qp
}

// Decode parses raw JSON bytes and ingests the result. Unlike Ingest it
// reports malformed JSON, since callers feeding files or stdin want that
// surfaced instead of silently analyzing an empty plan.
func Decode(data []byte) (QueryPlan, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return QueryPlan{}, fmt.Errorf("invalid EXPLAIN JSON: %w", err)
	}
	return Ingest(raw), nil
}

// Degenerate is the structurally valid zero plan returned for empty or
// uninterpretable input.
func Degenerate() QueryPlan {
	return QueryPlan{Plan: PlanNode{NodeType: "Unknown"}}
}

// nodeFields are the normalized keys mapped onto PlanNode fields; every
// other key lands in Attrs.
var nodeFields = map[string]bool{
	"nodeType":          true,
	"relationName":      true,
	"startupCost":       true,
	"totalCost":         true,
	"planRows":          true,
	"planWidth":         true,
	"actualStartupTime": true,
	"actualTotalTime":   true,
	"actualRows":        true,
	"actualLoops":       true,
	"plans":             true,
	"children":          true,
	"attrs":             true,
}

func ingestNode(m map[string]any) PlanNode {
	node := PlanNode{
		NodeType:          asString(m["nodeType"]),
		RelationName:      asString(m["relationName"]),
		StartupCost:       asFloat(m["startupCost"]),
		TotalCost:         asFloat(m["totalCost"]),
		PlanRows:          asInt64(m["planRows"]),
		PlanWidth:         int(asInt64(m["planWidth"])),
		ActualStartupTime: asFloat(m["actualStartupTime"]),
		ActualTotalTime:   asFloat(m["actualTotalTime"]),
		ActualRows:        asInt64(m["actualRows"]),
		ActualLoops:       asInt64(m["actualLoops"]),
	}
	if node.NodeType == "" {
		node.NodeType = "Unknown"
	}

	for k, v := range m {
		if nodeFields[k] {
			continue
		}
		if node.Attrs == nil {
			node.Attrs = make(map[string]any)
		}
		node.Attrs[k] = v
	}

	// An already-canonical producer may hand over a nested attrs map.
	if attrs, ok := m["attrs"].(map[string]any); ok {
		if node.Attrs == nil {
			node.Attrs = make(map[string]any)
		}
		for k, v := range attrs {
			node.Attrs[k] = v
		}
	}

	children := asSlice(m["plans"])
	if children == nil {
		children = asSlice(m["children"])
	}
	for _, child := range children {
		childMap, ok := child.(map[string]any)
		if !ok {
			continue
		}
		node.Children = append(node.Children, ingestNode(normalizeKeys(childMap)))
	}

	return node
}

func firstEntry(raw any) map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		return v
	case []any:
		if len(v) == 0 {
			return nil
		}
		m, _ := v[0].(map[string]any)
		return m
	default:
		return nil
	}
}

func normalizeKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[normalizeKey(k)] = v
	}
	return out
}

// normalizeKey folds "Sort Method", "sort_method" and "sortMethod" into the
// single spelling "sortMethod".
func normalizeKey(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-' || r == '/'
	})
	if len(words) == 0 {
		return key
	}
	if len(words) == 1 {
		// Already separator-free; lowercase the first rune so camelCase
		// input passes through unchanged.
		runes := []rune(words[0])
		runes[0] = unicode.ToLower(runes[0])
		return string(runes)
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	}
	return 0
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return int64(f)
	}
	return 0
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}
