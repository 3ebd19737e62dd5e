package plan

// PlanNode is one operator in a canonical query plan tree.
//
// Only the fields every rule needs are modeled directly. Engine-specific
// keys ("Sort Method", "Index Name", ...) are preserved in Attrs under
// normalized lower-camel names so rules can read them without schema
// changes.
type PlanNode struct {
	NodeType     string `json:"nodeType"`
	RelationName string `json:"relationName,omitempty"`

	// Estimates vs actuals
	StartupCost       float64 `json:"startupCost,omitempty"`
	TotalCost         float64 `json:"totalCost,omitempty"`
	PlanRows          int64   `json:"planRows,omitempty"`
	PlanWidth         int     `json:"planWidth,omitempty"`
	ActualStartupTime float64 `json:"actualStartupTime,omitempty"`
	ActualTotalTime   float64 `json:"actualTotalTime,omitempty"`
	ActualRows        int64   `json:"actualRows,omitempty"`
	ActualLoops       int64   `json:"actualLoops,omitempty"`

	Attrs map[string]any `json:"attrs,omitempty"`

	Children []PlanNode `json:"children,omitempty"`
}

// QueryPlan is the canonical top-level capture of one EXPLAIN ANALYZE run.
type QueryPlan struct {
	ExecutionTime float64  `json:"executionTime"`
	PlanningTime  float64  `json:"planningTime"`
	Plan          PlanNode `json:"plan"`
	Triggers      []any    `json:"triggers,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
	Query         string   `json:"query,omitempty"`
}

// Attr returns the named extension attribute as a string, or "" when the
// attribute is absent or not string-valued.
func (n *PlanNode) Attr(key string) string {
	if n.Attrs == nil {
		return ""
	}
	s, _ := n.Attrs[key].(string)
	return s
}

// HasAttr reports whether the named extension attribute is present with a
// non-empty, non-zero value.
func (n *PlanNode) HasAttr(key string) bool {
	if n.Attrs == nil {
		return false
	}
	v, ok := n.Attrs[key]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case float64:
		return t != 0
	case int64:
		return t != 0
	case int:
		return t != 0
	case bool:
		return t
	}
	return true
}

// Label identifies a node for display, e.g. "Seq Scan on orders".
func (n *PlanNode) Label() string {
	if n.RelationName != "" {
		return n.NodeType + " on " + n.RelationName
	}
	return n.NodeType
}
