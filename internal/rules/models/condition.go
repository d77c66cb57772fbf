package models

import (
	"encoding/json"
	"strings"
)

// Operator is a leaf comparison operator. Unknown operators are preserved as
// raw strings; the evaluator treats them as never matching (fail-closed).
type Operator string

const (
	OpEq       Operator = "eq"
	OpNe       Operator = "ne"
	OpGt       Operator = "gt"
	OpLt       Operator = "lt"
	OpGte      Operator = "gte"
	OpLte      Operator = "lte"
	OpContains Operator = "contains"
	OpIn       Operator = "in"
	OpExists   Operator = "exists"
)

// Logic joins the children of a group node.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// NodeKind discriminates the condition-tree variants.
type NodeKind int

const (
	// NodeInvalid marks a node whose stored shape was unrecognized. Invalid
	// nodes never match.
	NodeInvalid NodeKind = iota
	NodeLeaf
	NodeGroup
)

// ConditionNode is one node of a rule's boolean expression: either a leaf
// comparison (field operator value) or an AND/OR group over children.
type ConditionNode struct {
	Kind NodeKind

	// Leaf fields.
	Field    string
	Operator Operator
	Value    Value

	// Group fields.
	Logic    Logic
	Children []ConditionNode
}

// Leaf constructs a leaf comparison node.
func Leaf(field string, op Operator, value Value) ConditionNode {
	return ConditionNode{Kind: NodeLeaf, Field: field, Operator: op, Value: value}
}

// And constructs an AND group over children.
func And(children ...ConditionNode) ConditionNode {
	return ConditionNode{Kind: NodeGroup, Logic: LogicAnd, Children: children}
}

// Or constructs an OR group over children.
func Or(children ...ConditionNode) ConditionNode {
	return ConditionNode{Kind: NodeGroup, Logic: LogicOr, Children: children}
}

// conditionJSON is the stored wire shape. Leaves and groups share the
// "operator" key: groups carry AND/OR plus children, leaves carry a comparison
// operator plus field/value.
type conditionJSON struct {
	Field    string          `json:"field,omitempty"`
	Operator string          `json:"operator"`
	Value    *Value          `json:"value,omitempty"`
	Children []ConditionNode `json:"children,omitempty"`
}

// MarshalJSON encodes the node in its stored shape.
func (n ConditionNode) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case NodeGroup:
		children := n.Children
		if children == nil {
			children = []ConditionNode{}
		}
		return json.Marshal(conditionJSON{
			Operator: string(n.Logic),
			Children: children,
		})
	case NodeLeaf:
		v := n.Value
		return json.Marshal(conditionJSON{
			Field:    n.Field,
			Operator: string(n.Operator),
			Value:    &v,
		})
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a stored condition tree. The node kind is inferred
// from shape: an AND/OR operator with children is a group, anything else with
// a field is a leaf. Unrecognized shapes decode to an invalid node rather
// than erroring, so one malformed rule cannot block loading a whole version.
func (n *ConditionNode) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*n = ConditionNode{Kind: NodeInvalid}
		return nil
	}

	var raw conditionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		*n = ConditionNode{Kind: NodeInvalid}
		return nil
	}

	switch Logic(strings.ToUpper(raw.Operator)) {
	case LogicAnd, LogicOr:
		*n = ConditionNode{
			Kind:     NodeGroup,
			Logic:    Logic(strings.ToUpper(raw.Operator)),
			Children: raw.Children,
		}
		return nil
	}

	if raw.Field == "" {
		*n = ConditionNode{Kind: NodeInvalid}
		return nil
	}

	value := Null()
	if raw.Value != nil {
		value = *raw.Value
	}
	*n = ConditionNode{
		Kind:     NodeLeaf,
		Field:    raw.Field,
		Operator: Operator(raw.Operator),
		Value:    value,
	}
	return nil
}
