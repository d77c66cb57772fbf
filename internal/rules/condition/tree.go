package condition

import (
	"fmt"

	"roadcheck/internal/rules/models"
)

// MsgNoConditions is reported for rules stored without a condition tree.
const MsgNoConditions = "No conditions defined for this rule"

// Result is the outcome of evaluating a condition tree against one
// observation map.
type Result struct {
	Matched bool

	// MatchedConditions holds a human-readable trace entry for each leaf
	// that individually matched. For a failed AND group this can be
	// non-empty: it lists the sub-conditions that did match, which is useful
	// evidence but must not be read as proof the group matched.
	MatchedConditions []string

	// Message carries an explanatory note for degenerate trees (nil or
	// unrecognized node shapes). Empty for well-formed trees.
	Message string
}

// Evaluate recursively evaluates a condition tree. A nil tree never matches
// and returns an empty trace with an explanatory message.
func Evaluate(node *models.ConditionNode, obs models.ObservationMap) Result {
	if node == nil {
		return Result{Matched: false, Message: MsgNoConditions}
	}
	return evalNode(*node, obs)
}

func evalNode(node models.ConditionNode, obs models.ObservationMap) Result {
	switch node.Kind {
	case models.NodeLeaf:
		if EvalLeaf(node, obs) {
			return Result{Matched: true, MatchedConditions: []string{leafTrace(node)}}
		}
		return Result{}

	case models.NodeGroup:
		switch node.Logic {
		case models.LogicAnd:
			return evalAnd(node.Children, obs)
		case models.LogicOr:
			return evalOr(node.Children, obs)
		}
		return Result{}

	default:
		// Unrecognized stored shape: never matches.
		return Result{}
	}
}

// evalAnd evaluates every child with no early exit, so the trace still lists
// the sub-conditions that individually matched even when the group fails.
func evalAnd(children []models.ConditionNode, obs models.ObservationMap) Result {
	matched := true
	var trace []string
	for _, child := range children {
		res := evalNode(child, obs)
		if res.Matched {
			trace = append(trace, res.MatchedConditions...)
		} else {
			matched = false
		}
	}
	return Result{Matched: matched, MatchedConditions: trace}
}

// evalOr short-circuits on the first matching child and returns only that
// child's trace.
func evalOr(children []models.ConditionNode, obs models.ObservationMap) Result {
	for _, child := range children {
		res := evalNode(child, obs)
		if res.Matched {
			return Result{Matched: true, MatchedConditions: res.MatchedConditions}
		}
	}
	return Result{}
}

func leafTrace(leaf models.ConditionNode) string {
	if leaf.Operator == models.OpExists {
		return fmt.Sprintf("%s exists", leaf.Field)
	}
	return fmt.Sprintf("%s %s %s", leaf.Field, leaf.Operator, leaf.Value)
}
