// Package condition implements the leaf and tree evaluators for rule
// condition expressions. Evaluation is pure and fail-closed: malformed
// operators, type mismatches, and missing fields all evaluate to false,
// never to an error.
package condition

import (
	"strings"

	"roadcheck/internal/rules/models"
)

// EvalLeaf evaluates a single leaf comparison against the observation map.
//
// Semantics per operator:
//   - eq/ne: strict equality/inequality on the typed value; a field absent
//     from the map is never equal to anything (and therefore always "ne").
//   - gt/lt/gte/lte: numeric ordering; a non-numeric observed or comparison
//     value yields false.
//   - contains: case-insensitive substring match, strings only.
//   - in: true when the comparison value is a string list containing the
//     observed string.
//   - exists: field present and not null.
//
// Unknown operators yield false.
func EvalLeaf(leaf models.ConditionNode, obs models.ObservationMap) bool {
	observed, present := obs.Lookup(leaf.Field)

	switch leaf.Operator {
	case models.OpEq:
		return present && observed.Equal(leaf.Value)

	case models.OpNe:
		return !present || !observed.Equal(leaf.Value)

	case models.OpGt:
		a, b, ok := numericPair(observed, present, leaf.Value)
		return ok && a > b

	case models.OpLt:
		a, b, ok := numericPair(observed, present, leaf.Value)
		return ok && a < b

	case models.OpGte:
		a, b, ok := numericPair(observed, present, leaf.Value)
		return ok && a >= b

	case models.OpLte:
		a, b, ok := numericPair(observed, present, leaf.Value)
		return ok && a <= b

	case models.OpContains:
		if !present {
			return false
		}
		haystack, ok := observed.AsString()
		if !ok {
			return false
		}
		needle, ok := leaf.Value.AsString()
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))

	case models.OpIn:
		if !present {
			return false
		}
		list, ok := leaf.Value.AsList()
		if !ok {
			return false
		}
		s, ok := observed.AsString()
		if !ok {
			return false
		}
		for _, candidate := range list {
			if candidate == s {
				return true
			}
		}
		return false

	case models.OpExists:
		return present && !observed.IsNull()

	default:
		// Fail closed on operators the evaluator does not recognize.
		return false
	}
}

func numericPair(observed models.Value, present bool, comparison models.Value) (float64, float64, bool) {
	if !present {
		return 0, 0, false
	}
	a, ok := observed.AsNumber()
	if !ok {
		return 0, 0, false
	}
	b, ok := comparison.AsNumber()
	if !ok {
		return 0, 0, false
	}
	return a, b, true
}
