// Package evaluator turns an inspection's findings and a resolved rule set
// into an overall determination. It is a pure function of its inputs: no
// clock, no storage, no hidden state, so the same inputs always reproduce
// the same result.
package evaluator

import (
	"fmt"
	"strings"

	"roadcheck/internal/inspection/models"
	"roadcheck/internal/rules/condition"
	rules "roadcheck/internal/rules/models"
	dErrors "roadcheck/pkg/domain-errors"
)

// TriagePrefix marks explanations that need inspector confirmation before
// the determination is treated as final.
const TriagePrefix = "[TRIAGE - Requires Confirmation]"

// Evaluate runs every applicable rule against every finding and aggregates
// the matches into an inspection status.
//
// The rule slice must already be in stable order (the repository returns
// rules ordered by ID); when several out-of-service rules match one finding,
// the last match in that order determines the finding's outcome. Rules whose
// outcome is TRIAGE or NOT_OOS are recorded in the finding's trace but never
// escalate the finding or the inspection.
func Evaluate(insp models.Inspection, findings []models.Finding, ruleSet []rules.Rule) (*models.EvaluationResult, error) {
	if insp.RulesVersionID == nil {
		return nil, dErrors.New(dErrors.CodeRuleVersionNotBound,
			"inspection has no rule version bound; evaluation would not be reproducible")
	}

	result := &models.EvaluationResult{
		InspectionID: insp.ID,
		Findings:     make([]models.FindingEvaluation, 0, len(findings)),
	}

	for _, finding := range findings {
		evaluated := evaluateFinding(finding, ruleSet)
		result.Findings = append(result.Findings, evaluated.FindingEvaluation)
		result.OOSItems = append(result.OOSItems, evaluated.oosItems...)
	}

	result.Status = aggregate(result.OOSItems)
	return result, nil
}

type findingResult struct {
	models.FindingEvaluation
	oosItems []models.OOSItem
}

func evaluateFinding(finding models.Finding, ruleSet []rules.Rule) findingResult {
	finding.Outcome = rules.OutcomeNotOOS
	finding.RequiresConfirmation = false

	out := findingResult{}

	for _, rule := range ruleSet {
		if !rule.AppliesTo(finding.VMRSSystemCode) {
			continue
		}

		res := condition.Evaluate(rule.Condition, finding.Observations)
		if !res.Matched {
			continue
		}

		out.TriggeredRules = append(out.TriggeredRules, models.TriggeredRule{
			RuleID:            rule.ID,
			Title:             rule.Title,
			Outcome:           rule.Outcome,
			MatchedConditions: res.MatchedConditions,
		})

		if !rule.Outcome.IsOOS() {
			continue
		}

		explanation := renderExplanation(rule, res.MatchedConditions)
		if rule.TriageOnly {
			finding.RequiresConfirmation = true
			explanation = TriagePrefix + " " + explanation
		}

		out.oosItems = append(out.oosItems, models.OOSItem{
			RuleID:      rule.ID,
			FindingID:   finding.ID,
			Title:       rule.Title,
			Outcome:     rule.Outcome,
			Explanation: explanation,
		})
		finding.Outcome = rule.Outcome
	}

	out.Finding = finding
	return out
}

// renderExplanation uses the rule's authored template verbatim, falling back
// to the matched-condition trace when no template was written.
func renderExplanation(rule rules.Rule, matched []string) string {
	if rule.ExplanationTemplate != "" {
		return rule.ExplanationTemplate
	}
	return fmt.Sprintf("Triggered by: %s", strings.Join(matched, ", "))
}

// aggregate folds the out-of-service items into one inspection status.
// Vehicle and driver items ground the operation outright; cargo-only items
// fail the inspection but release the vehicle once resolved.
func aggregate(items []models.OOSItem) models.InspectionStatus {
	if len(items) == 0 {
		return models.StatusPass
	}
	for _, item := range items {
		if item.Outcome == rules.OutcomeOOSVehicle || item.Outcome == rules.OutcomeOOSDriver {
			return models.StatusOOS
		}
	}
	return models.StatusFail
}
