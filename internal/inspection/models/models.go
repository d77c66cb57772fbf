// Package models defines inspections, findings, and the shapes an evaluation
// produces.
package models

import (
	"time"

	rules "roadcheck/internal/rules/models"
	id "roadcheck/pkg/domain"
)

// InspectionStatus is the overall determination for one inspection.
type InspectionStatus string

const (
	// StatusPending means the inspection exists but has not been evaluated.
	StatusPending InspectionStatus = "PENDING"

	// StatusPass means no rule produced an out-of-service item.
	StatusPass InspectionStatus = "PASS"

	// StatusFail means only cargo-class out-of-service items were produced.
	// The vehicle and driver may proceed once the cargo issue is addressed.
	StatusFail InspectionStatus = "FAIL"

	// StatusOOS means at least one vehicle or driver out-of-service item was
	// produced; the operation must not continue.
	StatusOOS InspectionStatus = "OOS"
)

// Inspection is one roadside inspection of an asset. The rule version is
// frozen at creation so re-evaluating a past inspection reproduces the
// determination made under the rules in force at the time.
type Inspection struct {
	ID      id.InspectionID
	OrgID   id.OrgID
	AssetID id.AssetID

	// RulesVersionID binds the inspection to the rule version governing it.
	// Nil only for records created before a version existed; evaluation
	// refuses to run without a binding.
	RulesVersionID *id.VersionID

	Status    InspectionStatus
	Inspector string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Finding is one inspected item within an inspection: a typed observation
// bag plus an optional VMRS system code scoping which rules apply to it.
type Finding struct {
	ID           id.FindingID
	InspectionID id.InspectionID
	FindingType  string

	// VMRSSystemCode classifies the vehicle system this finding concerns.
	// Nil findings are judged only by rules without a system code.
	VMRSSystemCode *string

	Observations rules.ObservationMap

	// Outcome and RequiresConfirmation are set by evaluation.
	Outcome              rules.Outcome
	RequiresConfirmation bool
}

// TriggeredRule records one rule match against one finding, kept for audit
// regardless of whether the match escalated the finding.
type TriggeredRule struct {
	RuleID            id.RuleID
	Title             string
	Outcome           rules.Outcome
	MatchedConditions []string
}

// OOSItem is one out-of-service determination: the rule that fired and the
// explanation shown to the inspector.
type OOSItem struct {
	RuleID      id.RuleID
	FindingID   id.FindingID
	Title       string
	Outcome     rules.Outcome
	Explanation string
}

// FindingEvaluation is the per-finding result: the finding with its outcome
// filled in, plus the full match trace.
type FindingEvaluation struct {
	Finding        Finding
	TriggeredRules []TriggeredRule
}

// EvaluationResult is the outcome of evaluating one inspection.
type EvaluationResult struct {
	InspectionID id.InspectionID
	Status       InspectionStatus
	Findings     []FindingEvaluation
	OOSItems     []OOSItem
}
