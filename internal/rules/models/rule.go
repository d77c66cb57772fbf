package models

import (
	id "roadcheck/pkg/domain"
)

// Category scopes a rule to the part of an inspection it judges.
type Category string

const (
	CategoryVehicle Category = "VEHICLE"
	CategoryDriver  Category = "DRIVER"
	CategoryCargo   Category = "CARGO"
)

// Outcome is the consequence of a rule's condition tree matching a finding.
type Outcome string

const (
	OutcomeOOSVehicle Outcome = "OOS_VEHICLE"
	OutcomeOOSDriver  Outcome = "OOS_DRIVER"
	OutcomeOOSCargo   Outcome = "OOS_CARGO"
	OutcomeTriage     Outcome = "TRIAGE"
	OutcomeNotOOS     Outcome = "NOT_OOS"
)

// IsOOS reports whether the outcome places vehicle, driver, or cargo out of
// service. TRIAGE and NOT_OOS matches are recorded for audit but never
// escalate a finding.
func (o Outcome) IsOOS() bool {
	switch o {
	case OutcomeOOSVehicle, OutcomeOOSDriver, OutcomeOOSCargo:
		return true
	}
	return false
}

// Rule is a single testable compliance statement within a rule version.
//
// A rule's condition tree is immutable once its owning version is ACTIVE;
// changing criteria means publishing a new version.
type Rule struct {
	ID        id.RuleID
	VersionID id.VersionID
	Category  Category

	// VMRSSystemCode scopes the rule to findings for one vehicle system.
	// Nil means the rule applies regardless of the finding's system code.
	VMRSSystemCode *string

	Title               string
	ExplanationTemplate string

	// Condition is the boolean expression deciding whether the rule fires.
	// A nil condition never matches.
	Condition *ConditionNode

	Outcome Outcome

	// TriageOnly marks rules whose match requires human confirmation before
	// the outcome is treated as final.
	TriageOnly bool
}

// AppliesTo reports whether the rule is in scope for a finding's VMRS system
// code. An unscoped rule applies to everything.
func (r Rule) AppliesTo(findingSystemCode *string) bool {
	if r.VMRSSystemCode == nil {
		return true
	}
	if findingSystemCode == nil {
		return false
	}
	return *r.VMRSSystemCode == *findingSystemCode
}
