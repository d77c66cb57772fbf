// Package audit records rule-set provenance and evaluation activity. The
// engine only writes here; nothing in evaluation reads audit data back.
package audit

import (
	"time"

	id "roadcheck/pkg/domain"
)

// Source is a provenance record describing where a rule set came from: the
// regulatory document a seeded catalogue mirrors, or a manual change entry.
type Source struct {
	ID        id.SourceID
	Authority string // e.g. "CVSA"
	Document  string // e.g. "North American Standard Out-of-Service Criteria"
	Edition   string // e.g. "2024"
	URL       string
	CreatedAt time.Time
}

// Action identifies what happened.
type Action string

const (
	ActionRuleVersionSeeded   Action = "rule_version_seeded"
	ActionRulesLoaded         Action = "rules_loaded"
	ActionRuleChangeRecorded  Action = "rule_change_recorded"
	ActionInspectionCreated   Action = "inspection_created"
	ActionInspectionEvaluated Action = "inspection_evaluated"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	OrgID     *id.OrgID
	Subject   string // entity the event is about (inspection ID, version ID)
	Action    Action
	Decision  string // outcome where applicable (PASS/FAIL/OOS, seeded/skipped)
	Reason    string
	RequestID string
}
