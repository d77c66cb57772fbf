package models

import (
	"time"

	id "roadcheck/pkg/domain"
)

// VersionStatus is the lifecycle state of a rule version.
type VersionStatus string

const (
	VersionDraft   VersionStatus = "DRAFT"
	VersionActive  VersionStatus = "ACTIVE"
	VersionRetired VersionStatus = "RETIRED"
)

// RuleVersion is an immutable, dated bundle of rules, typically tied to one
// edition of a regulatory criteria document.
//
// At most one version per (org, name) pair is expected to be concurrently
// ACTIVE and temporally valid at any instant; the resolver deterministically
// prefers tenant-specific versions when a global one also qualifies.
type RuleVersion struct {
	ID id.VersionID

	// OrgID scopes the version to one tenant. Nil means a global/default
	// version usable by any tenant when no tenant-specific version applies.
	OrgID *id.OrgID

	Name           string
	EffectiveStart time.Time

	// EffectiveEnd is nil for open-ended versions.
	EffectiveEnd *time.Time

	Status VersionStatus

	// SourceIDs link to the provenance records describing where this rule
	// set came from (regulatory documents, manual changes).
	SourceIDs []id.SourceID

	CreatedAt time.Time
}

// CoversInstant reports whether the version's effective window contains t.
func (v RuleVersion) CoversInstant(t time.Time) bool {
	if v.EffectiveStart.After(t) {
		return false
	}
	if v.EffectiveEnd != nil && v.EffectiveEnd.Before(t) {
		return false
	}
	return true
}

// OwnedBy reports whether the version belongs to orgID. Global versions
// (nil OrgID) are owned by no one and readable by everyone.
func (v RuleVersion) OwnedBy(orgID id.OrgID) bool {
	return v.OrgID != nil && *v.OrgID == orgID
}
