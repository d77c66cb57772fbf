package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Typed identifiers for the core entities. Wrapping uuid.UUID keeps store and
// service signatures honest: a RuleID cannot be passed where a VersionID is
// expected.
type (
	OrgID        uuid.UUID
	RuleID       uuid.UUID
	VersionID    uuid.UUID
	SourceID     uuid.UUID
	AssetID      uuid.UUID
	InspectionID uuid.UUID
	FindingID    uuid.UUID
)

func (id OrgID) String() string        { return uuid.UUID(id).String() }
func (id RuleID) String() string       { return uuid.UUID(id).String() }
func (id VersionID) String() string    { return uuid.UUID(id).String() }
func (id SourceID) String() string     { return uuid.UUID(id).String() }
func (id AssetID) String() string      { return uuid.UUID(id).String() }
func (id InspectionID) String() string { return uuid.UUID(id).String() }
func (id FindingID) String() string    { return uuid.UUID(id).String() }

func (id OrgID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id RuleID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id VersionID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id InspectionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id FindingID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// NewOrgID generates a fresh organization identifier.
func NewOrgID() OrgID { return OrgID(uuid.New()) }

// NewRuleID generates a fresh rule identifier.
func NewRuleID() RuleID { return RuleID(uuid.New()) }

// NewVersionID generates a fresh rule-version identifier.
func NewVersionID() VersionID { return VersionID(uuid.New()) }

// NewSourceID generates a fresh provenance source identifier.
func NewSourceID() SourceID { return SourceID(uuid.New()) }

// NewAssetID generates a fresh asset identifier.
func NewAssetID() AssetID { return AssetID(uuid.New()) }

// NewInspectionID generates a fresh inspection identifier.
func NewInspectionID() InspectionID { return InspectionID(uuid.New()) }

// NewFindingID generates a fresh finding identifier.
func NewFindingID() FindingID { return FindingID(uuid.New()) }

// ParseOrgID validates and returns an OrgID from its string form.
func ParseOrgID(s string) (OrgID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return OrgID{}, fmt.Errorf("invalid org id: %w", err)
	}
	return OrgID(u), nil
}

// ParseVersionID validates and returns a VersionID from its string form.
func ParseVersionID(s string) (VersionID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return VersionID{}, fmt.Errorf("invalid version id: %w", err)
	}
	return VersionID(u), nil
}

// ParseInspectionID validates and returns an InspectionID from its string form.
func ParseInspectionID(s string) (InspectionID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return InspectionID{}, fmt.Errorf("invalid inspection id: %w", err)
	}
	return InspectionID(u), nil
}

// ParseAssetID validates and returns an AssetID from its string form.
func ParseAssetID(s string) (AssetID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return AssetID{}, fmt.Errorf("invalid asset id: %w", err)
	}
	return AssetID(u), nil
}
