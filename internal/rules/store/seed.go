// Package store holds cross-store rule data loading: the idempotent starter
// catalogue seeder used at bootstrap.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roadcheck/internal/audit"
	"roadcheck/internal/rules/models"
	id "roadcheck/pkg/domain"
	"roadcheck/pkg/platform/sentinel"
)

// StarterVersionName identifies the seeded catalogue. Seeding is idempotent
// per (org, name): a second call for the same tenant inserts nothing.
const StarterVersionName = "CVSA OOS Criteria 2024"

// VersionWriter is the slice of the version store the seeder needs.
type VersionWriter interface {
	Create(ctx context.Context, v *models.RuleVersion) error
	FindByName(ctx context.Context, orgID *id.OrgID, name string) (*models.RuleVersion, error)
}

// RuleWriter is the slice of the rule store the seeder needs.
type RuleWriter interface {
	CreateBatch(ctx context.Context, rules []*models.Rule) error
}

// SeedResult reports what seeding did.
type SeedResult struct {
	VersionID id.VersionID
	RuleCount int

	// Rules holds the installed catalogue on a fresh seed, empty otherwise.
	Rules []*models.Rule

	// AlreadySeeded is true when a version of that name/tenant existed and
	// nothing was inserted.
	AlreadySeeded bool
}

// SeedStarterRules inserts the starter rule catalogue, an ACTIVE open-ended
// version owning it, and a provenance record naming the source document.
// Passing a nil orgID seeds the global/default catalogue.
func SeedStarterRules(
	ctx context.Context,
	versions VersionWriter,
	rules RuleWriter,
	sources audit.SourceStore,
	orgID *id.OrgID,
) (*SeedResult, error) {
	if existing, err := versions.FindByName(ctx, orgID, StarterVersionName); err == nil {
		return &SeedResult{VersionID: existing.ID, AlreadySeeded: true}, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, fmt.Errorf("check existing starter version: %w", err)
	}

	now := time.Now()

	source := &audit.Source{
		ID:        id.NewSourceID(),
		Authority: "CVSA",
		Document:  "North American Standard Out-of-Service Criteria",
		Edition:   "2024",
		URL:       "https://www.cvsa.org/inspections/out-of-service-criteria/",
		CreatedAt: now,
	}
	if err := sources.Create(ctx, source); err != nil {
		return nil, fmt.Errorf("create starter provenance record: %w", err)
	}

	version := &models.RuleVersion{
		ID:             id.NewVersionID(),
		OrgID:          orgID,
		Name:           StarterVersionName,
		EffectiveStart: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		EffectiveEnd:   nil, // open-ended until a newer edition is published
		Status:         models.VersionActive,
		SourceIDs:      []id.SourceID{source.ID},
		CreatedAt:      now,
	}
	if err := versions.Create(ctx, version); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Lost a race with a concurrent seeder; treat as already seeded.
			if existing, findErr := versions.FindByName(ctx, orgID, StarterVersionName); findErr == nil {
				return &SeedResult{VersionID: existing.ID, AlreadySeeded: true}, nil
			}
		}
		return nil, fmt.Errorf("create starter version: %w", err)
	}

	catalogue := starterCatalogue(version.ID)
	if err := rules.CreateBatch(ctx, catalogue); err != nil {
		return nil, fmt.Errorf("insert starter rules: %w", err)
	}

	return &SeedResult{VersionID: version.ID, RuleCount: len(catalogue), Rules: catalogue}, nil
}

func strPtr(s string) *string { return &s }

func condPtr(n models.ConditionNode) *models.ConditionNode { return &n }

// starterCatalogue builds the fixed starter rule set. Rule IDs are generated
// per seeding; idempotence is enforced at the version level.
func starterCatalogue(versionID id.VersionID) []*models.Rule {
	return []*models.Rule{
		{
			ID:             id.NewRuleID(),
			VersionID:      versionID,
			Category:       models.CategoryVehicle,
			VMRSSystemCode: strPtr("013"),
			Title:          "Major air leak in brake system",
			ExplanationTemplate: "Audible air leak with major severity places the " +
				"vehicle out of service until repaired.",
			Condition: condPtr(models.And(
				models.Leaf("airLeak", models.OpEq, models.Bool(true)),
				models.Leaf("leakSeverity", models.OpEq, models.String("major")),
			)),
			Outcome:    models.OutcomeOOSVehicle,
			TriageOnly: true,
		},
		{
			ID:             id.NewRuleID(),
			VersionID:      versionID,
			Category:       models.CategoryVehicle,
			VMRSSystemCode: strPtr("013"),
			Title:          "Brake pushrod stroke beyond adjustment limit",
			Condition:      condPtr(models.Leaf("pushrodStrokeInches", models.OpGt, models.Number(2))),
			Outcome:        models.OutcomeOOSVehicle,
		},
		{
			ID:             id.NewRuleID(),
			VersionID:      versionID,
			Category:       models.CategoryVehicle,
			VMRSSystemCode: strPtr("017"),
			Title:          "Steer axle tread depth below minimum",
			ExplanationTemplate: "Tread depth under 2/32 inch on a steer or front " +
				"position tire is an out-of-service defect.",
			Condition: condPtr(models.And(
				models.Leaf("treadDepth", models.OpLt, models.Number(2)),
				models.Leaf("position", models.OpIn, models.List("steer", "front")),
			)),
			Outcome: models.OutcomeOOSVehicle,
		},
		{
			ID:             id.NewRuleID(),
			VersionID:      versionID,
			Category:       models.CategoryVehicle,
			VMRSSystemCode: strPtr("017"),
			Title:          "Flat tire or audible tire leak",
			Condition: condPtr(models.Or(
				models.Leaf("flatTire", models.OpEq, models.Bool(true)),
				models.Leaf("audibleLeak", models.OpEq, models.Bool(true)),
			)),
			Outcome: models.OutcomeOOSVehicle,
		},
		{
			ID:        id.NewRuleID(),
			VersionID: versionID,
			Category:  models.CategoryDriver,
			Title:     "Driving beyond hours-of-service limit",
			Condition: condPtr(models.Leaf("drivingHours", models.OpGt, models.Number(11))),
			Outcome:   models.OutcomeOOSDriver,
		},
		{
			ID:        id.NewRuleID(),
			VersionID: versionID,
			Category:  models.CategoryDriver,
			Title:     "Operating without a valid license",
			Condition: condPtr(models.Leaf("licenseValid", models.OpEq, models.Bool(false))),
			Outcome:   models.OutcomeOOSDriver,
		},
		{
			ID:        id.NewRuleID(),
			VersionID: versionID,
			Category:  models.CategoryCargo,
			Title:     "Insufficient cargo securement devices",
			Condition: condPtr(models.Leaf("missingTiedowns", models.OpGte, models.Number(1))),
			Outcome:   models.OutcomeOOSCargo,
		},
		{
			ID:             id.NewRuleID(),
			VersionID:      versionID,
			Category:       models.CategoryVehicle,
			VMRSSystemCode: strPtr("034"),
			Title:          "Lighting defect requiring review",
			Condition:      condPtr(models.Leaf("defect", models.OpContains, models.String("lamp"))),
			Outcome:        models.OutcomeTriage,
		},
		{
			ID:        id.NewRuleID(),
			VersionID: versionID,
			Category:  models.CategoryVehicle,
			Title:     "Wiper wear noted",
			Condition: condPtr(models.Leaf("wiperCondition", models.OpEq, models.String("worn"))),
			Outcome:   models.OutcomeNotOOS,
		},
	}
}
