package handler

import (
	"roadcheck/internal/inspection/models"
	"roadcheck/internal/inspection/service"
	rules "roadcheck/internal/rules/models"
	id "roadcheck/pkg/domain"
	dErrors "roadcheck/pkg/domain-errors"
)

type createInspectionRequest struct {
	AssetID        string `json:"asset_id"`
	RulesVersionID string `json:"rules_version_id,omitempty"`
	Inspector      string `json:"inspector,omitempty"`
}

func (r createInspectionRequest) toService(orgID id.OrgID, contextInspector string) (service.CreateInspectionRequest, error) {
	assetID, err := id.ParseAssetID(r.AssetID)
	if err != nil {
		return service.CreateInspectionRequest{}, dErrors.New(dErrors.CodeValidation, "asset_id must be a UUID")
	}

	req := service.CreateInspectionRequest{
		OrgID:     orgID,
		AssetID:   assetID,
		Inspector: r.Inspector,
	}
	if req.Inspector == "" {
		req.Inspector = contextInspector
	}
	if r.RulesVersionID != "" {
		versionID, err := id.ParseVersionID(r.RulesVersionID)
		if err != nil {
			return service.CreateInspectionRequest{}, dErrors.New(dErrors.CodeValidation, "rules_version_id must be a UUID")
		}
		req.RulesVersionID = &versionID
	}
	return req, nil
}

type findingRequest struct {
	FindingType    string               `json:"finding_type"`
	VMRSSystemCode *string              `json:"vmrs_system_code,omitempty"`
	Observations   rules.ObservationMap `json:"observations"`
}

type evaluateRequest struct {
	Findings []findingRequest `json:"findings"`
}

func (r evaluateRequest) toFindings() []models.Finding {
	findings := make([]models.Finding, 0, len(r.Findings))
	for _, f := range r.Findings {
		obs := f.Observations
		if obs == nil {
			obs = rules.ObservationMap{}
		}
		findings = append(findings, models.Finding{
			FindingType:    f.FindingType,
			VMRSSystemCode: f.VMRSSystemCode,
			Observations:   obs,
		})
	}
	return findings
}
