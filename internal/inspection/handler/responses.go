package handler

import (
	"time"

	"roadcheck/internal/inspection/models"
	rules "roadcheck/internal/rules/models"
)

type findingResponse struct {
	ID                   string               `json:"id"`
	FindingType          string               `json:"finding_type"`
	VMRSSystemCode       *string              `json:"vmrs_system_code,omitempty"`
	Observations         rules.ObservationMap `json:"observations,omitempty"`
	Outcome              string               `json:"outcome,omitempty"`
	RequiresConfirmation bool                 `json:"requires_confirmation"`
}

func fromFinding(f models.Finding) findingResponse {
	return findingResponse{
		ID:                   f.ID.String(),
		FindingType:          f.FindingType,
		VMRSSystemCode:       f.VMRSSystemCode,
		Observations:         f.Observations,
		Outcome:              string(f.Outcome),
		RequiresConfirmation: f.RequiresConfirmation,
	}
}

type inspectionResponse struct {
	ID             string            `json:"id"`
	OrgID          string            `json:"org_id"`
	AssetID        string            `json:"asset_id"`
	RulesVersionID *string           `json:"rules_version_id,omitempty"`
	Status         string            `json:"status"`
	Inspector      string            `json:"inspector,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	Findings       []findingResponse `json:"findings,omitempty"`
}

func fromInspection(insp *models.Inspection, findings []models.Finding) inspectionResponse {
	resp := inspectionResponse{
		ID:        insp.ID.String(),
		OrgID:     insp.OrgID.String(),
		AssetID:   insp.AssetID.String(),
		Status:    string(insp.Status),
		Inspector: insp.Inspector,
		CreatedAt: insp.CreatedAt,
	}
	if insp.RulesVersionID != nil {
		v := insp.RulesVersionID.String()
		resp.RulesVersionID = &v
	}
	for _, f := range findings {
		resp.Findings = append(resp.Findings, fromFinding(f))
	}
	return resp
}

type triggeredRuleResponse struct {
	RuleID            string   `json:"rule_id"`
	Title             string   `json:"title"`
	Outcome           string   `json:"outcome"`
	MatchedConditions []string `json:"matched_conditions,omitempty"`
}

type evaluatedFindingResponse struct {
	findingResponse
	TriggeredRules []triggeredRuleResponse `json:"triggered_rules,omitempty"`
}

type oosItemResponse struct {
	RuleID      string `json:"rule_id"`
	FindingID   string `json:"finding_id"`
	Title       string `json:"title"`
	Outcome     string `json:"outcome"`
	Explanation string `json:"explanation"`
}

type evaluationResponse struct {
	InspectionID string                     `json:"inspection_id"`
	Status       string                     `json:"status"`
	Findings     []evaluatedFindingResponse `json:"findings"`
	OOSItems     []oosItemResponse          `json:"oos_items"`
}

func fromResult(result *models.EvaluationResult) evaluationResponse {
	resp := evaluationResponse{
		InspectionID: result.InspectionID.String(),
		Status:       string(result.Status),
		Findings:     make([]evaluatedFindingResponse, 0, len(result.Findings)),
		OOSItems:     make([]oosItemResponse, 0, len(result.OOSItems)),
	}
	for _, fe := range result.Findings {
		evaluated := evaluatedFindingResponse{findingResponse: fromFinding(fe.Finding)}
		for _, tr := range fe.TriggeredRules {
			evaluated.TriggeredRules = append(evaluated.TriggeredRules, triggeredRuleResponse{
				RuleID:            tr.RuleID.String(),
				Title:             tr.Title,
				Outcome:           string(tr.Outcome),
				MatchedConditions: tr.MatchedConditions,
			})
		}
		resp.Findings = append(resp.Findings, evaluated)
	}
	for _, item := range result.OOSItems {
		resp.OOSItems = append(resp.OOSItems, oosItemResponse{
			RuleID:      item.RuleID.String(),
			FindingID:   item.FindingID.String(),
			Title:       item.Title,
			Outcome:     string(item.Outcome),
			Explanation: item.Explanation,
		})
	}
	return resp
}
