package handler

import (
	"time"

	"roadcheck/internal/rules/models"
	id "roadcheck/pkg/domain"
)

type seedResponse struct {
	VersionID     string `json:"version_id"`
	RuleCount     int    `json:"rule_count"`
	AlreadySeeded bool   `json:"already_seeded"`
}

type versionResponse struct {
	ID             string     `json:"id"`
	OrgID          *string    `json:"org_id,omitempty"`
	Name           string     `json:"name"`
	EffectiveStart time.Time  `json:"effective_start"`
	EffectiveEnd   *time.Time `json:"effective_end,omitempty"`
	Status         string     `json:"status"`
	SourceIDs      []string   `json:"source_ids,omitempty"`
}

func fromVersion(v *models.RuleVersion) versionResponse {
	resp := versionResponse{
		ID:             v.ID.String(),
		Name:           v.Name,
		EffectiveStart: v.EffectiveStart,
		EffectiveEnd:   v.EffectiveEnd,
		Status:         string(v.Status),
	}
	if v.OrgID != nil {
		s := v.OrgID.String()
		resp.OrgID = &s
	}
	for _, sid := range v.SourceIDs {
		resp.SourceIDs = append(resp.SourceIDs, sid.String())
	}
	return resp
}

type ruleResponse struct {
	ID                  string                `json:"id"`
	Category            string                `json:"category"`
	VMRSSystemCode      *string               `json:"vmrs_system_code,omitempty"`
	Title               string                `json:"title"`
	ExplanationTemplate string                `json:"explanation_template,omitempty"`
	Condition           *models.ConditionNode `json:"condition,omitempty"`
	Outcome             string                `json:"outcome"`
	TriageOnly          bool                  `json:"triage_only"`
}

type rulesResponse struct {
	VersionID string         `json:"version_id"`
	Rules     []ruleResponse `json:"rules"`
}

func fromRules(versionID id.VersionID, rules []models.Rule) rulesResponse {
	resp := rulesResponse{VersionID: versionID.String(), Rules: make([]ruleResponse, 0, len(rules))}
	for _, r := range rules {
		resp.Rules = append(resp.Rules, ruleResponse{
			ID:                  r.ID.String(),
			Category:            string(r.Category),
			VMRSSystemCode:      r.VMRSSystemCode,
			Title:               r.Title,
			ExplanationTemplate: r.ExplanationTemplate,
			Condition:           r.Condition,
			Outcome:             string(r.Outcome),
			TriageOnly:          r.TriageOnly,
		})
	}
	return resp
}
