// Package service orchestrates the inspection lifecycle: creation binds the
// rule version in force, evaluation runs the rule engine over the findings
// and persists the determination.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"roadcheck/internal/audit"
	"roadcheck/internal/inspection/evaluator"
	"roadcheck/internal/inspection/metrics"
	"roadcheck/internal/inspection/models"
	rules "roadcheck/internal/rules/models"
	id "roadcheck/pkg/domain"
	dErrors "roadcheck/pkg/domain-errors"
	"roadcheck/pkg/platform/sentinel"
	"roadcheck/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// findingSaveConcurrency caps parallel finding writes per evaluation.
const findingSaveConcurrency = 4

type InspectionStore interface {
	Create(ctx context.Context, insp *models.Inspection) error
	FindByID(ctx context.Context, inspectionID id.InspectionID) (*models.Inspection, error)
	ListByOrg(ctx context.Context, orgID id.OrgID) ([]models.Inspection, error)
	UpdateStatus(ctx context.Context, inspectionID id.InspectionID, status models.InspectionStatus) error
}

type FindingStore interface {
	Save(ctx context.Context, f *models.Finding) error
	ListByInspection(ctx context.Context, inspectionID id.InspectionID) ([]models.Finding, error)
}

// RuleSource is the slice of the rules module the inspection flow needs.
type RuleSource interface {
	ResolveActiveVersion(ctx context.Context, orgID id.OrgID, asOf time.Time) (*rules.RuleVersion, error)
	RulesForVersion(ctx context.Context, versionID id.VersionID, requestingOrg *id.OrgID) ([]rules.Rule, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service runs inspection creation and evaluation.
type Service struct {
	inspections InspectionStore
	findings    FindingStore
	ruleSource  RuleSource

	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(inspections InspectionStore, findings FindingStore, ruleSource RuleSource, opts ...Option) *Service {
	s := &Service{
		inspections: inspections,
		findings:    findings,
		ruleSource:  ruleSource,
		logger:      slog.Default(),
		tracer:      otel.Tracer("roadcheck/inspection"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInspectionRequest carries the inputs for creating an inspection.
type CreateInspectionRequest struct {
	OrgID   id.OrgID
	AssetID id.AssetID

	// RulesVersionID pins an explicit version; when nil the active version
	// for the organization is resolved and frozen.
	RulesVersionID *id.VersionID

	Inspector string
}

// CreateInspection creates a PENDING inspection with its rule version frozen.
// When no version can be resolved the error carries NoActiveRuleVersion so
// the caller can surface the configuration gap instead of creating an
// inspection that could never be evaluated.
func (s *Service) CreateInspection(ctx context.Context, req CreateInspectionRequest) (*models.Inspection, error) {
	versionID := req.RulesVersionID
	if versionID == nil {
		v, err := s.ruleSource.ResolveActiveVersion(ctx, req.OrgID, requestcontext.Now(ctx))
		if err != nil {
			return nil, err
		}
		versionID = &v.ID
	}

	now := time.Now()
	insp := &models.Inspection{
		ID:             id.NewInspectionID(),
		OrgID:          req.OrgID,
		AssetID:        req.AssetID,
		RulesVersionID: versionID,
		Status:         models.StatusPending,
		Inspector:      req.Inspector,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.inspections.Create(ctx, insp); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create inspection")
	}

	s.metrics.IncrementCreated()
	s.logAudit(ctx, audit.ActionInspectionCreated, insp.OrgID, insp.ID.String(), "", "",
		"inspection_id", insp.ID,
		"asset_id", insp.AssetID,
		"rules_version_id", versionID,
	)
	return insp, nil
}

// GetInspection fetches one inspection with its findings, scoped to the
// caller's organization.
func (s *Service) GetInspection(ctx context.Context, orgID id.OrgID, inspectionID id.InspectionID) (*models.Inspection, []models.Finding, error) {
	insp, err := s.inspections.FindByID(ctx, inspectionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.New(dErrors.CodeNotFound, "inspection not found")
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load inspection")
	}
	if insp.OrgID != orgID {
		// Cross-tenant reads surface as absence.
		return nil, nil, dErrors.New(dErrors.CodeNotFound, "inspection not found")
	}

	findings, err := s.findings.ListByInspection(ctx, inspectionID)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load findings")
	}
	return insp, findings, nil
}

// ListInspections returns the caller's inspections, newest first.
func (s *Service) ListInspections(ctx context.Context, orgID id.OrgID) ([]models.Inspection, error) {
	inspections, err := s.inspections.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list inspections")
	}
	return inspections, nil
}

// EvaluateInspection loads the inspection's frozen rule set, evaluates the
// submitted findings, persists each evaluated finding, and updates the
// inspection status to the aggregate determination.
func (s *Service) EvaluateInspection(ctx context.Context, orgID id.OrgID, inspectionID id.InspectionID, findings []models.Finding) (*models.EvaluationResult, error) {
	ctx, span := s.tracer.Start(ctx, "inspection.evaluate")
	defer span.End()
	start := time.Now()

	insp, err := s.inspections.FindByID(ctx, inspectionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "inspection not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load inspection")
	}
	if insp.OrgID != orgID {
		return nil, dErrors.New(dErrors.CodeNotFound, "inspection not found")
	}
	if insp.RulesVersionID == nil {
		return nil, dErrors.New(dErrors.CodeRuleVersionNotBound,
			"inspection has no rule version bound; evaluation would not be reproducible")
	}
	span.SetAttributes(
		attribute.String("inspection.id", inspectionID.String()),
		attribute.String("rules.version_id", insp.RulesVersionID.String()),
		attribute.Int("findings.count", len(findings)),
	)

	ruleSet, err := s.ruleSource.RulesForVersion(ctx, *insp.RulesVersionID, &orgID)
	if err != nil {
		return nil, err
	}

	for i := range findings {
		if findings[i].ID.IsNil() {
			findings[i].ID = id.NewFindingID()
		}
		findings[i].InspectionID = inspectionID
	}

	result, err := evaluator.Evaluate(*insp, findings, ruleSet)
	if err != nil {
		return nil, err
	}

	if err := s.persistResult(ctx, result); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist evaluation")
	}

	s.metrics.ObserveEvaluateLatency(time.Since(start))
	s.metrics.IncrementEvaluation(string(result.Status))
	s.metrics.ObserveOOSItems(len(result.OOSItems))
	span.SetAttributes(attribute.String("inspection.status", string(result.Status)))

	s.logAudit(ctx, audit.ActionInspectionEvaluated, orgID, inspectionID.String(),
		string(result.Status), evaluationReason(result),
		"inspection_id", inspectionID,
		"status", result.Status,
		"oos_items", len(result.OOSItems),
		"rule_count", len(ruleSet),
	)
	return result, nil
}

// persistResult writes the evaluated findings concurrently, then the status.
// The status update runs last so a partially persisted evaluation never
// reads as complete.
func (s *Service) persistResult(ctx context.Context, result *models.EvaluationResult) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(findingSaveConcurrency)
	for i := range result.Findings {
		f := result.Findings[i].Finding
		g.Go(func() error {
			return s.findings.Save(gctx, &f)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return s.inspections.UpdateStatus(ctx, result.InspectionID, result.Status)
}

func evaluationReason(result *models.EvaluationResult) string {
	if len(result.OOSItems) == 0 {
		return "no out-of-service items"
	}
	return result.OOSItems[0].Explanation
}

func (s *Service) logAudit(ctx context.Context, action audit.Action, orgID id.OrgID, subject, decision, reason string, attributes ...any) {
	args := append(attributes, "action", action, "log_type", "audit")
	s.logger.InfoContext(ctx, string(action), args...)
	if s.auditPublisher == nil {
		return
	}
	event := audit.Event{
		OrgID:    &orgID,
		Subject:  subject,
		Action:   action,
		Decision: decision,
		Reason:   reason,
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", action, "error", err)
	}
}
