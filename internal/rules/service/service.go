// Package service hosts the rule version resolver and the rule repository:
// the read path every inspection evaluation goes through, plus catalogue
// seeding for bootstrap.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"roadcheck/internal/audit"
	"roadcheck/internal/rules/cache"
	"roadcheck/internal/rules/metrics"
	"roadcheck/internal/rules/models"
	"roadcheck/internal/rules/store"
	id "roadcheck/pkg/domain"
	dErrors "roadcheck/pkg/domain-errors"
	"roadcheck/pkg/platform/sentinel"
)

type VersionStore interface {
	Create(ctx context.Context, v *models.RuleVersion) error
	FindByID(ctx context.Context, versionID id.VersionID) (*models.RuleVersion, error)
	FindByName(ctx context.Context, orgID *id.OrgID, name string) (*models.RuleVersion, error)
	FindActive(ctx context.Context, orgID id.OrgID, asOf time.Time) (*models.RuleVersion, error)
}

type RuleStore interface {
	CreateBatch(ctx context.Context, rules []*models.Rule) error
	ListByVersion(ctx context.Context, versionID id.VersionID) ([]models.Rule, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service resolves active rule versions and loads the rules they own.
type Service struct {
	versions VersionStore
	rules    RuleStore
	sources  audit.SourceStore
	cache    cache.VersionCache

	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
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

func WithCache(c cache.VersionCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// New constructs a Service.
func New(versions VersionStore, rules RuleStore, sources audit.SourceStore, opts ...Option) *Service {
	s := &Service{
		versions: versions,
		rules:    rules,
		sources:  sources,
		cache:    cache.Noop{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveActiveVersion returns the rule version governing inspections for
// orgID at instant asOf. Tenant-specific versions win over global ones; among
// equals the most recently effective version wins. Absence is a domain error
// with code NoActiveRuleVersion, never a nil version.
func (s *Service) ResolveActiveVersion(ctx context.Context, orgID id.OrgID, asOf time.Time) (*models.RuleVersion, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveResolveLatency(time.Since(start)) }()

	if v, ok := s.cache.Get(ctx, orgID, asOf); ok {
		s.metrics.IncrementCacheLookup("hit")
		s.metrics.IncrementResolveOutcome("resolved")
		return v, nil
	}
	s.metrics.IncrementCacheLookup("miss")

	v, err := s.versions.FindActive(ctx, orgID, asOf)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementResolveOutcome("not_found")
			return nil, dErrors.New(dErrors.CodeNoActiveRuleVersion, "no active rule version for organization")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve active rule version")
	}

	s.cache.Set(ctx, orgID, asOf, v)
	s.metrics.IncrementResolveOutcome("resolved")
	return v, nil
}

// RulesForVersion loads the rules owned by versionID, ordered by rule ID.
//
// Access fails closed: an unknown version, or a version belonging to another
// tenant, yields an empty slice with no error. A nil requestingOrg (system
// caller) reads any version.
func (s *Service) RulesForVersion(ctx context.Context, versionID id.VersionID, requestingOrg *id.OrgID) ([]models.Rule, error) {
	v, err := s.versions.FindByID(ctx, versionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return []models.Rule{}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load rule version")
	}

	if requestingOrg != nil && v.OrgID != nil && *v.OrgID != *requestingOrg {
		s.logger.WarnContext(ctx, "cross-tenant rule version access denied",
			"version_id", versionID, "requesting_org", requestingOrg)
		return []models.Rule{}, nil
	}

	rules, err := s.rules.ListByVersion(ctx, versionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load rules")
	}
	s.metrics.ObserveRulesLoaded(len(rules))

	s.logAudit(ctx, audit.ActionRulesLoaded, v.OrgID, versionID.String(),
		"version_id", versionID, "rule_count", len(rules))

	return rules, nil
}

// SeedStarterRules installs the starter catalogue for orgID (nil for the
// global catalogue). Idempotent: reseeding a tenant reports AlreadySeeded.
func (s *Service) SeedStarterRules(ctx context.Context, orgID *id.OrgID) (*store.SeedResult, error) {
	result, err := store.SeedStarterRules(ctx, s.versions, s.rules, s.sources, orgID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to seed starter rules")
	}

	if !result.AlreadySeeded {
		if orgID != nil {
			s.cache.Invalidate(ctx, *orgID)
		}
		s.logAudit(ctx, audit.ActionRuleVersionSeeded, orgID, result.VersionID.String(),
			"version_id", result.VersionID, "rule_count", result.RuleCount)
		for _, rule := range result.Rules {
			s.logAudit(ctx, audit.ActionRuleChangeRecorded, orgID, rule.ID.String(),
				"version_id", result.VersionID, "title", rule.Title)
		}
	}
	return result, nil
}

// GetVersion fetches one version by ID, honoring tenant visibility: a tenant
// sees global versions and its own, nothing else.
func (s *Service) GetVersion(ctx context.Context, versionID id.VersionID, requestingOrg *id.OrgID) (*models.RuleVersion, error) {
	v, err := s.versions.FindByID(ctx, versionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "rule version not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load rule version")
	}
	if requestingOrg != nil && v.OrgID != nil && *v.OrgID != *requestingOrg {
		return nil, dErrors.New(dErrors.CodeNotFound, "rule version not found")
	}
	return v, nil
}

func (s *Service) logAudit(ctx context.Context, action audit.Action, orgID *id.OrgID, subject string, attributes ...any) {
	args := append(attributes, "action", action, "log_type", "audit")
	s.logger.InfoContext(ctx, string(action), args...)
	if s.auditPublisher == nil {
		return
	}
	event := audit.Event{
		OrgID:   orgID,
		Subject: subject,
		Action:  action,
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", action, "error", err)
	}
}
