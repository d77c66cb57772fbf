package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"roadcheck/internal/rules/models"
	"roadcheck/internal/rules/store"
	id "roadcheck/pkg/domain"
	dErrors "roadcheck/pkg/domain-errors"
	"roadcheck/pkg/platform/httputil"
	"roadcheck/pkg/requestcontext"
)

// Service defines the interface for rule catalogue operations.
type Service interface {
	ResolveActiveVersion(ctx context.Context, orgID id.OrgID, asOf time.Time) (*models.RuleVersion, error)
	RulesForVersion(ctx context.Context, versionID id.VersionID, requestingOrg *id.OrgID) ([]models.Rule, error)
	GetVersion(ctx context.Context, versionID id.VersionID, requestingOrg *id.OrgID) (*models.RuleVersion, error)
	SeedStarterRules(ctx context.Context, orgID *id.OrgID) (*store.SeedResult, error)
}

// Handler wires rule catalogue endpoints to the rules service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a rules handler.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts rule catalogue endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/rules/seed", h.HandleSeed)
	r.Get("/rules/version/active", h.HandleActiveVersion)
	r.Get("/rules/version/{versionID}", h.HandleVersion)
	r.Get("/rules/version/{versionID}/rules", h.HandleVersionRules)
}

// HandleSeed handles POST /rules/seed requests. The catalogue is seeded for
// the caller's organization; platform operators seed the global catalogue by
// calling without tenant context.
func (h *Handler) HandleSeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var orgID *id.OrgID
	if org := requestcontext.OrgID(ctx); !org.IsNil() {
		orgID = &org
	}

	result, err := h.service.SeedStarterRules(ctx, orgID)
	if err != nil {
		h.logger.ErrorContext(ctx, "rule seeding failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadySeeded {
		status = http.StatusOK
	}
	httputil.WriteJSON(w, status, seedResponse{
		VersionID:     result.VersionID.String(),
		RuleCount:     result.RuleCount,
		AlreadySeeded: result.AlreadySeeded,
	})
}

// HandleActiveVersion handles GET /rules/version/active requests. The
// optional as_of query parameter (RFC 3339) defaults to now.
func (h *Handler) HandleActiveVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	orgID := requestcontext.OrgID(ctx)
	if orgID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "organization context required"))
		return
	}

	asOf := requestcontext.Now(ctx)
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "as_of must be RFC 3339"))
			return
		}
		asOf = parsed
	}

	v, err := h.service.ResolveActiveVersion(ctx, orgID, asOf)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNoActiveRuleVersion) {
			h.logger.ErrorContext(ctx, "version resolution failed",
				"request_id", requestID,
				"org_id", orgID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fromVersion(v))
}

// HandleVersion handles GET /rules/version/{versionID} requests.
func (h *Handler) HandleVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orgID := requestcontext.OrgID(ctx)
	if orgID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "organization context required"))
		return
	}

	versionID, err := id.ParseVersionID(chi.URLParam(r, "versionID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid version id"))
		return
	}

	v, err := h.service.GetVersion(ctx, versionID, &orgID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fromVersion(v))
}

// HandleVersionRules handles GET /rules/version/{versionID}/rules requests.
func (h *Handler) HandleVersionRules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	orgID := requestcontext.OrgID(ctx)
	if orgID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "organization context required"))
		return
	}

	versionID, err := id.ParseVersionID(chi.URLParam(r, "versionID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid version id"))
		return
	}

	rules, err := h.service.RulesForVersion(ctx, versionID, &orgID)
	if err != nil {
		h.logger.ErrorContext(ctx, "rule listing failed",
			"request_id", requestID,
			"version_id", versionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fromRules(versionID, rules))
}
