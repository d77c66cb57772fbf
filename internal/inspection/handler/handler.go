package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"roadcheck/internal/inspection/models"
	"roadcheck/internal/inspection/service"
	id "roadcheck/pkg/domain"
	dErrors "roadcheck/pkg/domain-errors"
	"roadcheck/pkg/platform/httputil"
	"roadcheck/pkg/requestcontext"
)

// Service defines the interface for inspection operations.
type Service interface {
	CreateInspection(ctx context.Context, req service.CreateInspectionRequest) (*models.Inspection, error)
	GetInspection(ctx context.Context, orgID id.OrgID, inspectionID id.InspectionID) (*models.Inspection, []models.Finding, error)
	ListInspections(ctx context.Context, orgID id.OrgID) ([]models.Inspection, error)
	EvaluateInspection(ctx context.Context, orgID id.OrgID, inspectionID id.InspectionID, findings []models.Finding) (*models.EvaluationResult, error)
}

// Handler wires inspection endpoints to the inspection service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an inspection handler.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts inspection endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/inspections", h.HandleCreate)
	r.Get("/inspections", h.HandleList)
	r.Get("/inspections/{inspectionID}", h.HandleGet)
	r.Post("/inspections/{inspectionID}/evaluate", h.HandleEvaluate)
}

// HandleCreate handles POST /inspections requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	orgID := requestcontext.OrgID(ctx)
	if orgID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "organization context required"))
		return
	}

	req, ok := httputil.Decode[createInspectionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	serviceReq, err := req.toService(orgID, requestcontext.Inspector(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	insp, err := h.service.CreateInspection(ctx, serviceReq)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNoActiveRuleVersion) {
			h.logger.ErrorContext(ctx, "inspection creation failed",
				"request_id", requestID,
				"org_id", orgID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, fromInspection(insp, nil))
}

// HandleList handles GET /inspections requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orgID := requestcontext.OrgID(ctx)
	if orgID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "organization context required"))
		return
	}

	inspections, err := h.service.ListInspections(ctx, orgID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := make([]inspectionResponse, 0, len(inspections))
	for i := range inspections {
		resp = append(resp, fromInspection(&inspections[i], nil))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /inspections/{inspectionID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orgID := requestcontext.OrgID(ctx)
	if orgID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "organization context required"))
		return
	}

	inspectionID, err := id.ParseInspectionID(chi.URLParam(r, "inspectionID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid inspection id"))
		return
	}

	insp, findings, err := h.service.GetInspection(ctx, orgID, inspectionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fromInspection(insp, findings))
}

// HandleEvaluate handles POST /inspections/{inspectionID}/evaluate requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	orgID := requestcontext.OrgID(ctx)
	if orgID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "organization context required"))
		return
	}

	inspectionID, err := id.ParseInspectionID(chi.URLParam(r, "inspectionID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid inspection id"))
		return
	}

	req, ok := httputil.Decode[evaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.EvaluateInspection(ctx, orgID, inspectionID, req.toFindings())
	if err != nil {
		h.logger.ErrorContext(ctx, "inspection evaluation failed",
			"request_id", requestID,
			"inspection_id", inspectionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "inspection evaluated",
		"request_id", requestID,
		"inspection_id", inspectionID,
		"status", result.Status,
		"oos_items", len(result.OOSItems),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, fromResult(result))
}
