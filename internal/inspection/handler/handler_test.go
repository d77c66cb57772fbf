package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"roadcheck/internal/audit"
	"roadcheck/internal/inspection/service"
	findingstore "roadcheck/internal/inspection/store/finding"
	inspectionstore "roadcheck/internal/inspection/store/inspection"
	rulesservice "roadcheck/internal/rules/service"
	rulestore "roadcheck/internal/rules/store/rule"
	versionstore "roadcheck/internal/rules/store/version"
	id "roadcheck/pkg/domain"
	"roadcheck/pkg/requestcontext"
)

// newInspectionRouter wires the full in-memory stack: seeded rules, the
// rules service, and the inspection service behind the handler.
func newInspectionRouter(t *testing.T, orgID id.OrgID) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rulesSvc := rulesservice.New(versionstore.NewInMemory(), rulestore.NewInMemory(), audit.NewInMemorySourceStore())
	if _, err := rulesSvc.SeedStarterRules(context.Background(), nil); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	svc := service.New(inspectionstore.NewInMemory(), findingstore.NewInMemory(), rulesSvc)
	h := New(svc, logger)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := requestcontext.WithOrgID(req.Context(), orgID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.Register(r)
	return r
}

func postJSON(t *testing.T, router chi.Router, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateEvaluateAndFetchInspection(t *testing.T) {
	orgID := id.NewOrgID()
	router := newInspectionRouter(t, orgID)

	rec := postJSON(t, router, "/inspections", map[string]any{
		"asset_id":  id.NewAssetID().String(),
		"inspector": "badge-4431",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating inspection, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		ID             string  `json:"id"`
		Status         string  `json:"status"`
		RulesVersionID *string `json:"rules_version_id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	if created.Status != "PENDING" {
		t.Fatalf("expected PENDING on creation, got %q", created.Status)
	}
	if created.RulesVersionID == nil {
		t.Fatalf("expected the active rule version to be frozen on creation")
	}

	// A flat tire is an out-of-service defect in the starter catalogue.
	rec = postJSON(t, router, "/inspections/"+created.ID+"/evaluate", map[string]any{
		"findings": []map[string]any{
			{
				"finding_type":     "tire",
				"vmrs_system_code": "017",
				"observations":     map[string]any{"flatTire": true},
			},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 evaluating inspection, got %d: %s", rec.Code, rec.Body.String())
	}

	var evaluated struct {
		Status   string `json:"status"`
		OOSItems []struct {
			Outcome     string `json:"outcome"`
			Explanation string `json:"explanation"`
		} `json:"oos_items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&evaluated); err != nil {
		t.Fatalf("failed to decode evaluation response: %v", err)
	}
	if evaluated.Status != "OOS" {
		t.Fatalf("expected OOS status, got %q", evaluated.Status)
	}
	if len(evaluated.OOSItems) != 1 || evaluated.OOSItems[0].Outcome != "OOS_VEHICLE" {
		t.Fatalf("expected one OOS_VEHICLE item, got %+v", evaluated.OOSItems)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/inspections/"+created.ID, nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)
	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching inspection, got %d", getRec.Code)
	}

	var fetched struct {
		Status   string `json:"status"`
		Findings []struct {
			Outcome string `json:"outcome"`
		} `json:"findings"`
	}
	if err := json.NewDecoder(getRec.Body).Decode(&fetched); err != nil {
		t.Fatalf("failed to decode fetch response: %v", err)
	}
	if fetched.Status != "OOS" {
		t.Fatalf("expected persisted OOS status, got %q", fetched.Status)
	}
	if len(fetched.Findings) != 1 || fetched.Findings[0].Outcome != "OOS_VEHICLE" {
		t.Fatalf("expected persisted OOS_VEHICLE finding, got %+v", fetched.Findings)
	}
}

func TestEvaluateCleanFindingsPasses(t *testing.T) {
	orgID := id.NewOrgID()
	router := newInspectionRouter(t, orgID)

	rec := postJSON(t, router, "/inspections", map[string]any{
		"asset_id": id.NewAssetID().String(),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating inspection, got %d", rec.Code)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}

	rec = postJSON(t, router, "/inspections/"+created.ID+"/evaluate", map[string]any{
		"findings": []map[string]any{
			{
				"finding_type":     "tire",
				"vmrs_system_code": "017",
				"observations":     map[string]any{"treadDepth": 5.0, "position": "rear"},
			},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 evaluating inspection, got %d: %s", rec.Code, rec.Body.String())
	}

	var evaluated struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&evaluated); err != nil {
		t.Fatalf("failed to decode evaluation response: %v", err)
	}
	if evaluated.Status != "PASS" {
		t.Fatalf("expected PASS status, got %q", evaluated.Status)
	}
}

func TestListInspections(t *testing.T) {
	orgID := id.NewOrgID()
	router := newInspectionRouter(t, orgID)

	first := postJSON(t, router, "/inspections", map[string]any{
		"asset_id": id.NewAssetID().String(),
	})
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating first inspection, got %d", first.Code)
	}
	second := postJSON(t, router, "/inspections", map[string]any{
		"asset_id": id.NewAssetID().String(),
	})
	if second.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating second inspection, got %d", second.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/inspections", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing inspections, got %d: %s", rec.Code, rec.Body.String())
	}

	var listed []struct {
		ID     string `json:"id"`
		OrgID  string `json:"org_id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&listed); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 inspections, got %d", len(listed))
	}
	for _, insp := range listed {
		if insp.OrgID != orgID.String() {
			t.Fatalf("expected inspections scoped to %s, got %s", orgID, insp.OrgID)
		}
		if insp.Status != "PENDING" {
			t.Fatalf("expected PENDING inspections, got %q", insp.Status)
		}
	}
}

func TestEvaluateUnknownInspection(t *testing.T) {
	router := newInspectionRouter(t, id.NewOrgID())

	rec := postJSON(t, router, "/inspections/"+id.NewInspectionID().String()+"/evaluate", map[string]any{
		"findings": []map[string]any{},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown inspection, got %d", rec.Code)
	}
}

func TestCreateInspectionRejectsBadAssetID(t *testing.T) {
	router := newInspectionRouter(t, id.NewOrgID())

	rec := postJSON(t, router, "/inspections", map[string]any{"asset_id": "garbage"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed asset id, got %d", rec.Code)
	}
}
