package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"roadcheck/internal/audit"
	"roadcheck/internal/rules/service"
	rulestore "roadcheck/internal/rules/store/rule"
	versionstore "roadcheck/internal/rules/store/version"
	id "roadcheck/pkg/domain"
	"roadcheck/pkg/requestcontext"
)

func newRulesRouter(t *testing.T, orgID id.OrgID) (chi.Router, *service.Service) {
	t.Helper()

	svc := service.New(versionstore.NewInMemory(), rulestore.NewInMemory(), audit.NewInMemorySourceStore())
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()
			if !orgID.IsNil() {
				ctx = requestcontext.WithOrgID(ctx, orgID)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.Register(r)
	return r, svc
}

func TestSeedThenListRules(t *testing.T) {
	orgID := id.NewOrgID()
	router, _ := newRulesRouter(t, orgID)

	req := httptest.NewRequest(http.MethodPost, "/rules/seed", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 seeding rules, got %d", rec.Code)
	}

	var seeded struct {
		VersionID string `json:"version_id"`
		RuleCount int    `json:"rule_count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&seeded); err != nil {
		t.Fatalf("failed to decode seed response: %v", err)
	}
	if seeded.VersionID == "" || seeded.RuleCount == 0 {
		t.Fatalf("expected version id and rule count in response")
	}

	listReq := httptest.NewRequest(http.MethodGet, "/rules/version/"+seeded.VersionID+"/rules", nil)
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, listReq)
	if listRec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing rules, got %d", listRec.Code)
	}

	var listed struct {
		Rules []struct {
			ID      string `json:"id"`
			Outcome string `json:"outcome"`
		} `json:"rules"`
	}
	if err := json.NewDecoder(listRec.Body).Decode(&listed); err != nil {
		t.Fatalf("failed to decode rules response: %v", err)
	}
	if len(listed.Rules) != seeded.RuleCount {
		t.Fatalf("expected %d rules, got %d", seeded.RuleCount, len(listed.Rules))
	}
}

func TestSeedIsIdempotentOverHTTP(t *testing.T) {
	router, _ := newRulesRouter(t, id.NewOrgID())

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/rules/seed", nil))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first seed, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/rules/seed", nil))
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat seed, got %d", second.Code)
	}

	var resp struct {
		AlreadySeeded bool `json:"already_seeded"`
	}
	if err := json.NewDecoder(second.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode seed response: %v", err)
	}
	if !resp.AlreadySeeded {
		t.Fatalf("expected already_seeded on repeat seed")
	}
}

func TestActiveVersionRequiresOrgContext(t *testing.T) {
	router, _ := newRulesRouter(t, id.OrgID{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rules/version/active", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without org context, got %d", rec.Code)
	}
}

func TestActiveVersionResolution(t *testing.T) {
	orgID := id.NewOrgID()
	router, svc := newRulesRouter(t, orgID)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rules/version/active", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before seeding, got %d", rec.Code)
	}

	if _, err := svc.SeedStarterRules(context.Background(), nil); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rules/version/active", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after seeding, got %d", rec.Code)
	}

	var resp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode version response: %v", err)
	}
	if resp.Status != "ACTIVE" {
		t.Fatalf("expected ACTIVE version, got %q", resp.Status)
	}
}

func TestActiveVersionHonorsAsOf(t *testing.T) {
	orgID := id.NewOrgID()
	router, svc := newRulesRouter(t, orgID)

	if _, err := svc.SeedStarterRules(context.Background(), nil); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// The starter catalogue only becomes effective in April 2024.
	before := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rules/version/active?as_of="+before, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before effective start, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rules/version/active?as_of=not-a-time", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed as_of, got %d", rec.Code)
	}
}

func TestVersionRulesRejectsBadID(t *testing.T) {
	router, _ := newRulesRouter(t, id.NewOrgID())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rules/version/not-a-uuid/rules", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed version id, got %d", rec.Code)
	}
}

func TestGetVersionByID(t *testing.T) {
	orgID := id.NewOrgID()
	router, svc := newRulesRouter(t, orgID)

	result, err := svc.SeedStarterRules(context.Background(), &orgID)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rules/version/"+result.VersionID.String(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching version, got %d", rec.Code)
	}

	var got struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode version response: %v", err)
	}
	if got.ID != result.VersionID.String() {
		t.Fatalf("expected version %s, got %s", result.VersionID, got.ID)
	}
	if got.Status != "ACTIVE" {
		t.Fatalf("expected ACTIVE status, got %q", got.Status)
	}

	// A tenant must not see another tenant's version.
	otherRouter, otherSvc := newRulesRouter(t, id.NewOrgID())
	otherResult, err := otherSvc.SeedStarterRules(context.Background(), &orgID)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	rec = httptest.NewRecorder()
	otherRouter.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rules/version/"+otherResult.VersionID.String(), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign tenant version, got %d", rec.Code)
	}
}
