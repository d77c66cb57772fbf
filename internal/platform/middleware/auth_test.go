package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "roadcheck/pkg/domain"
	"roadcheck/pkg/requestcontext"
)

const testSigningKey = "test-signing-key"

func signToken(t *testing.T, claims Claims, key string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func authedHandler(t *testing.T) (http.Handler, *id.OrgID, *string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var gotOrg id.OrgID
	var gotInspector string

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOrg = requestcontext.OrgID(r.Context())
		gotInspector = requestcontext.Inspector(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return RequireAuth(NewValidator(testSigningKey), logger)(inner), &gotOrg, &gotInspector
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	handler, gotOrg, gotInspector := authedHandler(t)

	orgID := id.NewOrgID()
	token := signToken(t, Claims{
		OrgID: orgID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "inspector-7",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, testSigningKey)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, orgID, *gotOrg)
	assert.Equal(t, "inspector-7", *gotInspector)
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	handler, _, _ := authedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "unauthorized")
}

func TestRequireAuthRejectsWrongKey(t *testing.T) {
	handler, _, _ := authedHandler(t)

	token := signToken(t, Claims{
		OrgID: id.NewOrgID().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, "some-other-key")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	handler, _, _ := authedHandler(t)

	token := signToken(t, Claims{
		OrgID: id.NewOrgID().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}, testSigningKey)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAuthRejectsMissingOrgClaim(t *testing.T) {
	handler, _, _ := authedHandler(t)

	token := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, testSigningKey)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
