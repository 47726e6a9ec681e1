package authenticate_test

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

	"edudesk/entity"
	"edudesk/internal/http-server/middleware/authenticate"
	"edudesk/internal/lib/api/cont"
)

const testSecret = "test-secret"

func signToken(t *testing.T, role string) string {
	t.Helper()
	claims := authenticate.Claims{
		Name:  "Test User",
		Email: "test@example.com",
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "test.user",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newStack(t *testing.T, requireSuperadmin bool) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := cont.GetUser(r.Context())
		if user != nil {
			w.Header().Set("X-Test-Role", user.Role)
		}
		w.WriteHeader(http.StatusOK)
	})

	var handler http.Handler = inner
	if requireSuperadmin {
		handler = authenticate.RequireSuperadmin()(handler)
	}
	return authenticate.New(logger, testSecret)(handler)
}

func TestAnonymousRequestPassesThrough(t *testing.T) {
	stack := newStack(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/register-session", nil)
	rec := httptest.NewRecorder()
	stack.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Test-Role"))
}

func TestInvalidTokenRejected(t *testing.T) {
	stack := newStack(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/register-session", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	stack.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidTokenResolvesUser(t *testing.T) {
	stack := newStack(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/register-session", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, entity.SuperadminRole))
	rec := httptest.NewRecorder()
	stack.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.SuperadminRole, rec.Header().Get("X-Test-Role"))
	assert.Equal(t, "test.user", rec.Header().Get("X-User"))
}

func TestSuperadminGate(t *testing.T) {
	stack := newStack(t, true)

	tests := []struct {
		name       string
		authorize  func(r *http.Request)
		wantStatus int
	}{
		{"anonymous denied", func(*http.Request) {}, http.StatusForbidden},
		{"admin denied", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+signToken(t, entity.AdminRole))
		}, http.StatusForbidden},
		{"superadmin allowed", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+signToken(t, entity.SuperadminRole))
		}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/superadmin/dashboard", nil)
			tt.authorize(req)
			rec := httptest.NewRecorder()
			stack.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
