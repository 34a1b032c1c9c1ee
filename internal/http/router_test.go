package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"evalboard/internal/domain"
	"evalboard/internal/service"
	"evalboard/internal/session"
	"evalboard/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAuthService struct{}

func (fakeAuthService) AdminLogin(_ context.Context, username, password string) (*domain.Admin, error) {
	if username == "admin" && password == "pw" {
		return &domain.Admin{AdminID: "ad-1", Username: "admin"}, nil
	}
	return nil, fmt.Errorf("invalid credentials")
}

func (fakeAuthService) EvaluatorLogin(_ context.Context, name, password string) (*domain.Evaluator, error) {
	if name == "위원" && password == "pw" {
		return &domain.Evaluator{EvaluatorID: "ev-1", Name: "위원", IsActive: true}, nil
	}
	return nil, fmt.Errorf("invalid credentials")
}

var _ service.AuthService = fakeAuthService{}

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	sessions := session.NewManager(store.NewRedisKV(client), "test-secret", time.Hour)
	router := NewRouter(sessions, zap.NewNop())
	router.RegisterAuthRoutes(NewAuthHandler(fakeAuthService{}, sessions, zap.NewNop()))
	return router
}

func login(t *testing.T, router *Router, path, body string) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie on login response")
	return nil
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAdminRouteRejectsAnonymous(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	out := decodeResult(t, rec)
	require.Equal(t, float64(ResultSessionExpired), out["code"])
}

func TestAdminLoginThenMe(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router, "/api/admin/login", `{"username":"admin","password":"pw"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeResult(t, rec)
	require.Equal(t, float64(ResultSuccess), out["code"])
	payload := out["result"].(map[string]any)
	require.Equal(t, "ad-1", payload["id"])
	require.Equal(t, session.KindAdmin, payload["kind"])
}

func TestEvaluatorCookieCannotReachAdminRoutes(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router, "/api/evaluator/login", `{"name":"위원","password":"pw"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	out := decodeResult(t, rec)
	require.Equal(t, float64(ResultSessionExpired), out["code"])
}

func TestBadCredentialsAreGeneric(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"username":"admin","password":"wrong"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	out := decodeResult(t, rec)
	require.Equal(t, "invalid credentials", out["message"])
}

func TestLogoutDestroysSession(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router, "/api/admin/login", `{"username":"admin","password":"pw"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// The old cookie no longer opens admin routes.
	req = httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMethodGate(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/login", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
