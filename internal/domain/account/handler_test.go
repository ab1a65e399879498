package account

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bloodbank/bloodbank-api/internal/platform/auth"
	"github.com/bloodbank/bloodbank-api/internal/platform/middleware"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	svc, _ := newTestService(t)
	tokens := auth.NewTokenManager("test-secret", 24*time.Hour).WithClock(func() time.Time { return testNow })

	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler(zerolog.Nop())
	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	NewHandler(svc).RegisterRoutes(e.Group("/api"), auth.RequireToken(tokens), passthrough)
	return e
}

func do(e *echo.Echo, method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLoginThenMe(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/auth/login", `{"username":"cityadmin","password":"s3cret!"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res LoginResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = do(e, http.MethodGet, "/api/auth/me", "", res.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"hospital_name":"City Hospital"`) {
		t.Errorf("unexpected profile %s", rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/api/auth/verify", "", res.Token)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"valid":true`) {
		t.Errorf("verify: got %d %s", rec.Code, rec.Body.String())
	}
}

func TestLogin_WrongPasswordIs401(t *testing.T) {
	e := newTestServer(t)
	rec := do(e, http.MethodPost, "/api/auth/login", `{"username":"cityadmin","password":"nope"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestVerify_TokenErrors(t *testing.T) {
	e := newTestServer(t)

	if rec := do(e, http.MethodGet, "/api/auth/verify", "", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token: expected 401, got %d", rec.Code)
	}

	expired := auth.NewTokenManager("test-secret", time.Hour).WithClock(func() time.Time { return testNow.Add(-2 * time.Hour) })
	tok, err := expired.Issue(1, "H1", "cityadmin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if rec := do(e, http.MethodGet, "/api/auth/verify", "", tok); rec.Code != http.StatusForbidden {
		t.Errorf("expired token: expected 403, got %d", rec.Code)
	}
}

func TestLogout(t *testing.T) {
	h := NewHandler(nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMe_WithoutClaims(t *testing.T) {
	h := NewHandler(nil)
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if err := h.Me(c); !errors.Is(err, auth.ErrTokenRequired) {
		t.Errorf("expected ErrTokenRequired, got %v", err)
	}
}
