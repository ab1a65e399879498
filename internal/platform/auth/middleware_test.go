package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRequireToken(t *testing.T, tm *TokenManager, header string) (*Claims, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/hospital", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *Claims
	err := RequireToken(tm)(func(c echo.Context) error {
		seen = ClaimsFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})(c)
	return seen, err
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	return httpErr.Code
}

func TestRequireToken_MissingToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	for _, header := range []string{"", "Bearer", "Bearer ", "Basic dXNlcjpwYXNz", "Token abc"} {
		_, err := runRequireToken(t, tm, header)
		require.Error(t, err, "header %q", header)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err), "header %q", header)
	}
}

func TestRequireToken_InvalidToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	_, err := runRequireToken(t, tm, "Bearer garbage")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
}

func TestRequireToken_ExpiredToken(t *testing.T) {
	issued := time.Now().Add(-48 * time.Hour)
	tok, err := NewTokenManager("secret", 24*time.Hour).WithClock(fixedClock(issued)).Issue(1, "H1", "u")
	require.NoError(t, err)

	_, err = runRequireToken(t, NewTokenManager("secret", 24*time.Hour), "Bearer "+tok)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
}

func TestRequireToken_ValidTokenSetsClaims(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	tok, err := tm.Issue(3, "H00002", "metro")
	require.NoError(t, err)

	claims, err := runRequireToken(t, tm, "bearer "+tok)
	require.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, 3, claims.UserID)
	assert.Equal(t, "H00002", claims.HospitalID)
}
