package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// RequireToken rejects requests without a valid bearer token. A missing
// token is 401, a bad or expired one is 403. Verified claims are stored on
// the request context.
func RequireToken(tm *TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if tokenStr == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, ErrTokenRequired.Error())
			}

			claims, err := tm.Verify(tokenStr)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, ErrInvalidToken.Error())
			}

			c.SetRequest(c.Request().WithContext(WithClaims(c.Request().Context(), claims)))
			return next(c)
		}
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}
