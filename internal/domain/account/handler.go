package account

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bloodbank/bloodbank-api/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts /auth. loginLimit guards only the login route and
// requireToken guards verify and me.
func (h *Handler) RegisterRoutes(api *echo.Group, requireToken, loginLimit echo.MiddlewareFunc) {
	g := api.Group("/auth")
	g.POST("/login", h.Login, loginLimit)
	g.POST("/logout", h.Logout)
	g.GET("/verify", h.Verify, requireToken)
	g.GET("/me", h.Me, requireToken)
}

func (h *Handler) Login(c echo.Context) error {
	var in LoginInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if in.Username == "" || in.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}
	res, err := h.svc.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Logout only acknowledges; tokens are stateless and expire on their own.
func (h *Handler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "logout successful"})
}

func (h *Handler) Verify(c echo.Context) error {
	claims := auth.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return auth.ErrTokenRequired
	}
	return c.JSON(http.StatusOK, map[string]any{"valid": true, "user": claims})
}

func (h *Handler) Me(c echo.Context) error {
	claims := auth.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return auth.ErrTokenRequired
	}
	p, err := h.svc.Me(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}
