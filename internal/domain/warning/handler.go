package warning

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/warnings")
	g.GET("", h.List)
	g.GET("/count/unread", h.CountUnread)
	g.GET("/by-severity", h.BySeverity)
	g.POST("", h.Create)
	g.PUT("/read-all", h.MarkAllRead)
	g.PUT("/:id/read", h.MarkRead)
	g.DELETE("/cleanup", h.Cleanup)
}

func (h *Handler) List(c echo.Context) error {
	f := Filter{
		Severity:   c.QueryParam("severity"),
		EntityType: c.QueryParam("entity_type"),
		HospitalID: c.QueryParam("hospital_id"),
	}
	if v := c.QueryParam("is_read"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "is_read must be true or false")
		}
		f.IsRead = &b
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		f.Limit = n
	}

	warnings, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	if warnings == nil {
		warnings = []*Warning{}
	}
	return c.JSON(http.StatusOK, warnings)
}

func (h *Handler) CountUnread(c echo.Context) error {
	n, err := h.svc.CountUnread(c.Request().Context(), c.QueryParam("hospital_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"unread_count": n})
}

func (h *Handler) BySeverity(c echo.Context) error {
	counts, err := h.svc.BySeverity(c.Request().Context(), c.QueryParam("hospital_id"))
	if err != nil {
		return err
	}
	if counts == nil {
		counts = []*SeverityCount{}
	}
	return c.JSON(http.StatusOK, counts)
}

func (h *Handler) Create(c echo.Context) error {
	var w Warning
	if err := c.Bind(&w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	err := h.svc.Create(c.Request().Context(), &w)
	if errors.Is(err, ErrInvalid) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, w)
}

func (h *Handler) MarkRead(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid warning id")
	}
	if err := h.svc.MarkRead(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "warning marked as read"})
}

type markAllInput struct {
	HospitalID string `json:"hospital_id"`
}

func (h *Handler) MarkAllRead(c echo.Context) error {
	var in markAllInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	n, err := h.svc.MarkAllRead(c.Request().Context(), in.HospitalID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "warnings marked as read", "count": n})
}

func (h *Handler) Cleanup(c echo.Context) error {
	n, err := h.svc.Cleanup(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "old warnings deleted", "count": n})
}
