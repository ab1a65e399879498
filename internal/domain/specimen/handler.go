package specimen

import (
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
	g := api.Group("/blood-stock")
	g.GET("", h.List)
	g.GET("/summary", h.Summary)
	g.GET("/alerts/expiring", h.Expiring)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	if items == nil {
		items = []*StockItem{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Summary(c echo.Context) error {
	groups, err := h.svc.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	if groups == nil {
		groups = []*GroupSummary{}
	}
	return c.JSON(http.StatusOK, groups)
}

func (h *Handler) Expiring(c echo.Context) error {
	days := DefaultExpiryWindow
	if v := c.QueryParam("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be a positive integer")
		}
		days = n
	}
	items, err := h.svc.Expiring(c.Request().Context(), days)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*ExpiringItem{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Get(c echo.Context) error {
	sp, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sp)
}

func (h *Handler) Create(c echo.Context) error {
	var sp Specimen
	if err := c.Bind(&sp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &sp); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sp)
}

func (h *Handler) Update(c echo.Context) error {
	var sp Specimen
	if err := c.Bind(&sp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sp.SpecimenID = c.Param("id")
	if err := h.svc.Update(c.Request().Context(), &sp); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sp)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "blood specimen deleted successfully"})
}
