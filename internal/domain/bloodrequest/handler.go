package bloodrequest

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/requests")
	g.GET("", h.List)
	g.GET("/status/pending", h.ListPending)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.PUT("/:id/status", h.UpdateStatus)
	g.POST("/:id/fulfill", h.Fulfill)
	g.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c echo.Context) error {
	reqs, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	if reqs == nil {
		reqs = []*Listed{}
	}
	return c.JSON(http.StatusOK, reqs)
}

func (h *Handler) ListPending(c echo.Context) error {
	reqs, err := h.svc.ListPending(c.Request().Context())
	if err != nil {
		return err
	}
	if reqs == nil {
		reqs = []*Listed{}
	}
	return c.JSON(http.StatusOK, reqs)
}

func (h *Handler) Get(c echo.Context) error {
	r, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) Create(c echo.Context) error {
	var r Request
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &r); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) Update(c echo.Context) error {
	var r Request
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r.RequestID = c.Param("id")
	if err := h.svc.Update(c.Request().Context(), &r); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	var in StatusInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if in.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}
	if err := h.svc.UpdateStatus(c.Request().Context(), c.Param("id"), in.Status); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "blood request updated successfully"})
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "blood request deleted successfully"})
}

func (h *Handler) Fulfill(c echo.Context) error {
	var in FulfillInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f, err := h.svc.Fulfill(c.Request().Context(), c.Param("id"), in)
	if errors.Is(err, ErrSpecimenRequired) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message":        "blood request fulfilled successfully",
		"fulfillment_id": f.FulfillmentID,
	})
}
