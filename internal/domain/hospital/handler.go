package hospital

import (
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
	g := api.Group("/hospitals")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	api.GET("/blood-banks", h.ListBloodBanks)
}

func (h *Handler) List(c echo.Context) error {
	hospitals, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	if hospitals == nil {
		hospitals = []*Hospital{}
	}
	return c.JSON(http.StatusOK, hospitals)
}

func (h *Handler) Get(c echo.Context) error {
	hosp, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) Create(c echo.Context) error {
	var hosp Hospital
	if err := c.Bind(&hosp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &hosp); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, hosp)
}

func (h *Handler) Update(c echo.Context) error {
	var hosp Hospital
	if err := c.Bind(&hosp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hosp.HospitalID = c.Param("id")
	if err := h.svc.Update(c.Request().Context(), &hosp); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "hospital deleted successfully"})
}

func (h *Handler) ListBloodBanks(c echo.Context) error {
	banks, err := h.svc.BloodBanks(c.Request().Context())
	if err != nil {
		return err
	}
	if banks == nil {
		banks = []*BloodBank{}
	}
	return c.JSON(http.StatusOK, banks)
}
