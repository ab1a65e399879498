package staff

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
	g := api.Group("/staff")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/doctor", h.assign(RoleDoctor))
	g.POST("/:id/nurse", h.assign(RoleNurse))
	g.POST("/:id/lab-tech", h.assign(RoleLabTechnician))
}

func (h *Handler) List(c echo.Context) error {
	members, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	if members == nil {
		members = []*Member{}
	}
	return c.JSON(http.StatusOK, members)
}

func (h *Handler) Get(c echo.Context) error {
	m, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Create(c echo.Context) error {
	var st Staff
	if err := c.Bind(&st); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &st); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, st)
}

func (h *Handler) Update(c echo.Context) error {
	var st Staff
	if err := c.Bind(&st); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	st.StaffID = c.Param("id")
	if err := h.svc.Update(c.Request().Context(), &st); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "staff member deleted successfully"})
}

func (h *Handler) assign(role string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var a Assignment
		if err := c.Bind(&a); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		a.Role = role
		m, err := h.svc.AssignRole(c.Request().Context(), c.Param("id"), a)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, m)
	}
}
