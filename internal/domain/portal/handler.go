package portal

import (
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bloodbank/bloodbank-api/internal/domain/analytics"
	"github.com/bloodbank/bloodbank-api/internal/domain/bloodrequest"
	"github.com/bloodbank/bloodbank-api/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the portal under /hospital. Every route needs a
// bearer token and only sees the token's hospital.
func (h *Handler) RegisterRoutes(api *echo.Group, requireToken echo.MiddlewareFunc) {
	g := api.Group("/hospital", requireToken)
	g.GET("", h.Requests)
	g.GET("/pending", h.Pending)
	g.GET("/patients", h.Patients)
	g.GET("/statistics", h.Statistics)
	g.GET("/blood-availability", h.BloodAvailability)
	g.GET("/history", h.History)
	g.GET("/monthly-stats", h.MonthlyStats)
	g.GET("/patient-summary", h.PatientSummary)
	g.GET("/performance-comparison", h.PerformanceComparison)
}

func hospitalID(c echo.Context) (string, error) {
	claims := auth.ClaimsFromContext(c.Request().Context())
	if claims == nil || claims.HospitalID == "" {
		return "", auth.ErrTokenRequired
	}
	return claims.HospitalID, nil
}

func jsonList[T any](c echo.Context, rows []T, err error) error {
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []T{}
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) Requests(c echo.Context) error {
	id, err := hospitalID(c)
	if err != nil {
		return err
	}
	rows, err := h.svc.Requests(c.Request().Context(), id)
	return jsonList(c, rows, err)
}

func (h *Handler) Pending(c echo.Context) error {
	id, err := hospitalID(c)
	if err != nil {
		return err
	}
	rows, err := h.svc.Pending(c.Request().Context(), id)
	return jsonList(c, rows, err)
}

func (h *Handler) Patients(c echo.Context) error {
	id, err := hospitalID(c)
	if err != nil {
		return err
	}
	rows, err := h.svc.Patients(c.Request().Context(), id)
	return jsonList(c, rows, err)
}

func (h *Handler) Statistics(c echo.Context) error {
	id, err := hospitalID(c)
	if err != nil {
		return err
	}
	st, err := h.svc.Statistics(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) BloodAvailability(c echo.Context) error {
	id, err := hospitalID(c)
	if err != nil {
		return err
	}
	rows, err := h.svc.BloodAvailability(c.Request().Context(), id)
	return jsonList(c, rows, err)
}

var requestStatuses = []string{
	bloodrequest.StatusPending, bloodrequest.StatusApproved,
	bloodrequest.StatusRejected, bloodrequest.StatusFulfilled,
}

func dateParam(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a date (YYYY-MM-DD)")
	}
	return &t, nil
}

func (h *Handler) History(c echo.Context) error {
	id, err := hospitalID(c)
	if err != nil {
		return err
	}

	var f HistoryFilter
	if f.StartDate, err = dateParam(c, "start_date"); err != nil {
		return err
	}
	if f.EndDate, err = dateParam(c, "end_date"); err != nil {
		return err
	}
	f.BloodGroup = c.QueryParam("blood_group")
	if f.BloodGroup != "" && !slices.Contains(analytics.BloodGroups, f.BloodGroup) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown blood_group "+f.BloodGroup)
	}
	f.Status = c.QueryParam("status")
	if f.Status != "" && !slices.Contains(requestStatuses, f.Status) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown status "+f.Status)
	}

	rows, err := h.svc.History(c.Request().Context(), id, f)
	return jsonList(c, rows, err)
}

func (h *Handler) MonthlyStats(c echo.Context) error {
	id, err := hospitalID(c)
	if err != nil {
		return err
	}
	rows, err := h.svc.MonthlyStats(c.Request().Context(), id)
	return jsonList(c, rows, err)
}

func (h *Handler) PatientSummary(c echo.Context) error {
	id, err := hospitalID(c)
	if err != nil {
		return err
	}
	minRequests := 0
	if v := c.QueryParam("min_requests"); v != "" {
		minRequests, err = strconv.Atoi(v)
		if err != nil || minRequests < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "min_requests must be a non-negative integer")
		}
	}
	rows, err := h.svc.PatientSummary(c.Request().Context(), id, minRequests)
	return jsonList(c, rows, err)
}

func (h *Handler) PerformanceComparison(c echo.Context) error {
	id, err := hospitalID(c)
	if err != nil {
		return err
	}
	rows, err := h.svc.PerformanceComparison(c.Request().Context(), id)
	return jsonList(c, rows, err)
}
