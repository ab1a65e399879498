package analytics

import (
	"fmt"
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
	g := api.Group("/analytics")
	g.GET("/inventory-summary", h.InventorySummary)
	g.GET("/compatibility-matrix", h.CompatibilityMatrix)
	g.GET("/donor-eligibility", h.DonorEligibility)
	g.GET("/waste-analysis", h.WasteAnalysis)
	g.GET("/donation-trends", h.DonationTrends)
	g.GET("/critical-shortages", h.CriticalShortages)
	g.GET("/fulfillment-performance", h.FulfillmentPerformance)
	g.GET("/top-donors", h.TopDonors)
	g.GET("/export", h.Export)

	api.GET("/dashboard/stats", h.Dashboard)
}

// jsonList writes rows, or [] when there are none.
func jsonList[T any](c echo.Context, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	return c.JSON(http.StatusOK, rows)
}

// positiveIntParam reads an optional positive integer query parameter.
func positiveIntParam(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return n, nil
}

func (h *Handler) InventorySummary(c echo.Context) error {
	rows, err := h.svc.InventorySummary(c.Request().Context())
	if err != nil {
		return err
	}
	return jsonList(c, rows)
}

func (h *Handler) CompatibilityMatrix(c echo.Context) error {
	rows, err := h.svc.CompatibilityMatrix(c.Request().Context())
	if err != nil {
		return err
	}
	return jsonList(c, rows)
}

func (h *Handler) DonorEligibility(c echo.Context) error {
	rows, err := h.svc.DonorEligibility(c.Request().Context(), c.QueryParam("eligible_only") == "true")
	if err != nil {
		return err
	}
	return jsonList(c, rows)
}

func (h *Handler) WasteAnalysis(c echo.Context) error {
	rows, err := h.svc.WasteAnalysis(c.Request().Context())
	if err != nil {
		return err
	}
	return jsonList(c, rows)
}

func (h *Handler) DonationTrends(c echo.Context) error {
	months, err := positiveIntParam(c, "months", DefaultTrendMonths)
	if err != nil {
		return err
	}
	rows, err := h.svc.DonationTrends(c.Request().Context(), c.QueryParam("period"), months)
	if err != nil {
		return err
	}
	return jsonList(c, rows)
}

func (h *Handler) CriticalShortages(c echo.Context) error {
	rows, err := h.svc.CriticalShortages(c.Request().Context())
	if err != nil {
		return err
	}
	return jsonList(c, rows)
}

func (h *Handler) FulfillmentPerformance(c echo.Context) error {
	rows, err := h.svc.FulfillmentPerformance(c.Request().Context())
	if err != nil {
		return err
	}
	return jsonList(c, rows)
}

func (h *Handler) TopDonors(c echo.Context) error {
	limit, err := positiveIntParam(c, "limit", DefaultTopDonorLimit)
	if err != nil {
		return err
	}
	rows, err := h.svc.TopDonors(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return jsonList(c, rows)
}

func (h *Handler) Dashboard(c echo.Context) error {
	stats, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) Export(c echo.Context) error {
	data, err := h.svc.Export(c.Request().Context())
	if err != nil {
		return err
	}
	name := fmt.Sprintf("bloodbank-report-%s.xlsx", h.svc.now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, ExportContentType, data)
}
