package analytics

import (
	"context"
	"fmt"

	"github.com/bloodbank/bloodbank-api/internal/platform/report"
)

// ExportContentType is the media type of Export's output.
const ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export renders the main reports into one xlsx workbook, a sheet each.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	inv, err := s.InventorySummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory summary: %w", err)
	}
	shortages, err := s.CriticalShortages(ctx)
	if err != nil {
		return nil, fmt.Errorf("critical shortages: %w", err)
	}
	waste, err := s.WasteAnalysis(ctx)
	if err != nil {
		return nil, fmt.Errorf("waste analysis: %w", err)
	}
	donors, err := s.TopDonors(ctx, DefaultTopDonorLimit)
	if err != nil {
		return nil, fmt.Errorf("top donors: %w", err)
	}
	perf, err := s.FulfillmentPerformance(ctx)
	if err != nil {
		return nil, fmt.Errorf("fulfillment performance: %w", err)
	}

	return report.Workbook([]report.Sheet{
		inventorySheet(inv),
		shortageSheet(shortages),
		wasteSheet(waste),
		topDonorSheet(donors),
		performanceSheet(perf),
	})
}

func inventorySheet(rows []*InventoryRow) report.Sheet {
	sh := report.Sheet{
		Name: "Inventory",
		Headers: []string{"Blood Group", "Total Units", "Available Units", "Expired Units",
			"Fulfilled Units", "Available Volume (ml)", "Outstanding Units", "Stock Status"},
	}
	for _, r := range rows {
		sh.Rows = append(sh.Rows, []any{r.BloodGroup, r.TotalUnits, r.AvailableUnits, r.ExpiredUnits,
			r.FulfilledUnits, r.AvailableVolume, r.OutstandingUnits, r.StockStatus})
	}
	return sh
}

func shortageSheet(rows []*Shortage) report.Sheet {
	sh := report.Sheet{
		Name:    "Critical Shortages",
		Headers: []string{"Blood Group", "Pending Requests", "Units Needed", "Available Units", "Shortage Units", "Severity"},
	}
	for _, r := range rows {
		sh.Rows = append(sh.Rows, []any{r.BloodGroup, r.PendingRequests, r.UnitsNeeded, r.AvailableUnits, r.ShortageUnits, r.Severity})
	}
	return sh
}

func wasteSheet(rows []*WasteRow) report.Sheet {
	sh := report.Sheet{
		Name: "Waste",
		Headers: []string{"Blood Group", "Expired Units", "Volume Wasted (ml)", "Avg Storage Days",
			"Earliest Expiry", "Latest Expiry", "Current Stock", "Waste %"},
	}
	for _, r := range rows {
		sh.Rows = append(sh.Rows, []any{r.BloodGroup, r.TotalExpired, r.TotalVolumeWasted, r.AvgStorageDays,
			r.EarliestExpiry, r.LatestExpiry, r.CurrentStock, r.WastePercentage})
	}
	return sh
}

func topDonorSheet(rows []*TopDonor) report.Sheet {
	sh := report.Sheet{
		Name: "Top Donors",
		Headers: []string{"Donor ID", "Name", "Blood Group", "Donations", "Volume (ml)",
			"First Donation", "Last Donation", "Annual Volume (ml)"},
	}
	for _, r := range rows {
		sh.Rows = append(sh.Rows, []any{r.DonorID, r.DonorName, r.BloodGroup, r.TotalDonations, r.TotalVolumeDonated,
			r.FirstDonation, r.LastDonation, r.AvgAnnualVolume})
	}
	return sh
}

func performanceSheet(rows []*HospitalPerformance) report.Sheet {
	sh := report.Sheet{
		Name: "Fulfillment Performance",
		Headers: []string{"Hospital ID", "Hospital", "Requests", "Fulfilled", "Rate %",
			"Avg Days", "Min Days", "Max Days", "Pending", "Rejected"},
	}
	for _, r := range rows {
		sh.Rows = append(sh.Rows, []any{r.HospitalID, r.HospitalName, r.TotalRequests, r.FulfilledRequests, r.FulfillmentRate,
			r.AvgDaysToFulfill, r.MinDaysToFulfill, r.MaxDaysToFulfill, r.PendingCount, r.RejectedCount})
	}
	return sh
}
