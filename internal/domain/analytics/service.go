package analytics

import (
	"context"
	"time"
)

const (
	DefaultTrendMonths   = 12
	DefaultTopDonorLimit = 10
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) InventorySummary(ctx context.Context) ([]*InventoryRow, error) {
	rows, err := s.repo.Inventory(ctx, s.now())
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		r.StockStatus = StockStatus(r.AvailableUnits, r.OutstandingUnits)
	}
	return rows, nil
}

// CompatibilityMatrix lists every compatible recipient and donor group pair
// with the donor group's available units, ordered by recipient then donor.
func (s *Service) CompatibilityMatrix(ctx context.Context) ([]*CompatibilityRow, error) {
	inv, err := s.repo.Inventory(ctx, s.now())
	if err != nil {
		return nil, err
	}
	available := make(map[string]int, len(inv))
	for _, r := range inv {
		available[r.BloodGroup] = r.AvailableUnits
	}
	return compatiblePairs(available), nil
}

func compatiblePairs(available map[string]int) []*CompatibilityRow {
	var out []*CompatibilityRow
	for _, recipient := range sortedGroups() {
		for _, donor := range sortedGroups() {
			if !CanDonate(donor, recipient) {
				continue
			}
			out = append(out, &CompatibilityRow{
				RecipientBloodGroup: recipient,
				DonorBloodGroup:     donor,
				CompatibilityStatus: Compatible,
				AvailableUnits:      available[donor],
			})
		}
	}
	return out
}

// DonorEligibility classifies every donor; eligibleOnly drops the donors
// failing either rule.
func (s *Service) DonorEligibility(ctx context.Context, eligibleOnly bool) ([]*DonorEligibility, error) {
	rows, err := s.repo.DonorEligibility(ctx, s.now())
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for _, d := range rows {
		d.AgeEligibility = AgeEligibility(d.Age)
		d.DonationGapEligibility = GapEligibility(d.DaysSinceLastDonation)
		if eligibleOnly && !d.Eligible() {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *Service) WasteAnalysis(ctx context.Context) ([]*WasteRow, error) {
	return s.repo.Waste(ctx, s.now())
}

func (s *Service) DonationTrends(ctx context.Context, period string, months int) ([]*TrendPoint, error) {
	if months <= 0 {
		months = DefaultTrendMonths
	}
	return s.repo.DonationTrends(ctx, ParsePeriod(period), months, s.now())
}

// CriticalShortages returns the groups whose outstanding demand exceeds
// available stock, most severe first.
func (s *Service) CriticalShortages(ctx context.Context) ([]*Shortage, error) {
	rows, err := s.repo.Shortages(ctx, s.now())
	if err != nil {
		return nil, err
	}
	out := make([]*Shortage, 0, len(rows))
	for _, r := range rows {
		severity, shortage, ok := ClassifyShortage(r.UnitsNeeded, r.AvailableUnits)
		if !ok {
			continue
		}
		r.Severity, r.ShortageUnits = severity, shortage
		out = append(out, r)
	}
	SortShortages(out)
	return out, nil
}

func (s *Service) FulfillmentPerformance(ctx context.Context) ([]*HospitalPerformance, error) {
	return s.repo.FulfillmentPerformance(ctx, s.now())
}

func (s *Service) TopDonors(ctx context.Context, limit int) ([]*TopDonor, error) {
	if limit <= 0 {
		limit = DefaultTopDonorLimit
	}
	rows, err := s.repo.TopDonors(ctx, limit)
	if err != nil {
		return nil, err
	}
	for _, d := range rows {
		d.AvgAnnualVolume = AnnualizedVolume(d.TotalVolumeDonated, d.DonorSpanDays)
	}
	return rows, nil
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	return s.repo.Dashboard(ctx, s.now())
}
