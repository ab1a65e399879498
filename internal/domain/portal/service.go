package portal

import (
	"context"
	"sort"
	"time"

	"github.com/bloodbank/bloodbank-api/internal/domain/analytics"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Requests(ctx context.Context, hospitalID string) ([]*Request, error) {
	reqs, err := s.repo.Requests(ctx, hospitalID, s.now(), false)
	if err != nil {
		return nil, err
	}
	setLevels(reqs)
	return reqs, nil
}

// Pending lists pending requests, urgent ones first and oldest first within
// a level.
func (s *Service) Pending(ctx context.Context, hospitalID string) ([]*Request, error) {
	reqs, err := s.repo.Requests(ctx, hospitalID, s.now(), true)
	if err != nil {
		return nil, err
	}
	setLevels(reqs)
	SortByLevel(reqs)
	return reqs, nil
}

func setLevels(reqs []*Request) {
	for _, r := range reqs {
		r.PriorityLevel = PriorityLevel(r.Status, r.Priority)
	}
}

func (s *Service) Patients(ctx context.Context, hospitalID string) ([]*Patient, error) {
	return s.repo.Patients(ctx, hospitalID, s.now())
}

func (s *Service) Statistics(ctx context.Context, hospitalID string) (*Statistics, error) {
	return s.repo.Statistics(ctx, hospitalID)
}

var stockRank = map[string]int{
	analytics.StockSufficient:   0,
	analytics.StockPartial:      1,
	analytics.StockInsufficient: 2,
}

// BloodAvailability rates each group the hospital is waiting on. Rows are
// ordered sufficient, partial, insufficient, then by group.
func (s *Service) BloodAvailability(ctx context.Context, hospitalID string) ([]*Availability, error) {
	rows, err := s.repo.Availability(ctx, hospitalID, s.now())
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		r.StockStatus = analytics.StockStatus(r.AvailableUnits, r.TotalUnitsNeeded)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := stockRank[rows[i].StockStatus], stockRank[rows[j].StockStatus]
		if ri != rj {
			return ri < rj
		}
		return rows[i].BloodGroup < rows[j].BloodGroup
	})
	return rows, nil
}

func (s *Service) History(ctx context.Context, hospitalID string, f HistoryFilter) ([]*HistoryEntry, error) {
	return s.repo.History(ctx, hospitalID, f)
}

func (s *Service) MonthlyStats(ctx context.Context, hospitalID string) ([]*MonthlyStat, error) {
	return s.repo.MonthlyStats(ctx, hospitalID, s.now())
}

func (s *Service) PatientSummary(ctx context.Context, hospitalID string, minRequests int) ([]*PatientSummary, error) {
	return s.repo.PatientSummary(ctx, hospitalID, minRequests)
}

func (s *Service) PerformanceComparison(ctx context.Context, hospitalID string) ([]*Comparison, error) {
	return s.repo.Comparison(ctx, hospitalID, s.now())
}
