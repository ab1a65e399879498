package portal

import (
	"context"
	"time"
)

// Repository reads are all scoped to one hospital.
type Repository interface {
	Requests(ctx context.Context, hospitalID string, asOf time.Time, pendingOnly bool) ([]*Request, error)
	Patients(ctx context.Context, hospitalID string, asOf time.Time) ([]*Patient, error)
	Statistics(ctx context.Context, hospitalID string) (*Statistics, error)
	Availability(ctx context.Context, hospitalID string, asOf time.Time) ([]*Availability, error)
	History(ctx context.Context, hospitalID string, f HistoryFilter) ([]*HistoryEntry, error)
	MonthlyStats(ctx context.Context, hospitalID string, asOf time.Time) ([]*MonthlyStat, error)
	PatientSummary(ctx context.Context, hospitalID string, minRequests int) ([]*PatientSummary, error)
	Comparison(ctx context.Context, hospitalID string, asOf time.Time) ([]*Comparison, error)
}
