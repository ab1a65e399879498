package analytics

import (
	"context"
	"time"
)

// Repository runs the report queries. Rows come back unclassified; the
// service applies the rules in rules.go.
type Repository interface {
	Inventory(ctx context.Context, asOf time.Time) ([]*InventoryRow, error)
	DonorEligibility(ctx context.Context, asOf time.Time) ([]*DonorEligibility, error)
	Waste(ctx context.Context, asOf time.Time) ([]*WasteRow, error)
	DonationTrends(ctx context.Context, period string, months int, asOf time.Time) ([]*TrendPoint, error)
	Shortages(ctx context.Context, asOf time.Time) ([]*Shortage, error)
	FulfillmentPerformance(ctx context.Context, asOf time.Time) ([]*HospitalPerformance, error)
	TopDonors(ctx context.Context, limit int) ([]*TopDonor, error)
	Dashboard(ctx context.Context, asOf time.Time) (*DashboardStats, error)
}
