package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bloodbank/bloodbank-api/internal/platform/db"
)

type repoPG struct {
	pool db.Querier
}

func NewRepo(pool db.Querier) Repository {
	return &repoPG{pool: pool}
}

func collect[T any](ctx context.Context, conn db.Querier, q Query) ([]*T, error) {
	rows, err := conn.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func (r *repoPG) Inventory(ctx context.Context, asOf time.Time) ([]*InventoryRow, error) {
	return collect[InventoryRow](ctx, r.conn(ctx), InventorySummaryQuery(asOf))
}

func (r *repoPG) DonorEligibility(ctx context.Context, asOf time.Time) ([]*DonorEligibility, error) {
	return collect[DonorEligibility](ctx, r.conn(ctx), DonorEligibilityQuery(asOf))
}

func (r *repoPG) Waste(ctx context.Context, asOf time.Time) ([]*WasteRow, error) {
	return collect[WasteRow](ctx, r.conn(ctx), WasteQuery(asOf))
}

func (r *repoPG) DonationTrends(ctx context.Context, period string, months int, asOf time.Time) ([]*TrendPoint, error) {
	q, err := DonationTrendsQuery(period, months, asOf)
	if err != nil {
		return nil, err
	}
	return collect[TrendPoint](ctx, r.conn(ctx), q)
}

func (r *repoPG) Shortages(ctx context.Context, asOf time.Time) ([]*Shortage, error) {
	return collect[Shortage](ctx, r.conn(ctx), ShortageQuery(asOf))
}

func (r *repoPG) FulfillmentPerformance(ctx context.Context, asOf time.Time) ([]*HospitalPerformance, error) {
	return collect[HospitalPerformance](ctx, r.conn(ctx), FulfillmentPerformanceQuery(asOf))
}

func (r *repoPG) TopDonors(ctx context.Context, limit int) ([]*TopDonor, error) {
	q, err := TopDonorsQuery(limit)
	if err != nil {
		return nil, err
	}
	return collect[TopDonor](ctx, r.conn(ctx), q)
}

func (r *repoPG) Dashboard(ctx context.Context, asOf time.Time) (*DashboardStats, error) {
	q := DashboardQuery(asOf)
	rows, err := r.conn(ctx).Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[DashboardStats])
}
