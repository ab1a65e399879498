package portal

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

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func collect[T any](ctx context.Context, conn db.Querier, query string, args ...any) ([]*T, error) {
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
}

func (r *repoPG) Requests(ctx context.Context, hospitalID string, asOf time.Time, pendingOnly bool) ([]*Request, error) {
	query, args, err := RequestsQuery(hospitalID, asOf, pendingOnly)
	if err != nil {
		return nil, err
	}
	return collect[Request](ctx, r.conn(ctx), query, args...)
}

func (r *repoPG) Patients(ctx context.Context, hospitalID string, asOf time.Time) ([]*Patient, error) {
	return collect[Patient](ctx, r.conn(ctx), patientsSQL, hospitalID, db.Date(asOf))
}

func (r *repoPG) Statistics(ctx context.Context, hospitalID string) (*Statistics, error) {
	rows, err := r.conn(ctx).Query(ctx, statisticsSQL, hospitalID)
	if err != nil {
		return nil, err
	}
	st, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Statistics])
	if err != nil {
		return nil, err
	}
	st.HospitalID = hospitalID
	return st, nil
}

func (r *repoPG) Availability(ctx context.Context, hospitalID string, asOf time.Time) ([]*Availability, error) {
	return collect[Availability](ctx, r.conn(ctx), availabilitySQL, hospitalID, db.Date(asOf))
}

func (r *repoPG) History(ctx context.Context, hospitalID string, f HistoryFilter) ([]*HistoryEntry, error) {
	query, args, err := HistoryQuery(hospitalID, f)
	if err != nil {
		return nil, err
	}
	return collect[HistoryEntry](ctx, r.conn(ctx), query, args...)
}

func (r *repoPG) MonthlyStats(ctx context.Context, hospitalID string, asOf time.Time) ([]*MonthlyStat, error) {
	return collect[MonthlyStat](ctx, r.conn(ctx), monthlyStatsSQL, hospitalID, db.Date(asOf), MonthlyWindowMonths)
}

func (r *repoPG) PatientSummary(ctx context.Context, hospitalID string, minRequests int) ([]*PatientSummary, error) {
	return collect[PatientSummary](ctx, r.conn(ctx), patientSummarySQL, hospitalID, minRequests)
}

func (r *repoPG) Comparison(ctx context.Context, hospitalID string, asOf time.Time) ([]*Comparison, error) {
	return collect[Comparison](ctx, r.conn(ctx), comparisonSQL, hospitalID, db.Date(asOf))
}
