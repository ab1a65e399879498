package warning

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/bloodbank/bloodbank-api/internal/platform/db"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type repoPG struct {
	pool db.Querier
}

func NewRepo(pool db.Querier) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const warningCols = "warning_id, warning_type, severity, message, hospital_id, entity_type, entity_id, is_read, created_at"

// scoped limits a query to one hospital plus the global warnings. An empty
// hospitalID leaves it unscoped.
func scoped(hospitalID string) sq.Sqlizer {
	if hospitalID == "" {
		return sq.Expr("TRUE")
	}
	return sq.Or{sq.Eq{"hospital_id": hospitalID}, sq.Eq{"hospital_id": nil}}
}

func listQuery(f Filter) (string, []any, error) {
	q := psql.Select(warningCols).From("system_warnings").Where(scoped(f.HospitalID))
	if f.Severity != "" {
		q = q.Where(sq.Eq{"severity": f.Severity})
	}
	if f.EntityType != "" {
		q = q.Where(sq.Eq{"entity_type": f.EntityType})
	}
	if f.IsRead != nil {
		q = q.Where(sq.Eq{"is_read": *f.IsRead})
	}
	return q.OrderBy("created_at DESC", "warning_id DESC").Limit(uint64(f.Limit)).ToSql()
}

func (r *repoPG) List(ctx context.Context, f Filter) ([]*Warning, error) {
	query, args, err := listQuery(f)
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Warning])
}

func (r *repoPG) CountUnread(ctx context.Context, hospitalID string) (int, error) {
	query, args, err := psql.Select("COUNT(*)").From("system_warnings").
		Where(sq.Eq{"is_read": false}).Where(scoped(hospitalID)).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = r.conn(ctx).QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

func (r *repoPG) BySeverity(ctx context.Context, hospitalID string) ([]*SeverityCount, error) {
	query, args, err := psql.
		Select("severity", "COUNT(*) AS count", "COUNT(*) FILTER (WHERE NOT is_read) AS unread_count").
		From("system_warnings").Where(scoped(hospitalID)).
		GroupBy("severity").
		OrderBy("CASE severity WHEN 'error' THEN 1 WHEN 'warning' THEN 2 ELSE 3 END").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[SeverityCount])
}

func (r *repoPG) Create(ctx context.Context, w *Warning) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO system_warnings (warning_type, severity, message, hospital_id, entity_type, entity_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING warning_id, is_read, created_at`,
		w.WarningType, w.Severity, w.Message, w.HospitalID, w.EntityType, w.EntityID,
	).Scan(&w.WarningID, &w.IsRead, &w.CreatedAt)
}

// MarkRead is idempotent: marking a read warning again succeeds.
func (r *repoPG) MarkRead(ctx context.Context, id int) error {
	var found int
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE system_warnings SET is_read = TRUE WHERE warning_id = $1 RETURNING warning_id`, id).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return db.NotFound("warning")
	}
	return err
}

func markAllReadQuery(hospitalID string) (string, []any, error) {
	return psql.Update("system_warnings").Set("is_read", true).
		Where(sq.Eq{"is_read": false}).Where(scoped(hospitalID)).ToSql()
}

func (r *repoPG) MarkAllRead(ctx context.Context, hospitalID string) (int64, error) {
	query, args, err := markAllReadQuery(hospitalID)
	if err != nil {
		return 0, err
	}
	tag, err := r.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repoPG) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM system_warnings WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repoPG) HasUnread(ctx context.Context, warningType, severity, entityType, entityID string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM system_warnings
			WHERE warning_type = $1 AND severity = $2 AND entity_type = $3 AND entity_id = $4 AND NOT is_read
		)`, warningType, severity, entityType, entityID).Scan(&exists)
	return exists, err
}
