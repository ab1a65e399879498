package specimen

import (
	"context"
	"errors"
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

const specimenCols = `specimen_id, donor_id, blood_group, volume, collection_date, expiry_date, blood_bank_id`

func (r *repoPG) Create(ctx context.Context, s *Specimen) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO blood_specimen (`+specimenCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.SpecimenID, s.DonorID, s.BloodGroup, s.Volume, s.CollectionDate, s.ExpiryDate, s.BloodBankID)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Specimen, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+specimenCols+` FROM blood_specimen WHERE specimen_id = $1`, id)
	if err != nil {
		return nil, err
	}
	s, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Specimen])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.NotFound("blood specimen")
	}
	return s, err
}

func (r *repoPG) Update(ctx context.Context, s *Specimen) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE blood_specimen SET donor_id = $2, blood_group = $3, volume = $4,
			collection_date = $5, expiry_date = $6, blood_bank_id = $7
		WHERE specimen_id = $1`,
		s.SpecimenID, s.DonorID, s.BloodGroup, s.Volume, s.CollectionDate, s.ExpiryDate, s.BloodBankID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound("blood specimen")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM blood_specimen WHERE specimen_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound("blood specimen")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, asOf time.Time) ([]*StockItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT bs.specimen_id, bs.donor_id, bs.blood_group, bs.volume, bs.collection_date,
			bs.expiry_date, bs.blood_bank_id,
			d.first_name || ' ' || d.last_name AS donor_name,
			bb.name AS blood_bank_name,
			(bs.expiry_date - $1::date) AS days_until_expiry,
			(rf.specimen_id IS NOT NULL) AS fulfilled,
			(bs.expiry_date > $1::date AND rf.specimen_id IS NULL) AS available
		FROM blood_specimen bs
		JOIN donor d ON d.donor_id = bs.donor_id
		LEFT JOIN blood_bank bb ON bb.blood_bank_id = bs.blood_bank_id
		LEFT JOIN request_fulfillment rf ON rf.specimen_id = bs.specimen_id
		ORDER BY bs.collection_date DESC, bs.specimen_id`,
		db.Date(asOf))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[StockItem])
}

func (r *repoPG) Summary(ctx context.Context, asOf time.Time) ([]*GroupSummary, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT bs.blood_group,
			COUNT(*) AS total_units,
			COUNT(*) FILTER (WHERE bs.expiry_date > $1::date AND rf.specimen_id IS NULL) AS available_units,
			COUNT(*) FILTER (WHERE bs.expiry_date <= $1::date AND rf.specimen_id IS NULL) AS expired_units,
			COALESCE(SUM(bs.volume), 0) AS total_volume,
			COALESCE(SUM(bs.volume) FILTER (WHERE bs.expiry_date > $1::date AND rf.specimen_id IS NULL), 0) AS available_volume
		FROM blood_specimen bs
		LEFT JOIN request_fulfillment rf ON rf.specimen_id = bs.specimen_id
		GROUP BY bs.blood_group
		ORDER BY bs.blood_group`,
		db.Date(asOf))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[GroupSummary])
}

func (r *repoPG) Expiring(ctx context.Context, asOf time.Time, days int) ([]*ExpiringItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT bs.specimen_id, bs.blood_group, bs.volume, bs.expiry_date,
			(bs.expiry_date - $1::date) AS days_until_expiry,
			d.first_name || ' ' || d.last_name AS donor_name,
			bb.name AS blood_bank_name
		FROM blood_specimen bs
		JOIN donor d ON d.donor_id = bs.donor_id
		LEFT JOIN blood_bank bb ON bb.blood_bank_id = bs.blood_bank_id
		LEFT JOIN request_fulfillment rf ON rf.specimen_id = bs.specimen_id
		WHERE rf.specimen_id IS NULL
			AND bs.expiry_date > $1::date
			AND bs.expiry_date <= $1::date + $2::int
		ORDER BY bs.expiry_date, bs.specimen_id`,
		db.Date(asOf), days)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[ExpiringItem])
}
