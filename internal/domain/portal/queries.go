package portal

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/bloodbank/bloodbank-api/internal/domain/bloodrequest"
	"github.com/bloodbank/bloodbank-api/internal/platform/db"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// availableOfGroup counts specimens of br's group that are unexpired on the
// bound date and not used by any fulfillment.
const availableOfGroup = `(SELECT COUNT(*) FROM blood_specimen bs
	WHERE bs.blood_group = br.blood_group AND bs.expiry_date > ?::date
	AND NOT EXISTS (SELECT 1 FROM request_fulfillment rf WHERE rf.specimen_id = bs.specimen_id))`

// RequestsQuery lists the hospital's requests newest first, or only the
// pending ones oldest first.
func RequestsQuery(hospitalID string, asOf time.Time, pendingOnly bool) (string, []any, error) {
	day := db.Date(asOf)
	q := psql.Select(
		"br.request_id", "br.hospital_id", "br.patient_id",
		"p.first_name || ' ' || p.last_name AS patient_name",
		"p.blood_group AS patient_blood_group",
		"br.blood_group AS requested_blood_group",
		"br.units_needed", "br.request_date", "br.status", "br.priority",
	).
		Column(sq.Expr("(?::date - br.request_date) AS days_pending", day)).
		Column(sq.Expr(availableOfGroup+" AS available_units", day)).
		From("blood_request br").
		Join("patient p ON p.patient_id = br.patient_id").
		Where(sq.Eq{"br.hospital_id": hospitalID})

	if pendingOnly {
		q = q.Where(sq.Eq{"br.status": bloodrequest.StatusPending}).
			OrderBy("br.request_date", "br.request_id")
	} else {
		q = q.OrderBy("br.request_date DESC", "br.request_id DESC")
	}
	return q.ToSql()
}

// HistoryQuery joins each request with its fulfillment, specimen, donor and
// blood bank, applying only the filters that are set.
func HistoryQuery(hospitalID string, f HistoryFilter) (string, []any, error) {
	q := psql.Select(
		"br.request_id", "br.patient_id",
		"p.first_name || ' ' || p.last_name AS patient_name",
		"p.blood_group AS patient_blood_group",
		"br.blood_group AS requested_blood_group",
		"br.units_needed", "br.request_date", "br.status",
		"rf.fulfillment_id", "rf.fulfillment_date", "rf.specimen_id",
		"bs.donor_id",
		"d.first_name || ' ' || d.last_name AS donor_name",
		"bs.blood_bank_id", "bb.name AS blood_bank_name",
		"(rf.fulfillment_date - br.request_date) AS days_to_fulfill",
	).
		From("blood_request br").
		Join("patient p ON p.patient_id = br.patient_id").
		LeftJoin("request_fulfillment rf ON rf.request_id = br.request_id").
		LeftJoin("blood_specimen bs ON bs.specimen_id = rf.specimen_id").
		LeftJoin("donor d ON d.donor_id = bs.donor_id").
		LeftJoin("blood_bank bb ON bb.blood_bank_id = bs.blood_bank_id").
		Where(sq.Eq{"br.hospital_id": hospitalID})

	if f.StartDate != nil {
		q = q.Where(sq.GtOrEq{"br.request_date": db.Date(*f.StartDate)})
	}
	if f.EndDate != nil {
		q = q.Where(sq.LtOrEq{"br.request_date": db.Date(*f.EndDate)})
	}
	if f.BloodGroup != "" {
		q = q.Where(sq.Eq{"br.blood_group": f.BloodGroup})
	}
	if f.Status != "" {
		q = q.Where(sq.Eq{"br.status": f.Status})
	}
	return q.OrderBy("br.request_date DESC", "br.request_id DESC").ToSql()
}

const patientsSQL = `
	SELECT p.patient_id,
		p.first_name || ' ' || p.last_name AS patient_name,
		date_part('year', age($2::date, p.date_of_birth))::int AS age,
		p.blood_group,
		p.medical_condition,
		COUNT(br.request_id) AS total_requests,
		COUNT(*) FILTER (WHERE br.status = 'fulfilled') AS fulfilled_requests,
		MAX(br.request_date) AS last_request_date
	FROM patient p
	JOIN blood_request br ON br.patient_id = p.patient_id
	WHERE br.hospital_id = $1
	GROUP BY p.patient_id
	ORDER BY last_request_date DESC, p.patient_id`

// statisticsSQL always yields one row: the counts are zero for a hospital
// without requests.
const statisticsSQL = `
	SELECT COUNT(*) AS total_requests,
		COUNT(*) FILTER (WHERE status = 'pending') AS pending_requests,
		COUNT(*) FILTER (WHERE status = 'approved') AS approved_requests,
		COUNT(*) FILTER (WHERE status = 'rejected') AS rejected_requests,
		COUNT(*) FILTER (WHERE status = 'fulfilled') AS fulfilled_requests,
		COUNT(DISTINCT patient_id) AS unique_patients,
		COALESCE(ROUND(COUNT(*) FILTER (WHERE status = 'fulfilled') * 100.0 / NULLIF(COUNT(*), 0), 2), 0)::float8
			AS fulfillment_rate_percentage
	FROM blood_request
	WHERE hospital_id = $1`

const availabilitySQL = `
	SELECT br.blood_group,
		COUNT(*) AS total_requests,
		SUM(br.units_needed) AS total_units_needed,
		COALESCE(s.available_units, 0) AS available_units,
		COALESCE(s.available_volume, 0) AS available_volume_ml
	FROM blood_request br
	LEFT JOIN (
		SELECT bs.blood_group, COUNT(*) AS available_units, SUM(bs.volume) AS available_volume
		FROM blood_specimen bs
		WHERE bs.expiry_date > $2::date
			AND NOT EXISTS (SELECT 1 FROM request_fulfillment rf WHERE rf.specimen_id = bs.specimen_id)
		GROUP BY bs.blood_group
	) s ON s.blood_group = br.blood_group
	WHERE br.hospital_id = $1 AND br.status IN ('pending', 'approved')
	GROUP BY br.blood_group, s.available_units, s.available_volume`

const monthlyStatsSQL = `
	SELECT date_part('year', request_date)::int AS year,
		date_part('month', request_date)::int AS month,
		to_char(request_date, 'YYYY-MM') AS month_year,
		COUNT(*) AS total_requests,
		SUM(units_needed) AS total_units,
		COUNT(*) FILTER (WHERE status = 'fulfilled') AS fulfilled_count,
		COUNT(*) FILTER (WHERE status = 'pending') AS pending_count,
		COUNT(*) FILTER (WHERE status = 'rejected') AS rejected_count,
		ROUND(AVG(units_needed), 2)::float8 AS avg_units_per_request,
		MAX(units_needed) AS max_units_requested,
		COUNT(DISTINCT patient_id) AS unique_patients
	FROM blood_request
	WHERE hospital_id = $1 AND request_date >= ($2::date - make_interval(months => $3))::date
	GROUP BY 1, 2, 3
	ORDER BY year DESC, month DESC`

const patientSummarySQL = `
	SELECT p.patient_id,
		p.first_name || ' ' || p.last_name AS patient_name,
		p.blood_group,
		p.medical_condition,
		COUNT(br.request_id) AS total_requests,
		SUM(br.units_needed) AS total_units_requested,
		ROUND(AVG(br.units_needed), 2)::float8 AS avg_units_per_request,
		MIN(br.request_date) AS first_request,
		MAX(br.request_date) AS last_request,
		(MAX(br.request_date) - MIN(br.request_date)) AS days_span,
		COUNT(*) FILTER (WHERE br.status = 'fulfilled') AS fulfilled_count,
		COUNT(*) FILTER (WHERE br.status = 'pending') AS pending_count,
		ROUND(COUNT(*) FILTER (WHERE br.status = 'fulfilled') * 100.0 / COUNT(*), 2)::float8 AS fulfillment_rate
	FROM patient p
	JOIN blood_request br ON br.patient_id = p.patient_id
	WHERE br.hospital_id = $1
	GROUP BY p.patient_id
	HAVING COUNT(br.request_id) >= $2
	ORDER BY total_requests DESC, last_request DESC, p.patient_id`

// comparisonSQL puts the hospital beside every other hospital combined.
const comparisonSQL = `
	SELECT 'Your Hospital' AS hospital_category,
		COUNT(*) AS total_requests,
		ROUND(AVG(units_needed), 2)::float8 AS avg_units,
		ROUND(COUNT(*) FILTER (WHERE status = 'fulfilled') * 100.0 / NULLIF(COUNT(*), 0), 2)::float8 AS fulfillment_rate,
		ROUND(AVG($2::date - request_date), 2)::float8 AS avg_age_days
	FROM blood_request
	WHERE hospital_id = $1
	UNION ALL
	SELECT 'System Average',
		COUNT(*),
		ROUND(AVG(units_needed), 2)::float8,
		ROUND(COUNT(*) FILTER (WHERE status = 'fulfilled') * 100.0 / NULLIF(COUNT(*), 0), 2)::float8,
		ROUND(AVG($2::date - request_date), 2)::float8
	FROM blood_request
	WHERE hospital_id <> $1`
