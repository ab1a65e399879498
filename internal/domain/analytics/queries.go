package analytics

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/bloodbank/bloodbank-api/internal/platform/db"
)

// Query is SQL text with its positional arguments. Every report is built by
// a pure function so the text can be inspected without a database.
type Query struct {
	SQL  string
	Args []any
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// availableStock is the availability rule: unexpired on $1 and not used by
// any fulfillment. It expects blood_specimen aliased bs.
const availableStock = `bs.expiry_date > $1::date
	AND NOT EXISTS (SELECT 1 FROM request_fulfillment rf WHERE rf.specimen_id = bs.specimen_id)`

func InventorySummaryQuery(asOf time.Time) Query {
	return Query{
		SQL: `
		SELECT g.blood_group,
			COALESCE(s.total_units, 0) AS total_units,
			COALESCE(s.available_units, 0) AS available_units,
			COALESCE(s.expired_units, 0) AS expired_units,
			COALESCE(s.fulfilled_units, 0) AS fulfilled_units,
			COALESCE(s.total_volume, 0) AS total_volume,
			COALESCE(s.available_volume, 0) AS available_volume,
			COALESCE(r.outstanding_units, 0) AS outstanding_units
		FROM unnest($2::text[]) WITH ORDINALITY AS g(blood_group, ord)
		LEFT JOIN (
			SELECT bs.blood_group,
				COUNT(*) AS total_units,
				COUNT(*) FILTER (WHERE bs.expiry_date > $1::date AND rf.specimen_id IS NULL) AS available_units,
				COUNT(*) FILTER (WHERE bs.expiry_date <= $1::date AND rf.specimen_id IS NULL) AS expired_units,
				COUNT(rf.specimen_id) AS fulfilled_units,
				SUM(bs.volume) AS total_volume,
				SUM(bs.volume) FILTER (WHERE bs.expiry_date > $1::date AND rf.specimen_id IS NULL) AS available_volume
			FROM blood_specimen bs
			LEFT JOIN request_fulfillment rf ON rf.specimen_id = bs.specimen_id
			GROUP BY bs.blood_group
		) s ON s.blood_group = g.blood_group
		LEFT JOIN (
			SELECT blood_group, SUM(units_needed) AS outstanding_units
			FROM blood_request
			WHERE status IN ('pending', 'approved')
			GROUP BY blood_group
		) r ON r.blood_group = g.blood_group
		ORDER BY g.ord`,
		Args: []any{db.Date(asOf), BloodGroups},
	}
}

// DonorEligibilityQuery returns the raw inputs of the eligibility rules for
// every donor: age on asOf and days since the last donation (NULL when the
// donor never gave).
func DonorEligibilityQuery(asOf time.Time) Query {
	return Query{
		SQL: `
		SELECT d.donor_id,
			d.first_name || ' ' || d.last_name AS donor_name,
			d.sex,
			(SELECT bs.blood_group FROM blood_specimen bs
				WHERE bs.donor_id = d.donor_id
				ORDER BY bs.collection_date DESC LIMIT 1) AS blood_group,
			date_part('year', age($1::date, d.date_of_birth))::int AS age,
			COUNT(bs.specimen_id) AS total_donations,
			MAX(bs.collection_date) AS last_donation_date,
			($1::date - MAX(bs.collection_date)) AS days_since_last_donation
		FROM donor d
		LEFT JOIN blood_specimen bs ON bs.donor_id = d.donor_id
		GROUP BY d.donor_id, d.first_name, d.last_name, d.sex, d.date_of_birth
		ORDER BY total_donations DESC, last_donation_date DESC NULLS LAST, d.donor_id`,
		Args: []any{db.Date(asOf)},
	}
}

// WasteQuery reports specimens that expired unused on or before asOf.
func WasteQuery(asOf time.Time) Query {
	return Query{
		SQL: `
		SELECT bs.blood_group,
			COUNT(*) AS total_expired,
			SUM(bs.volume) AS total_volume_wasted,
			AVG(bs.expiry_date - bs.collection_date)::float8 AS avg_storage_days,
			MIN(bs.expiry_date) AS earliest_expiry,
			MAX(bs.expiry_date) AS latest_expiry,
			(SELECT COUNT(*) FROM blood_specimen s2
				WHERE s2.blood_group = bs.blood_group AND s2.expiry_date > $1::date
				AND NOT EXISTS (SELECT 1 FROM request_fulfillment rf WHERE rf.specimen_id = s2.specimen_id)
			) AS current_stock,
			ROUND(COUNT(*) * 100.0 /
				(SELECT COUNT(*) FROM blood_specimen s3 WHERE s3.blood_group = bs.blood_group), 2
			)::float8 AS waste_percentage
		FROM blood_specimen bs
		WHERE bs.expiry_date <= $1::date
			AND NOT EXISTS (SELECT 1 FROM request_fulfillment rf WHERE rf.specimen_id = bs.specimen_id)
		GROUP BY bs.blood_group
		ORDER BY total_volume_wasted DESC, bs.blood_group`,
		Args: []any{db.Date(asOf)},
	}
}

var periodFormats = map[string]string{
	PeriodDay:   `to_char(collection_date, 'YYYY-MM-DD')`,
	PeriodWeek:  `to_char(collection_date, 'IYYY-"W"IW')`,
	PeriodMonth: `to_char(collection_date, 'YYYY-MM')`,
}

// DonationTrendsQuery groups donations collected within the last months
// months by period and blood group, newest period first.
func DonationTrendsQuery(period string, months int, asOf time.Time) (Query, error) {
	label := periodFormats[ParsePeriod(period)]
	q, args, err := psql.
		Select(
			label+" AS period",
			"blood_group",
			"COUNT(*) AS donation_count",
			"SUM(volume) AS total_volume",
			"AVG(volume)::float8 AS avg_volume",
			"COUNT(DISTINCT donor_id) AS unique_donors",
		).
		From("blood_specimen").
		Where(sq.Expr("collection_date >= ?::date - make_interval(months => ?)", db.Date(asOf), months)).
		GroupBy(label, "blood_group").
		OrderBy("period DESC", "blood_group").
		ToSql()
	if err != nil {
		return Query{}, fmt.Errorf("build donation trends query: %w", err)
	}
	return Query{SQL: q, Args: args}, nil
}

// ShortageQuery totals outstanding request units per group next to the
// group's available units. Classification happens in ClassifyShortage.
func ShortageQuery(asOf time.Time) Query {
	return Query{
		SQL: `
		SELECT br.blood_group,
			COUNT(*) AS pending_requests,
			SUM(br.units_needed) AS units_needed,
			(SELECT COUNT(*) FROM blood_specimen bs
				WHERE bs.blood_group = br.blood_group AND ` + availableStock + `) AS available_units,
			(SELECT COALESCE(SUM(bs.volume), 0) FROM blood_specimen bs
				WHERE bs.blood_group = br.blood_group AND ` + availableStock + `) AS available_volume
		FROM blood_request br
		WHERE br.status IN ('pending', 'approved')
		GROUP BY br.blood_group`,
		Args: []any{db.Date(asOf)},
	}
}

// PerformanceWindowMonths is the trailing window of FulfillmentPerformanceQuery.
const PerformanceWindowMonths = 6

func FulfillmentPerformanceQuery(asOf time.Time) Query {
	return Query{
		SQL: `
		SELECT h.hospital_id,
			h.name AS hospital_name,
			COUNT(br.request_id) AS total_requests,
			COUNT(rf.fulfillment_id) AS fulfilled_requests,
			ROUND(COUNT(rf.fulfillment_id) * 100.0 / COUNT(br.request_id), 2)::float8 AS fulfillment_rate,
			AVG(rf.fulfillment_date - br.request_date)::float8 AS avg_days_to_fulfill,
			MIN(rf.fulfillment_date - br.request_date) AS min_days_to_fulfill,
			MAX(rf.fulfillment_date - br.request_date) AS max_days_to_fulfill,
			SUM(br.units_needed) AS total_units_requested,
			COUNT(*) FILTER (WHERE br.status = 'pending') AS pending_count,
			COUNT(*) FILTER (WHERE br.status = 'rejected') AS rejected_count
		FROM hospital h
		JOIN blood_request br ON br.hospital_id = h.hospital_id
		LEFT JOIN request_fulfillment rf ON rf.request_id = br.request_id
		WHERE br.request_date >= $1::date - make_interval(months => $2)
		GROUP BY h.hospital_id, h.name
		ORDER BY fulfillment_rate DESC, avg_days_to_fulfill ASC NULLS LAST, h.hospital_id`,
		Args: []any{db.Date(asOf), PerformanceWindowMonths},
	}
}

// TopDonorsQuery ranks donors by donation count, then by volume.
func TopDonorsQuery(limit int) (Query, error) {
	q, args, err := psql.
		Select(
			"d.donor_id",
			"d.first_name || ' ' || d.last_name AS donor_name",
			"d.sex",
			"d.phone_number",
			"d.email_id",
			`(SELECT s.blood_group FROM blood_specimen s WHERE s.donor_id = d.donor_id
				ORDER BY s.collection_date DESC LIMIT 1) AS blood_group`,
			"COUNT(bs.specimen_id) AS total_donations",
			"SUM(bs.volume) AS total_volume_donated",
			"MIN(bs.collection_date) AS first_donation",
			"MAX(bs.collection_date) AS last_donation",
			"(MAX(bs.collection_date) - MIN(bs.collection_date)) AS donor_span_days",
		).
		From("donor d").
		Join("blood_specimen bs ON bs.donor_id = d.donor_id").
		GroupBy("d.donor_id", "d.first_name", "d.last_name", "d.sex", "d.phone_number", "d.email_id").
		OrderBy("total_donations DESC", "total_volume_donated DESC", "d.donor_id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return Query{}, fmt.Errorf("build top donors query: %w", err)
	}
	return Query{SQL: q, Args: args}, nil
}

func DashboardQuery(asOf time.Time) Query {
	return Query{
		SQL: `
		SELECT
			(SELECT COUNT(*) FROM donor) AS total_donors,
			(SELECT COUNT(*) FROM patient) AS total_patients,
			(SELECT COUNT(*) FROM hospital) AS total_hospitals,
			(SELECT COUNT(*) FROM blood_specimen bs WHERE ` + availableStock + `) AS available_specimens,
			(SELECT COUNT(*) FROM blood_request WHERE status = 'pending') AS pending_requests,
			(SELECT COUNT(*) FROM system_warnings WHERE NOT is_read) AS unread_warnings`,
		Args: []any{db.Date(asOf)},
	}
}
