package analytics

import "github.com/jackc/pgx/v5/pgtype"

// InventoryRow is the stock position of one blood group.
type InventoryRow struct {
	BloodGroup       string `json:"blood_group" db:"blood_group"`
	TotalUnits       int    `json:"total_units" db:"total_units"`
	AvailableUnits   int    `json:"available_units" db:"available_units"`
	ExpiredUnits     int    `json:"expired_units" db:"expired_units"`
	FulfilledUnits   int    `json:"fulfilled_units" db:"fulfilled_units"`
	TotalVolume      int    `json:"total_volume" db:"total_volume"`
	AvailableVolume  int    `json:"available_volume" db:"available_volume"`
	OutstandingUnits int    `json:"outstanding_units" db:"outstanding_units"`
	StockStatus      string `json:"stock_status" db:"-"`
}

type CompatibilityRow struct {
	RecipientBloodGroup string `json:"recipient_blood_group"`
	DonorBloodGroup     string `json:"donor_blood_group"`
	CompatibilityStatus string `json:"compatibility_status"`
	AvailableUnits      int    `json:"available_units"`
}

type DonorEligibility struct {
	DonorID                string      `json:"donor_id" db:"donor_id"`
	DonorName              string      `json:"donor_name" db:"donor_name"`
	Sex                    string      `json:"sex" db:"sex"`
	BloodGroup             *string     `json:"blood_group" db:"blood_group"`
	Age                    int         `json:"age" db:"age"`
	TotalDonations         int         `json:"total_donations" db:"total_donations"`
	LastDonationDate       pgtype.Date `json:"last_donation_date" db:"last_donation_date"`
	DaysSinceLastDonation  *int        `json:"days_since_last_donation" db:"days_since_last_donation"`
	AgeEligibility         string      `json:"age_eligibility" db:"-"`
	DonationGapEligibility string      `json:"donation_gap_eligibility" db:"-"`
}

// Eligible reports whether the donor passes both the age and the gap rule.
func (d *DonorEligibility) Eligible() bool {
	return d.AgeEligibility == Eligible && d.DonationGapEligibility == Eligible
}

type WasteRow struct {
	BloodGroup        string      `json:"blood_group" db:"blood_group"`
	TotalExpired      int         `json:"total_expired" db:"total_expired"`
	TotalVolumeWasted int         `json:"total_volume_wasted" db:"total_volume_wasted"`
	AvgStorageDays    float64     `json:"avg_storage_days" db:"avg_storage_days"`
	EarliestExpiry    pgtype.Date `json:"earliest_expiry" db:"earliest_expiry"`
	LatestExpiry      pgtype.Date `json:"latest_expiry" db:"latest_expiry"`
	CurrentStock      int         `json:"current_stock" db:"current_stock"`
	WastePercentage   float64     `json:"waste_percentage" db:"waste_percentage"`
}

type TrendPoint struct {
	Period        string  `json:"period" db:"period"`
	BloodGroup    string  `json:"blood_group" db:"blood_group"`
	DonationCount int     `json:"donation_count" db:"donation_count"`
	TotalVolume   int     `json:"total_volume" db:"total_volume"`
	AvgVolume     float64 `json:"avg_volume" db:"avg_volume"`
	UniqueDonors  int     `json:"unique_donors" db:"unique_donors"`
}

// Shortage compares outstanding (pending and approved) request units for a
// group with its available units.
type Shortage struct {
	BloodGroup      string `json:"blood_group" db:"blood_group"`
	PendingRequests int    `json:"pending_requests" db:"pending_requests"`
	UnitsNeeded     int    `json:"units_needed" db:"units_needed"`
	AvailableUnits  int    `json:"available_units" db:"available_units"`
	AvailableVolume int    `json:"available_volume" db:"available_volume"`
	ShortageUnits   int    `json:"shortage_units" db:"-"`
	Severity        string `json:"severity" db:"-"`
}

type HospitalPerformance struct {
	HospitalID          string   `json:"hospital_id" db:"hospital_id"`
	HospitalName        string   `json:"hospital_name" db:"hospital_name"`
	TotalRequests       int      `json:"total_requests" db:"total_requests"`
	FulfilledRequests   int      `json:"fulfilled_requests" db:"fulfilled_requests"`
	FulfillmentRate     float64  `json:"fulfillment_rate" db:"fulfillment_rate"`
	AvgDaysToFulfill    *float64 `json:"avg_days_to_fulfill" db:"avg_days_to_fulfill"`
	MinDaysToFulfill    *int     `json:"min_days_to_fulfill" db:"min_days_to_fulfill"`
	MaxDaysToFulfill    *int     `json:"max_days_to_fulfill" db:"max_days_to_fulfill"`
	TotalUnitsRequested int      `json:"total_units_requested" db:"total_units_requested"`
	PendingCount        int      `json:"pending_count" db:"pending_count"`
	RejectedCount       int      `json:"rejected_count" db:"rejected_count"`
}

type TopDonor struct {
	DonorID            string      `json:"donor_id" db:"donor_id"`
	DonorName          string      `json:"donor_name" db:"donor_name"`
	Sex                string      `json:"sex" db:"sex"`
	PhoneNumber        *string     `json:"phone_number" db:"phone_number"`
	EmailID            *string     `json:"email_id" db:"email_id"`
	BloodGroup         string      `json:"blood_group" db:"blood_group"`
	TotalDonations     int         `json:"total_donations" db:"total_donations"`
	TotalVolumeDonated int         `json:"total_volume_donated" db:"total_volume_donated"`
	FirstDonation      pgtype.Date `json:"first_donation" db:"first_donation"`
	LastDonation       pgtype.Date `json:"last_donation" db:"last_donation"`
	DonorSpanDays      int         `json:"donor_span_days" db:"donor_span_days"`
	AvgAnnualVolume    *float64    `json:"avg_annual_volume" db:"-"`
}

type DashboardStats struct {
	TotalDonors        int `json:"total_donors" db:"total_donors"`
	TotalPatients      int `json:"total_patients" db:"total_patients"`
	TotalHospitals     int `json:"total_hospitals" db:"total_hospitals"`
	AvailableSpecimens int `json:"available_specimens" db:"available_specimens"`
	PendingRequests    int `json:"pending_requests" db:"pending_requests"`
	UnreadWarnings     int `json:"unread_warnings" db:"unread_warnings"`
}
