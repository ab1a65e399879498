package portal

import (
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/bloodbank/bloodbank-api/internal/domain/bloodrequest"
)

// Priority levels shown on the hospital dashboard.
const (
	LevelUrgent    = "URGENT"
	LevelNormal    = "NORMAL"
	LevelProcessed = "PROCESSED"
)

// Comparison rows returned by PerformanceComparison.
const (
	CategoryOwn    = "Your Hospital"
	CategorySystem = "System Average"
)

// MonthlyWindowMonths is how far back MonthlyStats looks.
const MonthlyWindowMonths = 12

// PriorityLevel collapses a request's status and priority into the level the
// portal sorts and badges by.
func PriorityLevel(status, priority string) string {
	if status != bloodrequest.StatusPending {
		return LevelProcessed
	}
	if priority == bloodrequest.PriorityHigh || priority == bloodrequest.PriorityUrgent {
		return LevelUrgent
	}
	return LevelNormal
}

var levelRank = map[string]int{LevelUrgent: 0, LevelNormal: 1, LevelProcessed: 2}

// SortByLevel orders requests by priority level. Requests of the same level
// keep their relative order.
func SortByLevel(reqs []*Request) {
	sort.SliceStable(reqs, func(i, j int) bool {
		return levelRank[reqs[i].PriorityLevel] < levelRank[reqs[j].PriorityLevel]
	})
}

// Request is one of the hospital's blood requests with the patient and the
// stock currently available for the requested group.
type Request struct {
	RequestID           string      `json:"request_id" db:"request_id"`
	HospitalID          string      `json:"hospital_id" db:"hospital_id"`
	PatientID           string      `json:"patient_id" db:"patient_id"`
	PatientName         string      `json:"patient_name" db:"patient_name"`
	PatientBloodGroup   string      `json:"patient_blood_group" db:"patient_blood_group"`
	RequestedBloodGroup string      `json:"requested_blood_group" db:"requested_blood_group"`
	UnitsNeeded         int         `json:"units_needed" db:"units_needed"`
	RequestDate         pgtype.Date `json:"request_date" db:"request_date"`
	Status              string      `json:"status" db:"status"`
	Priority            string      `json:"priority" db:"priority"`
	DaysPending         int         `json:"days_pending" db:"days_pending"`
	AvailableUnits      int         `json:"available_units" db:"available_units"`
	PriorityLevel       string      `json:"priority_level" db:"-"`
}

type Patient struct {
	PatientID         string      `json:"patient_id" db:"patient_id"`
	PatientName       string      `json:"patient_name" db:"patient_name"`
	Age               int         `json:"age" db:"age"`
	BloodGroup        string      `json:"blood_group" db:"blood_group"`
	MedicalCondition  *string     `json:"medical_condition" db:"medical_condition"`
	TotalRequests     int         `json:"total_requests" db:"total_requests"`
	FulfilledRequests int         `json:"fulfilled_requests" db:"fulfilled_requests"`
	LastRequestDate   pgtype.Date `json:"last_request_date" db:"last_request_date"`
}

type Statistics struct {
	HospitalID                string  `json:"hospital_id" db:"-"`
	TotalRequests             int     `json:"total_requests" db:"total_requests"`
	PendingRequests           int     `json:"pending_requests" db:"pending_requests"`
	ApprovedRequests          int     `json:"approved_requests" db:"approved_requests"`
	RejectedRequests          int     `json:"rejected_requests" db:"rejected_requests"`
	FulfilledRequests         int     `json:"fulfilled_requests" db:"fulfilled_requests"`
	UniquePatients            int     `json:"unique_patients" db:"unique_patients"`
	FulfillmentRatePercentage float64 `json:"fulfillment_rate_percentage" db:"fulfillment_rate_percentage"`
}

// Availability compares a group's outstanding demand from this hospital with
// the stock available to everyone.
type Availability struct {
	BloodGroup        string `json:"blood_group" db:"blood_group"`
	TotalRequests     int    `json:"total_requests" db:"total_requests"`
	TotalUnitsNeeded  int    `json:"total_units_needed" db:"total_units_needed"`
	AvailableUnits    int    `json:"available_units" db:"available_units"`
	AvailableVolumeML int    `json:"available_volume_ml" db:"available_volume_ml"`
	StockStatus       string `json:"stock_status" db:"-"`
}

// HistoryFilter narrows History. Zero values mean "any".
type HistoryFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	BloodGroup string
	Status     string
}

// HistoryEntry is a request with its fulfillment, if any. The fulfillment
// fields are null for unfulfilled requests.
type HistoryEntry struct {
	RequestID           string      `json:"request_id" db:"request_id"`
	PatientID           string      `json:"patient_id" db:"patient_id"`
	PatientName         string      `json:"patient_name" db:"patient_name"`
	PatientBloodGroup   string      `json:"patient_blood_group" db:"patient_blood_group"`
	RequestedBloodGroup string      `json:"requested_blood_group" db:"requested_blood_group"`
	UnitsNeeded         int         `json:"units_needed" db:"units_needed"`
	RequestDate         pgtype.Date `json:"request_date" db:"request_date"`
	Status              string      `json:"status" db:"status"`
	FulfillmentID       *string     `json:"fulfillment_id" db:"fulfillment_id"`
	FulfillmentDate     pgtype.Date `json:"fulfillment_date" db:"fulfillment_date"`
	SpecimenID          *string     `json:"specimen_id" db:"specimen_id"`
	DonorID             *string     `json:"donor_id" db:"donor_id"`
	DonorName           *string     `json:"donor_name" db:"donor_name"`
	BloodBankID         *string     `json:"blood_bank_id" db:"blood_bank_id"`
	BloodBankName       *string     `json:"blood_bank_name" db:"blood_bank_name"`
	DaysToFulfill       *int        `json:"days_to_fulfill" db:"days_to_fulfill"`
}

type MonthlyStat struct {
	Year               int     `json:"year" db:"year"`
	Month              int     `json:"month" db:"month"`
	MonthYear          string  `json:"month_year" db:"month_year"`
	TotalRequests      int     `json:"total_requests" db:"total_requests"`
	TotalUnits         int     `json:"total_units" db:"total_units"`
	FulfilledCount     int     `json:"fulfilled_count" db:"fulfilled_count"`
	PendingCount       int     `json:"pending_count" db:"pending_count"`
	RejectedCount      int     `json:"rejected_count" db:"rejected_count"`
	AvgUnitsPerRequest float64 `json:"avg_units_per_request" db:"avg_units_per_request"`
	MaxUnitsRequested  int     `json:"max_units_requested" db:"max_units_requested"`
	UniquePatients     int     `json:"unique_patients" db:"unique_patients"`
}

type PatientSummary struct {
	PatientID           string      `json:"patient_id" db:"patient_id"`
	PatientName         string      `json:"patient_name" db:"patient_name"`
	BloodGroup          string      `json:"blood_group" db:"blood_group"`
	MedicalCondition    *string     `json:"medical_condition" db:"medical_condition"`
	TotalRequests       int         `json:"total_requests" db:"total_requests"`
	TotalUnitsRequested int         `json:"total_units_requested" db:"total_units_requested"`
	AvgUnitsPerRequest  float64     `json:"avg_units_per_request" db:"avg_units_per_request"`
	FirstRequest        pgtype.Date `json:"first_request" db:"first_request"`
	LastRequest         pgtype.Date `json:"last_request" db:"last_request"`
	DaysSpan            int         `json:"days_span" db:"days_span"`
	FulfilledCount      int         `json:"fulfilled_count" db:"fulfilled_count"`
	PendingCount        int         `json:"pending_count" db:"pending_count"`
	FulfillmentRate     float64     `json:"fulfillment_rate" db:"fulfillment_rate"`
}

// Comparison is one side of the hospital vs system comparison. The averages
// are null when that side has no requests.
type Comparison struct {
	HospitalCategory string   `json:"hospital_category" db:"hospital_category"`
	TotalRequests    int      `json:"total_requests" db:"total_requests"`
	AvgUnits         *float64 `json:"avg_units" db:"avg_units"`
	FulfillmentRate  *float64 `json:"fulfillment_rate" db:"fulfillment_rate"`
	AvgAgeDays       *float64 `json:"avg_age_days" db:"avg_age_days"`
}
