package bloodrequest

import "github.com/jackc/pgx/v5/pgtype"

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusFulfilled = "fulfilled"
)

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Request struct {
	RequestID   string      `json:"request_id" db:"request_id"`
	PatientID   string      `json:"patient_id" db:"patient_id"`
	HospitalID  string      `json:"hospital_id" db:"hospital_id"`
	BloodGroup  string      `json:"blood_group" db:"blood_group"`
	UnitsNeeded int         `json:"units_needed" db:"units_needed"`
	RequestDate pgtype.Date `json:"request_date" db:"request_date"`
	Status      string      `json:"status" db:"status"`
	Priority    string      `json:"priority" db:"priority"`
}

// Listed is a request with the names the request pages show.
type Listed struct {
	Request
	PatientName  string `json:"patient_name" db:"patient_name"`
	HospitalName string `json:"hospital_name" db:"hospital_name"`
	DaysPending  int    `json:"days_pending" db:"days_pending"`
}

type Fulfillment struct {
	FulfillmentID   string      `json:"fulfillment_id" db:"fulfillment_id"`
	RequestID       string      `json:"request_id" db:"request_id"`
	SpecimenID      string      `json:"specimen_id" db:"specimen_id"`
	FulfillmentDate pgtype.Date `json:"fulfillment_date" db:"fulfillment_date"`
}

type FulfillInput struct {
	SpecimenID      string      `json:"specimen_id"`
	FulfillmentDate pgtype.Date `json:"fulfillment_date"`
}

type StatusInput struct {
	Status string `json:"status"`
}
