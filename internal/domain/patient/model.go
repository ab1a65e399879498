package patient

import "github.com/jackc/pgx/v5/pgtype"

type Patient struct {
	PatientID        string      `json:"patient_id" db:"patient_id"`
	FirstName        string      `json:"first_name" db:"first_name"`
	MiddleName       *string     `json:"middle_name" db:"middle_name"`
	LastName         string      `json:"last_name" db:"last_name"`
	BloodGroup       string      `json:"blood_group" db:"blood_group"`
	MedicalCondition *string     `json:"medical_condition" db:"medical_condition"`
	Sex              string      `json:"sex" db:"sex"`
	DateOfBirth      pgtype.Date `json:"date_of_birth" db:"date_of_birth"`
	Address          *string     `json:"address" db:"address"`
	EmailID          *string     `json:"email_id" db:"email_id"`
	PhoneNumber      *string     `json:"phone_number" db:"phone_number"`
}

// RequestSummary is one blood request made for a patient.
type RequestSummary struct {
	RequestID    string      `json:"request_id" db:"request_id"`
	HospitalID   string      `json:"hospital_id" db:"hospital_id"`
	HospitalName string      `json:"hospital_name" db:"hospital_name"`
	BloodGroup   string      `json:"blood_group" db:"blood_group"`
	UnitsNeeded  int         `json:"units_needed" db:"units_needed"`
	RequestDate  pgtype.Date `json:"request_date" db:"request_date"`
	Status       string      `json:"status" db:"status"`
	Priority     string      `json:"priority" db:"priority"`
}
