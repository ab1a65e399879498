package donor

import "github.com/jackc/pgx/v5/pgtype"

type Donor struct {
	DonorID     string      `json:"donor_id" db:"donor_id"`
	FirstName   string      `json:"first_name" db:"first_name"`
	MiddleName  *string     `json:"middle_name" db:"middle_name"`
	LastName    string      `json:"last_name" db:"last_name"`
	Sex         string      `json:"sex" db:"sex"`
	DateOfBirth pgtype.Date `json:"date_of_birth" db:"date_of_birth"`
	Address     *string     `json:"address" db:"address"`
	EmailID     *string     `json:"email_id" db:"email_id"`
	PhoneNumber *string     `json:"phone_number" db:"phone_number"`
}

// Donation is one specimen collected from a donor, with its state as of the
// query date: available, expired or used.
type Donation struct {
	SpecimenID     string      `json:"specimen_id" db:"specimen_id"`
	BloodGroup     string      `json:"blood_group" db:"blood_group"`
	Volume         int         `json:"volume" db:"volume"`
	CollectionDate pgtype.Date `json:"collection_date" db:"collection_date"`
	ExpiryDate     pgtype.Date `json:"expiry_date" db:"expiry_date"`
	BloodBankID    string      `json:"blood_bank_id" db:"blood_bank_id"`
	Status         string      `json:"status" db:"status"`
}
