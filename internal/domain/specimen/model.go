package specimen

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type Specimen struct {
	SpecimenID     string      `json:"specimen_id" db:"specimen_id"`
	DonorID        string      `json:"donor_id" db:"donor_id"`
	BloodGroup     string      `json:"blood_group" db:"blood_group"`
	Volume         int         `json:"volume" db:"volume"`
	CollectionDate pgtype.Date `json:"collection_date" db:"collection_date"`
	ExpiryDate     pgtype.Date `json:"expiry_date" db:"expiry_date"`
	BloodBankID    string      `json:"blood_bank_id" db:"blood_bank_id"`
}

// StockItem is a specimen as listed on the stock page.
type StockItem struct {
	Specimen
	DonorName       string  `json:"donor_name" db:"donor_name"`
	BloodBankName   *string `json:"blood_bank_name" db:"blood_bank_name"`
	DaysUntilExpiry int     `json:"days_until_expiry" db:"days_until_expiry"`
	Fulfilled       bool    `json:"fulfilled" db:"fulfilled"`
	Available       bool    `json:"available" db:"available"`
}

type GroupSummary struct {
	BloodGroup      string `json:"blood_group" db:"blood_group"`
	TotalUnits      int    `json:"total_units" db:"total_units"`
	AvailableUnits  int    `json:"available_units" db:"available_units"`
	ExpiredUnits    int    `json:"expired_units" db:"expired_units"`
	TotalVolume     int    `json:"total_volume" db:"total_volume"`
	AvailableVolume int    `json:"available_volume" db:"available_volume"`
}

type ExpiringItem struct {
	SpecimenID      string      `json:"specimen_id" db:"specimen_id"`
	BloodGroup      string      `json:"blood_group" db:"blood_group"`
	Volume          int         `json:"volume" db:"volume"`
	ExpiryDate      pgtype.Date `json:"expiry_date" db:"expiry_date"`
	DaysUntilExpiry int         `json:"days_until_expiry" db:"days_until_expiry"`
	DonorName       string      `json:"donor_name" db:"donor_name"`
	BloodBankName   *string     `json:"blood_bank_name" db:"blood_bank_name"`
}

// IsAvailable reports whether a specimen can still be issued on asOf: it
// has not been used to fulfil a request and expires strictly after that day.
func IsAvailable(expiry, asOf time.Time, fulfilled bool) bool {
	if fulfilled {
		return false
	}
	return dateOf(expiry).After(dateOf(asOf))
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
