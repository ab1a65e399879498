package hospital

type Hospital struct {
	HospitalID  string  `json:"hospital_id" db:"hospital_id"`
	Name        string  `json:"name" db:"name"`
	Address     *string `json:"address" db:"address"`
	PhoneNumber *string `json:"phone_number" db:"phone_number"`
	EmailID     *string `json:"email_id" db:"email_id"`
}

// BloodBank is a storage site specimens are registered to.
type BloodBank struct {
	BloodBankID string  `json:"blood_bank_id" db:"blood_bank_id"`
	Name        string  `json:"name" db:"name"`
	Address     *string `json:"address" db:"address"`
	PhoneNumber *string `json:"phone_number" db:"phone_number"`
}
