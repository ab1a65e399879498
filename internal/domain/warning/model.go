package warning

import "time"

const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Warning types raised by the scanner.
const (
	TypeExpiringStock = "EXPIRING_STOCK"
	TypeBloodShortage = "BLOOD_SHORTAGE"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Warning is one entry of the system warning log. A nil HospitalID makes the
// warning global: it shows for every hospital.
type Warning struct {
	WarningID   int       `json:"warning_id" db:"warning_id"`
	WarningType string    `json:"warning_type" db:"warning_type"`
	Severity    string    `json:"severity" db:"severity"`
	Message     string    `json:"message" db:"message"`
	HospitalID  *string   `json:"hospital_id" db:"hospital_id"`
	EntityType  *string   `json:"entity_type" db:"entity_type"`
	EntityID    *string   `json:"entity_id" db:"entity_id"`
	IsRead      bool      `json:"is_read" db:"is_read"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Filter narrows List. Zero values mean "any".
type Filter struct {
	Severity   string
	EntityType string
	IsRead     *bool
	HospitalID string
	Limit      int
}

type SeverityCount struct {
	Severity    string `json:"severity" db:"severity"`
	Count       int    `json:"count" db:"count"`
	UnreadCount int    `json:"unread_count" db:"unread_count"`
}

func validSeverity(s string) bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError:
		return true
	}
	return false
}
