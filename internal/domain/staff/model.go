package staff

type Staff struct {
	StaffID       string  `json:"staff_id" db:"staff_id"`
	FirstName     string  `json:"first_name" db:"first_name"`
	MiddleName    *string `json:"middle_name" db:"middle_name"`
	LastName      string  `json:"last_name" db:"last_name"`
	PhoneNumber   *string `json:"phone_number" db:"phone_number"`
	Qualification *string `json:"qualification" db:"qualification"`
}

const (
	RoleDoctor        = "doctor"
	RoleNurse         = "nurse"
	RoleLabTechnician = "lab_technician"
)

// Member is a staff record with its single optional role subtype.
type Member struct {
	Staff
	RoleCode       *string `json:"role_code" db:"role_code"`
	Role           string  `json:"role" db:"-"`
	Specialization *string `json:"specialization" db:"specialization"`
	PatientType    *string `json:"patient_type" db:"patient_type"`
	TestsPerformed *string `json:"tests_performed" db:"tests_performed"`
}

// Assignment is the subtype detail supplied when a role is assigned. Only
// the field matching the role is stored.
type Assignment struct {
	Role           string  `json:"-"`
	Specialization *string `json:"specialization"`
	PatientType    *string `json:"patient_type"`
	TestsPerformed *string `json:"tests_performed"`
}

// RoleLabel is the display name for a role code; staff without a subtype
// are general staff.
func RoleLabel(code *string) string {
	if code == nil {
		return "General Staff"
	}
	switch *code {
	case RoleDoctor:
		return "Doctor"
	case RoleNurse:
		return "Nurse"
	case RoleLabTechnician:
		return "Lab Technician"
	default:
		return "General Staff"
	}
}

// normalize keeps only the detail field that belongs to the role.
func (a Assignment) normalize() Assignment {
	out := Assignment{Role: a.Role}
	switch a.Role {
	case RoleDoctor:
		out.Specialization = a.Specialization
	case RoleNurse:
		out.PatientType = a.PatientType
	case RoleLabTechnician:
		out.TestsPerformed = a.TestsPerformed
	}
	return out
}
