package intern

import "time"

type InternshipType string

const (
	InternshipTypeSummer     InternshipType = "summer_internship"
	InternshipTypeTalentern  InternshipType = "talentern"
	InternshipTypeKoza       InternshipType = "koza_project"
	InternshipTypeHighSchool InternshipType = "high_school_internship"
)

func ValidInternshipTypes() []string {
	return []string{
		string(InternshipTypeSummer),
		string(InternshipTypeTalentern),
		string(InternshipTypeKoza),
		string(InternshipTypeHighSchool),
	}
}

func (t InternshipType) Label() string {
	switch t {
	case InternshipTypeSummer:
		return "Summer Internship"
	case InternshipTypeTalentern:
		return "Talentern"
	case InternshipTypeKoza:
		return "Koza Project"
	case InternshipTypeHighSchool:
		return "High School Internship"
	}
	return string(t)
}

// RequiresTwoStepApproval reports whether timesheets need supervisor and HR sign-off.
func (t InternshipType) RequiresTwoStepApproval() bool {
	return t == InternshipTypeTalentern
}

type Intern struct {
	ID          string
	FullName    string
	Email       string
	PhoneNumber *string
	Address     *string

	Company             *string
	Department          *string
	ResponsiblePerson   *string
	ResponsiblePersonID *string

	School   *string
	Major    *string
	WorkDays *string

	SchoolSupervisorName  *string
	SchoolSupervisorPhone *string

	EmergencyContactName  *string
	EmergencyContactPhone *string

	InternshipType        InternshipType
	Workplace             *string
	CompanyEmployeeNumber *string
	EmployeeNumber        *string

	StartDate *time.Time
	EndDate   *time.Time
	IsActive  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
