package intern

import (
	"strings"
	"time"

	"github.com/medas/intern-tracker-go/internal/pkg/validator"
)

type CreateInternRequest struct {
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Address     *string `json:"address,omitempty"`

	Company             *string `json:"company,omitempty"`
	Department          *string `json:"department,omitempty"`
	ResponsiblePerson   *string `json:"responsible_person,omitempty"`
	ResponsiblePersonID *string `json:"responsible_person_id,omitempty"`

	School   *string `json:"school,omitempty"`
	Major    *string `json:"major,omitempty"`
	WorkDays *string `json:"work_days,omitempty"`

	SchoolSupervisorName  *string `json:"school_supervisor_name,omitempty"`
	SchoolSupervisorPhone *string `json:"school_supervisor_phone,omitempty"`

	EmergencyContactName  *string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string `json:"emergency_contact_phone,omitempty"`

	InternshipType        string  `json:"internship_type"`
	Workplace             *string `json:"workplace,omitempty"`
	CompanyEmployeeNumber *string `json:"company_employee_number,omitempty"`
	EmployeeNumber        *string `json:"employee_number,omitempty"`

	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (r *CreateInternRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	} else if len(r.FullName) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not exceed 100 characters",
		})
	}

	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if !validator.IsInSlice(r.InternshipType, ValidInternshipTypes()) {
		errs = append(errs, validator.ValidationError{
			Field:   "internship_type",
			Message: "internship_type must be one of: " + strings.Join(ValidInternshipTypes(), ", "),
		})
	}

	errs = append(errs, validatePhone("phone_number", r.PhoneNumber)...)
	errs = append(errs, validatePhone("emergency_contact_phone", r.EmergencyContactPhone)...)
	errs = append(errs, validatePhone("school_supervisor_phone", r.SchoolSupervisorPhone)...)
	errs = append(errs, validateDateRange(r.StartDate, r.EndDate)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateInternRequest struct {
	ID          string  `json:"-"`
	FullName    *string `json:"full_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Address     *string `json:"address,omitempty"`

	Company             *string `json:"company,omitempty"`
	Department          *string `json:"department,omitempty"`
	ResponsiblePerson   *string `json:"responsible_person,omitempty"`
	ResponsiblePersonID *string `json:"responsible_person_id,omitempty"`

	School   *string `json:"school,omitempty"`
	Major    *string `json:"major,omitempty"`
	WorkDays *string `json:"work_days,omitempty"`

	SchoolSupervisorName  *string `json:"school_supervisor_name,omitempty"`
	SchoolSupervisorPhone *string `json:"school_supervisor_phone,omitempty"`

	EmergencyContactName  *string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string `json:"emergency_contact_phone,omitempty"`

	InternshipType        *string `json:"internship_type,omitempty"`
	Workplace             *string `json:"workplace,omitempty"`
	CompanyEmployeeNumber *string `json:"company_employee_number,omitempty"`
	EmployeeNumber        *string `json:"employee_number,omitempty"`

	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func (r *UpdateInternRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not be empty",
		})
	}

	if r.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*r.Email))
		r.Email = &email
		if !validator.IsValidEmail(email) {
			errs = append(errs, validator.ValidationError{
				Field:   "email",
				Message: "invalid email format",
			})
		}
	}

	if r.InternshipType != nil && !validator.IsInSlice(*r.InternshipType, ValidInternshipTypes()) {
		errs = append(errs, validator.ValidationError{
			Field:   "internship_type",
			Message: "internship_type must be one of: " + strings.Join(ValidInternshipTypes(), ", "),
		})
	}

	errs = append(errs, validatePhone("phone_number", r.PhoneNumber)...)
	errs = append(errs, validatePhone("emergency_contact_phone", r.EmergencyContactPhone)...)
	errs = append(errs, validatePhone("school_supervisor_phone", r.SchoolSupervisorPhone)...)
	errs = append(errs, validateDateRange(r.StartDate, r.EndDate)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type InternFilter struct {
	Search          *string `json:"search,omitempty"` // name, email, school, department
	InternshipType  *string `json:"internship_type,omitempty"`
	Department      *string `json:"department,omitempty"`
	IncludeInactive bool    `json:"include_inactive"`

	// Set by the service for interns, who only see their own record.
	OnlyID *string `json:"-"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // full_name, start_date, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *InternFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.InternshipType != nil && !validator.IsInSlice(*f.InternshipType, ValidInternshipTypes()) {
		errs = append(errs, validator.ValidationError{
			Field:   "internship_type",
			Message: "internship_type must be one of: " + strings.Join(ValidInternshipTypes(), ", "),
		})
	}

	if f.SortBy != "" {
		validSortFields := []string{"full_name", "start_date", "created_at"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: full_name, start_date, created_at",
			})
		}
	} else {
		f.SortBy = "full_name"
	}

	if f.SortOrder != "" {
		f.SortOrder = strings.ToLower(f.SortOrder)
		if !validator.IsInSlice(f.SortOrder, []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "asc"
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type InternResponse struct {
	ID                    string     `json:"id"`
	FullName              string     `json:"full_name"`
	Email                 string     `json:"email"`
	PhoneNumber           *string    `json:"phone_number,omitempty"`
	Address               *string    `json:"address,omitempty"`
	Company               *string    `json:"company,omitempty"`
	Department            *string    `json:"department,omitempty"`
	ResponsiblePerson     *string    `json:"responsible_person,omitempty"`
	ResponsiblePersonID   *string    `json:"responsible_person_id,omitempty"`
	School                *string    `json:"school,omitempty"`
	Major                 *string    `json:"major,omitempty"`
	WorkDays              *string    `json:"work_days,omitempty"`
	SchoolSupervisorName  *string    `json:"school_supervisor_name,omitempty"`
	SchoolSupervisorPhone *string    `json:"school_supervisor_phone,omitempty"`
	EmergencyContactName  *string    `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string    `json:"emergency_contact_phone,omitempty"`
	InternshipType        string     `json:"internship_type"`
	InternshipTypeLabel   string     `json:"internship_type_label"`
	Workplace             *string    `json:"workplace,omitempty"`
	CompanyEmployeeNumber *string    `json:"company_employee_number,omitempty"`
	EmployeeNumber        *string    `json:"employee_number,omitempty"`
	StartDate             *string    `json:"start_date,omitempty"`
	EndDate               *string    `json:"end_date,omitempty"`
	IsActive              bool       `json:"is_active"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             *time.Time `json:"updated_at,omitempty"`
}

func NewInternResponse(i Intern) InternResponse {
	resp := InternResponse{
		ID:                    i.ID,
		FullName:              i.FullName,
		Email:                 i.Email,
		PhoneNumber:           i.PhoneNumber,
		Address:               i.Address,
		Company:               i.Company,
		Department:            i.Department,
		ResponsiblePerson:     i.ResponsiblePerson,
		ResponsiblePersonID:   i.ResponsiblePersonID,
		School:                i.School,
		Major:                 i.Major,
		WorkDays:              i.WorkDays,
		SchoolSupervisorName:  i.SchoolSupervisorName,
		SchoolSupervisorPhone: i.SchoolSupervisorPhone,
		EmergencyContactName:  i.EmergencyContactName,
		EmergencyContactPhone: i.EmergencyContactPhone,
		InternshipType:        string(i.InternshipType),
		InternshipTypeLabel:   i.InternshipType.Label(),
		Workplace:             i.Workplace,
		CompanyEmployeeNumber: i.CompanyEmployeeNumber,
		EmployeeNumber:        i.EmployeeNumber,
		IsActive:              i.IsActive,
		CreatedAt:             i.CreatedAt,
	}
	if i.StartDate != nil {
		s := i.StartDate.Format("2006-01-02")
		resp.StartDate = &s
	}
	if i.EndDate != nil {
		e := i.EndDate.Format("2006-01-02")
		resp.EndDate = &e
	}
	if !i.UpdatedAt.IsZero() {
		u := i.UpdatedAt
		resp.UpdatedAt = &u
	}
	return resp
}

type ListInternResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Interns    []InternResponse `json:"interns"`
}

func validatePhone(field string, phone *string) validator.ValidationErrors {
	if validator.IsBlank(phone) || validator.IsValidPhoneNumber(*phone) {
		return nil
	}
	return validator.New(field, "invalid phone number")
}

func validateDateRange(start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	var startDate, endDate time.Time
	var okStart, okEnd bool

	if start != nil && *start != "" {
		if startDate, okStart = validator.IsValidDate(*start); !okStart {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if end != nil && *end != "" {
		if endDate, okEnd = validator.IsValidDate(*end); !okEnd {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if okStart && okEnd && endDate.Before(startDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}
	return errs
}
