package timesheet

import (
	"strings"
	"time"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/medas/intern-tracker-go/internal/pkg/validator"
	"github.com/medas/intern-tracker-go/internal/pkg/workday"
	"github.com/shopspring/decimal"
)

var maxDayHours = decimal.NewFromInt(24)

type CreateTimesheetRequest struct {
	InternID      string `json:"intern_id"`
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	IsManualEntry bool   `json:"is_manual_entry"`
}

func (r *CreateTimesheetRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.InternID) {
		errs = append(errs, validator.ValidationError{
			Field:   "intern_id",
			Message: "intern_id is required",
		})
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}
	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateDetailRequest edits one day. Nil fields are left unchanged.
type UpdateDetailRequest struct {
	ID               string           `json:"-"`
	IsPresent        *bool            `json:"is_present,omitempty"`
	WorkLocation     *string          `json:"work_location,omitempty"`
	StartTime        *string          `json:"start_time,omitempty"` // HH:MM
	EndTime          *string          `json:"end_time,omitempty"`   // HH:MM
	LeaveInfo        *string          `json:"leave_info,omitempty"`
	LeaveHours       *decimal.Decimal `json:"leave_hours,omitempty"`
	TrainingInfo     *string          `json:"training_info,omitempty"`
	TrainingHours    *decimal.Decimal `json:"training_hours,omitempty"`
	HasMealAllowance *bool            `json:"has_meal_allowance,omitempty"`
	Notes            *string          `json:"notes,omitempty"`

	// Version of the parent timesheet the client last read.
	Version *int `json:"version,omitempty"`
}

func (r *UpdateDetailRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.WorkLocation != nil && !validator.IsInSlice(*r.WorkLocation, ValidWorkLocations()) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_location",
			Message: "work_location must be one of: " + strings.Join(ValidWorkLocations(), ", "),
		})
	}

	var start, end workday.TimeOfDay
	var okStart, okEnd bool
	if r.StartTime != nil {
		var err error
		if start, err = workday.ParseTimeOfDay(*r.StartTime); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "start_time",
				Message: "start_time must be in HH:MM format",
			})
		} else {
			okStart = true
		}
	}
	if r.EndTime != nil {
		var err error
		if end, err = workday.ParseTimeOfDay(*r.EndTime); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "end_time",
				Message: "end_time must be in HH:MM format",
			})
		} else {
			okEnd = true
		}
	}
	if okStart && okEnd && !start.Before(end) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be after start_time",
		})
	}

	errs = append(errs, validateHours("leave_hours", r.LeaveHours)...)
	errs = append(errs, validateHours("training_hours", r.TrainingHours)...)

	if r.Notes != nil && len(*r.Notes) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateHours(field string, hours *decimal.Decimal) validator.ValidationErrors {
	if hours == nil {
		return nil
	}
	if hours.IsNegative() || hours.GreaterThan(maxDayHours) {
		return validator.New(field, field+" must be between 0 and 24")
	}
	return nil
}

// DecisionRequest carries an approve, reject or revision call.
type DecisionRequest struct {
	ID   string  `json:"-"`
	Note *string `json:"note,omitempty"`
}

func (r *DecisionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Note != nil && len(*r.Note) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "note must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TimesheetFilter struct {
	InternID *string `json:"intern_id,omitempty"`
	Status   *string `json:"status,omitempty"`
	Year     *int    `json:"year,omitempty"`
	Month    *int    `json:"month,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *TimesheetFilter) Validate() error {
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

	if f.Status != nil && !validator.IsInSlice(*f.Status, approval.ValidStatuses()) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(approval.ValidStatuses(), ", "),
		})
	}

	if f.Month != nil && !validator.IsValidMonth(*f.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TimesheetDetailResponse struct {
	ID               string          `json:"id"`
	WorkDate         string          `json:"work_date"`
	DayName          string          `json:"day_name"`
	DayNumber        int             `json:"day_number"`
	WorkLocation     string          `json:"work_location"`
	IsPresent        bool            `json:"is_present"`
	StartTime        *string         `json:"start_time,omitempty"`
	EndTime          *string         `json:"end_time,omitempty"`
	LeaveInfo        *string         `json:"leave_info,omitempty"`
	LeaveHours       decimal.Decimal `json:"leave_hours"`
	TrainingInfo     *string         `json:"training_info,omitempty"`
	TrainingHours    decimal.Decimal `json:"training_hours"`
	HasMealAllowance bool            `json:"has_meal_allowance"`
	Notes            *string         `json:"notes,omitempty"`
}

func NewTimesheetDetailResponse(d TimesheetDetail) TimesheetDetailResponse {
	resp := TimesheetDetailResponse{
		ID:               d.ID,
		WorkDate:         workday.DateKey(d.WorkDate),
		DayName:          d.DayName,
		DayNumber:        d.DayNumber,
		WorkLocation:     string(d.WorkLocation),
		IsPresent:        d.IsPresent,
		LeaveInfo:        d.LeaveInfo,
		LeaveHours:       d.LeaveHours,
		TrainingInfo:     d.TrainingInfo,
		TrainingHours:    d.TrainingHours,
		HasMealAllowance: d.HasMealAllowance,
		Notes:            d.Notes,
	}
	if d.StartTime != nil {
		s := d.StartTime.String()
		resp.StartTime = &s
	}
	if d.EndTime != nil {
		e := d.EndTime.String()
		resp.EndTime = &e
	}
	return resp
}

type TimesheetResponse struct {
	ID                     string                    `json:"id"`
	InternID               string                    `json:"intern_id"`
	InternName             *string                   `json:"intern_name,omitempty"`
	InternshipType         string                    `json:"internship_type,omitempty"`
	Year                   int                       `json:"year"`
	Month                  int                       `json:"month"`
	Status                 string                    `json:"status"`
	SupervisorID           *string                   `json:"supervisor_id,omitempty"`
	SupervisorName         *string                   `json:"supervisor_name,omitempty"`
	SupervisorApprovalDate *time.Time                `json:"supervisor_approval_date,omitempty"`
	SupervisorNote         *string                   `json:"supervisor_note,omitempty"`
	ApproverID             *string                   `json:"approver_id,omitempty"`
	ApproverName           *string                   `json:"approver_name,omitempty"`
	ApprovalDate           *time.Time                `json:"approval_date,omitempty"`
	ApprovalNote           *string                   `json:"approval_note,omitempty"`
	IsManualEntry          bool                      `json:"is_manual_entry"`
	ManualEntryBy          *string                   `json:"manual_entry_by,omitempty"`
	TotalWorkDays          int                       `json:"total_work_days"`
	TotalLeaveDays         int                       `json:"total_leave_days"`
	TotalTrainingHours     decimal.Decimal           `json:"total_training_hours"`
	MealAllowanceDays      *int                      `json:"meal_allowance_days,omitempty"`
	Version                int                       `json:"version"`
	CreatedAt              time.Time                 `json:"created_at"`
	UpdatedAt              time.Time                 `json:"updated_at"`
	Details                []TimesheetDetailResponse `json:"details,omitempty"`
}

// NewTimesheetResponse maps a sheet; details are included when non-nil.
func NewTimesheetResponse(t Timesheet, details []TimesheetDetail) TimesheetResponse {
	resp := TimesheetResponse{
		ID:                     t.ID,
		InternID:               t.InternID,
		InternName:             t.InternName,
		InternshipType:         string(t.InternshipType),
		Year:                   t.Year(),
		Month:                  int(t.Month()),
		Status:                 string(t.Status),
		SupervisorID:           t.SupervisorID,
		SupervisorName:         t.SupervisorName,
		SupervisorApprovalDate: t.SupervisorApprovalDate,
		SupervisorNote:         t.SupervisorNote,
		ApproverID:             t.ApproverID,
		ApproverName:           t.ApproverName,
		ApprovalDate:           t.ApprovalDate,
		ApprovalNote:           t.ApprovalNote,
		IsManualEntry:          t.IsManualEntry,
		ManualEntryBy:          t.ManualEntryBy,
		TotalWorkDays:          t.TotalWorkDays,
		TotalLeaveDays:         t.TotalLeaveDays,
		TotalTrainingHours:     t.TotalTrainingHours,
		Version:                t.Version,
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
	}
	if details != nil {
		meal := 0
		resp.Details = make([]TimesheetDetailResponse, 0, len(details))
		for _, d := range details {
			if d.HasMealAllowance {
				meal++
			}
			resp.Details = append(resp.Details, NewTimesheetDetailResponse(d))
		}
		resp.MealAllowanceDays = &meal
	}
	return resp
}

type ListTimesheetResponse struct {
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
	Timesheets []TimesheetResponse `json:"timesheets"`
}
