package leave

import (
	"strings"
	"time"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/medas/intern-tracker-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateLeaveRequestRequest struct {
	InternID                 string `json:"intern_id"`
	LeaveType                string `json:"leave_type"`
	StartAt                  string `json:"start_at"` // RFC3339
	EndAt                    string `json:"end_at"`   // RFC3339
	Reason                   string `json:"reason"`
	ShouldReflectToTimesheet *bool  `json:"should_reflect_to_timesheet,omitempty"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.InternID) {
		errs = append(errs, validator.ValidationError{
			Field:   "intern_id",
			Message: "intern_id is required",
		})
	}

	if !validator.IsInSlice(r.LeaveType, ValidLeaveTypes()) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of: " + strings.Join(ValidLeaveTypes(), ", "),
		})
	}

	start, okStart := validator.IsValidDateTime(r.StartAt)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_at",
			Message: "start_at must be an ISO8601 timestamp",
		})
	}
	end, okEnd := validator.IsValidDateTime(r.EndAt)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_at",
			Message: "end_at must be an ISO8601 timestamp",
		})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_at",
			Message: "end_at must not be before start_at",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if len(r.Reason) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Interval returns the parsed start and end. Call after Validate.
func (r *CreateLeaveRequestRequest) Interval() (time.Time, time.Time) {
	start, _ := validator.IsValidDateTime(r.StartAt)
	end, _ := validator.IsValidDateTime(r.EndAt)
	return start, end
}

// Reflect defaults to true when the flag is omitted.
func (r *CreateLeaveRequestRequest) Reflect() bool {
	return r.ShouldReflectToTimesheet == nil || *r.ShouldReflectToTimesheet
}

type UpdateLeaveRequestRequest struct {
	ID                       string  `json:"-"`
	LeaveType                *string `json:"leave_type,omitempty"`
	StartAt                  *string `json:"start_at,omitempty"`
	EndAt                    *string `json:"end_at,omitempty"`
	Reason                   *string `json:"reason,omitempty"`
	ShouldReflectToTimesheet *bool   `json:"should_reflect_to_timesheet,omitempty"`

	// Version the client last read; a mismatch is reported as stale.
	Version *int `json:"version,omitempty"`
}

func (r *UpdateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.LeaveType != nil && !validator.IsInSlice(*r.LeaveType, ValidLeaveTypes()) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of: " + strings.Join(ValidLeaveTypes(), ", "),
		})
	}

	if r.StartAt != nil {
		if _, ok := validator.IsValidDateTime(*r.StartAt); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_at",
				Message: "start_at must be an ISO8601 timestamp",
			})
		}
	}
	if r.EndAt != nil {
		if _, ok := validator.IsValidDateTime(*r.EndAt); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_at",
				Message: "end_at must be an ISO8601 timestamp",
			})
		}
	}

	if r.Reason != nil {
		if validator.IsEmpty(*r.Reason) {
			errs = append(errs, validator.ValidationError{
				Field:   "reason",
				Message: "reason must not be empty",
			})
		} else if len(*r.Reason) > 500 {
			errs = append(errs, validator.ValidationError{
				Field:   "reason",
				Message: "reason must not exceed 500 characters",
			})
		}
	}

	if len(errs) > 0 {
		return errs
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

type LeaveRequestFilter struct {
	InternID  *string `json:"intern_id,omitempty"`
	Status    *string `json:"status,omitempty"`
	LeaveType *string `json:"leave_type,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // start_at, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *LeaveRequestFilter) Validate() error {
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
		f.Limit = 15
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

	if f.LeaveType != nil && !validator.IsInSlice(*f.LeaveType, ValidLeaveTypes()) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of: " + strings.Join(ValidLeaveTypes(), ", "),
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.SortBy != "" {
		if !validator.IsInSlice(f.SortBy, []string{"start_at", "created_at"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: start_at, created_at",
			})
		}
	} else {
		f.SortBy = "created_at"
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
		f.SortOrder = "desc"
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveRequestResponse struct {
	ID                       string          `json:"id"`
	InternID                 string          `json:"intern_id"`
	InternName               *string         `json:"intern_name,omitempty"`
	LeaveType                string          `json:"leave_type"`
	LeaveTypeDescription     string          `json:"leave_type_description"`
	StartAt                  time.Time       `json:"start_at"`
	EndAt                    time.Time       `json:"end_at"`
	Reason                   string          `json:"reason"`
	TotalDays                int             `json:"total_days"`
	TotalHours               decimal.Decimal `json:"total_hours"`
	Status                   string          `json:"status"`
	ApproverID               *string         `json:"approver_id,omitempty"`
	ApproverName             *string         `json:"approver_name,omitempty"`
	ApprovalDate             *time.Time      `json:"approval_date,omitempty"`
	ApprovalNote             *string         `json:"approval_note,omitempty"`
	ShouldReflectToTimesheet bool            `json:"should_reflect_to_timesheet"`
	IsManualEntry            bool            `json:"is_manual_entry"`
	ManualEntryBy            *string         `json:"manual_entry_by,omitempty"`
	Version                  int             `json:"version"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:                       r.ID,
		InternID:                 r.InternID,
		InternName:               r.InternName,
		LeaveType:                string(r.LeaveType),
		LeaveTypeDescription:     r.LeaveType.Description(),
		StartAt:                  r.StartAt,
		EndAt:                    r.EndAt,
		Reason:                   r.Reason,
		TotalDays:                r.TotalDays,
		TotalHours:               r.TotalHours,
		Status:                   string(r.Status),
		ApproverID:               r.ApproverID,
		ApproverName:             r.ApproverName,
		ApprovalDate:             r.ApprovalDate,
		ApprovalNote:             r.ApprovalNote,
		ShouldReflectToTimesheet: r.ShouldReflectToTimesheet,
		IsManualEntry:            r.IsManualEntry,
		ManualEntryBy:            r.ManualEntryBy,
		Version:                  r.Version,
		CreatedAt:                r.CreatedAt,
		UpdatedAt:                r.UpdatedAt,
	}
}

type ListLeaveRequestResponse struct {
	TotalCount    int64                  `json:"total_count"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	TotalPages    int                    `json:"total_pages"`
	LeaveRequests []LeaveRequestResponse `json:"leave_requests"`
}
