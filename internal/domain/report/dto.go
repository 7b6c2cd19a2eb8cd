package report

import (
	"strings"

	"github.com/medas/intern-tracker-go/internal/domain/intern"
	"github.com/medas/intern-tracker-go/internal/pkg/validator"
)

type SummaryResponse struct {
	ActiveInterns                int64 `json:"active_interns"`
	PendingLeaveRequests         int64 `json:"pending_leave_requests"`
	PendingTimesheets            int64 `json:"pending_timesheets"`
	SupervisorApprovedTimesheets int64 `json:"supervisor_approved_timesheets"`
	TimesheetsAwaitingRevision   int64 `json:"timesheets_awaiting_revision"`
}

type TimesheetExportRequest struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	InternID *string `json:"intern_id,omitempty"`
}

func (r *TimesheetExportRequest) Validate() error {
	var errs validator.ValidationErrors

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

// InternExportRequest narrows the active intern list. Empty filters export everyone.
type InternExportRequest struct {
	InternshipType *string `json:"internship_type,omitempty"`
	Department     *string `json:"department,omitempty"`
}

func (r *InternExportRequest) Validate() error {
	if r.InternshipType != nil && !validator.IsInSlice(*r.InternshipType, intern.ValidInternshipTypes()) {
		return validator.New("internship_type", "internship_type must be one of: "+strings.Join(intern.ValidInternshipTypes(), ", "))
	}
	return nil
}

// ExportFile is a rendered spreadsheet ready to be streamed.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}
