package timesheet

import (
	"strings"
	"time"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/medas/intern-tracker-go/internal/domain/intern"
	"github.com/medas/intern-tracker-go/internal/pkg/workday"
	"github.com/shopspring/decimal"
)

type WorkLocation string

const (
	WorkLocationHeadOffice WorkLocation = "head_office"
	WorkLocationBranch     WorkLocation = "branch"
)

func ValidWorkLocations() []string {
	return []string{string(WorkLocationHeadOffice), string(WorkLocationBranch)}
}

// Timesheet is one intern's attendance for one calendar month.
type Timesheet struct {
	ID         string
	InternID   string
	PeriodDate time.Time // first day of the month
	Status     approval.Status

	// First-step approval, used by the two-step workflow.
	SupervisorID           *string
	SupervisorName         *string
	SupervisorApprovalDate *time.Time
	SupervisorNote         *string

	// Final approval.
	ApproverID   *string
	ApproverName *string
	ApprovalDate *time.Time
	ApprovalNote *string

	IsManualEntry bool
	ManualEntryBy *string

	TotalWorkDays      int
	TotalLeaveDays     int
	TotalTrainingHours decimal.Decimal

	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	InternName     *string
	InternshipType intern.InternshipType
}

func (t Timesheet) Year() int {
	return t.PeriodDate.Year()
}

func (t Timesheet) Month() time.Month {
	return t.PeriodDate.Month()
}

// ClearApproval drops both approval slots when the sheet goes back to Pending
// or is reopened by an approved leave.
func (t *Timesheet) ClearApproval() {
	t.SupervisorID = nil
	t.SupervisorName = nil
	t.SupervisorApprovalDate = nil
	t.SupervisorNote = nil
	t.ApproverID = nil
	t.ApproverName = nil
	t.ApprovalDate = nil
	t.ApprovalNote = nil
}

// ApplyTotals recomputes the aggregate columns from the sheet's details.
//
// TotalLeaveDays sums ceil(leave hours / 8) per day, so a 9 hour leave day counts as two.
func (t *Timesheet) ApplyTotals(details []TimesheetDetail) {
	t.TotalWorkDays = 0
	t.TotalLeaveDays = 0
	t.TotalTrainingHours = decimal.Zero
	for _, d := range details {
		if d.IsPresent {
			t.TotalWorkDays++
		}
		t.TotalLeaveDays += workday.LeaveDays(d.LeaveHours)
		t.TotalTrainingHours = t.TotalTrainingHours.Add(d.TrainingHours)
	}
}

// TimesheetDetail is one calendar day of a timesheet.
type TimesheetDetail struct {
	ID           string
	TimesheetID  string
	WorkDate     time.Time
	DayName      string
	DayNumber    int
	WorkLocation WorkLocation
	IsPresent    bool
	StartTime    *workday.TimeOfDay
	EndTime      *workday.TimeOfDay

	LeaveInfo     *string
	LeaveHours    decimal.Decimal
	TrainingInfo  *string
	TrainingHours decimal.Decimal

	HasMealAllowance bool
	Notes            *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDefaultDetail builds the row a fresh timesheet gets for date: weekdays
// present for the full workday with meal allowance, weekends absent.
func NewDefaultDetail(id, timesheetID string, date time.Time) TimesheetDetail {
	d := TimesheetDetail{
		ID:            id,
		TimesheetID:   timesheetID,
		WorkDate:      workday.DateOf(date),
		DayName:       date.Weekday().String(),
		DayNumber:     date.Day(),
		WorkLocation:  WorkLocationHeadOffice,
		LeaveHours:    decimal.Zero,
		TrainingHours: decimal.Zero,
	}
	if workday.IsWeekend(date) {
		d.MarkAbsent()
	} else {
		d.MarkPresent()
	}
	return d
}

// MarkAbsent clears working hours and meal allowance.
func (d *TimesheetDetail) MarkAbsent() {
	d.IsPresent = false
	d.StartTime = nil
	d.EndTime = nil
	d.HasMealAllowance = false
}

// MarkPresent restores the default workday with meal allowance.
func (d *TimesheetDetail) MarkPresent() {
	start, end := workday.DayStart, workday.DayEnd
	d.IsPresent = true
	d.StartTime = &start
	d.EndTime = &end
	d.HasMealAllowance = true
}

// AddLeaveInfo appends a leave description unless the day already carries it.
func (d *TimesheetDetail) AddLeaveInfo(desc string) {
	if d.LeaveInfo == nil || *d.LeaveInfo == "" {
		d.LeaveInfo = &desc
		return
	}
	for _, part := range strings.Split(*d.LeaveInfo, ", ") {
		if part == desc {
			return
		}
	}
	joined := *d.LeaveInfo + ", " + desc
	d.LeaveInfo = &joined
}
