package leave

import (
	"time"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/shopspring/decimal"
)

type LeaveType string

const (
	LeaveTypePersonal LeaveType = "personal"
	LeaveTypeExam     LeaveType = "exam"
	LeaveTypeHealth   LeaveType = "health"
	LeaveTypeExcuse   LeaveType = "excuse"
	LeaveTypeUnpaid   LeaveType = "unpaid"
)

func ValidLeaveTypes() []string {
	return []string{
		string(LeaveTypePersonal),
		string(LeaveTypeExam),
		string(LeaveTypeHealth),
		string(LeaveTypeExcuse),
		string(LeaveTypeUnpaid),
	}
}

// Description is the text written into timesheet details when the leave is reflected.
func (t LeaveType) Description() string {
	switch t {
	case LeaveTypePersonal:
		return "Personal Leave"
	case LeaveTypeExam:
		return "Exam Leave"
	case LeaveTypeHealth:
		return "Health Leave"
	case LeaveTypeExcuse:
		return "Excuse Leave"
	case LeaveTypeUnpaid:
		return "Unpaid Leave"
	}
	return string(t)
}

// LeaveRequest entity
type LeaveRequest struct {
	ID       string
	InternID string

	LeaveType LeaveType
	StartAt   time.Time
	EndAt     time.Time
	Reason    string

	TotalDays  int
	TotalHours decimal.Decimal

	Status       approval.Status
	ApproverID   *string
	ApproverName *string
	ApprovalDate *time.Time
	ApprovalNote *string

	ShouldReflectToTimesheet bool
	IsManualEntry            bool
	ManualEntryBy            *string

	// Version guards updates against concurrent writers.
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	InternName *string
}

// IsEditable reports whether the request may still be changed by its owner or an approver.
func (r LeaveRequest) IsEditable() bool {
	return r.Status.IsOpen()
}

// IsSameDay reports whether the leave starts and ends on one calendar day.
func (r LeaveRequest) IsSameDay() bool {
	y1, m1, d1 := r.StartAt.Date()
	y2, m2, d2 := r.EndAt.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ClearApproval drops approver metadata when the request goes back to Pending.
func (r *LeaveRequest) ClearApproval() {
	r.ApproverID = nil
	r.ApproverName = nil
	r.ApprovalDate = nil
	r.ApprovalNote = nil
}
