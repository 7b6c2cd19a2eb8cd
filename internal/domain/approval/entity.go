package approval

import "time"

// Status is shared by leave requests and timesheets.
type Status string

const (
	StatusPending            Status = "pending"
	StatusApproved           Status = "approved"
	StatusRejected           Status = "rejected"
	StatusRevision           Status = "revision"
	StatusSupervisorApproved Status = "supervisor_approved"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusRevision, StatusSupervisorApproved:
		return true
	}
	return false
}

// IsOpen reports whether an approver may still act on the record.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusRevision
}

func ValidStatuses() []string {
	return []string{
		string(StatusPending),
		string(StatusApproved),
		string(StatusRejected),
		string(StatusRevision),
		string(StatusSupervisorApproved),
	}
}

type ReferenceType string

const (
	ReferenceLeaveRequest ReferenceType = "leave_request"
	ReferenceTimesheet    ReferenceType = "timesheet"
)

// History is one append-only entry of the approval audit trail.
type History struct {
	ID             string
	ReferenceType  ReferenceType
	ReferenceID    string
	PreviousStatus Status
	NewStatus      Status
	ApproverID     *string
	ApproverName   string
	Note           *string
	CreatedAt      time.Time
}
