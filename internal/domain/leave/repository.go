package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)

	// FindOverlapping returns the first pending or approved request of the
	// intern whose [start, end) intersects the given interval, or nil.
	FindOverlapping(ctx context.Context, internID string, start, end time.Time, excludeID string) (*LeaveRequest, error)

	// ListReflectableApproved returns approved requests flagged for timesheet
	// reflection that intersect [from, to).
	ListReflectableApproved(ctx context.Context, internID string, from, to time.Time) ([]LeaveRequest, error)

	// Update persists request if its stored version still equals request.Version,
	// returning the row with the incremented version. ErrLeaveRequestStale otherwise.
	Update(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

// TimesheetReflector projects an approved leave onto the intern's timesheets.
type TimesheetReflector interface {
	ReflectApprovedLeave(ctx context.Context, request LeaveRequest, approverID, approverName string) error
}
