package leave

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrLeaveRequestNotEditable      = errors.New("leave request can only be changed while pending or in revision")
	ErrRevisionNotAllowed           = errors.New("revision can only be requested for a pending leave request")
	ErrLeaveRequestStale            = errors.New("leave request was changed by someone else, reload and try again")
	ErrOverlappingLeave             = errors.New("leave request overlaps an existing request")
)

// OverlapError names the existing request a new interval collides with.
type OverlapError struct {
	ConflictingID string
	Start         time.Time
	End           time.Time
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlaps an existing leave request from %s to %s",
		e.Start.Format("2006-01-02 15:04"), e.End.Format("2006-01-02 15:04"))
}

func (e *OverlapError) Unwrap() error {
	return ErrOverlappingLeave
}
