package timesheet

import "errors"

var (
	ErrTimesheetNotFound         = errors.New("timesheet not found")
	ErrTimesheetDetailNotFound   = errors.New("timesheet detail not found")
	ErrTimesheetAlreadyExists    = errors.New("a timesheet already exists for this intern and month")
	ErrTimesheetAlreadyProcessed = errors.New("timesheet already processed")
	ErrAwaitingFinalApproval     = errors.New("timesheet is already supervisor approved and awaits HR approval")
	ErrRevisionNotAllowed        = errors.New("revision can only be requested for a pending timesheet")
	ErrTimesheetStale            = errors.New("timesheet was changed by someone else, reload and try again")
)
