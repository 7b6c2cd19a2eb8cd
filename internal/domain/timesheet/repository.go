package timesheet

import (
	"context"
	"time"
)

type TimesheetRepository interface {
	Create(ctx context.Context, sheet Timesheet) (Timesheet, error)
	GetByID(ctx context.Context, id string) (Timesheet, error)
	// FindByInternAndPeriod returns nil when the intern has no sheet for the month.
	FindByInternAndPeriod(ctx context.Context, internID string, year int, month time.Month) (*Timesheet, error)
	List(ctx context.Context, filter TimesheetFilter) ([]Timesheet, int64, error)
	// Update checks sheet.Version against the stored row and increments it.
	Update(ctx context.Context, sheet Timesheet) (Timesheet, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type TimesheetDetailRepository interface {
	CreateBatch(ctx context.Context, details []TimesheetDetail) error
	GetByID(ctx context.Context, id string) (TimesheetDetail, error)
	ListByTimesheetID(ctx context.Context, timesheetID string) ([]TimesheetDetail, error)
	Update(ctx context.Context, detail TimesheetDetail) error
}
