package timesheet

import (
	"context"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/medas/intern-tracker-go/internal/domain/user"
)

type TimesheetService interface {
	CreateTimesheet(ctx context.Context, actor user.Actor, req CreateTimesheetRequest) (TimesheetResponse, error)
	GetTimesheet(ctx context.Context, actor user.Actor, id string) (TimesheetResponse, error)
	ListTimesheets(ctx context.Context, actor user.Actor, filter TimesheetFilter) (ListTimesheetResponse, error)
	UpdateDetail(ctx context.Context, actor user.Actor, req UpdateDetailRequest) (TimesheetResponse, error)
	ApproveTimesheet(ctx context.Context, actor user.Actor, req DecisionRequest) (TimesheetResponse, error)
	RejectTimesheet(ctx context.Context, actor user.Actor, req DecisionRequest) (TimesheetResponse, error)
	RequestRevision(ctx context.Context, actor user.Actor, req DecisionRequest) (TimesheetResponse, error)
	DeleteTimesheet(ctx context.Context, actor user.Actor, id string) error
	GetTimesheetHistory(ctx context.Context, actor user.Actor, id string) ([]approval.HistoryResponse, error)
}
