package report

import (
	"context"

	"github.com/medas/intern-tracker-go/internal/domain/user"
)

// ReportService only reads; nothing here mutates interns, leave or timesheets.
type ReportService interface {
	GetSummary(ctx context.Context, actor user.Actor) (SummaryResponse, error)
	ExportTimesheets(ctx context.Context, actor user.Actor, req TimesheetExportRequest) (ExportFile, error)
	ExportInterns(ctx context.Context, actor user.Actor, req InternExportRequest) (ExportFile, error)
}
