package report

import (
	"context"
	"fmt"
	"time"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/medas/intern-tracker-go/internal/domain/intern"
	"github.com/medas/intern-tracker-go/internal/domain/leave"
	"github.com/medas/intern-tracker-go/internal/domain/report"
	"github.com/medas/intern-tracker-go/internal/domain/timesheet"
	"github.com/medas/intern-tracker-go/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

// exportPageSize is the largest page the timesheet filter accepts.
const exportPageSize = 100

type ReportServiceImpl struct {
	intern.InternRepository
	leave.LeaveRequestRepository
	timesheet.TimesheetRepository
	timesheet.TimesheetDetailRepository
	now func() time.Time
}

func NewReportService(
	internRepository intern.InternRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	timesheetRepository timesheet.TimesheetRepository,
	detailRepository timesheet.TimesheetDetailRepository,
) report.ReportService {
	return &ReportServiceImpl{
		InternRepository:          internRepository,
		LeaveRequestRepository:    leaveRequestRepository,
		TimesheetRepository:       timesheetRepository,
		TimesheetDetailRepository: detailRepository,
		now:                       time.Now,
	}
}

// GetSummary implements report.ReportService.
func (s *ReportServiceImpl) GetSummary(ctx context.Context, actor user.Actor) (report.SummaryResponse, error) {
	if err := user.Authorize(actor, user.PermissionReportsView, user.Resource{}); err != nil {
		return report.SummaryResponse{}, err
	}

	var summary report.SummaryResponse
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.InternRepository.CountActive(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count active interns: %w", err)
		}
		summary.ActiveInterns = n
		return nil
	})

	g.Go(func() error {
		n, err := s.LeaveRequestRepository.CountByStatus(gCtx, string(approval.StatusPending))
		if err != nil {
			return fmt.Errorf("failed to count pending leave requests: %w", err)
		}
		summary.PendingLeaveRequests = n
		return nil
	})

	timesheetCounts := []struct {
		status approval.Status
		dst    *int64
	}{
		{approval.StatusPending, &summary.PendingTimesheets},
		{approval.StatusSupervisorApproved, &summary.SupervisorApprovedTimesheets},
		{approval.StatusRevision, &summary.TimesheetsAwaitingRevision},
	}
	for _, c := range timesheetCounts {
		g.Go(func() error {
			n, err := s.TimesheetRepository.CountByStatus(gCtx, string(c.status))
			if err != nil {
				return fmt.Errorf("failed to count %s timesheets: %w", c.status, err)
			}
			*c.dst = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report.SummaryResponse{}, err
	}
	return summary, nil
}

// ExportTimesheets implements report.ReportService. The workbook has one
// row per timesheet on the Summary sheet and one row per day on Details.
func (s *ReportServiceImpl) ExportTimesheets(ctx context.Context, actor user.Actor, req report.TimesheetExportRequest) (report.ExportFile, error) {
	if err := user.Authorize(actor, user.PermissionReportsView, user.Resource{}); err != nil {
		return report.ExportFile{}, err
	}
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	sheets, err := s.collectTimesheets(ctx, req)
	if err != nil {
		return report.ExportFile{}, err
	}
	if len(sheets) == 0 {
		return report.ExportFile{}, report.ErrNoTimesheetsToExport
	}

	details := make([][]timesheet.TimesheetDetail, len(sheets))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, t := range sheets {
		g.Go(func() error {
			rows, err := s.TimesheetDetailRepository.ListByTimesheetID(gCtx, t.ID)
			if err != nil {
				return fmt.Errorf("failed to get details of timesheet %s: %w", t.ID, err)
			}
			details[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report.ExportFile{}, err
	}

	content, err := buildWorkbook(sheets, details)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to build workbook: %w", err)
	}

	return report.ExportFile{
		FileName:    fmt.Sprintf("timesheets-%04d-%02d.xlsx", req.Year, req.Month),
		ContentType: xlsxContentType,
		Content:     content,
	}, nil
}

// ExportInterns implements report.ReportService. Active interns only,
// ordered by name.
func (s *ReportServiceImpl) ExportInterns(ctx context.Context, actor user.Actor, req report.InternExportRequest) (report.ExportFile, error) {
	if err := user.Authorize(actor, user.PermissionReportsView, user.Resource{}); err != nil {
		return report.ExportFile{}, err
	}
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	filter := intern.InternFilter{
		InternshipType: req.InternshipType,
		Department:     req.Department,
		Page:           1,
		Limit:          exportPageSize,
		SortBy:         "full_name",
		SortOrder:      "asc",
	}

	var interns []intern.Intern
	for {
		page, total, err := s.InternRepository.List(ctx, filter)
		if err != nil {
			return report.ExportFile{}, fmt.Errorf("failed to get interns: %w", err)
		}
		interns = append(interns, page...)
		if len(page) == 0 || int64(len(interns)) >= total {
			break
		}
		filter.Page++
	}

	content, err := buildInternWorkbook(interns)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to build workbook: %w", err)
	}

	return report.ExportFile{
		FileName:    fmt.Sprintf("interns-%s.xlsx", s.now().Format("20060102-1504")),
		ContentType: xlsxContentType,
		Content:     content,
	}, nil
}

func (s *ReportServiceImpl) collectTimesheets(ctx context.Context, req report.TimesheetExportRequest) ([]timesheet.Timesheet, error) {
	year, month := req.Year, req.Month
	filter := timesheet.TimesheetFilter{
		InternID: req.InternID,
		Year:     &year,
		Month:    &month,
		Page:     1,
		Limit:    exportPageSize,
	}

	var all []timesheet.Timesheet
	for {
		page, total, err := s.TimesheetRepository.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to get timesheets: %w", err)
		}
		all = append(all, page...)
		if len(page) == 0 || int64(len(all)) >= total {
			return all, nil
		}
		filter.Page++
	}
}
