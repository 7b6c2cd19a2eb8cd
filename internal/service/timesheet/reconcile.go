package timesheet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/medas/intern-tracker-go/internal/domain/leave"
	"github.com/medas/intern-tracker-go/internal/domain/timesheet"
	"github.com/medas/intern-tracker-go/internal/pkg/workday"
)

var _ leave.TimesheetReflector = (*TimesheetServiceImpl)(nil)

// ReflectApprovedLeave implements leave.TimesheetReflector.
//
// A same-day leave adds its hours to that day; more than half a day marks
// the intern absent. A multi-day leave marks every day in [start, end)
// absent with that day's share of the leave. Months without a timesheet get
// one. A sheet that was already approved, by the supervisor alone or
// finally, drops back to revision with both approval slots cleared so the
// change is reviewed again from the first step.
func (s *TimesheetServiceImpl) ReflectApprovedLeave(ctx context.Context, request leave.LeaveRequest, approverID, approverName string) error {
	if !request.ShouldReflectToTimesheet || request.Status != approval.StatusApproved {
		return nil
	}

	start, end := s.calendar.Local(request.StartAt), s.calendar.Local(request.EndAt)
	desc := request.LeaveType.Description()

	var dates []time.Time
	var apply func(d *timesheet.TimesheetDetail, date time.Time)
	if workday.SameDate(start, end) {
		hours := workday.HoursBetween(start, end)
		dates = []time.Time{workday.DateOf(start)}
		apply = func(d *timesheet.TimesheetDetail, _ time.Time) {
			d.LeaveHours = d.LeaveHours.Add(hours)
			d.AddLeaveInfo(desc)
			switch {
			case hours.GreaterThan(workday.HalfDayThreshold):
				d.MarkAbsent()
			case !workday.IsWeekend(d.WorkDate):
				d.MarkPresent()
			}
		}
	} else {
		dates = workday.DatesInRange(start, end)
		apply = func(d *timesheet.TimesheetDetail, date time.Time) {
			d.MarkAbsent()
			d.LeaveHours = workday.LeaveHoursOn(start, end, date)
			d.AddLeaveInfo(desc)
		}
	}
	if len(dates) == 0 {
		return nil
	}

	note := fmt.Sprintf("Updated due to approved leave: %s (%s - %s)", desc, workday.DateKey(start), workday.DateKey(end))
	return s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, month := range groupByMonth(dates) {
			if err := s.reflectMonth(txCtx, request.InternID, month, apply, approverID, approverName, note); err != nil {
				return fmt.Errorf("failed to reflect leave into %s: %w", month[0].Format("2006-01"), err)
			}
		}
		return nil
	})
}

func (s *TimesheetServiceImpl) reflectMonth(
	ctx context.Context,
	internID string,
	dates []time.Time,
	apply func(d *timesheet.TimesheetDetail, date time.Time),
	approverID, approverName, note string,
) error {
	sheet, details, err := s.findOrCreateSheet(ctx, internID, dates[0].Year(), dates[0].Month())
	if err != nil {
		return err
	}

	byDate := make(map[string]int, len(details))
	for i, d := range details {
		byDate[workday.DateKey(d.WorkDate)] = i
	}

	for _, date := range dates {
		i, ok := byDate[workday.DateKey(date)]
		if !ok {
			slog.Warn("timesheet has no row for leave date",
				"timesheet_id", sheet.ID,
				"work_date", workday.DateKey(date),
			)
			continue
		}
		apply(&details[i], date)
		if err := s.TimesheetDetailRepository.Update(ctx, details[i]); err != nil {
			return err
		}
	}

	sheet.ApplyTotals(details)

	previous := sheet.Status
	if previous == approval.StatusApproved || previous == approval.StatusSupervisorApproved {
		// The whole approval path restarts; only the reason stays.
		sheet.ClearApproval()
		sheet.Status = approval.StatusRevision
		sheet.ApprovalNote = &note
	}

	updated, err := s.TimesheetRepository.Update(ctx, sheet)
	if err != nil {
		return err
	}
	if previous != updated.Status {
		return s.recordHistory(ctx, updated.ID, previous, updated.Status, approverID, approverName, &note)
	}
	return nil
}

// findOrCreateSheet returns the intern's sheet for the month with its
// details, creating a default one when none exists. The new sheet does not
// pre-apply leave; the caller is about to apply the leave itself.
func (s *TimesheetServiceImpl) findOrCreateSheet(ctx context.Context, internID string, year int, month time.Month) (timesheet.Timesheet, []timesheet.TimesheetDetail, error) {
	existing, err := s.TimesheetRepository.FindByInternAndPeriod(ctx, internID, year, month)
	if err != nil {
		return timesheet.Timesheet{}, nil, err
	}
	if existing != nil {
		details, err := s.TimesheetDetailRepository.ListByTimesheetID(ctx, existing.ID)
		if err != nil {
			return timesheet.Timesheet{}, nil, fmt.Errorf("failed to get timesheet details: %w", err)
		}
		return *existing, details, nil
	}

	sheet := s.newSheet(internID, year, month)
	details := s.defaultDetails(sheet.ID, year, month)
	sheet.ApplyTotals(details)

	created, err := s.TimesheetRepository.Create(ctx, sheet)
	if err != nil {
		return timesheet.Timesheet{}, nil, err
	}
	if err := s.TimesheetDetailRepository.CreateBatch(ctx, details); err != nil {
		return timesheet.Timesheet{}, nil, err
	}
	slog.Info("timesheet created for approved leave",
		"timesheet_id", created.ID,
		"intern_id", internID,
		"period", created.PeriodDate.Format("2006-01"),
	)
	return created, details, nil
}

// groupByMonth splits ordered dates into runs sharing a calendar month.
func groupByMonth(dates []time.Time) [][]time.Time {
	var groups [][]time.Time
	for _, d := range dates {
		n := len(groups)
		if n > 0 {
			last := groups[n-1][0]
			if last.Year() == d.Year() && last.Month() == d.Month() {
				groups[n-1] = append(groups[n-1], d)
				continue
			}
		}
		groups = append(groups, []time.Time{d})
	}
	return groups
}
