package timesheet

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/medas/intern-tracker-go/internal/domain/intern"
	"github.com/medas/intern-tracker-go/internal/domain/leave"
	"github.com/medas/intern-tracker-go/internal/domain/timesheet"
	"github.com/medas/intern-tracker-go/internal/domain/user"
	"github.com/medas/intern-tracker-go/internal/pkg/database"
	"github.com/medas/intern-tracker-go/internal/pkg/idgen"
	"github.com/medas/intern-tracker-go/internal/pkg/validator"
	"github.com/medas/intern-tracker-go/internal/pkg/workday"
	"github.com/shopspring/decimal"
)

// TimesheetServiceImpl also reflects approved leave onto timesheets, see reconcile.go.
type TimesheetServiceImpl struct {
	tx database.Transactor
	timesheet.TimesheetRepository
	timesheet.TimesheetDetailRepository
	intern.InternRepository
	leave.LeaveRequestRepository
	approval.HistoryRepository
	calendar workday.Calendar
	newID    func() string
}

func NewTimesheetService(
	tx database.Transactor,
	timesheetRepository timesheet.TimesheetRepository,
	detailRepository timesheet.TimesheetDetailRepository,
	internRepository intern.InternRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	historyRepository approval.HistoryRepository,
	calendar workday.Calendar,
) *TimesheetServiceImpl {
	return &TimesheetServiceImpl{
		tx:                        tx,
		TimesheetRepository:       timesheetRepository,
		TimesheetDetailRepository: detailRepository,
		InternRepository:          internRepository,
		LeaveRequestRepository:    leaveRequestRepository,
		HistoryRepository:         historyRepository,
		calendar:                  calendar,
		newID:                     idgen.New,
	}
}

// CreateTimesheet implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) CreateTimesheet(ctx context.Context, actor user.Actor, req timesheet.CreateTimesheetRequest) (timesheet.TimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	if err := user.Authorize(actor, user.PermissionTimesheetCreate, user.Resource{OwnerInternID: req.InternID}); err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	owner, err := s.InternRepository.GetByID(ctx, req.InternID)
	if err != nil {
		return timesheet.TimesheetResponse{}, fmt.Errorf("failed to get intern: %w", err)
	}
	if !owner.IsActive {
		return timesheet.TimesheetResponse{}, intern.ErrInternInactive
	}

	month := time.Month(req.Month)
	var created timesheet.Timesheet
	var details []timesheet.TimesheetDetail
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.TimesheetRepository.FindByInternAndPeriod(txCtx, owner.ID, req.Year, month)
		if err != nil {
			return err
		}
		if existing != nil {
			return timesheet.ErrTimesheetAlreadyExists
		}

		sheet := s.newSheet(owner.ID, req.Year, month)
		if req.IsManualEntry {
			by := actor.DisplayName()
			sheet.IsManualEntry = true
			sheet.ManualEntryBy = &by
		}

		details = s.defaultDetails(sheet.ID, req.Year, month)
		if err := s.applyApprovedLeave(txCtx, owner.ID, req.Year, month, details); err != nil {
			return err
		}
		sheet.ApplyTotals(details)

		created, err = s.TimesheetRepository.Create(txCtx, sheet)
		if err != nil {
			return err
		}
		return s.TimesheetDetailRepository.CreateBatch(txCtx, details)
	})
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	created.InternName = &owner.FullName
	created.InternshipType = owner.InternshipType
	return timesheet.NewTimesheetResponse(created, details), nil
}

// GetTimesheet implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) GetTimesheet(ctx context.Context, actor user.Actor, id string) (timesheet.TimesheetResponse, error) {
	sheet, err := s.TimesheetRepository.GetByID(ctx, id)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	if err := user.Authorize(actor, user.PermissionTimesheetView, user.Resource{OwnerInternID: sheet.InternID}); err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	details, err := s.TimesheetDetailRepository.ListByTimesheetID(ctx, id)
	if err != nil {
		return timesheet.TimesheetResponse{}, fmt.Errorf("failed to get timesheet details: %w", err)
	}
	if details == nil {
		details = []timesheet.TimesheetDetail{}
	}
	return timesheet.NewTimesheetResponse(sheet, details), nil
}

// ListTimesheets implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) ListTimesheets(ctx context.Context, actor user.Actor, filter timesheet.TimesheetFilter) (timesheet.ListTimesheetResponse, error) {
	if err := filter.Validate(); err != nil {
		return timesheet.ListTimesheetResponse{}, err
	}

	if !user.HasAnyRolePermission(actor, user.PermissionTimesheetView) {
		if actor.InternID == nil {
			return timesheet.ListTimesheetResponse{}, fmt.Errorf("%w: %s", user.ErrInsufficientPermissions, user.PermissionTimesheetView)
		}
		filter.InternID = actor.InternID
	}

	sheets, total, err := s.TimesheetRepository.List(ctx, filter)
	if err != nil {
		return timesheet.ListTimesheetResponse{}, fmt.Errorf("failed to get timesheets: %w", err)
	}

	responses := make([]timesheet.TimesheetResponse, 0, len(sheets))
	for _, t := range sheets {
		responses = append(responses, timesheet.NewTimesheetResponse(t, nil))
	}

	return timesheet.ListTimesheetResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Timesheets: responses,
	}, nil
}

// UpdateDetail implements timesheet.TimesheetService. Any edit of a sheet
// in revision sends it back to pending.
func (s *TimesheetServiceImpl) UpdateDetail(ctx context.Context, actor user.Actor, req timesheet.UpdateDetailRequest) (timesheet.TimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	var updated timesheet.Timesheet
	var details []timesheet.TimesheetDetail
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		detail, err := s.TimesheetDetailRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		sheet, err := s.TimesheetRepository.GetByID(txCtx, detail.TimesheetID)
		if err != nil {
			return err
		}
		if err := user.Authorize(actor, user.PermissionTimesheetEditDetail, user.Resource{OwnerInternID: sheet.InternID, Status: sheet.Status}); err != nil {
			return err
		}
		if req.Version != nil && *req.Version != sheet.Version {
			return timesheet.ErrTimesheetStale
		}

		if err := applyDetailChanges(&detail, req); err != nil {
			return err
		}
		if err := s.TimesheetDetailRepository.Update(txCtx, detail); err != nil {
			return err
		}

		details, err = s.TimesheetDetailRepository.ListByTimesheetID(txCtx, sheet.ID)
		if err != nil {
			return fmt.Errorf("failed to get timesheet details: %w", err)
		}
		sheet.ApplyTotals(details)

		previous := sheet.Status
		if previous == approval.StatusRevision {
			sheet.Status = approval.StatusPending
			sheet.ClearApproval()
		}

		updated, err = s.TimesheetRepository.Update(txCtx, sheet)
		if err != nil {
			return err
		}
		if previous != updated.Status {
			return s.recordHistory(txCtx, updated.ID, previous, updated.Status, actor.UserID, actor.DisplayName(), nil)
		}
		return nil
	})
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	return timesheet.NewTimesheetResponse(updated, details), nil
}

// DeleteTimesheet implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) DeleteTimesheet(ctx context.Context, actor user.Actor, id string) error {
	return s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		sheet, err := s.TimesheetRepository.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := user.Authorize(actor, user.PermissionTimesheetDelete, user.Resource{OwnerInternID: sheet.InternID, Status: sheet.Status}); err != nil {
			return err
		}
		return s.TimesheetRepository.Delete(txCtx, id)
	})
}

// GetTimesheetHistory implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) GetTimesheetHistory(ctx context.Context, actor user.Actor, id string) ([]approval.HistoryResponse, error) {
	sheet, err := s.TimesheetRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Authorize(actor, user.PermissionTimesheetView, user.Resource{OwnerInternID: sheet.InternID}); err != nil {
		return nil, err
	}

	entries, err := s.HistoryRepository.ListByReference(ctx, approval.ReferenceTimesheet, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get approval history: %w", err)
	}
	return approval.NewHistoryResponses(entries), nil
}

func (s *TimesheetServiceImpl) newSheet(internID string, year int, month time.Month) timesheet.Timesheet {
	from, _ := s.calendar.MonthBounds(year, month)
	return timesheet.Timesheet{
		ID:                 s.newID(),
		InternID:           internID,
		PeriodDate:         from,
		Status:             approval.StatusPending,
		TotalTrainingHours: decimal.Zero,
	}
}

// defaultDetails builds one row per calendar day of the month.
func (s *TimesheetServiceImpl) defaultDetails(sheetID string, year int, month time.Month) []timesheet.TimesheetDetail {
	days := workday.MonthDays(year, month, s.calendar.Location)
	details := make([]timesheet.TimesheetDetail, 0, len(days))
	for _, day := range days {
		details = append(details, timesheet.NewDefaultDetail(s.newID(), sheetID, day))
	}
	return details
}

// applyApprovedLeave pre-applies approved, reflect-enabled leave to a new
// month. A day with a full leave day or more is marked absent.
func (s *TimesheetServiceImpl) applyApprovedLeave(ctx context.Context, internID string, year int, month time.Month, details []timesheet.TimesheetDetail) error {
	from, to := s.calendar.MonthBounds(year, month)
	approved, err := s.LeaveRequestRepository.ListReflectableApproved(ctx, internID, from, to)
	if err != nil {
		return fmt.Errorf("failed to get approved leave: %w", err)
	}
	if len(approved) == 0 {
		return nil
	}

	for i := range details {
		day := details[i].WorkDate
		total := decimal.Zero
		for _, l := range approved {
			hours := workday.LeaveHoursOn(s.calendar.Local(l.StartAt), s.calendar.Local(l.EndAt), day)
			if hours.IsPositive() {
				total = total.Add(hours)
				details[i].AddLeaveInfo(l.LeaveType.Description())
			}
		}
		if !total.IsPositive() {
			continue
		}
		details[i].LeaveHours = total
		if total.GreaterThanOrEqual(workday.LeaveDayHours) {
			details[i].MarkAbsent()
		}
	}
	return nil
}

func applyDetailChanges(d *timesheet.TimesheetDetail, req timesheet.UpdateDetailRequest) error {
	if req.IsPresent != nil {
		switch {
		case !*req.IsPresent:
			d.MarkAbsent()
		case !d.IsPresent:
			d.MarkPresent()
		}
	}
	if req.WorkLocation != nil {
		d.WorkLocation = timesheet.WorkLocation(*req.WorkLocation)
	}
	if req.StartTime != nil {
		t, _ := workday.ParseTimeOfDay(*req.StartTime)
		d.StartTime = &t
	}
	if req.EndTime != nil {
		t, _ := workday.ParseTimeOfDay(*req.EndTime)
		d.EndTime = &t
	}
	if req.LeaveInfo != nil {
		d.LeaveInfo = optionalText(*req.LeaveInfo)
	}
	if req.LeaveHours != nil {
		d.LeaveHours = *req.LeaveHours
	}
	if req.TrainingInfo != nil {
		d.TrainingInfo = optionalText(*req.TrainingInfo)
	}
	if req.TrainingHours != nil {
		d.TrainingHours = *req.TrainingHours
	}
	if req.HasMealAllowance != nil {
		d.HasMealAllowance = *req.HasMealAllowance
	}
	if req.Notes != nil {
		d.Notes = optionalText(*req.Notes)
	}

	// An absent day carries no hours and no meal allowance.
	if !d.IsPresent {
		d.MarkAbsent()
		return nil
	}
	if d.StartTime != nil && d.EndTime != nil && !d.StartTime.Before(*d.EndTime) {
		return validator.New("end_time", "end_time must be after start_time")
	}
	return nil
}

func optionalText(s string) *string {
	if validator.IsEmpty(s) {
		return nil
	}
	return &s
}

func (s *TimesheetServiceImpl) recordHistory(ctx context.Context, id string, previous, next approval.Status, approverID, approverName string, note *string) error {
	var approverRef *string
	if approverID != "" {
		approverRef = &approverID
	}
	err := s.HistoryRepository.Create(ctx, approval.History{
		ID:             s.newID(),
		ReferenceType:  approval.ReferenceTimesheet,
		ReferenceID:    id,
		PreviousStatus: previous,
		NewStatus:      next,
		ApproverID:     approverRef,
		ApproverName:   approverName,
		Note:           note,
		CreatedAt:      s.calendar.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to record approval history: %w", err)
	}
	return nil
}
