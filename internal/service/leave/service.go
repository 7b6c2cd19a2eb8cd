package leave

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/medas/intern-tracker-go/internal/domain/intern"
	"github.com/medas/intern-tracker-go/internal/domain/leave"
	"github.com/medas/intern-tracker-go/internal/domain/user"
	"github.com/medas/intern-tracker-go/internal/pkg/database"
	"github.com/medas/intern-tracker-go/internal/pkg/idgen"
	"github.com/medas/intern-tracker-go/internal/pkg/validator"
	"github.com/medas/intern-tracker-go/internal/pkg/workday"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRequestRepository
	intern.InternRepository
	approval.HistoryRepository
	reflector leave.TimesheetReflector
	calendar  workday.Calendar
	newID     func() string
}

func NewLeaveService(
	tx database.Transactor,
	leaveRequestRepository leave.LeaveRequestRepository,
	internRepository intern.InternRepository,
	historyRepository approval.HistoryRepository,
	reflector leave.TimesheetReflector,
	calendar workday.Calendar,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveRequestRepository: leaveRequestRepository,
		InternRepository:       internRepository,
		HistoryRepository:      historyRepository,
		reflector:              reflector,
		calendar:               calendar,
		newID:                  idgen.New,
	}
}

// CreateLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, actor user.Actor, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if actor.IsPersonnelAffairsOnly() {
		return leave.LeaveRequestResponse{}, fmt.Errorf("%w: personnel affairs cannot create leave requests", user.ErrInsufficientPermissions)
	}
	if actor.IsInternOnly() && !actor.OwnsIntern(req.InternID) {
		return leave.LeaveRequestResponse{}, validator.New("intern_id", "you can only create leave requests for yourself")
	}
	if err := user.Authorize(actor, user.PermissionLeaveCreate, user.Resource{OwnerInternID: req.InternID}); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	owner, err := s.InternRepository.GetByID(ctx, req.InternID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get intern: %w", err)
	}
	if !owner.IsActive {
		return leave.LeaveRequestResponse{}, intern.ErrInternInactive
	}

	start, end := req.Interval()
	start, end = s.calendar.Local(start), s.calendar.Local(end)
	if err := s.validateStart(start); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	days, hours := workday.Duration(start, end)
	request := leave.LeaveRequest{
		ID:                       s.newID(),
		InternID:                 owner.ID,
		LeaveType:                leave.LeaveType(req.LeaveType),
		StartAt:                  start,
		EndAt:                    end,
		Reason:                   req.Reason,
		TotalDays:                days,
		TotalHours:               hours,
		Status:                   approval.StatusPending,
		ShouldReflectToTimesheet: req.Reflect(),
	}

	// Created on someone else's behalf
	if !actor.OwnsIntern(owner.ID) {
		by := actor.DisplayName()
		request.IsManualEntry = true
		request.ManualEntryBy = &by
	}

	var created leave.LeaveRequest
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.checkConflict(txCtx, request.InternID, start, end, ""); err != nil {
			return err
		}
		created, err = s.LeaveRequestRepository.Create(txCtx, request)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	created.InternName = &owner.FullName
	return leave.NewLeaveRequestResponse(created), nil
}

// UpdateLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) UpdateLeaveRequest(ctx context.Context, actor user.Actor, req leave.UpdateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var updated leave.LeaveRequest
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.LeaveRequestRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if err := user.Authorize(actor, user.PermissionLeaveEdit, user.Resource{OwnerInternID: current.InternID, Status: current.Status}); err != nil {
			return err
		}
		if !current.IsEditable() {
			return leave.ErrLeaveRequestNotEditable
		}
		if req.Version != nil && *req.Version != current.Version {
			return leave.ErrLeaveRequestStale
		}

		if req.LeaveType != nil {
			current.LeaveType = leave.LeaveType(*req.LeaveType)
		}
		if req.Reason != nil {
			current.Reason = *req.Reason
		}
		if req.ShouldReflectToTimesheet != nil {
			current.ShouldReflectToTimesheet = *req.ShouldReflectToTimesheet
		}

		start, end := s.calendar.Local(current.StartAt), s.calendar.Local(current.EndAt)
		if req.StartAt != nil {
			parsed, _ := validator.IsValidDateTime(*req.StartAt)
			start = s.calendar.Local(parsed)
			if err := s.validateStart(start); err != nil {
				return err
			}
		}
		if req.EndAt != nil {
			parsed, _ := validator.IsValidDateTime(*req.EndAt)
			end = s.calendar.Local(parsed)
		}
		if end.Before(start) {
			return validator.New("end_at", "end_at must not be before start_at")
		}
		if err := s.checkConflict(txCtx, current.InternID, start, end, current.ID); err != nil {
			return err
		}

		current.StartAt = start
		current.EndAt = end
		current.TotalDays, current.TotalHours = workday.Duration(start, end)

		previous := current.Status
		if previous == approval.StatusRevision {
			current.Status = approval.StatusPending
			current.ClearApproval()
		}

		updated, err = s.LeaveRequestRepository.Update(txCtx, current)
		if err != nil {
			return err
		}

		if previous != updated.Status {
			return s.recordHistory(txCtx, updated.ID, previous, updated.Status, actor, nil)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return leave.NewLeaveRequestResponse(updated), nil
}

// DeleteLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) DeleteLeaveRequest(ctx context.Context, actor user.Actor, id string) error {
	return s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.LeaveRequestRepository.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := user.Authorize(actor, user.PermissionLeaveDelete, user.Resource{OwnerInternID: current.InternID, Status: current.Status}); err != nil {
			return err
		}
		return s.LeaveRequestRepository.Delete(txCtx, id)
	})
}

// GetLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, actor user.Actor, id string) (leave.LeaveRequestResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := user.Authorize(actor, user.PermissionLeaveView, user.Resource{OwnerInternID: request.InternID}); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(request), nil
}

// ListLeaveRequests implements leave.LeaveService. Interns only ever see their own requests.
func (s *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, actor user.Actor, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	if !user.HasAnyRolePermission(actor, user.PermissionLeaveView) {
		if actor.InternID == nil {
			return leave.ListLeaveRequestResponse{}, fmt.Errorf("%w: %s", user.ErrInsufficientPermissions, user.PermissionLeaveView)
		}
		filter.InternID = actor.InternID
	}

	requests, total, err := s.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to get leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}

	return leave.ListLeaveRequestResponse{
		TotalCount:    total,
		Page:          filter.Page,
		Limit:         filter.Limit,
		TotalPages:    int(math.Ceil(float64(total) / float64(filter.Limit))),
		LeaveRequests: responses,
	}, nil
}

// GetLeaveRequestHistory implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeaveRequestHistory(ctx context.Context, actor user.Actor, id string) ([]approval.HistoryResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Authorize(actor, user.PermissionLeaveView, user.Resource{OwnerInternID: request.InternID}); err != nil {
		return nil, err
	}

	entries, err := s.HistoryRepository.ListByReference(ctx, approval.ReferenceLeaveRequest, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get approval history: %w", err)
	}
	return approval.NewHistoryResponses(entries), nil
}

// validateStart rejects a start date before today. Only the date part counts.
func (s *LeaveServiceImpl) validateStart(start time.Time) error {
	if workday.DateOf(start).Before(s.calendar.Today()) {
		return validator.New("start_at", "start date cannot be in the past")
	}
	return nil
}

func (s *LeaveServiceImpl) checkConflict(ctx context.Context, internID string, start, end time.Time, excludeID string) error {
	conflict, err := s.LeaveRequestRepository.FindOverlapping(ctx, internID, start, end, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check overlapping leave requests: %w", err)
	}
	if conflict != nil {
		return &leave.OverlapError{
			ConflictingID: conflict.ID,
			Start:         s.calendar.Local(conflict.StartAt),
			End:           s.calendar.Local(conflict.EndAt),
		}
	}
	return nil
}

func (s *LeaveServiceImpl) recordHistory(ctx context.Context, id string, previous, next approval.Status, actor user.Actor, note *string) error {
	approverID := actor.UserID
	err := s.HistoryRepository.Create(ctx, approval.History{
		ID:             s.newID(),
		ReferenceType:  approval.ReferenceLeaveRequest,
		ReferenceID:    id,
		PreviousStatus: previous,
		NewStatus:      next,
		ApproverID:     &approverID,
		ApproverName:   actor.DisplayName(),
		Note:           note,
		CreatedAt:      s.calendar.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to record approval history: %w", err)
	}
	return nil
}
