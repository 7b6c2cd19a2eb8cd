package leave

import (
	"context"
	"log/slog"
	"strings"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/medas/intern-tracker-go/internal/domain/leave"
	"github.com/medas/intern-tracker-go/internal/domain/user"
	"github.com/medas/intern-tracker-go/internal/pkg/validator"
)

// ApproveLeaveRequest implements leave.LeaveService. The approval commits
// before the leave is reflected onto timesheets; reflection failures are
// logged and never undo it.
func (s *LeaveServiceImpl) ApproveLeaveRequest(ctx context.Context, actor user.Actor, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	approved, err := s.decide(ctx, actor, req, approval.StatusApproved, func(current leave.LeaveRequest) error {
		if !current.Status.IsOpen() {
			return leave.ErrLeaveRequestAlreadyProcessed
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if approved.ShouldReflectToTimesheet {
		s.reflect(context.WithoutCancel(ctx), approved, actor)
	}

	return leave.NewLeaveRequestResponse(approved), nil
}

// RejectLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) RejectLeaveRequest(ctx context.Context, actor user.Actor, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if validator.IsBlank(req.Note) {
		return leave.LeaveRequestResponse{}, validator.New("note", "a reason is required to reject a leave request")
	}

	rejected, err := s.decide(ctx, actor, req, approval.StatusRejected, func(current leave.LeaveRequest) error {
		if !current.Status.IsOpen() {
			return leave.ErrLeaveRequestAlreadyProcessed
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(rejected), nil
}

// RequestRevision implements leave.LeaveService.
func (s *LeaveServiceImpl) RequestRevision(ctx context.Context, actor user.Actor, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	revised, err := s.decide(ctx, actor, req, approval.StatusRevision, func(current leave.LeaveRequest) error {
		if current.Status != approval.StatusPending {
			return leave.ErrRevisionNotAllowed
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(revised), nil
}

// decide runs one approver transition and its history entry as a unit.
// A guard failure leaves both the request and its history untouched.
func (s *LeaveServiceImpl) decide(
	ctx context.Context,
	actor user.Actor,
	req leave.DecisionRequest,
	next approval.Status,
	guard func(current leave.LeaveRequest) error,
) (leave.LeaveRequest, error) {
	var note *string
	if !validator.IsBlank(req.Note) {
		trimmed := strings.TrimSpace(*req.Note)
		note = &trimmed
	}

	var decided leave.LeaveRequest
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.LeaveRequestRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if err := user.Authorize(actor, user.PermissionLeaveDecide, user.Resource{OwnerInternID: current.InternID, Status: current.Status}); err != nil {
			return err
		}
		if err := guard(current); err != nil {
			return err
		}

		previous := current.Status
		now := s.calendar.Now()
		approverID, approverName := actor.UserID, actor.DisplayName()

		current.Status = next
		current.ApproverID = &approverID
		current.ApproverName = &approverName
		current.ApprovalDate = &now
		current.ApprovalNote = note

		decided, err = s.LeaveRequestRepository.Update(txCtx, current)
		if err != nil {
			return err
		}
		return s.recordHistory(txCtx, decided.ID, previous, next, actor, note)
	})
	return decided, err
}

func (s *LeaveServiceImpl) reflect(ctx context.Context, request leave.LeaveRequest, actor user.Actor) {
	if s.reflector == nil {
		return
	}

	defer func() {
		if p := recover(); p != nil {
			slog.Error("leave reflection panicked",
				"leave_request_id", request.ID,
				"intern_id", request.InternID,
				"panic", p,
			)
		}
	}()

	if err := s.reflector.ReflectApprovedLeave(ctx, request, actor.UserID, actor.DisplayName()); err != nil {
		slog.Error("failed to reflect approved leave to timesheet",
			"leave_request_id", request.ID,
			"intern_id", request.InternID,
			"error", err,
		)
	}
}
